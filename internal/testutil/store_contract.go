package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/levelkeeper/internal/model"
)

// StoreFactory returns an empty store and the transactor that governs it.
type StoreFactory func(t *testing.T) (model.UserStore, model.Transactor)

// RunUserStoreContract checks the behaviour every UserStore implementation shares.
func RunUserStoreContract(t *testing.T, newStore StoreFactory) {
	t.Helper()
	ctx := context.Background()

	t.Run("add and get", func(t *testing.T) {
		store, _ := newStore(t)
		for _, u := range Users() {
			require.NoError(t, store.Add(ctx, u))
		}

		for _, u := range Users() {
			got, err := store.Get(ctx, u.ID)
			require.NoError(t, err)
			assert.Equal(t, u, got)
		}
	})

	t.Run("add duplicate", func(t *testing.T) {
		store, _ := newStore(t)
		u := UserByID("bumjin")
		require.NoError(t, store.Add(ctx, u))

		err := store.Add(ctx, u)
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("get missing", func(t *testing.T) {
		store, _ := newStore(t)
		_, err := store.Get(ctx, "unknown_id")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("get all ordered by id", func(t *testing.T) {
		store, _ := newStore(t)
		all, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)

		users := Users()
		for i := len(users) - 1; i >= 0; i-- {
			require.NoError(t, store.Add(ctx, users[i]))
		}

		all, err = store.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, users, all)
	})

	t.Run("update", func(t *testing.T) {
		store, _ := newStore(t)
		u := UserByID("bumjin")
		other := UserByID("joytouch")
		require.NoError(t, store.Add(ctx, u))
		require.NoError(t, store.Add(ctx, other))

		u.Name = "Oh Mingyu"
		u.Password = "springno6"
		u.Level = model.LevelGold
		u.Login = 1000
		u.Recommend = 999
		require.NoError(t, store.Update(ctx, u))

		got, err := store.Get(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u, got)

		untouched, err := store.Get(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, other, untouched)
	})

	t.Run("update missing", func(t *testing.T) {
		store, _ := newStore(t)
		err := store.Update(ctx, UserByID("green"))
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("delete all and count", func(t *testing.T) {
		store, _ := newStore(t)
		require.NoError(t, store.DeleteAll(ctx))
		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		for i, u := range Users() {
			require.NoError(t, store.Add(ctx, u))
			n, err = store.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, i+1, n)
		}

		require.NoError(t, store.DeleteAll(ctx))
		require.NoError(t, store.DeleteAll(ctx))
		n, err = store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("transaction commits", func(t *testing.T) {
		store, tx := newStore(t)
		u := UserByID("joytouch")
		require.NoError(t, store.Add(ctx, u))

		err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
			u.Level = model.LevelSilver
			return store.Update(ctx, u)
		})
		require.NoError(t, err)

		got, err := store.Get(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, model.LevelSilver, got.Level)
	})

	t.Run("transaction rolls back every change", func(t *testing.T) {
		store, tx := newStore(t)
		for _, u := range Users() {
			require.NoError(t, store.Add(ctx, u))
		}
		boom := errors.New("boom")

		err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
			for _, id := range []string{"bumjin", "joytouch"} {
				u, err := store.Get(ctx, id)
				if err != nil {
					return err
				}
				u.Level = model.LevelGold
				if err := store.Update(ctx, u); err != nil {
					return err
				}
			}
			if err := store.Add(ctx, model.User{ID: "newcomer", Level: model.LevelBasic}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		all, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, Users(), all)
	})

	t.Run("nested transaction joins outer", func(t *testing.T) {
		store, tx := newStore(t)
		u := UserByID("bumjin")
		require.NoError(t, store.Add(ctx, u))
		boom := errors.New("boom")

		err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
			err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
				u.Level = model.LevelSilver
				return store.Update(ctx, u)
			})
			if err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := store.Get(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, model.LevelBasic, got.Level)
	})

	t.Run("transaction rolls back on panic", func(t *testing.T) {
		store, tx := newStore(t)
		u := UserByID("joytouch")
		require.NoError(t, store.Add(ctx, u))

		assert.Panics(t, func() {
			_ = tx.WithinTransaction(ctx, func(ctx context.Context) error {
				u.Level = model.LevelSilver
				if err := store.Update(ctx, u); err != nil {
					return err
				}
				panic("boom")
			})
		})

		got, err := store.Get(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, model.LevelBasic, got.Level)
	})
}
