package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/levelkeeper/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const uniqueViolation = "23505"

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Add(ctx context.Context, user model.User) error {
	query := `INSERT INTO users (id, name, password, email, level, login, recommend)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := conn(ctx, r.db).Exec(ctx, query,
		user.ID, user.Name, user.Password, user.Email, int(user.Level), user.Login, user.Recommend,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("user %q: %w", user.ID, model.ErrConflict)
		}
		return fmt.Errorf("failed to add user: %w", err)
	}

	return nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (model.User, error) {
	query := `SELECT id, name, password, email, level, login, recommend
			  FROM users WHERE id = $1`

	user, err := scanUser(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, fmt.Errorf("user %q: %w", id, model.ErrNotFound)
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]model.User, error) {
	query := `SELECT id, name, password, email, level, login, recommend
			  FROM users ORDER BY id`

	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user model.User) error {
	query := `UPDATE users SET name = $2, password = $3, email = $4, level = $5, login = $6, recommend = $7
			  WHERE id = $1`

	cmd, err := conn(ctx, r.db).Exec(ctx, query,
		user.ID, user.Name, user.Password, user.Email, int(user.Level), user.Login, user.Recommend,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("user %q: %w", user.ID, model.ErrNotFound)
	}

	return nil
}

func (r *UserRepository) DeleteAll(ctx context.Context) error {
	if _, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		user  model.User
		level int
	)
	err := row.Scan(&user.ID, &user.Name, &user.Password, &user.Email, &level, &user.Login, &user.Recommend)
	if err != nil {
		return model.User{}, err
	}
	user.Level = model.Level(level)
	return user, nil
}
