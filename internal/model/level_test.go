package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLevel_Next(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		want    Level
		wantErr error
	}{
		{name: "basic to silver", level: LevelBasic, want: LevelSilver},
		{name: "silver to gold", level: LevelSilver, want: LevelGold},
		{name: "gold is terminal", level: LevelGold, wantErr: ErrIllegalState},
		{name: "unset", level: LevelUnset, wantErr: ErrInvalidLevel},
		{name: "out of range", level: Level(7), wantErr: ErrInvalidLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.level.Next()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevel_InvalidErrorNamesValue(t *testing.T) {
	_, err := Level(42).Next()
	require.ErrorIs(t, err, ErrInvalidLevel)
	assert.Contains(t, err.Error(), "42")

	err = Level(-1).Validate()
	require.ErrorIs(t, err, ErrInvalidLevel)
	assert.Contains(t, err.Error(), "-1")
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "BASIC", LevelBasic.String())
	assert.Equal(t, "SILVER", LevelSilver.String())
	assert.Equal(t, "GOLD", LevelGold.String())
	assert.Equal(t, "Level(9)", Level(9).String())
}

func TestParseLevel(t *testing.T) {
	for _, l := range Levels {
		got, err := ParseLevel(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}

	got, err := ParseLevel("silver")
	require.NoError(t, err)
	assert.Equal(t, LevelSilver, got)

	_, err = ParseLevel("platinum")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestUser_Upgrade(t *testing.T) {
	for _, l := range Levels {
		next, err := l.Next()
		if err != nil {
			continue
		}
		u := User{ID: "u", Level: l, Login: 3, Recommend: 4}
		require.NoError(t, u.Upgrade())
		assert.Equal(t, next, u.Level)
		assert.Equal(t, 3, u.Login)
		assert.Equal(t, 4, u.Recommend)
	}

	gold := User{ID: "g", Level: LevelGold}
	err := gold.Upgrade()
	require.ErrorIs(t, err, ErrIllegalState)
	assert.Equal(t, LevelGold, gold.Level)
}

func TestLevel_NextIsStrictlyAscending(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := Level(rapid.IntRange(-5, 10).Draw(t, "level"))
		next, err := l.Next()
		if l.Validate() != nil {
			if err == nil {
				t.Fatalf("expected error for invalid level %d", int(l))
			}
			return
		}
		if l == LevelGold {
			if err == nil {
				t.Fatalf("gold must not have a next level")
			}
			return
		}
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", l, err)
		}
		if next != l+1 || next.Validate() != nil {
			t.Fatalf("next of %s is %s", l, next)
		}
	})
}

func TestNewRunReport(t *testing.T) {
	result := UpgradeResult{
		Scanned: 3,
		Upgraded: []User{
			{ID: "joytouch", Email: "joytouch@email.com", Level: LevelSilver},
			{ID: "madnite1", Email: "madnite1@email.com", Level: LevelGold},
		},
	}

	report := NewRunReport(result)
	assert.Equal(t, 3, report.Scanned)
	require.Len(t, report.Upgraded, 2)
	assert.Equal(t, UpgradedEntry{ID: "joytouch", Email: "joytouch@email.com", Level: "SILVER"}, report.Upgraded[0])
	assert.Equal(t, "GOLD", report.Upgraded[1].Level)
}
