package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
//
// Implementations run their statements inside the transaction opened by the
// Transactor they belong to when ctx carries one.
type UserStore interface {
	Add(ctx context.Context, user User) error
	Get(ctx context.Context, id string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user User) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// Transactor demarcates an atomic unit of work. fn runs inside a transaction
// that is committed when fn returns nil and rolled back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier tells a user about a level change.
type Notifier interface {
	Notify(ctx context.Context, user User) error
}

// User represents a member and the activity counters the level is derived from.
type User struct {
	ID        string
	Name      string
	Password  string
	Email     string
	Level     Level
	Login     int
	Recommend int
}

// Upgrade moves the user to the next level. Only Level is changed.
func (u *User) Upgrade() error {
	next, err := u.Level.Next()
	if err != nil {
		return err
	}
	u.Level = next
	return nil
}

// UpgradeResult describes one batch run.
type UpgradeResult struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Scanned    int
	// Upgraded holds the upgraded users in the order they were read.
	Upgraded []User
}

// UpgradeObserver receives the outcome of every batch run.
type UpgradeObserver interface {
	BatchFinished(result UpgradeResult, err error)
}
