package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dtroode/levelkeeper/internal/logger"
	"github.com/dtroode/levelkeeper/internal/model"
)

// Membership manages users and runs the level upgrade batch.
type Membership struct {
	userStore model.UserStore
	tx        model.Transactor
	notifier  model.Notifier
	policy    LevelPolicy
	observer  model.UpgradeObserver
	logger    *logger.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// Option customizes a Membership.
type Option func(*Membership)

// WithLevelPolicy replaces DefaultLevelPolicy.
func WithLevelPolicy(policy LevelPolicy) Option {
	return func(m *Membership) { m.policy = policy }
}

// WithObserver registers an observer that is told about every batch run.
func WithObserver(observer model.UpgradeObserver) Option {
	return func(m *Membership) { m.observer = observer }
}

func NewMembership(
	userStore model.UserStore,
	tx model.Transactor,
	notifier model.Notifier,
	logger *logger.Logger,
	opts ...Option,
) *Membership {
	m := &Membership{
		userStore: userStore,
		tx:        tx,
		notifier:  notifier,
		policy:    DefaultLevelPolicy{},
		logger:    logger,
		tracer:    otel.Tracer("levelkeeper/service"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add stores a new user. A user without a level starts at BASIC.
func (m *Membership) Add(ctx context.Context, user model.User) error {
	if user.Level == model.LevelUnset {
		user.Level = model.LevelBasic
	}

	if err := validateUser(user); err != nil {
		m.logger.Info("Membership service: rejected user",
			"user_id", user.ID,
			"error", err.Error())
		return err
	}

	if err := m.userStore.Add(ctx, user); err != nil {
		m.logger.Error("Membership service: failed to add user",
			"user_id", user.ID,
			"error", err.Error())
		return fmt.Errorf("failed to add user: %w", err)
	}

	m.logger.Info("Membership service: user added",
		"user_id", user.ID,
		"level", user.Level.String())

	return nil
}

// Get returns the user with the given id.
func (m *Membership) Get(ctx context.Context, id string) (model.User, error) {
	user, err := m.userStore.Get(ctx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// List returns every user ordered by id.
func (m *Membership) List(ctx context.Context) ([]model.User, error) {
	users, err := m.userStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpgradeLevels re-evaluates every user inside one transaction. Eligible users
// are upgraded, persisted and notified in ascending id order. Any failure rolls
// back the whole batch and is returned; no level change survives a failed run.
func (m *Membership) UpgradeLevels(ctx context.Context) (model.UpgradeResult, error) {
	result := model.UpgradeResult{
		RunID:     uuid.New(),
		StartedAt: m.now(),
	}
	log := m.logger.With("run_id", result.RunID.String())

	ctx, span := m.tracer.Start(ctx, "membership.upgrade_levels",
		trace.WithAttributes(attribute.String("run.id", result.RunID.String())),
	)
	defer span.End()

	log.Debug("Membership service: starting level upgrade batch")

	var (
		scanned  int
		upgraded []model.User
	)
	err := m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		users, err := m.userStore.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to get users: %w", err)
		}
		scanned = len(users)

		for _, user := range users {
			ok, err := m.policy.CanUpgrade(user)
			if err != nil {
				return fmt.Errorf("failed to evaluate user %q: %w", user.ID, err)
			}
			if !ok {
				continue
			}

			if err := m.upgradeLevel(ctx, &user); err != nil {
				return err
			}
			upgraded = append(upgraded, user)

			log.Info("Membership service: user upgraded",
				"user_id", user.ID,
				"level", user.Level.String())
		}

		return nil
	})

	result.FinishedAt = m.now()
	result.Scanned = scanned

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "level upgrade batch rolled back")
		log.Error("Membership service: level upgrade batch rolled back",
			"scanned", scanned,
			"error", err.Error())
		m.notifyObserver(result, err)
		return result, err
	}

	result.Upgraded = upgraded
	span.SetAttributes(
		attribute.Int("users.scanned", scanned),
		attribute.Int("users.upgraded", len(upgraded)),
	)
	log.Info("Membership service: level upgrade batch committed",
		"scanned", scanned,
		"upgraded", len(upgraded),
		"duration", result.FinishedAt.Sub(result.StartedAt))
	m.notifyObserver(result, nil)

	return result, nil
}

func (m *Membership) upgradeLevel(ctx context.Context, user *model.User) error {
	if err := m.policy.Upgrade(user); err != nil {
		return fmt.Errorf("failed to upgrade user %q: %w", user.ID, err)
	}

	if err := m.userStore.Update(ctx, *user); err != nil {
		return fmt.Errorf("failed to save user %q: %w", user.ID, err)
	}

	if err := m.notifier.Notify(ctx, *user); err != nil {
		return fmt.Errorf("failed to notify user %q: %w", user.ID, err)
	}

	return nil
}

func (m *Membership) notifyObserver(result model.UpgradeResult, err error) {
	if m.observer != nil {
		m.observer.BatchFinished(result, err)
	}
}

func validateUser(user model.User) error {
	if user.ID == "" {
		return fmt.Errorf("%w: empty id", model.ErrInvalidUser)
	}
	if user.Login < 0 || user.Recommend < 0 {
		return fmt.Errorf("%w: negative activity counters for %q", model.ErrInvalidUser, user.ID)
	}
	return user.Level.Validate()
}
