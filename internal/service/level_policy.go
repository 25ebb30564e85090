package service

import (
	"github.com/dtroode/levelkeeper/internal/model"
)

// LevelPolicy decides whether and how a user's level advances.
type LevelPolicy interface {
	CanUpgrade(user model.User) (bool, error)
	Upgrade(user *model.User) error
}

var _ LevelPolicy = DefaultLevelPolicy{}

// DefaultLevelPolicy promotes BASIC users with enough logins and SILVER users
// with enough recommendations. GOLD is terminal.
type DefaultLevelPolicy struct{}

// CanUpgrade evaluates the user's current level only; it never looks past the next level.
func (DefaultLevelPolicy) CanUpgrade(user model.User) (bool, error) {
	switch user.Level {
	case model.LevelBasic:
		return user.Login >= model.MinLoginForSilver, nil
	case model.LevelSilver:
		return user.Recommend >= model.MinRecommendForGold, nil
	case model.LevelGold:
		return false, nil
	default:
		return false, user.Level.Validate()
	}
}

func (DefaultLevelPolicy) Upgrade(user *model.User) error {
	return user.Upgrade()
}
