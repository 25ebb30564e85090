package model

import (
	"fmt"
	"strings"
)

const (
	// MinLoginForSilver is the login count a BASIC user needs to become SILVER.
	MinLoginForSilver = 50
	// MinRecommendForGold is the recommend count a SILVER user needs to become GOLD.
	MinRecommendForGold = 30
)

// Level is a membership tier. The integer values are the ones stored in the users table.
type Level int

const (
	// LevelUnset is the zero value; it is replaced with LevelBasic when a user is added.
	LevelUnset Level = 0
	// LevelBasic is the entry tier.
	LevelBasic Level = 1
	// LevelSilver is granted for login activity.
	LevelSilver Level = 2
	// LevelGold is granted for recommendations and is terminal.
	LevelGold Level = 3
)

// Levels lists every valid level in ascending order.
var Levels = []Level{LevelBasic, LevelSilver, LevelGold}

// Validate reports ErrInvalidLevel for anything outside BASIC, SILVER and GOLD.
func (l Level) Validate() error {
	switch l {
	case LevelBasic, LevelSilver, LevelGold:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidLevel, int(l))
	}
}

// Next returns the level that follows l.
func (l Level) Next() (Level, error) {
	switch l {
	case LevelBasic:
		return LevelSilver, nil
	case LevelSilver:
		return LevelGold, nil
	case LevelGold:
		return LevelUnset, fmt.Errorf("%w: %s has no next level", ErrIllegalState, l)
	default:
		return LevelUnset, fmt.Errorf("%w: %d", ErrInvalidLevel, int(l))
	}
}

func (l Level) String() string {
	switch l {
	case LevelBasic:
		return "BASIC"
	case LevelSilver:
		return "SILVER"
	case LevelGold:
		return "GOLD"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ParseLevel converts a level name (case-insensitive) into a Level.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}
	return LevelUnset, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}
