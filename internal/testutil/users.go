package testutil

import (
	"math"

	"github.com/dtroode/levelkeeper/internal/model"
)

// Users returns five users straddling the upgrade thresholds, ordered by id:
// bumjin stays BASIC, joytouch becomes SILVER, erwins stays SILVER,
// madnite1 becomes GOLD and green is already GOLD.
func Users() []model.User {
	return []model.User{
		{ID: "bumjin", Name: "Park Bumjin", Password: "p1", Email: "bumjin@email.com", Level: model.LevelBasic, Login: model.MinLoginForSilver - 1, Recommend: 0},
		{ID: "erwins", Name: "Shin Seunghan", Password: "p3", Email: "erwins@email.com", Level: model.LevelSilver, Login: 60, Recommend: model.MinRecommendForGold - 1},
		{ID: "green", Name: "Oh Mingyu", Password: "p5", Email: "green@email.com", Level: model.LevelGold, Login: 100, Recommend: math.MaxInt32},
		{ID: "joytouch", Name: "Kang Myungsung", Password: "p2", Email: "joytouch@email.com", Level: model.LevelBasic, Login: model.MinLoginForSilver, Recommend: 0},
		{ID: "madnite1", Name: "Lee Sangho", Password: "p4", Email: "madnite1@email.com", Level: model.LevelSilver, Login: 60, Recommend: model.MinRecommendForGold},
	}
}

// UserByID returns the fixture user with the given id.
func UserByID(id string) model.User {
	for _, u := range Users() {
		if u.ID == id {
			return u
		}
	}
	panic("testutil: unknown fixture user " + id)
}
