package services

import (
	"testing"

	"github.com/suraj371k/trello/models"

	"github.com/stretchr/testify/assert"
)

func TestPickLeastLoaded(t *testing.T) {
	alice := models.User{ID: "u-alice", Username: "alice"}
	bob := models.User{ID: "u-bob", Username: "bob"}
	carol := models.User{ID: "u-carol", Username: "carol"}

	t.Run("picks the user with the fewest active tasks", func(t *testing.T) {
		users := []models.User{alice, bob, carol}
		counts := map[string]int64{"u-alice": 1, "u-bob": 0, "u-carol": 3}

		pick, count := PickLeastLoaded(users, counts)
		assert.Equal(t, "u-bob", pick.ID)
		assert.Equal(t, int64(0), count)
	})

	t.Run("absent ids count as zero", func(t *testing.T) {
		users := []models.User{alice, bob}
		counts := map[string]int64{"u-alice": 2}

		pick, count := PickLeastLoaded(users, counts)
		assert.Equal(t, "u-bob", pick.ID)
		assert.Equal(t, int64(0), count)
	})

	t.Run("first user in enumeration order wins ties", func(t *testing.T) {
		users := []models.User{alice, bob, carol}
		counts := map[string]int64{}

		pick, _ := PickLeastLoaded(users, counts)
		assert.Equal(t, "u-alice", pick.ID)
	})

	t.Run("single user", func(t *testing.T) {
		pick, count := PickLeastLoaded([]models.User{carol}, map[string]int64{"u-carol": 9})
		assert.Equal(t, "u-carol", pick.ID)
		assert.Equal(t, int64(9), count)
	})
}
