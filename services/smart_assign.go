package services

import (
	"github.com/suraj371k/trello/models"
)

// PickLeastLoaded returns the user with the fewest active tasks and that
// count. Users must already be in a deterministic order (the task service
// enumerates them created_at ASC, id ASC); the first user at the minimum
// wins ties, which makes the pick total and repeatable.
//
// activeCounts maps user id to the number of Todo / In Progress tasks
// assigned to them; absent ids count as zero.
func PickLeastLoaded(users []models.User, activeCounts map[string]int64) (models.User, int64) {
	best := users[0]
	bestCount := activeCounts[best.ID]
	for _, u := range users[1:] {
		if c := activeCounts[u.ID]; c < bestCount {
			best = u
			bestCount = c
		}
	}
	return best, bestCount
}
