package services

import "movimenta_server/models"

// lockedUsers returns the users held by a pending pairing they already confirmed.
func lockedUsers(pairings []models.Pairing) map[string]bool {
	locked := map[string]bool{}
	for _, p := range pairings {
		for _, id := range []string{p.User1, p.User2} {
			if p.Locks(id) {
				locked[id] = true
			}
		}
	}
	return locked
}

func withLock(p models.UserProfile, locked map[string]bool) models.UserProfile {
	p.Locked = locked[p.UserID]
	return p
}
