package registration

import "time"

// Registration links a user to a tournament through their verified Riot
// account. Totals are mutated only through Repository.IncrementTotals.
type Registration struct {
	ID           string
	TournamentID string
	UserID       string
	PUUID        string
	Platform     string
	RegisteredAt time.Time
	TotalPoints  int
	TotalMatches int
}

// Verified reports whether the registration carries a usable account link.
func (r Registration) Verified() bool {
	return r.PUUID != "" && r.Platform != ""
}
