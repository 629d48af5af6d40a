package auth

import "time"

// TrialStatus describes the time left on an account's free trial.
type TrialStatus struct {
	Active  bool      `json:"active"`
	EndsAt  time.Time `json:"endsAt"`
	Days    int       `json:"days"`
	Hours   int       `json:"hours"`
	Minutes int       `json:"minutes"`
	Seconds int       `json:"seconds"`
}

// NewTrialStatus breaks the time between now and endsAt into days, hours,
// minutes and seconds. An expired trial reports all zeros.
func NewTrialStatus(endsAt, now time.Time) TrialStatus {
	status := TrialStatus{EndsAt: endsAt}

	remaining := endsAt.Sub(now)
	if remaining <= 0 {
		return status
	}

	total := int(remaining / time.Second)
	status.Active = true
	status.Days = total / 86400
	status.Hours = total % 86400 / 3600
	status.Minutes = total % 3600 / 60
	status.Seconds = total % 60
	return status
}
