package domain

import "time"

// Organization groups agents in the dashboard. Membership is not enforced.
type Organization struct {
	ID        string
	Name      string
	Plan      string
	CreatedAt time.Time
}
