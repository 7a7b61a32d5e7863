package domain

import "time"

// MaxProjectsPerUser caps how many projects a single account may own.
const MaxProjectsPerUser = 4

// Project groups tasks under a single owning user. UserID is fixed at
// creation and is the root of every ownership check.
type Project struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *Project) OwnedBy(userID string) bool {
	return p != nil && userID != "" && p.UserID == userID
}
