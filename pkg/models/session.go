package models

import "time"

// SessionRecord stores one breakdown/feedback session for a user.
type SessionRecord struct {
	ID        string    `db:"id"         json:"id"`
	UserID    string    `db:"user_id"    json:"user_id"`
	Prompt    string    `db:"prompt"     json:"prompt"`
	Breakdown string    `db:"breakdown"  json:"breakdown"`
	Feedback  string    `db:"feedback"   json:"feedback"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
