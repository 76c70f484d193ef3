package models

import "time"

// Every meaningful action, synchronous or asynchronous, gets an activity
// log row. Entity and entity_id are polymorphic so one table serves the
// whole application.
type ActivityLog struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Entity      string    `db:"entity"`
	EntityId    string    `db:"entity_id"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}
