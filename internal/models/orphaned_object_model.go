package models

import "time"

// OrphanedObject is a stored file whose content row was never written and
// whose compensating delete also failed.
type OrphanedObject struct {
	ID        int64     `db:"id" json:"id"`
	ObjectKey string    `db:"object_key" json:"object_key"`
	Reason    string    `db:"reason" json:"reason"`
	Attempts  int       `db:"attempts" json:"attempts"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
