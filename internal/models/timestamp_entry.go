package models

import "time"

// TimestampEntry records when a report was created and last saved. Each
// report owns exactly one entry.
type TimestampEntry struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	DateCreated      *time.Time `json:"date_created"`
	DateOfLastChange *time.Time `json:"date_of_last_change"`
}
