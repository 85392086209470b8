package util

import "github.com/google/uuid"

// NewScheduleID returns a random UUID string.
func NewScheduleID() string {
	return uuid.NewString()
}
