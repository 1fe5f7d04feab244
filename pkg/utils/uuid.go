package utils

import "github.com/google/uuid"

// NewSessionID returns a short random identifier used to tag one run's log lines.
func NewSessionID() string {
	return uuid.NewString()[:8]
}
