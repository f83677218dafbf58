package tracker

import "github.com/google/uuid"

// NewSessionID returns an identifier for one host process.
func NewSessionID() string {
	return uuid.NewString()
}
