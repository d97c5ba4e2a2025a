package core

import (
	"fmt"

	"github.com/google/uuid"
)

// TaskIDGenerator defines the interface for generating unique task IDs.
type TaskIDGenerator interface {
	GenerateTaskID() (string, error)
}

// uuidTaskIDGenerator produces version 7 UUIDs: a 48-bit millisecond
// timestamp followed by random bits, so IDs sort roughly by creation time
// and collisions within one store are negligible.
type uuidTaskIDGenerator struct{}

// NewTaskIDGenerator creates a TaskIDGenerator backed by UUIDv7.
func NewTaskIDGenerator() TaskIDGenerator {
	return uuidTaskIDGenerator{}
}

// GenerateTaskID returns a new UUIDv7 in its canonical string form.
func (uuidTaskIDGenerator) GenerateTaskID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating task id: %w", err)
	}
	return id.String(), nil
}
