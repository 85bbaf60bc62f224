// Package events carries domain events from request handlers to live
// subscriber streams. Events are ephemeral: they exist only in transit
// through the bus and are never persisted.
package events

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Event is a domain event distributed to interested live connections.
// Every event is tagged with the project it belongs to; subscribers
// filter on that id.
type Event interface {
	// Project returns the id of the project the event belongs to.
	Project() uuid.UUID
	// Type returns the wire tag for the event variant.
	Type() string
}

// PipelineCreated is published after a CI pipeline has been generated
// and stored for a project.
type PipelineCreated struct {
	ProjectID  uuid.UUID `json:"project_id"`
	PipelineID uuid.UUID `json:"pipeline_id"`
}

func (e PipelineCreated) Project() uuid.UUID { return e.ProjectID }
func (e PipelineCreated) Type() string       { return "PipelineCreated" }

// SecurityFindingCreated is published after a security finding has been
// recorded for a project.
type SecurityFindingCreated struct {
	ProjectID   uuid.UUID `json:"project_id"`
	FindingID   uuid.UUID `json:"finding_id"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
}

func (e SecurityFindingCreated) Project() uuid.UUID { return e.ProjectID }
func (e SecurityFindingCreated) Type() string       { return "SecurityFindingCreated" }

type envelope struct {
	Type    string `json:"type"`
	Payload Event  `json:"payload"`
}

// Marshal encodes an event into its wire envelope:
// {"type": "<variant>", "payload": {...}}.
func Marshal(e Event) ([]byte, error) {
	return json.Marshal(envelope{Type: e.Type(), Payload: e})
}
