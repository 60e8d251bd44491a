package model

import "backend/internal/workflow"

// WorkflowEnvelope carries the workflow columns shared by every governed
// entity: the derived status, the jsonb workflow sub-document, and the
// version counter used for optimistic concurrency on transitions.
//
// Embed with `gorm:"embedded"` so each entity table gets status, workflow
// and version columns of its own.
type WorkflowEnvelope struct {
	Status   workflow.Status `gorm:"type:varchar(40);not null;default:'draft';index" json:"status"`
	Workflow workflow.State  `gorm:"type:jsonb;serializer:json" json:"workflow"`
	Version  int             `gorm:"not null;default:0" json:"version"`
}
