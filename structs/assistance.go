package structs

import (
	"waitfaster_server/structs/tables"

	"github.com/google/uuid"
)

type RaiseAssistanceRequest struct {
	Notes *string `json:"notes" validate:"omitempty,max=500"`
}

type UpdateAssistanceRequest struct {
	Status tables.AssistanceRequestStatus `json:"status" validate:"required"`
}

// OpenAssistanceRequest is an outstanding request as listed for staff.
type OpenAssistanceRequest struct {
	TableNumber int                      `json:"table_number"`
	SessionId   uuid.UUID                `json:"session_id"`
	Request     tables.AssistanceRequest `json:"request"`
}
