package structs

import (
	"time"
	"waitfaster_server/structs/tables"

	"github.com/google/uuid"
)

type SessionResponse struct {
	Id                 uuid.UUID                        `json:"id"`
	Status             tables.SessionStatus             `json:"status"`
	Orders             []OrderResponse                  `json:"orders"`
	SessionStartTime   time.Time                        `json:"session_start_time"`
	SessionEndTime     *time.Time                       `json:"session_end_time"`
	AssistanceRequests tables.AssistanceRequestsDetails `json:"assistance_requests"`
}

type CompleteSessionResponse struct {
	UserId           uuid.UUID            `json:"user_id"`
	Username         string               `json:"username"`
	ActiveSession    *uuid.UUID           `json:"active_session"`
	SessionId        uuid.UUID            `json:"session_id"`
	SessionStatus    tables.SessionStatus `json:"session_status"`
	SessionStartTime time.Time            `json:"session_start_time"`
	SessionEndTime   *time.Time           `json:"session_end_time"`
}

// TableActivity is one row of the activity panel. CurrentSession is nil
// when the table has no open seating.
type TableActivity struct {
	TableNumber    int              `json:"table_number"`
	Username       string           `json:"username"`
	CurrentSession *SessionResponse `json:"current_session"`
}
