package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type SessionStatus string

const (
	SessionStatusOpen            SessionStatus = "open"
	SessionStatusAwaitingPayment SessionStatus = "awaiting_payment"
	SessionStatusClosed          SessionStatus = "closed"
)

type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	Id                 uuid.UUID                 `bun:"id,pk,type:uuid" json:"id"`
	Status             SessionStatus             `bun:"status,notnull" json:"status"`
	SessionStartTime   time.Time                 `bun:"session_start_time,notnull" json:"session_start_time"`
	SessionEndTime     *time.Time                `bun:"session_end_time,nullzero" json:"session_end_time"`
	AssistanceRequests AssistanceRequestsDetails `bun:"assistance_requests,type:jsonb" json:"assistance_requests"`
	Version            int                       `bun:"version,notnull" json:"-"`
}

type AssistanceRequestStatus string

const (
	AssistanceRequestStatusOpen      AssistanceRequestStatus = "open"
	AssistanceRequestStatusHandling  AssistanceRequestStatus = "handling"
	AssistanceRequestStatusClosed    AssistanceRequestStatus = "closed"
	AssistanceRequestStatusCancelled AssistanceRequestStatus = "cancelled"
)

type AssistanceRequest struct {
	StartTime time.Time               `json:"start_time"`
	EndTime   *time.Time              `json:"end_time"`
	Notes     *string                 `json:"notes"`
	Status    AssistanceRequestStatus `json:"status"`
}

// AssistanceRequestsDetails holds at most one outstanding request plus the
// archive of resolved ones. A request lives in exactly one of the two.
type AssistanceRequestsDetails struct {
	Current *AssistanceRequest  `json:"current"`
	Handled []AssistanceRequest `json:"handled"`
}
