package models

import (
	"time"

	"github.com/google/uuid"
)

// RevocationRecord is a row in the revocation ledger. Presence means
// revoked; absence means not revoked.
type RevocationRecord struct {
	UserID    string    `json:"user_id"`
	RevokedAt time.Time `json:"revoked_at"`
}

// EventLog is one audit entry for an issue, check or revoke operation.
type EventLog struct {
	ID        uuid.UUID              `json:"id"`
	Action    string                 `json:"action"`
	UserID    string                 `json:"user_id"`
	IPAddress string                 `json:"ip_address,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

const (
	ActionIssueTrial  = "ISSUE_TRIAL"
	ActionCheckTrial  = "CHECK_TRIAL"
	ActionRevokeTrial = "REVOKE_TRIAL"
)
