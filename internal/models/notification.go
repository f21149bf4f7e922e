package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification описывает событие, отправленное пользователю.
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// События жизненного цикла, рассылаемые участникам.
const (
	EventContractActivated  = "contract.activated"
	EventContractCompleted  = "contract.completed"
	EventMilestoneSubmitted = "milestone.submitted"
	EventMilestoneApproved  = "milestone.approved"
	EventMilestoneRevision  = "milestone.revision"
	EventMilestonePaid      = "milestone.paid"
	EventDisputeOpened      = "dispute.opened"
	EventDisputeResolved    = "dispute.resolved"
	EventProposalAccepted   = "proposal.accepted"
)
