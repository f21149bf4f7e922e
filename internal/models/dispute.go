package models

import (
	"time"

	"github.com/google/uuid"
)

// Dispute описывает спор, открытый участником миссии. Поля resolution,
// admin_notes и favored_party заполняются только администратором при
// разрешении спора.
type Dispute struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	MissionID    uuid.UUID  `db:"mission_id" json:"mission_id"`
	ContractID   uuid.UUID  `db:"contract_id" json:"contract_id"`
	OpenedByID   uuid.UUID  `db:"opened_by_id" json:"opened_by_id"`
	Reason       string     `db:"reason" json:"reason"`
	Status       string     `db:"status" json:"status"`
	Category     string     `db:"category" json:"category"`
	Priority     string     `db:"priority" json:"priority"`
	AssignedToID *uuid.UUID `db:"assigned_to_id" json:"assigned_to_id,omitempty"`
	Resolution   *string    `db:"resolution" json:"resolution,omitempty"`
	AdminNotes   *string    `db:"admin_notes" json:"admin_notes,omitempty"`
	FavoredParty *string    `db:"favored_party" json:"favored_party,omitempty"`
	ResolvedAt   *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// AcceptsMessages проверяет, открыт ли спор для переписки.
func (d *Dispute) AcceptsMessages() bool {
	return d.Status == DisputeStatusOpen || d.Status == DisputeStatusUnderReview
}

// DisputeMessage описывает сообщение в треде спора. Сообщения с
// is_internal=true видны только администраторам.
type DisputeMessage struct {
	ID         uuid.UUID `db:"id" json:"id"`
	DisputeID  uuid.UUID `db:"dispute_id" json:"dispute_id"`
	SenderID   uuid.UUID `db:"sender_id" json:"sender_id"`
	Content    string    `db:"content" json:"content"`
	IsInternal bool      `db:"is_internal" json:"is_internal"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	// Связанные данные (загружаются отдельно)
	Attachments []EvidenceFile `json:"attachments,omitempty"`
}
