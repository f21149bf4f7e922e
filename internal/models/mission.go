package models

import (
	"time"

	"github.com/google/uuid"
)

// Mission описывает проект, размещённый клиентом.
type Mission struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	ClientID     uuid.UUID  `db:"client_id" json:"client_id"`
	FreelancerID *uuid.UUID `db:"freelancer_id" json:"freelancer_id,omitempty"`
	Title        string     `db:"title" json:"title"`
	Description  string     `db:"description" json:"description"`
	BudgetMin    *float64   `db:"budget_min" json:"budget_min,omitempty"`
	BudgetMax    *float64   `db:"budget_max" json:"budget_max,omitempty"`
	Currency     string     `db:"currency" json:"currency"`
	Status       string     `db:"status" json:"status"`
	DeadlineAt   *time.Time `db:"deadline_at" json:"deadline_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// IsParticipant проверяет, является ли пользователь стороной миссии
// (клиентом либо назначенным исполнителем).
func (m *Mission) IsParticipant(userID uuid.UUID) bool {
	if m.ClientID == userID {
		return true
	}
	return m.FreelancerID != nil && *m.FreelancerID == userID
}

// Proposal представляет отклик фрилансера на миссию.
type Proposal struct {
	ID             uuid.UUID `db:"id" json:"id"`
	MissionID      uuid.UUID `db:"mission_id" json:"mission_id"`
	FreelancerID   uuid.UUID `db:"freelancer_id" json:"freelancer_id"`
	CoverLetter    string    `db:"cover_letter" json:"cover_letter"`
	ProposedAmount float64   `db:"proposed_amount" json:"proposed_amount"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
