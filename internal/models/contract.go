package models

import (
	"time"

	"github.com/google/uuid"
)

// Contract связывает клиента и фрилансера по миссии. Контракт создаётся
// при принятии отклика и никогда не удаляется: терминальное состояние
// отражается статусом.
type Contract struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	MissionID          uuid.UUID  `db:"mission_id" json:"mission_id"`
	ClientID           uuid.UUID  `db:"client_id" json:"client_id"`
	FreelancerID       uuid.UUID  `db:"freelancer_id" json:"freelancer_id"`
	TotalAmount        float64    `db:"total_amount" json:"total_amount"`
	Currency           string     `db:"currency" json:"currency"`
	Status             string     `db:"status" json:"status"`
	SignedByClient     bool       `db:"signed_by_client" json:"signed_by_client"`
	SignedByFreelancer bool       `db:"signed_by_freelancer" json:"signed_by_freelancer"`
	Terms              *string    `db:"terms" json:"terms,omitempty"`
	StartDate          *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate            *time.Time `db:"end_date" json:"end_date,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// IsParty проверяет, что пользователь — сторона контракта.
func (c *Contract) IsParty(userID uuid.UUID) bool {
	return c.ClientID == userID || c.FreelancerID == userID
}

// Milestone описывает этап работ внутри контракта.
type Milestone struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ContractID  uuid.UUID  `db:"contract_id" json:"contract_id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Amount      float64    `db:"amount" json:"amount"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
