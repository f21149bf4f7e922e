package dto

import "time"

// RegisterRequest запрос регистрации.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginRequest запрос входа.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest запрос обновления токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateMissionRequest запрос создания миссии.
type CreateMissionRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description" binding:"required"`
	BudgetMin   *float64   `json:"budget_min"`
	BudgetMax   *float64   `json:"budget_max"`
	Currency    string     `json:"currency"`
	DeadlineAt  *time.Time `json:"deadline_at"`
	Publish     bool       `json:"publish"`
}

// CreateProposalRequest запрос создания отклика.
type CreateProposalRequest struct {
	MissionID      string  `json:"mission_id" binding:"required,uuid"`
	CoverLetter    string  `json:"cover_letter" binding:"required"`
	ProposedAmount float64 `json:"proposed_amount" binding:"required"`
}

// AcceptProposalRequest запрос принятия отклика.
type AcceptProposalRequest struct {
	Terms *string `json:"terms"`
}

// CreateMilestoneRequest запрос создания этапа.
type CreateMilestoneRequest struct {
	ContractID  string     `json:"contract_id" binding:"required,uuid"`
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description"`
	Amount      float64    `json:"amount" binding:"required"`
	DueDate     *time.Time `json:"due_date"`
}

// OpenDisputeRequest запрос открытия спора.
type OpenDisputeRequest struct {
	ContractID string `json:"contract_id" binding:"required,uuid"`
	Reason     string `json:"reason" binding:"required"`
	Category   string `json:"category"`
	Priority   string `json:"priority"`
}

// DisputeMessageRequest запрос сообщения в треде спора.
type DisputeMessageRequest struct {
	Content    string `json:"content" binding:"required"`
	IsInternal bool   `json:"is_internal"`
}

// UpdateDisputeStatusRequest запрос смены статуса спора.
type UpdateDisputeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AssignDisputeRequest запрос назначения спора администратору.
type AssignDisputeRequest struct {
	AssigneeID string `json:"assignee_id" binding:"required,uuid"`
}

// UpdateDisputeTriageRequest запрос смены категории и приоритета спора.
type UpdateDisputeTriageRequest struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// ResolveDisputeRequest запрос разрешения спора.
type ResolveDisputeRequest struct {
	Resolution   string  `json:"resolution" binding:"required"`
	FavoredParty string  `json:"favored_party" binding:"required"`
	AdminNotes   *string `json:"admin_notes"`
}
