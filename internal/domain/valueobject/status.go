package valueobject

import "github.com/ignatzorin/freelance-marketplace-backend/internal/pkg/apperror"

type MissionStatus string

const (
	MissionStatusDraft      MissionStatus = "draft"
	MissionStatusPublished  MissionStatus = "published"
	MissionStatusInProgress MissionStatus = "in_progress"
	MissionStatusCompleted  MissionStatus = "completed"
	MissionStatusCancelled  MissionStatus = "cancelled"
)

func (s MissionStatus) IsValid() bool {
	switch s {
	case MissionStatusDraft, MissionStatusPublished, MissionStatusInProgress, MissionStatusCompleted, MissionStatusCancelled:
		return true
	}
	return false
}

func (s MissionStatus) CanTransitionTo(newStatus MissionStatus) bool {
	transitions := map[MissionStatus][]MissionStatus{
		MissionStatusDraft:      {MissionStatusPublished, MissionStatusCancelled},
		MissionStatusPublished:  {MissionStatusInProgress, MissionStatusCancelled},
		MissionStatusInProgress: {MissionStatusCompleted, MissionStatusCancelled},
		MissionStatusCompleted:  {},
		MissionStatusCancelled:  {},
	}

	return contains(transitions[s], newStatus)
}

type ContractStatus string

const (
	ContractStatusPending   ContractStatus = "pending"
	ContractStatusActive    ContractStatus = "active"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
	ContractStatusDisputed  ContractStatus = "disputed"
)

func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusPending, ContractStatusActive, ContractStatusCompleted, ContractStatusCancelled, ContractStatusDisputed:
		return true
	}
	return false
}

// CanTransitionTo проверяет допустимость перехода. Контракт активируется
// только из pending (после обеих подписей), завершается только из active.
// Переход active⇄disputed выполняется при открытии и закрытии спора.
func (s ContractStatus) CanTransitionTo(newStatus ContractStatus) bool {
	transitions := map[ContractStatus][]ContractStatus{
		ContractStatusPending:   {ContractStatusActive, ContractStatusCancelled},
		ContractStatusActive:    {ContractStatusCompleted, ContractStatusCancelled, ContractStatusDisputed},
		ContractStatusDisputed:  {ContractStatusActive, ContractStatusCancelled},
		ContractStatusCompleted: {},
		ContractStatusCancelled: {},
	}

	return contains(transitions[s], newStatus)
}

type MilestoneStatus string

const (
	MilestoneStatusPending    MilestoneStatus = "pending"
	MilestoneStatusInProgress MilestoneStatus = "in_progress"
	MilestoneStatusSubmitted  MilestoneStatus = "submitted"
	MilestoneStatusApproved   MilestoneStatus = "approved"
	MilestoneStatusRevision   MilestoneStatus = "revision"
	MilestoneStatusPaid       MilestoneStatus = "paid"
)

func (s MilestoneStatus) IsValid() bool {
	switch s {
	case MilestoneStatusPending, MilestoneStatusInProgress, MilestoneStatusSubmitted, MilestoneStatusApproved, MilestoneStatusRevision, MilestoneStatusPaid:
		return true
	}
	return false
}

// CanTransitionTo проверяет допустимость перехода. Этап двигается строго
// pending→in_progress→submitted→{approved|revision}; revision возвращается
// в submitted после повторной сдачи; paid достижим только из approved.
func (s MilestoneStatus) CanTransitionTo(newStatus MilestoneStatus) bool {
	transitions := map[MilestoneStatus][]MilestoneStatus{
		MilestoneStatusPending:    {MilestoneStatusInProgress},
		MilestoneStatusInProgress: {MilestoneStatusSubmitted},
		MilestoneStatusSubmitted:  {MilestoneStatusApproved, MilestoneStatusRevision},
		MilestoneStatusRevision:   {MilestoneStatusSubmitted},
		MilestoneStatusApproved:   {MilestoneStatusPaid},
		MilestoneStatusPaid:       {},
	}

	return contains(transitions[s], newStatus)
}

type DisputeStatus string

const (
	DisputeStatusOpen        DisputeStatus = "open"
	DisputeStatusUnderReview DisputeStatus = "under_review"
	DisputeStatusResolved    DisputeStatus = "resolved"
	DisputeStatusClosed      DisputeStatus = "closed"
)

func (s DisputeStatus) IsValid() bool {
	switch s {
	case DisputeStatusOpen, DisputeStatusUnderReview, DisputeStatusResolved, DisputeStatusClosed:
		return true
	}
	return false
}

// CanTransitionTo проверяет допустимость перехода. closed достижим из
// любого незакрытого статуса действием администратора; возврат
// resolved→under_review доступен только администратору.
func (s DisputeStatus) CanTransitionTo(newStatus DisputeStatus) bool {
	transitions := map[DisputeStatus][]DisputeStatus{
		DisputeStatusOpen:        {DisputeStatusUnderReview, DisputeStatusResolved, DisputeStatusClosed},
		DisputeStatusUnderReview: {DisputeStatusOpen, DisputeStatusResolved, DisputeStatusClosed},
		DisputeStatusResolved:    {DisputeStatusUnderReview, DisputeStatusClosed},
		DisputeStatusClosed:      {},
	}

	return contains(transitions[s], newStatus)
}

func NewDisputeStatus(status string) (DisputeStatus, error) {
	s := DisputeStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус спора")
	}
	return s, nil
}

func contains[T comparable](allowed []T, status T) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}
