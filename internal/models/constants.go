package models

// MissionStatus константы статусов миссий
const (
	MissionStatusDraft      = "draft"
	MissionStatusPublished  = "published"
	MissionStatusInProgress = "in_progress"
	MissionStatusCompleted  = "completed"
	MissionStatusCancelled  = "cancelled"
)

// ProposalStatus константы статусов откликов
const (
	ProposalStatusPending     = "pending"
	ProposalStatusShortlisted = "shortlisted"
	ProposalStatusAccepted    = "accepted"
	ProposalStatusRejected    = "rejected"
)

// ContractStatus константы статусов контрактов
const (
	ContractStatusPending   = "pending"
	ContractStatusActive    = "active"
	ContractStatusCompleted = "completed"
	ContractStatusCancelled = "cancelled"
	ContractStatusDisputed  = "disputed"
)

// MilestoneStatus константы статусов этапов контракта
const (
	MilestoneStatusPending    = "pending"
	MilestoneStatusInProgress = "in_progress"
	MilestoneStatusSubmitted  = "submitted"
	MilestoneStatusApproved   = "approved"
	MilestoneStatusRevision   = "revision"
	MilestoneStatusPaid       = "paid"
)

// DisputeStatus константы статусов споров
const (
	DisputeStatusOpen        = "open"
	DisputeStatusUnderReview = "under_review"
	DisputeStatusResolved    = "resolved"
	DisputeStatusClosed      = "closed"
)

// DisputeCategory константы категорий споров
const (
	DisputeCategoryQuality       = "quality"
	DisputeCategoryDelay         = "delay"
	DisputeCategoryPayment       = "payment"
	DisputeCategoryScope         = "scope"
	DisputeCategoryCommunication = "communication"
	DisputeCategoryOther         = "other"
)

// DisputePriority константы приоритетов споров
const (
	DisputePriorityLow      = "low"
	DisputePriorityMedium   = "medium"
	DisputePriorityHigh     = "high"
	DisputePriorityCritical = "critical"
)

// FavoredParty константы стороны, в пользу которой разрешён спор
const (
	FavoredPartyClient     = "client"
	FavoredPartyFreelancer = "freelancer"
	FavoredPartyNeutral    = "neutral"
)

// UserRole константы ролей пользователей
const (
	UserRoleClient     = "client"
	UserRoleFreelancer = "freelancer"
	UserRoleAdmin      = "admin"
)

// ValidMissionStatuses список валидных статусов миссий
var ValidMissionStatuses = map[string]struct{}{
	MissionStatusDraft:      {},
	MissionStatusPublished:  {},
	MissionStatusInProgress: {},
	MissionStatusCompleted:  {},
	MissionStatusCancelled:  {},
}

// ValidDisputeCategories список валидных категорий споров
var ValidDisputeCategories = map[string]struct{}{
	DisputeCategoryQuality:       {},
	DisputeCategoryDelay:         {},
	DisputeCategoryPayment:       {},
	DisputeCategoryScope:         {},
	DisputeCategoryCommunication: {},
	DisputeCategoryOther:         {},
}

// ValidDisputePriorities список валидных приоритетов споров
var ValidDisputePriorities = map[string]struct{}{
	DisputePriorityLow:      {},
	DisputePriorityMedium:   {},
	DisputePriorityHigh:     {},
	DisputePriorityCritical: {},
}

// ValidFavoredParties список валидных сторон разрешения спора
var ValidFavoredParties = map[string]struct{}{
	FavoredPartyClient:     {},
	FavoredPartyFreelancer: {},
	FavoredPartyNeutral:    {},
}

// ValidUserRoles список валидных ролей
var ValidUserRoles = map[string]struct{}{
	UserRoleClient:     {},
	UserRoleFreelancer: {},
	UserRoleAdmin:      {},
}
