package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissionStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, MissionStatusDraft.CanTransitionTo(MissionStatusPublished))
	assert.True(t, MissionStatusDraft.CanTransitionTo(MissionStatusCancelled))
	assert.True(t, MissionStatusPublished.CanTransitionTo(MissionStatusInProgress))
	assert.True(t, MissionStatusInProgress.CanTransitionTo(MissionStatusCompleted))

	assert.False(t, MissionStatusDraft.CanTransitionTo(MissionStatusInProgress))
	assert.False(t, MissionStatusCompleted.CanTransitionTo(MissionStatusCancelled))
	assert.False(t, MissionStatusCancelled.CanTransitionTo(MissionStatusPublished))
}

func TestContractStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, ContractStatusPending.CanTransitionTo(ContractStatusActive))
	assert.True(t, ContractStatusActive.CanTransitionTo(ContractStatusDisputed))
	assert.True(t, ContractStatusDisputed.CanTransitionTo(ContractStatusActive))
	assert.True(t, ContractStatusActive.CanTransitionTo(ContractStatusCompleted))

	assert.False(t, ContractStatusPending.CanTransitionTo(ContractStatusCompleted))
	assert.False(t, ContractStatusPending.CanTransitionTo(ContractStatusDisputed))
	assert.False(t, ContractStatusCompleted.CanTransitionTo(ContractStatusActive))
	assert.False(t, ContractStatusDisputed.CanTransitionTo(ContractStatusCompleted))
}

func TestMilestoneStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, MilestoneStatusPending.CanTransitionTo(MilestoneStatusInProgress))
	assert.True(t, MilestoneStatusInProgress.CanTransitionTo(MilestoneStatusSubmitted))
	assert.True(t, MilestoneStatusSubmitted.CanTransitionTo(MilestoneStatusApproved))
	assert.True(t, MilestoneStatusSubmitted.CanTransitionTo(MilestoneStatusRevision))
	assert.True(t, MilestoneStatusRevision.CanTransitionTo(MilestoneStatusSubmitted))
	assert.True(t, MilestoneStatusApproved.CanTransitionTo(MilestoneStatusPaid))

	// Пропуск шагов запрещён.
	assert.False(t, MilestoneStatusPending.CanTransitionTo(MilestoneStatusSubmitted))
	assert.False(t, MilestoneStatusPending.CanTransitionTo(MilestoneStatusApproved))
	assert.False(t, MilestoneStatusInProgress.CanTransitionTo(MilestoneStatusPaid))
	assert.False(t, MilestoneStatusSubmitted.CanTransitionTo(MilestoneStatusPaid))
	assert.False(t, MilestoneStatusPaid.CanTransitionTo(MilestoneStatusRevision))
}

func TestDisputeStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, DisputeStatusOpen.CanTransitionTo(DisputeStatusUnderReview))
	assert.True(t, DisputeStatusOpen.CanTransitionTo(DisputeStatusClosed))
	assert.True(t, DisputeStatusUnderReview.CanTransitionTo(DisputeStatusResolved))
	assert.True(t, DisputeStatusResolved.CanTransitionTo(DisputeStatusUnderReview))
	assert.True(t, DisputeStatusResolved.CanTransitionTo(DisputeStatusClosed))

	assert.False(t, DisputeStatusClosed.CanTransitionTo(DisputeStatusOpen))
	assert.False(t, DisputeStatusClosed.CanTransitionTo(DisputeStatusResolved))
	assert.False(t, DisputeStatusResolved.CanTransitionTo(DisputeStatusOpen))
}

func TestNewDisputeStatus(t *testing.T) {
	s, err := NewDisputeStatus("under_review")
	assert.NoError(t, err)
	assert.Equal(t, DisputeStatusUnderReview, s)

	_, err = NewDisputeStatus("pending")
	assert.Error(t, err)
}

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(99.5, "USD")
	assert.NoError(t, err)
	assert.Equal(t, 99.5, m.Amount)

	_, err = NewMoney(-5, "USD")
	assert.Error(t, err)

	m, err = NewMoney(10, "")
	assert.NoError(t, err)
	assert.Equal(t, "USD", m.Currency)
}
