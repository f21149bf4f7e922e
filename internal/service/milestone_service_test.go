package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/models"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/pkg/apperror"
)

type mockMilestoneRepo struct {
	mock.Mock
}

func (m *mockMilestoneRepo) Create(ctx context.Context, milestone *models.Milestone) error {
	args := m.Called(ctx, milestone)
	return args.Error(0)
}

func (m *mockMilestoneRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Milestone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Milestone), args.Error(1)
}

func (m *mockMilestoneRepo) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) error {
	args := m.Called(ctx, id, fromStatus, toStatus)
	return args.Error(0)
}

func (m *mockMilestoneRepo) ListByContract(ctx context.Context, contractID uuid.UUID) ([]models.Milestone, error) {
	args := m.Called(ctx, contractID)
	return args.Get(0).([]models.Milestone), args.Error(1)
}

func activeContract(clientID, freelancerID uuid.UUID) *models.Contract {
	c := pendingContract(clientID, freelancerID)
	c.Status = models.ContractStatusActive
	c.SignedByClient = true
	c.SignedByFreelancer = true
	return c
}

func milestoneIn(contractID uuid.UUID, status string) *models.Milestone {
	return &models.Milestone{
		ID:         uuid.New(),
		ContractID: contractID,
		Title:      "Первый этап",
		Amount:     500,
		Status:     status,
	}
}

func TestMilestoneService_CreateMilestone_Success(t *testing.T) {
	repo := new(mockMilestoneRepo)
	contracts := new(mockContractRepo)
	svc := NewMilestoneService(repo, contracts, nil)
	ctx := context.Background()

	clientID := uuid.New()
	contract := activeContract(clientID, uuid.New())

	contracts.On("GetByID", ctx, contract.ID).Return(contract, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Milestone")).Return(nil)

	milestone, err := svc.CreateMilestone(ctx, clientID, CreateMilestoneInput{
		ContractID: contract.ID,
		Title:      "Макеты главной страницы",
		Amount:     300,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.MilestoneStatusPending, milestone.Status)
	assert.Equal(t, contract.ID, milestone.ContractID)
}

func TestMilestoneService_CreateMilestone_NonPartyForbidden(t *testing.T) {
	repo := new(mockMilestoneRepo)
	contracts := new(mockContractRepo)
	svc := NewMilestoneService(repo, contracts, nil)
	ctx := context.Background()

	contract := activeContract(uuid.New(), uuid.New())
	contracts.On("GetByID", ctx, contract.ID).Return(contract, nil)

	_, err := svc.CreateMilestone(ctx, uuid.New(), CreateMilestoneInput{
		ContractID: contract.ID,
		Title:      "Этап",
		Amount:     300,
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestMilestoneService_CreateMilestone_InactiveContract(t *testing.T) {
	repo := new(mockMilestoneRepo)
	contracts := new(mockContractRepo)
	svc := NewMilestoneService(repo, contracts, nil)
	ctx := context.Background()

	clientID := uuid.New()
	contract := pendingContract(clientID, uuid.New())
	contracts.On("GetByID", ctx, contract.ID).Return(contract, nil)

	_, err := svc.CreateMilestone(ctx, clientID, CreateMilestoneInput{
		ContractID: contract.ID,
		Title:      "Этап",
		Amount:     300,
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsStateConflict(err))
}

func TestMilestoneService_CreateMilestone_NegativeAmount(t *testing.T) {
	repo := new(mockMilestoneRepo)
	contracts := new(mockContractRepo)
	svc := NewMilestoneService(repo, contracts, nil)
	ctx := context.Background()

	clientID := uuid.New()
	contract := activeContract(clientID, uuid.New())
	contracts.On("GetByID", ctx, contract.ID).Return(contract, nil)

	_, err := svc.CreateMilestone(ctx, clientID, CreateMilestoneInput{
		ContractID: contract.ID,
		Title:      "Этап",
		Amount:     -10,
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestMilestoneService_FullLifecycle(t *testing.T) {
	repo := new(mockMilestoneRepo)
	contracts := new(mockContractRepo)
	svc := NewMilestoneService(repo, contracts, nil)
	ctx := context.Background()

	clientID := uuid.New()
	freelancerID := uuid.New()
	contract := activeContract(clientID, freelancerID)
	milestone := milestoneIn(contract.ID, models.MilestoneStatusPending)

	contracts.On("GetByID", ctx, contract.ID).Return(contract, nil)
	repo.On("GetByID", ctx, milestone.ID).Return(milestone, nil)
	repo.On("UpdateStatus", ctx, milestone.ID, mock.Anything, mock.Anything).Return(nil)

	steps := []struct {
		call   func() (*models.Milestone, error)
		expect string
	}{
		{func() (*models.Milestone, error) { return svc.Start(ctx, milestone.ID, freelancerID) }, models.MilestoneStatusInProgress},
		{func() (*models.Milestone, error) { return svc.Submit(ctx, milestone.ID, freelancerID) }, models.MilestoneStatusSubmitted},
		{func() (*models.Milestone, error) { return svc.RequestRevision(ctx, milestone.ID, clientID) }, models.MilestoneStatusRevision},
		{func() (*models.Milestone, error) { return svc.Submit(ctx, milestone.ID, freelancerID) }, models.MilestoneStatusSubmitted},
		{func() (*models.Milestone, error) { return svc.Approve(ctx, milestone.ID, clientID) }, models.MilestoneStatusApproved},
		{func() (*models.Milestone, error) { return svc.ReleasePayment(ctx, milestone.ID, clientID) }, models.MilestoneStatusPaid},
	}

	for _, step := range steps {
		m, err := step.call()
		assert.NoError(t, err)
		assert.Equal(t, step.expect, m.Status)
	}
}

func TestMilestoneService_Approve_FromPendingStateConflict(t *testing.T) {
	repo := new(mockMilestoneRepo)
	contracts := new(mockContractRepo)
	svc := NewMilestoneService(repo, contracts, nil)
	ctx := context.Background()

	clientID := uuid.New()
	contract := activeContract(clientID, uuid.New())
	milestone := milestoneIn(contract.ID, models.MilestoneStatusPending)

	contracts.On("GetByID", ctx, contract.ID).Return(contract, nil)
	repo.On("GetByID", ctx, milestone.ID).Return(milestone, nil)

	_, err := svc.Approve(ctx, milestone.ID, clientID)
	assert.Error(t, err)
	assert.True(t, apperror.IsStateConflict(err))
	assert.Contains(t, err.Error(), "недопустим")
}

func TestMilestoneService_Approve_ByFreelancerForbidden(t *testing.T) {
	repo := new(mockMilestoneRepo)
	contracts := new(mockContractRepo)
	svc := NewMilestoneService(repo, contracts, nil)
	ctx := context.Background()

	freelancerID := uuid.New()
	contract := activeContract(uuid.New(), freelancerID)
	milestone := milestoneIn(contract.ID, models.MilestoneStatusSubmitted)

	contracts.On("GetByID", ctx, contract.ID).Return(contract, nil)
	repo.On("GetByID", ctx, milestone.ID).Return(milestone, nil)

	_, err := svc.Approve(ctx, milestone.ID, freelancerID)
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestMilestoneService_Start_ByClientForbidden(t *testing.T) {
	repo := new(mockMilestoneRepo)
	contracts := new(mockContractRepo)
	svc := NewMilestoneService(repo, contracts, nil)
	ctx := context.Background()

	clientID := uuid.New()
	contract := activeContract(clientID, uuid.New())
	milestone := milestoneIn(contract.ID, models.MilestoneStatusPending)

	contracts.On("GetByID", ctx, contract.ID).Return(contract, nil)
	repo.On("GetByID", ctx, milestone.ID).Return(milestone, nil)

	_, err := svc.Start(ctx, milestone.ID, clientID)
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestMilestoneService_Start_DisputedContract(t *testing.T) {
	repo := new(mockMilestoneRepo)
	contracts := new(mockContractRepo)
	svc := NewMilestoneService(repo, contracts, nil)
	ctx := context.Background()

	freelancerID := uuid.New()
	contract := activeContract(uuid.New(), freelancerID)
	contract.Status = models.ContractStatusDisputed
	milestone := milestoneIn(contract.ID, models.MilestoneStatusPending)

	contracts.On("GetByID", ctx, contract.ID).Return(contract, nil)
	repo.On("GetByID", ctx, milestone.ID).Return(milestone, nil)

	_, err := svc.Start(ctx, milestone.ID, freelancerID)
	assert.Error(t, err)
	assert.True(t, apperror.IsStateConflict(err))
	assert.Contains(t, err.Error(), "не активен")
}

func TestMilestoneService_ReleasePayment_CompletedContract(t *testing.T) {
	repo := new(mockMilestoneRepo)
	contracts := new(mockContractRepo)
	svc := NewMilestoneService(repo, contracts, nil)
	ctx := context.Background()

	clientID := uuid.New()
	contract := activeContract(clientID, uuid.New())
	contract.Status = models.ContractStatusCompleted
	milestone := milestoneIn(contract.ID, models.MilestoneStatusApproved)

	contracts.On("GetByID", ctx, contract.ID).Return(contract, nil)
	repo.On("GetByID", ctx, milestone.ID).Return(milestone, nil)
	repo.On("UpdateStatus", ctx, milestone.ID, models.MilestoneStatusApproved, models.MilestoneStatusPaid).Return(nil)

	m, err := svc.ReleasePayment(ctx, milestone.ID, clientID)
	assert.NoError(t, err)
	assert.Equal(t, models.MilestoneStatusPaid, m.Status)
}

func TestMilestoneService_Approve_CompletedContract(t *testing.T) {
	repo := new(mockMilestoneRepo)
	contracts := new(mockContractRepo)
	svc := NewMilestoneService(repo, contracts, nil)
	ctx := context.Background()

	clientID := uuid.New()
	contract := activeContract(clientID, uuid.New())
	contract.Status = models.ContractStatusCompleted
	milestone := milestoneIn(contract.ID, models.MilestoneStatusSubmitted)

	contracts.On("GetByID", ctx, contract.ID).Return(contract, nil)
	repo.On("GetByID", ctx, milestone.ID).Return(milestone, nil)
	repo.On("UpdateStatus", ctx, milestone.ID, models.MilestoneStatusSubmitted, models.MilestoneStatusApproved).Return(nil)

	m, err := svc.Approve(ctx, milestone.ID, clientID)
	assert.NoError(t, err)
	assert.Equal(t, models.MilestoneStatusApproved, m.Status)
}

func TestMilestoneService_Approve_DisputedContractFrozen(t *testing.T) {
	repo := new(mockMilestoneRepo)
	contracts := new(mockContractRepo)
	svc := NewMilestoneService(repo, contracts, nil)
	ctx := context.Background()

	clientID := uuid.New()
	contract := activeContract(clientID, uuid.New())
	contract.Status = models.ContractStatusDisputed
	milestone := milestoneIn(contract.ID, models.MilestoneStatusSubmitted)

	contracts.On("GetByID", ctx, contract.ID).Return(contract, nil)
	repo.On("GetByID", ctx, milestone.ID).Return(milestone, nil)

	_, err := svc.Approve(ctx, milestone.ID, clientID)
	assert.Error(t, err)
	assert.True(t, apperror.IsStateConflict(err))
	assert.Contains(t, err.Error(), "заморожен")
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
