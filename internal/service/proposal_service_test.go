package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/models"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/pkg/apperror"
)

type mockProposalRepo struct {
	mock.Mock
}

func (m *mockProposalRepo) Create(ctx context.Context, proposal *models.Proposal) error {
	args := m.Called(ctx, proposal)
	return args.Error(0)
}

func (m *mockProposalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *mockProposalRepo) GetByMissionAndFreelancer(ctx context.Context, missionID, freelancerID uuid.UUID) (*models.Proposal, error) {
	args := m.Called(ctx, missionID, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *mockProposalRepo) ListByMission(ctx context.Context, missionID uuid.UUID, limit, offset int) ([]models.Proposal, error) {
	args := m.Called(ctx, missionID, limit, offset)
	return args.Get(0).([]models.Proposal), args.Error(1)
}

func (m *mockProposalRepo) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Proposal, error) {
	args := m.Called(ctx, freelancerID, limit, offset)
	return args.Get(0).([]models.Proposal), args.Error(1)
}

func (m *mockProposalRepo) AcceptTx(ctx context.Context, tx *sqlx.Tx, proposalID, missionID uuid.UUID) error {
	args := m.Called(ctx, tx, proposalID, missionID)
	return args.Error(0)
}

func (m *mockProposalRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type mockContractCreator struct {
	mock.Mock
}

func (m *mockContractCreator) CreateTx(ctx context.Context, tx *sqlx.Tx, contract *models.Contract) error {
	args := m.Called(ctx, tx, contract)
	return args.Error(0)
}

func proposalOn(mission *models.Mission, freelancerID uuid.UUID, status string) *models.Proposal {
	return &models.Proposal{
		ID:             uuid.New(),
		MissionID:      mission.ID,
		FreelancerID:   freelancerID,
		CoverLetter:    "Готов взяться, делал похожие проекты",
		ProposedAmount: 700,
		Status:         status,
	}
}

func TestProposalService_CreateProposal_Success(t *testing.T) {
	repo := new(mockProposalRepo)
	missions := new(mockMissionRepo)
	svc := NewProposalService(nil, repo, missions, new(mockContractCreator), nil)
	ctx := context.Background()

	freelancerID := uuid.New()
	mission := missionIn(uuid.New(), models.MissionStatusPublished)

	missions.On("GetByID", ctx, mission.ID).Return(mission, nil)
	repo.On("GetByMissionAndFreelancer", ctx, mission.ID, freelancerID).Return(nil, apperror.ErrProposalNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Proposal")).Return(nil)

	proposal, err := svc.CreateProposal(ctx, freelancerID, CreateProposalInput{
		MissionID:      mission.ID,
		CoverLetter:    "Готов взяться за задачу, есть опыт с похожими лендингами",
		ProposedAmount: 700,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.ProposalStatusPending, proposal.Status)
}

func TestProposalService_CreateProposal_OwnMissionForbidden(t *testing.T) {
	repo := new(mockProposalRepo)
	missions := new(mockMissionRepo)
	svc := NewProposalService(nil, repo, missions, new(mockContractCreator), nil)
	ctx := context.Background()

	clientID := uuid.New()
	mission := missionIn(clientID, models.MissionStatusPublished)
	missions.On("GetByID", ctx, mission.ID).Return(mission, nil)

	_, err := svc.CreateProposal(ctx, clientID, CreateProposalInput{
		MissionID:      mission.ID,
		CoverLetter:    "Сам себе и сделаю",
		ProposedAmount: 100,
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	assert.Contains(t, err.Error(), "собственную миссию")
}

func TestProposalService_CreateProposal_DraftMissionRejected(t *testing.T) {
	repo := new(mockProposalRepo)
	missions := new(mockMissionRepo)
	svc := NewProposalService(nil, repo, missions, new(mockContractCreator), nil)
	ctx := context.Background()

	mission := missionIn(uuid.New(), models.MissionStatusDraft)
	missions.On("GetByID", ctx, mission.ID).Return(mission, nil)

	_, err := svc.CreateProposal(ctx, uuid.New(), CreateProposalInput{
		MissionID:      mission.ID,
		CoverLetter:    "Отклик на черновик не должен пройти",
		ProposedAmount: 100,
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsStateConflict(err))
}

func TestProposalService_CreateProposal_DuplicateConflict(t *testing.T) {
	repo := new(mockProposalRepo)
	missions := new(mockMissionRepo)
	svc := NewProposalService(nil, repo, missions, new(mockContractCreator), nil)
	ctx := context.Background()

	freelancerID := uuid.New()
	mission := missionIn(uuid.New(), models.MissionStatusPublished)
	existing := proposalOn(mission, freelancerID, models.ProposalStatusPending)

	missions.On("GetByID", ctx, mission.ID).Return(mission, nil)
	repo.On("GetByMissionAndFreelancer", ctx, mission.ID, freelancerID).Return(existing, nil)

	_, err := svc.CreateProposal(ctx, freelancerID, CreateProposalInput{
		MissionID:      mission.ID,
		CoverLetter:    "Второй отклик на ту же миссию",
		ProposedAmount: 500,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "уже отправлен")
}

func TestProposalService_CreateProposal_ZeroAmountRejected(t *testing.T) {
	repo := new(mockProposalRepo)
	missions := new(mockMissionRepo)
	svc := NewProposalService(nil, repo, missions, new(mockContractCreator), nil)
	ctx := context.Background()

	mission := missionIn(uuid.New(), models.MissionStatusPublished)
	missions.On("GetByID", ctx, mission.ID).Return(mission, nil)

	_, err := svc.CreateProposal(ctx, uuid.New(), CreateProposalInput{
		MissionID:      mission.ID,
		CoverLetter:    "Поработаю бесплатно, за отзыв",
		ProposedAmount: 0,
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestProposalService_Shortlist_Success(t *testing.T) {
	repo := new(mockProposalRepo)
	missions := new(mockMissionRepo)
	svc := NewProposalService(nil, repo, missions, new(mockContractCreator), nil)
	ctx := context.Background()

	clientID := uuid.New()
	mission := missionIn(clientID, models.MissionStatusPublished)
	proposal := proposalOn(mission, uuid.New(), models.ProposalStatusPending)

	repo.On("GetByID", ctx, proposal.ID).Return(proposal, nil)
	missions.On("GetByID", ctx, mission.ID).Return(mission, nil)
	repo.On("UpdateStatus", ctx, proposal.ID, models.ProposalStatusShortlisted).Return(nil)

	shortlisted, err := svc.Shortlist(ctx, proposal.ID, clientID)
	assert.NoError(t, err)
	assert.Equal(t, models.ProposalStatusShortlisted, shortlisted.Status)
}

func TestProposalService_Shortlist_NotOwnerForbidden(t *testing.T) {
	repo := new(mockProposalRepo)
	missions := new(mockMissionRepo)
	svc := NewProposalService(nil, repo, missions, new(mockContractCreator), nil)
	ctx := context.Background()

	mission := missionIn(uuid.New(), models.MissionStatusPublished)
	proposal := proposalOn(mission, uuid.New(), models.ProposalStatusPending)

	repo.On("GetByID", ctx, proposal.ID).Return(proposal, nil)
	missions.On("GetByID", ctx, mission.ID).Return(mission, nil)

	_, err := svc.Shortlist(ctx, proposal.ID, uuid.New())
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestProposalService_Shortlist_AcceptedRejected(t *testing.T) {
	repo := new(mockProposalRepo)
	missions := new(mockMissionRepo)
	svc := NewProposalService(nil, repo, missions, new(mockContractCreator), nil)
	ctx := context.Background()

	clientID := uuid.New()
	mission := missionIn(clientID, models.MissionStatusPublished)
	proposal := proposalOn(mission, uuid.New(), models.ProposalStatusAccepted)

	repo.On("GetByID", ctx, proposal.ID).Return(proposal, nil)
	missions.On("GetByID", ctx, mission.ID).Return(mission, nil)

	_, err := svc.Shortlist(ctx, proposal.ID, clientID)
	assert.Error(t, err)
	assert.True(t, apperror.IsStateConflict(err))
}

func TestProposalService_AcceptProposal_AlreadyReviewedRejected(t *testing.T) {
	repo := new(mockProposalRepo)
	missions := new(mockMissionRepo)
	svc := NewProposalService(nil, repo, missions, new(mockContractCreator), nil)
	ctx := context.Background()

	mission := missionIn(uuid.New(), models.MissionStatusPublished)
	proposal := proposalOn(mission, uuid.New(), models.ProposalStatusAccepted)

	repo.On("GetByID", ctx, proposal.ID).Return(proposal, nil)

	_, err := svc.AcceptProposal(ctx, proposal.ID, mission.ClientID, nil)
	assert.Error(t, err)
	assert.True(t, apperror.IsStateConflict(err))
	assert.Contains(t, err.Error(), "уже рассмотрен")
}
