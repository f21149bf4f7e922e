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

type mockMissionRepo struct {
	mock.Mock
}

func (m *mockMissionRepo) Create(ctx context.Context, mission *models.Mission) error {
	args := m.Called(ctx, mission)
	return args.Error(0)
}

func (m *mockMissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Mission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mission), args.Error(1)
}

func (m *mockMissionRepo) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.Mission, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mission), args.Error(1)
}

func (m *mockMissionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockMissionRepo) AssignFreelancer(ctx context.Context, tx *sqlx.Tx, missionID, freelancerID uuid.UUID) error {
	args := m.Called(ctx, tx, missionID, freelancerID)
	return args.Error(0)
}

func (m *mockMissionRepo) ListByClient(ctx context.Context, clientID uuid.UUID, status string, limit, offset int) ([]models.Mission, error) {
	args := m.Called(ctx, clientID, status, limit, offset)
	return args.Get(0).([]models.Mission), args.Error(1)
}

func (m *mockMissionRepo) ListPublished(ctx context.Context, limit, offset int) ([]models.Mission, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.Mission), args.Error(1)
}

func missionIn(clientID uuid.UUID, status string) *models.Mission {
	return &models.Mission{
		ID:          uuid.New(),
		ClientID:    clientID,
		Title:       "Редизайн лендинга",
		Description: "Нужен свежий макет и вёрстка главной страницы под мобильные устройства",
		Currency:    "USD",
		Status:      status,
	}
}

func TestMissionService_CreateMission_DraftByDefault(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Mission")).Return(nil)

	mission, err := svc.CreateMission(ctx, uuid.New(), CreateMissionInput{
		Title:       "Редизайн лендинга",
		Description: "Нужен свежий макет и вёрстка главной страницы под мобильные устройства",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.MissionStatusDraft, mission.Status)
	assert.Equal(t, "USD", mission.Currency)
}

func TestMissionService_CreateMission_PublishImmediately(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Mission")).Return(nil)

	mission, err := svc.CreateMission(ctx, uuid.New(), CreateMissionInput{
		Title:       "Телеграм-бот для записи",
		Description: "Бот принимает заявки клиентов и пишет их в гугл-таблицу, нужна интеграция с календарём",
		Publish:     true,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.MissionStatusPublished, mission.Status)
}

func TestMissionService_CreateMission_ShortTitleRejected(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)

	_, err := svc.CreateMission(context.Background(), uuid.New(), CreateMissionInput{
		Title:       "ab",
		Description: "Описание достаточной длины для прохождения проверки",
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestMissionService_CreateMission_BudgetRangeRejected(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)

	minBudget := 1000.0
	maxBudget := 100.0
	_, err := svc.CreateMission(context.Background(), uuid.New(), CreateMissionInput{
		Title:       "Миссия с кривым бюджетом",
		Description: "Минимальный бюджет больше максимального, так нельзя",
		BudgetMin:   &minBudget,
		BudgetMax:   &maxBudget,
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestMissionService_GetMission_DraftHiddenFromOthers(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)
	ctx := context.Background()

	clientID := uuid.New()
	mission := missionIn(clientID, models.MissionStatusDraft)
	repo.On("GetByID", ctx, mission.ID).Return(mission, nil)

	// Владелец и администратор черновик видят.
	_, err := svc.GetMission(ctx, mission.ID, clientID, models.UserRoleClient)
	assert.NoError(t, err)
	_, err = svc.GetMission(ctx, mission.ID, uuid.New(), models.UserRoleAdmin)
	assert.NoError(t, err)

	// Остальные получают not found, а не forbidden.
	_, err = svc.GetMission(ctx, mission.ID, uuid.New(), models.UserRoleFreelancer)
	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestMissionService_Publish_Success(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)
	ctx := context.Background()

	clientID := uuid.New()
	mission := missionIn(clientID, models.MissionStatusDraft)

	repo.On("GetByID", ctx, mission.ID).Return(mission, nil)
	repo.On("UpdateStatus", ctx, mission.ID, models.MissionStatusPublished).Return(nil)

	published, err := svc.Publish(ctx, mission.ID, clientID)
	assert.NoError(t, err)
	assert.Equal(t, models.MissionStatusPublished, published.Status)
}

func TestMissionService_Publish_NotOwnerForbidden(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)
	ctx := context.Background()

	mission := missionIn(uuid.New(), models.MissionStatusDraft)
	repo.On("GetByID", ctx, mission.ID).Return(mission, nil)

	_, err := svc.Publish(ctx, mission.ID, uuid.New())
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestMissionService_Cancel_CompletedRejected(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)
	ctx := context.Background()

	clientID := uuid.New()
	mission := missionIn(clientID, models.MissionStatusCompleted)
	repo.On("GetByID", ctx, mission.ID).Return(mission, nil)

	_, err := svc.Cancel(ctx, mission.ID, clientID)
	assert.Error(t, err)
	assert.True(t, apperror.IsStateConflict(err))
	assert.Contains(t, err.Error(), "недопустим")
}

func TestMissionService_ListClientMissions_StatusFilter(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)
	ctx := context.Background()

	clientID := uuid.New()
	mission := missionIn(clientID, models.MissionStatusDraft)
	repo.On("ListByClient", ctx, clientID, models.MissionStatusDraft, 20, 0).
		Return([]models.Mission{*mission}, nil)

	missions, err := svc.ListClientMissions(ctx, clientID, models.MissionStatusDraft, 0, 0)
	assert.NoError(t, err)
	assert.Len(t, missions, 1)
}

func TestMissionService_ListClientMissions_UnknownStatusRejected(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)

	_, err := svc.ListClientMissions(context.Background(), uuid.New(), "archived", 20, 0)
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "ListByClient", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMissionService_Cancel_PublishedSuccess(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)
	ctx := context.Background()

	clientID := uuid.New()
	mission := missionIn(clientID, models.MissionStatusPublished)

	repo.On("GetByID", ctx, mission.ID).Return(mission, nil)
	repo.On("UpdateStatus", ctx, mission.ID, models.MissionStatusCancelled).Return(nil)

	cancelled, err := svc.Cancel(ctx, mission.ID, clientID)
	assert.NoError(t, err)
	assert.Equal(t, models.MissionStatusCancelled, cancelled.Status)
}
