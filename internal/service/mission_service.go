package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/models"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/validation"
)

// MissionRepo описывает зависимости MissionService от слоя хранилища.
type MissionRepo interface {
	Create(ctx context.Context, mission *models.Mission) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Mission, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByClient(ctx context.Context, clientID uuid.UUID, status string, limit, offset int) ([]models.Mission, error)
	ListPublished(ctx context.Context, limit, offset int) ([]models.Mission, error)
}

// MissionService содержит бизнес-логику размещения миссий.
type MissionService struct {
	repo MissionRepo
}

// NewMissionService создаёт сервис миссий.
func NewMissionService(repo MissionRepo) *MissionService {
	return &MissionService{repo: repo}
}

// CreateMissionInput содержит данные новой миссии.
type CreateMissionInput struct {
	Title       string
	Description string
	BudgetMin   *float64
	BudgetMax   *float64
	Currency    string
	DeadlineAt  *time.Time
	Publish     bool
}

// CreateMission создаёт миссию клиента в статусе draft либо сразу published.
func (s *MissionService) CreateMission(ctx context.Context, clientID uuid.UUID, in CreateMissionInput) (*models.Mission, error) {
	if err := validation.ValidateMissionTitle(in.Title); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateMissionDescription(in.Description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if err := validation.ValidateBudget(in.BudgetMin, in.BudgetMax); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	status := models.MissionStatusDraft
	if in.Publish {
		status = models.MissionStatusPublished
	}

	mission := &models.Mission{
		ClientID:    clientID,
		Title:       in.Title,
		Description: in.Description,
		BudgetMin:   in.BudgetMin,
		BudgetMax:   in.BudgetMax,
		Currency:    currency,
		Status:      status,
		DeadlineAt:  in.DeadlineAt,
	}

	if err := s.repo.Create(ctx, mission); err != nil {
		return nil, err
	}
	return mission, nil
}

// GetMission возвращает миссию. Черновики видит только владелец.
func (s *MissionService) GetMission(ctx context.Context, missionID, actorID uuid.UUID, actorRole string) (*models.Mission, error) {
	mission, err := s.repo.GetByID(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if mission.Status == models.MissionStatusDraft && mission.ClientID != actorID && actorRole != models.UserRoleAdmin {
		return nil, apperror.ErrMissionNotFound
	}
	return mission, nil
}

// Publish переводит черновик миссии в публикацию. Доступно владельцу.
func (s *MissionService) Publish(ctx context.Context, missionID, actorID uuid.UUID) (*models.Mission, error) {
	return s.transition(ctx, missionID, actorID, valueobject.MissionStatusPublished)
}

// Cancel отменяет миссию. Доступно владельцу, пока миссия не завершена.
func (s *MissionService) Cancel(ctx context.Context, missionID, actorID uuid.UUID) (*models.Mission, error) {
	return s.transition(ctx, missionID, actorID, valueobject.MissionStatusCancelled)
}

// ListClientMissions возвращает миссии клиента. Пустой статус означает все.
func (s *MissionService) ListClientMissions(ctx context.Context, clientID uuid.UUID, status string, limit, offset int) ([]models.Mission, error) {
	if status != "" {
		if _, ok := models.ValidMissionStatuses[status]; !ok {
			return nil, apperror.New(apperror.ErrCodeValidation, "неизвестный статус миссии")
		}
	}
	limit, offset = normalizePage(limit, offset)
	return s.repo.ListByClient(ctx, clientID, status, limit, offset)
}

// ListPublishedMissions возвращает ленту опубликованных миссий.
func (s *MissionService) ListPublishedMissions(ctx context.Context, limit, offset int) ([]models.Mission, error) {
	limit, offset = normalizePage(limit, offset)
	return s.repo.ListPublished(ctx, limit, offset)
}

func (s *MissionService) transition(ctx context.Context, missionID, actorID uuid.UUID, target valueobject.MissionStatus) (*models.Mission, error) {
	mission, err := s.repo.GetByID(ctx, missionID)
	if err != nil {
		return nil, err
	}

	if mission.ClientID != actorID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "миссией управляет только её владелец")
	}

	if !valueobject.MissionStatus(mission.Status).CanTransitionTo(target) {
		return nil, apperror.New(apperror.ErrCodeStateConflict,
			"переход миссии из статуса '"+mission.Status+"' в '"+string(target)+"' недопустим")
	}

	if err := s.repo.UpdateStatus(ctx, missionID, string(target)); err != nil {
		return nil, err
	}
	mission.Status = string(target)
	return mission, nil
}
