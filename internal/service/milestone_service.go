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

// MilestoneRepository описывает зависимости MilestoneService от слоя хранилища.
type MilestoneRepository interface {
	Create(ctx context.Context, milestone *models.Milestone) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Milestone, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) error
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]models.Milestone, error)
}

// ContractRepoForMilestone отдаёт контракт для проверки прав и статуса.
type ContractRepoForMilestone interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
}

// MilestoneService содержит бизнес-логику продвижения этапов контракта.
// Каждая операция проверяет сначала принадлежность вызывающего к нужной
// роли (ошибка прав), затем статусные предусловия (ошибка состояния):
// вызывающие обязаны различать эти два вида отказов.
type MilestoneService struct {
	repo      MilestoneRepository
	contracts ContractRepoForMilestone
	notifier  Notifier
}

// NewMilestoneService создаёт сервис этапов.
func NewMilestoneService(repo MilestoneRepository, contracts ContractRepoForMilestone, notifier Notifier) *MilestoneService {
	return &MilestoneService{repo: repo, contracts: contracts, notifier: notifier}
}

// CreateMilestoneInput содержит данные нового этапа.
type CreateMilestoneInput struct {
	ContractID  uuid.UUID
	Title       string
	Description *string
	Amount      float64
	DueDate     *time.Time
}

// CreateMilestone создаёт этап. Доступно обеим сторонам активного контракта.
func (s *MilestoneService) CreateMilestone(ctx context.Context, actorID uuid.UUID, in CreateMilestoneInput) (*models.Milestone, error) {
	contract, err := s.contracts.GetByID(ctx, in.ContractID)
	if err != nil {
		return nil, err
	}

	if !contract.IsParty(actorID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "этап может создать только сторона контракта")
	}

	if contract.Status != models.ContractStatusActive {
		return nil, apperror.New(apperror.ErrCodeStateConflict, "этапы создаются только в активном контракте")
	}

	if err := validation.ValidateMilestoneTitle(in.Title); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if _, err := valueobject.NewMoney(in.Amount, contract.Currency); err != nil {
		return nil, err
	}

	milestone := &models.Milestone{
		ContractID:  in.ContractID,
		Title:       in.Title,
		Description: in.Description,
		Amount:      in.Amount,
		DueDate:     in.DueDate,
		Status:      models.MilestoneStatusPending,
	}

	if err := s.repo.Create(ctx, milestone); err != nil {
		return nil, err
	}

	return milestone, nil
}

// ListContractMilestones возвращает этапы контракта его сторонам и администратору.
func (s *MilestoneService) ListContractMilestones(ctx context.Context, contractID, actorID uuid.UUID, actorRole string) ([]models.Milestone, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !contract.IsParty(actorID) && actorRole != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}
	return s.repo.ListByContract(ctx, contractID)
}

// Start переводит этап pending→in_progress. Доступно фрилансеру.
func (s *MilestoneService) Start(ctx context.Context, milestoneID, actorID uuid.UUID) (*models.Milestone, error) {
	return s.advance(ctx, milestoneID, actorID, roleFreelancer, valueobject.MilestoneStatusInProgress)
}

// Submit сдаёт работу: {in_progress, revision}→submitted. Доступно фрилансеру.
func (s *MilestoneService) Submit(ctx context.Context, milestoneID, actorID uuid.UUID) (*models.Milestone, error) {
	m, err := s.advance(ctx, milestoneID, actorID, roleFreelancer, valueobject.MilestoneStatusSubmitted)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Approve принимает сданную работу: submitted→approved. Доступно клиенту.
func (s *MilestoneService) Approve(ctx context.Context, milestoneID, actorID uuid.UUID) (*models.Milestone, error) {
	return s.advance(ctx, milestoneID, actorID, roleClient, valueobject.MilestoneStatusApproved)
}

// RequestRevision возвращает работу на доработку: submitted→revision.
// Доступно клиенту; после этого фрилансер может сдать работу повторно.
func (s *MilestoneService) RequestRevision(ctx context.Context, milestoneID, actorID uuid.UUID) (*models.Milestone, error) {
	return s.advance(ctx, milestoneID, actorID, roleClient, valueobject.MilestoneStatusRevision)
}

// ReleasePayment выплачивает принятый этап: approved→paid. Доступно клиенту.
func (s *MilestoneService) ReleasePayment(ctx context.Context, milestoneID, actorID uuid.UUID) (*models.Milestone, error) {
	return s.advance(ctx, milestoneID, actorID, roleClient, valueobject.MilestoneStatusPaid)
}

type partyRole int

const (
	roleClient partyRole = iota
	roleFreelancer
)

// advance выполняет один переход этапа с проверкой роли вызывающего,
// статуса контракта и таблицы переходов. Запись в базу — compare-and-set
// по текущему статусу, поэтому конкурирующий переход не перезапишет чужой.
func (s *MilestoneService) advance(ctx context.Context, milestoneID, actorID uuid.UUID, expected partyRole, target valueobject.MilestoneStatus) (*models.Milestone, error) {
	milestone, err := s.repo.GetByID(ctx, milestoneID)
	if err != nil {
		return nil, err
	}

	contract, err := s.contracts.GetByID(ctx, milestone.ContractID)
	if err != nil {
		return nil, err
	}

	switch expected {
	case roleClient:
		if actorID != contract.ClientID {
			return nil, apperror.New(apperror.ErrCodeForbidden, "операция доступна только клиенту контракта")
		}
	case roleFreelancer:
		if actorID != contract.FreelancerID {
			return nil, apperror.New(apperror.ErrCodeForbidden, "операция доступна только исполнителю контракта")
		}
	}

	// Старт и сдача работы требуют активного контракта. Принятие,
	// доработка и выплата доступны и после завершения контракта,
	// но замораживаются открытым спором.
	switch target {
	case valueobject.MilestoneStatusInProgress, valueobject.MilestoneStatusSubmitted:
		if contract.Status != models.ContractStatusActive {
			return nil, apperror.New(apperror.ErrCodeStateConflict, "контракт не активен")
		}
	default:
		if contract.Status == models.ContractStatusDisputed {
			return nil, apperror.New(apperror.ErrCodeStateConflict, "контракт заморожен открытым спором")
		}
	}

	current := valueobject.MilestoneStatus(milestone.Status)
	if !current.CanTransitionTo(target) {
		return nil, apperror.New(apperror.ErrCodeStateConflict,
			"переход этапа из статуса '"+milestone.Status+"' в '"+string(target)+"' недопустим")
	}

	if err := s.repo.UpdateStatus(ctx, milestoneID, milestone.Status, string(target)); err != nil {
		return nil, err
	}
	milestone.Status = string(target)

	payload := map[string]any{"milestone_id": milestone.ID, "contract_id": contract.ID, "title": milestone.Title}
	switch target {
	case valueobject.MilestoneStatusSubmitted:
		notifyAsync(s.notifier, contract.ClientID, models.EventMilestoneSubmitted, payload)
	case valueobject.MilestoneStatusApproved:
		notifyAsync(s.notifier, contract.FreelancerID, models.EventMilestoneApproved, payload)
	case valueobject.MilestoneStatusRevision:
		notifyAsync(s.notifier, contract.FreelancerID, models.EventMilestoneRevision, payload)
	case valueobject.MilestoneStatusPaid:
		notifyAsync(s.notifier, contract.FreelancerID, models.EventMilestonePaid, payload)
	}

	return milestone, nil
}
