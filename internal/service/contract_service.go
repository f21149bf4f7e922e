package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/models"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/pkg/apperror"
)

// ContractRepository описывает зависимости ContractService от слоя хранилища.
type ContractRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	GetByMissionID(ctx context.Context, missionID uuid.UUID) (*models.Contract, error)
	Update(ctx context.Context, contract *models.Contract) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Contract, error)
}

// MissionStatusUpdater переводит миссию в новый статус как побочный
// эффект завершения контракта.
type MissionStatusUpdater interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// ContractService содержит бизнес-логику подписания и завершения контрактов.
type ContractService struct {
	repo     ContractRepository
	missions MissionStatusUpdater
	notifier Notifier
}

// NewContractService создаёт сервис контрактов.
func NewContractService(repo ContractRepository, missions MissionStatusUpdater, notifier Notifier) *ContractService {
	return &ContractService{repo: repo, missions: missions, notifier: notifier}
}

// GetContract возвращает контракт, доступный только его сторонам и администратору.
func (s *ContractService) GetContract(ctx context.Context, contractID, actorID uuid.UUID, actorRole string) (*models.Contract, error) {
	contract, err := s.repo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !contract.IsParty(actorID) && actorRole != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}
	return contract, nil
}

// GetMissionContract возвращает контракт миссии. Доступ как у GetContract.
func (s *ContractService) GetMissionContract(ctx context.Context, missionID, actorID uuid.UUID, actorRole string) (*models.Contract, error) {
	contract, err := s.repo.GetByMissionID(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if !contract.IsParty(actorID) && actorRole != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}
	return contract, nil
}

// ListUserContracts возвращает контракты пользователя.
func (s *ContractService) ListUserContracts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Contract, error) {
	limit, offset = normalizePage(limit, offset)
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// Sign ставит подпись стороны контракта. Повторная подпись той же
// стороной идемпотентна: контракт возвращается без изменений. Когда
// подписи собраны с обеих сторон, контракт переходит pending→active.
func (s *ContractService) Sign(ctx context.Context, contractID, actorID uuid.UUID) (*models.Contract, error) {
	contract, err := s.repo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	if !contract.IsParty(actorID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "подписать контракт может только его сторона")
	}

	if contract.Status != models.ContractStatusPending {
		return nil, apperror.New(apperror.ErrCodeStateConflict, "контракт уже не ожидает подписания")
	}

	switch actorID {
	case contract.ClientID:
		if contract.SignedByClient {
			return contract, nil
		}
		contract.SignedByClient = true
	case contract.FreelancerID:
		if contract.SignedByFreelancer {
			return contract, nil
		}
		contract.SignedByFreelancer = true
	}

	if contract.SignedByClient && contract.SignedByFreelancer {
		if !valueobject.ContractStatus(contract.Status).CanTransitionTo(valueobject.ContractStatusActive) {
			return nil, apperror.New(apperror.ErrCodeStateConflict, "контракт нельзя активировать в текущем статусе")
		}
		now := time.Now()
		contract.Status = models.ContractStatusActive
		contract.StartDate = &now
	}

	if err := s.repo.Update(ctx, contract); err != nil {
		return nil, err
	}

	if contract.Status == models.ContractStatusActive {
		payload := map[string]any{"contract_id": contract.ID, "mission_id": contract.MissionID}
		notifyAsync(s.notifier, contract.ClientID, models.EventContractActivated, payload)
		notifyAsync(s.notifier, contract.FreelancerID, models.EventContractActivated, payload)
	}

	return contract, nil
}

// Complete завершает активный контракт. Доступно только клиенту.
func (s *ContractService) Complete(ctx context.Context, contractID, actorID uuid.UUID) (*models.Contract, error) {
	contract, err := s.repo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	if actorID != contract.ClientID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "завершить контракт может только клиент")
	}

	if !valueobject.ContractStatus(contract.Status).CanTransitionTo(valueobject.ContractStatusCompleted) {
		return nil, apperror.New(apperror.ErrCodeStateConflict, "завершить можно только активный контракт")
	}

	now := time.Now()
	contract.Status = models.ContractStatusCompleted
	contract.EndDate = &now

	if err := s.repo.Update(ctx, contract); err != nil {
		return nil, err
	}

	// Миссия закрывается вместе с контрактом.
	if err := s.missions.UpdateStatus(ctx, contract.MissionID, models.MissionStatusCompleted); err != nil {
		return nil, err
	}

	payload := map[string]any{"contract_id": contract.ID, "mission_id": contract.MissionID}
	notifyAsync(s.notifier, contract.ClientID, models.EventContractCompleted, payload)
	notifyAsync(s.notifier, contract.FreelancerID, models.EventContractCompleted, payload)

	return contract, nil
}
