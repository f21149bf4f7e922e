package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/models"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/validation"
)

// DisputeRepo описывает зависимости DisputeService от слоя хранилища.
type DisputeRepo interface {
	Create(ctx context.Context, d *models.Dispute) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error)
	GetOpenByMissionID(ctx context.Context, missionID uuid.UUID) (*models.Dispute, error)
	Update(ctx context.Context, d *models.Dispute) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Dispute, error)
	ListAll(ctx context.Context, status string, limit, offset int) ([]models.Dispute, error)
	CreateMessage(ctx context.Context, m *models.DisputeMessage) error
	ListMessages(ctx context.Context, disputeID uuid.UUID, includeInternal bool) ([]models.DisputeMessage, error)
}

// ContractRepoForDispute нужен для проверки сторон и заморозки контракта.
type ContractRepoForDispute interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// DisputeService реализует жизненный цикл споров: открытие участником,
// модерация администратором, переписка и разрешение. Открытый спор
// замораживает контракт (active→disputed), разрешение или закрытие
// размораживает его обратно.
type DisputeService struct {
	repo      DisputeRepo
	contracts ContractRepoForDispute
	notifier  Notifier
}

// NewDisputeService создаёт сервис споров.
func NewDisputeService(repo DisputeRepo, contracts ContractRepoForDispute, notifier Notifier) *DisputeService {
	return &DisputeService{repo: repo, contracts: contracts, notifier: notifier}
}

// OpenDisputeInput содержит данные нового спора.
type OpenDisputeInput struct {
	ContractID uuid.UUID
	Reason     string
	Category   string
	Priority   string
}

// OpenDispute открывает спор по контракту. Доступно сторонам активного
// контракта; повторный спор по той же миссии не открывается, пока
// предыдущий не разрешён.
func (s *DisputeService) OpenDispute(ctx context.Context, actorID uuid.UUID, in OpenDisputeInput) (*models.Dispute, error) {
	contract, err := s.contracts.GetByID(ctx, in.ContractID)
	if err != nil {
		return nil, err
	}

	if !contract.IsParty(actorID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "открыть спор может только сторона контракта")
	}

	if !valueobject.ContractStatus(contract.Status).CanTransitionTo(valueobject.ContractStatusDisputed) {
		return nil, apperror.New(apperror.ErrCodeStateConflict, "спор открывается только по активному контракту")
	}

	if err := validation.ValidateDisputeReason(in.Reason); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	category := in.Category
	if _, ok := models.ValidDisputeCategories[category]; !ok {
		category = models.DisputeCategoryOther
	}
	priority := in.Priority
	if _, ok := models.ValidDisputePriorities[priority]; !ok {
		priority = models.DisputePriorityMedium
	}

	if _, err := s.repo.GetOpenByMissionID(ctx, contract.MissionID); err == nil {
		return nil, apperror.New(apperror.ErrCodeStateConflict, "по этой миссии уже открыт спор")
	} else if !errors.Is(err, apperror.ErrDisputeNotFound) {
		return nil, err
	}

	dispute := &models.Dispute{
		MissionID:  contract.MissionID,
		ContractID: contract.ID,
		OpenedByID: actorID,
		Reason:     in.Reason,
		Status:     models.DisputeStatusOpen,
		Category:   category,
		Priority:   priority,
	}

	if err := s.repo.Create(ctx, dispute); err != nil {
		return nil, err
	}

	// Контракт замораживается до разрешения спора.
	if err := s.contracts.UpdateStatus(ctx, contract.ID, models.ContractStatusDisputed); err != nil {
		return nil, err
	}

	payload := map[string]any{"dispute_id": dispute.ID, "contract_id": contract.ID}
	notifyAsync(s.notifier, otherParty(contract, actorID), models.EventDisputeOpened, payload)

	return dispute, nil
}

// GetDispute возвращает спор его участникам и администратору.
func (s *DisputeService) GetDispute(ctx context.Context, disputeID, actorID uuid.UUID, actorRole string) (*models.Dispute, error) {
	dispute, err := s.repo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, dispute, actorID, actorRole); err != nil {
		return nil, err
	}
	return dispute, nil
}

// ListUserDisputes возвращает споры по контрактам пользователя.
func (s *DisputeService) ListUserDisputes(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Dispute, error) {
	limit, offset = normalizePage(limit, offset)
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// ListAllDisputes возвращает споры для административной панели.
func (s *DisputeService) ListAllDisputes(ctx context.Context, actorRole, status string, limit, offset int) ([]models.Dispute, error) {
	if actorRole != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}
	if status != "" {
		if _, err := valueobject.NewDisputeStatus(status); err != nil {
			return nil, err
		}
	}
	limit, offset = normalizePage(limit, offset)
	return s.repo.ListAll(ctx, status, limit, offset)
}

// AddMessage добавляет сообщение в тред спора. Внутренние заметки
// может оставлять только администратор; переписка возможна, пока спор
// открыт или на рассмотрении.
func (s *DisputeService) AddMessage(ctx context.Context, disputeID, actorID uuid.UUID, actorRole, content string, isInternal bool) (*models.DisputeMessage, error) {
	dispute, err := s.repo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(ctx, dispute, actorID, actorRole); err != nil {
		return nil, err
	}

	if isInternal && actorRole != models.UserRoleAdmin {
		return nil, apperror.New(apperror.ErrCodeForbidden, "внутренние заметки доступны только администратору")
	}

	if !dispute.AcceptsMessages() {
		return nil, apperror.New(apperror.ErrCodeStateConflict, "спор закрыт для переписки")
	}

	if err := validation.ValidateMessageContent(content); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	message := &models.DisputeMessage{
		DisputeID:  disputeID,
		SenderID:   actorID,
		Content:    content,
		IsInternal: isInternal,
	}

	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

// ListMessages возвращает тред спора. Внутренние сообщения видит
// только администратор, фильтрация выполняется на уровне запроса.
func (s *DisputeService) ListMessages(ctx context.Context, disputeID, actorID uuid.UUID, actorRole string) ([]models.DisputeMessage, error) {
	dispute, err := s.repo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, dispute, actorID, actorRole); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, disputeID, actorRole == models.UserRoleAdmin)
}

// UpdateStatus переводит спор в новый статус по таблице переходов.
// Доступно администратору. Переход в resolved через эту операцию
// запрещён: разрешение обязано нести вердикт, см. Resolve.
func (s *DisputeService) UpdateStatus(ctx context.Context, disputeID, actorID uuid.UUID, actorRole, newStatus string) (*models.Dispute, error) {
	if actorRole != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}

	target, err := valueobject.NewDisputeStatus(newStatus)
	if err != nil {
		return nil, err
	}
	if target == valueobject.DisputeStatusResolved {
		return nil, apperror.New(apperror.ErrCodeStateConflict, "перевод в resolved выполняется операцией разрешения")
	}

	dispute, err := s.repo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	if !valueobject.DisputeStatus(dispute.Status).CanTransitionTo(target) {
		return nil, apperror.New(apperror.ErrCodeStateConflict,
			"переход спора из статуса '"+dispute.Status+"' в '"+newStatus+"' недопустим")
	}

	dispute.Status = newStatus
	if err := s.repo.Update(ctx, dispute); err != nil {
		return nil, err
	}

	if target == valueobject.DisputeStatusClosed {
		if err := s.unfreezeContract(ctx, dispute.ContractID); err != nil {
			return nil, err
		}
	}

	return dispute, nil
}

// Assign назначает спор администратору.
func (s *DisputeService) Assign(ctx context.Context, disputeID, actorID uuid.UUID, actorRole string, assigneeID uuid.UUID) (*models.Dispute, error) {
	if actorRole != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}

	dispute, err := s.repo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	dispute.AssignedToID = &assigneeID
	if dispute.Status == models.DisputeStatusOpen {
		dispute.Status = models.DisputeStatusUnderReview
	}

	if err := s.repo.Update(ctx, dispute); err != nil {
		return nil, err
	}
	return dispute, nil
}

// UpdateTriage меняет категорию и приоритет спора. Доступно администратору.
func (s *DisputeService) UpdateTriage(ctx context.Context, disputeID uuid.UUID, actorRole, category, priority string) (*models.Dispute, error) {
	if actorRole != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}

	dispute, err := s.repo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	if category != "" {
		if _, ok := models.ValidDisputeCategories[category]; !ok {
			return nil, apperror.New(apperror.ErrCodeValidation, "неизвестная категория спора")
		}
		dispute.Category = category
	}
	if priority != "" {
		if _, ok := models.ValidDisputePriorities[priority]; !ok {
			return nil, apperror.New(apperror.ErrCodeValidation, "неизвестный приоритет спора")
		}
		dispute.Priority = priority
	}

	if err := s.repo.Update(ctx, dispute); err != nil {
		return nil, err
	}
	return dispute, nil
}

// ResolveInput содержит вердикт администратора.
type ResolveInput struct {
	Resolution   string
	FavoredParty string
	AdminNotes   *string
}

// Resolve разрешает спор: фиксирует вердикт, ставит resolved_at и
// размораживает контракт. Время разрешения выставляется один раз и не
// перезаписывается при повторном разрешении после возврата на
// рассмотрение.
func (s *DisputeService) Resolve(ctx context.Context, disputeID, actorID uuid.UUID, actorRole string, in ResolveInput) (*models.Dispute, error) {
	if actorRole != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}

	dispute, err := s.repo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	if !valueobject.DisputeStatus(dispute.Status).CanTransitionTo(valueobject.DisputeStatusResolved) {
		return nil, apperror.New(apperror.ErrCodeStateConflict, "спор уже разрешён или закрыт")
	}

	if in.Resolution == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "требуется текст решения")
	}
	if _, ok := models.ValidFavoredParties[in.FavoredParty]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "неизвестная сторона решения")
	}

	dispute.Status = models.DisputeStatusResolved
	dispute.Resolution = &in.Resolution
	dispute.FavoredParty = &in.FavoredParty
	if in.AdminNotes != nil {
		dispute.AdminNotes = in.AdminNotes
	}
	if dispute.ResolvedAt == nil {
		now := time.Now()
		dispute.ResolvedAt = &now
	}

	if err := s.repo.Update(ctx, dispute); err != nil {
		return nil, err
	}

	if err := s.unfreezeContract(ctx, dispute.ContractID); err != nil {
		return nil, err
	}

	contract, err := s.contracts.GetByID(ctx, dispute.ContractID)
	if err == nil {
		payload := map[string]any{"dispute_id": dispute.ID, "favored_party": in.FavoredParty}
		notifyAsync(s.notifier, contract.ClientID, models.EventDisputeResolved, payload)
		notifyAsync(s.notifier, contract.FreelancerID, models.EventDisputeResolved, payload)
	}

	return dispute, nil
}

// checkAccess пропускает стороны контракта спора и администратора.
func (s *DisputeService) checkAccess(ctx context.Context, dispute *models.Dispute, actorID uuid.UUID, actorRole string) error {
	if actorRole == models.UserRoleAdmin {
		return nil
	}
	contract, err := s.contracts.GetByID(ctx, dispute.ContractID)
	if err != nil {
		return err
	}
	if !contract.IsParty(actorID) {
		return apperror.ErrForbidden
	}
	return nil
}

// unfreezeContract возвращает замороженный контракт в active.
func (s *DisputeService) unfreezeContract(ctx context.Context, contractID uuid.UUID) error {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return err
	}
	if contract.Status != models.ContractStatusDisputed {
		return nil
	}
	return s.contracts.UpdateStatus(ctx, contractID, models.ContractStatusActive)
}

// otherParty возвращает вторую сторону контракта.
func otherParty(contract *models.Contract, actorID uuid.UUID) uuid.UUID {
	if actorID == contract.ClientID {
		return contract.FreelancerID
	}
	return contract.ClientID
}

// normalizePage приводит пагинацию к безопасным значениям.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
