package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/models"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/repository/common"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/validation"
)

// ProposalRepo описывает зависимости ProposalService от слоя хранилища.
type ProposalRepo interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	GetByMissionAndFreelancer(ctx context.Context, missionID, freelancerID uuid.UUID) (*models.Proposal, error)
	ListByMission(ctx context.Context, missionID uuid.UUID, limit, offset int) ([]models.Proposal, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Proposal, error)
	AcceptTx(ctx context.Context, tx *sqlx.Tx, proposalID, missionID uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// MissionRepoForProposal отдаёт миссию, в том числе с блокировкой строки
// внутри транзакции принятия отклика.
type MissionRepoForProposal interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Mission, error)
	GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.Mission, error)
	AssignFreelancer(ctx context.Context, tx *sqlx.Tx, missionID, freelancerID uuid.UUID) error
}

// ContractCreator создаёт контракт внутри транзакции принятия отклика.
type ContractCreator interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, contract *models.Contract) error
}

// ProposalService содержит бизнес-логику откликов. Принятие отклика
// выполняется одной транзакцией: отклик принимается, остальные
// отклоняются, миссия получает исполнителя, создаётся контракт pending.
type ProposalService struct {
	db        *sqlx.DB
	repo      ProposalRepo
	missions  MissionRepoForProposal
	contracts ContractCreator
	notifier  Notifier
}

// NewProposalService создаёт сервис откликов.
func NewProposalService(db *sqlx.DB, repo ProposalRepo, missions MissionRepoForProposal, contracts ContractCreator, notifier Notifier) *ProposalService {
	return &ProposalService{db: db, repo: repo, missions: missions, contracts: contracts, notifier: notifier}
}

// CreateProposalInput содержит данные нового отклика.
type CreateProposalInput struct {
	MissionID      uuid.UUID
	CoverLetter    string
	ProposedAmount float64
}

// CreateProposal создаёт отклик фрилансера на опубликованную миссию.
// Свою миссию откликом закрыть нельзя, повторный отклик не создаётся.
func (s *ProposalService) CreateProposal(ctx context.Context, freelancerID uuid.UUID, in CreateProposalInput) (*models.Proposal, error) {
	mission, err := s.missions.GetByID(ctx, in.MissionID)
	if err != nil {
		return nil, err
	}

	if mission.ClientID == freelancerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нельзя откликнуться на собственную миссию")
	}

	if mission.Status != models.MissionStatusPublished {
		return nil, apperror.New(apperror.ErrCodeStateConflict, "отклики принимаются только на опубликованные миссии")
	}

	if err := validation.ValidateCoverLetter(in.CoverLetter); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.ProposedAmount <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "предложенная сумма должна быть больше нуля")
	}

	if _, err := s.repo.GetByMissionAndFreelancer(ctx, in.MissionID, freelancerID); err == nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "отклик на эту миссию уже отправлен")
	} else if !errors.Is(err, apperror.ErrProposalNotFound) {
		return nil, err
	}

	proposal := &models.Proposal{
		MissionID:      in.MissionID,
		FreelancerID:   freelancerID,
		CoverLetter:    in.CoverLetter,
		ProposedAmount: in.ProposedAmount,
		Status:         models.ProposalStatusPending,
	}

	if err := s.repo.Create(ctx, proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

// ListMissionProposals возвращает отклики миссии. Доступно её владельцу.
func (s *ProposalService) ListMissionProposals(ctx context.Context, missionID, actorID uuid.UUID, actorRole string, limit, offset int) ([]models.Proposal, error) {
	mission, err := s.missions.GetByID(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if mission.ClientID != actorID && actorRole != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}
	limit, offset = normalizePage(limit, offset)
	return s.repo.ListByMission(ctx, missionID, limit, offset)
}

// ListMyProposals возвращает отклики фрилансера.
func (s *ProposalService) ListMyProposals(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Proposal, error) {
	limit, offset = normalizePage(limit, offset)
	return s.repo.ListByFreelancer(ctx, freelancerID, limit, offset)
}

// Shortlist помечает отклик как отобранный. Доступно владельцу миссии.
func (s *ProposalService) Shortlist(ctx context.Context, proposalID, actorID uuid.UUID) (*models.Proposal, error) {
	proposal, err := s.repo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	mission, err := s.missions.GetByID(ctx, proposal.MissionID)
	if err != nil {
		return nil, err
	}
	if mission.ClientID != actorID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "отбирать отклики может только владелец миссии")
	}

	if proposal.Status != models.ProposalStatusPending {
		return nil, apperror.New(apperror.ErrCodeStateConflict, "отобрать можно только ожидающий отклик")
	}

	if err := s.repo.UpdateStatus(ctx, proposalID, models.ProposalStatusShortlisted); err != nil {
		return nil, err
	}
	proposal.Status = models.ProposalStatusShortlisted
	return proposal, nil
}

// AcceptProposal принимает отклик и создаёт контракт в статусе pending.
// Миссия блокируется на время транзакции, чтобы два конкурирующих
// принятия не породили два контракта.
func (s *ProposalService) AcceptProposal(ctx context.Context, proposalID, actorID uuid.UUID, terms *string) (*models.Contract, error) {
	proposal, err := s.repo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	if proposal.Status == models.ProposalStatusAccepted || proposal.Status == models.ProposalStatusRejected {
		return nil, apperror.New(apperror.ErrCodeStateConflict, "отклик уже рассмотрен")
	}

	var contract *models.Contract
	err = common.WithTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		mission, err := s.missions.GetByIDTx(ctx, tx, proposal.MissionID)
		if err != nil {
			return err
		}

		if mission.ClientID != actorID {
			return apperror.New(apperror.ErrCodeForbidden, "принять отклик может только владелец миссии")
		}
		if mission.Status != models.MissionStatusPublished {
			return apperror.New(apperror.ErrCodeStateConflict, "миссия уже не принимает отклики")
		}

		if err := s.repo.AcceptTx(ctx, tx, proposal.ID, mission.ID); err != nil {
			return err
		}
		if err := s.missions.AssignFreelancer(ctx, tx, mission.ID, proposal.FreelancerID); err != nil {
			return err
		}

		contract = &models.Contract{
			MissionID:    mission.ID,
			ClientID:     mission.ClientID,
			FreelancerID: proposal.FreelancerID,
			TotalAmount:  proposal.ProposedAmount,
			Currency:     mission.Currency,
			Status:       models.ContractStatusPending,
			Terms:        terms,
		}
		return s.contracts.CreateTx(ctx, tx, contract)
	})
	if err != nil {
		return nil, err
	}

	payload := map[string]any{"proposal_id": proposal.ID, "contract_id": contract.ID}
	notifyAsync(s.notifier, proposal.FreelancerID, models.EventProposalAccepted, payload)

	return contract, nil
}
