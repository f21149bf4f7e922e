package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/models"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/repository/common"
)

// ProposalRepository отвечает за работу с откликами на миссии.
type ProposalRepository struct {
	db *sqlx.DB
}

// NewProposalRepository создаёт новый экземпляр.
func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Create сохраняет новый отклик.
func (r *ProposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	query := `
		INSERT INTO proposals (mission_id, freelancer_id, cover_letter, proposed_amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		proposal.MissionID, proposal.FreelancerID, proposal.CoverLetter,
		proposal.ProposedAmount, proposal.Status).
		Scan(&proposal.ID, &proposal.CreatedAt, &proposal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("proposal repository: create %w", err)
	}
	return nil
}

// GetByID возвращает отклик по идентификатору.
func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	return common.GetByID[models.Proposal](ctx, r.db, "proposals", id, apperror.ErrProposalNotFound)
}

// GetByMissionAndFreelancer возвращает отклик фрилансера на миссию.
func (r *ProposalRepository) GetByMissionAndFreelancer(ctx context.Context, missionID, freelancerID uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.GetContext(ctx, &proposal, `
		SELECT * FROM proposals WHERE mission_id = $1 AND freelancer_id = $2
	`, missionID, freelancerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrProposalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("proposal repository: get by mission and freelancer %w", err)
	}
	return &proposal, nil
}

// ListByMission возвращает отклики по миссии.
func (r *ProposalRepository) ListByMission(ctx context.Context, missionID uuid.UUID, limit, offset int) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.SelectContext(ctx, &proposals, `
		SELECT * FROM proposals WHERE mission_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, missionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: list by mission %w", err)
	}
	return proposals, nil
}

// ListByFreelancer возвращает отклики фрилансера.
func (r *ProposalRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.SelectContext(ctx, &proposals, `
		SELECT * FROM proposals WHERE freelancer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, freelancerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: list by freelancer %w", err)
	}
	return proposals, nil
}

// AcceptTx помечает отклик принятым и отклоняет остальные отклики миссии.
// Выполняется внутри транзакции принятия отклика.
func (r *ProposalRepository) AcceptTx(ctx context.Context, tx *sqlx.Tx, proposalID, missionID uuid.UUID) error {
	now := time.Now()
	res, err := tx.ExecContext(ctx, `
		UPDATE proposals SET status = $2, updated_at = $3 WHERE id = $1
	`, proposalID, models.ProposalStatusAccepted, now)
	if err != nil {
		return fmt.Errorf("proposal repository: accept %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperror.ErrProposalNotFound
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE proposals SET status = $3, updated_at = $4
		WHERE mission_id = $1 AND id <> $2 AND status <> $3
	`, missionID, proposalID, models.ProposalStatusRejected, now)
	if err != nil {
		return fmt.Errorf("proposal repository: reject siblings %w", err)
	}
	return nil
}

// UpdateStatus переводит отклик в новый статус.
func (r *ProposalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE proposals SET status = $2, updated_at = $3 WHERE id = $1`, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("proposal repository: update status %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperror.ErrProposalNotFound
	}
	return nil
}
