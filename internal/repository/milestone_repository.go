package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/models"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/repository/common"
)

// MilestoneRepository отвечает за работу с этапами контрактов.
type MilestoneRepository struct {
	db *sqlx.DB
}

// NewMilestoneRepository создаёт новый экземпляр.
func NewMilestoneRepository(db *sqlx.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

// Create сохраняет новый этап.
func (r *MilestoneRepository) Create(ctx context.Context, milestone *models.Milestone) error {
	query := `
		INSERT INTO milestones (contract_id, title, description, amount, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		milestone.ContractID, milestone.Title, milestone.Description,
		milestone.Amount, milestone.DueDate, milestone.Status).
		Scan(&milestone.ID, &milestone.CreatedAt, &milestone.UpdatedAt)
	if err != nil {
		return fmt.Errorf("milestone repository: create %w", err)
	}
	return nil
}

// GetByID возвращает этап по идентификатору.
func (r *MilestoneRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Milestone, error) {
	return common.GetByID[models.Milestone](ctx, r.db, "milestones", id, apperror.ErrMilestoneNotFound)
}

// UpdateStatus переводит этап в новый статус. Переход защищён проверкой
// текущего статуса на уровне SQL: конкурирующее обновление того же этапа
// не пройдёт проверку и вернёт not found вместо тихой перезаписи.
func (r *MilestoneRepository) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE milestones SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2
	`, id, fromStatus, toStatus, time.Now())
	if err != nil {
		return fmt.Errorf("milestone repository: update status %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperror.ErrMilestoneNotFound
	}
	return nil
}

// ListByContract возвращает этапы контракта в порядке создания.
func (r *MilestoneRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]models.Milestone, error) {
	var milestones []models.Milestone
	err := r.db.SelectContext(ctx, &milestones, `
		SELECT * FROM milestones WHERE contract_id = $1 ORDER BY created_at
	`, contractID)
	if err != nil {
		return nil, fmt.Errorf("milestone repository: list by contract %w", err)
	}
	return milestones, nil
}
