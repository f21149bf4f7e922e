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

// MissionRepository отвечает за работу с миссиями.
type MissionRepository struct {
	db *sqlx.DB
}

// NewMissionRepository создаёт новый экземпляр.
func NewMissionRepository(db *sqlx.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

// Create сохраняет новую миссию.
func (r *MissionRepository) Create(ctx context.Context, mission *models.Mission) error {
	query := `
		INSERT INTO missions (client_id, title, description, budget_min, budget_max, currency, status, deadline_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		mission.ClientID, mission.Title, mission.Description,
		mission.BudgetMin, mission.BudgetMax, mission.Currency,
		mission.Status, mission.DeadlineAt).
		Scan(&mission.ID, &mission.CreatedAt, &mission.UpdatedAt)
	if err != nil {
		return fmt.Errorf("mission repository: create %w", err)
	}
	return nil
}

// GetByID возвращает миссию по идентификатору.
func (r *MissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Mission, error) {
	return common.GetByID[models.Mission](ctx, r.db, "missions", id, apperror.ErrMissionNotFound)
}

// UpdateStatus переводит миссию в новый статус.
func (r *MissionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE missions SET status = $2, updated_at = $3 WHERE id = $1`, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("mission repository: update status %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperror.ErrMissionNotFound
	}
	return nil
}

// AssignFreelancer назначает исполнителя и переводит миссию в работу.
// Выполняется внутри транзакции принятия отклика.
func (r *MissionRepository) AssignFreelancer(ctx context.Context, tx *sqlx.Tx, missionID, freelancerID uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE missions SET freelancer_id = $2, status = $3, updated_at = $4 WHERE id = $1
	`, missionID, freelancerID, models.MissionStatusInProgress, time.Now())
	if err != nil {
		return fmt.Errorf("mission repository: assign freelancer %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperror.ErrMissionNotFound
	}
	return nil
}

// ListByClient возвращает миссии клиента, опционально отфильтрованные по статусу.
func (r *MissionRepository) ListByClient(ctx context.Context, clientID uuid.UUID, status string, limit, offset int) ([]models.Mission, error) {
	var missions []models.Mission
	var err error
	if status != "" {
		err = r.db.SelectContext(ctx, &missions, `
			SELECT * FROM missions WHERE client_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4
		`, clientID, status, limit, offset)
	} else {
		err = r.db.SelectContext(ctx, &missions, `
			SELECT * FROM missions WHERE client_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
		`, clientID, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("mission repository: list by client %w", err)
	}
	return missions, nil
}

// ListPublished возвращает опубликованные миссии для ленты фрилансеров.
func (r *MissionRepository) ListPublished(ctx context.Context, limit, offset int) ([]models.Mission, error) {
	var missions []models.Mission
	err := r.db.SelectContext(ctx, &missions, `
		SELECT * FROM missions WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, models.MissionStatusPublished, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("mission repository: list published %w", err)
	}
	return missions, nil
}

// GetByIDTx возвращает миссию внутри транзакции с блокировкой строки.
func (r *MissionRepository) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.Mission, error) {
	var mission models.Mission
	err := tx.GetContext(ctx, &mission, `SELECT * FROM missions WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, apperror.ErrMissionNotFound
	}
	return &mission, nil
}
