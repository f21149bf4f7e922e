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

// DisputeRepository отвечает за работу со спорами и их сообщениями.
type DisputeRepository struct {
	db *sqlx.DB
}

// NewDisputeRepository создаёт новый экземпляр.
func NewDisputeRepository(db *sqlx.DB) *DisputeRepository {
	return &DisputeRepository{db: db}
}

// Create сохраняет новый спор.
func (r *DisputeRepository) Create(ctx context.Context, d *models.Dispute) error {
	query := `
		INSERT INTO disputes (mission_id, contract_id, opened_by_id, reason, status, category, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		d.MissionID, d.ContractID, d.OpenedByID, d.Reason, d.Status, d.Category, d.Priority).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("dispute repository: create %w", err)
	}
	return nil
}

// GetByID возвращает спор по идентификатору.
func (r *DisputeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	return common.GetByID[models.Dispute](ctx, r.db, "disputes", id, apperror.ErrDisputeNotFound)
}

// GetOpenByMissionID возвращает незакрытый спор по миссии, если он есть.
func (r *DisputeRepository) GetOpenByMissionID(ctx context.Context, missionID uuid.UUID) (*models.Dispute, error) {
	var d models.Dispute
	err := r.db.GetContext(ctx, &d, `
		SELECT * FROM disputes
		WHERE mission_id = $1 AND status IN ($2, $3)
		ORDER BY created_at DESC LIMIT 1
	`, missionID, models.DisputeStatusOpen, models.DisputeStatusUnderReview)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrDisputeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("dispute repository: get open by mission %w", err)
	}
	return &d, nil
}

// Update сохраняет изменённые поля спора.
func (r *DisputeRepository) Update(ctx context.Context, d *models.Dispute) error {
	d.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE disputes
		SET status = $2, category = $3, priority = $4, assigned_to_id = $5,
		    resolution = $6, admin_notes = $7, favored_party = $8, resolved_at = $9, updated_at = $10
		WHERE id = $1
	`, d.ID, d.Status, d.Category, d.Priority, d.AssignedToID,
		d.Resolution, d.AdminNotes, d.FavoredParty, d.ResolvedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("dispute repository: update %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperror.ErrDisputeNotFound
	}
	return nil
}

// ListByUser возвращает споры, где пользователь — сторона контракта.
func (r *DisputeRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := r.db.SelectContext(ctx, &disputes, `
		SELECT d.* FROM disputes d
		JOIN contracts c ON d.contract_id = c.id
		WHERE c.client_id = $1 OR c.freelancer_id = $1
		ORDER BY d.created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("dispute repository: list by user %w", err)
	}
	return disputes, nil
}

// Текстовые приоритеты сортируются по рангу, а не лексикографически.
const priorityRank = `CASE priority WHEN 'critical' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END`

// ListAll возвращает споры для административной панели с фильтром по статусу.
// Срочные споры идут первыми.
func (r *DisputeRepository) ListAll(ctx context.Context, status string, limit, offset int) ([]models.Dispute, error) {
	var disputes []models.Dispute
	var err error
	if status != "" {
		err = r.db.SelectContext(ctx, &disputes, `
			SELECT * FROM disputes WHERE status = $1 ORDER BY `+priorityRank+` DESC, created_at DESC LIMIT $2 OFFSET $3
		`, status, limit, offset)
	} else {
		err = r.db.SelectContext(ctx, &disputes, `
			SELECT * FROM disputes ORDER BY `+priorityRank+` DESC, created_at DESC LIMIT $1 OFFSET $2
		`, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("dispute repository: list all %w", err)
	}
	return disputes, nil
}

// CreateMessage сохраняет сообщение в треде спора.
func (r *DisputeRepository) CreateMessage(ctx context.Context, m *models.DisputeMessage) error {
	query := `
		INSERT INTO dispute_messages (dispute_id, sender_id, content, is_internal)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, m.DisputeID, m.SenderID, m.Content, m.IsInternal).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("dispute repository: create message %w", err)
	}
	return nil
}

// GetMessageByID возвращает сообщение спора.
func (r *DisputeRepository) GetMessageByID(ctx context.Context, id uuid.UUID) (*models.DisputeMessage, error) {
	return common.GetByID[models.DisputeMessage](ctx, r.db, "dispute_messages", id, apperror.New(apperror.ErrCodeNotFound, "сообщение не найдено"))
}

// ListMessages возвращает сообщения спора. Для не-администраторов
// внутренние сообщения отфильтровываются на уровне SQL.
func (r *DisputeRepository) ListMessages(ctx context.Context, disputeID uuid.UUID, includeInternal bool) ([]models.DisputeMessage, error) {
	var messages []models.DisputeMessage
	var err error
	if includeInternal {
		err = r.db.SelectContext(ctx, &messages, `
			SELECT * FROM dispute_messages WHERE dispute_id = $1 ORDER BY created_at
		`, disputeID)
	} else {
		err = r.db.SelectContext(ctx, &messages, `
			SELECT * FROM dispute_messages WHERE dispute_id = $1 AND is_internal = FALSE ORDER BY created_at
		`, disputeID)
	}
	if err != nil {
		return nil, fmt.Errorf("dispute repository: list messages %w", err)
	}
	return messages, nil
}
