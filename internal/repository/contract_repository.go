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

// ContractRepository отвечает за работу с контрактами.
type ContractRepository struct {
	db *sqlx.DB
}

// NewContractRepository создаёт новый экземпляр.
func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// CreateTx сохраняет контракт внутри транзакции принятия отклика.
func (r *ContractRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, contract *models.Contract) error {
	query := `
		INSERT INTO contracts (mission_id, client_id, freelancer_id, total_amount, currency, status, terms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, signed_by_client, signed_by_freelancer, created_at, updated_at
	`
	err := tx.QueryRowContext(ctx, query,
		contract.MissionID, contract.ClientID, contract.FreelancerID,
		contract.TotalAmount, contract.Currency, contract.Status, contract.Terms).
		Scan(&contract.ID, &contract.SignedByClient, &contract.SignedByFreelancer, &contract.CreatedAt, &contract.UpdatedAt)
	if err != nil {
		return fmt.Errorf("contract repository: create %w", err)
	}
	return nil
}

// GetByID возвращает контракт по идентификатору.
func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	return common.GetByID[models.Contract](ctx, r.db, "contracts", id, apperror.ErrContractNotFound)
}

// GetByMissionID возвращает контракт по миссии.
func (r *ContractRepository) GetByMissionID(ctx context.Context, missionID uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.GetContext(ctx, &contract, `SELECT * FROM contracts WHERE mission_id = $1`, missionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("contract repository: get by mission %w", err)
	}
	return &contract, nil
}

// Update сохраняет изменённые поля контракта. Обновление одной строки
// атомарно на уровне базы: частичных мутаций при ошибке не остаётся.
func (r *ContractRepository) Update(ctx context.Context, contract *models.Contract) error {
	contract.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE contracts
		SET status = $2, signed_by_client = $3, signed_by_freelancer = $4,
		    start_date = $5, end_date = $6, updated_at = $7
		WHERE id = $1
	`, contract.ID, contract.Status, contract.SignedByClient, contract.SignedByFreelancer,
		contract.StartDate, contract.EndDate, contract.UpdatedAt)
	if err != nil {
		return fmt.Errorf("contract repository: update %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperror.ErrContractNotFound
	}
	return nil
}

// UpdateStatus переводит контракт в новый статус.
func (r *ContractRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE contracts SET status = $2, updated_at = $3 WHERE id = $1`, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("contract repository: update status %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperror.ErrContractNotFound
	}
	return nil
}

// ListByUser возвращает контракты, где пользователь — одна из сторон.
func (r *ContractRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.SelectContext(ctx, &contracts, `
		SELECT * FROM contracts
		WHERE client_id = $1 OR freelancer_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("contract repository: list by user %w", err)
	}
	return contracts, nil
}
