package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/models"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/repository/common"
)

// EvidenceRepository отвечает за метаданные файлов-доказательств.
type EvidenceRepository struct {
	db *sqlx.DB
}

// NewEvidenceRepository создаёт новый экземпляр.
func NewEvidenceRepository(db *sqlx.DB) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

// Create сохраняет метаданные файла.
func (r *EvidenceRepository) Create(ctx context.Context, f *models.EvidenceFile) error {
	query := `
		INSERT INTO evidence_files (message_id, user_id, file_path, file_type, file_size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, f.MessageID, f.UserID, f.FilePath, f.FileType, f.FileSize).
		Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("evidence repository: create %w", err)
	}
	return nil
}

// GetByID возвращает метаданные файла.
func (r *EvidenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EvidenceFile, error) {
	return common.GetByID[models.EvidenceFile](ctx, r.db, "evidence_files", id, apperror.New(apperror.ErrCodeNotFound, "файл не найден"))
}

// ListByMessage возвращает файлы, прикреплённые к сообщению спора.
func (r *EvidenceRepository) ListByMessage(ctx context.Context, messageID uuid.UUID) ([]models.EvidenceFile, error) {
	var files []models.EvidenceFile
	err := r.db.SelectContext(ctx, &files, `
		SELECT * FROM evidence_files WHERE message_id = $1 ORDER BY created_at
	`, messageID)
	if err != nil {
		return nil, fmt.Errorf("evidence repository: list by message %w", err)
	}
	return files, nil
}
