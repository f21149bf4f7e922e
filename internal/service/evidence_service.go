package service

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/models"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/pkg/apperror"
)

// EvidenceRepo описывает хранилище метаданных доказательств.
type EvidenceRepo interface {
	Create(ctx context.Context, f *models.EvidenceFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.EvidenceFile, error)
	ListByMessage(ctx context.Context, messageID uuid.UUID) ([]models.EvidenceFile, error)
}

// DisputeMessageReader отдаёт сообщение и спор для проверки доступа.
type DisputeMessageReader interface {
	GetMessageByID(ctx context.Context, id uuid.UUID) (*models.DisputeMessage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error)
}

// FileStore описывает файловое хранилище доказательств.
type FileStore interface {
	Save(ctx context.Context, userID uuid.UUID, originalName string, r io.Reader) (string, string, int64, error)
	Delete(ctx context.Context, relativePath string) error
	Open(ctx context.Context, relativePath string) (*os.File, error)
}

// EvidenceService прикрепляет файлы-доказательства к сообщениям спора.
type EvidenceService struct {
	repo      EvidenceRepo
	disputes  DisputeMessageReader
	contracts ContractRepoForDispute
	store     FileStore
}

// NewEvidenceService создаёт сервис доказательств.
func NewEvidenceService(repo EvidenceRepo, disputes DisputeMessageReader, contracts ContractRepoForDispute, store FileStore) *EvidenceService {
	return &EvidenceService{repo: repo, disputes: disputes, contracts: contracts, store: store}
}

// Attach сохраняет файл и привязывает его к сообщению спора. Прикреплять
// файлы может только автор сообщения, и только пока спор открыт для
// переписки.
func (s *EvidenceService) Attach(ctx context.Context, messageID, actorID uuid.UUID, originalName string, r io.Reader) (*models.EvidenceFile, error) {
	message, err := s.disputes.GetMessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if message.SenderID != actorID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "прикреплять файлы может только автор сообщения")
	}

	dispute, err := s.disputes.GetByID(ctx, message.DisputeID)
	if err != nil {
		return nil, err
	}
	if !dispute.AcceptsMessages() {
		return nil, apperror.New(apperror.ErrCodeStateConflict, "спор закрыт для переписки")
	}

	path, mimeType, size, err := s.store.Save(ctx, actorID, originalName, r)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, "файл не принят")
	}

	file := &models.EvidenceFile{
		MessageID: messageID,
		UserID:    actorID,
		FilePath:  path,
		FileType:  mimeType,
		FileSize:  size,
	}

	if err := s.repo.Create(ctx, file); err != nil {
		// Метаданные не записались, файл на диске не нужен.
		_ = s.store.Delete(ctx, path)
		return nil, err
	}

	return file, nil
}

// Open отдаёт файл-доказательство. Доступ у сторон контракта спора
// и администратора.
func (s *EvidenceService) Open(ctx context.Context, fileID, actorID uuid.UUID, actorRole string) (*models.EvidenceFile, *os.File, error) {
	file, err := s.repo.GetByID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}

	message, err := s.disputes.GetMessageByID(ctx, file.MessageID)
	if err != nil {
		return nil, nil, err
	}
	dispute, err := s.disputes.GetByID(ctx, message.DisputeID)
	if err != nil {
		return nil, nil, err
	}

	if actorRole != models.UserRoleAdmin {
		contract, err := s.contracts.GetByID(ctx, dispute.ContractID)
		if err != nil {
			return nil, nil, err
		}
		if !contract.IsParty(actorID) {
			return nil, nil, apperror.ErrForbidden
		}
		if message.IsInternal {
			return nil, nil, apperror.ErrForbidden
		}
	}

	f, err := s.store.Open(ctx, file.FilePath)
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeNotFound, "файл не найден")
	}
	return file, f, nil
}

// ListByMessage возвращает файлы сообщения. Доступ как у Open: стороны
// контракта спора и администратор, внутренние сообщения скрыты от сторон.
func (s *EvidenceService) ListByMessage(ctx context.Context, messageID, actorID uuid.UUID, actorRole string) ([]models.EvidenceFile, error) {
	message, err := s.disputes.GetMessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	dispute, err := s.disputes.GetByID(ctx, message.DisputeID)
	if err != nil {
		return nil, err
	}

	if actorRole != models.UserRoleAdmin {
		contract, err := s.contracts.GetByID(ctx, dispute.ContractID)
		if err != nil {
			return nil, err
		}
		if !contract.IsParty(actorID) {
			return nil, apperror.ErrForbidden
		}
		if message.IsInternal {
			return nil, apperror.ErrForbidden
		}
	}

	return s.repo.ListByMessage(ctx, messageID)
}
