package service

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/models"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/pkg/apperror"
)

type mockEvidenceRepo struct {
	mock.Mock
}

func (m *mockEvidenceRepo) Create(ctx context.Context, f *models.EvidenceFile) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *mockEvidenceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.EvidenceFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EvidenceFile), args.Error(1)
}

func (m *mockEvidenceRepo) ListByMessage(ctx context.Context, messageID uuid.UUID) ([]models.EvidenceFile, error) {
	args := m.Called(ctx, messageID)
	return args.Get(0).([]models.EvidenceFile), args.Error(1)
}

type mockMessageReader struct {
	mock.Mock
}

func (m *mockMessageReader) GetMessageByID(ctx context.Context, id uuid.UUID) (*models.DisputeMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DisputeMessage), args.Error(1)
}

func (m *mockMessageReader) GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dispute), args.Error(1)
}

type mockFileStore struct {
	mock.Mock
}

func (m *mockFileStore) Save(ctx context.Context, userID uuid.UUID, originalName string, r io.Reader) (string, string, int64, error) {
	args := m.Called(ctx, userID, originalName, r)
	return args.String(0), args.String(1), args.Get(2).(int64), args.Error(3)
}

func (m *mockFileStore) Delete(ctx context.Context, relativePath string) error {
	args := m.Called(ctx, relativePath)
	return args.Error(0)
}

func (m *mockFileStore) Open(ctx context.Context, relativePath string) (*os.File, error) {
	args := m.Called(ctx, relativePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*os.File), args.Error(1)
}

func disputeMessage(disputeID, senderID uuid.UUID, isInternal bool) *models.DisputeMessage {
	return &models.DisputeMessage{
		ID:         uuid.New(),
		DisputeID:  disputeID,
		SenderID:   senderID,
		Content:    "Прикладываю скриншоты",
		IsInternal: isInternal,
	}
}

func TestEvidenceService_Attach_Success(t *testing.T) {
	repo := new(mockEvidenceRepo)
	disputes := new(mockMessageReader)
	store := new(mockFileStore)
	svc := NewEvidenceService(repo, disputes, new(mockContractRepo), store)
	ctx := context.Background()

	senderID := uuid.New()
	contract := activeContract(senderID, uuid.New())
	dispute := openDisputeOn(contract, senderID)
	message := disputeMessage(dispute.ID, senderID, false)

	disputes.On("GetMessageByID", ctx, message.ID).Return(message, nil)
	disputes.On("GetByID", ctx, dispute.ID).Return(dispute, nil)
	store.On("Save", ctx, senderID, "screenshot.png", mock.Anything).
		Return("ab/cd/screenshot.png", "image/png", int64(2048), nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.EvidenceFile")).Return(nil)

	file, err := svc.Attach(ctx, message.ID, senderID, "screenshot.png", strings.NewReader("png-bytes"))
	assert.NoError(t, err)
	assert.Equal(t, "ab/cd/screenshot.png", file.FilePath)
	assert.Equal(t, "image/png", file.FileType)
	assert.Equal(t, int64(2048), file.FileSize)
}

func TestEvidenceService_Attach_NotSenderForbidden(t *testing.T) {
	repo := new(mockEvidenceRepo)
	disputes := new(mockMessageReader)
	svc := NewEvidenceService(repo, disputes, new(mockContractRepo), new(mockFileStore))
	ctx := context.Background()

	message := disputeMessage(uuid.New(), uuid.New(), false)
	disputes.On("GetMessageByID", ctx, message.ID).Return(message, nil)

	_, err := svc.Attach(ctx, message.ID, uuid.New(), "file.pdf", strings.NewReader("pdf"))
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	assert.Contains(t, err.Error(), "автор сообщения")
}

func TestEvidenceService_Attach_ClosedDisputeRejected(t *testing.T) {
	repo := new(mockEvidenceRepo)
	disputes := new(mockMessageReader)
	svc := NewEvidenceService(repo, disputes, new(mockContractRepo), new(mockFileStore))
	ctx := context.Background()

	senderID := uuid.New()
	contract := activeContract(senderID, uuid.New())
	dispute := openDisputeOn(contract, senderID)
	dispute.Status = models.DisputeStatusClosed
	message := disputeMessage(dispute.ID, senderID, false)

	disputes.On("GetMessageByID", ctx, message.ID).Return(message, nil)
	disputes.On("GetByID", ctx, dispute.ID).Return(dispute, nil)

	_, err := svc.Attach(ctx, message.ID, senderID, "file.pdf", strings.NewReader("pdf"))
	assert.Error(t, err)
	assert.True(t, apperror.IsStateConflict(err))
}

func TestEvidenceService_Attach_StoreRejectsFile(t *testing.T) {
	repo := new(mockEvidenceRepo)
	disputes := new(mockMessageReader)
	store := new(mockFileStore)
	svc := NewEvidenceService(repo, disputes, new(mockContractRepo), store)
	ctx := context.Background()

	senderID := uuid.New()
	contract := activeContract(senderID, uuid.New())
	dispute := openDisputeOn(contract, senderID)
	message := disputeMessage(dispute.ID, senderID, false)

	disputes.On("GetMessageByID", ctx, message.ID).Return(message, nil)
	disputes.On("GetByID", ctx, dispute.ID).Return(dispute, nil)
	store.On("Save", ctx, senderID, "malware.exe", mock.Anything).
		Return("", "", int64(0), errors.New("недопустимый тип файла"))

	_, err := svc.Attach(ctx, message.ID, senderID, "malware.exe", strings.NewReader("mz"))
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "Create", ctx, mock.Anything)
}

func TestEvidenceService_Attach_RollbackOnRepoFailure(t *testing.T) {
	repo := new(mockEvidenceRepo)
	disputes := new(mockMessageReader)
	store := new(mockFileStore)
	svc := NewEvidenceService(repo, disputes, new(mockContractRepo), store)
	ctx := context.Background()

	senderID := uuid.New()
	contract := activeContract(senderID, uuid.New())
	dispute := openDisputeOn(contract, senderID)
	message := disputeMessage(dispute.ID, senderID, false)

	disputes.On("GetMessageByID", ctx, message.ID).Return(message, nil)
	disputes.On("GetByID", ctx, dispute.ID).Return(dispute, nil)
	store.On("Save", ctx, senderID, "doc.pdf", mock.Anything).
		Return("ef/gh/doc.pdf", "application/pdf", int64(4096), nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.EvidenceFile")).Return(errors.New("db down"))
	store.On("Delete", ctx, "ef/gh/doc.pdf").Return(nil)

	_, err := svc.Attach(ctx, message.ID, senderID, "doc.pdf", strings.NewReader("pdf"))
	assert.Error(t, err)
	store.AssertCalled(t, "Delete", ctx, "ef/gh/doc.pdf")
}

func TestEvidenceService_Open_InternalMessageHiddenFromParty(t *testing.T) {
	repo := new(mockEvidenceRepo)
	disputes := new(mockMessageReader)
	contracts := new(mockContractRepo)
	svc := NewEvidenceService(repo, disputes, contracts, new(mockFileStore))
	ctx := context.Background()

	clientID := uuid.New()
	contract := activeContract(clientID, uuid.New())
	dispute := openDisputeOn(contract, clientID)
	adminID := uuid.New()
	message := disputeMessage(dispute.ID, adminID, true)

	file := &models.EvidenceFile{
		ID:        uuid.New(),
		MessageID: message.ID,
		UserID:    adminID,
		FilePath:  "ij/kl/internal.pdf",
	}

	repo.On("GetByID", ctx, file.ID).Return(file, nil)
	disputes.On("GetMessageByID", ctx, message.ID).Return(message, nil)
	disputes.On("GetByID", ctx, dispute.ID).Return(dispute, nil)
	contracts.On("GetByID", ctx, contract.ID).Return(contract, nil)

	_, _, err := svc.Open(ctx, file.ID, clientID, models.UserRoleClient)
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestEvidenceService_Open_StrangerForbidden(t *testing.T) {
	repo := new(mockEvidenceRepo)
	disputes := new(mockMessageReader)
	contracts := new(mockContractRepo)
	svc := NewEvidenceService(repo, disputes, contracts, new(mockFileStore))
	ctx := context.Background()

	clientID := uuid.New()
	contract := activeContract(clientID, uuid.New())
	dispute := openDisputeOn(contract, clientID)
	message := disputeMessage(dispute.ID, clientID, false)

	file := &models.EvidenceFile{ID: uuid.New(), MessageID: message.ID, UserID: clientID, FilePath: "mn/op/file.png"}

	repo.On("GetByID", ctx, file.ID).Return(file, nil)
	disputes.On("GetMessageByID", ctx, message.ID).Return(message, nil)
	disputes.On("GetByID", ctx, dispute.ID).Return(dispute, nil)
	contracts.On("GetByID", ctx, contract.ID).Return(contract, nil)

	_, _, err := svc.Open(ctx, file.ID, uuid.New(), models.UserRoleFreelancer)
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}
