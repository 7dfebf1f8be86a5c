package services

import (
	"strings"

	"gorm.io/gorm"

	"subtrackr_backend/internal/dto"
	"subtrackr_backend/internal/logger"
	"subtrackr_backend/internal/models"
	"subtrackr_backend/internal/repositories"
	"subtrackr_backend/pkg/apperrors"
)

const maxAttachmentNameLen = 200

type AttachmentUpload struct {
	Name     string
	Type     string
	MimeType string
	Data     []byte
}

type AttachmentService interface {
	Upload(db *gorm.DB, userID, subscriptionID string, upload *AttachmentUpload) (*dto.AttachmentResponse, error)
	List(db *gorm.DB, userID, subscriptionID string) ([]dto.AttachmentResponse, error)
	Download(db *gorm.DB, userID, attachmentID string) (*models.Attachment, error)
	Delete(db *gorm.DB, userID, attachmentID string) error
}

type attachmentService struct {
	subService     SubscriptionService
	attachmentRepo repositories.AttachmentRepository
	maxSize        int64
	allowedTypes   map[string]bool
}

func NewAttachmentService(
	subService SubscriptionService,
	attachmentRepo repositories.AttachmentRepository,
	maxSize int64,
	allowedTypes []string,
) AttachmentService {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = true
	}
	return &attachmentService{
		subService:     subService,
		attachmentRepo: attachmentRepo,
		maxSize:        maxSize,
		allowedTypes:   allowed,
	}
}

// Upload stores the file bytes in the database after the size, type,
// name and duplicate checks pass.
func (s *attachmentService) Upload(db *gorm.DB, userID, subscriptionID string, upload *AttachmentUpload) (*dto.AttachmentResponse, error) {
	_, sub, err := s.subService.ResolveScope(db, userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	size := int64(len(upload.Data))
	if size == 0 {
		return nil, apperrors.NewBadRequestError("Uploaded file is empty")
	}
	if size > s.maxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	mimeType := normalizeMimeType(upload.MimeType)
	if !s.allowedTypes[mimeType] {
		return nil, apperrors.ErrInvalidFileType
	}

	name := SanitizeFileName(upload.Name)
	if name == "" {
		return nil, apperrors.NewBadRequestError("File name is empty after sanitization")
	}

	exists, err := s.attachmentRepo.ExistsDuplicate(db, sub.ID, name, size)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDuplicateAttachment
	}

	attachmentType := models.AttachmentTypeOther
	switch models.AttachmentType(upload.Type) {
	case models.AttachmentTypeContract, models.AttachmentTypeInvoice:
		attachmentType = models.AttachmentType(upload.Type)
	}

	attachment := &models.Attachment{
		SubscriptionID: sub.ID,
		Name:           name,
		Type:           attachmentType,
		Size:           size,
		MimeType:       mimeType,
		Data:           upload.Data,
	}
	if err := s.attachmentRepo.Create(db, attachment); err != nil {
		return nil, err
	}

	logger.Info("attachment uploaded",
		"subscription_id", sub.ID,
		"attachment_id", attachment.ID,
		"name", name,
		"size", size,
	)

	resp := toAttachmentResponse(attachment)
	return &resp, nil
}

func (s *attachmentService) List(db *gorm.DB, userID, subscriptionID string) ([]dto.AttachmentResponse, error) {
	_, sub, err := s.subService.ResolveScope(db, userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	attachments, err := s.attachmentRepo.ListBySubscription(db, sub.ID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		out = append(out, toAttachmentResponse(&attachments[i]))
	}
	return out, nil
}

func (s *attachmentService) Download(db *gorm.DB, userID, attachmentID string) (*models.Attachment, error) {
	attachment, err := s.attachmentRepo.FindByID(db, attachmentID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	// Scoping is on the parent subscription.
	if _, _, err := s.subService.ResolveScope(db, userID, attachment.SubscriptionID); err != nil {
		return nil, err
	}
	return attachment, nil
}

func (s *attachmentService) Delete(db *gorm.DB, userID, attachmentID string) error {
	attachment, err := s.attachmentRepo.FindByID(db, attachmentID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if _, _, err := s.subService.ResolveScope(db, userID, attachment.SubscriptionID); err != nil {
		return err
	}
	return s.attachmentRepo.Delete(db, attachmentID)
}

// SanitizeFileName strips path separators and control characters and
// truncates to a storable length.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|':
			continue
		case r < 0x20 || r == 0x7f:
			continue
		default:
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimSpace(b.String())
	if runes := []rune(cleaned); len(runes) > maxAttachmentNameLen {
		cleaned = string(runes[:maxAttachmentNameLen])
	}
	return cleaned
}

// normalizeMimeType drops parameters like "; charset=utf-8".
func normalizeMimeType(mimeType string) string {
	base, _, found := strings.Cut(mimeType, ";")
	if found {
		base = strings.TrimSpace(base)
	}
	return strings.ToLower(strings.TrimSpace(base))
}

func toAttachmentResponse(a *models.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:             a.ID,
		SubscriptionID: a.SubscriptionID,
		Name:           a.Name,
		Type:           string(a.Type),
		Size:           a.Size,
		MimeType:       a.MimeType,
		CreatedAt:      a.CreatedAt,
	}
}
