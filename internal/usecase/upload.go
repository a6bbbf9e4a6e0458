package usecase

import (
	"fmt"
	"time"

	"github.com/fairyhunter13/resume-match/internal/domain"
	"github.com/fairyhunter13/resume-match/internal/match"
	"github.com/fairyhunter13/resume-match/pkg/textx"
)

// UploadService ingests extracted resume text and persists it.
type UploadService struct {
	Repo domain.ResumeRepository
}

// NewUploadService constructs an UploadService with the given repo.
func NewUploadService(r domain.ResumeRepository) UploadService { return UploadService{Repo: r} }

// Ingest sanitizes and normalizes extracted text, validates non-empty
// content, and stores the resume, returning its generated id.
func (s UploadService) Ingest(ctx domain.Context, text, fileName, mimeType string, size int64) (string, error) {
	text = match.NormalizeText(textx.SanitizeText(text))
	if text == "" {
		return "", fmt.Errorf("%w: empty extracted text", domain.ErrInvalidArgument)
	}
	id, err := s.Repo.Create(ctx, domain.Resume{
		Text:      text,
		Filename:  fileName,
		MIME:      mimeType,
		Size:      size,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}
	return id, nil
}
