package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/donely-api/dto"
	"github.com/donely-api/lib/storage"
	"github.com/donely-api/models"
)

const (
	// MaxEvidenceSize is the largest accepted evidence file (50 MiB)
	MaxEvidenceSize int64 = 50 << 20

	// sniffLen is how many leading bytes are inspected to detect the file type
	sniffLen = 3072
)

// UploadFile is one file of a multi-file evidence upload
type UploadFile struct {
	FileName string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// EvidenceService handles upload, listing and download of report evidences
type EvidenceService struct {
	evidenceRepo EvidenceStore
	reportRepo   ReportStore
	sprintRepo   SprintStore
	accessRepo   AccessStore
	storage      storage.Storage
	publicURL    string
}

// NewEvidenceService creates a new evidence service instance.
// publicURL is the externally reachable base of this API, used to build download links.
func NewEvidenceService(evidences EvidenceStore, reports ReportStore, sprints SprintStore, access AccessStore, store storage.Storage, publicURL string) *EvidenceService {
	return &EvidenceService{
		evidenceRepo: evidences,
		reportRepo:   reports,
		sprintRepo:   sprints,
		accessRepo:   access,
		storage:      store,
		publicURL:    strings.TrimRight(publicURL, "/"),
	}
}

// Upload validates and stores each file in order. A failing file is reported
// in its own result and never undoes the files stored before it.
// sprintTaskID optionally links every file to a task of the report's project.
func (s *EvidenceService) Upload(ctx context.Context, uploaderID, reportID string, sprintTaskID *string, files []UploadFile) (dto.UploadResponse, error) {
	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		return dto.UploadResponse{}, notFound("report", err)
	}
	taskID, err := s.resolveTask(ctx, report.ProjectID, sprintTaskID)
	if err != nil {
		return dto.UploadResponse{}, err
	}
	if len(files) == 0 {
		return dto.UploadResponse{}, validationError("no files were uploaded")
	}

	response := dto.UploadResponse{Results: make([]dto.UploadResult, 0, len(files))}
	for _, file := range files {
		result := dto.UploadResult{FileName: file.FileName}

		evidence, err := s.store(ctx, report, taskID, uploaderID, file)
		if err != nil {
			result.Error = err.Error()
			response.Failed++
		} else {
			result.Evidence = &evidence
			response.Succeeded++
		}
		response.Results = append(response.Results, result)
	}
	return response, nil
}

// resolveTask checks that the task sits in a sprint of projectID
func (s *EvidenceService) resolveTask(ctx context.Context, projectID string, taskID *string) (*string, error) {
	if taskID == nil || strings.TrimSpace(*taskID) == "" {
		return nil, nil
	}
	task, err := s.sprintRepo.FindTask(ctx, strings.TrimSpace(*taskID))
	if err != nil {
		return nil, notFound("sprint task", err)
	}
	sprint, err := s.sprintRepo.FindByID(ctx, task.SprintID)
	if err != nil {
		return nil, notFound("sprint", err)
	}
	if sprint.ProjectID != projectID {
		return nil, validationError("sprint task %s does not belong to project %s", task.ID, projectID)
	}
	return &task.ID, nil
}

func (s *EvidenceService) store(ctx context.Context, report models.Report, taskID *string, uploaderID string, file UploadFile) (models.Evidence, error) {
	if file.Size > MaxEvidenceSize {
		return models.Evidence{}, validationError("%s exceeds the %d MiB limit", file.FileName, MaxEvidenceSize>>20)
	}

	rc, err := file.Open()
	if err != nil {
		return models.Evidence{}, fmt.Errorf("failed to read %s: %w", file.FileName, err)
	}
	defer rc.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return models.Evidence{}, fmt.Errorf("failed to read %s: %w", file.FileName, err)
	}
	if n == 0 {
		return models.Evidence{}, validationError("%s is empty", file.FileName)
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	evidenceType, ok := evidenceTypeOf(mtype.String())
	if !ok {
		return models.Evidence{}, validationError("%s is %s, only images and videos are accepted", file.FileName, mtype.String())
	}

	id := uuid.NewString()
	key := path.Join("projects", report.ProjectID, "reports", report.ID, id+mtype.Extension())

	// One byte past the limit is enough to tell an oversized stream apart
	body := io.MultiReader(bytes.NewReader(head), io.LimitReader(rc, MaxEvidenceSize-int64(n)+1))
	written, err := s.storage.Put(ctx, key, body)
	if err != nil {
		return models.Evidence{}, fmt.Errorf("failed to store %s: %w", file.FileName, err)
	}
	if written > MaxEvidenceSize {
		s.removeObject(ctx, key)
		return models.Evidence{}, validationError("%s exceeds the %d MiB limit", file.FileName, MaxEvidenceSize>>20)
	}

	evidence := models.Evidence{
		ID:           id,
		ProjectID:    report.ProjectID,
		ReportID:     report.ID,
		SprintTaskID: taskID,
		Type:         evidenceType,
		StorageKey:   key,
		URL:          s.fileURL(id),
		MimeType:     mtype.String(),
		SizeBytes:    written,
		FileName:     path.Base(file.FileName),
		UploadedBy:   uploaderID,
	}
	if evidenceType == models.EvidenceTypeImage {
		evidence.ThumbnailURL = evidence.URL
	}

	if err := s.evidenceRepo.Create(ctx, &evidence); err != nil {
		s.removeObject(ctx, key)
		return models.Evidence{}, fmt.Errorf("failed to save %s: %w", file.FileName, err)
	}
	return evidence, nil
}

// ListByReport retrieves the evidences attached to a report
func (s *EvidenceService) ListByReport(ctx context.Context, reportID string) ([]models.Evidence, error) {
	if _, err := s.reportRepo.FindByID(ctx, reportID); err != nil {
		return nil, notFound("report", err)
	}
	return s.evidenceRepo.ListByReport(ctx, reportID)
}

// DeleteEvidence removes the stored object and then the metadata row
func (s *EvidenceService) DeleteEvidence(ctx context.Context, id string) error {
	evidence, err := s.evidenceRepo.FindByID(ctx, id)
	if err != nil {
		return notFound("evidence", err)
	}
	if err := s.storage.Delete(ctx, evidence.StorageKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("failed to delete object %s: %w", evidence.StorageKey, err)
	}
	return s.evidenceRepo.Delete(ctx, evidence.ID)
}

// OpenFile returns an evidence with its content. Clients need active access
// to the project and the report must be published.
func (s *EvidenceService) OpenFile(ctx context.Context, viewer Viewer, id string) (models.Evidence, io.ReadCloser, error) {
	evidence, err := s.evidenceRepo.FindByID(ctx, id)
	if err != nil {
		return models.Evidence{}, nil, notFound("evidence", err)
	}

	if !viewer.IsAdmin() {
		allowed, err := canView(ctx, s.accessRepo, viewer, evidence.ProjectID)
		if err != nil {
			return models.Evidence{}, nil, err
		}
		if !allowed {
			return models.Evidence{}, nil, fmt.Errorf("%w: no access to this project", ErrForbidden)
		}
		report, err := s.reportRepo.FindByID(ctx, evidence.ReportID)
		if err != nil {
			return models.Evidence{}, nil, notFound("report", err)
		}
		if !report.Published {
			// Drafts are invisible to clients
			return models.Evidence{}, nil, fmt.Errorf("evidence %w", ErrNotFound)
		}
	}

	rc, err := s.storage.Open(ctx, evidence.StorageKey)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return models.Evidence{}, nil, fmt.Errorf("evidence file %w", ErrNotFound)
	}
	if err != nil {
		return models.Evidence{}, nil, err
	}
	return evidence, rc, nil
}

func (s *EvidenceService) fileURL(id string) string {
	return s.publicURL + "/api/v1/evidences/" + id + "/file"
}

func (s *EvidenceService) removeObject(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		log.Printf("Warning: Failed to remove orphaned object %s: %v", key, err)
	}
}

func evidenceTypeOf(mimeType string) (models.EvidenceType, bool) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.EvidenceTypeImage, true
	case strings.HasPrefix(mimeType, "video/"):
		return models.EvidenceTypeVideo, true
	}
	return "", false
}
