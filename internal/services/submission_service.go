package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crestlinehq/crestline/internal/models"
)

// SubmissionStore abstracts the insert-only submission sink plus the reads
// the admin view needs.
type SubmissionStore interface {
	GetForm(id string) (*models.CustomForm, error)
	AddSubmission(sub *models.FormSubmission) error
	ListSubmissions(formID string) ([]*models.FormSubmission, error)
}

// SubmissionService persists submissions. Each capture is a snapshot keyed by
// field label at submission time: relabeling a field later never rewrites
// historical keys.
type SubmissionService struct {
	store SubmissionStore
	now   func() time.Time
	idGen func() string
}

func NewSubmissionService(store SubmissionStore) *SubmissionService {
	return &SubmissionService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:12] },
	}
}

// Record appends one submission for the form. The data map arrives already
// keyed by label; the operation is a single atomic insert, so no
// partial-submission state exists.
func (s *SubmissionService) Record(formID string, data map[string]string) (*models.FormSubmission, error) {
	if formID == "" {
		return nil, NewInvalidError("form id required")
	}
	form, err := s.store.GetForm(formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, NewNotFoundError("form not found")
	}
	if data == nil {
		data = map[string]string{}
	}
	sub := &models.FormSubmission{
		ID:             s.idGen(),
		FormID:         formID,
		SubmissionData: data,
		CreatedAt:      s.now(),
	}
	if err := s.store.AddSubmission(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// List returns every submission captured for a form, oldest first.
func (s *SubmissionService) List(formID string) ([]*models.FormSubmission, error) {
	if formID == "" {
		return nil, NewInvalidError("form id required")
	}
	return s.store.ListSubmissions(formID)
}
