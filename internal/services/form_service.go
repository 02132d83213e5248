package services

import (
	"strings"
	"sync"

	"github.com/crestlinehq/crestline/internal/models"
)

// FormStore abstracts the persistence operations the builder workflow needs.
// Implementations own id assignment and the created_at/updated_at timestamps.
type FormStore interface {
	InsertForm(f *models.CustomForm) (*models.CustomForm, error)
	GetForm(id string) (*models.CustomForm, error)
	UpdateForm(f *models.CustomForm) error
	DeleteForm(id string) error
	ListForms() ([]*models.CustomForm, error)
	ListPublished(targetPage string) ([]*models.CustomForm, error)
}

// FormService mediates CustomForm CRUD for the admin surface. It keeps a
// cached copy of the admin listing that every mutation invalidates, so the
// list an admin sees always reflects their own writes.
type FormService struct {
	store FormStore

	mu     sync.Mutex
	cached []*models.CustomForm
}

func NewFormService(store FormStore) *FormService {
	return &FormService{store: store}
}

// CreateForm inserts a new draft with the given name, an empty field list and
// the home page as target. The returned record seeds the builder's draft
// buffer.
func (s *FormService) CreateForm(formName string) (*models.CustomForm, error) {
	if strings.TrimSpace(formName) == "" {
		return nil, NewInvalidError("form name required")
	}
	created, err := s.store.InsertForm(&models.CustomForm{
		FormName:    formName,
		TargetPage:  "home",
		DisplayType: models.DisplayPopup,
		Fields:      []models.FormField{},
	})
	if err != nil {
		return nil, err
	}
	s.invalidate()
	return created, nil
}

func (s *FormService) GetForm(id string) (*models.CustomForm, error) {
	f, err := s.store.GetForm(id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, NewNotFoundError("form not found")
	}
	return f, nil
}

// SaveForm overwrites every mutable attribute of the persisted record with
// the draft. Last writer wins: there is no version token, so two sessions
// saving the same form race and the later full overwrite stands.
func (s *FormService) SaveForm(f *models.CustomForm) error {
	if f == nil || f.ID == "" {
		return NewInvalidError("form id required")
	}
	if strings.TrimSpace(f.FormName) == "" {
		return NewInvalidError("form name required")
	}
	if err := s.store.UpdateForm(f); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// DeleteForm hard-deletes the record. Submissions referencing the form are a
// backend cleanup concern, not handled here.
func (s *FormService) DeleteForm(id string) error {
	if id == "" {
		return NewInvalidError("form id required")
	}
	if err := s.store.DeleteForm(id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// ListForms returns the admin listing, most recent first. Served from cache
// until a mutation invalidates it.
func (s *FormService) ListForms() ([]*models.CustomForm, error) {
	s.mu.Lock()
	if s.cached != nil {
		out := s.cached
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	forms, err := s.store.ListForms()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cached = forms
	s.mu.Unlock()
	return forms, nil
}

func (s *FormService) invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}
