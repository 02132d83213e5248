package api

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"
)

// Form is the wire shape of a form definition. Fields travels as an opaque
// JSON blob and DisplayType as a plain string; decoding both into typed
// schema is the service adapters' job, not the store's.
type Form struct {
	ID               string          `json:"id"`
	FormName         string          `json:"form_name"`
	Description      string          `json:"description,omitempty"`
	Fields           json.RawMessage `json:"fields"`
	TargetPage       string          `json:"target_page"`
	DisplayType      string          `json:"display_type"`
	IsPublished      bool            `json:"is_published"`
	PopupTriggerText string          `json:"popup_trigger_text,omitempty"`
	SectionTitle     string          `json:"section_title,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Submission is the wire shape of one captured submission. Insert-only.
type Submission struct {
	ID             string          `json:"id"`
	FormID         string          `json:"form_id"`
	SubmissionData json.RawMessage `json:"submission_data"`
	CreatedAt      time.Time       `json:"created_at"`
}

type User struct {
	ID        string
	Email     string
	Name      string
	PassHash  []byte
	Admin     bool
	CreatedAt time.Time
}

type memoryStore struct {
	mu           sync.RWMutex
	forms        map[string]*Form
	formSeq      map[string]int64
	nextSeq      int64
	submissions  []*Submission
	usersByEmail map[string]*User
	now          func() time.Time
	newID        func() string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		forms:        map[string]*Form{},
		formSeq:      map[string]int64{},
		submissions:  []*Submission{},
		usersByEmail: map[string]*User{},
		now:          func() time.Time { return time.Now().UTC() },
		newID:        newStoreID,
	}
}

// NewMemoryStore returns an in-process Store, used by tests and as a
// fallback when no database path is configured.
func NewMemoryStore() Store { return newMemoryStore() }

func (s *memoryStore) AddForm(f *Form) *Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *f
	if cp.ID == "" {
		cp.ID = s.newID()
	}
	cp.CreatedAt = s.now()
	cp.UpdatedAt = cp.CreatedAt
	s.forms[cp.ID] = &cp
	s.nextSeq++
	s.formSeq[cp.ID] = s.nextSeq
	out := cp
	return &out
}

// UpdateForm overwrites the mutable attributes of the stored record. The
// store owns created_at and updated_at.
func (s *memoryStore) UpdateForm(f *Form) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.forms[f.ID]
	if !ok {
		return false
	}
	cur.FormName = f.FormName
	cur.Description = f.Description
	cur.Fields = f.Fields
	cur.TargetPage = f.TargetPage
	cur.DisplayType = f.DisplayType
	cur.IsPublished = f.IsPublished
	cur.PopupTriggerText = f.PopupTriggerText
	cur.SectionTitle = f.SectionTitle
	cur.UpdatedAt = s.now()
	return true
}

func (s *memoryStore) DeleteForm(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forms[id]; !ok {
		return false
	}
	delete(s.forms, id)
	delete(s.formSeq, id)
	return true
}

func (s *memoryStore) GetForm(id string) *Form {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.forms[id]
	if !ok {
		return nil
	}
	cp := *f
	return &cp
}

// ListForms returns every form, most recently created first.
func (s *memoryStore) ListForms() []*Form {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Form, 0, len(s.forms))
	for _, f := range s.forms {
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return s.formSeq[out[i].ID] > s.formSeq[out[j].ID]
	})
	return out
}

// ListPublished returns published forms for one target page, in creation
// order. The order is stable within a query; callers rely on nothing more.
func (s *memoryStore) ListPublished(targetPage string) []*Form {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*Form{}
	for _, f := range s.forms {
		if f.TargetPage == targetPage && f.IsPublished {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.formSeq[out[i].ID] < s.formSeq[out[j].ID] })
	return out
}

func (s *memoryStore) AddSubmission(sub *Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sub
	if cp.ID == "" {
		cp.ID = s.newID()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = s.now()
	}
	s.submissions = append(s.submissions, &cp)
}

func (s *memoryStore) ListSubmissions(formID string) []*Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*Submission{}
	for _, sub := range s.submissions {
		if sub.FormID == formID {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out
}

func (s *memoryStore) AddUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.usersByEmail[strings.ToLower(u.Email)] = &cp
}

func (s *memoryStore) FindUserByEmail(email string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}
