package api

import (
	"strings"

	"github.com/google/uuid"
)

// Store is the persistence backend for form definitions, submissions and
// principals. Implementations assign ids and own the record timestamps.
type Store interface {
	AddForm(f *Form) *Form
	UpdateForm(f *Form) bool
	DeleteForm(id string) bool
	GetForm(id string) *Form
	ListForms() []*Form
	ListPublished(targetPage string) []*Form

	AddSubmission(sub *Submission)
	ListSubmissions(formID string) []*Submission

	AddUser(u *User)
	FindUserByEmail(email string) *User
}

func newStoreID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

var _ Store = (*memoryStore)(nil)
