package services

import (
	"strings"
	"testing"
	"time"

	"github.com/crestlinehq/crestline/internal/models"
)

type stubSubmissionStore struct {
	forms map[string]*models.CustomForm
	subs  []*models.FormSubmission
}

func (s *stubSubmissionStore) GetForm(id string) (*models.CustomForm, error) {
	return s.forms[id], nil
}

func (s *stubSubmissionStore) AddSubmission(sub *models.FormSubmission) error {
	s.subs = append(s.subs, sub)
	return nil
}

func (s *stubSubmissionStore) ListSubmissions(formID string) ([]*models.FormSubmission, error) {
	out := []*models.FormSubmission{}
	for _, sub := range s.subs {
		if sub.FormID == formID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func newTestSubmissionService(store *stubSubmissionStore) *SubmissionService {
	svc := NewSubmissionService(store)
	seq := 0
	svc.idGen = func() string {
		seq++
		return "sub" + string(rune('0'+seq))
	}
	svc.now = func() time.Time {
		return time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func contactForm() *models.CustomForm {
	return &models.CustomForm{
		ID:       "F1",
		FormName: "Contact",
		Fields: []models.FormField{
			{ID: "f1", Label: "Name", Type: models.FieldText},
			{ID: "f2", Label: "Email", Type: models.FieldEmail, Required: true},
		},
	}
}

func TestRecordKeysByLabel(t *testing.T) {
	store := &stubSubmissionStore{forms: map[string]*models.CustomForm{"F1": contactForm()}}
	svc := newTestSubmissionService(store)

	sub, err := svc.Record("F1", map[string]string{"Name": "Asha", "Email": "asha@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if sub.SubmissionData["Name"] != "Asha" {
		t.Fatalf("data = %+v", sub.SubmissionData)
	}
	if sub.CreatedAt.IsZero() || sub.ID == "" {
		t.Fatalf("submission missing identity: %+v", sub)
	}
	if len(store.subs) != 1 {
		t.Fatalf("stored %d submissions, want 1", len(store.subs))
	}
}

func TestRecordUnknownForm(t *testing.T) {
	svc := newTestSubmissionService(&stubSubmissionStore{forms: map[string]*models.CustomForm{}})
	_, err := svc.Record("ghost", map[string]string{"Name": "x"})
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestRecordNilData(t *testing.T) {
	store := &stubSubmissionStore{forms: map[string]*models.CustomForm{"F1": contactForm()}}
	sub, err := newTestSubmissionService(store).Record("F1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if sub.SubmissionData == nil || len(sub.SubmissionData) != 0 {
		t.Fatalf("data = %#v, want empty map", sub.SubmissionData)
	}
}

// Submissions are snapshots: relabeling a field afterwards leaves the
// historical key untouched.
func TestRelabelDoesNotRewriteHistory(t *testing.T) {
	form := contactForm()
	store := &stubSubmissionStore{forms: map[string]*models.CustomForm{"F1": form}}
	svc := newTestSubmissionService(store)

	if _, err := svc.Record("F1", map[string]string{"Name": "Asha"}); err != nil {
		t.Fatal(err)
	}

	label := "Full Name"
	form.Fields = UpdateFields(form.Fields, "f1", FieldPatch{Label: &label})
	if _, err := svc.Record("F1", map[string]string{"Full Name": "Ben"}); err != nil {
		t.Fatal(err)
	}

	subs, err := svc.List("F1")
	if err != nil {
		t.Fatal(err)
	}
	if subs[0].SubmissionData["Name"] != "Asha" {
		t.Fatalf("historical key rewritten: %+v", subs[0].SubmissionData)
	}
	if subs[1].SubmissionData["Full Name"] != "Ben" {
		t.Fatalf("new key missing: %+v", subs[1].SubmissionData)
	}
}

func TestExportSubmissionsCSV(t *testing.T) {
	form := contactForm()
	subs := []*models.FormSubmission{
		{
			ID:             "sub1",
			FormID:         "F1",
			SubmissionData: map[string]string{"Name": "Asha", "Email": "asha@example.com"},
			CreatedAt:      time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:             "sub2",
			FormID:         "F1",
			SubmissionData: map[string]string{"Full Name": "Ben", "Company": "Acme"},
			CreatedAt:      time.Date(2025, 11, 4, 9, 30, 0, 0, time.UTC),
		},
	}

	out, err := ExportSubmissionsCSV(form, subs)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv lines = %d:\n%s", len(lines), out)
	}
	// schema labels first in field order, then historical keys sorted
	wantHeader := "submission_id,Name,Email,Company,Full Name,submitted_at"
	if lines[0] != wantHeader {
		t.Fatalf("header = %q, want %q", lines[0], wantHeader)
	}
	if lines[1] != "sub1,Asha,asha@example.com,,,2025-11-03T12:00:00Z" {
		t.Fatalf("row 1 = %q", lines[1])
	}
	if lines[2] != "sub2,,,Acme,Ben,2025-11-04T09:30:00Z" {
		t.Fatalf("row 2 = %q", lines[2])
	}
}

func TestExportEmptySubmissions(t *testing.T) {
	out, err := ExportSubmissionsCSV(contactForm(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(out)) != "submission_id,Name,Email,submitted_at" {
		t.Fatalf("csv = %q", out)
	}
}
