package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crestlinehq/crestline/internal/api"
)

// SQLiteStore persists forms, submissions and users in SQLite. Fields and
// submission data stay JSON text end to end; the store never interprets them.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func NewStore(db *sql.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil {
		log.Printf("sqlite store: %s: %v", prefix, err)
	}
}

func newRecordID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func boolToInt64(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func int64ToBool(v int64) bool { return v != 0 }

func toNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func fromNullString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		log.Printf("sqlite store: parse time %q: %v", s, err)
		return time.Time{}
	}
	return t
}

func rawOrEmptyArray(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "[]"
	}
	return string(raw)
}

func (s *SQLiteStore) AddForm(f *api.Form) *api.Form {
	cp := *f
	if cp.ID == "" {
		cp.ID = newRecordID()
	}
	now := time.Now().UTC()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	_, err := s.db.Exec(`INSERT INTO custom_forms
		(id, form_name, description, fields, target_page, display_type, is_published, popup_trigger_text, section_title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cp.ID, cp.FormName, toNullString(cp.Description), rawOrEmptyArray(cp.Fields),
		cp.TargetPage, cp.DisplayType, boolToInt64(cp.IsPublished),
		toNullString(cp.PopupTriggerText), toNullString(cp.SectionTitle),
		formatTime(cp.CreatedAt), formatTime(cp.UpdatedAt))
	if err != nil {
		s.logErr("add form", err)
		return nil
	}
	return &cp
}

func (s *SQLiteStore) UpdateForm(f *api.Form) bool {
	res, err := s.db.Exec(`UPDATE custom_forms SET
		form_name = ?, description = ?, fields = ?, target_page = ?, display_type = ?,
		is_published = ?, popup_trigger_text = ?, section_title = ?, updated_at = ?
		WHERE id = ?`,
		f.FormName, toNullString(f.Description), rawOrEmptyArray(f.Fields),
		f.TargetPage, f.DisplayType, boolToInt64(f.IsPublished),
		toNullString(f.PopupTriggerText), toNullString(f.SectionTitle),
		formatTime(time.Now().UTC()), f.ID)
	if err != nil {
		s.logErr("update form", err)
		return false
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.logErr("update form rows", err)
		return false
	}
	return n > 0
}

func (s *SQLiteStore) DeleteForm(id string) bool {
	res, err := s.db.Exec(`DELETE FROM custom_forms WHERE id = ?`, id)
	if err != nil {
		s.logErr("delete form", err)
		return false
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.logErr("delete form rows", err)
		return false
	}
	return n > 0
}

const formColumns = `id, form_name, description, fields, target_page, display_type, is_published, popup_trigger_text, section_title, created_at, updated_at`

func scanForm(row interface{ Scan(...any) error }) (*api.Form, error) {
	var (
		f                    api.Form
		description, trigger sql.NullString
		sectionTitle         sql.NullString
		fields               string
		published            int64
		createdAt, updatedAt string
	)
	if err := row.Scan(&f.ID, &f.FormName, &description, &fields, &f.TargetPage, &f.DisplayType,
		&published, &trigger, &sectionTitle, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	f.Description = fromNullString(description)
	f.Fields = json.RawMessage(fields)
	f.IsPublished = int64ToBool(published)
	f.PopupTriggerText = fromNullString(trigger)
	f.SectionTitle = fromNullString(sectionTitle)
	f.CreatedAt = parseTime(createdAt)
	f.UpdatedAt = parseTime(updatedAt)
	return &f, nil
}

func (s *SQLiteStore) GetForm(id string) *api.Form {
	row := s.db.QueryRow(`SELECT `+formColumns+` FROM custom_forms WHERE id = ?`, id)
	f, err := scanForm(row)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("get form", err)
		}
		return nil
	}
	return f
}

func (s *SQLiteStore) ListForms() []*api.Form {
	rows, err := s.db.Query(`SELECT ` + formColumns + ` FROM custom_forms ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		s.logErr("list forms", err)
		return nil
	}
	defer func() { _ = rows.Close() }()
	return s.collectForms(rows, "list forms")
}

func (s *SQLiteStore) ListPublished(targetPage string) []*api.Form {
	rows, err := s.db.Query(`SELECT `+formColumns+` FROM custom_forms
		WHERE target_page = ? AND is_published = 1 ORDER BY rowid ASC`, targetPage)
	if err != nil {
		s.logErr("list published", err)
		return nil
	}
	defer func() { _ = rows.Close() }()
	return s.collectForms(rows, "list published")
}

func (s *SQLiteStore) collectForms(rows *sql.Rows, prefix string) []*api.Form {
	out := []*api.Form{}
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			s.logErr(prefix, err)
			continue
		}
		out = append(out, f)
	}
	s.logErr(prefix, rows.Err())
	return out
}

func (s *SQLiteStore) AddSubmission(sub *api.Submission) {
	id := sub.ID
	if id == "" {
		id = newRecordID()
	}
	createdAt := sub.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	data := string(sub.SubmissionData)
	if data == "" {
		data = "{}"
	}
	_, err := s.db.Exec(`INSERT INTO form_submissions (id, form_id, submission_data, created_at)
		VALUES (?, ?, ?, ?)`, id, sub.FormID, data, formatTime(createdAt))
	s.logErr("add submission", err)
}

func (s *SQLiteStore) ListSubmissions(formID string) []*api.Submission {
	rows, err := s.db.Query(`SELECT id, form_id, submission_data, created_at
		FROM form_submissions WHERE form_id = ? ORDER BY rowid ASC`, formID)
	if err != nil {
		s.logErr("list submissions", err)
		return nil
	}
	defer func() { _ = rows.Close() }()
	out := []*api.Submission{}
	for rows.Next() {
		var (
			sub       api.Submission
			data      string
			createdAt string
		)
		if err := rows.Scan(&sub.ID, &sub.FormID, &data, &createdAt); err != nil {
			s.logErr("scan submission", err)
			continue
		}
		sub.SubmissionData = json.RawMessage(data)
		sub.CreatedAt = parseTime(createdAt)
		out = append(out, &sub)
	}
	s.logErr("list submissions", rows.Err())
	return out
}

func (s *SQLiteStore) AddUser(u *api.User) {
	_, err := s.db.Exec(`INSERT INTO users (id, email, name, pass_hash, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PassHash, boolToInt64(u.Admin), formatTime(u.CreatedAt))
	s.logErr("add user", err)
}

func (s *SQLiteStore) FindUserByEmail(email string) *api.User {
	row := s.db.QueryRow(`SELECT id, email, name, pass_hash, is_admin, created_at
		FROM users WHERE email = ? COLLATE NOCASE`, email)
	var (
		u         api.User
		admin     int64
		createdAt string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PassHash, &admin, &createdAt); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("find user", err)
		}
		return nil
	}
	u.Admin = int64ToBool(admin)
	u.CreatedAt = parseTime(createdAt)
	return &u
}

var _ api.Store = (*SQLiteStore)(nil)
