package models

import "time"

// FieldType determines the rendering widget and native input semantics of a field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldPhone    FieldType = "phone"
)

// DisplayType is the placement mode of a published form on its target page.
type DisplayType string

const (
	DisplayPopup   DisplayType = "popup"
	DisplaySection DisplayType = "section"
)

// FormField is a single entry in a form's ordered schema.
type FormField struct {
	ID          string
	Label       string // also the storage key for submitted values
	Type        FieldType
	Required    bool
	Options     []string // select only
	Placeholder string
}

// CustomForm is an admin-authored form definition plus placement metadata.
type CustomForm struct {
	ID               string
	FormName         string
	Description      string
	Fields           []FormField // insertion order is rendering order
	TargetPage       string
	DisplayType      DisplayType
	IsPublished      bool
	PopupTriggerText string
	SectionTitle     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FormSubmission is one end-user data capture, keyed by field label.
// Immutable once written.
type FormSubmission struct {
	ID             string
	FormID         string
	SubmissionData map[string]string
	CreatedAt      time.Time
}

// User is an authenticated principal. Admin grants access to the builder.
type User struct {
	ID        string
	Email     string
	Name      string
	PassHash  []byte
	Admin     bool
	CreatedAt time.Time
}
