package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/crestlinehq/crestline/internal/models"
)

// fieldTypes lists every widget the builder can author.
var fieldTypes = map[models.FieldType]bool{
	models.FieldText:     true,
	models.FieldEmail:    true,
	models.FieldTextarea: true,
	models.FieldSelect:   true,
	models.FieldPhone:    true,
}

// defaultSelectOptions seeds a fresh select field so it renders something
// editable immediately.
func defaultSelectOptions() []string { return []string{"Option 1", "Option 2"} }

// NewField builds a field with a fresh id. The id is stable for the field's
// lifetime and is never reused after removal. Select fields with no options
// get a two-entry default list; every other type carries no options.
func NewField(label string, ftype models.FieldType, required bool, placeholder string, options []string) (models.FormField, error) {
	if strings.TrimSpace(label) == "" {
		return models.FormField{}, NewInvalidError("field label required")
	}
	if !fieldTypes[ftype] {
		return models.FormField{}, NewInvalidError("unknown field type " + string(ftype))
	}
	f := models.FormField{
		ID:          uuid.NewString(),
		Label:       label,
		Type:        ftype,
		Required:    required,
		Placeholder: placeholder,
	}
	if ftype == models.FieldSelect {
		if len(options) == 0 {
			options = defaultSelectOptions()
		}
		f.Options = append([]string(nil), options...)
	}
	return f, nil
}

// FieldPatch is a partial update applied to one field. Nil members are left
// untouched.
type FieldPatch struct {
	Label       *string
	Type        *models.FieldType
	Required    *bool
	Placeholder *string
	Options     *[]string
}

// UpdateFields returns a new sequence with the matching field merged with
// patch. A missing id is a silent no-op, not an error; removed ids stay inert.
// Order is preserved.
func UpdateFields(fields []models.FormField, fieldID string, patch FieldPatch) []models.FormField {
	out := make([]models.FormField, len(fields))
	copy(out, fields)
	for i := range out {
		if out[i].ID != fieldID {
			continue
		}
		if patch.Label != nil {
			out[i].Label = *patch.Label
		}
		if patch.Type != nil {
			out[i].Type = *patch.Type
		}
		if patch.Required != nil {
			out[i].Required = *patch.Required
		}
		if patch.Placeholder != nil {
			out[i].Placeholder = *patch.Placeholder
		}
		if patch.Options != nil {
			out[i].Options = append([]string(nil), (*patch.Options)...)
		}
	}
	return out
}

// RemoveField returns the sequence with the matching entry excluded,
// preserving the order of the rest. Missing ids are a silent no-op.
func RemoveField(fields []models.FormField, fieldID string) []models.FormField {
	out := make([]models.FormField, 0, len(fields))
	for _, f := range fields {
		if f.ID == fieldID {
			continue
		}
		out = append(out, f)
	}
	return out
}
