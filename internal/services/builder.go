package services

import (
	"github.com/crestlinehq/crestline/internal/models"
)

// Notifier receives the toast-style outcome messages the admin surface shows
// for create/save/delete/publish actions.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// BuilderSession is one admin's editing session over a single form. The draft
// buffer is a private copy of the persisted record: every mutation below
// touches the draft only, and nothing reaches the store until Save. A failed
// store call never discards the draft, so in-progress edits survive transient
// backend errors and can be retried.
type BuilderSession struct {
	forms    *FormService
	notifier Notifier
	draft    *models.CustomForm
}

func NewBuilderSession(forms *FormService, notifier Notifier) *BuilderSession {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &BuilderSession{forms: forms, notifier: notifier}
}

// Editing reports whether a form is loaded into the draft buffer.
func (b *BuilderSession) Editing() bool { return b.draft != nil }

// Draft exposes the in-progress edit state. Nil when unselected.
func (b *BuilderSession) Draft() *models.CustomForm { return b.draft }

// Select loads a form into the draft buffer, replacing any current draft.
func (b *BuilderSession) Select(id string) error {
	f, err := b.forms.GetForm(id)
	if err != nil {
		return err
	}
	draft := *f
	draft.Fields = append([]models.FormField(nil), f.Fields...)
	b.draft = &draft
	return nil
}

// Deselect drops the draft, returning the session to the unselected state.
// Unsaved edits are discarded, matching navigation away from the editor.
func (b *BuilderSession) Deselect() { b.draft = nil }

// Create makes a new form and selects it for editing.
func (b *BuilderSession) Create(formName string) error {
	created, err := b.forms.CreateForm(formName)
	if err != nil {
		if se, ok := AsServiceError(err); ok && se.Code == ErrorInvalid {
			return err
		}
		b.notifier.Error("Failed to create form")
		return err
	}
	draft := *created
	draft.Fields = append([]models.FormField(nil), created.Fields...)
	b.draft = &draft
	b.notifier.Success("Form created")
	return nil
}

// AddField appends a freshly built field to the draft schema.
func (b *BuilderSession) AddField(label string, ftype models.FieldType, required bool, placeholder string) error {
	if b.draft == nil {
		return NewInvalidError("no form selected")
	}
	f, err := NewField(label, ftype, required, placeholder, nil)
	if err != nil {
		return err
	}
	b.draft.Fields = append(b.draft.Fields, f)
	return nil
}

// UpdateField merges a patch into the matching draft field. Unknown ids are
// ignored.
func (b *BuilderSession) UpdateField(fieldID string, patch FieldPatch) error {
	if b.draft == nil {
		return NewInvalidError("no form selected")
	}
	b.draft.Fields = UpdateFields(b.draft.Fields, fieldID, patch)
	return nil
}

// RemoveField drops the matching draft field. Unknown ids are ignored.
func (b *BuilderSession) RemoveField(fieldID string) error {
	if b.draft == nil {
		return NewInvalidError("no form selected")
	}
	b.draft.Fields = RemoveField(b.draft.Fields, fieldID)
	return nil
}

// SetFormName, SetDescription, SetTargetPage, SetDisplayType,
// SetPopupTriggerText and SetSectionTitle edit form-level attributes of the
// draft. Switching the display type changes which placement text is
// meaningful; both stay on the record regardless.
func (b *BuilderSession) SetFormName(v string) error    { return b.setAttr(func(f *models.CustomForm) { f.FormName = v }) }
func (b *BuilderSession) SetDescription(v string) error { return b.setAttr(func(f *models.CustomForm) { f.Description = v }) }
func (b *BuilderSession) SetTargetPage(v string) error  { return b.setAttr(func(f *models.CustomForm) { f.TargetPage = v }) }
func (b *BuilderSession) SetDisplayType(v models.DisplayType) error {
	return b.setAttr(func(f *models.CustomForm) { f.DisplayType = v })
}
func (b *BuilderSession) SetPopupTriggerText(v string) error {
	return b.setAttr(func(f *models.CustomForm) { f.PopupTriggerText = v })
}
func (b *BuilderSession) SetSectionTitle(v string) error {
	return b.setAttr(func(f *models.CustomForm) { f.SectionTitle = v })
}

func (b *BuilderSession) setAttr(mut func(*models.CustomForm)) error {
	if b.draft == nil {
		return NewInvalidError("no form selected")
	}
	mut(b.draft)
	return nil
}

// TogglePublish flips the publish gate on the draft only. Public readers see
// the change after the next Save.
func (b *BuilderSession) TogglePublish() error {
	if b.draft == nil {
		return NewInvalidError("no form selected")
	}
	b.draft.IsPublished = !b.draft.IsPublished
	return nil
}

// Save persists the draft with a full-record overwrite.
func (b *BuilderSession) Save() error {
	if b.draft == nil {
		return NewInvalidError("no form selected")
	}
	if err := b.forms.SaveForm(b.draft); err != nil {
		if se, ok := AsServiceError(err); ok && se.Code == ErrorInvalid {
			return err
		}
		b.notifier.Error("Failed to save form")
		return err
	}
	b.notifier.Success("Form saved")
	return nil
}

// Delete removes the selected form after an explicit confirmation and returns
// the session to the unselected state.
func (b *BuilderSession) Delete(confirmed bool) error {
	if b.draft == nil {
		return NewInvalidError("no form selected")
	}
	if !confirmed {
		return NewInvalidError("delete requires confirmation")
	}
	if err := b.forms.DeleteForm(b.draft.ID); err != nil {
		b.notifier.Error("Failed to delete form")
		return err
	}
	b.draft = nil
	b.notifier.Success("Form deleted")
	return nil
}
