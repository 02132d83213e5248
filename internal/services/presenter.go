package services

import (
	"strings"
	"time"

	"github.com/crestlinehq/crestline/internal/models"
)

// SubmitState tracks the public submit lifecycle of one rendered form.
type SubmitState string

const (
	StateClosed     SubmitState = "closed"
	StateOpen       SubmitState = "open"
	StateSubmitting SubmitState = "submitting"
	StateSubmitted  SubmitState = "submitted"
)

// submittedHold is how long a popup shows its thank-you state before closing.
const submittedHold = 2 * time.Second

// SubmissionSink is the single call a presenter makes on success.
type SubmissionSink interface {
	Record(formID string, data map[string]string) (*models.FormSubmission, error)
}

// FormPresenter drives the submit lifecycle of one rendered form instance.
// Popups walk Closed -> Open -> Submitting -> Submitted -> Closed, where the
// final transition happens a fixed two seconds after success. Sections skip
// the Closed state on both ends: they are inline from the start and keep the
// thank-you state until the user navigates away.
type FormPresenter struct {
	view    FormView
	display models.DisplayType
	sink    SubmissionSink

	state   SubmitState
	values  map[string]string
	closeAt time.Time
	now     func() time.Time
	failMsg string
}

func NewFormPresenter(view FormView, display models.DisplayType, sink SubmissionSink) *FormPresenter {
	p := &FormPresenter{
		view:    view,
		display: display,
		sink:    sink,
		state:   StateClosed,
		values:  map[string]string{},
		now:     func() time.Time { return time.Now().UTC() },
	}
	if display == models.DisplaySection {
		p.state = StateOpen
	}
	return p
}

func (p *FormPresenter) State() SubmitState { return p.state }

// FailureMessage returns the pending failure notification, if any.
func (p *FormPresenter) FailureMessage() string { return p.failMsg }

// Open shows the popup with an empty input buffer.
func (p *FormPresenter) Open() {
	if p.state == StateSubmitting {
		return
	}
	p.values = map[string]string{}
	p.failMsg = ""
	p.state = StateOpen
}

// Close dismisses the popup.
func (p *FormPresenter) Close() {
	if p.display != models.DisplayPopup {
		return
	}
	p.state = StateClosed
}

// SetValue records one input keyed by field label. Ignored while inputs are
// frozen during submit.
func (p *FormPresenter) SetValue(label, value string) {
	if p.state != StateOpen {
		return
	}
	p.values[label] = value
}

// Value reads back the current buffer entry for a label.
func (p *FormPresenter) Value(label string) string { return p.values[label] }

// Submit validates required fields and hands the collected values to the
// sink. Validation failures block before the sink is ever invoked. On sink
// failure the form returns to Open with values retained so the user can
// retry; on success the thank-you state shows and, for popups, auto-close is
// armed.
func (p *FormPresenter) Submit() error {
	if p.state != StateOpen {
		return NewInvalidError("form is not open")
	}
	for _, f := range p.view.Fields {
		if f.Required && strings.TrimSpace(p.values[f.Label]) == "" {
			return NewInvalidError(f.Label + " is required")
		}
	}

	// only schema fields produce keys, whatever else the buffer holds
	data := map[string]string{}
	for _, f := range p.view.Fields {
		if v, ok := p.values[f.Label]; ok {
			data[f.Label] = v
		}
	}

	p.state = StateSubmitting
	if _, err := p.sink.Record(p.view.FormID, data); err != nil {
		p.state = StateOpen
		p.failMsg = "Failed to submit form"
		return err
	}
	p.values = map[string]string{}
	p.state = StateSubmitted
	if p.display == models.DisplayPopup {
		p.closeAt = p.now().Add(submittedHold)
	}
	return nil
}

// Advance applies time-driven transitions: a popup in the thank-you state
// closes once the hold elapses. Sections never auto-close.
func (p *FormPresenter) Advance() {
	if p.display != models.DisplayPopup || p.state != StateSubmitted {
		return
	}
	if !p.now().Before(p.closeAt) {
		p.state = StateClosed
	}
}
