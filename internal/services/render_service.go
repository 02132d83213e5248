package services

import (
	"sync"
	"time"

	"github.com/crestlinehq/crestline/internal/models"
)

// PublishedLister is the read side of the store the public renderer uses.
type PublishedLister interface {
	ListPublished(targetPage string) ([]*models.CustomForm, error)
}

// publishedCacheTTL bounds how stale a public page's form listing may be
// after an admin publish. Admin writes do not invalidate this cache;
// publishing is not latency-sensitive.
const publishedCacheTTL = time.Minute

// SelectOption is one entry of a dropdown, placeholder included.
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldView is the render-ready shape of one field. Widget picks the control;
// InputType carries the stored type through for native input semantics.
type FieldView struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Required    bool           `json:"required"`
	Widget      string         `json:"widget"` // input | textarea | select
	InputType   string         `json:"input_type,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	Rows        int            `json:"rows,omitempty"`
	Options     []SelectOption `json:"options,omitempty"`
}

// FormView is one renderable form.
type FormView struct {
	FormID      string      `json:"form_id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Fields      []FieldView `json:"fields"`
}

// PopupTrigger is a floating trigger button for a popup form.
type PopupTrigger struct {
	FormID string `json:"form_id"`
	Text   string `json:"text"`
}

// PageView is everything the public renderer needs for one page: every popup
// form contributes a trigger button, but only the first popup's modal content
// is served; section forms render inline in listing order.
type PageView struct {
	Page          string         `json:"page"`
	PopupTriggers []PopupTrigger `json:"popup_triggers"`
	PopupModal    *FormView      `json:"popup_modal,omitempty"`
	Sections      []FormView     `json:"sections"`
}

// RenderService builds page views from published form definitions, caching
// per target page.
type RenderService struct {
	store PublishedLister
	now   func() time.Time

	mu    sync.Mutex
	cache map[string]pageCacheEntry
}

type pageCacheEntry struct {
	view    *PageView
	expires time.Time
}

func NewRenderService(store PublishedLister) *RenderService {
	return &RenderService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		cache: map[string]pageCacheEntry{},
	}
}

// PageForms returns the view for one public page, serving the per-page cache
// until it expires.
func (s *RenderService) PageForms(page string) (*PageView, error) {
	now := s.now()
	s.mu.Lock()
	if entry, ok := s.cache[page]; ok && now.Before(entry.expires) {
		view := entry.view
		s.mu.Unlock()
		return view, nil
	}
	s.mu.Unlock()

	forms, err := s.store.ListPublished(page)
	if err != nil {
		return nil, err
	}
	view := buildPageView(page, forms)
	s.mu.Lock()
	s.cache[page] = pageCacheEntry{view: view, expires: now.Add(publishedCacheTTL)}
	s.mu.Unlock()
	return view, nil
}

func buildPageView(page string, forms []*models.CustomForm) *PageView {
	view := &PageView{Page: page, PopupTriggers: []PopupTrigger{}, Sections: []FormView{}}
	for _, f := range forms {
		switch f.DisplayType {
		case models.DisplayPopup:
			text := f.PopupTriggerText
			if text == "" {
				text = "Get Started"
			}
			view.PopupTriggers = append(view.PopupTriggers, PopupTrigger{FormID: f.ID, Text: text})
			// first popup in listing order wins the modal slot
			if view.PopupModal == nil {
				fv := buildFormView(f, f.FormName)
				view.PopupModal = &fv
			}
		default:
			title := f.SectionTitle
			if title == "" {
				title = f.FormName
			}
			view.Sections = append(view.Sections, buildFormView(f, title))
		}
	}
	return view
}

func buildFormView(f *models.CustomForm, title string) FormView {
	fields := make([]FieldView, 0, len(f.Fields))
	for _, field := range f.Fields {
		fields = append(fields, buildFieldView(field))
	}
	return FormView{FormID: f.ID, Title: title, Description: f.Description, Fields: fields}
}

// buildFieldView dispatches purely on the field type.
func buildFieldView(f models.FormField) FieldView {
	view := FieldView{
		ID:          f.ID,
		Label:       f.Label,
		Required:    f.Required,
		Placeholder: f.Placeholder,
	}
	switch f.Type {
	case models.FieldTextarea:
		view.Widget = "textarea"
		view.Rows = 4
	case models.FieldSelect:
		view.Widget = "select"
		placeholder := f.Placeholder
		if placeholder == "" {
			placeholder = "Select an option"
		}
		options := []SelectOption{{Value: "", Label: placeholder}}
		for _, opt := range f.Options {
			options = append(options, SelectOption{Value: opt, Label: opt})
		}
		view.Options = options
	default:
		view.Widget = "input"
		view.InputType = string(f.Type)
	}
	return view
}
