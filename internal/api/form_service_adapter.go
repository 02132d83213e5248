package api

import (
	"github.com/crestlinehq/crestline/internal/models"
	"github.com/crestlinehq/crestline/internal/services"
)

// formStoreAdapter sits between the typed service layer and the wire-shaped
// store. It is the parse boundary of the access layer: stored field blobs and
// display-type strings are decoded here on every read and re-encoded on
// every write.
type formStoreAdapter struct {
	store Store
}

func newFormStoreAdapter(store Store) *formStoreAdapter {
	return &formStoreAdapter{store: store}
}

func (a *formStoreAdapter) InsertForm(f *models.CustomForm) (*models.CustomForm, error) {
	wire, err := convertModelForm(f)
	if err != nil {
		return nil, services.NewInvalidError(err.Error())
	}
	stored := a.store.AddForm(wire)
	if stored == nil {
		return nil, services.NewStoreError("insert failed")
	}
	return convertAPIForm(stored), nil
}

func (a *formStoreAdapter) GetForm(id string) (*models.CustomForm, error) {
	return convertAPIForm(a.store.GetForm(id)), nil
}

func (a *formStoreAdapter) UpdateForm(f *models.CustomForm) error {
	wire, err := convertModelForm(f)
	if err != nil {
		return services.NewInvalidError(err.Error())
	}
	if ok := a.store.UpdateForm(wire); !ok {
		return services.NewNotFoundError("form not found")
	}
	return nil
}

func (a *formStoreAdapter) DeleteForm(id string) error {
	if ok := a.store.DeleteForm(id); !ok {
		return services.NewNotFoundError("form not found")
	}
	return nil
}

func (a *formStoreAdapter) ListForms() ([]*models.CustomForm, error) {
	return convertAPIForms(a.store.ListForms()), nil
}

func (a *formStoreAdapter) ListPublished(targetPage string) ([]*models.CustomForm, error) {
	return convertAPIForms(a.store.ListPublished(targetPage)), nil
}

func convertAPIForms(forms []*Form) []*models.CustomForm {
	out := make([]*models.CustomForm, 0, len(forms))
	for _, f := range forms {
		out = append(out, convertAPIForm(f))
	}
	return out
}

func convertAPIForm(f *Form) *models.CustomForm {
	if f == nil {
		return nil
	}
	return &models.CustomForm{
		ID:               f.ID,
		FormName:         f.FormName,
		Description:      f.Description,
		Fields:           services.DecodeFields(f.Fields),
		TargetPage:       f.TargetPage,
		DisplayType:      services.ParseDisplayType(f.DisplayType),
		IsPublished:      f.IsPublished,
		PopupTriggerText: f.PopupTriggerText,
		SectionTitle:     f.SectionTitle,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}

func convertModelForm(f *models.CustomForm) (*Form, error) {
	if f == nil {
		return nil, nil
	}
	fields, err := services.EncodeFields(f.Fields)
	if err != nil {
		return nil, err
	}
	return &Form{
		ID:               f.ID,
		FormName:         f.FormName,
		Description:      f.Description,
		Fields:           fields,
		TargetPage:       f.TargetPage,
		DisplayType:      string(f.DisplayType),
		IsPublished:      f.IsPublished,
		PopupTriggerText: f.PopupTriggerText,
		SectionTitle:     f.SectionTitle,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}, nil
}

var (
	_ services.FormStore       = (*formStoreAdapter)(nil)
	_ services.PublishedLister = (*formStoreAdapter)(nil)
)
