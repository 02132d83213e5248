package api

import (
	"encoding/json"
	"log"

	"github.com/crestlinehq/crestline/internal/models"
	"github.com/crestlinehq/crestline/internal/services"
)

type submissionStoreAdapter struct {
	store Store
}

func newSubmissionStoreAdapter(store Store) services.SubmissionStore {
	return &submissionStoreAdapter{store: store}
}

func (a *submissionStoreAdapter) GetForm(id string) (*models.CustomForm, error) {
	return convertAPIForm(a.store.GetForm(id)), nil
}

func (a *submissionStoreAdapter) AddSubmission(sub *models.FormSubmission) error {
	data, err := json.Marshal(sub.SubmissionData)
	if err != nil {
		return services.NewInvalidError(err.Error())
	}
	a.store.AddSubmission(&Submission{
		ID:             sub.ID,
		FormID:         sub.FormID,
		SubmissionData: data,
		CreatedAt:      sub.CreatedAt,
	})
	return nil
}

func (a *submissionStoreAdapter) ListSubmissions(formID string) ([]*models.FormSubmission, error) {
	subs := a.store.ListSubmissions(formID)
	out := make([]*models.FormSubmission, 0, len(subs))
	for _, sub := range subs {
		out = append(out, &models.FormSubmission{
			ID:             sub.ID,
			FormID:         sub.FormID,
			SubmissionData: decodeSubmissionData(sub.SubmissionData),
			CreatedAt:      sub.CreatedAt,
		})
	}
	return out, nil
}

// decodeSubmissionData tolerates malformed stored blobs the same way the
// field codec does: log and degrade to empty rather than fail.
func decodeSubmissionData(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return map[string]string{}
	}
	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Printf("submissions: decode data: %v", err)
		return map[string]string{}
	}
	if out == nil {
		return map[string]string{}
	}
	return out
}

var _ services.SubmissionStore = (*submissionStoreAdapter)(nil)
