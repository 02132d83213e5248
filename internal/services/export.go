package services

import (
	"bytes"
	"encoding/csv"
	"sort"
	"time"

	"github.com/crestlinehq/crestline/internal/models"
)

// ExportSubmissionsCSV renders a form's submissions into a CSV, one row per
// submission. Columns follow the current schema's field order, then sorted
// historical keys no longer present in the schema (labels drift when fields
// are renamed after submissions exist).
func ExportSubmissionsCSV(form *models.CustomForm, subs []*models.FormSubmission) ([]byte, error) {
	labels := make([]string, 0, len(form.Fields))
	seen := map[string]bool{}
	for _, f := range form.Fields {
		if !seen[f.Label] {
			labels = append(labels, f.Label)
			seen[f.Label] = true
		}
	}
	extras := []string{}
	for _, sub := range subs {
		for key := range sub.SubmissionData {
			if !seen[key] {
				extras = append(extras, key)
				seen[key] = true
			}
		}
	}
	sort.Strings(extras)
	labels = append(labels, extras...)

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := append([]string{"submission_id"}, labels...)
	header = append(header, "submitted_at")
	_ = w.Write(header)
	for _, sub := range subs {
		row := make([]string, 0, len(header))
		row = append(row, sub.ID)
		for _, label := range labels {
			row = append(row, sub.SubmissionData[label])
		}
		row = append(row, sub.CreatedAt.Format(time.RFC3339))
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
