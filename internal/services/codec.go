package services

import (
	"encoding/json"
	"log"

	"github.com/crestlinehq/crestline/internal/models"
)

// wireField is the persisted JSON shape of a single field. The backend treats
// the whole fields column as an opaque blob; this file is the one place that
// turns it back into typed schema.
type wireField struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Options     []string `json:"options,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// DecodeFields converts the stored blob into a field sequence. Malformed
// payloads are never fatal: an undecodable blob yields an empty schema and a
// log line, and a field with an unknown type falls back to a plain text
// input. A select field with no options is kept as-is and degrades at render
// time to a placeholder-only dropdown.
func DecodeFields(raw []byte) []models.FormField {
	if len(raw) == 0 {
		return []models.FormField{}
	}
	var wire []wireField
	if err := json.Unmarshal(raw, &wire); err != nil {
		log.Printf("form schema: decode fields: %v", err)
		return []models.FormField{}
	}
	out := make([]models.FormField, 0, len(wire))
	for _, w := range wire {
		t := models.FieldType(w.Type)
		if !fieldTypes[t] {
			log.Printf("form schema: unknown field type %q, rendering as text", w.Type)
			t = models.FieldText
		}
		out = append(out, models.FormField{
			ID:          w.ID,
			Label:       w.Label,
			Type:        t,
			Required:    w.Required,
			Options:     w.Options,
			Placeholder: w.Placeholder,
		})
	}
	return out
}

// EncodeFields serializes a field sequence back into the stored blob shape.
func EncodeFields(fields []models.FormField) ([]byte, error) {
	wire := make([]wireField, 0, len(fields))
	for _, f := range fields {
		wire = append(wire, wireField{
			ID:          f.ID,
			Label:       f.Label,
			Type:        string(f.Type),
			Required:    f.Required,
			Options:     f.Options,
			Placeholder: f.Placeholder,
		})
	}
	return json.Marshal(wire)
}

// ParseDisplayType coerces the stored string into the two-value enum. Anything
// that is not "popup" renders as an inline section.
func ParseDisplayType(s string) models.DisplayType {
	if s == string(models.DisplayPopup) {
		return models.DisplayPopup
	}
	return models.DisplaySection
}
