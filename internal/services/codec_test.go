package services

import (
	"reflect"
	"testing"

	"github.com/crestlinehq/crestline/internal/models"
)

func TestDecodeFieldsRoundTrip(t *testing.T) {
	in := testFields()
	raw, err := EncodeFields(in)
	if err != nil {
		t.Fatalf("EncodeFields returned error: %v", err)
	}
	out := DecodeFields(raw)
	if !reflect.DeepEqual(out, in) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", out, in)
	}
}

func TestDecodeFieldsMalformed(t *testing.T) {
	for _, raw := range []string{"", "null", "{\"not\":\"a list\"}", "garbage"} {
		out := DecodeFields([]byte(raw))
		if out == nil || len(out) != 0 {
			t.Fatalf("DecodeFields(%q) = %v, want empty", raw, out)
		}
	}
}

func TestDecodeFieldsUnknownTypeFallsBackToText(t *testing.T) {
	raw := []byte(`[{"id":"f1","label":"Age","type":"number","required":false}]`)
	out := DecodeFields(raw)
	if len(out) != 1 {
		t.Fatalf("expected one field, got %v", out)
	}
	if out[0].Type != models.FieldText {
		t.Fatalf("type = %q, want text fallback", out[0].Type)
	}
	if out[0].Label != "Age" {
		t.Fatalf("label dropped during fallback: %+v", out[0])
	}
}

// A select stored without options is kept rather than rejected; it degrades
// at render time to a placeholder-only dropdown.
func TestDecodeFieldsSelectWithoutOptions(t *testing.T) {
	raw := []byte(`[{"id":"f1","label":"Topic","type":"select","required":true}]`)
	out := DecodeFields(raw)
	if len(out) != 1 || out[0].Type != models.FieldSelect {
		t.Fatalf("unexpected decode: %+v", out)
	}
	if out[0].Options != nil {
		t.Fatalf("options = %v, want nil", out[0].Options)
	}
	view := buildFieldView(out[0])
	if len(view.Options) != 1 || view.Options[0].Value != "" {
		t.Fatalf("degraded select should render placeholder only, got %+v", view.Options)
	}
}

func TestParseDisplayType(t *testing.T) {
	if got := ParseDisplayType("popup"); got != models.DisplayPopup {
		t.Fatalf("popup parsed as %q", got)
	}
	if got := ParseDisplayType("section"); got != models.DisplaySection {
		t.Fatalf("section parsed as %q", got)
	}
	// anything unrecognized renders inline
	if got := ParseDisplayType("banner"); got != models.DisplaySection {
		t.Fatalf("unknown display type parsed as %q", got)
	}
}
