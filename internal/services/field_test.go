package services

import (
	"reflect"
	"testing"

	"github.com/crestlinehq/crestline/internal/models"
)

func TestNewFieldSelectDefaults(t *testing.T) {
	f, err := NewField("Topic", models.FieldSelect, false, "", nil)
	if err != nil {
		t.Fatalf("NewField returned error: %v", err)
	}
	if f.ID == "" {
		t.Fatal("expected a generated field id")
	}
	want := []string{"Option 1", "Option 2"}
	if !reflect.DeepEqual(f.Options, want) {
		t.Fatalf("options = %v, want %v", f.Options, want)
	}

	f2, err := NewField("Topic", models.FieldSelect, false, "", []string{"A"})
	if err != nil {
		t.Fatalf("NewField returned error: %v", err)
	}
	if !reflect.DeepEqual(f2.Options, []string{"A"}) {
		t.Fatalf("supplied options overridden: %v", f2.Options)
	}
}

func TestNewFieldNonSelectHasNoOptions(t *testing.T) {
	for _, ftype := range []models.FieldType{models.FieldText, models.FieldEmail, models.FieldTextarea, models.FieldPhone} {
		f, err := NewField("Name", ftype, true, "Your name", []string{"ignored"})
		if err != nil {
			t.Fatalf("NewField(%s) returned error: %v", ftype, err)
		}
		if f.Options != nil {
			t.Fatalf("NewField(%s) options = %v, want nil", ftype, f.Options)
		}
	}
}

func TestNewFieldValidation(t *testing.T) {
	if _, err := NewField("   ", models.FieldText, false, "", nil); err == nil {
		t.Fatal("expected error for whitespace-only label")
	} else if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalid {
		t.Fatalf("expected invalid error, got %v", err)
	}
	if _, err := NewField("X", models.FieldType("checkbox"), false, "", nil); err == nil {
		t.Fatal("expected error for unknown field type")
	}
}

func TestNewFieldIDsUnique(t *testing.T) {
	a, _ := NewField("A", models.FieldText, false, "", nil)
	b, _ := NewField("A", models.FieldText, false, "", nil)
	if a.ID == b.ID {
		t.Fatalf("two fields share id %q", a.ID)
	}
}

func testFields() []models.FormField {
	return []models.FormField{
		{ID: "f1", Label: "Name", Type: models.FieldText, Required: true},
		{ID: "f2", Label: "Email", Type: models.FieldEmail, Required: true},
		{ID: "f3", Label: "Topic", Type: models.FieldSelect, Options: []string{"Sales", "Support"}},
	}
}

func TestUpdateFieldsMergesPatch(t *testing.T) {
	label := "Work Email"
	required := false
	out := UpdateFields(testFields(), "f2", FieldPatch{Label: &label, Required: &required})
	if out[1].Label != "Work Email" || out[1].Required {
		t.Fatalf("patch not applied: %+v", out[1])
	}
	if out[1].Type != models.FieldEmail {
		t.Fatalf("unpatched member changed: %+v", out[1])
	}
	if out[0].Label != "Name" || out[2].Label != "Topic" {
		t.Fatal("other fields touched by patch")
	}
}

func TestUpdateFieldsPreservesOrder(t *testing.T) {
	ph := "pick one"
	out := UpdateFields(testFields(), "f3", FieldPatch{Placeholder: &ph})
	ids := []string{out[0].ID, out[1].ID, out[2].ID}
	if !reflect.DeepEqual(ids, []string{"f1", "f2", "f3"}) {
		t.Fatalf("order changed: %v", ids)
	}
}

func TestUpdateFieldsUnknownIDIsNoop(t *testing.T) {
	in := testFields()
	label := "Changed"
	out := UpdateFields(in, "missing", FieldPatch{Label: &label})
	if !reflect.DeepEqual(out, in) {
		t.Fatalf("unknown id mutated sequence: %v", out)
	}
}

func TestRemoveField(t *testing.T) {
	out := RemoveField(testFields(), "f2")
	if len(out) != 2 || out[0].ID != "f1" || out[1].ID != "f3" {
		t.Fatalf("unexpected remainder: %v", out)
	}
	// unknown id: silent no-op
	out = RemoveField(out, "f2")
	if len(out) != 2 {
		t.Fatalf("second remove changed sequence: %v", out)
	}
}

// Removed ids are permanently inert: a later update addressed to them leaves
// the sequence unchanged.
func TestRemovedFieldStaysInert(t *testing.T) {
	removed := RemoveField(testFields(), "f1")
	label := "Resurrected"
	out := UpdateFields(removed, "f1", FieldPatch{Label: &label})
	if !reflect.DeepEqual(out, removed) {
		t.Fatalf("removed id still reachable: %v", out)
	}
}
