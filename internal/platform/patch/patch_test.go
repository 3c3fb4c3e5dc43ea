package patch

import (
	"reflect"
	"testing"
)

func TestBuild_SingleField(t *testing.T) {
	cs := &Changeset{}
	cs.Set("city", "Rosario")

	sql, args, err := Build("provinces", cs, 7)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := "UPDATE provinces SET city = $1 WHERE id = $2"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"Rosario", int64(7)}) {
		t.Errorf("args = %v", args)
	}
}

func TestBuild_PreservesInsertionOrder(t *testing.T) {
	cs := &Changeset{}
	cs.Set("last_name", "Diaz")
	cs.Set("first_name", "Ana")
	cs.Set("email", "ana@example.com")

	sql, args, err := Build("patients", cs, 12)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := "UPDATE patients SET last_name = $1, first_name = $2, email = $3 WHERE id = $4"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 4 || args[3] != int64(12) {
		t.Errorf("args = %v", args)
	}
}

func TestBuild_ExplicitNull(t *testing.T) {
	cs := &Changeset{}
	cs.Set("allergies", nil)

	sql, args, err := Build("patients", cs, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if sql != "UPDATE patients SET allergies = $1 WHERE id = $2" {
		t.Errorf("sql = %q", sql)
	}
	if args[0] != nil {
		t.Errorf("args[0] = %v, want nil", args[0])
	}
}

func TestBuildScoped_Admission(t *testing.T) {
	cs := &Changeset{}
	cs.Set("diagnosis", "pneumonia")

	sql, args, err := BuildScoped("admissions", cs, 3, 5, 9)
	if err != nil {
		t.Fatalf("BuildScoped: %v", err)
	}
	want := "UPDATE admissions SET diagnosis = $1 WHERE id = $2 AND patient_id = $3 AND doctor_id = $4"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"pneumonia", int64(3), int64(5), int64(9)}) {
		t.Errorf("args = %v", args)
	}
}

func TestBuild_RejectsUnknownColumn(t *testing.T) {
	cs := &Changeset{}
	cs.Set("is_admin", true)

	if _, _, err := Build("patients", cs, 1); err == nil {
		t.Fatal("expected error for disallowed column")
	}
}

func TestBuild_RejectsUnknownTable(t *testing.T) {
	cs := &Changeset{}
	cs.Set("name", "x")

	if _, _, err := Build("sessions", cs, 1); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

func TestBuild_RejectsEmptyChangeset(t *testing.T) {
	if _, _, err := Build("doctors", &Changeset{}, 1); err == nil {
		t.Fatal("expected error for empty changeset")
	}
}

func TestChangeset_SetOverwritesInPlace(t *testing.T) {
	cs := &Changeset{}
	cs.Set("name", "a")
	cs.Set("city", "b")
	cs.Set("name", "c")

	if cs.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cs.Len())
	}
	if got := cs.Columns(); !reflect.DeepEqual(got, []string{"name", "city"}) {
		t.Errorf("Columns = %v", got)
	}
	sql, args, err := Build("provinces", cs, 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if sql != "UPDATE provinces SET name = $1, city = $2 WHERE id = $3" {
		t.Errorf("sql = %q", sql)
	}
	if args[0] != "c" {
		t.Errorf("args[0] = %v, want overwritten value", args[0])
	}
}

func TestPresence(t *testing.T) {
	present, err := Presence([]byte(`{"first_name":"Ana","allergies":null}`))
	if err != nil {
		t.Fatalf("Presence: %v", err)
	}
	if !present["first_name"] || !present["allergies"] {
		t.Errorf("present = %v", present)
	}
	if present["email"] {
		t.Error("email reported present")
	}
}

func TestPresence_RejectsNonObject(t *testing.T) {
	if _, err := Presence([]byte(`[1,2]`)); err == nil {
		t.Fatal("expected error for non-object body")
	}
}
