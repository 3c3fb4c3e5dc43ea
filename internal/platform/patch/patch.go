// Package patch compiles sparse field changes into targeted UPDATE
// statements. Column names are drawn from fixed per-table allow-lists, never
// from request payloads; this is the injection-safety boundary for partial
// updates.
package patch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// updatable lists the columns a PATCH may touch, per table. Anything else is
// a programming error, not a client error.
var updatable = map[string]map[string]bool{
	"provinces": {
		"name": true,
		"city": true,
	},
	"patients": {
		"province_id": true,
		"first_name":  true,
		"last_name":   true,
		"email":       true,
		"password":    true,
		"gender":      true,
		"birth_date":  true,
		"allergies":   true,
		"height_cm":   true,
		"weight_kg":   true,
	},
	"doctors": {
		"first_name": true,
		"last_name":  true,
		"email":      true,
		"password":   true,
		"specialty":  true,
	},
	"admissions": {
		"diagnosis":      true,
		"status":         true,
		"admission_date": true,
		"discharge_date": true,
	},
}

// Changeset is an ordered set of column -> new value assignments. Only
// fields the caller explicitly supplied belong here; an explicit null is a
// nil value, an omitted field is simply absent.
type Changeset struct {
	cols []string
	vals []any
}

// Set records an assignment. Setting the same column twice overwrites the
// value in place and keeps the original position.
func (cs *Changeset) Set(column string, value any) {
	for i, c := range cs.cols {
		if c == column {
			cs.vals[i] = value
			return
		}
	}
	cs.cols = append(cs.cols, column)
	cs.vals = append(cs.vals, value)
}

func (cs *Changeset) Has(column string) bool {
	for _, c := range cs.cols {
		if c == column {
			return true
		}
	}
	return false
}

func (cs *Changeset) Len() int { return len(cs.cols) }

// Get returns the value assigned to column and whether it is present.
func (cs *Changeset) Get(column string) (any, bool) {
	for i, c := range cs.cols {
		if c == column {
			return cs.vals[i], true
		}
	}
	return nil, false
}

// Columns returns the assigned column names in insertion order.
func (cs *Changeset) Columns() []string {
	out := make([]string, len(cs.cols))
	copy(out, cs.cols)
	return out
}

// Build compiles the changeset into an UPDATE scoped by primary key.
func Build(table string, cs *Changeset, id int64) (string, []any, error) {
	return compile(table, cs, id, 0, 0)
}

// BuildScoped compiles an admissions update additionally filtered by the
// owning patient and doctor ids, so a guessed primary key still cannot cross
// ownership rows.
func BuildScoped(table string, cs *Changeset, id, patientID, doctorID int64) (string, []any, error) {
	return compile(table, cs, id, patientID, doctorID)
}

func compile(table string, cs *Changeset, id, patientID, doctorID int64) (string, []any, error) {
	allowed, ok := updatable[table]
	if !ok {
		return "", nil, fmt.Errorf("patch: unknown table %q", table)
	}
	if cs.Len() == 0 {
		return "", nil, fmt.Errorf("patch: empty changeset for table %q", table)
	}

	var b strings.Builder
	args := make([]any, 0, cs.Len()+3)

	b.WriteString("UPDATE ")
	b.WriteString(table)
	b.WriteString(" SET ")
	for i, col := range cs.cols {
		if !allowed[col] {
			return "", nil, fmt.Errorf("patch: column %q not updatable on table %q", col, table)
		}
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s = $%d", col, i+1)
		args = append(args, cs.vals[i])
	}

	fmt.Fprintf(&b, " WHERE id = $%d", len(args)+1)
	args = append(args, id)

	if patientID != 0 || doctorID != 0 {
		fmt.Fprintf(&b, " AND patient_id = $%d AND doctor_id = $%d", len(args)+1, len(args)+2)
		args = append(args, patientID, doctorID)
	}

	return b.String(), args, nil
}

// Presence reports which top-level keys a JSON object body actually carries,
// so handlers can distinguish "field: null" from an omitted field before
// decoding into typed structs.
func Presence(body []byte) (map[string]bool, error) {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("patch: decode body: %w", err)
	}
	present := make(map[string]bool, len(raw))
	for k := range raw {
		present[k] = true
	}
	return present, nil
}
