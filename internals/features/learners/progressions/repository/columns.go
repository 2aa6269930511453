package repository

import (
	"fmt"
	"strings"
)

// Fields is a column => value payload for writes.
type Fields map[string]any

var (
	insertColumns = []string{
		"learner_id", "class_type_subject_id", "class_id",
		"hours_trained", "hours_present", "hours_absent",
		"status", "start_date", "completion_date",
		"portfolio_file_path", "notes",
	}
	updateColumns = []string{
		"hours_trained", "hours_present", "hours_absent",
		"status", "completion_date",
		"portfolio_file_path", "portfolio_uploaded_at",
		"marked_complete_by", "marked_complete_date",
		"notes",
	}
	hoursLogColumns = []string{
		"learner_id", "class_type_subject_id", "class_id", "tracking_id", "session_id",
		"log_date", "hours_trained", "hours_present", "source", "created_by", "notes",
	}
)

// server-stamped audit columns follow the caller-supplied ones
var (
	insertWriteOrder   = append(append([]string{}, insertColumns...), "created_at", "updated_at")
	updateWriteOrder   = append(append([]string{}, updateColumns...), "updated_at")
	hoursLogWriteOrder = append(append([]string{}, hoursLogColumns...), "created_at")
)

// restrictToAllowed drops every key not in allowed. Unknown columns are
// ignored rather than reported.
func restrictToAllowed(data Fields, allowed []string) Fields {
	out := make(Fields, len(allowed))
	for _, col := range allowed {
		if v, ok := data[col]; ok {
			out[col] = v
		}
	}
	return out
}

// ordered returns columns and values in allow-list order so generated SQL is stable.
func ordered(data Fields, allowed []string) ([]string, []any) {
	cols := make([]string, 0, len(data))
	vals := make([]any, 0, len(data))
	for _, col := range allowed {
		if v, ok := data[col]; ok {
			cols = append(cols, col)
			vals = append(vals, v)
		}
	}
	return cols, vals
}

func buildInsert(table string, cols []string, returning string) string {
	ph := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table, strings.Join(cols, ", "), ph, returning)
}

func buildSet(cols []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " = ?"
	}
	return strings.Join(parts, ", ")
}
