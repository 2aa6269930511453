package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
)

// whereBuilder accumulates condition fragments with their bound values.
// Values are never interpolated into the SQL text.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

// sql renders " WHERE a AND b" or "" when empty.
func (w whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// ProgressionFilter drives the admin list. Nil fields are not applied.
type ProgressionFilter struct {
	ClientID           *int64
	ClassID            *int64
	ClassTypeSubjectID *int64
	Status             *model.Status
	LearnerID          *int64
}

func (f ProgressionFilter) where() whereBuilder {
	var w whereBuilder
	if f.ClientID != nil {
		w.add("c.client_id = ?", *f.ClientID)
	}
	if f.ClassID != nil {
		w.add("lpt.class_id = ?", *f.ClassID)
	}
	if f.ClassTypeSubjectID != nil {
		w.add("lpt.class_type_subject_id = ?", *f.ClassTypeSubjectID)
	}
	if f.Status != nil {
		w.add("lpt.status = ?", string(*f.Status))
	}
	if f.LearnerID != nil {
		w.add("lpt.learner_id = ?", *f.LearnerID)
	}
	return w
}

func (f ProgressionFilter) fingerprint() string {
	return fmt.Sprintf("client=%s|class=%s|subject=%s|status=%s|learner=%s",
		optInt(f.ClientID), optInt(f.ClassID), optInt(f.ClassTypeSubjectID), optStatus(f.Status), optInt(f.LearnerID))
}

// ReportFilter is shared by the report, summary, export and export-count
// queries. Search accepts either a learner id or a name fragment.
// DateFrom/DateTo bound lpt.start_date inclusively.
type ReportFilter struct {
	Search     string
	EmployerID *int64
	Status     *model.Status
	ClientID   *int64
	DateFrom   *time.Time
	DateTo     *time.Time
}

func (f ReportFilter) where() whereBuilder {
	var w whereBuilder
	if s := strings.TrimSpace(f.Search); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			w.add("lpt.learner_id = ?", id)
		} else {
			w.add("(COALESCE(l.first_name, '') || ' ' || COALESCE(l.surname, '')) ILIKE ?", "%"+escapeLike(s)+"%")
		}
	}
	if f.EmployerID != nil {
		w.add("l.employer_id = ?", *f.EmployerID)
	}
	if f.Status != nil {
		w.add("lpt.status = ?", string(*f.Status))
	}
	if f.ClientID != nil {
		w.add("c.client_id = ?", *f.ClientID)
	}
	if f.DateFrom != nil {
		w.add("lpt.start_date >= ?", f.DateFrom.Format(dateLayout))
	}
	if f.DateTo != nil {
		w.add("lpt.start_date <= ?", f.DateTo.Format(dateLayout))
	}
	return w
}

func (f ReportFilter) fingerprint() string {
	return fmt.Sprintf("search=%q|employer=%s|status=%s|client=%s|from=%s|to=%s",
		strings.ToLower(strings.TrimSpace(f.Search)), optInt(f.EmployerID), optStatus(f.Status),
		optInt(f.ClientID), optDate(f.DateFrom), optDate(f.DateTo))
}

const dateLayout = "2006-01-02"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func optInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

func optStatus(v *model.Status) string {
	if v == nil {
		return "-"
	}
	return string(*v)
}

func optDate(v *time.Time) string {
	if v == nil {
		return "-"
	}
	return v.Format(dateLayout)
}
