package service

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
)

var RegulatoryHeader = []string{
	"Tracking ID", "Learner ID", "First Name", "Surname", "SA ID Number", "Passport Number",
	"Employer", "Client", "Class Code", "Subject Code", "Subject Name", "Subject Duration",
	"Status", "Start Date", "Completion Date", "Hours Trained", "Hours Present", "Hours Absent",
	"Portfolio Submitted", "Portfolio Uploaded At", "Created At", "Updated At",
}

// WriteRegulatoryRows writes the compliance export as CSV and returns the
// number of data rows. Callers fetch rows first so a failed query never
// produces a partial file or a successful empty download.
func WriteRegulatoryRows(w io.Writer, rows []model.RegulatoryExportRow) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(RegulatoryHeader); err != nil {
		return 0, errors.Wrap(err, "write csv header")
	}
	for i := range rows {
		if err := cw.Write(regulatoryRecord(&rows[i])); err != nil {
			return i, errors.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, errors.Wrap(err, "flush csv")
	}
	return len(rows), nil
}

func regulatoryRecord(r *model.RegulatoryExportRow) []string {
	return []string{
		strconv.FormatInt(r.TrackingID, 10),
		strconv.FormatInt(r.LearnerID, 10),
		r.FirstName,
		r.Surname,
		str(r.SAIDNumber),
		str(r.PassportNumber),
		str(r.EmployerName),
		str(r.ClientName),
		str(r.ClassCode),
		r.SubjectCode,
		r.SubjectName,
		num(r.SubjectDuration),
		string(r.Status),
		r.StartDate.Format("2006-01-02"),
		date(r.CompletionDate),
		num(r.HoursTrained),
		num(r.HoursPresent),
		num(r.HoursAbsent),
		r.PortfolioSubmitted,
		stamp(r.PortfolioUploadedAt),
		r.CreatedAt.Format(time.RFC3339),
		r.UpdatedAt.Format(time.RFC3339),
	}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func stamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
