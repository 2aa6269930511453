package commands

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/repository"
)

// reportFlags holds the flags shared by export and stats.
type reportFlags struct {
	search     string
	employerID int64
	clientID   int64
	status     string
	from       string
	to         string
}

func (f *reportFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.search, "search", "", "Learner id or name fragment")
	fs.Int64Var(&f.employerID, "employer-id", 0, "Only learners of this employer")
	fs.Int64Var(&f.clientID, "client-id", 0, "Only classes of this client")
	fs.StringVar(&f.status, "status", "", "in_progress, completed or on_hold")
	fs.StringVar(&f.from, "from", "", "Earliest start date (YYYY-MM-DD, inclusive)")
	fs.StringVar(&f.to, "to", "", "Latest start date (YYYY-MM-DD, inclusive)")
}

func (f reportFlags) filter() (repository.ReportFilter, error) {
	out := repository.ReportFilter{Search: strings.TrimSpace(f.search)}
	if f.employerID > 0 {
		id := f.employerID
		out.EmployerID = &id
	}
	if f.clientID > 0 {
		id := f.clientID
		out.ClientID = &id
	}
	if f.status != "" {
		st := model.Status(f.status)
		if !st.Valid() {
			return out, errors.Newf("unknown status %q", f.status)
		}
		out.Status = &st
	}
	var err error
	if out.DateFrom, err = parseDateFlag("from", f.from); err != nil {
		return out, err
	}
	if out.DateTo, err = parseDateFlag("to", f.to); err != nil {
		return out, err
	}
	if out.DateFrom != nil && out.DateTo != nil && out.DateFrom.After(*out.DateTo) {
		return out, errors.New("--from must not be after --to")
	}
	return out, nil
}

func parseDateFlag(name, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, errors.Wrapf(err, "--%s", name)
	}
	return &t, nil
}
