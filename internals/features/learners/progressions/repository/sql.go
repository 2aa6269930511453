package repository

// progressExpr is hours present over subject duration, capped at 100.
const progressExpr = `(CASE WHEN COALESCE(cts.subject_duration, 0) > 0
		THEN LEAST(100, lpt.hours_present / cts.subject_duration * 100)
		ELSE 0 END)::float8`

const trackingColumns = `
	lpt.tracking_id, lpt.learner_id, lpt.class_type_subject_id, lpt.class_id,
	lpt.hours_trained, lpt.hours_present, lpt.hours_absent, lpt.status,
	lpt.start_date, lpt.completion_date, lpt.portfolio_file_path, lpt.portfolio_uploaded_at,
	lpt.marked_complete_by, lpt.marked_complete_date, lpt.notes, lpt.created_at, lpt.updated_at`

const displayColumns = `
	COALESCE(l.first_name, '') AS learner_first_name,
	COALESCE(l.surname, '') AS learner_surname,
	COALESCE(cts.subject_name, '') AS subject_name,
	COALESCE(cts.subject_code, '') AS subject_code,
	COALESCE(cts.subject_duration, 0)::float8 AS subject_duration,
	c.class_code, c.client_id, e.employer_name,
	` + progressExpr + ` AS progress_percentage`

// reportFrom is shared by FindForReport and GetReportSummaryStats so the
// summary always counts exactly the rows the report lists.
const reportFrom = `
FROM learner_lp_tracking lpt
LEFT JOIN class_type_subjects cts ON cts.class_type_subject_id = lpt.class_type_subject_id
LEFT JOIN learners l ON l.id = lpt.learner_id
LEFT JOIN classes c ON c.class_id = lpt.class_id
LEFT JOIN employers e ON e.employer_id = l.employer_id`

// enrichedFrom adds the client to reportFrom.
const enrichedFrom = reportFrom + `
LEFT JOIN clients cl ON cl.client_id = c.client_id`

const progressionSelect = `SELECT` + trackingColumns + `,` + displayColumns + `,
	cl.client_name` + enrichedFrom

const reportSelect = `SELECT` + trackingColumns + `,` + displayColumns + `,
	NULL::text AS client_name` + reportFrom

const reportOrder = ` ORDER BY e.employer_name ASC NULLS LAST, l.surname ASC, lpt.start_date DESC, lpt.tracking_id DESC`

const summarySelect = `SELECT
	COUNT(DISTINCT lpt.learner_id) AS total_learners,
	COUNT(*) AS total_progressions,
	COUNT(*) FILTER (WHERE lpt.status = 'completed') AS completed_count,
	COUNT(*) FILTER (WHERE lpt.status = 'in_progress') AS in_progress_count,
	COUNT(*) FILTER (WHERE lpt.status = 'on_hold') AS on_hold_count,
	COALESCE(AVG(` + progressExpr + `) FILTER (WHERE lpt.status <> 'completed'), 0)::float8 AS avg_progress` + reportFrom

const exportSelect = `SELECT
	lpt.tracking_id, lpt.learner_id,
	COALESCE(l.first_name, '') AS first_name,
	COALESCE(l.surname, '') AS surname,
	l.sa_id_no, l.passport_number,
	e.employer_name, cl.client_name, c.class_code,
	COALESCE(cts.subject_code, '') AS subject_code,
	COALESCE(cts.subject_name, '') AS subject_name,
	COALESCE(cts.subject_duration, 0)::float8 AS subject_duration,
	lpt.status, lpt.start_date, lpt.completion_date,
	lpt.hours_trained, lpt.hours_present, lpt.hours_absent,
	CASE WHEN COALESCE(lpt.portfolio_file_path, '') <> '' THEN 'Yes' ELSE 'No' END AS portfolio_submitted,
	lpt.portfolio_uploaded_at, lpt.created_at, lpt.updated_at` + enrichedFrom

const exportOrder = ` ORDER BY cl.client_name ASC NULLS LAST, l.surname ASC, l.first_name ASC, lpt.start_date ASC, lpt.tracking_id ASC`

const hoursLogSelect = `SELECT
	lhl.log_id, lhl.learner_id, lhl.class_type_subject_id, lhl.class_id, lhl.tracking_id, lhl.session_id,
	lhl.log_date, lhl.hours_trained, lhl.hours_present, lhl.source, lhl.created_by, lhl.notes, lhl.created_at,
	COALESCE(cts.subject_name, '') AS subject_name, c.class_code
FROM learner_hours_log lhl
LEFT JOIN class_type_subjects cts ON cts.class_type_subject_id = lhl.class_type_subject_id
LEFT JOIN classes c ON c.class_id = lhl.class_id`
