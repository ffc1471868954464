// Package catalog reads the exam, institution and acceptance reference tables
// for the match engine.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/clepbridge/clepbridge/internal/match"
)

// SQLStore serves the reference tables over database/sql (sqlite or pgx stdlib).
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

var (
	_ match.Source     = (*SQLStore)(nil)
	_ match.ExamLister = (*SQLStore)(nil)
)

const institutionCols = `id,msea_org_id,name,city,state,zip,enrollment,max_credits,
	transcription_fee,score_validity_years,website_url,can_use_for_failed_courses,can_enrolled_students_use_clep`

func (s *SQLStore) ListExams(ctx context.Context) ([]match.Exam, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT eid,name FROM exams ORDER BY eid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []match.Exam{}
	for rows.Next() {
		var e match.Exam
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) FetchPolicies(ctx context.Context, examIDs []int) ([]match.AcceptancePolicy, error) {
	if len(examIDs) == 0 {
		return nil, nil
	}
	in, args := placeholders(1, intArgs(examIDs))
	rows, err := s.db.QueryContext(ctx,
		`SELECT msea_org_id,eid,cut_score,credits,related_course,last_updated
		   FROM acceptance WHERE eid IN (`+in+`) ORDER BY eid, msea_org_id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []match.AcceptancePolicy
	for rows.Next() {
		var (
			p       match.AcceptancePolicy
			course  sql.NullString
			updated sql.NullString
		)
		if err := rows.Scan(&p.InstitutionID, &p.ExamID, &p.CutScore, &p.Credits, &course, &updated); err != nil {
			return nil, err
		}
		p.RelatedCourse = course.String
		if updated.Valid {
			p.LastUpdated = match.ParseTimestamp(updated.String)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) FetchInstitutions(ctx context.Context, orgIDs []string) ([]match.Institution, error) {
	if len(orgIDs) == 0 {
		return nil, nil
	}
	args := make([]any, len(orgIDs))
	for i, id := range orgIDs {
		args[i] = id
	}
	in, args := placeholders(1, args)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+institutionCols+` FROM institutions WHERE msea_org_id IN (`+in+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []match.Institution
	for rows.Next() {
		var i match.Institution
		if err := rows.Scan(&i.ID, &i.OrgID, &i.Name, &i.City, &i.State, &i.Zip,
			&i.Enrollment, &i.MaxCredits, &i.TranscriptionFee, &i.ScoreValidityYears,
			&i.WebsiteURL, &i.CanUseForFailedCourses, &i.CanEnrolledStudentsUseCLEP); err != nil {
			return nil, err
		}
		if err := i.Validate(); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s *SQLStore) FetchExamNames(ctx context.Context, examIDs []int) (map[int]string, error) {
	out := map[int]string{}
	if len(examIDs) == 0 {
		return out, nil
	}
	in, args := placeholders(1, intArgs(examIDs))
	rows, err := s.db.QueryContext(ctx, `SELECT eid,name FROM exams WHERE eid IN (`+in+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   int
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

// placeholders renders "$n,$n+1,..." for args. Both modernc sqlite and pgx
// accept numbered parameters.
func placeholders(start int, args []any) (string, []any) {
	ps := make([]string, len(args))
	for i := range args {
		ps[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(ps, ","), args
}

func intArgs(ids []int) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
