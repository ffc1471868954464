package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clepbridge/clepbridge/internal/match"
)

// PGStore serves the reference tables from a native pgx pool, passing id
// sets as array parameters.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

var (
	_ match.Source     = (*PGStore)(nil)
	_ match.ExamLister = (*PGStore)(nil)
)

func (s *PGStore) ListExams(ctx context.Context) ([]match.Exam, error) {
	rows, err := s.db.Query(ctx, `SELECT eid, name FROM exams ORDER BY eid`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (match.Exam, error) {
		var e match.Exam
		err := row.Scan(&e.ID, &e.Name)
		return e, err
	})
}

func (s *PGStore) FetchPolicies(ctx context.Context, examIDs []int) ([]match.AcceptancePolicy, error) {
	if len(examIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT msea_org_id, eid, cut_score, credits, related_course, last_updated
		  FROM acceptance
		 WHERE eid = ANY($1)
		 ORDER BY eid, msea_org_id`, int32s(examIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []match.AcceptancePolicy
	for rows.Next() {
		var (
			p       match.AcceptancePolicy
			course  pgtype.Text
			updated pgtype.Timestamptz
		)
		if err := rows.Scan(&p.InstitutionID, &p.ExamID, &p.CutScore, &p.Credits, &course, &updated); err != nil {
			return nil, err
		}
		p.RelatedCourse = course.String
		if updated.Valid {
			t := updated.Time.UTC()
			p.LastUpdated = &t
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PGStore) FetchInstitutions(ctx context.Context, orgIDs []string) ([]match.Institution, error) {
	if len(orgIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT `+institutionCols+` FROM institutions WHERE msea_org_id = ANY($1)`, orgIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []match.Institution
	for rows.Next() {
		var (
			i  match.Institution
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &i.OrgID, &i.Name, &i.City, &i.State, &i.Zip,
			&i.Enrollment, &i.MaxCredits, &i.TranscriptionFee, &i.ScoreValidityYears,
			&i.WebsiteURL, &i.CanUseForFailedCourses, &i.CanEnrolledStudentsUseCLEP); err != nil {
			return nil, err
		}
		if id.Valid {
			i.ID = uuid.NullUUID{UUID: uuid.UUID(id.Bytes), Valid: true}
		}
		if err := i.Validate(); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s *PGStore) FetchExamNames(ctx context.Context, examIDs []int) (map[int]string, error) {
	out := map[int]string{}
	if len(examIDs) == 0 {
		return out, nil
	}
	rows, err := s.db.Query(ctx, `SELECT eid, name FROM exams WHERE eid = ANY($1)`, int32s(examIDs))
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

func int32s(ids []int) []int32 {
	out := make([]int32, len(ids))
	for i, id := range ids {
		out[i] = int32(id)
	}
	return out
}
