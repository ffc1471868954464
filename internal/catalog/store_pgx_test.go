package catalog_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/clepbridge/clepbridge/internal/catalog"
	"github.com/clepbridge/clepbridge/internal/db"
	"github.com/clepbridge/clepbridge/internal/match"
)

// Runs against a throwaway Postgres database when CLEP_TEST_PG_DSN is set.
// The tables are truncated before seeding.
func TestPGStore_Integration(t *testing.T) {
	dsn := os.Getenv("CLEP_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("CLEP_TEST_PG_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.OpenPool(ctx, dsn)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, `
TRUNCATE acceptance, institutions, exams;
INSERT INTO exams (eid,name) VALUES (7,'College Algebra'),(14,'Biology');
INSERT INTO institutions (id,msea_org_id,name,city,state,zip,can_use_for_failed_courses)
VALUES ('149fcabb-3d3b-46de-bf3c-9c368a120d1c','ipeds-196130','SUNY Buffalo','Buffalo','NY','14260',TRUE);
INSERT INTO acceptance (msea_org_id,eid,cut_score,credits,related_course,last_updated)
VALUES ('ipeds-196130',14,50,3,'BIO 102', now() - interval '10 days'),
       ('ipeds-196130',7,60,3,NULL,NULL);`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s := catalog.NewPGStore(pool)

	exams, err := s.ListExams(ctx)
	if err != nil || len(exams) != 2 {
		t.Fatalf("ListExams: %v %v", exams, err)
	}

	res, err := match.NewEngine(s).Match(ctx, []match.LearnerExamScore{{ExamID: 14, Score: 55}, {ExamID: 7, Score: 55}}, match.GeoFilter{})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(res) != 1 || res[0].Freshness != match.Fresh || res[0].ExamName != "Biology" || !res[0].CanUseForFailedCourses {
		t.Fatalf("res = %+v", res)
	}

	insts, err := s.FetchInstitutions(ctx, []string{"ipeds-196130"})
	if err != nil || len(insts) != 1 || !insts[0].ID.Valid {
		t.Fatalf("FetchInstitutions: %+v %v", insts, err)
	}
}
