// Package match finds institutions whose CLEP acceptance policies a learner's
// exam scores satisfy.
//
// A search runs three stages: Intake normalizes submitted scores, Gate keeps
// the policies whose cut score is met, and Enrich attaches institution and
// exam data, applies the geographic filter and classifies freshness. The
// Engine chains Gate and Enrich over a Source.
package match

import (
	"context"
	"strconv"
	"time"
)

// Source is the read-only view of the reference tables the engine needs.
// Each call is a single bulk read.
type Source interface {
	FetchPolicies(ctx context.Context, examIDs []int) ([]AcceptancePolicy, error)
	FetchInstitutions(ctx context.Context, orgIDs []string) ([]Institution, error)
	FetchExamNames(ctx context.Context, examIDs []int) (map[int]string, error)
}

// ExamLister lists the exam reference table, used by Intake for name lookup.
type ExamLister interface {
	ListExams(ctx context.Context) ([]Exam, error)
}

type Engine struct {
	src Source
	now func() time.Time
}

type Option func(*Engine)

// WithClock overrides the time source used for freshness.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(src Source, opts ...Option) *Engine {
	e := &Engine{src: src, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Match returns one result per (policy, institution) pair the learner
// qualifies for. Results follow policy fetch order. The returned slice is
// never nil on success.
func (e *Engine) Match(ctx context.Context, scores []LearnerExamScore, f GeoFilter) ([]MatchResult, error) {
	if err := checkScores(scores); err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return []MatchResult{}, nil
	}

	scoreMap, examIDs := scoreIndex(scores)
	policies, err := e.src.FetchPolicies(ctx, examIDs)
	if err != nil {
		return nil, &DataSourceError{Op: "fetch policies", Err: err}
	}

	gated := Gate(policies, scoreMap)
	if len(gated) == 0 {
		return []MatchResult{}, nil
	}

	orgIDs, gatedExams := distinctRefs(gated)
	instRows, err := e.src.FetchInstitutions(ctx, orgIDs)
	if err != nil {
		return nil, &DataSourceError{Op: "fetch institutions", Err: err}
	}
	names, err := e.src.FetchExamNames(ctx, gatedExams)
	if err != nil {
		return nil, &DataSourceError{Op: "fetch exam names", Err: err}
	}

	insts := make(map[string]Institution, len(instRows))
	for _, i := range instRows {
		insts[i.OrgID] = i
	}
	return Enrich(gated, insts, names, f, e.now()), nil
}

// checkScores rejects out-of-range scores handed to Match directly without
// going through Intake.
func checkScores(scores []LearnerExamScore) error {
	errs := map[string]string{}
	for _, s := range scores {
		key := "score_" + strconv.Itoa(s.ExamID)
		if s.ExamID <= 0 {
			errs["exam_"+strconv.Itoa(s.ExamID)] = "Unknown exam"
			continue
		}
		if !IsValidScore(s.Score) {
			errs[key] = scoreRangeMsg
		}
	}
	return validationOrNil(errs)
}
