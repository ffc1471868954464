package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/clepbridge/clepbridge/internal/match"
	"github.com/clepbridge/clepbridge/internal/rbac"
)

// MountLearners registers the learner search routes on r. The caller is
// expected to have installed the JWT middleware.
func MountLearners(r chi.Router, eng *match.Engine, exams match.ExamLister) {
	r.With(rbac.Require(rbac.PermExamList)).
		Get("/exams", ListExamsHandler(exams))
	r.With(rbac.Require(rbac.PermMatchSearch)).
		Post("/matches", MatchHandler(eng, exams))
	r.With(rbac.RequireAny(rbac.PermIntakeCheck, rbac.PermMatchSearch)).
		Post("/onboarding/validate", ValidateOnboardingHandler())
}

func ListExamsHandler(exams match.ExamLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := exams.ListExams(r.Context())
		if err != nil {
			writeMatchError(w, r, &match.DataSourceError{Op: "list exams", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

type matchRequest struct {
	// Exams identifies scores by eid (or by name via "exam").
	Exams []match.RawScore `json:"exams"`
	// Scores is the onboarding form shape: exam name -> score.
	Scores  map[string]match.ScoreValue `json:"scores"`
	Zipcode string                      `json:"zipcode"`
	State   string                      `json:"state"`
}

// POST /learners/matches
func MatchHandler(eng *match.Engine, exams match.ExamLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req matchRequest
		if !decodeBody(w, r, &req) {
			return
		}

		entries := append(match.EntriesFromNames(req.Scores), req.Exams...)
		var table []match.Exam
		if exams != nil && len(entries) > 0 {
			var err error
			if table, err = exams.ListExams(r.Context()); err != nil {
				writeMatchError(w, r, &match.DataSourceError{Op: "list exams", Err: err})
				return
			}
			if len(table) == 0 {
				// unseeded reference table: accept ids as given
				table = nil
			}
		}

		zip := strings.TrimSpace(req.Zipcode)
		scores, err := match.Intake(table, match.IntakeRequest{Entries: entries, Zipcode: zip})
		if err != nil {
			writeMatchError(w, r, err)
			return
		}

		results, err := eng.Match(r.Context(), scores, match.GeoFilter{
			Zipcode: zip,
			State:   strings.TrimSpace(req.State),
		})
		if err != nil {
			writeMatchError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

// POST /learners/onboarding/validate
func ValidateOnboardingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req match.Onboarding
		if !decodeBody(w, r, &req) {
			return
		}
		if errs := match.ValidateOnboarding(req); len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, fieldErrors{Error: "validation failed", Fields: errs})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
	}
}
