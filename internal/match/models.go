package match

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	MinScore = 20
	MaxScore = 80
)

type Exam struct {
	ID   int    `json:"eid"`
	Name string `json:"name"`
}

// AcceptancePolicy is one institution's terms for awarding credit on an exam.
// InstitutionID is the organization key (msea_org_id), not the surrogate UUID.
type AcceptancePolicy struct {
	InstitutionID string     `json:"msea_org_id"`
	ExamID        int        `json:"eid"`
	CutScore      int        `json:"cut_score"`
	Credits       int        `json:"credits"`
	RelatedCourse string     `json:"related_course,omitempty"`
	LastUpdated   *time.Time `json:"last_updated,omitempty"`
}

func (p AcceptancePolicy) Validate() error {
	switch {
	case p.InstitutionID == "":
		return fmt.Errorf("acceptance policy: missing institution id (eid=%d)", p.ExamID)
	case p.ExamID <= 0:
		return fmt.Errorf("acceptance policy %s: invalid exam id %d", p.InstitutionID, p.ExamID)
	case p.CutScore < MinScore || p.CutScore > MaxScore:
		return fmt.Errorf("acceptance policy %s/%d: cut score %d outside [%d,%d]",
			p.InstitutionID, p.ExamID, p.CutScore, MinScore, MaxScore)
	case p.Credits < 0:
		return fmt.Errorf("acceptance policy %s/%d: negative credits %d", p.InstitutionID, p.ExamID, p.Credits)
	}
	return nil
}

type Institution struct {
	ID                         uuid.NullUUID `json:"id"`
	OrgID                      string        `json:"msea_org_id"`
	Name                       string        `json:"name"`
	City                       string        `json:"city"`
	State                      string        `json:"state"`
	Zip                        string        `json:"zip"`
	Enrollment                 int           `json:"enrollment"`
	MaxCredits                 int           `json:"max_credits"`
	TranscriptionFee           int           `json:"transcription_fee"`
	ScoreValidityYears         int           `json:"score_validity_years"`
	WebsiteURL                 string        `json:"website_url,omitempty"`
	CanUseForFailedCourses     bool          `json:"can_use_for_failed_courses"`
	CanEnrolledStudentsUseCLEP bool          `json:"can_enrolled_students_use_clep"`
}

func (i Institution) Validate() error {
	if i.OrgID == "" {
		return fmt.Errorf("institution %q: missing msea_org_id", i.Name)
	}
	return nil
}

type LearnerExamScore struct {
	ExamID int `json:"eid"`
	Score  int `json:"score"`
}

// GatedPolicy is a policy the learner's score satisfied.
type GatedPolicy struct {
	AcceptancePolicy
	LearnerScore int
}

type GeoFilter struct {
	Zipcode string
	State   string
}

type MatchResult struct {
	OrgID                      string     `json:"msea_org_id"`
	Name                       string     `json:"name"`
	City                       string     `json:"city"`
	State                      string     `json:"state"`
	Zip                        string     `json:"zip"`
	ExamID                     int        `json:"eid"`
	ExamName                   string     `json:"exam_name"`
	RequiredCut                int        `json:"required_cut"`
	LearnerScore               int        `json:"learner_score"`
	Credits                    int        `json:"credits"`
	RelatedCourse              string     `json:"related_course"`
	LastUpdated                *time.Time `json:"last_updated"`
	Freshness                  Freshness  `json:"freshness"`
	CanUseForFailedCourses     bool       `json:"can_use_for_failed_courses"`
	CanEnrolledStudentsUseCLEP bool       `json:"can_enrolled_students_use_clep"`
}
