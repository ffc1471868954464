package match

import (
	"sort"
	"strconv"
	"strings"
)

// RawScore is one submitted score, identified either by exam id or exam name.
// When both are present the id wins.
type RawScore struct {
	ExamID int        `json:"eid,omitempty"`
	Exam   string     `json:"exam,omitempty"`
	Score  ScoreValue `json:"score"`
}

func (r RawScore) scoreField() string {
	if r.ExamID != 0 {
		return "score_" + strconv.Itoa(r.ExamID)
	}
	return "score_" + r.Exam
}

// IntakeRequest is what a learner submits to search for matches.
type IntakeRequest struct {
	Entries []RawScore
	Zipcode string
	// Email is only present when intake runs inside the registration flow.
	Email string
}

// Intake normalizes submitted scores into exam-id keyed scores, checked
// against the exam reference table. A nil table disables name lookup and
// exam-id membership checks.
//
// Entries without a score are dropped. Any other problem is reported in a
// *ValidationError and no scores are returned.
func Intake(exams []Exam, req IntakeRequest) ([]LearnerExamScore, error) {
	byName := make(map[string]int, len(exams))
	known := make(map[int]bool, len(exams))
	for _, e := range exams {
		byName[e.Name] = e.ID
		known[e.ID] = true
	}

	errs := map[string]string{}
	if z := strings.TrimSpace(req.Zipcode); z != "" && !IsValidZip(z) {
		errs["zip"] = "ZIP must be 5 digits"
	}
	if m := strings.TrimSpace(req.Email); m != "" && !IsValidEmail(m) {
		errs["email"] = "Invalid email format"
	}

	scores := map[int]int{}
	var order []int
	for _, r := range req.Entries {
		if !r.Score.IsSet() {
			continue
		}

		id := r.ExamID
		switch {
		case id != 0:
			if id < 0 || (exams != nil && !known[id]) {
				errs["exam_"+strconv.Itoa(id)] = "Unknown exam"
				continue
			}
		case strings.TrimSpace(r.Exam) != "":
			eid, ok := byName[strings.TrimSpace(r.Exam)]
			if !ok {
				errs["exam_"+r.Exam] = "Unknown exam"
				continue
			}
			id = eid
		default:
			errs["exam"] = "Exam id or name is required"
			continue
		}

		n, ok := r.Score.Int()
		if !ok || !IsValidScore(n) {
			errs[r.scoreField()] = scoreRangeMsg
			continue
		}
		if _, seen := scores[id]; !seen {
			order = append(order, id)
		}
		scores[id] = n
	}

	if err := validationOrNil(errs); err != nil {
		return nil, err
	}

	out := make([]LearnerExamScore, 0, len(order))
	for _, id := range order {
		out = append(out, LearnerExamScore{ExamID: id, Score: scores[id]})
	}
	return out, nil
}

// EntriesFromNames turns a name -> score mapping into RawScore entries in
// name order.
func EntriesFromNames(m map[string]ScoreValue) []RawScore {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]RawScore, 0, len(names))
	for _, n := range names {
		out = append(out, RawScore{Exam: n, Score: m[n]})
	}
	return out
}
