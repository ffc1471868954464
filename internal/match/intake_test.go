package match_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/clepbridge/clepbridge/internal/match"
)

var examTable = []match.Exam{
	{ID: 7, Name: "College Algebra"},
	{ID: 14, Name: "Biology"},
	{ID: 20, Name: "Spanish Language"},
}

func TestIntake_ByNameAndID(t *testing.T) {
	got, err := match.Intake(examTable, match.IntakeRequest{Entries: []match.RawScore{
		{Exam: "Biology", Score: match.Score(55)},
		{ExamID: 7, Score: match.ScoreText("62")},
	}})
	if err != nil {
		t.Fatalf("Intake: %v", err)
	}
	want := []match.LearnerExamScore{{ExamID: 14, Score: 55}, {ExamID: 7, Score: 62}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestIntake_LastWriteWins(t *testing.T) {
	got, err := match.Intake(examTable, match.IntakeRequest{Entries: []match.RawScore{
		{ExamID: 14, Score: match.Score(40)},
		{ExamID: 7, Score: match.Score(50)},
		{Exam: "Biology", Score: match.Score(70)},
	}})
	if err != nil {
		t.Fatalf("Intake: %v", err)
	}
	want := []match.LearnerExamScore{{ExamID: 14, Score: 70}, {ExamID: 7, Score: 50}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestIntake_DropsUnsetScores(t *testing.T) {
	got, err := match.Intake(examTable, match.IntakeRequest{Entries: []match.RawScore{
		{Exam: "Biology"},
		{ExamID: 7, Score: match.ScoreText("  ")},
		{ExamID: 20, Score: match.Score(20)},
	}})
	if err != nil {
		t.Fatalf("Intake: %v", err)
	}
	if !reflect.DeepEqual(got, []match.LearnerExamScore{{ExamID: 20, Score: 20}}) {
		t.Fatalf("got %v", got)
	}
}

func TestIntake_ReportsFieldErrors(t *testing.T) {
	got, err := match.Intake(examTable, match.IntakeRequest{
		Zipcode: "1426",
		Entries: []match.RawScore{
			{Exam: "Biology", Score: match.Score(55)},
			{Exam: "Astrology", Score: match.Score(55)},
			{ExamID: 7, Score: match.Score(19)},
			{ExamID: 20, Score: match.ScoreText("sixty")},
			{ExamID: 99, Score: match.Score(50)},
		},
	})
	if got != nil {
		t.Fatalf("partial result returned: %v", got)
	}
	var ve *match.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	for _, k := range []string{"zip", "exam_Astrology", "score_7", "score_20", "exam_99"} {
		if _, ok := ve.Fields[k]; !ok {
			t.Errorf("missing field error %q in %v", k, ve.Fields)
		}
	}
	if _, ok := ve.Fields["score_Biology"]; ok {
		t.Errorf("valid entry reported: %v", ve.Fields)
	}
}

func TestIntake_NilTableAcceptsAnyID(t *testing.T) {
	got, err := match.Intake(nil, match.IntakeRequest{Entries: []match.RawScore{{ExamID: 38, Score: match.Score(80)}}})
	if err != nil {
		t.Fatalf("Intake: %v", err)
	}
	if !reflect.DeepEqual(got, []match.LearnerExamScore{{ExamID: 38, Score: 80}}) {
		t.Fatalf("got %v", got)
	}
}

func TestScoreValue_JSON(t *testing.T) {
	var body struct {
		Exams []match.RawScore `json:"exams"`
	}
	raw := `{"exams":[{"eid":1,"score":55},{"eid":2,"score":"61"},{"eid":3,"score":null},{"eid":4,"score":""},{"eid":5}]}`
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	wantSet := []bool{true, true, false, false, false}
	for i, e := range body.Exams {
		if e.Score.IsSet() != wantSet[i] {
			t.Errorf("entry %d: set=%v, want %v", i, e.Score.IsSet(), wantSet[i])
		}
	}
	if n, ok := body.Exams[1].Score.Int(); !ok || n != 61 {
		t.Errorf("string score: %d %v", n, ok)
	}
}

func TestValidateOnboarding(t *testing.T) {
	errs := match.ValidateOnboarding(match.Onboarding{
		Name:  "Ada",
		Email: "ada@example.edu",
		Zip:   "14260",
		Scores: []match.RawScore{
			{Exam: "Biology", Score: match.Score(55)},
			{Exam: "Spanish Language"},
		},
	})
	if len(errs) != 0 {
		t.Fatalf("want valid, got %v", errs)
	}

	errs = match.ValidateOnboarding(match.Onboarding{
		Email:  "ada@example",
		Zip:    "abcde",
		Scores: []match.RawScore{{Exam: "Biology", Score: match.Score(90)}},
	})
	want := map[string]string{
		"name":          "Name is required",
		"email":         "Invalid email format",
		"zip":           "ZIP must be 5 digits",
		"score_Biology": "Score must be numeric between 20 and 80",
	}
	if !reflect.DeepEqual(errs, want) {
		t.Fatalf("got %v, want %v", errs, want)
	}

	errs = match.ValidateOnboarding(match.Onboarding{Name: "Ada", Zip: "14260"})
	if errs["email"] != "Email is required" {
		t.Fatalf("got %v", errs)
	}
}

func TestValidators(t *testing.T) {
	for _, z := range []string{"14260", "02453"} {
		if !match.IsValidZip(z) {
			t.Errorf("zip %q rejected", z)
		}
	}
	for _, z := range []string{"1426", "142601", "1426a", "14260-1234", ""} {
		if match.IsValidZip(z) {
			t.Errorf("zip %q accepted", z)
		}
	}
	if !match.IsValidEmail("a.b@c.org") || match.IsValidEmail("a b@c.org") || match.IsValidEmail("a@c") {
		t.Errorf("email validation wrong")
	}
	if !match.IsValidScore(20) || !match.IsValidScore(80) || match.IsValidScore(19) || match.IsValidScore(81) {
		t.Errorf("score validation wrong")
	}
}
