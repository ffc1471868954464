package match

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	zipRe   = regexp.MustCompile(`^\d{5}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func IsValidZip(zip string) bool     { return zipRe.MatchString(zip) }
func IsValidEmail(email string) bool { return emailRe.MatchString(email) }
func IsValidScore(score int) bool    { return score >= MinScore && score <= MaxScore }

// ScoreValue is a submitted score that may arrive as a JSON number, a
// numeric string, an empty string or null. Empty and null mean "not supplied".
type ScoreValue struct {
	raw string
	set bool
}

func Score(v int) ScoreValue { return ScoreValue{raw: strconv.Itoa(v), set: true} }

func ScoreText(s string) ScoreValue {
	s = strings.TrimSpace(s)
	return ScoreValue{raw: s, set: s != ""}
}

func (v ScoreValue) IsSet() bool { return v.set }

// Int returns the score and whether it is a well-formed integer.
func (v ScoreValue) Int() (int, bool) {
	if !v.set {
		return 0, false
	}
	n, err := strconv.Atoi(v.raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (v *ScoreValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ScoreValue{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = ScoreText(s)
		return nil
	}
	*v = ScoreValue{raw: string(b), set: true}
	return nil
}

func (v ScoreValue) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	if n, ok := v.Int(); ok {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(v.raw)
}

// Onboarding is the learner registration payload checked before a profile is
// created by the external account service.
type Onboarding struct {
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Zip    string     `json:"zip"`
	Scores []RawScore `json:"exams"`
}

// ValidateOnboarding returns a field -> message map; empty means valid.
func ValidateOnboarding(p Onboarding) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "Name is required"
	}

	email := strings.TrimSpace(p.Email)
	switch {
	case email == "":
		errs["email"] = "Email is required"
	case !IsValidEmail(email):
		errs["email"] = "Invalid email format"
	}

	if !IsValidZip(p.Zip) {
		errs["zip"] = "ZIP must be 5 digits"
	}

	for _, s := range p.Scores {
		if !s.Score.IsSet() {
			continue
		}
		if n, ok := s.Score.Int(); !ok || !IsValidScore(n) {
			errs[s.scoreField()] = scoreRangeMsg
		}
	}
	return errs
}

const scoreRangeMsg = "Score must be numeric between 20 and 80"
