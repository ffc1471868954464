package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/clepbridge/clepbridge/internal/match"
)

// scoreFlags collects repeated -score exam=score values.
type scoreFlags []match.RawScore

func (s *scoreFlags) String() string {
	parts := make([]string, 0, len(*s))
	for _, r := range *s {
		key := r.Exam
		if r.ExamID != 0 {
			key = strconv.Itoa(r.ExamID)
		}
		b, _ := r.Score.MarshalJSON()
		parts = append(parts, key+"="+strings.Trim(string(b), `"`))
	}
	return strings.Join(parts, ",")
}

func (s *scoreFlags) Set(v string) error {
	exam, score, ok := strings.Cut(v, "=")
	exam = strings.TrimSpace(exam)
	if !ok || exam == "" {
		return errors.New(`want exam=score, e.g. 14=55 or "Biology=55"`)
	}
	r := match.RawScore{Score: match.ScoreText(score)}
	if id, err := strconv.Atoi(exam); err == nil {
		r.ExamID = id
	} else {
		r.Exam = exam
	}
	*s = append(*s, r)
	return nil
}

var freshnessColor = map[match.Freshness]func(a ...interface{}) string{
	match.Fresh: color.New(color.FgGreen).SprintFunc(),
	match.Stale: color.New(color.FgYellow).SprintFunc(),
	match.Old:   color.New(color.FgRed).SprintFunc(),
}

func renderTable(w io.Writer, results []match.MatchResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Institution", "City", "State", "Exam", "Cut", "Score", "Credits", "Course", "Updated", "Freshness"})

	for _, r := range results {
		updated := "-"
		if r.LastUpdated != nil {
			updated = r.LastUpdated.Format("2006-01-02")
		}
		paint := freshnessColor[r.Freshness]
		if paint == nil {
			paint = fmt.Sprint
		}
		table.Append([]string{
			r.Name,
			r.City,
			r.State,
			fmt.Sprintf("%s (%d)", r.ExamName, r.ExamID),
			strconv.Itoa(r.RequiredCut),
			strconv.Itoa(r.LearnerScore),
			strconv.Itoa(r.Credits),
			r.RelatedCourse,
			updated,
			paint(string(r.Freshness)),
		})
	}
	table.Render()
}
