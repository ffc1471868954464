package match

import "time"

const unknownExamName = "Unknown"

// Accepts reports whether an institution passes the geographic filter.
// Supplied fields must match exactly; empty fields match anything.
func (f GeoFilter) Accepts(inst Institution) bool {
	if f.Zipcode != "" && inst.Zip != f.Zipcode {
		return false
	}
	if f.State != "" && inst.State != f.State {
		return false
	}
	return true
}

// Enrich joins gated policies with institution and exam display data.
// Policies whose institution is not in insts are skipped.
func Enrich(gated []GatedPolicy, insts map[string]Institution, examNames map[int]string, f GeoFilter, now time.Time) []MatchResult {
	out := make([]MatchResult, 0, len(gated))
	for _, g := range gated {
		inst, ok := insts[g.InstitutionID]
		if !ok || !f.Accepts(inst) {
			continue
		}
		name, ok := examNames[g.ExamID]
		if !ok {
			name = unknownExamName
		}
		out = append(out, MatchResult{
			OrgID:                      inst.OrgID,
			Name:                       inst.Name,
			City:                       inst.City,
			State:                      inst.State,
			Zip:                        inst.Zip,
			ExamID:                     g.ExamID,
			ExamName:                   name,
			RequiredCut:                g.CutScore,
			LearnerScore:               g.LearnerScore,
			Credits:                    g.Credits,
			RelatedCourse:              g.RelatedCourse,
			LastUpdated:                g.LastUpdated,
			Freshness:                  Classify(g.LastUpdated, now),
			CanUseForFailedCourses:     inst.CanUseForFailedCourses,
			CanEnrolledStudentsUseCLEP: inst.CanEnrolledStudentsUseCLEP,
		})
	}
	return out
}

func distinctRefs(gated []GatedPolicy) (orgIDs []string, examIDs []int) {
	seenOrg := map[string]bool{}
	seenExam := map[int]bool{}
	for _, g := range gated {
		if !seenOrg[g.InstitutionID] {
			seenOrg[g.InstitutionID] = true
			orgIDs = append(orgIDs, g.InstitutionID)
		}
		if !seenExam[g.ExamID] {
			seenExam[g.ExamID] = true
			examIDs = append(examIDs, g.ExamID)
		}
	}
	return orgIDs, examIDs
}
