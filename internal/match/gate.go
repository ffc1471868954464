package match

// Gate keeps the policies whose cut score the learner meets or exceeds.
// Policies for exams the learner did not submit are dropped.
func Gate(policies []AcceptancePolicy, scores map[int]int) []GatedPolicy {
	out := make([]GatedPolicy, 0, len(policies))
	for _, p := range policies {
		s, ok := scores[p.ExamID]
		if !ok || s < p.CutScore {
			continue
		}
		out = append(out, GatedPolicy{AcceptancePolicy: p, LearnerScore: s})
	}
	return out
}

// scoreIndex builds exam id -> score (last write wins) and the distinct exam
// ids in first-seen order.
func scoreIndex(scores []LearnerExamScore) (map[int]int, []int) {
	m := make(map[int]int, len(scores))
	ids := make([]int, 0, len(scores))
	for _, s := range scores {
		if _, seen := m[s.ExamID]; !seen {
			ids = append(ids, s.ExamID)
		}
		m[s.ExamID] = s.Score
	}
	return m, ids
}
