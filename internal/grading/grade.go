package grading

// Q is a minimal view of a canonical question needed for grading.
// Keep this in sync with whatever fields your store uses.
type Q struct {
	Prompt    string
	Options   []string
	AnswerKey []string
}

// Response is a single learner answer as submitted by the client.
type Response struct {
	Prompt   string
	Selected []string
}

// Result is the graded outcome of one submitted answer. Options and
// AnswerKey are copied from the canonical question at grading time so a
// stored submission stays reviewable even if the quiz changes later.
type Result struct {
	Prompt    string
	Options   []string
	Selected  []string
	AnswerKey []string
	Correct   bool
}

// Grade scores submitted responses against the canonical questions and
// returns the per-answer results plus the number of correct answers.
//
// Canonical questions are located by exact, case-sensitive prompt match. A
// response whose prompt matches no question is graded with an empty answer
// key and marked incorrect; grading is total and never fails on malformed
// or stale submissions.
//
// An answer is correct iff the selected set equals the answer-key set:
// same members regardless of order, no extras, no omissions. An empty
// selection (unattempted) is never correct.
func Grade(questions []Q, responses []Response) ([]Result, int) {
	byPrompt := make(map[string]int, len(questions))
	for i := range questions {
		if _, dup := byPrompt[questions[i].Prompt]; !dup {
			byPrompt[questions[i].Prompt] = i
		}
	}

	results := make([]Result, 0, len(responses))
	score := 0
	for _, resp := range responses {
		res := Result{Prompt: resp.Prompt, Selected: resp.Selected}
		if i, ok := byPrompt[resp.Prompt]; ok {
			res.Options = questions[i].Options
			res.AnswerKey = questions[i].AnswerKey
		}
		res.Correct = len(res.AnswerKey) > 0 && setEqual(toSet(resp.Selected), toSet(res.AnswerKey))
		if res.Correct {
			score++
		}
		results = append(results, res)
	}
	return results, score
}

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
