package generation

import (
	"github.com/gokatarajesh/exam-engine/internal/actual"
	"github.com/gokatarajesh/exam-engine/internal/examerr"
	"github.com/gokatarajesh/exam-engine/internal/fodder"
)

// DistractorCount is the number of wrong options on a multiple-choice-4 actual.
const DistractorCount = 3

// eligibleDistractors returns the distinct item texts of a pool, minus the
// correct answer, in stored order.
func eligibleDistractors(items []fodder.Item, correct string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it.Text == correct {
			continue
		}
		if _, ok := seen[it.Text]; ok {
			continue
		}
		seen[it.Text] = struct{}{}
		out = append(out, it.Text)
	}
	return out
}

// sampleDistractors draws DistractorCount texts uniformly without replacement.
func sampleDistractors(src Source, poolID string, eligible []string) ([]string, error) {
	if len(eligible) < DistractorCount {
		return nil, &examerr.InsufficientFodderError{PoolID: poolID, Eligible: len(eligible), Required: DistractorCount}
	}
	picked := make([]string, 0, DistractorCount)
	for _, ix := range src.Perm(len(eligible))[:DistractorCount] {
		picked = append(picked, eligible[ix])
	}
	return picked, nil
}

// arrangeChoices lays out the correct text at position 0 and its distractors
// shuffled over 1..3. With shuffleCorrect every slot is shuffled instead.
func arrangeChoices(src Source, correct string, distractors []string, shuffleCorrect bool) []actual.Choice {
	choices := make([]actual.Choice, 0, len(distractors)+1)
	choices = append(choices, actual.Choice{Text: correct, IsCorrect: true})
	for _, d := range distractors {
		choices = append(choices, actual.Choice{Text: d})
	}

	shuffled := choices[1:]
	if shuffleCorrect {
		shuffled = choices
	}
	src.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	for i := range choices {
		choices[i].Position = i
	}
	return choices
}

func trueFalseChoices(correct *bool) []actual.Choice {
	choices := []actual.Choice{
		{Text: "True", Position: 0},
		{Text: "False", Position: 1},
	}
	if correct != nil {
		if *correct {
			choices[0].IsCorrect = true
		} else {
			choices[1].IsCorrect = true
		}
	}
	return choices
}
