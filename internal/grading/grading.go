// Package grading scores a submission against an assignment's content.
//
// Each of the five answer channels is scored on its own and contributes a
// correct/total pair. The overall score is the sum of correct answers over
// the sum of totals, as a percentage. Channels are always summed, whatever
// combination an assignment carries.
package grading

import (
	"strings"
	"unicode"

	"homeschool_hub_backend/internal/model"
)

// DefaultRewardThreshold is the score at or above which a submission earns points.
const DefaultRewardThreshold = 85.0

type ChannelScore struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

type Result struct {
	MultipleChoice  ChannelScore `json:"multipleChoice"`
	Coding          ChannelScore `json:"coding"`
	DragDrop        ChannelScore `json:"dragDrop"`
	InteractiveWord ChannelScore `json:"interactiveWord"`
	Spelling        ChannelScore `json:"spelling"`
	Correct         int          `json:"correct"`
	Total           int          `json:"total"`
	Score           float64      `json:"score"`
}

// RewardEligible reports whether the score reaches threshold.
func (r Result) RewardEligible(threshold float64) bool {
	return r.Total > 0 && r.Score >= threshold
}

// Grade never fails. Content with nothing to score yields a zero score.
func Grade(content model.Content, answers model.SubmissionAnswers) Result {
	r := Result{
		MultipleChoice:  gradeMultipleChoice(content.Questions(), answers.MultipleChoice),
		Coding:          gradeCoding(content.CodingExercises(), answers.Coding),
		DragDrop:        gradeDragDrop(content.Puzzle(), answers.DragDrop),
		InteractiveWord: gradeInteractiveWords(content.LearnToRead(), answers.InteractiveWords),
		Spelling:        gradeSpelling(content.Spelling(), answers.Spelling),
	}

	for _, ch := range []ChannelScore{r.MultipleChoice, r.Coding, r.DragDrop, r.InteractiveWord, r.Spelling} {
		r.Correct += ch.Correct
		r.Total += ch.Total
	}
	if r.Total > 0 {
		r.Score = float64(r.Correct) / float64(r.Total) * 100
	}
	return r
}

// gradeMultipleChoice counts every question toward the total. A question
// without a submitted answer is wrong; answers past the last question are ignored.
func gradeMultipleChoice(questions []model.MultipleChoiceQuestion, answers []int) ChannelScore {
	s := ChannelScore{Total: len(questions)}
	for i := 0; i < len(questions) && i < len(answers); i++ {
		if answers[i] == questions[i].CorrectAnswer {
			s.Correct++
		}
	}
	return s
}

func gradeCoding(exercises []model.CodingExercise, answers []string) ChannelScore {
	s := ChannelScore{Total: len(exercises)}
	for i := 0; i < len(exercises) && i < len(answers); i++ {
		if NormalizeCode(answers[i]) == NormalizeCode(exercises[i].Answer) {
			s.Correct++
		}
	}
	return s
}

func gradeDragDrop(puzzle *model.DragDropPuzzle, answers map[string]string) ChannelScore {
	if puzzle == nil {
		return ChannelScore{}
	}
	s := ChannelScore{Total: len(puzzle.Zones)}
	for _, zone := range puzzle.Zones {
		if placed, ok := answers[zone.ID]; ok && placed == zone.CorrectItemID {
			s.Correct++
		}
	}
	return s
}

func gradeInteractiveWords(ltr *model.LearnToReadContent, answers []string) ChannelScore {
	if ltr == nil {
		return ChannelScore{}
	}
	s := ChannelScore{Total: len(ltr.Activities)}
	for i := 0; i < len(ltr.Activities) && i < len(answers); i++ {
		if strings.EqualFold(strings.TrimSpace(answers[i]), strings.TrimSpace(ltr.Activities[i].TargetWord)) {
			s.Correct++
		}
	}
	return s
}

func gradeSpelling(sp *model.SpellingContent, answers []string) ChannelScore {
	if sp == nil {
		return ChannelScore{}
	}
	s := ChannelScore{Total: len(sp.Exercises)}
	for i := 0; i < len(sp.Exercises) && i < len(answers); i++ {
		if strings.EqualFold(strings.TrimSpace(answers[i]), strings.TrimSpace(sp.Exercises[i].Answer)) {
			s.Correct++
		}
	}
	return s
}

// NormalizeCode strips every whitespace rune, newlines and tabs included.
// Matching is textual only; nothing is executed.
func NormalizeCode(code string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, code)
}
