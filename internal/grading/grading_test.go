package grading

import (
	"testing"

	"homeschool_hub_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func fourQuestions() []model.MultipleChoiceQuestion {
	qs := make([]model.MultipleChoiceQuestion, 4)
	for i := range qs {
		qs[i] = model.MultipleChoiceQuestion{
			Question:      "q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: i,
		}
	}
	return qs
}

func TestGrade_MultipleChoice(t *testing.T) {
	content := model.NewQuizContent(fourQuestions())

	tests := []struct {
		name    string
		answers []int
		correct int
		score   float64
	}{
		{"all correct", []int{0, 1, 2, 3}, 4, 100},
		{"first wrong", []int{1, 1, 2, 3}, 3, 75},
		{"missing answers count as wrong", []int{0, 1}, 2, 50},
		{"extra answers ignored", []int{0, 1, 2, 3, 0, 0}, 4, 100},
		{"no answers", nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Grade(content, model.SubmissionAnswers{MultipleChoice: tt.answers})
			assert.Equal(t, ChannelScore{Correct: tt.correct, Total: 4}, r.MultipleChoice)
			assert.InDelta(t, tt.score, r.Score, 1e-9)
		})
	}
}

func TestGrade_DragDrop(t *testing.T) {
	content := model.NewDragDropContent(model.DragDropPuzzle{
		Instructions: "match",
		Items:        []model.DragDropItem{{ID: "i1", Label: "one"}, {ID: "i2", Label: "two"}},
		Zones: []model.DragDropZone{
			{ID: "z1", Label: "first", CorrectItemID: "i1"},
			{ID: "z2", Label: "second", CorrectItemID: "i2"},
		},
	})

	r := Grade(content, model.SubmissionAnswers{DragDrop: map[string]string{"z1": "i1", "z2": "i9"}})
	assert.Equal(t, ChannelScore{Correct: 1, Total: 2}, r.DragDrop)
	assert.InDelta(t, 50.0, r.Score, 1e-9)

	r = Grade(content, model.SubmissionAnswers{})
	assert.Equal(t, ChannelScore{Correct: 0, Total: 2}, r.DragDrop)
	assert.Zero(t, r.Score)
}

func TestGrade_CodingIgnoresWhitespace(t *testing.T) {
	content := model.NewCodingContent(nil, []model.CodingExercise{
		{Prompt: "print hi", Language: "python", Answer: "print('hi')"},
		{Prompt: "heading", Language: "html", Answer: "<h1>Hi</h1>\n"},
	})

	r := Grade(content, model.SubmissionAnswers{Coding: []string{"  print( 'hi' )\n", "<h1>\tHi</h1>"}})
	assert.Equal(t, ChannelScore{Correct: 2, Total: 2}, r.Coding)

	r = Grade(content, model.SubmissionAnswers{Coding: []string{"PRINT('hi')"}})
	assert.Equal(t, ChannelScore{Correct: 0, Total: 2}, r.Coding)
}

func TestGrade_InteractiveWordsCaseInsensitive(t *testing.T) {
	content := model.NewLearnToReadContent(model.LearnToReadContent{
		Sentences: []string{"The cat sat.", "The dog ran.", "I see a hat.", "Mom is here.", "We can go."},
		Activities: []model.InteractiveWordActivity{
			{Instruction: "tap the animal", TargetWord: "cat", SentenceIndex: 0},
			{Instruction: "tap the animal", TargetWord: "dog", SentenceIndex: 1},
		},
	})

	r := Grade(content, model.SubmissionAnswers{InteractiveWords: []string{"CAT", "fox"}})
	assert.Equal(t, ChannelScore{Correct: 1, Total: 2}, r.InteractiveWord)
}

func TestGrade_SpellingTrimmedCaseInsensitive(t *testing.T) {
	content := model.NewSpellingContent(model.SpellingContent{
		Words: []string{"because", "friend"},
		Exercises: []model.SpellingExercise{
			{Type: model.SpellingTypingTest, Word: "because", Answer: "because"},
			{Type: model.SpellingFillBlank, Word: "friend", Answer: "friend"},
		},
	})

	r := Grade(content, model.SubmissionAnswers{Spelling: []string{" Because ", "freind"}})
	assert.Equal(t, ChannelScore{Correct: 1, Total: 2}, r.Spelling)
	assert.InDelta(t, 50.0, r.Score, 1e-9)
}

func TestGrade_EmptyContentScoresZero(t *testing.T) {
	r := Grade(model.Content{}, model.SubmissionAnswers{})
	assert.Zero(t, r.Total)
	assert.Zero(t, r.Score)
	assert.False(t, r.RewardEligible(DefaultRewardThreshold))
}

func TestGrade_ChannelsAreIndependent(t *testing.T) {
	content := model.NewCodingContent(fourQuestions(), []model.CodingExercise{
		{Prompt: "p", Language: "javascript", Answer: "let x = 1;"},
	})
	answers := model.SubmissionAnswers{MultipleChoice: []int{0, 1, 0, 0}, Coding: []string{"let x=1;"}}

	first := Grade(content, answers)
	answers.Coding = []string{"nope"}
	second := Grade(content, answers)

	assert.Equal(t, first.MultipleChoice, second.MultipleChoice)
	assert.Equal(t, 1, first.Coding.Correct)
	assert.Equal(t, 0, second.Coding.Correct)
	assert.InDelta(t, 60.0, first.Score, 1e-9)
	assert.InDelta(t, 40.0, second.Score, 1e-9)
}

func TestGrade_AllCorrectAcrossChannels(t *testing.T) {
	content := model.NewCodingContent(fourQuestions(), []model.CodingExercise{{Prompt: "p", Answer: "x"}})
	r := Grade(content, model.SubmissionAnswers{MultipleChoice: []int{0, 1, 2, 3}, Coding: []string{"x"}})
	assert.Equal(t, 5, r.Correct)
	assert.Equal(t, 5, r.Total)
	assert.Equal(t, 100.0, r.Score)
}

func TestResult_RewardEligible(t *testing.T) {
	assert.True(t, Result{Total: 20, Score: 85}.RewardEligible(DefaultRewardThreshold))
	assert.False(t, Result{Total: 20, Score: 84.999}.RewardEligible(DefaultRewardThreshold))
	assert.True(t, Result{Total: 1, Score: 100}.RewardEligible(DefaultRewardThreshold))
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "a=1;b=2;", NormalizeCode(" a = 1;\n\tb = 2;\r\n"))
}
