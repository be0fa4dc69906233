package model

import (
	"encoding/json"
	"fmt"
)

// ContentKind says which answer channels an assignment carries.
type ContentKind string

const (
	KindQuiz        ContentKind = "quiz"
	KindReading     ContentKind = "reading"
	KindCoding      ContentKind = "coding"
	KindDragDrop    ContentKind = "drag_drop"
	KindLearnToRead ContentKind = "learn_to_read"
	KindSpelling    ContentKind = "spelling"
)

type MultipleChoiceQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

type CodingExercise struct {
	Prompt      string `json:"prompt"`
	Language    string `json:"language"`
	StarterCode string `json:"starterCode,omitempty"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
}

type DragDropItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type DragDropZone struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	CorrectItemID string `json:"correctItemId"`
}

type DragDropPuzzle struct {
	Instructions string         `json:"instructions"`
	Items        []DragDropItem `json:"items"`
	Zones        []DragDropZone `json:"zones"`
	Explanation  string         `json:"explanation,omitempty"`
}

type InteractiveWordActivity struct {
	Instruction   string `json:"instruction"`
	TargetWord    string `json:"targetWord"`
	SentenceIndex int    `json:"sentenceIndex"`
}

type LearnToReadContent struct {
	Sentences  []string                  `json:"sentences"`
	Activities []InteractiveWordActivity `json:"activities"`
}

type SpellingExerciseType string

const (
	SpellingTypingTest     SpellingExerciseType = "typing_test"
	SpellingFillBlank      SpellingExerciseType = "fill_blank"
	SpellingMultipleChoice SpellingExerciseType = "multiple_choice"
)

type SpellingExercise struct {
	Type     SpellingExerciseType `json:"type"`
	Word     string               `json:"word"`
	Sentence string               `json:"sentence"`
	Answer   string               `json:"answer"`
	Options  []string             `json:"options,omitempty"`
}

type SpellingContent struct {
	Words     []string           `json:"words"`
	Exercises []SpellingExercise `json:"exercises"`
}

// Content is the payload of an assignment. The kind fixes which channels
// may be populated; the constructors are the only way to build one, so a
// puzzle assignment can never carry multiple-choice questions by accident.
type Content struct {
	kind        ContentKind
	questions   []MultipleChoiceQuestion
	passage     string
	coding      []CodingExercise
	puzzle      *DragDropPuzzle
	learnToRead *LearnToReadContent
	spelling    *SpellingContent
}

func NewQuizContent(questions []MultipleChoiceQuestion) Content {
	return Content{kind: KindQuiz, questions: questions}
}

func NewReadingContent(passage string, questions []MultipleChoiceQuestion) Content {
	return Content{kind: KindReading, passage: passage, questions: questions}
}

// NewCodingContent carries concept questions alongside the exercises.
func NewCodingContent(questions []MultipleChoiceQuestion, exercises []CodingExercise) Content {
	return Content{kind: KindCoding, questions: questions, coding: exercises}
}

func NewDragDropContent(puzzle DragDropPuzzle) Content {
	return Content{kind: KindDragDrop, puzzle: &puzzle}
}

func NewLearnToReadContent(ltr LearnToReadContent) Content {
	return Content{kind: KindLearnToRead, learnToRead: &ltr}
}

func NewSpellingContent(sp SpellingContent) Content {
	return Content{kind: KindSpelling, spelling: &sp}
}

func (c Content) Kind() ContentKind { return c.kind }
func (c Content) Questions() []MultipleChoiceQuestion { return c.questions }
func (c Content) ReadingPassage() string { return c.passage }
func (c Content) CodingExercises() []CodingExercise { return c.coding }
func (c Content) Puzzle() *DragDropPuzzle { return c.puzzle }
func (c Content) LearnToRead() *LearnToReadContent { return c.learnToRead }
func (c Content) Spelling() *SpellingContent { return c.spelling }

// Gradable reports whether at least one answer channel has something to score.
func (c Content) Gradable() bool {
	if len(c.questions) > 0 || len(c.coding) > 0 {
		return true
	}
	if c.puzzle != nil && len(c.puzzle.Zones) > 0 {
		return true
	}
	if c.learnToRead != nil && len(c.learnToRead.Activities) > 0 {
		return true
	}
	return c.spelling != nil && len(c.spelling.Exercises) > 0
}

// WithoutAnswerKeys returns a copy safe to hand to a student before submission.
func (c Content) WithoutAnswerKeys() Content {
	out := Content{kind: c.kind, passage: c.passage}
	if c.questions != nil {
		out.questions = make([]MultipleChoiceQuestion, len(c.questions))
		for i, q := range c.questions {
			q.CorrectAnswer = -1
			out.questions[i] = q
		}
	}
	if c.coding != nil {
		out.coding = make([]CodingExercise, len(c.coding))
		for i, e := range c.coding {
			e.Answer = ""
			e.Explanation = ""
			out.coding[i] = e
		}
	}
	if c.puzzle != nil {
		p := *c.puzzle
		p.Zones = make([]DragDropZone, len(c.puzzle.Zones))
		for i, z := range c.puzzle.Zones {
			z.CorrectItemID = ""
			p.Zones[i] = z
		}
		p.Explanation = ""
		out.puzzle = &p
	}
	if c.learnToRead != nil {
		ltr := *c.learnToRead
		out.learnToRead = &ltr
	}
	if c.spelling != nil {
		// The word list and the word of a written exercise are the answer.
		// Typing tests keep the word so it can be read aloud.
		sp := SpellingContent{Exercises: make([]SpellingExercise, len(c.spelling.Exercises))}
		for i, e := range c.spelling.Exercises {
			e.Answer = ""
			if e.Type != SpellingTypingTest {
				e.Word = ""
			}
			sp.Exercises[i] = e
		}
		out.spelling = &sp
	}
	return out
}

type contentJSON struct {
	Kind            ContentKind              `json:"kind"`
	Questions       []MultipleChoiceQuestion `json:"questions,omitempty"`
	ReadingPassage  string                   `json:"readingPassage,omitempty"`
	CodingExercises []CodingExercise         `json:"codingExercises,omitempty"`
	Puzzle          *DragDropPuzzle          `json:"puzzle,omitempty"`
	LearnToRead     *LearnToReadContent      `json:"learnToRead,omitempty"`
	Spelling        *SpellingContent         `json:"spelling,omitempty"`
}

func (c Content) MarshalJSON() ([]byte, error) {
	return json.Marshal(contentJSON{
		Kind:            c.kind,
		Questions:       c.questions,
		ReadingPassage:  c.passage,
		CodingExercises: c.coding,
		Puzzle:          c.puzzle,
		LearnToRead:     c.learnToRead,
		Spelling:        c.spelling,
	})
}

// UnmarshalJSON rebuilds the content through its kind's constructor, so
// channels that the kind does not carry are dropped.
func (c *Content) UnmarshalJSON(data []byte) error {
	var raw contentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.Kind {
	case KindQuiz, "":
		*c = NewQuizContent(raw.Questions)
	case KindReading:
		*c = NewReadingContent(raw.ReadingPassage, raw.Questions)
	case KindCoding:
		*c = NewCodingContent(raw.Questions, raw.CodingExercises)
	case KindDragDrop:
		if raw.Puzzle == nil {
			return fmt.Errorf("drag_drop content without puzzle")
		}
		*c = NewDragDropContent(*raw.Puzzle)
	case KindLearnToRead:
		if raw.LearnToRead == nil {
			return fmt.Errorf("learn_to_read content without sentences")
		}
		*c = NewLearnToReadContent(*raw.LearnToRead)
	case KindSpelling:
		if raw.Spelling == nil {
			return fmt.Errorf("spelling content without exercises")
		}
		*c = NewSpellingContent(*raw.Spelling)
	default:
		return fmt.Errorf("unknown content kind %q", raw.Kind)
	}
	return nil
}
