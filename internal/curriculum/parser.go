package curriculum

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"homeschool_hub_backend/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ParseOutcome is the parser's result plus why it fell back, if it did.
type ParseOutcome struct {
	Content  model.Content
	Fallback bool
	Reason   string
}

// Parse turns raw model output into content for the strategy. It never
// fails: anything it cannot use becomes the strategy's fallback content.
func Parse(raw string, s Strategy, topic string) model.Content {
	return ParseDetailed(raw, s, topic).Content
}

func ParseDetailed(raw string, s Strategy, topic string) ParseOutcome {
	content, err := parse(raw, s)
	if err != nil {
		return ParseOutcome{Content: s.Fallback(topic), Fallback: true, Reason: err.Error()}
	}
	return ParseOutcome{Content: content}
}

var errNoObject = errors.New("no JSON object in response")

func parse(raw string, s Strategy) (model.Content, error) {
	body, ok := ExtractObject(raw)
	if !ok {
		return model.Content{}, errNoObject
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(body))
	if err != nil {
		return model.Content{}, fmt.Errorf("decode: %w", err)
	}
	if err := checkShape(s.Kind, doc); err != nil {
		return model.Content{}, fmt.Errorf("shape: %w", err)
	}

	sh := newShape(s.Kind)
	if err := json.Unmarshal([]byte(body), sh); err != nil {
		return model.Content{}, fmt.Errorf("decode: %w", err)
	}
	if err := validate.Struct(sh); err != nil {
		return model.Content{}, fmt.Errorf("invalid content: %w", err)
	}

	content := sh.content(s)
	if !content.Gradable() {
		return model.Content{}, errors.New("nothing gradable in response")
	}
	return content, nil
}

// ExtractObject slices raw from its first '{' to its last '}'.
func ExtractObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

type shape interface {
	content(s Strategy) model.Content
}

func newShape(kind model.ContentKind) shape {
	switch kind {
	case model.KindReading:
		return &readingShape{}
	case model.KindCoding:
		return &codingShape{}
	case model.KindDragDrop:
		return &dragDropShape{}
	case model.KindLearnToRead:
		return &learnToReadShape{}
	case model.KindSpelling:
		return &spellingShape{}
	default:
		return &quizShape{}
	}
}

type wireQuestion struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"len=4,dive,required"`
	CorrectAnswer int      `json:"correct_answer" validate:"min=0,max=3"`
}

func questions(in []wireQuestion) []model.MultipleChoiceQuestion {
	if len(in) == 0 {
		return nil
	}
	out := make([]model.MultipleChoiceQuestion, len(in))
	for i, q := range in {
		out[i] = model.MultipleChoiceQuestion{
			Question:      strings.TrimSpace(q.Question),
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		}
	}
	return out
}

type quizShape struct {
	Questions []wireQuestion `json:"questions" validate:"min=1,dive"`
}

func (q *quizShape) content(Strategy) model.Content {
	return model.NewQuizContent(questions(q.Questions))
}

type readingShape struct {
	Passage   string         `json:"reading_passage" validate:"required"`
	Questions []wireQuestion `json:"questions" validate:"min=1,dive"`
}

func (r *readingShape) content(Strategy) model.Content {
	return model.NewReadingContent(strings.TrimSpace(r.Passage), questions(r.Questions))
}

type wireCodingExercise struct {
	Prompt      string `json:"prompt" validate:"required"`
	Language    string `json:"language"`
	StarterCode string `json:"starter_code"`
	Answer      string `json:"answer" validate:"required"`
	Explanation string `json:"explanation"`
}

type codingShape struct {
	Questions []wireQuestion       `json:"questions" validate:"omitempty,dive"`
	Exercises []wireCodingExercise `json:"coding_exercises" validate:"min=1,dive"`
}

// content pins every exercise to the strategy's language.
func (c *codingShape) content(s Strategy) model.Content {
	exercises := make([]model.CodingExercise, len(c.Exercises))
	for i, e := range c.Exercises {
		lang := s.Language
		if lang == "" {
			lang = strings.ToLower(strings.TrimSpace(e.Language))
		}
		exercises[i] = model.CodingExercise{
			Prompt:      strings.TrimSpace(e.Prompt),
			Language:    lang,
			StarterCode: e.StarterCode,
			Answer:      e.Answer,
			Explanation: e.Explanation,
		}
	}
	return model.NewCodingContent(questions(c.Questions), exercises)
}

type wireItem struct {
	ID    string `json:"id" validate:"required"`
	Label string `json:"label" validate:"required"`
}

type wireZone struct {
	ID            string `json:"id" validate:"required"`
	Label         string `json:"label" validate:"required"`
	CorrectItemID string `json:"correct_item_id" validate:"required"`
}

type wirePuzzle struct {
	Instructions string     `json:"instructions"`
	Items        []wireItem `json:"items" validate:"min=1,unique=ID,dive"`
	Zones        []wireZone `json:"zones" validate:"min=1,unique=ID,dive"`
	Explanation  string     `json:"explanation"`
}

type dragDropShape struct {
	Puzzle wirePuzzle `json:"puzzle"`
}

func (d *dragDropShape) content(Strategy) model.Content {
	p := model.DragDropPuzzle{
		Instructions: strings.TrimSpace(d.Puzzle.Instructions),
		Explanation:  d.Puzzle.Explanation,
		Items:        make([]model.DragDropItem, len(d.Puzzle.Items)),
		Zones:        make([]model.DragDropZone, len(d.Puzzle.Zones)),
	}
	for i, it := range d.Puzzle.Items {
		p.Items[i] = model.DragDropItem{ID: it.ID, Label: it.Label}
	}
	for i, z := range d.Puzzle.Zones {
		p.Zones[i] = model.DragDropZone{ID: z.ID, Label: z.Label, CorrectItemID: z.CorrectItemID}
	}
	return model.NewDragDropContent(p)
}

type wireActivity struct {
	Instruction   string `json:"instruction"`
	TargetWord    string `json:"target_word" validate:"required"`
	SentenceIndex int    `json:"sentence_index" validate:"min=0"`
}

type learnToReadShape struct {
	Sentences  []string       `json:"sentences" validate:"min=5,max=7,dive,required"`
	Activities []wireActivity `json:"activities" validate:"min=1,dive"`
}

func (l *learnToReadShape) content(Strategy) model.Content {
	activities := make([]model.InteractiveWordActivity, len(l.Activities))
	for i, a := range l.Activities {
		activities[i] = model.InteractiveWordActivity{
			Instruction:   strings.TrimSpace(a.Instruction),
			TargetWord:    strings.TrimSpace(a.TargetWord),
			SentenceIndex: a.SentenceIndex,
		}
	}
	return model.NewLearnToReadContent(model.LearnToReadContent{
		Sentences:  l.Sentences,
		Activities: activities,
	})
}

type wireSpellingExercise struct {
	Type     string   `json:"type" validate:"oneof=typing_test fill_blank multiple_choice"`
	Word     string   `json:"word" validate:"required"`
	Sentence string   `json:"sentence"`
	Answer   string   `json:"answer" validate:"required"`
	Options  []string `json:"options" validate:"omitempty,min=2,dive,required"`
}

type spellingShape struct {
	Words     []string               `json:"spelling_words" validate:"omitempty,dive,required"`
	Exercises []wireSpellingExercise `json:"spelling_exercises" validate:"min=1,dive"`
}

// content derives the word list from the exercises when the reply has none.
func (sp *spellingShape) content(Strategy) model.Content {
	out := model.SpellingContent{
		Words:     sp.Words,
		Exercises: make([]model.SpellingExercise, len(sp.Exercises)),
	}
	for i, e := range sp.Exercises {
		out.Exercises[i] = model.SpellingExercise{
			Type:     model.SpellingExerciseType(e.Type),
			Word:     strings.TrimSpace(e.Word),
			Sentence: e.Sentence,
			Answer:   strings.TrimSpace(e.Answer),
			Options:  e.Options,
		}
	}
	if len(out.Words) == 0 {
		for _, e := range out.Exercises {
			out.Words = append(out.Words, e.Word)
		}
	}
	return model.NewSpellingContent(out)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validatePuzzleRefs, wirePuzzle{})
	v.RegisterStructValidation(validateSentenceRefs, learnToReadShape{})
	v.RegisterStructValidation(validateSpellingOptions, wireSpellingExercise{})
	return v
}

func validateSpellingOptions(sl validator.StructLevel) {
	e := sl.Current().Interface().(wireSpellingExercise)
	if e.Type == string(model.SpellingMultipleChoice) && len(e.Options) == 0 {
		sl.ReportError(e.Options, "Options", "Options", "required_for_choice", "")
	}
}

// validatePuzzleRefs requires every zone to name an item of the puzzle.
func validatePuzzleRefs(sl validator.StructLevel) {
	p := sl.Current().Interface().(wirePuzzle)
	items := make(map[string]bool, len(p.Items))
	for _, it := range p.Items {
		items[it.ID] = true
	}
	for i, z := range p.Zones {
		if !items[z.CorrectItemID] {
			sl.ReportError(p.Zones[i].CorrectItemID, fmt.Sprintf("Zones[%d].CorrectItemID", i), "CorrectItemID", "itemref", "")
		}
	}
}

// validateSentenceRefs requires every activity to point at an existing sentence.
func validateSentenceRefs(sl validator.StructLevel) {
	l := sl.Current().Interface().(learnToReadShape)
	for i, a := range l.Activities {
		if a.SentenceIndex >= len(l.Sentences) {
			sl.ReportError(a.SentenceIndex, fmt.Sprintf("Activities[%d].SentenceIndex", i), "SentenceIndex", "sentenceref", "")
		}
	}
}
