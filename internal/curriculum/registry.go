// Package curriculum decides how an assignment is generated for a subject.
//
// A Registry maps a subject, and for leveled subjects a sub-level, to a
// Strategy: the prompt to send, the JSON shape the reply must have, and the
// fallback content used when generation fails. Resolve never fails; anything
// it does not know gets the generic multiple-choice strategy.
package curriculum

import (
	"fmt"
	"strings"

	"homeschool_hub_backend/internal/model"
)

const GenericKey = "generic"

// PromptInput is everything a strategy needs to build its prompt.
type PromptInput struct {
	Subject       string
	GradeLevel    string
	Topic         string
	VideoURL      string
	SpellingWords []string
}

type Strategy struct {
	Key  string
	Kind model.ContentKind
	// Language is the coding language tag for coding strategies.
	Language string
	// Focus is a short description of what the questions cover.
	Focus  string
	prompt func(s Strategy, in PromptInput) string
}

func (s Strategy) Prompt(in PromptInput) string {
	return s.prompt(s, in)
}

// Fallback is the same single generic question for every strategy.
func (s Strategy) Fallback(topic string) model.Content {
	return FallbackContent(topic)
}

func (s Strategy) Schema() map[string]any {
	return schemaFor(s.Kind)
}

func (s Strategy) IsGeneric() bool {
	return s.Key == GenericKey
}

// FallbackContent is always gradable: one question, first option correct.
func FallbackContent(topic string) model.Content {
	return model.NewQuizContent([]model.MultipleChoiceQuestion{
		{
			Question:      fmt.Sprintf("What is an important concept in %s?", topic),
			Options:       []string{"Option A", "Option B", "Option C", "Option D"},
			CorrectAnswer: 0,
		},
	})
}

type subjectEntry struct {
	base   *Strategy
	levels map[int]Strategy
}

type Registry struct {
	subjects map[string]*subjectEntry
	generic  Strategy
}

// NewRegistry returns a registry loaded with the built-in curriculum.
func NewRegistry() *Registry {
	r := &Registry{
		subjects: make(map[string]*subjectEntry),
		generic:  genericStrategy,
	}
	for _, d := range defaultStrategies {
		for _, subject := range d.subjects {
			if d.level == 0 {
				r.Register(subject, d.strategy)
			} else {
				r.RegisterLevel(subject, d.level, d.strategy)
			}
		}
	}
	return r
}

// Register binds a strategy to a subject that has no sub-levels.
func (r *Registry) Register(subject string, s Strategy) {
	e := r.entry(subject)
	e.base = &s
}

// RegisterLevel binds a strategy to one sub-level of a leveled subject.
func (r *Registry) RegisterLevel(subject string, level int, s Strategy) {
	e := r.entry(subject)
	if e.levels == nil {
		e.levels = make(map[int]Strategy)
	}
	e.levels[level] = s
}

func (r *Registry) entry(subject string) *subjectEntry {
	key := normalizeSubject(subject)
	e, ok := r.subjects[key]
	if !ok {
		e = &subjectEntry{}
		r.subjects[key] = e
	}
	return e
}

// Resolve picks the strategy for subject and subLevel. Leveled subjects need
// a known sub-level; other subjects ignore it.
func (r *Registry) Resolve(subject string, subLevel *int) Strategy {
	e, ok := r.subjects[normalizeSubject(subject)]
	if !ok {
		return r.generic
	}

	if len(e.levels) > 0 {
		if subLevel != nil {
			if s, ok := e.levels[*subLevel]; ok {
				return s
			}
		}
		if e.base != nil {
			return *e.base
		}
		return r.generic
	}

	if e.base != nil {
		return *e.base
	}
	return r.generic
}

// Subjects lists the registered subject keys.
func (r *Registry) Subjects() []string {
	out := make([]string, 0, len(r.subjects))
	for k := range r.subjects {
		out = append(out, k)
	}
	return out
}

func normalizeSubject(subject string) string {
	return strings.Join(strings.Fields(strings.ToLower(subject)), " ")
}

var genericStrategy = Strategy{
	Key:    GenericKey,
	Kind:   model.KindQuiz,
	prompt: genericPrompt,
}

var codingSubjects = []string{"learn to code", "skill building", "skill-building"}

var defaultStrategies = []struct {
	subjects []string
	level    int
	strategy Strategy
}{
	{codingSubjects, 1, Strategy{Key: "code-1-concepts", Kind: model.KindQuiz, Focus: "programming concepts without writing code", prompt: conceptPrompt}},
	{codingSubjects, 2, Strategy{Key: "code-2-html", Kind: model.KindCoding, Language: "html", Focus: "HTML markup", prompt: codingPrompt}},
	{codingSubjects, 3, Strategy{Key: "code-3-javascript", Kind: model.KindCoding, Language: "javascript", Focus: "JavaScript scripting", prompt: codingPrompt}},
	{codingSubjects, 4, Strategy{Key: "code-4-python", Kind: model.KindCoding, Language: "python", Focus: "Python programming", prompt: codingPrompt}},
	{[]string{"reading"}, 0, Strategy{Key: "reading", Kind: model.KindReading, prompt: readingPrompt}},
	{[]string{"learning to read"}, 0, Strategy{Key: "learning-to-read", Kind: model.KindLearnToRead, prompt: learnToReadPrompt}},
	{[]string{"critical thinking skills", "critical thinking"}, 0, Strategy{Key: "critical-thinking", Kind: model.KindDragDrop, prompt: dragDropPrompt}},
	{[]string{"spelling"}, 0, Strategy{Key: "spelling", Kind: model.KindSpelling, prompt: spellingPrompt}},
}
