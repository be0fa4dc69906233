package curriculum

import (
	"encoding/json"
	"fmt"
	"sync"

	"homeschool_hub_backend/internal/model"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schemas only check structure: field presence and JSON types. Counts and
// cross references are checked after decoding.

var questionSchema = map[string]any{
	"type":     "object",
	"required": []any{"question", "options", "correct_answer"},
	"properties": map[string]any{
		"question":       map[string]any{"type": "string"},
		"options":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"correct_answer": map[string]any{"type": "integer"},
	},
}

var questionsProperty = map[string]any{"type": "array", "items": questionSchema}

var kindSchemas = map[model.ContentKind]map[string]any{
	model.KindQuiz: {
		"type":       "object",
		"required":   []any{"questions"},
		"properties": map[string]any{"questions": questionsProperty},
	},
	model.KindReading: {
		"type":     "object",
		"required": []any{"reading_passage", "questions"},
		"properties": map[string]any{
			"reading_passage": map[string]any{"type": "string"},
			"questions":       questionsProperty,
		},
	},
	model.KindCoding: {
		"type":     "object",
		"required": []any{"coding_exercises"},
		"properties": map[string]any{
			"questions": questionsProperty,
			"coding_exercises": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"prompt", "answer"},
					"properties": map[string]any{
						"prompt":       map[string]any{"type": "string"},
						"language":     map[string]any{"type": "string"},
						"starter_code": map[string]any{"type": "string"},
						"answer":       map[string]any{"type": "string"},
						"explanation":  map[string]any{"type": "string"},
					},
				},
			},
		},
	},
	model.KindDragDrop: {
		"type":     "object",
		"required": []any{"puzzle"},
		"properties": map[string]any{
			"puzzle": map[string]any{
				"type":     "object",
				"required": []any{"items", "zones"},
				"properties": map[string]any{
					"instructions": map[string]any{"type": "string"},
					"explanation":  map[string]any{"type": "string"},
					"items": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":     "object",
							"required": []any{"id", "label"},
							"properties": map[string]any{
								"id":    map[string]any{"type": "string"},
								"label": map[string]any{"type": "string"},
							},
						},
					},
					"zones": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":     "object",
							"required": []any{"id", "label", "correct_item_id"},
							"properties": map[string]any{
								"id":              map[string]any{"type": "string"},
								"label":           map[string]any{"type": "string"},
								"correct_item_id": map[string]any{"type": "string"},
							},
						},
					},
				},
			},
		},
	},
	model.KindLearnToRead: {
		"type":     "object",
		"required": []any{"sentences", "activities"},
		"properties": map[string]any{
			"sentences": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"activities": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"target_word", "sentence_index"},
					"properties": map[string]any{
						"instruction":    map[string]any{"type": "string"},
						"target_word":    map[string]any{"type": "string"},
						"sentence_index": map[string]any{"type": "integer"},
					},
				},
			},
		},
	},
	model.KindSpelling: {
		"type":     "object",
		"required": []any{"spelling_exercises"},
		"properties": map[string]any{
			"spelling_words": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"spelling_exercises": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"type", "word", "answer"},
					"properties": map[string]any{
						"type":     map[string]any{"type": "string"},
						"word":     map[string]any{"type": "string"},
						"sentence": map[string]any{"type": "string"},
						"answer":   map[string]any{"type": "string"},
						"options":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
				},
			},
		},
	},
}

func schemaFor(kind model.ContentKind) map[string]any {
	if s, ok := kindSchemas[kind]; ok {
		return s
	}
	return kindSchemas[model.KindQuiz]
}

// compiledSchemas caches compiled schemas by content kind.
var compiledSchemas sync.Map // map[model.ContentKind]*jsonschema.Schema

func compiledSchema(kind model.ContentKind) (*jsonschema.Schema, error) {
	if cached, ok := compiledSchemas.Load(kind); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a plain decoded JSON value, so round-trip the map.
	defBytes, err := json.Marshal(schemaFor(kind))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var def any
	if err := json.Unmarshal(defBytes, &def); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", kind)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	compiledSchemas.Store(kind, compiled)
	return compiled, nil
}

// checkShape validates a decoded JSON document against the kind's schema.
func checkShape(kind model.ContentKind, doc any) error {
	compiled, err := compiledSchema(kind)
	if err != nil {
		return err
	}
	return compiled.Validate(doc)
}
