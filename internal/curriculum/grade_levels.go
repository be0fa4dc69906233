package curriculum

import (
	"fmt"
	"strings"
)

type gradeBand struct {
	Name     string
	Guidance string
}

var (
	bandEarly = gradeBand{
		Name:     "early elementary",
		Guidance: "Use very short sentences, common sight words and concrete, familiar examples (animals, family, toys).",
	}
	bandMiddle = gradeBand{
		Name:     "middle elementary",
		Guidance: "Use clear sentences, introduce new vocabulary with context and keep each step small.",
	}
	bandUpper = gradeBand{
		Name:     "upper elementary",
		Guidance: "Include multi-step reasoning and grade-appropriate vocabulary.",
	}
	bandMiddleSchool = gradeBand{
		Name:     "middle school",
		Guidance: "Expect abstract reasoning, precise terminology and questions that require applying ideas.",
	}
	bandHighSchool = gradeBand{
		Name:     "high school",
		Guidance: "Use rigorous, subject-specific language and questions that require analysis.",
	}
)

// gradeBands maps a normalized grade label to its complexity band.
var gradeBands = buildGradeBands()

func buildGradeBands() map[string]gradeBand {
	m := map[string]gradeBand{
		"pre-k":        bandEarly,
		"preschool":    bandEarly,
		"kindergarten": bandEarly,
		"k":            bandEarly,
	}
	ordinals := []string{"1st", "2nd", "3rd", "4th", "5th", "6th", "7th", "8th", "9th", "10th", "11th", "12th"}
	words := []string{"first", "second", "third", "fourth", "fifth", "sixth", "seventh", "eighth", "ninth", "tenth", "eleventh", "twelfth"}
	for i := range ordinals {
		grade := i + 1
		var band gradeBand
		switch {
		case grade <= 2:
			band = bandEarly
		case grade <= 3:
			band = bandMiddle
		case grade <= 5:
			band = bandUpper
		case grade <= 8:
			band = bandMiddleSchool
		default:
			band = bandHighSchool
		}
		m[ordinals[i]+" grade"] = band
		m[words[i]+" grade"] = band
		m[fmt.Sprintf("grade %d", grade)] = band
		m[fmt.Sprintf("%d", grade)] = band
	}
	return m
}

// ComplexityHint returns the writing guidance for a grade label. Unknown
// labels get a neutral hint that just repeats the label.
func ComplexityHint(gradeLevel string) string {
	if b, ok := gradeBands[normalizeSubject(gradeLevel)]; ok {
		return fmt.Sprintf("This is for %s students (%s). %s", gradeLevel, b.Name, b.Guidance)
	}
	return fmt.Sprintf("Make everything appropriate for %s students.", strings.TrimSpace(gradeLevel))
}
