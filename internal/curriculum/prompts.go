package curriculum

import (
	"fmt"
	"strings"
)

// SystemPrompt is sent with every generation request.
const SystemPrompt = "You are an expert educational content creator for homeschool teachers. Always answer with a single JSON object."

const questionFormat = `{
  "question": "Question text?",
  "options": ["Option A", "Option B", "Option C", "Option D"],
  "correct_answer": 0
}`

func header(b *strings.Builder, in PromptInput, what string) {
	fmt.Fprintf(b, "Create %s for %s students", what, in.GradeLevel)
	if in.Subject != "" {
		fmt.Fprintf(b, " in %s", in.Subject)
	}
	fmt.Fprintf(b, " on the topic: %s\n\n", in.Topic)
	b.WriteString(ComplexityHint(in.GradeLevel))
	b.WriteString("\n")
	if in.VideoURL != "" {
		fmt.Fprintf(b, "\nThis assignment accompanies a video: %s\nCreate questions that relate to or extend the video content.\n", in.VideoURL)
	}
	b.WriteString("\n")
}

func footer(b *strings.Builder, format string) {
	b.WriteString("\nReturn your response in this EXACT JSON format:\n")
	b.WriteString(format)
	b.WriteString("\n")
}

func genericPrompt(s Strategy, in PromptInput) string {
	var b strings.Builder
	header(&b, in, "an educational assignment")
	fmt.Fprintf(&b, "Generate 5-8 multiple-choice questions with 4 options each, focused on %s.\n", in.Topic)
	b.WriteString("Each question has exactly one correct option; correct_answer is its index (0-3).\n")
	footer(&b, fmt.Sprintf(`{"questions": [%s]}`, questionFormat))
	return b.String()
}

func conceptPrompt(s Strategy, in PromptInput) string {
	var b strings.Builder
	header(&b, in, "a beginner coding assignment")
	fmt.Fprintf(&b, "Focus on %s. Do not ask the student to write or read code.\n", s.Focus)
	b.WriteString("Generate 5-8 multiple-choice questions with 4 options each about ideas like sequences, loops, conditions and debugging.\n")
	footer(&b, fmt.Sprintf(`{"questions": [%s]}`, questionFormat))
	return b.String()
}

func codingPrompt(s Strategy, in PromptInput) string {
	var b strings.Builder
	header(&b, in, "a coding assignment")
	fmt.Fprintf(&b, "Focus on %s. All exercises use the %s language.\n", s.Focus, s.Language)
	b.WriteString("Generate 2-3 multiple-choice concept questions and 2-4 short coding exercises.\n")
	b.WriteString("Each exercise answer must be the complete, minimal solution; it is compared to the student's code ignoring whitespace.\n")
	footer(&b, fmt.Sprintf(`{
  "questions": [%s],
  "coding_exercises": [
    {
      "prompt": "What the student must write",
      "language": %q,
      "starter_code": "optional code to start from",
      "answer": "the exact expected solution",
      "explanation": "why this works"
    }
  ]
}`, questionFormat, s.Language))
	return b.String()
}

func readingPrompt(s Strategy, in PromptInput) string {
	var b strings.Builder
	header(&b, in, "a reading assignment")
	b.WriteString("Write an original short story (2-4 paragraphs) and 4 multiple-choice questions about its plot, characters and details.\n")
	footer(&b, fmt.Sprintf(`{
  "reading_passage": "The complete story text here...",
  "questions": [%s]
}`, questionFormat))
	return b.String()
}

func learnToReadPrompt(s Strategy, in PromptInput) string {
	var b strings.Builder
	header(&b, in, `a "Learning to Read" assignment`)
	b.WriteString("This is for young students who are still learning to read.\n")
	b.WriteString("Write 5-7 very short sentences using simple words that can be sounded out.\n")
	b.WriteString("Then write interactive word activities: each asks the student to find one word in one of the sentences.\n")
	b.WriteString("sentence_index is the 0-based index of the sentence that contains target_word.\n")
	footer(&b, `{
  "sentences": ["The cat is big.", "The cat can run."],
  "activities": [
    {"instruction": "Tap the word that names an animal.", "target_word": "cat", "sentence_index": 0}
  ]
}`)
	return b.String()
}

func dragDropPrompt(s Strategy, in PromptInput) string {
	var b strings.Builder
	header(&b, in, "a critical thinking drag-and-drop puzzle")
	b.WriteString("Create one puzzle where the student drags each item into the zone where it belongs.\n")
	b.WriteString("Item ids and zone ids must be unique. Every zone's correct_item_id must be the id of one of the items.\n")
	footer(&b, `{
  "puzzle": {
    "instructions": "Drag each item to the matching category.",
    "items": [{"id": "i1", "label": "Item label"}],
    "zones": [{"id": "z1", "label": "Zone label", "correct_item_id": "i1"}],
    "explanation": "Why each item belongs where it does."
  }
}`)
	return b.String()
}

func spellingPrompt(s Strategy, in PromptInput) string {
	var b strings.Builder
	header(&b, in, "a spelling assignment")
	if len(in.SpellingWords) > 0 {
		fmt.Fprintf(&b, "Use exactly these spelling words: %s.\n", strings.Join(in.SpellingWords, ", "))
	} else {
		b.WriteString("Choose 10 grade-appropriate spelling words related to the topic.\n")
	}
	b.WriteString("Write one exercise per word. type is one of typing_test, fill_blank or multiple_choice; multiple_choice exercises include 4 options.\n")
	b.WriteString("answer is the correctly spelled word.\n")
	footer(&b, `{
  "spelling_words": ["because"],
  "spelling_exercises": [
    {"type": "fill_blank", "word": "because", "sentence": "I smiled ___ I was happy.", "answer": "because"}
  ]
}`)
	return b.String()
}
