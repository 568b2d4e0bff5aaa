// Package quiz maps preference-quiz answers to a venue category.
package quiz

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

//go:embed data/questions.yaml
var embeddedQuestions []byte

type rule struct {
	category types.CategoryID
	keywords []string
}

// rules are tested in order; the first hit wins. Hidden is the fall-through.
var rules = []rule{
	{types.CategoryRomantic, []string{"romantic", "sunset", "date"}},
	{types.CategoryLocal, []string{"local", "family", "authentic"}},
	{types.CategoryElegant, []string{"elegant", "refined", "luxury"}},
}

// Classify returns the category for an ordered answer sequence. It is total:
// any input, including none, yields a category.
func Classify(answers []types.QuizAnswer) types.CategoryID {
	blob := strings.ToLower(strings.Join(answers, " "))
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(blob, kw) {
				return r.category
			}
		}
	}
	return types.CategoryHidden
}

// Quiz is an ordered question set.
type Quiz struct {
	Questions []types.QuizQuestion `json:"questions" yaml:"questions"`
}

var defaultQuiz = mustParse(embeddedQuestions)

// DefaultQuiz returns a copy of the bundled question set.
func DefaultQuiz() Quiz {
	out := Quiz{Questions: make([]types.QuizQuestion, len(defaultQuiz.Questions))}
	for i, q := range defaultQuiz.Questions {
		q.Options = append([]string(nil), q.Options...)
		out.Questions[i] = q
	}
	return out
}

// Parse decodes a question set. Every question needs an id and options.
func Parse(raw []byte) (Quiz, error) {
	var q Quiz
	if err := yaml.Unmarshal(raw, &q); err != nil {
		return Quiz{}, fmt.Errorf("failed to decode questions: %w", err)
	}
	seen := make(map[string]struct{}, len(q.Questions))
	for _, question := range q.Questions {
		if question.ID == "" {
			return Quiz{}, fmt.Errorf("question %q has no id", question.Prompt)
		}
		if _, dup := seen[question.ID]; dup {
			return Quiz{}, fmt.Errorf("question id %q used twice", question.ID)
		}
		seen[question.ID] = struct{}{}
		if len(question.Options) == 0 {
			return Quiz{}, fmt.Errorf("question %q has no options", question.ID)
		}
	}
	return q, nil
}

func mustParse(raw []byte) Quiz {
	q, err := Parse(raw)
	if err != nil {
		panic(fmt.Sprintf("quiz: %v", err))
	}
	return q
}

// Validate reports whether answers fit the quiz: one per question, each one
// of that question's options.
func (q Quiz) Validate(answers []types.QuizAnswer) error {
	if len(answers) != len(q.Questions) {
		return fmt.Errorf("expected %d answers, got %d", len(q.Questions), len(answers))
	}
	for i, a := range answers {
		question := q.Questions[i]
		if !slices.Contains(question.Options, a) {
			return fmt.Errorf("answer %d (%q) is not an option of %q", i+1, a, question.ID)
		}
	}
	return nil
}
