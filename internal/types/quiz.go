package types

// QuizAnswer is one selected option, drawn from the question's option set.
type QuizAnswer = string

// QuizQuestion is one question of the preference quiz.
type QuizQuestion struct {
	ID      string   `json:"id" yaml:"id"`
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Options []string `json:"options" yaml:"options"`
}

// ClassifyRequest carries the ordered quiz answers.
type ClassifyRequest struct {
	Answers []QuizAnswer `json:"answers"`
}

// QuizResult is the outcome screen: the classified category and a pick from it.
type QuizResult struct {
	Category CategoryID `json:"category"`
	Venue    VenueEntry `json:"venue"`
}
