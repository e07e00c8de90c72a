package classifier

import "strings"

// Intent is the label a free-text message resolves to.
type Intent string

const (
	IntentGreeting  Intent = "GREETING"
	IntentThanks    Intent = "THANKS"
	IntentListTasks Intent = "LIST_TASKS"
	IntentAddTask   Intent = "ADD_TASK"
	IntentUnknown   Intent = "UNKNOWN"
)

// Classifier maps free text onto the intent label set. Implementations
// are swappable: the bot only ever calls Classify.
type Classifier interface {
	Classify(text string) Intent
}

// KeywordClassifier scores a message by keyword hits per intent and picks
// the best-scoring label. It stands in for a trained text model behind
// the same interface.
type KeywordClassifier struct {
	keywords map[Intent][]string
}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		keywords: map[Intent][]string{
			IntentGreeting: {
				"hello", "hi", "hey", "good morning",
				"good afternoon", "good evening",
			},
			IntentThanks: {
				"thank", "thanks", "thx", "appreciate",
			},
			IntentListTasks: {
				"list", "show", "my tasks", "what do i have",
				"todo list", "tasks",
			},
			IntentAddTask: {
				"add", "create", "new task", "remind me",
				"need to", "don't forget",
			},
		},
	}
}

func (c *KeywordClassifier) Classify(text string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return IntentUnknown
	}

	best := IntentUnknown
	bestScore := 0
	// Fixed iteration order so ties resolve deterministically.
	for _, intent := range []Intent{
		IntentAddTask,
		IntentListTasks,
		IntentGreeting,
		IntentThanks,
	} {
		score := 0
		for _, keyword := range c.keywords[intent] {
			if strings.Contains(normalized, keyword) {
				score++
			}
		}
		if score > bestScore {
			best = intent
			bestScore = score
		}
	}

	return best
}
