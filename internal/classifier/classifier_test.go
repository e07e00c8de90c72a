package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordClassifier_Classify(t *testing.T) {
	c := NewKeywordClassifier()

	tests := []struct {
		text string
		want Intent
	}{
		{text: "hello there", want: IntentGreeting},
		{text: "Good morning!", want: IntentGreeting},
		{text: "thanks a lot", want: IntentThanks},
		{text: "thank you", want: IntentThanks},
		{text: "show my tasks", want: IntentListTasks},
		{text: "what do i have today", want: IntentListTasks},
		{text: "add buy milk", want: IntentAddTask},
		{text: "remind me to call mom", want: IntentAddTask},
		{text: "qwerty asdf", want: IntentUnknown},
		{text: "", want: IntentUnknown},
		{text: "   ", want: IntentUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.text))
		})
	}
}

func TestKeywordClassifier_BestScoreWins(t *testing.T) {
	c := NewKeywordClassifier()

	// Two list keywords against one add keyword.
	assert.Equal(t, IntentListTasks, c.Classify("show the list of everything i need to do"))
}
