package repetition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"exact", "Do you want a refund?", "Do you want a refund?", 1.0},
		{"exact after normalization", "do you want a refund", "Do you want a refund?!", 1.0},
		{"containment", "your order number", "Could you share your order number today", 0.85},
		{"containment reversed", "Could you share your order number today", "your order number", 0.85},
		{"no overlap", "apples and pears", "quantum flux capacitor", 0.0},
		{"both empty", "", "", 1.0},
		{"one empty", "", "hello", 0.0},
		{"punctuation only vs text", "?!.", "hello", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Similarity(tt.a, tt.b), 0.0001)
		})
	}
}

func TestSimilarity_WordOverlap(t *testing.T) {
	// 6 of the shorter string's 8 words appear in the other.
	got := Similarity(
		"Do you want a refund or store credit?",
		"Would you prefer store credit or a refund?",
	)
	assert.InDelta(t, 0.75, got, 0.0001)
}

func TestGuard_IsDuplicateQuestion(t *testing.T) {
	g := NewGuard(0.7, 0.7)

	asked := []string{"Do you want a refund or store credit?"}

	assert.True(t, g.IsDuplicateQuestion("Would you prefer store credit or a refund?", asked))
	assert.True(t, g.IsDuplicateQuestion("Do you want a refund or store credit?", asked))
	assert.False(t, g.IsDuplicateQuestion("What is your shipping address?", asked))
	assert.False(t, g.IsDuplicateQuestion("Anything at all", nil))
}

func TestGuard_IsDuplicateQuestion_ChecksWholeHistory(t *testing.T) {
	g := NewGuard(0.7, 0.7)

	asked := []string{
		"What is your order number?",
		"When did the package arrive?",
		"Do you want a refund or store credit?",
	}

	assert.True(t, g.IsDuplicateQuestion("What's your order number?", asked))
	assert.True(t, g.IsDuplicateQuestion("Would you prefer store credit or a refund?", asked))
	assert.False(t, g.IsDuplicateQuestion("Is the box damaged?", asked))
}

func TestGuard_IsStuckLoop(t *testing.T) {
	g := NewGuard(0.7, 0.7)

	assert.True(t, g.IsStuckLoop("I already told you my order number", "I already told you my order number"))
	assert.True(t, g.IsStuckLoop("it still doesn't work", "It still doesn't work!"))
	assert.False(t, g.IsStuckLoop("the tracking says delivered", "I never got the package"))
	assert.False(t, g.IsStuckLoop("", "anything"))
	assert.False(t, g.IsStuckLoop("anything", ""))
}
