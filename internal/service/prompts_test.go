package service

import (
	"strings"
	"testing"

	"scheme-qa-go/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestDeclineMessagesExactWording(t *testing.T) {
	// the wording is part of the contract: the eval ground truth and the
	// prompt instructions quote these strings verbatim, typographic
	// apostrophes included
	assert.Equal(t, "I’m here to assist with questions about government schemes only. Let me know if you have one!", DeclineUnrelated)
	assert.Equal(t, "That’s a great question, but I couldn’t find the answer in the available scheme data. You might want to explore more sources or official portals.", DeclineNoAnswer)
	assert.NotContains(t, DeclineUnrelated, "'")
	assert.NotContains(t, DeclineNoAnswer, "'")
}

func TestBuildAnswerPromptLayout(t *testing.T) {
	chunks := []model.ScoredChunk{
		{Chunk: model.DocumentChunk{Text: "first chunk"}},
		{Chunk: model.DocumentChunk{Text: "second chunk"}},
	}

	prompt := BuildAnswerPrompt(chunks, "what is this?")

	assert.Contains(t, prompt, DeclineUnrelated)
	assert.Contains(t, prompt, DeclineNoAnswer)
	assert.Contains(t, prompt, "first chunk\n\nsecond chunk")
	assert.True(t, strings.HasSuffix(prompt, "user: what is this?\nAssistant:"))
}

func TestBuildHyDEPromptContainsQuestion(t *testing.T) {
	prompt := BuildHyDEPrompt("pm kisan amount?")
	assert.Contains(t, prompt, "pm kisan amount?")
	assert.True(t, strings.HasSuffix(prompt, "Hypothetical Answer:"))
}
