package service

import (
	"fmt"
	"strings"

	"scheme-qa-go/internal/model"
)

// Fixed policy responses the prompt instructs the model to use. Exported so
// callers and tests can recognise them.
const (
	DeclineUnrelated = `I’m here to assist with questions about government schemes only. Let me know if you have one!`
	DeclineNoAnswer  = `That’s a great question, but I couldn’t find the answer in the available scheme data. You might want to explore more sources or official portals.`
)

const answerPromptTemplate = `You are a helpful AI assistant for answering questions about government schemes based on structured data.

Use the following retrieved documents to answer user queries. Each document contains information from a row of the scheme table.

- If the question is unrelated to government schemes, respond:
  *"%s"*

- If the question relates to government schemes but you can't find an answer in the provided data, say:
  *"%s"*

Keep responses:
- Factual and clear
- Easy to read
- Without guessing or making up data

---
Context:
%s

user: %s
Assistant:`

const hydePromptTemplate = `You are an assistant knowledgeable in Indian government schemes.

Generate a hypothetical but realistic and informative answer to the following user question, as if you already had access to the correct information.

User Question:
%s

Hypothetical Answer:`

// BuildAnswerPrompt renders the instruction template with the retrieved
// context and the user question.
func BuildAnswerPrompt(chunks []model.ScoredChunk, question string) string {
	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Chunk.Text)
	}
	context := strings.Join(texts, "\n\n")
	return fmt.Sprintf(answerPromptTemplate, DeclineUnrelated, DeclineNoAnswer, context, question)
}

// BuildHyDEPrompt renders the hypothetical-answer prompt for a question.
func BuildHyDEPrompt(question string) string {
	return fmt.Sprintf(hydePromptTemplate, question)
}
