package ragblade

import "fmt"

const promptTemplate = `You are an AI assistant. Answer the question using only the following retrieved information as context.

Question: %s
Retrieved Information: %s

Provide a detailed response of several sentences.
Answer:
`

// BuildPrompt grounds query on the retrieved passage.
func BuildPrompt(query string, doc Document) string {
	return fmt.Sprintf(promptTemplate, query, doc)
}
