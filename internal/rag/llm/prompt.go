package llm

import (
	"fmt"
	"strings"
)

// SystemInstruction pins the model to the supplied context. The refusal
// sentence is embedded verbatim so the model can repeat it exactly.
const SystemInstruction = `You are a UK Global Talent Visa assistant.

IMPORTANT RULES:
- Answer ONLY using the provided context.
- Do NOT use outside knowledge.
- If the answer is not found in the context, say:
  "` + RefusalAnswer + `"
- Be clear and concise.`

// BuildUserPrompt assembles the user turn: the context block (chunks joined
// by a blank line, retrieval order preserved) followed by the question.
func BuildUserPrompt(question string, contextChunks []string) string {
	contextBlock := strings.Join(contextChunks, "\n\n")
	return fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s\n\nAnswer:", contextBlock, question)
}
