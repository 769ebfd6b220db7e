package assistant

import (
	"fmt"

	"github.com/dariafung/fotex/internal/llm"
)

// SystemPrompt constrains every reply to raw LaTeX.
const SystemPrompt = "You are a LaTeX assistant. Output ONLY raw LaTeX. No markdown fences, no explanations unless asked."

func withSystem(user string) []llm.Message {
	return []llm.Message{llm.System(SystemPrompt), llm.User(user)}
}

func FixErrorMessages(snippet, diagnostic string) []llm.Message {
	return withSystem(fmt.Sprintf(
		"Fix this LaTeX compile error.\nError: %s\n\nCode:\n%s\nReturn only the corrected code.",
		diagnostic, snippet,
	))
}

func ToFormulaMessages(text string) []llm.Message {
	return withSystem("Convert the text into latex formula. Only output the latex expression.\n" + text)
}

func ContinueMessages(prefix string) []llm.Message {
	return withSystem("Continue this LaTeX snippet. Output only the continuation, not the original:\n" + prefix)
}

// AskMessages passes a free-form prompt under the fixed system instruction.
func AskMessages(prompt string) []llm.Message {
	return withSystem(prompt)
}

func RewriteMessages(instruction, document string) []llm.Message {
	return withSystem(fmt.Sprintf(
		"Rewrite the LaTeX document below.\nInstruction: %q\nReturn the complete updated document.\nCurrent Code:\n%s",
		instruction, document,
	))
}
