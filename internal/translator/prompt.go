package translator

import (
	"fmt"
	"strings"
)

// DefaultInstructions is used whenever the caller supplies blank instructions.
const DefaultInstructions = `You are a highly skilled translation expert. Your task is to translate the provided English text into the specified target language.
- Your output must ONLY be the translated text itself.
- Do not include any introductory phrases like "Here is the translation:" or any other conversational filler.
- Preserve the original formatting (like paragraphs and line breaks) as much as possible.`

// ResolveInstructions returns custom unless it is blank, in which case it
// returns DefaultInstructions.
func ResolveInstructions(custom string) string {
	if strings.TrimSpace(custom) == "" {
		return DefaultInstructions
	}
	return custom
}

// BuildPrompt assembles the single prompt sent to a generative backend: the
// instructions, the target language name, and the source text in a fence.
func BuildPrompt(instructions, targetLanguage, text string) string {
	return fmt.Sprintf("%s\n\nTranslate the following English text to **%s**:\n```\n%s\n```\n",
		instructions, targetLanguage, text)
}
