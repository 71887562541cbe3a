package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/single_page.txt
	singlePagePrompt string
	//go:embed prompts/normal.txt
	normalPrompt string
	//go:embed prompts/edit_instruction.txt
	editInstruction string
)

// BuildResumePrompt assembles the generation prompt from the variant
// instruction, the template source and the sanitized resume text.
func BuildResumePrompt(templateSource, resumeText string, singlePage bool) string {
	variant := normalPrompt
	if singlePage {
		variant = singlePagePrompt
	}
	var b strings.Builder
	b.Grow(len(variant) + len(templateSource) + len(resumeText) + 64)
	b.WriteString("\n")
	b.WriteString(variant)
	b.WriteString("\nHere is the resume template:\n")
	b.WriteString(templateSource)
	b.WriteString("\nHere is my resume content:\n")
	b.WriteString(resumeText)
	return b.String()
}

// EditInstruction returns the fixed instruction for revision requests.
func EditInstruction() string {
	return strings.TrimSpace(editInstruction)
}

// BuildEditParts returns the three request parts of a revision: the
// instruction, the current document and the requested change.
func BuildEditParts(latex, request string) []string {
	return []string{
		EditInstruction(),
		"Original LaTeX:\n\n" + latex,
		"Edit request:\n\n" + request,
	}
}
