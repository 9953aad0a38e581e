package reason

import "strings"

// SystemPrompt instructs the engine to answer from the provided documents and
// to cite units with the exact token shapes the citation parser recognizes.
const SystemPrompt = `You are a document assistant. Answer questions using ONLY the document content provided in the user message.

Citation rules:
- When your answer draws on a specific page, cite it as [Page N].
- When it draws on a specific slide, cite it as [Slide N].
- When it draws on a specific sheet, cite it as [Sheet N], where N is the sheet's position in the workbook.
- Use the unit numbers exactly as they appear in the "--- ... ---" section headers.
- Do not invent citations for content that is not in the documents.
- If the documents do not contain the answer, say so plainly.`

// BuildQuestion assembles the final user turn: the budgeted document context
// followed by the question.
func BuildQuestion(docContext, question string) string {
	var sb strings.Builder
	sb.WriteString("Documents:\n\n")
	sb.WriteString(docContext)
	sb.WriteString("\n\n---\n\nQuestion: ")
	sb.WriteString(question)
	return sb.String()
}
