package generator

import (
	"fmt"
	"strings"
)

// Prompt is the single user message sent to the provider.
type Prompt struct {
	User string
}

// BuildPagePrompt 根据描述和输出约定生成提示词。
func BuildPagePrompt(description string, contract Contract) Prompt {
	var sb strings.Builder
	sb.WriteString("You are a professional web developer. Your task is to generate a complete and valid HTML document based on the following user description: ")
	sb.WriteString(description)
	sb.WriteString(".\n")
	sb.WriteString("Please structure the HTML file as follows:\n")
	sb.WriteString("- Include a <style> tag inside the <head> section for any required CSS styles.\n")
	sb.WriteString("- Include a <script> tag just before the closing </body> tag for any necessary JavaScript functionality.\n")
	sb.WriteString("The HTML file should be clean, responsive, and follow best practices in modern web development.\n\n")

	switch contract {
	case ContractFiles:
		sb.WriteString("Return the result in a JSON format with the following structure:\n")
		sb.WriteString("```json\n")
		sb.WriteString("{\n  \"files\": [\n    {\n      \"file_title\": \"index.html\",\n      \"content\": \"<HTML content>\"\n    }\n  ]\n}\n")
		sb.WriteString("```\n")
		sb.WriteString("Make sure that the 'content' field contains the complete HTML, CSS, and JS all in a single HTML file.")
	default:
		sb.WriteString(fmt.Sprintf("Return only the single HTML document, starting with %s and ending with %s, without explanations.", "<!DOCTYPE html>", "</html>"))
	}

	return Prompt{User: sb.String()}
}
