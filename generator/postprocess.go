package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	fenceOpenRe   = regexp.MustCompile("^```[A-Za-z0-9_+-]*[ \t]*\r?\n?")
	fenceCloseRe  = regexp.MustCompile("\r?\n?```$")
	headingRe     = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	fencedBlockRe = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \t]*\r?\n(.*?)```")
	docStartRe    = regexp.MustCompile(`(?i)<!doctype\s+html|<html[\s>]`)
	docEndRe      = regexp.MustCompile(`(?i)</html\s*>`)
)

// Raw HTML inside a Markdown reply is kept, not replaced by a comment.
var markdown = goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe()))

// StripCodeFence removes a surrounding ``` fence (optionally tagged, e.g.
// ```html or ```json) and outer whitespace. Clean input is returned as is.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = fenceOpenRe.ReplaceAllString(s, "")
	}
	if strings.HasSuffix(s, "```") {
		s = fenceCloseRe.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

// ParseOutput turns the raw model reply into an Output for the contract.
func ParseOutput(contract Contract, raw string) (Output, error) {
	cleaned := StripCodeFence(raw)
	if cleaned == "" {
		return Output{}, ErrEmptyResponse
	}

	switch contract {
	case ContractFiles:
		var payload struct {
			Files *[]File `json:"files"`
		}
		if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
			return Output{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		if payload.Files == nil || len(*payload.Files) == 0 {
			return Output{}, fmt.Errorf("%w: no files", ErrInvalidFormat)
		}
		return Output{Kind: OutputFiles, Files: *payload.Files}, nil
	default:
		if doc, ok := extractDocument(cleaned); ok {
			return Output{Kind: OutputSingle, HTML: doc}, nil
		}
		page, err := renderMarkdownPage(cleaned)
		if err != nil {
			return Output{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return Output{Kind: OutputSingle, HTML: page}, nil
	}
}

// extractDocument finds the HTML document in a reply: the span from
// <!DOCTYPE html> or <html> to the last </html>, else the reply itself when it
// starts with a tag, else the first fenced block holding markup.
func extractDocument(s string) (string, bool) {
	loc := docStartRe.FindStringIndex(s)
	if loc != nil && loc[0] == 0 {
		return documentSpan(s), true
	}
	if strings.HasPrefix(s, "<") {
		return s, true
	}
	for _, m := range fencedBlockRe.FindAllStringSubmatch(s, -1) {
		if block := strings.TrimSpace(m[1]); strings.HasPrefix(block, "<") {
			return block, true
		}
	}
	if loc != nil {
		return documentSpan(s[loc[0]:]), true
	}
	return "", false
}

// documentSpan cuts doc after its last </html>, dropping trailing prose.
func documentSpan(doc string) string {
	if ends := docEndRe.FindAllStringIndex(doc, -1); len(ends) > 0 {
		doc = doc[:ends[len(ends)-1][1]]
	}
	return strings.TrimSpace(doc)
}

// 模型偶尔返回 Markdown 而不是 HTML，这里转换成一个完整页面。
func renderMarkdownPage(md string) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(md), &body); err != nil {
		return "", err
	}

	title := "Generated page"
	if m := headingRe.FindStringSubmatch(md); len(m) >= 2 {
		title = strings.TrimSpace(m[1])
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	sb.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	sb.WriteString("<style>body{font-family:system-ui,sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem;line-height:1.6}</style>\n")
	sb.WriteString("</head>\n<body>\n")
	sb.Write(body.Bytes())
	sb.WriteString("</body>\n</html>\n")
	return sb.String(), nil
}
