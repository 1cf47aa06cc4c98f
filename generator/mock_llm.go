package generator

import (
	"context"
	"html"
	"strings"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
// Reply overrides the canned page; Err makes every call fail.
type MockLLM struct {
	Reply string
	Err   error
	Calls int
	Last  Prompt
}

func (m *MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	m.Calls++
	m.Last = prompt
	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != "" {
		return m.Reply, nil
	}
	var sb strings.Builder
	sb.WriteString("```html\n")
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head><style>body{margin:0}</style></head>\n<body>\n")
	sb.WriteString("<pre>")
	sb.WriteString(html.EscapeString(prompt.User))
	sb.WriteString("</pre>\n<script></script>\n</body>\n</html>\n")
	sb.WriteString("```\n")
	return sb.String(), nil
}
