package jira

import (
	"strings"
)

// Node is one content node in an Atlassian Document Format tree.
// Only the node kinds the comment writer emits are modeled: paragraph,
// text and hardBreak.
type Node struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Content []Node `json:"content,omitempty"`
}

// Document is the ADF body accepted by the comment endpoint
type Document struct {
	Type    string `json:"type"`
	Version int    `json:"version"`
	Content []Node `json:"content"`
}

// DocumentFromText converts plain text into an ADF document. Blank lines
// separate paragraphs; single newlines become hardBreak nodes. Blank lines
// inside a paragraph and blank paragraphs produce no nodes.
func DocumentFromText(text string) Document {
	content := []Node{}

	for _, para := range strings.Split(strings.TrimSpace(text), "\n\n") {
		if strings.TrimSpace(para) == "" {
			continue
		}

		lines := strings.Split(para, "\n")
		nodes := []Node{}
		for i, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			nodes = append(nodes, Node{Type: "text", Text: line})
			if i < len(lines)-1 {
				nodes = append(nodes, Node{Type: "hardBreak"})
			}
		}
		if len(nodes) > 0 {
			content = append(content, Node{Type: "paragraph", Content: nodes})
		}
	}

	return Document{Type: "doc", Version: 1, Content: content}
}

// TextFromDocument renders an ADF document back to plain text: paragraphs
// joined by blank lines, hardBreak nodes as single newlines. It is the
// structural inverse of DocumentFromText for text without blank lines
// inside paragraphs.
func TextFromDocument(doc Document) string {
	paras := make([]string, 0, len(doc.Content))
	for _, node := range doc.Content {
		if node.Type != "paragraph" {
			continue
		}
		var sb strings.Builder
		for _, child := range node.Content {
			switch child.Type {
			case "text":
				sb.WriteString(child.Text)
			case "hardBreak":
				sb.WriteString("\n")
			}
		}
		paras = append(paras, sb.String())
	}
	return strings.Join(paras, "\n\n")
}

// PlainTextFromADF flattens an arbitrary decoded ADF tree into plain text
// by joining every text node with spaces. Incoming webhook descriptions use
// node kinds the strict Document model does not cover, so this walks the
// raw decoded JSON instead.
func PlainTextFromADF(v any) string {
	var parts []string
	collectTextNodes(v, &parts)
	return strings.Join(parts, " ")
}

func collectTextNodes(v any, parts *[]string) {
	switch node := v.(type) {
	case map[string]any:
		if node["type"] == "text" {
			if text, ok := node["text"].(string); ok && text != "" {
				*parts = append(*parts, text)
			}
		}
		if content, ok := node["content"].([]any); ok {
			for _, child := range content {
				collectTextNodes(child, parts)
			}
		}
	case []any:
		for _, child := range node {
			collectTextNodes(child, parts)
		}
	}
}
