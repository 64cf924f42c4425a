package invoice

import "strings"

// strategy is one extraction rule. Strategies for a field are evaluated in
// order and the first one that reports a match wins.
type strategy struct {
	name  string
	apply func(doc document) (string, bool)
}

func firstMatch(strategies []strategy, doc document) string {
	for _, s := range strategies {
		if value, ok := s.apply(doc); ok {
			return value
		}
	}
	return ""
}

// document is the recognized text split into trimmed, non-empty lines.
type document struct {
	text  string
	lines []string
}

func newDocument(text string) document {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return document{text: text, lines: lines}
}
