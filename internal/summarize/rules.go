package summarize

import (
	"fmt"
	"regexp"
	"strings"
)

// lineCommentPrefixes maps a language to its single-line comment marker(s),
// used to detect a leading doc comment/docstring at the top of a file.
var lineCommentPrefixes = map[string][]string{
	"go":         {"//"},
	"typescript": {"//"},
	"tsx":        {"//"},
	"javascript": {"//"},
	"jsx":        {"//"},
	"java":       {"//"},
	"rust":       {"//"},
	"c":          {"//"},
	"cpp":        {"//"},
	"csharp":     {"//"},
	"kotlin":     {"//"},
	"php":        {"//", "#"},
	"python":     {"#"},
	"ruby":       {"#"},
}

// blockCommentDelims maps a language to its block-comment open/close pair.
var blockCommentDelims = map[string][2]string{
	"go": {"/*", "*/"}, "typescript": {"/*", "*/"}, "tsx": {"/*", "*/"},
	"javascript": {"/*", "*/"}, "jsx": {"/*", "*/"}, "java": {"/*", "*/"},
	"rust": {"/*", "*/"}, "c": {"/*", "*/"}, "cpp": {"/*", "*/"},
	"csharp": {"/*", "*/"}, "kotlin": {"/*", "*/"}, "php": {"/*", "*/"},
}

// pythonDocstringPattern matches a leading triple-quoted module docstring.
var pythonDocstringPattern = regexp.MustCompile(`(?s)^\s*(?:"""(.*?)"""|'''(.*?)''')`)

var (
	functionCountPatterns = map[string]*regexp.Regexp{
		"go":         regexp.MustCompile(`(?m)^\s*func\s+`),
		"python":     regexp.MustCompile(`(?m)^\s*(?:async\s+)?def\s+`),
		"ruby":       regexp.MustCompile(`(?m)^\s*def\s+`),
		"rust":       regexp.MustCompile(`(?m)^\s*(?:pub\s+)?(?:async\s+)?fn\s+`),
		"default":    regexp.MustCompile(`(?m)\bfunction\s+\w+|\w+\s*\([^)]*\)\s*\{|\b(?:public|private|protected)?\s*(?:static\s+)?[\w<>\[\]]+\s+\w+\s*\([^)]*\)\s*\{`),
	}
	classCountPatterns = map[string]*regexp.Regexp{
		"default": regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:public\s+|internal\s+)?(?:abstract\s+)?class\s+\w+|^\s*(?:pub\s+)?struct\s+\w+|^\s*type\s+\w+\s+struct\b|^\s*interface\s+\w+`),
	}
)

// ruleBasedSummary implements the fallback summarizer: a leading doc
// comment/docstring if one exists, otherwise a function/class count.
func ruleBasedSummary(content, language string) string {
	if doc := leadingDocComment(content, language); doc != "" {
		return doc
	}

	funcPattern, ok := functionCountPatterns[language]
	if !ok {
		funcPattern = functionCountPatterns["default"]
	}
	classPattern := classCountPatterns["default"]

	numFuncs := len(funcPattern.FindAllStringIndex(content, -1))
	numClasses := len(classPattern.FindAllStringIndex(content, -1))

	return fmt.Sprintf("This file contains %d functions and %d classes.", numFuncs, numClasses)
}

// leadingDocComment extracts a leading block/line-comment run or docstring
// at the top of a file, generalized from the per-symbol doc-comment
// extraction used during chunking.
func leadingDocComment(content, language string) string {
	trimmed := strings.TrimLeft(content, " \t\r\n")

	if language == "python" || language == "ruby" {
		if m := pythonDocstringPattern.FindStringSubmatch(trimmed); m != nil {
			body := m[1]
			if body == "" {
				body = m[2]
			}
			return strings.TrimSpace(firstSentenceOrAll(body))
		}
	}

	if delims, ok := blockCommentDelims[language]; ok && strings.HasPrefix(trimmed, delims[0]) {
		end := strings.Index(trimmed, delims[1])
		if end > 0 {
			body := trimmed[len(delims[0]):end]
			body = strings.TrimLeft(body, "*")
			return strings.TrimSpace(firstSentenceOrAll(cleanBlockComment(body)))
		}
	}

	prefixes, ok := lineCommentPrefixes[language]
	if !ok {
		prefixes = []string{"//"}
	}

	var lines []string
	for _, raw := range strings.Split(trimmed, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			if len(lines) == 0 {
				continue
			}
			break
		}
		matched := false
		for _, p := range prefixes {
			if strings.HasPrefix(line, p) {
				lines = append(lines, strings.TrimSpace(strings.TrimPrefix(line, p)))
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}

	if len(lines) == 0 {
		return ""
	}
	return firstSentenceOrAll(strings.Join(lines, " "))
}

func cleanBlockComment(body string) string {
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		l = strings.TrimSpace(l)
		lines[i] = strings.TrimPrefix(l, "*")
	}
	return strings.Join(lines, " ")
}

func firstSentenceOrAll(text string) string {
	text = strings.TrimSpace(text)
	for i, r := range text {
		if r == '.' || r == '\n' {
			return strings.TrimSpace(text[:i])
		}
	}
	return text
}
