package summarize

import "strings"

const paddingSuffix = " for code organization."

// postProcess enforces the summary contract regardless of which path
// produced the text: begins with "This file", ends with a period (or with
// "…" when cut to length), and sits within [minSummaryLen, maxSummaryLen]
// bytes.
func postProcess(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "This file contains source code."
	}

	if !strings.HasPrefix(text, "This file") {
		lower := strings.ToLower(text)
		switch {
		case strings.HasPrefix(lower, "this file"):
			text = "This file" + text[len("this file"):]
		default:
			text = "This file " + uncapitalizeFirst(text)
		}
	}

	text = strings.TrimRight(text, " \t\n")
	if !strings.HasSuffix(text, ".") {
		text += "."
	}

	if len(text) > maxSummaryLen {
		text = strings.TrimRight(text[:maxSummaryLen-len("…")], " \t\n.") + "…"
	}

	for len(text) < minSummaryLen {
		withPad := strings.TrimSuffix(text, ".") + paddingSuffix
		if len(withPad) == len(text) {
			break // padding didn't grow it (shouldn't happen), avoid infinite loop
		}
		text = withPad
		if len(text) > maxSummaryLen {
			text = text[:maxSummaryLen-1] + "…"
			break
		}
	}

	return text
}

func uncapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToLower(string(r[0])) + string(r[1:])
}
