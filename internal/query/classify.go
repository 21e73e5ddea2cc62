package query

import "regexp"

// Patterns grounded in the teacher's lexical-query heuristics
// (internal/search/patterns.go), narrowed to the code_snippet /
// natural_language split this system's retrieval pipeline uses.
var (
	errorCodePattern = regexp.MustCompile(`(?i)^(ERR_\w+|E\d{4,5}|[A-Z]{2,}\d{3,}|\w+Exception)$`)
	quotedPattern    = regexp.MustCompile(`^["'].*["']$`)
	filePathPattern  = regexp.MustCompile(`(?i)^[\w\-./\\]+\.(go|ts|tsx|js|jsx|py|md|json|yaml|yml|rs|java|kt|c|cpp|h|hpp|rb|php|cs)$`)

	camelCasePattern      = regexp.MustCompile(`^[a-z]+([A-Z][a-z0-9]*)+$`)
	pascalCasePattern     = regexp.MustCompile(`^([A-Z][a-z0-9]*){2,}$`)
	snakeCasePattern      = regexp.MustCompile(`^[a-z]+(_[a-z0-9]+)+$`)
	screamingSnakePattern = regexp.MustCompile(`^[A-Z]+(_[A-Z0-9]+)+$`)

	codePunctuationPattern = regexp.MustCompile(`[(){}\[\];]|::|->|=>|\$\{`)
)

// Classify determines whether query reads as a code snippet (characteristic
// punctuation/identifier casing/error codes/file paths) or natural
// language prose.
func Classify(query string) Classification {
	if isCodeSnippet(query) {
		return ClassificationCodeSnippet
	}
	return ClassificationNaturalLanguage
}

func isCodeSnippet(query string) bool {
	if errorCodePattern.MatchString(query) || quotedPattern.MatchString(query) || filePathPattern.MatchString(query) {
		return true
	}
	if camelCasePattern.MatchString(query) || pascalCasePattern.MatchString(query) ||
		snakeCasePattern.MatchString(query) || screamingSnakePattern.MatchString(query) {
		return true
	}
	return codePunctuationPattern.MatchString(query)
}
