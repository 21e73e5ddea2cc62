package store

import (
	"regexp"
	"strings"

	amanerrors "github.com/aman-cerp/semindex/internal/errors"
)

// blockedStatements are dangerous database-level statements the query guard
// refuses outright, regardless of caller. Matched case-insensitively against
// the start of the whitespace-trimmed statement; SQL comments are not stripped.
var blockedStatements = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*DROP\s+(TABLE|DATABASE|SCHEMA|EXTENSION)\b`),
	regexp.MustCompile(`(?i)^\s*TRUNCATE\b`),
	regexp.MustCompile(`(?i)^\s*ALTER\s+(TABLE|DATABASE|SCHEMA)\b`),
	regexp.MustCompile(`(?i)^\s*GRANT\b`),
	regexp.MustCompile(`(?i)^\s*REVOKE\b`),
	regexp.MustCompile(`(?i)^\s*CREATE\s+(USER|ROLE)\b`),
	regexp.MustCompile(`(?i)^\s*(DROP|CREATE)\s+(USER|ROLE)\b`),
}

// nonPublicSchemaRef flags references to a schema other than public or
// information_schema, which warrants a warning rather than an outright block
// since some deployments legitimately use additional schemas.
var nonPublicSchemaRef = regexp.MustCompile(`(?i)\b([a-zA-Z_][a-zA-Z0-9_]*)\.(repositories|code_files|code_chunks|code_symbols|workspaces|services)\b`)

// GuardResult is the outcome of checking a statement before execution.
type GuardResult struct {
	Blocked  bool
	Warnings []string
}

// GuardStatement rejects statements matching the blocklist and warns on
// references to non-public, non-information_schema schemas.
func GuardStatement(sql string) (GuardResult, error) {
	trimmed := strings.TrimSpace(sql)

	for _, pattern := range blockedStatements {
		if pattern.MatchString(trimmed) {
			return GuardResult{Blocked: true}, amanerrors.SecurityError(
				"DB_STATEMENT_BLOCKED",
				"statement matches the database query guard blocklist: "+pattern.String(),
			)
		}
	}

	var warnings []string
	for _, m := range nonPublicSchemaRef.FindAllStringSubmatch(trimmed, -1) {
		schema := m[1]
		if !strings.EqualFold(schema, "public") && !strings.EqualFold(schema, "information_schema") {
			warnings = append(warnings, "statement references non-public schema: "+schema)
		}
	}

	return GuardResult{Warnings: warnings}, nil
}
