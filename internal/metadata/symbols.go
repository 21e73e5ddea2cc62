package metadata

import (
	"strings"

	"github.com/aman-cerp/semindex/internal/chunk"
	"github.com/aman-cerp/semindex/internal/store"
)

const maxDefinitionLen = 500

// BuildDefinition constructs the definition text persisted for a symbol:
// the signature line for functions/methods, class name plus method list for
// classes, first line (or the verbatim declaration) for variables, and the
// verbatim declaration truncated at 500 chars for types/interfaces.
func BuildDefinition(sym *chunk.Symbol, rawContent string) string {
	switch sym.Type {
	case chunk.SymbolTypeFunction, chunk.SymbolTypeMethod:
		if sym.Signature != "" {
			return sym.Signature
		}
		return firstLine(rawContent)

	case chunk.SymbolTypeClass:
		return buildClassDefinition(sym, rawContent)

	case chunk.SymbolTypeVariable, chunk.SymbolTypeConstant:
		return firstLine(rawContent)

	case chunk.SymbolTypeType, chunk.SymbolTypeInterface:
		return truncate(rawContent, maxDefinitionLen)
	}

	return truncate(rawContent, maxDefinitionLen)
}

// buildClassDefinition pairs the class signature with the names of its
// method-like members: every line after the first that contains "("
// contributes the last word before that "(" (a heuristic with no
// indentation or line-ending check).
func buildClassDefinition(sym *chunk.Symbol, rawContent string) string {
	signature := sym.Signature
	if signature == "" {
		signature = firstLine(rawContent)
	}

	var methods []string
	for _, line := range strings.Split(rawContent, "\n")[1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !strings.Contains(trimmed, "(") {
			continue
		}
		if name := methodNameFromLine(trimmed); name != "" {
			methods = append(methods, name)
		}
	}

	if len(methods) == 0 {
		return signature
	}
	return truncate(signature+" { "+strings.Join(methods, ", ")+" }", maxDefinitionLen)
}

func methodNameFromLine(line string) string {
	idx := strings.Index(line, "(")
	if idx <= 0 {
		return ""
	}
	before := strings.Fields(line[:idx])
	if len(before) == 0 {
		return ""
	}
	return before[len(before)-1]
}

// ResolveScope marks a symbol exported iff its name appears in the file's
// export list.
func ResolveScope(name string, exports []string) store.SymbolScope {
	for _, e := range exports {
		if e == name {
			return store.ScopeExported
		}
	}
	return store.ScopeInternal
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
