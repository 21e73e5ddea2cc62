package metadata

import "regexp"

// Per-language import-statement patterns, each capturing the module/package
// path a file depends on. Grounded in the same family-by-family regex style
// as endpoints.go.
var (
	jsImportPattern  = regexp.MustCompile(`(?m)^\s*import\s+(?:[\w*{}\s,]+\s+from\s+)?['"]([^'"]+)['"]`)
	jsRequirePattern = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	pyImportPattern  = regexp.MustCompile(`(?m)^\s*(?:from\s+([\w.]+)\s+import|import\s+([\w.]+))`)
	goImportPattern  = regexp.MustCompile(`(?m)^\s*(?:\w+\s+)?"([^"]+)"`)
	rustUsePattern   = regexp.MustCompile(`(?m)^\s*use\s+([\w:]+)`)
	javaImportPattern = regexp.MustCompile(`(?m)^\s*import\s+(?:static\s+)?([\w.]+)(?:\.\*)?\s*;`)
	csImportPattern   = regexp.MustCompile(`(?m)^\s*using\s+([\w.]+)\s*;`)
)

// ExtractImportPaths scans source text for import/require/use declarations
// and returns the deduplicated list of module paths a file depends on,
// per the language dispatch named in §4.2.
func ExtractImportPaths(language, source string) []string {
	var raw []string
	switch language {
	case "typescript", "javascript", "tsx", "jsx":
		for _, m := range jsImportPattern.FindAllStringSubmatch(source, -1) {
			raw = append(raw, m[1])
		}
		for _, m := range jsRequirePattern.FindAllStringSubmatch(source, -1) {
			raw = append(raw, m[1])
		}
	case "python":
		for _, m := range pyImportPattern.FindAllStringSubmatch(source, -1) {
			if m[1] != "" {
				raw = append(raw, m[1])
			} else {
				raw = append(raw, m[2])
			}
		}
	case "go":
		block := importBlock(source)
		for _, m := range goImportPattern.FindAllStringSubmatch(block, -1) {
			raw = append(raw, m[1])
		}
	case "rust":
		for _, m := range rustUsePattern.FindAllStringSubmatch(source, -1) {
			raw = append(raw, m[1])
		}
	case "java", "kotlin":
		for _, m := range javaImportPattern.FindAllStringSubmatch(source, -1) {
			raw = append(raw, m[1])
		}
	case "csharp":
		for _, m := range csImportPattern.FindAllStringSubmatch(source, -1) {
			raw = append(raw, m[1])
		}
	}
	return DedupNonEmpty(raw)
}

// importBlock returns Go's `import ( ... )` or `import "..."` region so the
// generic quoted-string scan doesn't pick up unrelated string literals.
func importBlock(source string) string {
	start := -1
	for i := 0; i+6 <= len(source); i++ {
		if source[i:i+6] == "import" {
			start = i
			break
		}
	}
	if start == -1 {
		return ""
	}
	end := start + 6
	for end < len(source) && source[end] != '\n' {
		end++
	}
	rest := source[start:]
	if idx := regexp.MustCompile(`import\s*\(`).FindStringIndex(rest); idx != nil {
		closeIdx := regexp.MustCompile(`\)`).FindStringIndex(rest[idx[1]:])
		if closeIdx != nil {
			return rest[idx[1] : idx[1]+closeIdx[0]]
		}
	}
	return source[start:end]
}

var (
	tsExportPattern  = regexp.MustCompile(`(?m)^\s*export\s+(?:default\s+)?(?:async\s+)?(?:function|class|const|let|var|interface|type|enum)\s+(\w+)`)
	goExportPattern  = regexp.MustCompile(`(?m)^\s*(?:func|type|const|var)\s+(?:\([^)]*\)\s*)?([A-Z]\w*)`)
	rustPubPattern   = regexp.MustCompile(`(?m)^\s*pub\s+(?:fn|struct|enum|trait|const|static)\s+(\w+)`)
	javaPublicPattern = regexp.MustCompile(`(?m)^\s*public\s+(?:static\s+)?(?:final\s+)?(?:class|interface|enum)\s+(\w+)`)
)

// ExtractExports derives a file's exported identifier names from its source
// text, dispatching per the language export semantics named in §4.2: JS/TS
// explicit `export`, Python none, Java/C# implicit public top-level, Go
// uppercase identifiers, Rust `pub` items.
func ExtractExports(language, source string) []string {
	var names []string
	switch language {
	case "typescript", "javascript", "tsx", "jsx":
		for _, m := range tsExportPattern.FindAllStringSubmatch(source, -1) {
			names = append(names, m[1])
		}
	case "python":
		// Python has no explicit export syntax (§4.2); exports list stays empty.
	case "go":
		for _, m := range goExportPattern.FindAllStringSubmatch(source, -1) {
			names = append(names, m[1])
		}
	case "rust":
		for _, m := range rustPubPattern.FindAllStringSubmatch(source, -1) {
			names = append(names, m[1])
		}
	case "java", "kotlin", "csharp":
		for _, m := range javaPublicPattern.FindAllStringSubmatch(source, -1) {
			names = append(names, m[1])
		}
	}
	return DedupNonEmpty(names)
}
