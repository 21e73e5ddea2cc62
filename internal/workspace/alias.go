package workspace

import "strings"

// ResolveAlias resolves a single import specifier against the known
// workspace package names and path-alias rules. Every resolution records
// whether it targets something internal to the repository:
//   - a workspace package name match is internal
//   - a matched wildcard alias rule (`@/*`, `~/*`) is internal
//   - a relative import (`./`, `../`) is internal
//   - anything else is external
func ResolveAlias(specifier string, packages []Package, aliases []AliasRule) ResolvedAlias {
	for _, pkg := range packages {
		if specifier == pkg.Name || strings.HasPrefix(specifier, pkg.Name+"/") {
			return ResolvedAlias{Alias: specifier, Target: pkg.Path, Internal: true}
		}
	}

	for _, rule := range aliases {
		if target, ok := matchAliasRule(specifier, rule); ok {
			return ResolvedAlias{Alias: specifier, Target: target, Internal: true}
		}
	}

	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		return ResolvedAlias{Alias: specifier, Target: specifier, Internal: true}
	}

	return ResolvedAlias{Alias: specifier, Target: specifier, Internal: false}
}

// matchAliasRule matches specifier against a single alias rule. A rule
// ending in "/*" matches any specifier sharing its prefix and substitutes
// the remainder into the first target (also expected to end in "/*").
func matchAliasRule(specifier string, rule AliasRule) (string, bool) {
	if len(rule.Targets) == 0 {
		return "", false
	}
	target := rule.Targets[0]

	if strings.HasSuffix(rule.Pattern, "/*") {
		prefix := strings.TrimSuffix(rule.Pattern, "/*")
		if !strings.HasPrefix(specifier, prefix+"/") && specifier != prefix {
			return "", false
		}
		remainder := strings.TrimPrefix(specifier, prefix)
		remainder = strings.TrimPrefix(remainder, "/")
		base := strings.TrimSuffix(target, "/*")
		if remainder == "" {
			return base, true
		}
		return base + "/" + remainder, true
	}

	if specifier == rule.Pattern {
		return target, true
	}
	return "", false
}
