package workspace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DetectPackages reads the root manifest (package.json "workspaces", or
// pnpm-workspace.yaml "packages"), expands each glob entry against the
// filesystem, and reads each matched package directory's own manifest for
// name/version/dependencies.
func DetectPackages(repoRoot string) ([]Package, error) {
	globs, err := readWorkspaceGlobs(repoRoot)
	if err != nil || len(globs) == 0 {
		return nil, err
	}

	var dirs []string
	seen := map[string]bool{}
	for _, g := range globs {
		matches, err := filepath.Glob(filepath.Join(repoRoot, g))
		if err != nil {
			continue
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.IsDir() {
				continue
			}
			rel, err := filepath.Rel(repoRoot, m)
			if err != nil || seen[rel] {
				continue
			}
			seen[rel] = true
			dirs = append(dirs, rel)
		}
	}
	sort.Strings(dirs)

	packages := make([]Package, 0, len(dirs))
	for _, dir := range dirs {
		pkg, ok := readPackageManifest(repoRoot, dir)
		if ok {
			packages = append(packages, pkg)
		}
	}
	return packages, nil
}

// readWorkspaceGlobs reads the root manifest's workspace glob list,
// preferring package.json (JSON "workspaces" array, possibly nested under
// {"packages": [...]}) and falling back to pnpm-workspace.yaml.
func readWorkspaceGlobs(repoRoot string) ([]string, error) {
	if data, err := os.ReadFile(filepath.Join(repoRoot, "package.json")); err == nil {
		var raw struct {
			Workspaces json.RawMessage `json:"workspaces"`
		}
		if err := json.Unmarshal(data, &raw); err == nil && len(raw.Workspaces) > 0 {
			var list []string
			if err := json.Unmarshal(raw.Workspaces, &list); err == nil {
				return list, nil
			}
			var nested struct {
				Packages []string `json:"packages"`
			}
			if err := json.Unmarshal(raw.Workspaces, &nested); err == nil {
				return nested.Packages, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join(repoRoot, "pnpm-workspace.yaml")); err == nil {
		var m rootManifest
		if err := yaml.Unmarshal(data, &m); err == nil {
			return m.Workspaces, nil
		}
	}

	return nil, nil
}

// readPackageManifest reads dir's own package.json (or pyproject.toml-style
// metadata is out of scope here; JS/TS monorepos are the primary target).
func readPackageManifest(repoRoot, dir string) (Package, bool) {
	path := filepath.Join(repoRoot, dir, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return Package{}, false
	}

	var m packageManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Package{}, false
	}

	deps := make([]string, 0, len(m.Dependencies)+len(m.DevDependencies))
	for name := range m.Dependencies {
		deps = append(deps, name)
	}
	for name := range m.DevDependencies {
		deps = append(deps, name)
	}
	sort.Strings(deps)

	name := m.Name
	if name == "" {
		name = strings.TrimPrefix(dir, "./")
	}

	return Package{
		Name:         name,
		Path:         dir,
		Version:      m.Version,
		Dependencies: deps,
	}, true
}
