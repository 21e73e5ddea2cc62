package service

import (
	"os"
	"path/filepath"
	"strings"
)

var openAPINames = []string{"openapi.yaml", "openapi.yml", "openapi.json", "swagger.yaml", "swagger.yml", "swagger.json"}

var graphqlExtensions = []string{".graphql", ".gql"}

// DiscoverContracts looks for an OpenAPI/Swagger document and GraphQL
// schema directly under svcPath, and recursively for .proto files anywhere
// beneath it.
func DiscoverContracts(repoRoot, svcPath string) Contracts {
	contracts := Contracts{}
	dir := filepath.Join(repoRoot, svcPath)

	for _, name := range openAPINames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			contracts["openapi"] = filepath.Join(svcPath, name)
			break
		}
	}

	if graphqlPath, ok := findFirstWithExt(dir, graphqlExtensions); ok {
		rel, _ := filepath.Rel(repoRoot, graphqlPath)
		contracts["graphql"] = rel
	}

	if protoPath, ok := findFirstRecursive(dir, ".proto"); ok {
		rel, _ := filepath.Rel(repoRoot, protoPath)
		contracts["grpc"] = rel
	}

	return contracts
}

func findFirstWithExt(dir string, exts []string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, ext := range exts {
			if strings.HasSuffix(e.Name(), ext) {
				return filepath.Join(dir, e.Name()), true
			}
		}
	}
	return "", false
}

func findFirstRecursive(root, ext string) (string, bool) {
	var found string
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || found != "" {
			return nil
		}
		if info.IsDir() {
			if info.Name() == "node_modules" || info.Name() == "vendor" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ext) {
			found = path
		}
		return nil
	})
	return found, found != ""
}
