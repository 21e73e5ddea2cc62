package service

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aman-cerp/semindex/internal/store"
)

var serverlessMarkers = []string{"serverless.yml", "serverless.yaml", "vercel.json", "netlify.toml"}
var mobileMarkers = []string{"pubspec.yaml", "Podfile", "app.json"}

// Classify determines a candidate's ServiceType following the spec's fixed
// precedence: compose presence → serverless framework file → mobile
// framework file → API contract file → manifest dependency heuristics →
// library fallback.
func Classify(repoRoot string, c Candidate, composed map[string]ComposeInfo, contracts Contracts) store.ServiceType {
	dir := filepath.Join(repoRoot, c.Path)

	if _, ok := composed[c.Name]; ok {
		return store.ServiceTypeDocker
	}

	if hasAny(dir, serverlessMarkers) {
		return store.ServiceTypeServerless
	}

	if hasAny(dir, mobileMarkers) {
		return store.ServiceTypeMobile
	}

	switch {
	case contracts["grpc"] != "":
		return store.ServiceTypeGRPC
	case contracts["graphql"] != "":
		return store.ServiceTypeGraphQL
	case contracts["openapi"] != "":
		return store.ServiceTypeREST
	}

	if t, ok := classifyByManifestDeps(dir); ok {
		return t
	}

	return store.ServiceTypeLibrary
}

// classifyByManifestDeps inspects package.json dependencies for
// frameworks characteristic of a REST, GraphQL, or gRPC server.
func classifyByManifestDeps(dir string) (store.ServiceType, bool) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return "", false
	}

	var m struct {
		Dependencies map[string]string `json:"dependencies"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return "", false
	}

	switch {
	case has(m.Dependencies, "@grpc/grpc-js", "grpc"):
		return store.ServiceTypeGRPC, true
	case has(m.Dependencies, "apollo-server", "graphql-yoga", "@apollo/server"):
		return store.ServiceTypeGraphQL, true
	case has(m.Dependencies, "express", "fastify", "koa", "@nestjs/core"):
		return store.ServiceTypeREST, true
	}
	return "", false
}

func has(deps map[string]string, names ...string) bool {
	for _, n := range names {
		if _, ok := deps[n]; ok {
			return true
		}
	}
	return false
}

func hasAny(dir string, names []string) bool {
	for _, n := range names {
		if _, err := os.Stat(filepath.Join(dir, n)); err == nil {
			return true
		}
	}
	return false
}
