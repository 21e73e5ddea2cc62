// Package service scans conventional monorepo directories for deployable
// services, enriches them with docker-compose data, classifies each by
// type, and discovers its API contract files.
package service

import "github.com/aman-cerp/semindex/internal/store"

// conventionalDirs are scanned (non-recursively at depth 1) for service
// candidates, in the order named by the spec.
var conventionalDirs = []string{"services", "apps", "packages", "microservices"}

// Candidate is a detected service directory before classification.
type Candidate struct {
	Name string
	Path string // relative to repo root
}

// ComposeInfo is the docker-compose data enriching a matched service.
type ComposeInfo struct {
	Ports       []int
	Environment map[string]string
	Volumes     []string
	DependsOn   []string
}

// Contracts maps a contract format name (openapi, graphql, grpc) to the
// relative path of the discovered contract file.
type Contracts map[string]string

// Detected is a fully classified service ready to persist.
type Detected struct {
	Name      string
	Path      string
	Type      store.ServiceType
	Ports     []int
	Contracts Contracts
}
