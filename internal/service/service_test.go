package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-cerp/semindex/internal/store"
)

func mkfile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDetectCandidates_ScansConventionalDirs(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "services/api/package.json"), "{}")
	mkfile(t, filepath.Join(root, "apps/web/package.json"), "{}")
	mkfile(t, filepath.Join(root, "README.md"), "ignored")

	candidates := DetectCandidates(root)
	require.Len(t, candidates, 2)
	assert.Equal(t, "apps/web", candidates[0].Path)
	assert.Equal(t, "services/api", candidates[1].Path)
}

func TestLoadCompose_ParsesPortsEnvAndDependsOn(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "docker-compose.yml"), `
services:
  api:
    ports:
      - "8080:80"
    environment:
      - FOO=bar
    depends_on:
      - db
  db:
    ports:
      - "5432:5432"
`)

	composed, err := LoadCompose(root)
	require.NoError(t, err)
	require.Contains(t, composed, "api")
	assert.Equal(t, []int{8080}, composed["api"].Ports)
	assert.Equal(t, "bar", composed["api"].Environment["FOO"])
	assert.Equal(t, []string{"db"}, composed["api"].DependsOn)
}

func TestLoadCompose_NoFileReturnsNil(t *testing.T) {
	root := t.TempDir()
	composed, err := LoadCompose(root)
	require.NoError(t, err)
	assert.Nil(t, composed)
}

func TestDiscoverContracts_FindsOpenAPIAndProto(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "services/api/openapi.yaml"), "openapi: 3.0.0")
	mkfile(t, filepath.Join(root, "services/api/proto/v1/api.proto"), "syntax = \"proto3\";")

	contracts := DiscoverContracts(root, "services/api")
	assert.Equal(t, "services/api/openapi.yaml", contracts["openapi"])
	assert.Contains(t, contracts["grpc"], "api.proto")
}

func TestClassify_ComposePresenceWins(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "services/api/serverless.yml"), "")

	composed := map[string]ComposeInfo{"api": {}}
	got := Classify(root, Candidate{Name: "api", Path: "services/api"}, composed, Contracts{})
	assert.Equal(t, store.ServiceTypeDocker, got)
}

func TestClassify_ServerlessMarker(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "services/fn/serverless.yml"), "")

	got := Classify(root, Candidate{Name: "fn", Path: "services/fn"}, nil, Contracts{})
	assert.Equal(t, store.ServiceTypeServerless, got)
}

func TestClassify_ContractFallsThroughToOpenAPI(t *testing.T) {
	root := t.TempDir()
	got := Classify(root, Candidate{Name: "api", Path: "services/api"}, nil, Contracts{"openapi": "services/api/openapi.yaml"})
	assert.Equal(t, store.ServiceTypeREST, got)
}

func TestClassify_LibraryFallback(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "packages/utils/package.json"), `{"dependencies":{"lodash":"^4.0.0"}}`)
	got := Classify(root, Candidate{Name: "utils", Path: "packages/utils"}, nil, Contracts{})
	assert.Equal(t, store.ServiceTypeLibrary, got)
}

func TestClassify_ManifestHeuristicDetectsExpress(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "services/api/package.json"), `{"dependencies":{"express":"^4.0.0"}}`)
	got := Classify(root, Candidate{Name: "api", Path: "services/api"}, nil, Contracts{})
	assert.Equal(t, store.ServiceTypeREST, got)
}
