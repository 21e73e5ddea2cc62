package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveRepoID_Deterministic(t *testing.T) {
	a := deriveRepoID("/home/user/project")
	b := deriveRepoID("/home/user/project")
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestDeriveRepoID_DiffersByRoot(t *testing.T) {
	a := deriveRepoID("/home/user/project-a")
	b := deriveRepoID("/home/user/project-b")
	assert.NotEqual(t, a, b)
}

func TestLongestPrefixMatch_PicksDeepestOwner(t *testing.T) {
	owners := []prefixOwner{
		{prefix: "packages", id: "ws-root", name: "root"},
		{prefix: "packages/api", id: "ws-api", name: "api"},
	}

	id, name := longestPrefixMatch(owners, "packages/api/handler.go")
	assert.Equal(t, "ws-api", id)
	assert.Equal(t, "api", name)
}

func TestLongestPrefixMatch_ExactPathMatches(t *testing.T) {
	owners := []prefixOwner{{prefix: "services/web", id: "svc-web", name: "web"}}
	id, _ := longestPrefixMatch(owners, "services/web")
	assert.Equal(t, "svc-web", id)
}

func TestLongestPrefixMatch_NoMatchReturnsEmpty(t *testing.T) {
	owners := []prefixOwner{{prefix: "packages/api", id: "ws-api", name: "api"}}
	id, name := longestPrefixMatch(owners, "packages/web/index.ts")
	assert.Empty(t, id)
	assert.Empty(t, name)
}

func TestLongestPrefixMatch_SkipsRootPrefix(t *testing.T) {
	owners := []prefixOwner{{prefix: ".", id: "ws-root", name: "root"}}
	id, _ := longestPrefixMatch(owners, "main.go")
	assert.Empty(t, id)
}

func TestPathOwnership_WorkspaceAndServiceAreIndependent(t *testing.T) {
	owners := pathOwnership{
		workspaces: []prefixOwner{{prefix: "apps/web", id: "ws-web", name: "web"}},
		services:   []prefixOwner{{prefix: "apps/web", id: "svc-web", name: "web"}},
	}

	wsID, _ := owners.workspaceFor("apps/web/main.go")
	svcID, _ := owners.serviceFor("apps/web/main.go")
	assert.Equal(t, "ws-web", wsID)
	assert.Equal(t, "svc-web", svcID)
}
