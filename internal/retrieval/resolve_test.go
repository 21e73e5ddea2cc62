package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedUnique_DedupsAndSorts(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, sortedUnique([]string{"c", "a", "b", "a", ""}))
}

func TestBoundaryAllows_UnknownTargetIDsAlwaysKept(t *testing.T) {
	opts := ImportOptions{RespectWorkspaceBoundaries: true, RespectServiceBoundaries: true}
	source := fileNode{WorkspaceID: "ws1", ServiceID: "svc1"}
	target := fileNode{}
	assert.True(t, boundaryAllows(opts, source, target))
}

func TestBoundaryAllows_RejectsCrossWorkspaceWhenRespected(t *testing.T) {
	opts := ImportOptions{RespectWorkspaceBoundaries: true}
	source := fileNode{WorkspaceID: "ws1"}
	target := fileNode{WorkspaceID: "ws2"}
	assert.False(t, boundaryAllows(opts, source, target))
}

func TestBoundaryAllows_AllowsSameWorkspace(t *testing.T) {
	opts := ImportOptions{RespectWorkspaceBoundaries: true}
	source := fileNode{WorkspaceID: "ws1"}
	target := fileNode{WorkspaceID: "ws1"}
	assert.True(t, boundaryAllows(opts, source, target))
}

func TestBoundaryAllows_RejectsCrossServiceWhenRespected(t *testing.T) {
	opts := ImportOptions{RespectServiceBoundaries: true}
	source := fileNode{ServiceID: "svc1"}
	target := fileNode{ServiceID: "svc2"}
	assert.False(t, boundaryAllows(opts, source, target))
}

func TestImportOptions_WithDefaults_ClampsDepth(t *testing.T) {
	opts := ImportOptions{Depth: 9}.withDefaults()
	assert.Equal(t, 3, opts.Depth)

	opts = ImportOptions{}.withDefaults()
	assert.Equal(t, 2, opts.Depth)
}
