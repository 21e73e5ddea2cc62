package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testPackages = []Package{
	{Name: "@app/core", Path: "packages/core"},
	{Name: "@app/ui", Path: "packages/ui"},
}

var testAliases = []AliasRule{
	{Pattern: "@/*", Targets: []string{"src/*"}},
	{Pattern: "~/*", Targets: []string{"./*"}},
}

func TestResolveAlias_WorkspacePackageName(t *testing.T) {
	got := ResolveAlias("@app/core", testPackages, testAliases)
	assert.True(t, got.Internal)
	assert.Equal(t, "packages/core", got.Target)
}

func TestResolveAlias_WorkspaceSubpath(t *testing.T) {
	got := ResolveAlias("@app/core/utils", testPackages, testAliases)
	assert.True(t, got.Internal)
	assert.Equal(t, "packages/core", got.Target)
}

func TestResolveAlias_WildcardAlias(t *testing.T) {
	got := ResolveAlias("@/components/Button", testPackages, testAliases)
	assert.True(t, got.Internal)
	assert.Equal(t, "src/components/Button", got.Target)
}

func TestResolveAlias_RelativeImport(t *testing.T) {
	got := ResolveAlias("./sibling", testPackages, testAliases)
	assert.True(t, got.Internal)

	got2 := ResolveAlias("../parent/mod", testPackages, testAliases)
	assert.True(t, got2.Internal)
}

func TestResolveAlias_ExternalImport(t *testing.T) {
	got := ResolveAlias("lodash", testPackages, testAliases)
	assert.False(t, got.Internal)
	assert.Equal(t, "lodash", got.Target)
}
