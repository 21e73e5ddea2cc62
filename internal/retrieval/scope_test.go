package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyIncludeExclude_RemovesExcluded(t *testing.T) {
	out := applyIncludeExclude([]string{"a", "b", "c"}, []string{"b"})
	assert.Equal(t, []string{"a", "c"}, out)
}

func TestResolveIDSet_FallsBackToAllWhenIncludeEmpty(t *testing.T) {
	out := resolveIDSet([]string{"a", "b", "c"}, nil, []string{"c"})
	assert.Equal(t, []string{"a", "b"}, out)
}

func TestResolveIDSet_IncludeSetWins(t *testing.T) {
	out := resolveIDSet([]string{"a", "b", "c"}, []string{"a", "b"}, []string{"a"})
	assert.Equal(t, []string{"b"}, out)
}
