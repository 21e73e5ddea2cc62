package mcpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSearchInput_RejectsShortQuery(t *testing.T) {
	err := validateSearchInput(SearchCodebaseInput{Query: "a"})
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "query", valErr.Parameter)
}

func TestValidateSearchInput_RejectsEmptyQuery(t *testing.T) {
	err := validateSearchInput(SearchCodebaseInput{Query: "   "})
	assert.Error(t, err)
}

func TestValidateSearchInput_AcceptsMinimalValidQuery(t *testing.T) {
	err := validateSearchInput(SearchCodebaseInput{Query: "db"})
	assert.NoError(t, err)
}

func TestValidateSearchInput_RejectsOutOfRangeThreshold(t *testing.T) {
	err := validateSearchInput(SearchCodebaseInput{Query: "connection pool", SimilarityThreshold: 1.5})
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "similarity_threshold", valErr.Parameter)
}

func TestValidateSearchInput_ZeroThresholdIsUnsetNotInvalid(t *testing.T) {
	err := validateSearchInput(SearchCodebaseInput{Query: "connection pool", SimilarityThreshold: 0})
	assert.NoError(t, err)
}

func TestValidateSearchInput_RejectsMaxFilesOutOfRange(t *testing.T) {
	err := validateSearchInput(SearchCodebaseInput{Query: "connection pool", MaxFiles: 51})
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "max_files", valErr.Parameter)
}

func TestValidateSearchInput_RejectsMaxSnippetsOutOfRange(t *testing.T) {
	err := validateSearchInput(SearchCodebaseInput{Query: "connection pool", MaxSnippets: 101})
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "max_snippets", valErr.Parameter)
}

func TestValidateSearchInput_RejectsImportDepthOutOfRange(t *testing.T) {
	err := validateSearchInput(SearchCodebaseInput{Query: "connection pool", ImportDepth: 4})
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "import_depth", valErr.Parameter)
}

func TestValidateSearchInput_RejectsDependencyDepthOutOfRange(t *testing.T) {
	err := validateSearchInput(SearchCodebaseInput{Query: "connection pool", DependencyDepth: 6})
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "dependency_depth", valErr.Parameter)
}
