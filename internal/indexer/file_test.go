package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aman-cerp/semindex/internal/chunk"
)

func TestCountLines_EmptyIsZero(t *testing.T) {
	assert.Equal(t, 0, countLines(nil))
}

func TestCountLines_NoTrailingNewline(t *testing.T) {
	assert.Equal(t, 1, countLines([]byte("package main")))
}

func TestCountLines_CountsEachNewline(t *testing.T) {
	assert.Equal(t, 3, countLines([]byte("a\nb\nc\n")))
}

func TestSymbolNames_FiltersByRequestedTypes(t *testing.T) {
	symbols := []*chunk.Symbol{
		{Name: "Run", Type: chunk.SymbolTypeFunction},
		{Name: "Server", Type: chunk.SymbolTypeClass},
		{Name: "Handle", Type: chunk.SymbolTypeMethod},
		{Name: "count", Type: chunk.SymbolTypeVariable},
	}

	names := symbolNames(symbols, chunk.SymbolTypeFunction, chunk.SymbolTypeMethod)
	assert.ElementsMatch(t, []string{"Run", "Handle"}, names)
}

func TestSymbolNames_NoMatchesReturnsNil(t *testing.T) {
	symbols := []*chunk.Symbol{{Name: "count", Type: chunk.SymbolTypeVariable}}
	names := symbolNames(symbols, chunk.SymbolTypeClass)
	assert.Nil(t, names)
}

func TestBoolString(t *testing.T) {
	assert.Equal(t, "true", boolString(true))
	assert.Equal(t, "false", boolString(false))
}
