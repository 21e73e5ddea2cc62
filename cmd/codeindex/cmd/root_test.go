package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRootCmd_RegistersSubcommands(t *testing.T) {
	root := NewRootCmd()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["index"])
	assert.True(t, names["search"])
	assert.True(t, names["serve"])
}

func TestNewRootCmd_HasDebugFlag(t *testing.T) {
	root := NewRootCmd()
	flag := root.PersistentFlags().Lookup("debug")
	assert.NotNil(t, flag)
}

func TestNewSearchCmd_RejectsMissingQuery(t *testing.T) {
	cmd := newSearchCmd()
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	assert.Error(t, err)
}

func TestNewIndexCmd_AcceptsAtMostOnePathArg(t *testing.T) {
	cmd := newIndexCmd()
	assert.NoError(t, cmd.Args(cmd, []string{"/some/path"}))
	assert.Error(t, cmd.Args(cmd, []string{"/a", "/b"}))
}
