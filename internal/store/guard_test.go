package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardStatement_BlocksDangerousStatements(t *testing.T) {
	cases := []string{
		"DROP TABLE code_chunks",
		"  truncate code_files",
		"ALTER TABLE repositories ADD COLUMN x TEXT",
		"GRANT ALL ON repositories TO public",
		"REVOKE ALL ON repositories FROM public",
		"CREATE USER attacker",
	}
	for _, sql := range cases {
		result, err := GuardStatement(sql)
		require.Error(t, err, sql)
		assert.True(t, result.Blocked, sql)
	}
}

func TestGuardStatement_AllowsOrdinaryQueries(t *testing.T) {
	result, err := GuardStatement("SELECT * FROM code_chunks WHERE repo_id = $1")
	require.NoError(t, err)
	assert.False(t, result.Blocked)
	assert.Empty(t, result.Warnings)
}

func TestGuardStatement_WarnsOnNonPublicSchemaReference(t *testing.T) {
	result, err := GuardStatement("SELECT * FROM admin.code_chunks")
	require.NoError(t, err)
	assert.False(t, result.Blocked)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "admin")
}

func TestGuardStatement_DoesNotWarnOnPublicOrInformationSchema(t *testing.T) {
	result, err := GuardStatement("SELECT * FROM public.code_chunks JOIN information_schema.columns ON true")
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
}
