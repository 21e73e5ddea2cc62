package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Default configuration
// =============================================================================

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, 15, cfg.Search.MaxFiles)
	assert.Equal(t, 25, cfg.Search.MaxSnippets)
	assert.Equal(t, 2, cfg.Search.ImportDepth)
	assert.Equal(t, 0.9, cfg.Search.DedupThreshold)
	assert.Equal(t, 0.5, cfg.Search.SimilarityThreshold)
	assert.Equal(t, 0.75, cfg.Search.ChunkSimilarityFloor)

	assert.Equal(t, "qwen3-embedding:8b", cfg.Embeddings.Model)
	assert.Equal(t, 0, cfg.Embeddings.Dimensions)
	assert.Equal(t, 5, cfg.Embeddings.BatchConcurrency)
	assert.Equal(t, 3, cfg.Embeddings.SummaryConcurrency)
	assert.Equal(t, 30*time.Second, cfg.Embeddings.RequestTimeout)

	assert.Equal(t, "codeindex", cfg.Database.DatabaseName)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)

	assert.Equal(t, 100000, cfg.Performance.MaxFiles)
	assert.Equal(t, runtime.NumCPU(), cfg.Performance.IndexWorkers)
	assert.Equal(t, 500, cfg.Performance.QueryCacheSize)
	assert.Equal(t, 30*time.Minute, cfg.Performance.QueryCacheTTL)

	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.Equal(t, 8765, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)

	assert.Equal(t, 50, cfg.Indexing.ChunkSizeMin)
	assert.Equal(t, 500, cfg.Indexing.ChunkSizeMax)
	assert.True(t, cfg.Indexing.EnableWorkspaceDetection)
	assert.True(t, cfg.Indexing.EnableServiceDetection)
	assert.True(t, cfg.Indexing.EnableAPIEndpointDetection)

	assert.Contains(t, cfg.Indexing.Paths.Exclude, "**/node_modules/**")
	assert.Contains(t, cfg.Indexing.Paths.Exclude, "**/.git/**")
	assert.Contains(t, cfg.Indexing.Paths.Exclude, "**/vendor/**")
}

func TestConfig_VersionDefaultsToOne(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, 1, cfg.Version)
}

// =============================================================================
// Configuration file loading
// =============================================================================

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 15, cfg.Search.MaxFiles)
}

func TestLoad_YamlFile_OverridesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `
version: 1
search:
  max_files: 30
  max_snippets: 50
  similarity_threshold: 0.6
`
	err := os.WriteFile(filepath.Join(tmpDir, ".codeindex.yaml"), []byte(configContent), 0o644)
	require.NoError(t, err)

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Search.MaxFiles)
	assert.Equal(t, 50, cfg.Search.MaxSnippets)
	assert.Equal(t, 0.6, cfg.Search.SimilarityThreshold)
}

func TestLoad_YmlExtension_IsRecognized(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `
version: 1
embeddings:
  model: custom-model
`
	err := os.WriteFile(filepath.Join(tmpDir, ".codeindex.yml"), []byte(configContent), 0o644)
	require.NoError(t, err)

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "custom-model", cfg.Embeddings.Model)
}

func TestLoad_YamlPreferredOverYml(t *testing.T) {
	tmpDir := t.TempDir()
	yamlContent := "version: 1\nembeddings:\n  model: from-yaml\n"
	ymlContent := "version: 1\nembeddings:\n  model: from-yml\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".codeindex.yaml"), []byte(yamlContent), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".codeindex.yml"), []byte(ymlContent), 0o644))

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "from-yaml", cfg.Embeddings.Model)
}

func TestLoad_InvalidYaml_ReturnsError(t *testing.T) {
	tmpDir := t.TempDir()
	invalidContent := "version: 1\nsearch:\n  max_files: [invalid yaml syntax\n"
	err := os.WriteFile(filepath.Join(tmpDir, ".codeindex.yaml"), []byte(invalidContent), 0o644)
	require.NoError(t, err)

	cfg, err := Load(tmpDir)

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "parse")
}

// =============================================================================
// Validation
// =============================================================================

func TestValidate_RejectsOutOfRangeSimilarityThreshold(t *testing.T) {
	cfg := NewConfig()
	cfg.Search.SimilarityThreshold = 1.5
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsOutOfRangeMaxFiles(t *testing.T) {
	cfg := NewConfig()
	cfg.Search.MaxFiles = 0
	assert.Error(t, cfg.Validate())

	cfg.Search.MaxFiles = 51
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsOutOfRangeImportDepth(t *testing.T) {
	cfg := NewConfig()
	cfg.Search.ImportDepth = 4
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsChunkSizeMaxBelowMin(t *testing.T) {
	cfg := NewConfig()
	cfg.Indexing.ChunkSizeMax = cfg.Indexing.ChunkSizeMin
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsUnknownTransport(t *testing.T) {
	cfg := NewConfig()
	cfg.Server.Transport = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.NoError(t, cfg.Validate())
}

// =============================================================================
// Project type detection
// =============================================================================

func TestDetectProjectType_GoMod_ReturnsGo(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "go.mod"), []byte("module test"), 0o644)
	require.NoError(t, err)

	assert.Equal(t, ProjectTypeGo, DetectProjectType(tmpDir))
}

func TestDetectProjectType_PackageJson_ReturnsNode(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "package.json"), []byte("{}"), 0o644)
	require.NoError(t, err)

	assert.Equal(t, ProjectTypeNode, DetectProjectType(tmpDir))
}

func TestDetectProjectType_PyprojectToml_ReturnsPython(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "pyproject.toml"), []byte("[project]"), 0o644)
	require.NoError(t, err)

	assert.Equal(t, ProjectTypePython, DetectProjectType(tmpDir))
}

func TestDetectProjectType_NoMarkerFiles_ReturnsUnknown(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "random.txt"), []byte("hello"), 0o644)
	require.NoError(t, err)

	assert.Equal(t, ProjectTypeUnknown, DetectProjectType(tmpDir))
}

func TestDetectProjectType_Priority_GoOverNode(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "go.mod"), []byte("module test"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "package.json"), []byte("{}"), 0o644))

	assert.Equal(t, ProjectTypeGo, DetectProjectType(tmpDir))
}

// =============================================================================
// Project root discovery
// =============================================================================

func TestFindProjectRoot_GitDirectory_ReturnsGitRoot(t *testing.T) {
	tmpDir := t.TempDir()
	gitDir := filepath.Join(tmpDir, ".git")
	nestedDir := filepath.Join(tmpDir, "src", "internal")
	require.NoError(t, os.Mkdir(gitDir, 0o755))
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))

	root, err := FindProjectRoot(nestedDir)

	require.NoError(t, err)
	assert.Equal(t, tmpDir, root)
}

func TestFindProjectRoot_ConfigFile_ReturnsConfigLocation(t *testing.T) {
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "src", "internal")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))
	err := os.WriteFile(filepath.Join(tmpDir, ".codeindex.yaml"), []byte("version: 1"), 0o644)
	require.NoError(t, err)

	root, err := FindProjectRoot(nestedDir)

	require.NoError(t, err)
	assert.Equal(t, tmpDir, root)
}

func TestFindProjectRoot_NoMarkers_ReturnsCurrentDir(t *testing.T) {
	tmpDir := t.TempDir()

	root, err := FindProjectRoot(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, tmpDir, root)
}

// =============================================================================
// Environment variable overrides
// =============================================================================

func TestLoad_EnvVarOverridesModel(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("CODEINDEX_EMBEDDINGS_MODEL", "all-minilm")

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "all-minilm", cfg.Embeddings.Model)
}

func TestLoad_EnvVarOverridesLogLevel(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("CODEINDEX_LOG_LEVEL", "debug")

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
}

func TestLoad_EnvVarOverridesTransport(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("CODEINDEX_TRANSPORT", "sse")

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "sse", cfg.Server.Transport)
}

func TestLoad_EnvVarOverridesSimilarityThreshold(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := "version: 1\nsearch:\n  similarity_threshold: 0.4\n"
	err := os.WriteFile(filepath.Join(tmpDir, ".codeindex.yaml"), []byte(configContent), 0o644)
	require.NoError(t, err)
	t.Setenv("CODEINDEX_SIMILARITY_THRESHOLD", "0.8")

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, 0.8, cfg.Search.SimilarityThreshold)
}

func TestLoad_EnvVarEmptyString_DoesNotOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("CODEINDEX_EMBEDDINGS_MODEL", "")

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "qwen3-embedding:8b", cfg.Embeddings.Model)
}

// =============================================================================
// User/global configuration
// =============================================================================

func TestGetUserConfigPath_DefaultsToXDGLocation(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	path := GetUserConfigPath()

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	expected := filepath.Join(home, ".config", "codeindex", "config.yaml")
	assert.Equal(t, expected, path)
}

func TestGetUserConfigPath_RespectsXDGConfigHome(t *testing.T) {
	customConfig := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", customConfig)

	path := GetUserConfigPath()

	expected := filepath.Join(customConfig, "codeindex", "config.yaml")
	assert.Equal(t, expected, path)
}

func TestGetUserConfigDir_ReturnsParentOfConfigPath(t *testing.T) {
	dir := GetUserConfigDir()
	path := GetUserConfigPath()

	assert.Equal(t, filepath.Dir(path), dir)
}

func TestUserConfigExists_ReturnsFalseWhenMissing(t *testing.T) {
	emptyDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", emptyDir)

	assert.False(t, UserConfigExists())
}

func TestUserConfigExists_ReturnsTrueWhenPresent(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	codeindexDir := filepath.Join(configDir, "codeindex")
	require.NoError(t, os.MkdirAll(codeindexDir, 0o755))
	configPath := filepath.Join(codeindexDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("version: 1"), 0o644))

	assert.True(t, UserConfigExists())
}

func TestLoad_UserConfigOverridesDefaults(t *testing.T) {
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	codeindexDir := filepath.Join(configDir, "codeindex")
	require.NoError(t, os.MkdirAll(codeindexDir, 0o755))
	userConfig := "version: 1\nembeddings:\n  host: http://custom-host:11434\n"
	require.NoError(t, os.WriteFile(filepath.Join(codeindexDir, "config.yaml"), []byte(userConfig), 0o644))

	cfg, err := Load(projectDir)

	require.NoError(t, err)
	assert.Equal(t, "http://custom-host:11434", cfg.Embeddings.Host)
}

func TestLoad_ProjectConfigOverridesUserConfig(t *testing.T) {
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	codeindexDir := filepath.Join(configDir, "codeindex")
	require.NoError(t, os.MkdirAll(codeindexDir, 0o755))
	userConfig := "version: 1\nembeddings:\n  host: http://user-host:11434\n  model: user-model\n"
	require.NoError(t, os.WriteFile(filepath.Join(codeindexDir, "config.yaml"), []byte(userConfig), 0o644))

	projectConfig := "version: 1\nembeddings:\n  model: project-model\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, ".codeindex.yaml"), []byte(projectConfig), 0o644))

	cfg, err := Load(projectDir)

	require.NoError(t, err)
	assert.Equal(t, "project-model", cfg.Embeddings.Model)
	assert.Equal(t, "http://user-host:11434", cfg.Embeddings.Host)
}

func TestLoad_EnvVarOverridesUserAndProjectConfig(t *testing.T) {
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	t.Setenv("CODEINDEX_EMBEDDINGS_MODEL", "env-model")

	codeindexDir := filepath.Join(configDir, "codeindex")
	require.NoError(t, os.MkdirAll(codeindexDir, 0o755))
	userConfig := "version: 1\nembeddings:\n  model: user-model\n"
	require.NoError(t, os.WriteFile(filepath.Join(codeindexDir, "config.yaml"), []byte(userConfig), 0o644))

	projectConfig := "version: 1\nembeddings:\n  model: project-model\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, ".codeindex.yaml"), []byte(projectConfig), 0o644))

	cfg, err := Load(projectDir)

	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.Embeddings.Model)
}

func TestLoad_InvalidUserConfig_ReturnsError(t *testing.T) {
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	codeindexDir := filepath.Join(configDir, "codeindex")
	require.NoError(t, os.MkdirAll(codeindexDir, 0o755))
	invalidConfig := "version: 1\nembeddings:\n  model: [invalid yaml\n"
	require.NoError(t, os.WriteFile(filepath.Join(codeindexDir, "config.yaml"), []byte(invalidConfig), 0o644))

	cfg, err := Load(projectDir)

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "user config")
}
