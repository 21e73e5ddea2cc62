package chunk

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildGoFunc returns a Go function with bodyLines simple statements, so its
// total line span (signature + body + closing brace) is bodyLines+2.
func buildGoFunc(name string, bodyLines int) string {
	lines := make([]string, bodyLines)
	for i := range lines {
		lines[i] = fmt.Sprintf("\tx%d := %d", i, i)
	}
	return fmt.Sprintf("func %s() {\n%s\n}\n", name, strings.Join(lines, "\n"))
}

// fillerLines returns n lines of comment, used to pad a file past a size
// threshold without affecting declaration extraction.
func fillerLines(n int, comment string) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = comment
	}
	return strings.Join(lines, "\n")
}

func chunksOfKind(chunks []*Chunk, kind Kind) []*Chunk {
	var out []*Chunk
	for _, c := range chunks {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func TestCodeChunker_NormalGoFile_SummaryFirstThenQualifyingFunctions(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	source := "package demo\n\n" +
		buildGoFunc("First", 9) + "\n" +
		buildGoFunc("Second", 9) + "\n"

	file := &FileInput{Path: "demo.go", Content: []byte(source), Language: "go"}
	chunks, err := chunker.Chunk(context.Background(), file)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	assert.Equal(t, KindFileSummary, chunks[0].Kind, "the file summary chunk is always emitted first")
	assert.Equal(t, 1, chunks[0].StartLine)

	funcChunks := chunksOfKind(chunks, KindFunction)
	require.Len(t, funcChunks, 2)
	names := []string{funcChunks[0].Symbols[0].Name, funcChunks[1].Symbols[0].Name}
	assert.ElementsMatch(t, []string{"First", "Second"}, names)
}

func TestCodeChunker_TinyFile_StillEmitsQualifyingFunctionChunk(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	// The whole file is well under the 50-line block-chunk floor, but it
	// contains a function at least 10 lines long.
	source := "package demo\n\n" + buildGoFunc("DoWork", 9)

	file := &FileInput{Path: "tiny.go", Content: []byte(source), Language: "go"}
	chunks, err := chunker.Chunk(context.Background(), file)
	require.NoError(t, err)

	funcChunks := chunksOfKind(chunks, KindFunction)
	require.Len(t, funcChunks, 1, "a qualifying function must be chunked even in a small file")
	assert.Equal(t, "DoWork", funcChunks[0].Symbols[0].Name)

	for _, c := range chunksOfKind(chunks, KindBlock) {
		assert.GreaterOrEqual(t, c.EndLine-c.StartLine+1, ChunkSizeMin, "no block chunk may span less than the minimum run length")
	}
}

func TestCodeChunker_ShortFunction_NotEmittedAsIndividualChunk(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	source := "package demo\n\nfunc Tiny() {\n\treturn\n}\n"
	file := &FileInput{Path: "short.go", Content: []byte(source), Language: "go"}
	chunks, err := chunker.Chunk(context.Background(), file)
	require.NoError(t, err)

	require.Len(t, chunks, 1, "a function under 10 lines in a small file produces only the summary chunk")
	assert.Equal(t, KindFileSummary, chunks[0].Kind)
}

func TestCodeChunker_ImportBlock_OnlyEmittedAtOrAboveMinSpan(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	t.Run("single-line import stays uncovered", func(t *testing.T) {
		source := "package demo\n\nimport \"fmt\"\n"
		file := &FileInput{Path: "single.go", Content: []byte(source), Language: "go"}
		chunks, err := chunker.Chunk(context.Background(), file)
		require.NoError(t, err)
		assert.Empty(t, chunksOfKind(chunks, KindImportBlock))
	})

	t.Run("parenthesized import block is chunked", func(t *testing.T) {
		source := "package demo\n\nimport (\n\t\"fmt\"\n\t\"os\"\n)\n\nfunc Run() {\n\tfmt.Println(os.Args)\n}\n"
		file := &FileInput{Path: "multi.go", Content: []byte(source), Language: "go"}
		chunks, err := chunker.Chunk(context.Background(), file)
		require.NoError(t, err)

		imports := chunksOfKind(chunks, KindImportBlock)
		require.Len(t, imports, 1)
		assert.Contains(t, imports[0].Metadata["imports"], "fmt")
		assert.Contains(t, imports[0].Metadata["imports"], "os")
	})
}

func TestCodeChunker_LargeFunction_KeptWholeWithWarning(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	source := "package demo\n\n" + buildGoFunc("Oversized", 510)
	file := &FileInput{Path: "large.go", Content: []byte(source), Language: "go"}

	result, err := chunker.CreateChunks(context.Background(), file)
	require.NoError(t, err)

	funcChunks := chunksOfKind(result.Chunks, KindFunction)
	require.Len(t, funcChunks, 1, "an oversized function is kept as a single chunk, not split")
	assert.Equal(t, "Oversized", funcChunks[0].Symbols[0].Name)
	assert.Greater(t, funcChunks[0].EndLine-funcChunks[0].StartLine+1, ChunkSizeMax)

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Oversized") {
			found = true
		}
	}
	assert.True(t, found, "a warning should record the oversized function")
}

func TestCodeChunker_ClassChunk_RecordsMethodNames(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	source := `export class UserService {
	private logger: Logger;

	constructor(config: Config) {
		this.logger = new Logger(config);
	}

	getUser(id: string): User | null {
		this.logger.info('Getting user: ' + id);
		return null;
	}
}
`
	file := &FileInput{Path: "service.ts", Content: []byte(source), Language: "typescript"}
	chunks, err := chunker.Chunk(context.Background(), file)
	require.NoError(t, err)

	classes := chunksOfKind(chunks, KindClass)
	require.Len(t, classes, 1)
	assert.Equal(t, "UserService", classes[0].Metadata["class_name"])
	assert.Contains(t, classes[0].Metadata["methods"], "getUser")
}

func TestCodeChunker_BlockChunk_CoversUncoveredRunAtOrAboveMinimum(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	entries := make([]string, 60)
	for i := range entries {
		entries[i] = fmt.Sprintf("\tV%d = %d", i, i)
	}
	source := "package bigvars\n\nvar (\n" + strings.Join(entries, "\n") + "\n)\n"

	file := &FileInput{Path: "vars.go", Content: []byte(source), Language: "go"}
	chunks, err := chunker.Chunk(context.Background(), file)
	require.NoError(t, err)

	blocks := chunksOfKind(chunks, KindBlock)
	require.Len(t, blocks, 1)
	assert.GreaterOrEqual(t, blocks[0].EndLine-blocks[0].StartLine+1, ChunkSizeMin)
	assert.Contains(t, blocks[0].Content, "V0 = 0")
	assert.Contains(t, blocks[0].Content, "V59 = 59")
}

func TestCodeChunker_BlockChunk_NotEmittedBelowMinimum(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	entries := make([]string, 5)
	for i := range entries {
		entries[i] = fmt.Sprintf("\tV%d = %d", i, i)
	}
	source := "package smallvars\n\nvar (\n" + strings.Join(entries, "\n") + "\n)\n"

	file := &FileInput{Path: "smallvars.go", Content: []byte(source), Language: "go"}
	chunks, err := chunker.Chunk(context.Background(), file)
	require.NoError(t, err)

	assert.Empty(t, chunksOfKind(chunks, KindBlock))
	require.Len(t, chunks, 1)
	assert.Equal(t, KindFileSummary, chunks[0].Kind)
}

func TestCodeChunker_GoFile_DocCommentAttachedToQualifyingFunction(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	source := "package demo\n\n// Greet returns a friendly greeting for name.\n" + buildGoFunc("Greet", 9)
	file := &FileInput{Path: "greet.go", Content: []byte(source), Language: "go"}
	chunks, err := chunker.Chunk(context.Background(), file)
	require.NoError(t, err)

	funcChunks := chunksOfKind(chunks, KindFunction)
	require.Len(t, funcChunks, 1)
	assert.Contains(t, funcChunks[0].Symbols[0].DocComment, "friendly greeting")
}

func TestCodeChunker_VeryLargeFile_StructureOnlyFiltersByExportSemantics(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	t.Run("go keeps only uppercase-initial declarations", func(t *testing.T) {
		source := "package big\n\n" + fillerLines(5010, "// filler") +
			"\n\nfunc ExportedFn() {}\n\nfunc unexportedFn() {}\n"
		file := &FileInput{Path: "big.go", Content: []byte(source), Language: "go"}

		result, err := chunker.CreateChunks(context.Background(), file)
		require.NoError(t, err)
		require.True(t, result.IsLargeFile)

		blocks := chunksOfKind(result.Chunks, KindBlock)
		require.Len(t, blocks, 1)
		assert.Contains(t, blocks[0].Content, "ExportedFn")
		assert.NotContains(t, blocks[0].Content, "unexportedFn")
	})

	t.Run("python has no export surface", func(t *testing.T) {
		source := fillerLines(5010, "# filler") +
			"\n\ndef public_looking():\n    pass\n\ndef _private_looking():\n    pass\n"
		file := &FileInput{Path: "big.py", Content: []byte(source), Language: "python"}

		result, err := chunker.CreateChunks(context.Background(), file)
		require.NoError(t, err)
		require.True(t, result.IsLargeFile)

		blocks := chunksOfKind(result.Chunks, KindBlock)
		require.Len(t, blocks, 1)
		assert.Empty(t, blocks[0].Content, "python has no explicit export syntax")
	})

	t.Run("rust keeps only pub items", func(t *testing.T) {
		source := fillerLines(5010, "// filler") +
			"\n\npub fn exported_fn() {}\n\nfn private_fn() {}\n"
		file := &FileInput{Path: "big.rs", Content: []byte(source), Language: "rust"}

		result, err := chunker.CreateChunks(context.Background(), file)
		require.NoError(t, err)
		require.True(t, result.IsLargeFile)

		blocks := chunksOfKind(result.Chunks, KindBlock)
		require.Len(t, blocks, 1)
		assert.Contains(t, blocks[0].Content, "exported_fn")
		assert.NotContains(t, blocks[0].Content, "private_fn")
	})

	t.Run("java keeps only public top-level declarations", func(t *testing.T) {
		source := fillerLines(5010, "// filler") +
			"\n\npublic class ExportedClass {\n}\n\nclass HiddenClass {\n}\n"
		file := &FileInput{Path: "Big.java", Content: []byte(source), Language: "java"}

		result, err := chunker.CreateChunks(context.Background(), file)
		require.NoError(t, err)
		require.True(t, result.IsLargeFile)

		blocks := chunksOfKind(result.Chunks, KindBlock)
		require.Len(t, blocks, 1)
		assert.Contains(t, blocks[0].Content, "ExportedClass")
		assert.NotContains(t, blocks[0].Content, "HiddenClass")
	})

	t.Run("typescript keeps only declarations wrapped in export", func(t *testing.T) {
		source := fillerLines(5010, "// filler") +
			"\n\nexport function ExportedFn() {}\n\nfunction hiddenFn() {}\n"
		file := &FileInput{Path: "big.ts", Content: []byte(source), Language: "typescript"}

		result, err := chunker.CreateChunks(context.Background(), file)
		require.NoError(t, err)
		require.True(t, result.IsLargeFile)

		blocks := chunksOfKind(result.Chunks, KindBlock)
		require.Len(t, blocks, 1)
		assert.Contains(t, blocks[0].Content, "ExportedFn")
		assert.NotContains(t, blocks[0].Content, "hiddenFn")
	})
}

func TestCodeChunker_ChunkID_StableAcrossLineShifts(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	findByName := func(chunks []*Chunk, name string) *Chunk {
		for _, c := range chunksOfKind(chunks, KindFunction) {
			if c.Symbols[0].Name == name {
				return c
			}
		}
		return nil
	}

	source1 := "package demo\n\n" + buildGoFunc("Hello", 9)
	source2 := "package demo\n\n// a leading comment to shift line numbers\n\n" + buildGoFunc("Hello", 9)

	file1 := &FileInput{Path: "shift.go", Content: []byte(source1), Language: "go"}
	file2 := &FileInput{Path: "shift.go", Content: []byte(source2), Language: "go"}

	chunks1, err := chunker.Chunk(context.Background(), file1)
	require.NoError(t, err)
	chunks2, err := chunker.Chunk(context.Background(), file2)
	require.NoError(t, err)

	hello1 := findByName(chunks1, "Hello")
	hello2 := findByName(chunks2, "Hello")
	require.NotNil(t, hello1)
	require.NotNil(t, hello2)
	assert.Equal(t, hello1.ID, hello2.ID, "identical function content should produce the same chunk ID regardless of line position")
}

func TestCodeChunker_ChunkID_DifferentContentDifferentID(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	source := "package demo\n\n" + buildGoFunc("First", 9) + "\n" + buildGoFunc("Second", 9)
	file := &FileInput{Path: "distinct.go", Content: []byte(source), Language: "go"}

	chunks, err := chunker.Chunk(context.Background(), file)
	require.NoError(t, err)

	funcChunks := chunksOfKind(chunks, KindFunction)
	require.Len(t, funcChunks, 2)
	assert.NotEqual(t, funcChunks[0].ID, funcChunks[1].ID)
}

func TestCodeChunker_ChunkID_SameContentDifferentFile(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	source := "package demo\n\n" + buildGoFunc("Shared", 9)
	fileA := &FileInput{Path: "a.go", Content: []byte(source), Language: "go"}
	fileB := &FileInput{Path: "b.go", Content: []byte(source), Language: "go"}

	chunksA, err := chunker.Chunk(context.Background(), fileA)
	require.NoError(t, err)
	chunksB, err := chunker.Chunk(context.Background(), fileB)
	require.NoError(t, err)

	funcsA := chunksOfKind(chunksA, KindFunction)
	funcsB := chunksOfKind(chunksB, KindFunction)
	require.Len(t, funcsA, 1)
	require.Len(t, funcsB, 1)
	assert.NotEqual(t, funcsA[0].ID, funcsB[0].ID, "identical content in different files must not collide")
}

func TestCodeChunker_ChunkUnsupportedLanguage_UsesLineFallback(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	lines := make([]string, 300)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d of a language this chunker does not parse", i)
	}
	source := strings.Join(lines, "\n")

	file := &FileInput{Path: "notes.txt", Content: []byte(source), Language: "plaintext"}
	chunks, err := chunker.Chunk(context.Background(), file)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for _, c := range chunks {
		assert.Equal(t, KindBlock, c.Kind)
		assert.Equal(t, ContentTypeText, c.ContentType)
	}
}

func TestCodeChunker_EmptyFile_ReturnsNoChunks(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	file := &FileInput{Path: "empty.go", Content: []byte(""), Language: "go"}
	chunks, err := chunker.Chunk(context.Background(), file)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestCodeChunker_OnlyPackageDecl_ReturnsSummaryChunkOnly(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	file := &FileInput{Path: "onlypkg.go", Content: []byte("package main\n"), Language: "go"}
	chunks, err := chunker.Chunk(context.Background(), file)
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, KindFileSummary, chunks[0].Kind)
}

func TestCodeChunker_SupportedExtensions(t *testing.T) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	exts := chunker.SupportedExtensions()
	assert.Contains(t, exts, ".go")
	assert.Contains(t, exts, ".py")
	assert.Contains(t, exts, ".ts")
}

func BenchmarkCodeChunker_ChunkGoFile(b *testing.B) {
	chunker := NewCodeChunker()
	defer chunker.Close()

	source := "package demo\n\n" + buildGoFunc("Hello", 9) + "\n" + buildGoFunc("World", 9)
	file := &FileInput{Path: "bench.go", Content: []byte(source), Language: "go"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = chunker.Chunk(context.Background(), file)
	}
}
