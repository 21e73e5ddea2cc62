package chunk

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// CodeChunkerOptions holds token settings for the code chunker. The chunker
// stores them but does not read them: chunk boundaries come from the line
// size tiers and the AST, and the line-window fallback uses fixed line counts.
type CodeChunkerOptions struct {
	MaxChunkTokens int // Token limit per chunk (default: DefaultMaxChunkTokens)
	OverlapTokens  int // Token overlap between chunks (default: DefaultOverlapTokens)
}

// CodeChunker implements AST-aware code chunking using tree-sitter
type CodeChunker struct {
	parser    *Parser
	extractor *SymbolExtractor
	registry  *LanguageRegistry
	options   CodeChunkerOptions
}

// NewCodeChunker creates a new code chunker with default options
func NewCodeChunker() *CodeChunker {
	return NewCodeChunkerWithOptions(CodeChunkerOptions{})
}

// NewCodeChunkerWithOptions creates a new code chunker with custom options
func NewCodeChunkerWithOptions(opts CodeChunkerOptions) *CodeChunker {
	if opts.MaxChunkTokens == 0 {
		opts.MaxChunkTokens = DefaultMaxChunkTokens
	}
	if opts.OverlapTokens == 0 {
		opts.OverlapTokens = DefaultOverlapTokens
	}

	registry := DefaultRegistry()
	return &CodeChunker{
		parser:    NewParserWithRegistry(registry),
		extractor: NewSymbolExtractorWithRegistry(registry),
		registry:  registry,
		options:   opts,
	}
}

// Close releases chunker resources
func (c *CodeChunker) Close() {
	if c.parser != nil {
		c.parser.Close()
	}
}

// SupportedExtensions returns file extensions this chunker handles
func (c *CodeChunker) SupportedExtensions() []string {
	return c.registry.SupportedExtensions()
}

// Chunk splits a file into semantic chunks, satisfying the Chunker interface.
func (c *CodeChunker) Chunk(ctx context.Context, file *FileInput) ([]*Chunk, error) {
	result, err := c.CreateChunks(ctx, file)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return result.Chunks, nil
}

// CreateChunks implements the createChunks(file, parseResult, content) ->
// {chunks, is_large_file, warnings} contract (§4.3). Every file under the
// very-large threshold — tiny, normal, and large alike — runs the same
// five-chunk-kind strategy (summary, import block, functions, classes,
// remaining top-level blocks): CHUNK_SIZE_MIN is the minimum run length for
// a block chunk, not a separate tiny-file algorithm, so a small file simply
// produces no block chunk (and sometimes no import block) while still
// emitting function/class chunks for anything that clears the 10-line bar.
// Very-large files get a structure-only summary + export list instead.
func (c *CodeChunker) CreateChunks(ctx context.Context, file *FileInput) (*ChunkResult, error) {
	if len(file.Content) == 0 {
		return &ChunkResult{}, nil
	}

	config, supported := c.registry.GetByName(file.Language)
	if !supported {
		chunks, err := c.chunkByLines(file)
		return &ChunkResult{Chunks: chunks}, err
	}

	tree, err := c.parser.Parse(ctx, file.Content, file.Language)
	if err != nil {
		chunks, ferr := c.chunkByLines(file)
		return &ChunkResult{Chunks: chunks}, ferr
	}

	lineCount := countLines(file.Content)
	now := time.Now()

	if lineCount > VeryLargeMin {
		return c.chunkVeryLargeFile(file, tree, config, lineCount, now), nil
	}
	return c.chunkNormalFile(file, tree, config, lineCount, now), nil
}

// countLines returns the 1-indexed number of lines in content.
func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	return strings.Count(string(content), "\n") + 1
}

// topLevelWrapperTypes are node types that wrap a declaration without
// themselves being a new nesting level worth stopping at — e.g. TypeScript's
// `export class Foo {}` parses as export_statement -> class_declaration.
var topLevelWrapperTypes = map[string]bool{
	"export_statement":           true,
	"export_default_declaration": true,
}

// topLevelNodes returns root's direct children, plus one level deeper for
// export-wrapper nodes, so top-level detection isn't fooled by `export`.
func topLevelNodes(root *Node) []*Node {
	nodes := make([]*Node, 0, len(root.Children))
	for _, child := range root.Children {
		nodes = append(nodes, child)
		if topLevelWrapperTypes[child.Type] {
			nodes = append(nodes, child.Children...)
		}
	}
	return nodes
}

func containsType(types []string, t string) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

func markCovered(covered map[int]bool, start, end int) {
	for l := start; l <= end; l++ {
		covered[l] = true
	}
}

// chunkNormalFile implements the five-step strategy for normal and large
// files (<=5000 lines). Large files (>=1000 lines) go through the same
// steps, flagged with a warning rather than split differently.
func (c *CodeChunker) chunkNormalFile(file *FileInput, tree *Tree, config *LanguageConfig, lineCount int, now time.Time) *ChunkResult {
	source := tree.Source
	var chunks []*Chunk
	var warnings []string
	covered := make(map[int]bool, lineCount)

	chunks = append(chunks, c.fileSummaryChunk(file, source, lineCount, now))

	if imp := c.importBlockChunk(file, tree, config, source, now); imp != nil {
		chunks = append(chunks, imp)
		markCovered(covered, imp.StartLine, imp.EndLine)
	}

	funcChunks, funcWarnings := c.functionChunks(file, tree, config, source, now, covered)
	chunks = append(chunks, funcChunks...)
	warnings = append(warnings, funcWarnings...)

	chunks = append(chunks, c.classChunks(file, tree, config, source, now, covered)...)

	chunks = append(chunks, c.blockChunks(file, source, lineCount, covered, now)...)

	isLarge := lineCount >= LargeFileMin
	if isLarge {
		warnings = append(warnings, fmt.Sprintf("file has %d lines, at or above the large-file threshold; chunked with the normal strategy", lineCount))
	}

	return &ChunkResult{Chunks: chunks, IsLargeFile: isLarge, Warnings: warnings}
}

// chunkVeryLargeFile handles files over 5000 lines with a structure-only
// strategy: a file summary chunk plus one synthetic chunk concatenating the
// signature line of every top-level declaration that is actually part of
// the file's export surface, per the per-language semantics in §4.2 (e.g.
// Python has none; Go is uppercase-initial identifiers).
func (c *CodeChunker) chunkVeryLargeFile(file *FileInput, tree *Tree, config *LanguageConfig, lineCount int, now time.Time) *ChunkResult {
	source := tree.Source
	summary := c.fileSummaryChunk(file, source, lineCount, now)

	declTypes := make(map[string]bool)
	for _, t := range config.FunctionTypes {
		declTypes[t] = true
	}
	for _, t := range config.MethodTypes {
		declTypes[t] = true
	}
	for _, t := range config.ClassTypes {
		declTypes[t] = true
	}
	for _, t := range config.InterfaceTypes {
		declTypes[t] = true
	}
	for _, t := range config.TypeDefTypes {
		declTypes[t] = true
	}

	var lines []string
	for _, child := range tree.Root.Children {
		wrapped := topLevelWrapperTypes[child.Type]
		nodes := []*Node{child}
		if wrapped {
			nodes = child.Children
		}
		for _, n := range nodes {
			if !declTypes[n.Type] {
				continue
			}
			name := c.extractor.extractName(n, source, config, file.Language)
			if !isExportedDeclaration(file.Language, wrapped, name, n, source) {
				continue
			}
			symType := declarationSymbolType(config, n.Type)
			sig := c.extractor.extractSignature(n, source, symType, file.Language)
			if sig == "" {
				continue
			}
			lines = append(lines, fmt.Sprintf("%d: %s", int(n.StartPoint.Row)+1, sig))
		}
	}

	content := strings.Join(lines, "\n")
	structure := &Chunk{
		ID:          generateChunkID(file.Path, "structure:"+content),
		FilePath:    file.Path,
		Kind:        KindBlock,
		Content:     content,
		RawContent:  content,
		ContentType: ContentTypeCode,
		Language:    file.Language,
		StartLine:   1,
		EndLine:     lineCount,
		Metadata:    map[string]string{"language": file.Language, "structure_only": "true"},
		TokenCount:  estimateTokens(content),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	warnings := []string{fmt.Sprintf("file has %d lines, above the very-large threshold; chunked as structure-only", lineCount)}

	return &ChunkResult{Chunks: []*Chunk{summary, structure}, IsLargeFile: true, Warnings: warnings}
}

// isExportedDeclaration reports whether a top-level declaration belongs to
// the file's export surface, following the per-language semantics named in
// §4.2: JS/TS requires an explicit `export` wrapper, Python has none, Go is
// uppercase-initial identifiers, Rust is `pub` items, and Java/C# are public
// top-level declarations. Languages the spec leaves unspecified here (C,
// C++, Ruby, PHP, Kotlin) keep every declaration, matching the export-less
// fallback the regex-based extractor uses for the same languages.
func isExportedDeclaration(language string, exportWrapped bool, name string, n *Node, source []byte) bool {
	switch language {
	case "typescript", "tsx", "javascript", "jsx":
		return exportWrapped
	case "python":
		return false
	case "go":
		return isUpperFirst(name)
	case "rust":
		return strings.HasPrefix(strings.TrimSpace(firstLineOf(n.GetContent(source))), "pub")
	case "java", "csharp":
		return strings.Contains(firstLineOf(n.GetContent(source)), "public ")
	default:
		return true
	}
}

func isUpperFirst(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsUpper([]rune(name)[0])
}

func firstLineOf(content string) string {
	if idx := strings.IndexByte(content, '\n'); idx != -1 {
		return content[:idx]
	}
	return content
}

func declarationSymbolType(config *LanguageConfig, nodeType string) SymbolType {
	switch {
	case containsType(config.MethodTypes, nodeType):
		return SymbolTypeMethod
	case containsType(config.ClassTypes, nodeType):
		return SymbolTypeClass
	case containsType(config.InterfaceTypes, nodeType):
		return SymbolTypeInterface
	case containsType(config.TypeDefTypes, nodeType):
		return SymbolTypeType
	default:
		return SymbolTypeFunction
	}
}

// fileSummaryChunk covers the first min(SummaryLines, lineCount) lines and
// is always emitted, regardless of size tier.
func (c *CodeChunker) fileSummaryChunk(file *FileInput, source []byte, lineCount int, now time.Time) *Chunk {
	lines := strings.Split(string(source), "\n")
	end := SummaryLines
	if lineCount < end {
		end = lineCount
	}
	if end < 1 {
		end = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	content := strings.Join(lines[:end], "\n")

	return &Chunk{
		ID:          generateChunkID(file.Path, "summary:"+content),
		FilePath:    file.Path,
		Kind:        KindFileSummary,
		Content:     content,
		RawContent:  content,
		ContentType: ContentTypeCode,
		Language:    file.Language,
		StartLine:   1,
		EndLine:     end,
		Metadata: map[string]string{
			"language":   file.Language,
			"line_count": strconv.Itoa(lineCount),
		},
		TokenCount: estimateTokens(content),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// importBlockChunk covers the top-level import declarations' line span, and
// is only emitted when that span reaches ImportMinSpan lines.
func (c *CodeChunker) importBlockChunk(file *FileInput, tree *Tree, config *LanguageConfig, source []byte, now time.Time) *Chunk {
	if len(config.ImportTypes) == 0 {
		return nil
	}
	importTypes := make(map[string]bool, len(config.ImportTypes))
	for _, t := range config.ImportTypes {
		importTypes[t] = true
	}

	var nodes []*Node
	for _, child := range tree.Root.Children {
		if importTypes[child.Type] {
			nodes = append(nodes, child)
		}
	}
	if len(nodes) == 0 {
		return nil
	}

	minLine := int(nodes[0].StartPoint.Row) + 1
	maxLine := int(nodes[0].EndPoint.Row) + 1
	modules := make([]string, 0, len(nodes))
	for _, n := range nodes {
		start := int(n.StartPoint.Row) + 1
		end := int(n.EndPoint.Row) + 1
		if start < minLine {
			minLine = start
		}
		if end > maxLine {
			maxLine = end
		}
		modules = append(modules, strings.Join(strings.Fields(n.GetContent(source)), " "))
	}

	if maxLine-minLine+1 < ImportMinSpan {
		return nil
	}

	lines := strings.Split(string(source), "\n")
	if maxLine > len(lines) {
		maxLine = len(lines)
	}
	content := strings.Join(lines[minLine-1:maxLine], "\n")

	return &Chunk{
		ID:          generateChunkID(file.Path, content),
		FilePath:    file.Path,
		Kind:        KindImportBlock,
		Content:     content,
		RawContent:  content,
		ContentType: ContentTypeCode,
		Language:    file.Language,
		StartLine:   minLine,
		EndLine:     maxLine,
		Metadata: map[string]string{
			"language": file.Language,
			"imports":  strings.Join(modules, "|"),
		},
		TokenCount: estimateTokens(content),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// functionChunks emits one chunk per top-level function/method node with at
// least 10 lines. Functions past ChunkSizeMax lines are kept whole with a
// warning rather than split.
func (c *CodeChunker) functionChunks(file *FileInput, tree *Tree, config *LanguageConfig, source []byte, now time.Time, covered map[int]bool) ([]*Chunk, []string) {
	funcTypes := make(map[string]bool, len(config.FunctionTypes)+len(config.MethodTypes))
	for _, t := range config.FunctionTypes {
		funcTypes[t] = true
	}
	for _, t := range config.MethodTypes {
		funcTypes[t] = true
	}

	var chunks []*Chunk
	var warnings []string

	for _, n := range topLevelNodes(tree.Root) {
		var sym *Symbol
		switch {
		case funcTypes[n.Type]:
			sym = c.extractSymbol(n, tree, declarationSymbolType(config, n.Type), file.Language)
		case n.Type == "lexical_declaration" || n.Type == "variable_declaration":
			sym = c.extractor.extractSpecialSymbol(n, source, file.Language)
		default:
			continue
		}
		if sym == nil {
			continue
		}

		startLine := sym.StartLine
		endLine := sym.EndLine
		lineSpan := endLine - startLine + 1
		if lineSpan < 10 {
			continue
		}
		if lineSpan > ChunkSizeMax {
			warnings = append(warnings, fmt.Sprintf("%s at line %d has %d lines, above the max chunk size; kept as a single chunk", sym.Name, startLine, lineSpan))
		}

		content := n.GetContent(source)
		chunks = append(chunks, &Chunk{
			ID:          generateChunkID(file.Path, content),
			FilePath:    file.Path,
			Kind:        KindFunction,
			Content:     content,
			RawContent:  content,
			ContentType: ContentTypeCode,
			Language:    file.Language,
			StartLine:   startLine,
			EndLine:     endLine,
			Symbols:     []*Symbol{sym},
			Metadata:    map[string]string{"language": file.Language, "symbol": sym.Name},
			TokenCount:  estimateTokens(content),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		markCovered(covered, startLine, endLine)
	}

	return chunks, warnings
}

// classChunks emits one chunk per top-level class/struct node with at least
// 10 lines, with its method names recorded in metadata.
func (c *CodeChunker) classChunks(file *FileInput, tree *Tree, config *LanguageConfig, source []byte, now time.Time, covered map[int]bool) []*Chunk {
	if len(config.ClassTypes) == 0 {
		return nil
	}
	classTypes := make(map[string]bool, len(config.ClassTypes))
	for _, t := range config.ClassTypes {
		classTypes[t] = true
	}

	methodTypes := make([]string, 0, len(config.MethodTypes)+len(config.FunctionTypes))
	methodTypes = append(methodTypes, config.MethodTypes...)
	methodTypes = append(methodTypes, config.FunctionTypes...) // python nests function_definition inside class

	var chunks []*Chunk
	for _, n := range topLevelNodes(tree.Root) {
		if !classTypes[n.Type] {
			continue
		}
		startLine := int(n.StartPoint.Row) + 1
		endLine := int(n.EndPoint.Row) + 1
		if endLine-startLine+1 < 10 {
			continue
		}

		name := c.extractor.extractName(n, source, config, file.Language)
		if name == "" {
			continue
		}

		var methodNames []string
		for _, mt := range methodTypes {
			for _, m := range n.FindAllByType(mt) {
				if m == n {
					continue
				}
				if mn := c.extractor.extractName(m, source, config, file.Language); mn != "" {
					methodNames = append(methodNames, mn)
				}
			}
		}
		sort.Strings(methodNames)

		content := n.GetContent(source)
		sym := &Symbol{
			Name:       name,
			Type:       SymbolTypeClass,
			StartLine:  startLine,
			EndLine:    endLine,
			DocComment: c.extractDocComment(n, source, file.Language),
		}
		meta := map[string]string{"language": file.Language, "class_name": name}
		if len(methodNames) > 0 {
			meta["methods"] = strings.Join(methodNames, ",")
		}

		chunks = append(chunks, &Chunk{
			ID:          generateChunkID(file.Path, content),
			FilePath:    file.Path,
			Kind:        KindClass,
			Content:     content,
			RawContent:  content,
			ContentType: ContentTypeCode,
			Language:    file.Language,
			StartLine:   startLine,
			EndLine:     endLine,
			Symbols:     []*Symbol{sym},
			Metadata:    meta,
			TokenCount:  estimateTokens(content),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		markCovered(covered, startLine, endLine)
	}

	return chunks
}

// blockChunks emits one chunk per maximal contiguous run of lines not
// already covered by the import/function/class chunks, when that run
// reaches ChunkSizeMin lines. The summary chunk's range is not subtracted:
// it never reduces the uncovered set.
func (c *CodeChunker) blockChunks(file *FileInput, source []byte, lineCount int, covered map[int]bool, now time.Time) []*Chunk {
	lines := strings.Split(string(source), "\n")
	var chunks []*Chunk

	runStart := 0
	for line := 1; line <= lineCount+1; line++ {
		isCovered := line > lineCount || covered[line]
		if !isCovered {
			if runStart == 0 {
				runStart = line
			}
			continue
		}
		if runStart == 0 {
			continue
		}
		runEnd := line - 1
		if runEnd-runStart+1 >= ChunkSizeMin {
			end := runEnd
			if end > len(lines) {
				end = len(lines)
			}
			content := strings.Join(lines[runStart-1:end], "\n")
			chunks = append(chunks, &Chunk{
				ID:          generateChunkID(file.Path, content),
				FilePath:    file.Path,
				Kind:        KindBlock,
				Content:     content,
				RawContent:  content,
				ContentType: ContentTypeCode,
				Language:    file.Language,
				StartLine:   runStart,
				EndLine:     runEnd,
				Metadata:    map[string]string{"language": file.Language},
				TokenCount:  estimateTokens(content),
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
		runStart = 0
	}

	return chunks
}

// extractSymbol extracts symbol info from a node
func (c *CodeChunker) extractSymbol(n *Node, tree *Tree, symType SymbolType, language string) *Symbol {
	config, _ := c.registry.GetByName(language)
	name := c.extractor.extractName(n, tree.Source, config, language)
	if name == "" {
		return nil
	}

	docComment := c.extractDocComment(n, tree.Source, language)

	return &Symbol{
		Name:       name,
		Type:       symType,
		StartLine:  int(n.StartPoint.Row) + 1,
		EndLine:    int(n.EndPoint.Row) + 1,
		DocComment: docComment,
	}
}

// extractDocComment extracts doc comment for a node, looking for multi-line comments
func (c *CodeChunker) extractDocComment(n *Node, source []byte, language string) string {
	// Find the start of the current line
	lineStart := int(n.StartByte)
	for lineStart > 0 && source[lineStart-1] != '\n' {
		lineStart--
	}

	// Look for comment on preceding lines
	if lineStart <= 1 {
		return ""
	}

	// Collect comment lines working backwards
	var commentLines []string
	pos := lineStart - 1 // Start before the newline

	for pos > 0 {
		// Find start of previous line
		prevLineEnd := pos
		pos--
		for pos > 0 && source[pos] != '\n' {
			pos--
		}
		prevLineStart := pos
		if pos > 0 {
			prevLineStart++ // Skip the newline
		}

		prevLine := strings.TrimSpace(string(source[prevLineStart:prevLineEnd]))

		// Check for single-line comments
		switch language {
		case "go", "typescript", "tsx", "javascript", "jsx":
			if strings.HasPrefix(prevLine, "//") {
				commentLines = append([]string{strings.TrimPrefix(prevLine, "//")}, commentLines...)
				continue
			}
		case "python":
			if strings.HasPrefix(prevLine, "#") {
				commentLines = append([]string{strings.TrimPrefix(prevLine, "#")}, commentLines...)
				continue
			}
		}

		// Stop if we hit a non-comment line (unless empty)
		if prevLine != "" {
			break
		}
	}

	if len(commentLines) == 0 {
		return ""
	}

	return strings.TrimSpace(strings.Join(commentLines, "\n"))
}

// chunkByLines is the fallback for unsupported languages or parse failures.
func (c *CodeChunker) chunkByLines(file *FileInput) ([]*Chunk, error) {
	content := string(file.Content)
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	lines := strings.Split(content, "\n")
	linesPerChunk := 128 // ~2560 tokens at 4 chars per token, 80 chars per line
	overlapLines := 16   // ~320 tokens overlap

	var chunks []*Chunk
	now := time.Now()

	for i := 0; i < len(lines); {
		end := i + linesPerChunk
		if end > len(lines) {
			end = len(lines)
		}

		chunkContent := strings.Join(lines[i:end], "\n")
		startLine := i + 1 // 1-indexed
		endLine := end     // Inclusive

		chunk := &Chunk{
			ID:          generateChunkID(file.Path, chunkContent),
			FilePath:    file.Path,
			Kind:        KindBlock,
			Content:     chunkContent,
			RawContent:  chunkContent,
			Context:     "",
			ContentType: ContentTypeText,
			Language:    file.Language,
			StartLine:   startLine,
			EndLine:     endLine,
			Symbols:     nil,
			Metadata:    make(map[string]string),
			TokenCount:  estimateTokens(chunkContent),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		chunks = append(chunks, chunk)

		// Move forward with overlap
		i = end - overlapLines
		if i <= 0 || end >= len(lines) {
			break
		}
	}

	return chunks, nil
}

// generateChunkID generates a content-addressable chunk ID from file path and content.
// The ID is derived from filePath and content hash, making it stable across line number
// shifts while preserving file context. This is critical for checkpoint/resume to work
// correctly when files are modified between indexing sessions.
//
// Properties:
//   - Same content in same file = same ID (stable across line shifts)
//   - Different content in same file = different ID (triggers re-embedding)
//   - Same content in different files = different IDs (preserves file context)
func generateChunkID(filePath string, content string) string {
	// Hash the content first
	contentHash := sha256.Sum256([]byte(content))
	contentHashStr := hex.EncodeToString(contentHash[:])[:16]

	// Combine with file path for uniqueness per file
	input := fmt.Sprintf("%s:%s", filePath, contentHashStr)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}

// estimateTokens estimates the number of tokens in content
func estimateTokens(content string) int {
	if len(content) == 0 {
		return 0
	}
	return (len(content) + TokensPerChar - 1) / TokensPerChar
}
