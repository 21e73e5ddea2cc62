package retrieval

import (
	"math"
	"sort"
	"strconv"

	"github.com/aman-cerp/semindex/internal/store"
)

const defaultDedupThreshold = 0.9

// approxTokensPerChar approximates token count from content length when a
// chunk's own TokenCount is unset, matching the embedder's rough estimate.
const approxTokensPerChar = 0.25

// Dedup groups chunks by (file_path, approximate content) and drops the
// lower-scoring member of any pair whose content cosine similarity exceeds
// threshold, returning the survivors plus a map from dropped chunk_id to the
// chunk_id it was merged into (for citation merging).
func Dedup(matches []store.ChunkMatch, threshold float64) ([]CodeLocation, map[string]string) {
	if threshold <= 0 {
		threshold = defaultDedupThreshold
	}

	byFile := make(map[string][]store.ChunkMatch)
	for _, m := range matches {
		byFile[m.Chunk.FilePath] = append(byFile[m.Chunk.FilePath], m)
	}

	duplicateOf := make(map[string]string)
	var kept []CodeLocation

	for _, group := range byFile {
		sort.SliceStable(group, func(i, j int) bool { return group[i].Similarity > group[j].Similarity })

		var survivors []store.ChunkMatch
		for _, candidate := range group {
			mergedInto := ""
			for _, s := range survivors {
				if contentSimilarity(candidate.Chunk, s.Chunk) > threshold {
					mergedInto = s.Chunk.ChunkID
					break
				}
			}
			if mergedInto != "" {
				duplicateOf[candidate.Chunk.ChunkID] = mergedInto
				continue
			}
			survivors = append(survivors, candidate)
		}
		for _, s := range survivors {
			kept = append(kept, CodeLocation{Chunk: s.Chunk, Similarity: s.Similarity})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Similarity != kept[j].Similarity {
			return kept[i].Similarity > kept[j].Similarity
		}
		return kept[i].Chunk.ChunkID < kept[j].Chunk.ChunkID
	})

	return kept, duplicateOf
}

// contentSimilarity is cosine similarity between two chunks' own embedding
// vectors, used as the "approximate content" comparison for dedup. Falls
// back to an exact-match check when either chunk has no embedding.
func contentSimilarity(a store.Chunk, b store.Chunk) float64 {
	if len(a.Embedding) == 0 || len(b.Embedding) == 0 || len(a.Embedding) != len(b.Embedding) {
		if a.Content == b.Content {
			return 1
		}
		return 0
	}

	var dot, normA, normB float64
	for i := range a.Embedding {
		av, bv := float64(a.Embedding[i]), float64(b.Embedding[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// EstimateTokens approximates the token count of an assembled result when a
// chunk's stored TokenCount is zero.
func EstimateTokens(loc CodeLocation) int {
	if loc.Chunk.TokenCount > 0 {
		return loc.Chunk.TokenCount
	}
	return int(math.Ceil(float64(len(loc.Chunk.Content)) * approxTokensPerChar))
}

// EnforceTokenBudget drops the lowest-similarity chunks first, then the
// deepest-first import-chain leaves, until total_tokens fits within budget.
// Returns the (possibly trimmed) locations, imports, total token count, and
// whether a partial_results warning should be recorded.
func EnforceTokenBudget(locations []CodeLocation, imports []ImportChain, budget int) ([]CodeLocation, []ImportChain, int, bool) {
	if budget <= 0 {
		return locations, imports, sumTokens(locations, imports), false
	}

	locs := append([]CodeLocation{}, locations...)
	chains := append([]ImportChain{}, imports...)
	partial := false

	total := sumTokens(locs, chains)
	for total > budget && len(locs) > 0 {
		dropIdx := lowestSimilarityIndex(locs)
		total -= EstimateTokens(locs[dropIdx])
		locs = append(locs[:dropIdx], locs[dropIdx+1:]...)
		partial = true
	}

	for total > budget && len(chains) > 0 {
		dropIdx := deepestChainIndex(chains)
		total -= estimateChainTokens(chains[dropIdx])
		chains = append(chains[:dropIdx], chains[dropIdx+1:]...)
		partial = true
	}

	return locs, chains, total, partial
}

func sumTokens(locs []CodeLocation, chains []ImportChain) int {
	total := 0
	for _, l := range locs {
		total += EstimateTokens(l)
	}
	for _, c := range chains {
		total += estimateChainTokens(c)
	}
	return total
}

func estimateChainTokens(c ImportChain) int {
	total := 0
	for _, path := range c.Chain {
		total += int(math.Ceil(float64(len(path)) * approxTokensPerChar))
	}
	return total
}

func lowestSimilarityIndex(locs []CodeLocation) int {
	idx := 0
	for i, l := range locs {
		if l.Similarity < locs[idx].Similarity {
			idx = i
		}
	}
	return idx
}

func deepestChainIndex(chains []ImportChain) int {
	idx := 0
	for i, c := range chains {
		if len(c.Chain) > len(chains[idx].Chain) {
			idx = i
		}
	}
	return idx
}

// FilterByRepoIDs is the post-filter (filtered) variant (§4.16): it
// intersects an already-assembled result with an explicit repo-id set,
// recording an informational warning stating the count excluded.
func FilterByRepoIDs(result SearchResult, repoIDs []string) SearchResult {
	allowed := make(map[string]bool, len(repoIDs))
	for _, id := range repoIDs {
		allowed[id] = true
	}

	excluded := 0

	var files []store.FileMatch
	for _, f := range result.RelevantFiles {
		if allowed[f.RepoID] {
			files = append(files, f)
		} else {
			excluded++
		}
	}

	var locs []CodeLocation
	for _, l := range result.CodeLocations {
		if allowed[l.Chunk.RepoID] {
			locs = append(locs, l)
		} else {
			excluded++
		}
	}

	var symbols []store.Symbol
	for _, sym := range result.Symbols {
		if allowed[sym.RepoID] {
			symbols = append(symbols, sym)
		} else {
			excluded++
		}
	}

	result.RelevantFiles = files
	result.CodeLocations = locs
	result.Symbols = symbols
	if excluded > 0 {
		result.Warnings = append(result.Warnings, Warning{
			Kind:    "filtered",
			Message: filteredWarningMessage(excluded),
		})
	}
	return result
}

func filteredWarningMessage(excluded int) string {
	if excluded == 1 {
		return "1 result excluded by repository filter"
	}
	return strconv.Itoa(excluded) + " results excluded by repository filter"
}
