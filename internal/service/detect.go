package service

import (
	"os"
	"path/filepath"
	"sort"
)

// DetectCandidates scans the conventional service directories
// (services/, apps/, packages/, microservices/) one level deep and returns
// every subdirectory found, in directory-then-name sorted order.
func DetectCandidates(repoRoot string) []Candidate {
	var out []Candidate

	for _, dir := range conventionalDirs {
		entries, err := os.ReadDir(filepath.Join(repoRoot, dir))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			out = append(out, Candidate{
				Name: e.Name(),
				Path: filepath.Join(dir, e.Name()),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
