package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/aman-cerp/semindex/internal/store"
)

// DetectAndPersist runs the full detector pipeline (scan candidate
// directories, load docker-compose data, discover contracts, classify) and
// upserts each result as a service row.
func DetectAndPersist(ctx context.Context, s *store.Store, repoRoot, repoID string) ([]Detected, error) {
	composed, err := LoadCompose(repoRoot)
	if err != nil {
		return nil, err
	}

	var detected []Detected
	for _, cand := range DetectCandidates(repoRoot) {
		contracts := DiscoverContracts(repoRoot, cand.Path)
		svcType := Classify(repoRoot, cand, composed, contracts)

		var ports []int
		if ci, ok := composed[cand.Name]; ok {
			ports = ci.Ports
		}

		d := Detected{
			Name:      cand.Name,
			Path:      cand.Path,
			Type:      svcType,
			Ports:     ports,
			Contracts: contracts,
		}
		detected = append(detected, d)

		if err := s.UpsertService(ctx, store.Service{
			ServiceID: uuid.NewString(),
			RepoID:    repoID,
			Name:      d.Name,
			Type:      d.Type,
			Path:      d.Path,
			Ports:     d.Ports,
			Contracts: d.Contracts,
		}); err != nil {
			return nil, err
		}
	}

	return detected, nil
}
