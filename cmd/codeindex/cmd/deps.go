package cmd

import (
	"context"
	"fmt"

	"github.com/aman-cerp/semindex/internal/config"
	"github.com/aman-cerp/semindex/internal/embed"
	"github.com/aman-cerp/semindex/internal/indexer"
	"github.com/aman-cerp/semindex/internal/query"
	"github.com/aman-cerp/semindex/internal/store"
	"github.com/aman-cerp/semindex/internal/summarize"
)

// deps bundles the collaborators every subcommand wires its own slice of.
type deps struct {
	cfg       *config.Config
	store     *store.Store
	embedder  embed.Embedder
	summarize *summarize.Summarizer
	indexer   *indexer.Indexer
	query     *query.Processor
}

// buildDeps loads configuration rooted at dir and connects every
// downstream collaborator (store, embedder, summarizer, indexer, query
// processor). Callers must call close() when done.
func buildDeps(ctx context.Context, dir string) (*deps, func(), error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	s, err := store.Connect(ctx, store.Config{
		DSN:              cfg.Database.DSN,
		DatabaseName:     cfg.Database.DatabaseName,
		MaxConns:         cfg.Database.MaxConns,
		StatementTimeout: cfg.Database.StatementTimeout,
		Dimension:        cfg.Embeddings.Dimensions,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect store: %w", err)
	}

	embedder, err := embed.NewClient(ctx, embed.Config{
		Host:             cfg.Embeddings.Host,
		Model:            cfg.Embeddings.Model,
		SummaryModel:     cfg.Embeddings.SummaryModel,
		Dimensions:       cfg.Embeddings.Dimensions,
		BatchConcurrency: cfg.Embeddings.BatchConcurrency,
		RequestTimeout:   cfg.Embeddings.RequestTimeout,
		MaxRetries:       cfg.Embeddings.MaxRetries,
	})
	if err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("create embedder: %w", err)
	}

	summarizer := summarize.New(summarize.Config{
		Host:  cfg.Embeddings.Host,
		Model: cfg.Embeddings.SummaryModel,
	})

	ix, err := indexer.New(indexer.Dependencies{
		Store:      s,
		Embedder:   embedder,
		Summarizer: summarizer,
	})
	if err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("create indexer: %w", err)
	}

	cache, err := query.NewCache(cfg.Performance.QueryCacheSize, cfg.Performance.QueryCacheTTL)
	if err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("create query cache: %w", err)
	}
	qp := query.NewProcessor(embedder, cache)

	d := &deps{
		cfg:       cfg,
		store:     s,
		embedder:  embedder,
		summarize: summarizer,
		indexer:   ix,
		query:     qp,
	}

	return d, func() {
		ix.Close()
		s.Close()
	}, nil
}
