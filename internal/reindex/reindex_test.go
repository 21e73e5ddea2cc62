package reindex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aman-cerp/semindex/internal/store"
)

func TestIsOutdated_RecentIsNotOutdated(t *testing.T) {
	now := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	repo := store.Repository{LastIndexed: now.Add(-5 * 24 * time.Hour)}
	assert.False(t, IsOutdated(repo, 30, now))
}

func TestIsOutdated_OldIsOutdated(t *testing.T) {
	now := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	repo := store.Repository{LastIndexed: now.Add(-45 * 24 * time.Hour)}
	assert.True(t, IsOutdated(repo, 30, now))
}

func TestIsOutdated_DefaultsTo30Days(t *testing.T) {
	now := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	repo := store.Repository{LastIndexed: now.Add(-31 * 24 * time.Hour)}
	assert.True(t, IsOutdated(repo, 0, now))
}

func TestIsOutdated_NeverIndexedIsOutdated(t *testing.T) {
	now := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	assert.True(t, IsOutdated(store.Repository{}, 30, now))
}
