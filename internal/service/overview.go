package service

import (
	"context"
	"sync"

	"github.com/spiffcs/explore/internal/model"
	"github.com/spiffcs/explore/internal/query"
	"golang.org/x/sync/errgroup"
)

// Overview is a repository with the first page of its open issues.
type Overview struct {
	Repository query.SingleSnapshot[*model.Repository]
	Issues     query.Snapshot[[]model.Issue]
}

// RepositoryOverview loads a repository and its first issues page in
// parallel. Fetch failures are reported in the snapshots; the returned
// error is non-nil only when ctx ends first.
func (e *Explorer) RepositoryOverview(ctx context.Context, owner, repo string) (*Overview, error) {
	var (
		mu sync.Mutex
		ov Overview
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := e.Repository(owner, repo).Fetch(gctx)
		mu.Lock()
		ov.Repository = s
		mu.Unlock()
		return err
	})

	g.Go(func() error {
		s, err := e.Issues(owner, repo).Fetch(gctx)
		mu.Lock()
		ov.Issues = s
		mu.Unlock()
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ov, nil
}
