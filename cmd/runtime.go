package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spiffcs/explore/config"
	"github.com/spiffcs/explore/internal/cache"
	"github.com/spiffcs/explore/internal/ghclient"
	"github.com/spiffcs/explore/internal/locale"
	"github.com/spiffcs/explore/internal/log"
	"github.com/spiffcs/explore/internal/output"
	"github.com/spiffcs/explore/internal/query"
	"github.com/spiffcs/explore/internal/service"
	"github.com/spiffcs/explore/internal/tui"
)

// progress bundles the TUI state threaded through a paged command.
type progress struct {
	useTUI  bool
	events  chan tui.Event
	tuiDone chan error
}

// start initializes and starts the TUI goroutine if TUI mode is enabled.
func (p *progress) start(opts ...tui.ModelOption) {
	if !p.useTUI {
		return
	}
	p.events = make(chan tui.Event, 100)
	p.tuiDone = make(chan error, 1)
	go func() {
		p.tuiDone <- tui.Run(p.events, opts...)
	}()
}

// close closes the event channel and waits for the TUI to finish.
func (p *progress) close() {
	if p.events == nil {
		return
	}
	close(p.events)
	p.events = nil
	if p.tuiDone != nil {
		if err := <-p.tuiDone; err != nil {
			log.Debug("progress display failed", "error", err)
		}
	}
}

// send sends a task event to the TUI channel. Without the TUI, running
// fetches are shown as a progress line at -v.
func (p *progress) send(task tui.TaskID, status tui.TaskStatus, opts ...tui.TaskEventOption) {
	if p.events != nil {
		tui.SendTaskEvent(p.events, task, status, opts...)
		return
	}

	e := tui.NewTaskEvent(task, status, opts...)
	switch e.Status {
	case tui.StatusRunning:
		if e.Message != "" {
			log.Progress("Loading %s...", e.Message)
		}
	case tui.StatusComplete, tui.StatusError:
		log.ProgressDone()
	}
}

// fail marks task as failed, and reports rate limiting separately so the
// display can say when to try again.
func (p *progress) fail(task tui.TaskID, err error) {
	p.send(task, tui.StatusError, tui.WithError(err))

	var apiErr *ghclient.APIError
	if p.events != nil && errors.As(err, &apiErr) && apiErr.RateLimit {
		tui.SendEvent(p.events, tui.RateLimitEvent{Limited: true, ResetAt: apiErr.ResetAt})
	}
}

// setupRuntime starts profiling and logging for a command. The returned
// cleanup stops profiling.
func setupRuntime(opts *Options) (*progress, func(), error) {
	stop, err := startProfiling(opts)
	if err != nil {
		return nil, nil, err
	}

	useTUI := shouldUseTUI(opts)
	setupLogging(opts, useTUI)

	return &progress{useTUI: useTUI}, stop, nil
}

// app is everything a command needs to talk to GitHub.
type app struct {
	settings config.Settings
	client   *ghclient.Client
	explorer *service.Explorer
}

// setupLogging initializes logging. Logs are discarded while the progress
// display owns the terminal so the two do not interleave.
func setupLogging(opts *Options, useTUI bool) {
	if useTUI {
		log.Initialize(opts.Verbosity, io.Discard)
		return
	}
	log.Initialize(opts.Verbosity, os.Stderr)
}

// newApp loads the configuration and builds the GitHub client, the query
// cache and the explorer service.
func newApp(ctx context.Context, opts *Options) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	settings, err := cfg.Resolve()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	lang := settings.Locale
	if lang == "" {
		lang = locale.FromEnv()
	}

	client, err := ghclient.NewClient(ctx, ghclient.Options{
		BaseURL:           settings.APIBaseURL,
		Token:             settings.Token,
		UserAgent:         settings.UserAgent,
		Timeout:           settings.Timeout,
		RequestsPerMinute: settings.RequestsPerMinute,
		Messages:          locale.For(lang),
	})
	if err != nil {
		return nil, err
	}
	if !client.Authenticated() {
		log.Info("no GitHub token set, using unauthenticated requests", "env", config.EnvToken)
	}

	qopts := query.Options{MaxEntries: settings.MaxEntries}
	if settings.Persist && !opts.NoCache {
		store, err := cache.NewCache()
		if err != nil {
			log.Warn("failed to initialize cache", "error", err)
		} else {
			qopts.Store = store
		}
	}

	return &app{
		settings: settings,
		client:   client,
		explorer: service.New(client, query.NewClient(qopts), policies(settings)),
	}, nil
}

// policies applies the configured stale times and retry count to the stock
// policies.
func policies(s config.Settings) service.Policies {
	p := service.DefaultPolicies()
	p.Search.StaleTime = s.SearchStale
	p.Repository.StaleTime = s.RepositoryStale
	p.Issues.StaleTime = s.IssuesStale
	p.Search.MaxRetries = s.MaxRetries
	p.Repository.MaxRetries = s.MaxRetries
	p.Issues.MaxRetries = s.MaxRetries
	return p
}

// outputFormat returns the format named on the command line, falling back
// to the configured default.
func (a *app) outputFormat(opts *Options) (output.Format, error) {
	if opts.Format != "" {
		return output.ParseFormat(opts.Format)
	}
	return output.ParseFormat(a.settings.Format)
}

// warnIfRateLimited logs when the last response left no requests.
func (a *app) warnIfRateLimited() {
	status := a.client.RateLimitStatus()
	if status.Exhausted(time.Now()) {
		log.Warn("GitHub rate limit exhausted", "resets", status.ResetAt.Format(time.Kitchen))
	}
}

// loadPages fetches the first page of q and then further pages while more
// are expected, up to maxPages. A failure on the first page is returned;
// a failure on a later page is logged and the pages loaded so far are kept.
// Cached pages beyond maxPages are left out of the returned snapshot.
func loadPages[P any](ctx context.Context, q *query.Infinite[P], maxPages int, p *progress) (query.Snapshot[P], error) {
	maxPages = max(maxPages, 1)
	p.send(tui.TaskFetch, tui.StatusRunning, tui.WithMessage(pageMessage(1, maxPages)))

	snap, err := q.Fetch(ctx)
	if err != nil {
		return snap, err
	}

	for !snap.IsError && snap.HasNextPage && len(snap.Pages) < maxPages {
		next := len(snap.Pages) + 1
		p.send(tui.TaskFetch, tui.StatusRunning,
			tui.WithProgress(float64(len(snap.Pages))/float64(maxPages)),
			tui.WithMessage(pageMessage(next, maxPages)))
		log.Info("fetching next page", "key", q.Key().String(), "page", next)

		if snap, err = q.FetchNextPage(ctx); err != nil {
			return snap, err
		}
	}

	if snap.IsError {
		if len(snap.Pages) == 0 {
			p.fail(tui.TaskFetch, snap.Err)
			return snap, snap.Err
		}
		log.Warn("could not load more pages", "loaded", len(snap.Pages), "error", ghclient.UserMessage(snap.Err))
	}
	snap = limitPages(snap, maxPages)

	p.send(tui.TaskFetch, tui.StatusComplete, tui.WithMessage(fmt.Sprintf("%d %s", len(snap.Pages), plural(len(snap.Pages), "page", "pages"))))
	return snap, nil
}

// limitPages cuts snap down to its first n pages.
func limitPages[P any](snap query.Snapshot[P], n int) query.Snapshot[P] {
	if len(snap.Pages) <= n {
		return snap
	}
	snap.Pages = snap.Pages[:n]
	snap.PageParams = snap.PageParams[:n]
	snap.HasNextPage = true
	return snap
}

func pageMessage(page, maxPages int) string {
	return fmt.Sprintf("page %d/%d", page, maxPages)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
