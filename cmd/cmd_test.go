package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spiffcs/explore/config"
	"github.com/spiffcs/explore/internal/output"
)

// fakeGitHub serves the endpoints the CLI uses. Search returns a full page
// for page 1 and a short one for page 2.
type fakeGitHub struct {
	searchHits atomic.Int32
	status     int
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.status != 0 {
		w.WriteHeader(f.status)
		fmt.Fprint(w, `{"message":"failure"}`)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/search/repositories":
		f.searchHits.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		n := 20
		if page > 1 {
			n = 3
		}
		items := make([]map[string]any, n)
		for i := range items {
			name := fmt.Sprintf("repo-%d-%d", page, i)
			items[i] = map[string]any{
				"id":               page*100 + i,
				"name":             name,
				"full_name":        "octo/" + name,
				"owner":            map[string]any{"login": "octo"},
				"stargazers_count": 1000 - i,
				"html_url":         "https://github.com/octo/" + name,
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"total_count": 23, "items": items})

	case "/repos/octo/hello":
		fmt.Fprint(w, `{"id":7,"name":"hello","full_name":"octo/hello","owner":{"login":"octo"},"description":"Hello world","stargazers_count":42}`)

	case "/repos/octo/hello/issues":
		fmt.Fprint(w, `[
			{"number":1,"title":"Crash on start","user":{"login":"alice"},"labels":[{"name":"bug"}],"html_url":"https://github.com/octo/hello/issues/1"},
			{"number":2,"title":"Add flag","user":{"login":"bob"},"pull_request":{"url":"x"},"html_url":"https://github.com/octo/hello/pull/2"}
		]`)

	case "/rate_limit":
		reset := time.Now().Add(time.Hour).Unix()
		fmt.Fprintf(w, `{"resources":{"core":{"limit":60,"remaining":59,"reset":%d},"search":{"limit":10,"remaining":10,"reset":%d}}}`, reset, reset)

	default:
		http.NotFound(w, r)
	}
}

// setupEnv points the CLI at srv and isolates config and cache directories.
func setupEnv(t *testing.T, srv *httptest.Server) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvToken, "")
	t.Setenv(config.EnvLocale, "en")
	if srv != nil {
		t.Setenv(config.EnvAPIBase, srv.URL)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := New()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--tui=false"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNew(t *testing.T) {
	cmd := New()
	if cmd.Use != "explore" {
		t.Errorf("expected Use to be 'explore', got %q", cmd.Use)
	}

	want := []string{"search", "repo", "issues", "browse", "config", "cache", "version", "ratelimit"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestNewOptions(t *testing.T) {
	opts := NewOptions(WithFormat("json"), WithVerbosity(2), WithNoCache(true))
	if opts.Pages != 1 {
		t.Errorf("expected default Pages 1, got %d", opts.Pages)
	}
	if opts.Format != "json" || opts.Verbosity != 2 || !opts.NoCache {
		t.Errorf("options not applied: %+v", opts)
	}
}

func TestTUIFlag(t *testing.T) {
	opts := &Options{}
	f := newTUIFlag(opts)

	if f.String() != "auto" {
		t.Errorf("expected auto, got %q", f.String())
	}
	if err := f.Set("false"); err != nil {
		t.Fatal(err)
	}
	if opts.TUI == nil || *opts.TUI {
		t.Error("expected TUI disabled")
	}
	if err := f.Set("auto"); err != nil || opts.TUI != nil {
		t.Error("expected TUI reset to auto")
	}
	if err := f.Set("sometimes"); err == nil {
		t.Error("expected error for invalid value")
	}
}

func TestShouldUseTUI(t *testing.T) {
	on := true
	if shouldUseTUI(&Options{TUI: &on, Verbosity: 1}) {
		t.Error("verbose runs should not use the TUI")
	}
	if !shouldUseTUI(&Options{TUI: &on}) {
		t.Error("forced TUI should be used")
	}
}

func TestSearchJSONLoadsPages(t *testing.T) {
	gh := &fakeGitHub{}
	srv := httptest.NewServer(gh)
	defer srv.Close()
	setupEnv(t, srv)

	out, err := execute(t, "search", "hello", "world", "--pages", "5", "-o", "json", "--no-cache")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	var list output.RepositoryList
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if list.Query != "hello world" {
		t.Errorf("query = %q", list.Query)
	}
	if len(list.Repositories) != 23 || list.Pages != 2 {
		t.Errorf("got %d repositories in %d pages, want 23 in 2", len(list.Repositories), list.Pages)
	}
	if list.HasMore {
		t.Error("short second page should end pagination")
	}
	if got := gh.searchHits.Load(); got != 2 {
		t.Errorf("search requests = %d, want 2", got)
	}
}

func TestSearchStopsAtPageLimit(t *testing.T) {
	gh := &fakeGitHub{}
	srv := httptest.NewServer(gh)
	defer srv.Close()
	setupEnv(t, srv)

	out, err := execute(t, "search", "hello", "-o", "json", "--no-cache")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	var list output.RepositoryList
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(list.Repositories) != 20 || !list.HasMore {
		t.Errorf("got %d repositories, has_more=%v", len(list.Repositories), list.HasMore)
	}
}

func TestSearchPersistentCache(t *testing.T) {
	gh := &fakeGitHub{}
	srv := httptest.NewServer(gh)
	defer srv.Close()
	setupEnv(t, srv)

	for i := 0; i < 2; i++ {
		if _, err := execute(t, "search", "cached", "-o", "json"); err != nil {
			t.Fatalf("search %d failed: %v", i, err)
		}
	}
	if got := gh.searchHits.Load(); got != 1 {
		t.Errorf("search requests = %d, want 1 (second run served from cache)", got)
	}

	out, err := execute(t, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats failed: %v", err)
	}
	if !strings.Contains(out, "Github:RepositoriesSearch") || !strings.Contains(out, "Fresh: 1") {
		t.Errorf("unexpected stats:\n%s", out)
	}

	if out, err := execute(t, "cache", "clear"); err != nil || !strings.Contains(out, "Cache cleared.") {
		t.Fatalf("cache clear: %q, %v", out, err)
	}
	if _, err := execute(t, "search", "cached", "-o", "json"); err != nil {
		t.Fatal(err)
	}
	if got := gh.searchHits.Load(); got != 2 {
		t.Errorf("search requests after clear = %d, want 2", got)
	}
}

func TestSearchCachedPagesLimitedToPagesFlag(t *testing.T) {
	gh := &fakeGitHub{}
	srv := httptest.NewServer(gh)
	defer srv.Close()
	setupEnv(t, srv)

	if _, err := execute(t, "search", "limited", "--pages", "5", "-o", "json"); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "search", "limited", "--pages", "1", "-o", "json")
	if err != nil {
		t.Fatal(err)
	}

	var list output.RepositoryList
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(list.Repositories) != 20 || list.Pages != 1 {
		t.Errorf("got %d repositories in %d pages, want 20 in 1", len(list.Repositories), list.Pages)
	}
	if !list.HasMore {
		t.Error("pages cut from the cache should be reported as more")
	}
	if got := gh.searchHits.Load(); got != 2 {
		t.Errorf("search requests = %d, want 2 (second run served from cache)", got)
	}
}

func TestSearchReportsClassifiedError(t *testing.T) {
	srv := httptest.NewServer(&fakeGitHub{status: http.StatusNotFound})
	defer srv.Close()
	setupEnv(t, srv)

	// No retries keeps the test fast.
	if _, err := execute(t, "config", "set", "retry.max_retries", "0"); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "search", "missing", "--no-cache")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Resource not found" {
		t.Errorf("error = %q, want the localized not found message", err.Error())
	}
}

func TestSearchRejectsBlankText(t *testing.T) {
	setupEnv(t, nil)
	if _, err := execute(t, "search", "  "); err == nil {
		t.Error("expected error for blank search")
	}
}

func TestIssuesMarkdown(t *testing.T) {
	srv := httptest.NewServer(&fakeGitHub{})
	defer srv.Close()
	setupEnv(t, srv)

	out, err := execute(t, "issues", "https://github.com/octo/hello", "-o", "markdown", "--no-cache")
	if err != nil {
		t.Fatalf("issues failed: %v", err)
	}
	for _, want := range []string{"[#1 Crash on start]", "issue by @alice", "pull request by @bob", "bug"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestIssuesRejectsBadReference(t *testing.T) {
	setupEnv(t, nil)
	if _, err := execute(t, "issues", "not-a-repo"); err == nil {
		t.Error("expected error for invalid repository reference")
	}
}

func TestRepoJSON(t *testing.T) {
	srv := httptest.NewServer(&fakeGitHub{})
	defer srv.Close()
	setupEnv(t, srv)

	out, err := execute(t, "repo", "octo/hello", "-o", "json", "--no-cache")
	if err != nil {
		t.Fatalf("repo failed: %v", err)
	}

	var ov output.Overview
	if err := json.Unmarshal([]byte(out), &ov); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if ov.Repository == nil || ov.Repository.Description != "Hello world" || ov.Repository.Stars != 42 {
		t.Errorf("unexpected repository %+v", ov.Repository)
	}
	if len(ov.Issues.Issues) != 2 || !ov.Issues.Issues[1].IsPullRequest {
		t.Errorf("unexpected issues %+v", ov.Issues.Issues)
	}
}

func TestRateLimitStatus(t *testing.T) {
	srv := httptest.NewServer(&fakeGitHub{})
	defer srv.Close()
	setupEnv(t, srv)

	out, err := execute(t, "ratelimit", "status")
	if err != nil {
		t.Fatalf("ratelimit status failed: %v", err)
	}
	if !strings.Contains(out, "Core API:   59/60 remaining") || !strings.Contains(out, "unauthenticated") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestConfigSetAndShow(t *testing.T) {
	setupEnv(t, nil)

	if _, err := execute(t, "config", "set", "stale.search", "10m"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "explore", "config.yaml")); err != nil {
		t.Errorf("global config not written: %v", err)
	}

	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "search: 10m") {
		t.Errorf("config show missing override:\n%s", out)
	}
}

func TestConfigSetRejectsInvalid(t *testing.T) {
	setupEnv(t, nil)

	for _, args := range [][]string{
		{"config", "set", "token", "abc"},
		{"config", "set", "stale.search", "soon"},
		{"config", "set", "colour", "blue"},
	} {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestConfigInitGlobal(t *testing.T) {
	setupEnv(t, nil)

	out, err := execute(t, "config", "init", "--global")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, "Created global config file") {
		t.Errorf("unexpected output %q", out)
	}
	if _, err := execute(t, "config", "init", "--global"); err == nil {
		t.Error("expected error when the config file already exists")
	}
}

func TestVersion(t *testing.T) {
	saved := build
	t.Cleanup(func() { build = saved })

	SetVersionInfo("1.2.3", "abc123", "")
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"explore 1.2.3", "abc123", "go:       " + runtime.Version()} {
		if !strings.Contains(out, want) {
			t.Errorf("version output %q missing %q", out, want)
		}
	}

	out, err = execute(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("short version = %q, want 1.2.3", out)
	}
}

func TestSetVersionInfoKeepsDefaultsForEmptyValues(t *testing.T) {
	saved := build
	t.Cleanup(func() { build = saved })

	build = buildInfo{Version: "dev", Commit: "none", Date: "unknown"}
	SetVersionInfo("", "", "2024-01-01")
	if build.Version != "dev" || build.Commit != "none" || build.Date != "2024-01-01" {
		t.Errorf("build = %+v", build)
	}
}
