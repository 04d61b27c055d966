package tasks

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quantbrief/quantbrief/app/cfg"
	"github.com/quantbrief/quantbrief/app/digest"
	"github.com/quantbrief/quantbrief/app/feed"
)

func writeSourceConfig(t *testing.T, dir, name, url string) {
	t.Helper()

	content := fmt.Sprintf(`url: %s
format: rss
settings:
  enabled: true
  timeout: 5
  max_items: 100
`, url)

	if err := os.WriteFile(filepath.Join(dir, name+".yml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write source config: %v", err)
	}
}

func newTestScheduler(t *testing.T, sourcesDir string, repo *memoryHeadlineRepository, sender digest.Sender) (*Scheduler, *passthroughAnalyzer) {
	t.Helper()

	cfg.SetForTesting(&cfg.Cfg{
		WorkerCount:       2,
		SchedulerInterval: 3600,
		UserAgent:         "test-agent/1.0",
	})

	sourceCache := feed.NewSourceCache(sourcesDir)
	if err := sourceCache.Run(); err != nil {
		t.Fatalf("Failed to load source configs: %v", err)
	}

	analyzer := &passthroughAnalyzer{}
	scheduler := NewScheduler(sourceCache, repo, &http.Client{}, feed.NewParser(),
		feed.NewFilterer(), feed.NewNoveltyFilter(), analyzer, digest.NewFormatter(), sender)

	return scheduler, analyzer
}

func TestScheduler_RunCycle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	sourcesDir := t.TempDir()
	writeSourceConfig(t, sourcesDir, "market-wire", server.URL)

	repo := newMemoryHeadlineRepository()
	sender := &captureSender{}
	scheduler, _ := newTestScheduler(t, sourcesDir, repo, sender)

	scheduler.runCycle()

	count, _ := repo.GetHeadlineCount()
	if count != 3 {
		t.Fatalf("Expected 3 stored headlines, got %d", count)
	}

	if sender.sent() != 1 {
		t.Fatalf("Expected 1 digest sent, got %d", sender.sent())
	}
	if !strings.Contains(sender.lastBody(), "[SOURCE = market-wire]") {
		t.Errorf("Digest body missing source section:\n%s", sender.lastBody())
	}
	if !strings.Contains(sender.lastBody(), "Apple beats earnings expectations") {
		t.Errorf("Digest body missing headline:\n%s", sender.lastBody())
	}
}

func TestScheduler_RepeatCycleSendsNoDigest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	sourcesDir := t.TempDir()
	writeSourceConfig(t, sourcesDir, "market-wire", server.URL)

	repo := newMemoryHeadlineRepository()
	sender := &captureSender{}
	scheduler, analyzer := newTestScheduler(t, sourcesDir, repo, sender)

	scheduler.runCycle()
	scheduler.runCycle()

	if sender.sent() != 1 {
		t.Errorf("Expected digest only for the first cycle, got %d sends", sender.sent())
	}
	if analyzer.batchCount() != 1 {
		t.Errorf("Expected analyzer invoked once across repeat cycles, got %d", analyzer.batchCount())
	}
}

func TestScheduler_CycleIsolatesFailingSource(t *testing.T) {
	goodServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer goodServer.Close()

	badServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer badServer.Close()

	sourcesDir := t.TempDir()
	writeSourceConfig(t, sourcesDir, "market-wire", goodServer.URL)
	writeSourceConfig(t, sourcesDir, "flaky-wire", badServer.URL)

	repo := newMemoryHeadlineRepository()
	sender := &captureSender{}
	scheduler, _ := newTestScheduler(t, sourcesDir, repo, sender)

	scheduler.runCycle()

	count, _ := repo.GetHeadlineCount()
	if count != 3 {
		t.Fatalf("Expected healthy source stored despite failing sibling, got %d headlines", count)
	}
	if sender.sent() != 1 {
		t.Errorf("Expected 1 digest sent, got %d", sender.sent())
	}
	if strings.Contains(sender.lastBody(), "flaky-wire") {
		t.Errorf("Digest should not mention the failed source:\n%s", sender.lastBody())
	}
}

func TestScheduler_CycleStorageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	sourcesDir := t.TempDir()
	writeSourceConfig(t, sourcesDir, "market-wire", server.URL)

	repo := newMemoryHeadlineRepository()
	repo.failAll = true
	sender := &captureSender{}
	scheduler, _ := newTestScheduler(t, sourcesDir, repo, sender)

	scheduler.runCycle()

	if sender.sent() != 0 {
		t.Errorf("Expected no digest when nothing was stored, got %d sends", sender.sent())
	}
}
