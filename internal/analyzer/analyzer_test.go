//go:build cgo

package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"repolens/internal/config"
	"repolens/internal/gitrepo"
	"repolens/internal/logging"
	"repolens/internal/store"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestService(st store.Store) *Service {
	cfg := config.DefaultConfig()
	return NewService(cfg, gitrepo.NewFetcher("", logging.Nop()), st, logging.Nop())
}

func TestAnalyze_LocalDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/api/users.ts", `
export function listUsers(filter) {
	if (filter) {
		return [];
	}
	return null;
}
`)
	writeFile(t, root, "src/pages/home.tsx", `
import { listUsers } from "../api/users";

export const Home = () => listUsers(null);
`)

	var events []Progress
	svc := newTestService(nil)

	analysis, err := svc.Analyze(context.Background(), root, func(p Progress) {
		events = append(events, p)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analysis.ID == "" {
		t.Error("expected a run ID")
	}
	if analysis.Repository != root {
		t.Errorf("expected repository identifier %s, got %s", root, analysis.Repository)
	}
	if len(analysis.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(analysis.Files))
	}
	// Results are sorted by path regardless of worker completion order.
	if analysis.Files[0].Path != "src/api/users.ts" || analysis.Files[1].Path != "src/pages/home.tsx" {
		t.Errorf("unexpected file order: %s, %s", analysis.Files[0].Path, analysis.Files[1].Path)
	}

	if len(analysis.Architecture.Components) != 2 {
		t.Errorf("expected 2 components, got %d", len(analysis.Architecture.Components))
	}
	if len(analysis.Architecture.Relationships) != 1 {
		t.Errorf("expected 1 import edge, got %+v", analysis.Architecture.Relationships)
	}
	if analysis.Metrics.TotalFiles != 2 {
		t.Errorf("unexpected metrics: %+v", analysis.Metrics)
	}
	if analysis.CreatedAt.IsZero() {
		t.Error("expected a creation timestamp")
	}

	if len(events) == 0 {
		t.Fatal("expected progress events")
	}
	if events[0].Stage != StageCloning {
		t.Errorf("expected first event to be cloning, got %s", events[0].Stage)
	}
	last := events[len(events)-1]
	if last.Stage != StageComplete || last.Percent != 100 {
		t.Errorf("expected terminal complete event, got %+v", last)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Percent < events[i-1].Percent {
			t.Errorf("progress went backwards: %d%% after %d%%", events[i].Percent, events[i-1].Percent)
		}
	}
}

func TestAnalyze_UsesCache(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.ts", "export const a = 1;")

	st := store.NewMemoryStore(time.Hour)
	defer st.Close()
	svc := newTestService(st)

	first, err := svc.Analyze(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Analyze(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected cached result on second run: %s vs %s", first.ID, second.ID)
	}
}

func TestAnalyze_EmptyDirectory(t *testing.T) {
	svc := newTestService(nil)

	analysis, err := svc.Analyze(context.Background(), t.TempDir(), nil)
	if err != nil {
		t.Fatalf("an empty directory is a valid input: %v", err)
	}

	if len(analysis.Files) != 0 {
		t.Errorf("expected no files, got %d", len(analysis.Files))
	}
	if analysis.Metrics.MaintainabilityIndex != 100 {
		t.Errorf("expected maintainability 100, got %f", analysis.Metrics.MaintainabilityIndex)
	}
	if analysis.Insights.ComplexityDistribution == "" {
		t.Error("expected explanatory distribution message")
	}
}

func TestAnalyze_BrokenFileSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "good.ts", "export const ok = true;")
	writeFile(t, root, "broken.ts", "function ){ nope")

	svc := newTestService(nil)

	analysis, err := svc.Analyze(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("per-file failures must not abort the run: %v", err)
	}
	if len(analysis.Files) != 1 || analysis.Files[0].Path != "good.ts" {
		t.Errorf("expected only the parseable file, got %+v", analysis.Files)
	}
}

func TestAnalyze_FetchFailureIsFatal(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.Analyze(context.Background(), filepath.Join(t.TempDir(), "missing"), nil)
	if err == nil {
		t.Fatal("expected error for unreachable repository")
	}
}

func TestAnalyze_Canceled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.ts", "export const a = 1;")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestService(nil)
	if _, err := svc.Analyze(ctx, root, nil); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
