package manifest_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"audex/internal/extract"
	"audex/internal/manifest"
)

func openStore(t *testing.T) *manifest.Store {
	t.Helper()

	store, err := manifest.Open(filepath.Join(t.TempDir(), "manifest.db"))
	if err != nil {
		t.Fatalf("open manifest: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close manifest: %v", err)
		}
	})
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	runID, err := store.BeginRun(ctx, "directory", "/data/in", "/data/out", "parquet")
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	ok := extract.Result{Input: "/data/in/good.parquet", Rows: 10, Written: 8, SkippedExisting: 1, SkippedInvalid: 1}
	if err := store.RecordFile(ctx, runID, ok, nil); err != nil {
		t.Fatalf("RecordFile ok: %v", err)
	}
	bad := extract.Result{Input: "/data/in/bad.parquet"}
	if err := store.RecordFile(ctx, runID, bad, errors.New("decode dataset: boom")); err != nil {
		t.Fatalf("RecordFile failed-file: %v", err)
	}
	if err := store.FinishRun(ctx, runID, 10, 1, 1); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	runs, err := store.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.ID != runID || run.Mode != "directory" || run.Format != "parquet" {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.TotalRows != 10 || run.FilesOK != 1 || run.FilesFailed != 1 {
		t.Fatalf("unexpected totals: %+v", run)
	}
	if run.StartedAt.IsZero() || run.FinishedAt.IsZero() {
		t.Fatalf("expected both timestamps set: %+v", run)
	}
	if run.FinishedAt.Before(run.StartedAt) {
		t.Fatalf("finished before started: %+v", run)
	}

	files, err := store.ListFiles(ctx, runID)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 file records, got %d", len(files))
	}
	// Ordered by input path: bad before good.
	if files[0].Input != bad.Input || files[0].Error == "" {
		t.Fatalf("unexpected failed-file record: %+v", files[0])
	}
	if files[1].Input != ok.Input || files[1].Rows != 10 || files[1].Written != 8 || files[1].Skipped != 2 {
		t.Fatalf("unexpected ok-file record: %+v", files[1])
	}
}

func TestRecordFileReplacesOnRerun(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	runID, err := store.BeginRun(ctx, "file", "/data/in/shard.parquet", "/data/out", "parquet")
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}

	first := extract.Result{Input: "/data/in/shard.parquet", Rows: 5, Written: 5}
	if err := store.RecordFile(ctx, runID, first, nil); err != nil {
		t.Fatalf("first RecordFile: %v", err)
	}
	second := extract.Result{Input: "/data/in/shard.parquet", Rows: 5, SkippedExisting: 5}
	if err := store.RecordFile(ctx, runID, second, nil); err != nil {
		t.Fatalf("second RecordFile: %v", err)
	}

	files, err := store.ListFiles(ctx, runID)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("rerun must replace, not duplicate: %d records", len(files))
	}
	if files[0].Written != 0 || files[0].Skipped != 5 {
		t.Fatalf("expected replaced record, got %+v", files[0])
	}
}

func TestListRunsOrderAndLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := store.BeginRun(ctx, "file", "/in", "/out", "arrow")
		if err != nil {
			t.Fatalf("BeginRun %d: %v", i, err)
		}
		ids = append(ids, id)
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(runs))
	}
	if runs[0].ID != ids[2] {
		t.Fatalf("expected newest run first, got %s", runs[0].ID)
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dirs", "manifest.db")
	store, err := manifest.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()
	if store.Path() != path {
		t.Fatalf("unexpected path %q", store.Path())
	}
}
