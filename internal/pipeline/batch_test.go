package pipeline

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestExpandInputs_Directory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_nobg.png", "a_nobg.png", "c_nobg.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	// Originals, non-images and nested directories are all skipped.
	for _, name := range []string{"a.png", "b.png", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nested", "d_nobg.png"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	p := newTestPipeline(t, testConfig())
	paths, err := p.ExpandInputs([]string{dir})
	if err != nil {
		t.Fatalf("ExpandInputs failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a_nobg.png"),
		filepath.Join(dir, "b_nobg.png"),
		filepath.Join(dir, "c_nobg.jpg"),
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("got %v, want %v", paths, want)
	}
}

func TestExpandInputs_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.png")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// An explicit file argument is taken as given, suffix or not.
	p := newTestPipeline(t, testConfig())
	paths, err := p.ExpandInputs([]string{path})
	if err != nil {
		t.Fatalf("ExpandInputs failed: %v", err)
	}
	if len(paths) != 1 || paths[0] != path {
		t.Errorf("got %v, want [%s]", paths, path)
	}
}

func TestExpandInputs_NoMatches(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	p := newTestPipeline(t, testConfig())
	_, err := p.ExpandInputs([]string{dir})
	if err == nil {
		t.Fatal("expected an error for a directory without removed rasters")
	}
	if !strings.Contains(err.Error(), "no input images found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExpandInputs_MissingPath(t *testing.T) {
	p := newTestPipeline(t, testConfig())
	if _, err := p.ExpandInputs([]string{filepath.Join(t.TempDir(), "gone")}); err == nil {
		t.Fatal("expected an error for a missing input path")
	}
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()

	// One productive pair, one all-background pair, one unreadable raster.
	writeTestPair(t, dir, "good", 40, 30, defaultObjects())
	writeTestPair(t, dir, "empty", 20, 20, nil)
	if err := os.WriteFile(filepath.Join(dir, "bad_nobg.png"), []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.Batch.Workers = 2
	p := newTestPipeline(t, cfg)

	paths, err := p.ExpandInputs([]string{dir})
	if err != nil {
		t.Fatalf("ExpandInputs failed: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("inputs: got %d, want 3", len(paths))
	}

	summary := p.RunBatch(paths)
	if summary.Images != 3 {
		t.Errorf("images: got %d, want 3", summary.Images)
	}
	if summary.Succeeded != 2 {
		t.Errorf("succeeded: got %d, want 2", summary.Succeeded)
	}
	if summary.Empty != 1 {
		t.Errorf("empty: got %d, want 1", summary.Empty)
	}
	if summary.Failed != 1 {
		t.Errorf("failed: got %d, want 1", summary.Failed)
	}
	if summary.Objects != 2 {
		t.Errorf("objects: got %d, want 2", summary.Objects)
	}
	if summary.CropFailures != 0 {
		t.Errorf("crop failures: got %d, want 0", summary.CropFailures)
	}

	// The batch kept going past the failure: the good pair's artifacts exist.
	if _, err := os.Stat(filepath.Join(dir, "good_obj0.png")); err != nil {
		t.Errorf("good pair crop missing: %v", err)
	}
}
