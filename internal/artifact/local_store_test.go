package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDebugStoreSavesScreenshot(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "debug_files")
	store, err := NewDebugStore(tmpDir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	path, err := store.SaveScreenshot(context.Background(), "NYC_LAX_2024-12-01", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("save screenshot: %v", err)
	}

	want := filepath.Join(tmpDir, "flight_search_NYC_LAX_2024-12-01.png")
	if path != want {
		t.Fatalf("unexpected path %s want %s", path, want)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(content) != "png-bytes" {
		t.Fatalf("unexpected content %q", string(content))
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected tmp file to be gone, stat err=%v", err)
	}
}

func TestDebugStoreSavesHTMLAndOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewDebugStore(tmpDir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	for _, body := range []string{"<html>first</html>", "<html>second</html>"} {
		if _, err := store.SaveHTML(context.Background(), "NYC_LAX_2024-12-01", body); err != nil {
			t.Fatalf("save html: %v", err)
		}
	}

	content, err := os.ReadFile(filepath.Join(tmpDir, "error_NYC_LAX_2024-12-01.html"))
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if string(content) != "<html>second</html>" {
		t.Fatalf("expected latest run to win, got %q", string(content))
	}
}

func TestDebugStoreRejectsEmptyScreenshot(t *testing.T) {
	store, err := NewDebugStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.SaveScreenshot(context.Background(), "x", nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestSanitizeName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"NYC_LAX_2024-12-01": "NYC_LAX_2024-12-01",
		"a/b_c_d":            "a_b_c_d",
		"../../etc":          "____etc",
		"   ":                "run",
	}
	for input, want := range cases {
		if got := sanitizeName(input); got != want {
			t.Fatalf("sanitizeName(%q)=%q want=%q", input, got, want)
		}
	}
}

func TestNewDebugStoreRequiresDir(t *testing.T) {
	t.Parallel()
	if _, err := NewDebugStore("  "); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
