package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DebugStore persists per-run screenshots and HTML dumps for manual inspection.
type DebugStore struct {
	rootDir string
}

func NewDebugStore(rootDir string) (*DebugStore, error) {
	root := strings.TrimSpace(rootDir)
	if root == "" {
		return nil, errors.New("debug dir is required")
	}
	return &DebugStore{rootDir: root}, nil
}

func (s *DebugStore) Dir() string {
	return s.rootDir
}

func (s *DebugStore) SaveScreenshot(ctx context.Context, name string, png []byte) (string, error) {
	if len(png) == 0 {
		return "", errors.New("screenshot payload is empty")
	}
	return s.save(ctx, "flight_search_"+sanitizeName(name)+".png", png)
}

func (s *DebugStore) SaveHTML(ctx context.Context, name, html string) (string, error) {
	return s.save(ctx, "error_"+sanitizeName(name)+".html", []byte(html))
}

func (s *DebugStore) save(ctx context.Context, fileName string, payload []byte) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err := os.MkdirAll(s.rootDir, 0o755); err != nil {
		return "", fmt.Errorf("create debug dir: %w", err)
	}

	path := filepath.Join(s.rootDir, fileName)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, payload, 0o644); err != nil {
		return "", fmt.Errorf("write artifact tmp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("commit artifact: %w", err)
	}
	return path, nil
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, `\`, "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" {
		return "run"
	}
	return name
}
