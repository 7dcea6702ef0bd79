package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultSeedPath is the sample trade collection shipped at the repo root.
const DefaultSeedPath = "stock_market_data.json"

// SeedFile resolves api.seedPath. The bundled default is looked up from the
// repo root and skipped when absent; any other path is returned as given.
func (c *Config) SeedFile() string {
	p := strings.TrimSpace(c.API.SeedPath)
	if p != DefaultSeedPath {
		return p
	}
	resolved, err := ResolveRepoPath(false, p)
	if err != nil {
		slog.Warn("bundled seed file not found; starting without seed", slog.Any("err", err))
		return ""
	}
	return resolved
}

// ResolveRepoPath finds a repo-relative path from the working directory, from
// a cmd/<name> directory, or relative to this source file.
func ResolveRepoPath(wantDir bool, parts ...string) (string, error) {
	rel := filepath.Join(parts...)
	candidates := []string{
		rel,
		filepath.Join("..", "..", rel),
	}

	if _, file, _, ok := runtime.Caller(0); ok {
		candidates = append(candidates, filepath.Join(filepath.Dir(file), "..", "..", rel))
	}

	tried := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		absPath, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		tried = append(tried, absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			continue
		}
		if info.IsDir() == wantDir {
			return absPath, nil
		}
	}

	return "", fmt.Errorf("%s not found; tried: %s", rel, strings.Join(tried, ", "))
}
