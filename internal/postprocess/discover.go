package postprocess

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/unbound-force/postprocess/internal/config"
	"github.com/unbound-force/postprocess/internal/fsutil"
)

// Discover walks the tree rooted at root and returns every Analysis
// Directory in walk order. A directory qualifies when its path
// contains cfg.RepoDelimiter and it directly holds cfg.InputFile.
// Non-qualifying directories are still descended into, since the
// delimiter may appear at any depth (owner__repo/sub/...). Summary
// folders and excluded directories are not descended into.
func Discover(root string, cfg *config.Config) ([]string, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() {
			return nil
		}

		if path != root {
			if d.Name() == cfg.OutputDir {
				return filepath.SkipDir
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if Excluded(rel, cfg.Discovery.Exclude) {
				return filepath.SkipDir
			}
		}

		if IsAnalysisDir(path, cfg) {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

// IsAnalysisDir reports whether dir qualifies as an Analysis
// Directory under cfg.
func IsAnalysisDir(dir string, cfg *config.Config) bool {
	if !strings.Contains(dir, cfg.RepoDelimiter) {
		return false
	}
	return fsutil.IsFile(filepath.Join(dir, cfg.InputFile))
}

// Excluded reports whether the root-relative path rel matches any of
// the exclude patterns.
func Excluded(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if matchGlob(pattern, rel) {
			return true
		}
	}
	return false
}

// matchGlob matches a path against a glob pattern. It supports
// filepath.Match syntax and "dir/**" patterns matching dir and
// everything under it. Patterns without a slash also match the
// base name.
func matchGlob(pattern, rel string) bool {
	if strings.HasSuffix(pattern, "/**") {
		prefix := strings.TrimSuffix(pattern, "/**")
		return rel == prefix || strings.HasPrefix(rel, prefix+"/")
	}

	matched, err := filepath.Match(pattern, rel)
	if err != nil {
		return false
	}
	if matched {
		return true
	}

	if !strings.Contains(pattern, "/") {
		matched, err = filepath.Match(pattern, filepath.Base(rel))
		return err == nil && matched
	}
	return false
}
