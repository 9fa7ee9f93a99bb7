package postprocess

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/unbound-force/postprocess/internal/config"
	"github.com/unbound-force/postprocess/internal/fsutil"
	"github.com/unbound-force/postprocess/internal/summary"
)

// Collect reads back the summaries already written below root,
// without rewriting anything. Analysis Directories that have no
// summary folder yet are skipped.
func Collect(root string, cfg *config.Config) ([]DirResult, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if !fsutil.IsDir(root) {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, root)
	}

	dirs, err := Discover(root, cfg)
	if err != nil {
		return nil, fmt.Errorf("discovering analysis directories: %w", err)
	}

	results := []DirResult{}
	for _, dir := range dirs {
		layout := NewLayout(dir, cfg)
		if !fsutil.IsDir(layout.Output) {
			continue
		}

		dr := DirResult{
			Path:   dir,
			Name:   filepath.Base(dir),
			SizeKB: fsutil.SizeKB(layout.Input),
		}
		if dr.Records, err = countLines(layout.Input); err != nil {
			return nil, err
		}
		if dr.Uniq, err = summary.ReadManifest(filepath.Join(layout.Uniq, cfg.ManifestFile)); err != nil {
			return nil, fmt.Errorf("%s: %w", dr.Name, err)
		}
		if dr.Full, err = summary.ReadManifest(filepath.Join(layout.Full, cfg.ManifestFile)); err != nil {
			return nil, fmt.Errorf("%s: %w", dr.Name, err)
		}
		if dr.Fingerprint, err = summary.Fingerprint(layout.Output); err != nil {
			return nil, err
		}
		results = append(results, dr)
	}
	return results, nil
}

// countLines counts newline-terminated lines plus a final
// unterminated one.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	buf := make([]byte, 32*1024)
	count := 0
	var last byte
	for {
		n, err := r.Read(buf)
		if n > 0 {
			count += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	if last != 0 && last != '\n' {
		count++
	}
	return count, nil
}
