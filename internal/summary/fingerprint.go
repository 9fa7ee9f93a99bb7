package summary

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/minio/highwayhash"
)

var fingerprintKey = []byte("post_process_summary_fingerprint")

// Fingerprint hashes every file below dir, keyed by its slash path
// relative to dir. Two trees with equal fingerprints hold the same
// files with the same bytes.
func Fingerprint(dir string) (string, error) {
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return "", err
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(h, "%s\x00", filepath.ToSlash(rel))

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(h, f); err != nil {
			return err
		}
		_, err = h.Write([]byte{0})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("fingerprinting %s: %w", dir, err)
	}

	return fmt.Sprintf("%016x", h.Sum64()), nil
}
