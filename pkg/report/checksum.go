package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
)

// withMapped maps the file at path read-only and calls fn with its
// contents. Empty files cannot be mapped, so fn gets an empty slice.
func withMapped(path string, fn func(data []byte)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		fn(nil)
		return nil
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("mmap %s: %w", path, err)
	}
	defer data.Unmap()

	fn(data)
	return nil
}

// Size returns the size in bytes of the file at path.
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.Size(), nil
}

// Digest returns the hex SHA-256 digest of the file at path. SHA-256
// is pinned; the printed report format depends on it staying fixed.
func Digest(path string) (string, error) {
	var sum [sha256.Size]byte
	err := withMapped(path, func(data []byte) {
		sum = sha256.Sum256(data)
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum[:]), nil
}

// Fingerprint returns a fast 64-bit content hash of the file at
// path, used for cheap same-or-different checks between runs. It is
// never printed in reports.
func Fingerprint(path string) (uint64, error) {
	var fp uint64
	err := withMapped(path, func(data []byte) {
		fp = xxhash.Sum64(data)
	})
	if err != nil {
		return 0, err
	}
	return fp, nil
}
