// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/tfctl/csvfilter/internal/log"
)

// Entry is a cached download on disk. Key is the clear-text key and
// EncodedKey the hashed filename.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Size       int64
}

// Dir resolves the base cache directory.
// Precedence:
//  1. CSVFILTER_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/csvfilter
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("CSVFILTER_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "csvfilter"), true
	}
	return "", false
}

// Enabled returns true unless CSVFILTER_CACHE explicitly disables it
// ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("CSVFILTER_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// EnsureBaseDir creates the base cache directory if caching is enabled and
// a base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}

	base, ok := Dir()
	if !ok {
		return "", false, nil
	}

	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	log.Debugf("cache dir ready: path=%s", base)
	return base, true, nil
}

// EntryPath returns the path where the entry for clearKey lives beneath
// subdirs, and whether a file is there now.
func EntryPath(subdirs []string, clearKey string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	p := filepath.Join(append([]string{base}, append(subdirs, encodeKey(clearKey))...)...)
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

// Lookup returns the cached entry for clearKey, if there is one.
func Lookup(subdirs []string, clearKey string) (*Entry, bool) {
	if !Enabled() {
		return nil, false
	}
	p, ok := EntryPath(subdirs, clearKey)
	if !ok {
		return nil, false
	}
	fi, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", clearKey)
	return &Entry{Key: clearKey, EncodedKey: encodeKey(clearKey), Path: p, Size: fi.Size()}, true
}

// Store copies r into the entry for clearKey beneath dir and returns it.
// The copy goes to a temporary sibling first so a failed download never
// leaves a partial entry behind.
func Store(dir string, subdirs []string, clearKey string, r io.Reader) (*Entry, error) {
	target := filepath.Join(append([]string{dir}, subdirs...)...)
	if err := os.MkdirAll(target, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	encoded := encodeKey(clearKey)
	tmp, err := os.CreateTemp(target, encoded+".*")
	if err != nil {
		return nil, fmt.Errorf("failed to write to cache: %w", err)
	}

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to write to cache: %w", err)
	}

	p := filepath.Join(target, encoded)
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s bytes=%d", clearKey, n)
	return &Entry{Key: clearKey, EncodedKey: encoded, Path: p, Size: n}, nil
}

// Purge removes files older than the provided number of hours.
// If hours <= 0 or the cache dir cannot be resolved, it is a no-op.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}

	base, ok := Dir()
	if !ok {
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info == nil {
			return nil
		}

		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				log.Debugf("removed cache file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// sha256 returns a 32-byte digest.
func encodeKey(input string) string {
	h := sha256.New()
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}
