// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/staranto/wsinfra/internal/log"
)

const (
	// EnvDir overrides the cache base directory.
	EnvDir = "WSINFRA_CACHE_DIR"
	// EnvEnabled disables the cache when set to "0" or "false".
	EnvEnabled = "WSINFRA_CACHE"
)

// Entry is one cached artifact. Key is the clear-text key and the file is
// named by its SHA-256.
type Entry struct {
	Key     string
	Path    string
	ModTime time.Time
	Data    []byte
}

// Age reports how long ago the entry was written.
func (e Entry) Age() time.Duration {
	return time.Since(e.ModTime)
}

// Dir resolves the base cache directory: $WSINFRA_CACHE_DIR, else
// <os.UserCacheDir>/wsinfra. ok is false when neither resolves.
func Dir() (string, bool) {
	if d, ok := os.LookupEnv(EnvDir); ok && d != "" {
		return d, true
	}
	if d, err := os.UserCacheDir(); err == nil && d != "" {
		return filepath.Join(d, "wsinfra"), true
	}
	return "", false
}

// Enabled is true unless WSINFRA_CACHE is "0" or "false".
func Enabled() bool {
	v := os.Getenv(EnvEnabled)
	return v != "0" && v != "false"
}

// EntryPath returns where key lives beneath subdirs and whether a file is
// there now.
func EntryPath(subdirs []string, key string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	parts := append([]string{base}, subdirs...)
	p := filepath.Join(append(parts, encodeKey(key))...)
	info, err := os.Stat(p)
	return p, err == nil && !info.IsDir()
}

// Read returns the entry for key. ok is false when caching is disabled or
// nothing is stored.
func Read(subdirs []string, key string) (*Entry, bool) {
	if !Enabled() {
		return nil, false
	}
	p, ok := EntryPath(subdirs, key)
	if !ok {
		return nil, false
	}

	info, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		log.Debugf("cache read failed: key=%s err=%v", key, err)
		return nil, false
	}

	log.Debugf("cache hit: key=%s", key)
	return &Entry{Key: key, Path: p, ModTime: info.ModTime(), Data: b}, true
}

// ReadFresh is Read that treats entries older than maxAge as missing. A
// maxAge <= 0 never expires.
func ReadFresh(subdirs []string, key string, maxAge time.Duration) (*Entry, bool) {
	e, ok := Read(subdirs, key)
	if !ok {
		return nil, false
	}
	if maxAge > 0 && e.Age() > maxAge {
		log.Debugf("cache stale: key=%s age=%s", key, e.Age())
		return nil, false
	}
	return e, true
}

// Write stores data for key beneath subdirs, creating directories as needed.
// It is a no-op when caching is disabled.
func Write(subdirs []string, key string, data []byte) error {
	if !Enabled() {
		return nil
	}
	base, ok := Dir()
	if !ok {
		return nil
	}

	dir := filepath.Join(append([]string{base}, subdirs...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, encodeKey(key)), data, 0o600); err != nil { //nolint:mnd
		return fmt.Errorf("writing cache entry: %w", err)
	}
	log.Debugf("cache write: key=%s bytes=%d", key, len(data))
	return nil
}

// Purge removes entries older than hours. hours <= 0 disables it.
func Purge(hours int) error {
	if hours <= 0 {
		return nil
	}
	base, ok := Dir()
	if !ok {
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err != nil {
				log.WithError(err).Warnf("cache purge: path=%s", path)
			} else {
				log.Debugf("cache purge: path=%s", path)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("purging cache: %w", err)
	}
	return nil
}

func encodeKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
