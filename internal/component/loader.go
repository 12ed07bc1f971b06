// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package component

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/staranto/wsinfra/internal/log"
)

// ErrNotFound is returned when the component document does not exist. It
// wraps fs.ErrNotExist so either sentinel matches with errors.Is.
var ErrNotFound = fmt.Errorf("component file not found: %w", fs.ErrNotExist)

// Data is a loaded component document.
type Data struct {
	Path    string
	Payload []byte
}

// String returns the payload as the component resource receives it.
func (d Data) String() string {
	return string(d.Payload)
}

// Digest returns the hex SHA-256 of the payload.
func (d Data) Digest() string {
	sum := sha256.Sum256(d.Payload)
	return hex.EncodeToString(sum[:])
}

// Load reads the component document at path. A missing file is ErrNotFound.
func Load(path string) (Data, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Data{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Data{}, err
	}
	if info.IsDir() {
		return Data{}, fmt.Errorf("component path is a directory: %s", path)
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("failed to read component %s: %w", path, err)
	}

	log.Debugf("component loaded: path=%s bytes=%d", path, len(payload))
	return Data{Path: path, Payload: payload}, nil
}
