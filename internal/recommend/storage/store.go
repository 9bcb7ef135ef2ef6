// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// ErrNotFound indicates no bundle exists for the requested cluster/version.
var ErrNotFound = errors.New("model bundle not found")

// Metadata describes one stored bundle version.
type Metadata struct {
	ClusterID int       `json:"cluster"`
	Version   int       `json:"version"`
	TrainedAt time.Time `json:"trained_at"`
	SavedAt   time.Time `json:"saved_at"`
	Source    string    `json:"source,omitempty"`
	Metrics   []string  `json:"metrics"`

	// Checksum is the SHA-256 of the encoded bundle.
	Checksum string `json:"checksum"`

	// SizeBytes is the stored size.
	SizeBytes int64 `json:"size_bytes"`
}

// Store persists versioned bundles per cluster.
type Store interface {
	// Save stores b as the next version for its cluster.
	Save(ctx context.Context, b *Bundle) (Metadata, error)

	// Load returns a bundle. Version 0 loads the latest.
	Load(ctx context.Context, clusterID, version int) (*Bundle, *Metadata, error)

	// List returns metadata for the latest version of every cluster,
	// ordered by cluster id.
	List(ctx context.Context) ([]Metadata, error)

	// Delete removes one version.
	Delete(ctx context.Context, clusterID, version int) error

	// Prune keeps only the newest keep versions of a cluster.
	Prune(ctx context.Context, clusterID, keep int) error

	Close() error
}

// Open returns the store for backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(dir)
	case BackendBadger:
		return NewBadgerStore(dir)
	default:
		return nil, fmt.Errorf("unknown model backend %q", backend)
	}
}

func notFound(clusterID, version int) error {
	if version == 0 {
		return fmt.Errorf("cluster %d: %w", clusterID, ErrNotFound)
	}
	return fmt.Errorf("cluster %d version %d: %w", clusterID, version, ErrNotFound)
}
