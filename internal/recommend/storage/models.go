// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const fileExt = ".gob.gz"

// storedFile is the on-disk format for bundle files.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// FileStore keeps each bundle version in its own file named
// cluster_{id}_v{version}.gob.gz.
type FileStore struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per cluster
	versions map[int]int
}

// NewFileStore creates a store at baseDir, creating the directory if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &FileStore{
		baseDir:  baseDir,
		versions: make(map[int]int),
	}
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan existing bundles: %w", err)
	}
	return s, nil
}

func (s *FileStore) scan() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		cluster, version, ok := parseBundleFilename(entry.Name())
		if !ok {
			continue
		}
		if current, seen := s.versions[cluster]; !seen || version > current {
			s.versions[cluster] = version
		}
	}
	return nil
}

// parseBundleFilename extracts cluster and version from "cluster_3_v2.gob.gz".
func parseBundleFilename(name string) (cluster, version int, ok bool) {
	base, found := strings.CutSuffix(name, fileExt)
	if !found {
		return 0, 0, false
	}
	base, found = strings.CutPrefix(base, "cluster_")
	if !found {
		return 0, 0, false
	}
	c, v, found := strings.Cut(base, "_v")
	if !found {
		return 0, 0, false
	}
	cluster, err := strconv.Atoi(c)
	if err != nil || cluster < 0 {
		return 0, 0, false
	}
	version, err = strconv.Atoi(v)
	if err != nil || version < 1 {
		return 0, 0, false
	}
	return cluster, version, true
}

// clusterVersions lists the versions present on disk for a cluster, newest first.
func (s *FileStore) clusterVersions(clusterID int) ([]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var versions []int
	for _, entry := range entries {
		c, v, ok := parseBundleFilename(entry.Name())
		if ok && c == clusterID {
			versions = append(versions, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))
	return versions, nil
}

// Save gob-encodes, checksums and compresses b, writing it as the next version.
func (s *FileStore) Save(ctx context.Context, b *Bundle) (Metadata, error) {
	if err := b.Validate(); err != nil {
		return Metadata{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b); err != nil {
		return Metadata{}, fmt.Errorf("encode bundle: %w", err)
	}
	raw := buf.Bytes()
	sum := sha256.Sum256(raw)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw); err != nil {
		return Metadata{}, fmt.Errorf("compress bundle: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return Metadata{}, fmt.Errorf("finalize compression: %w", err)
	}

	meta := Metadata{
		ClusterID: b.ClusterID,
		Version:   s.versions[b.ClusterID] + 1,
		TrainedAt: b.TrainedAt,
		SavedAt:   time.Now().UTC(),
		Source:    b.Source,
		Metrics:   b.Metrics(),
		Checksum:  hex.EncodeToString(sum[:]),
		SizeBytes: int64(compressed.Len()),
	}

	// Write to a temp file and rename so readers never see a partial file.
	final := s.bundlePath(meta.ClusterID, meta.Version)
	tmp, err := os.CreateTemp(s.baseDir, ".bundle-*")
	if err != nil {
		return Metadata{}, fmt.Errorf("create bundle file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }() //nolint:errcheck // no-op after a successful rename

	if err := gob.NewEncoder(tmp).Encode(storedFile{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return Metadata{}, fmt.Errorf("write bundle file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Metadata{}, fmt.Errorf("close bundle file: %w", err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return Metadata{}, fmt.Errorf("publish bundle file: %w", err)
	}

	s.versions[meta.ClusterID] = meta.Version
	return meta, nil
}

// Load reads and verifies a bundle.
func (s *FileStore) Load(ctx context.Context, clusterID, version int) (*Bundle, *Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		latest, ok := s.versions[clusterID]
		if !ok {
			return nil, nil, notFound(clusterID, 0)
		}
		version = latest
	}

	sf, err := s.readFile(s.bundlePath(clusterID, version))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, notFound(clusterID, version)
		}
		return nil, nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("decompress bundle: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("read decompressed data: %w", err)
	}

	sum := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(sum[:]); checksum != sf.Metadata.Checksum {
		return nil, nil, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	var b Bundle
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&b); err != nil {
		return nil, nil, fmt.Errorf("decode bundle: %w", err)
	}
	return &b, &sf.Metadata, nil
}

// List returns metadata for each cluster's latest version.
func (s *FileStore) List(ctx context.Context) ([]Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Metadata, 0, len(s.versions))
	for cluster, version := range s.versions {
		sf, err := s.readFile(s.bundlePath(cluster, version))
		if err != nil {
			continue
		}
		out = append(out, sf.Metadata)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClusterID < out[j].ClusterID })
	return out, nil
}

// Delete removes one version and recomputes the cluster's latest.
func (s *FileStore) Delete(ctx context.Context, clusterID, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.bundlePath(clusterID, version)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return notFound(clusterID, version)
		}
		return fmt.Errorf("delete bundle: %w", err)
	}

	versions, err := s.clusterVersions(clusterID)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		delete(s.versions, clusterID)
	} else {
		s.versions[clusterID] = versions[0]
	}
	return nil
}

// Prune removes all but the newest keep versions. keep below 1 is treated as 1.
func (s *FileStore) Prune(ctx context.Context, clusterID, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 1 {
		keep = 1
	}
	versions, err := s.clusterVersions(clusterID)
	if err != nil {
		return err
	}
	for _, v := range versions[min(keep, len(versions)):] {
		_ = os.Remove(s.bundlePath(clusterID, v)) //nolint:errcheck // best-effort cleanup of old versions
	}
	return nil
}

// Close is a no-op; FileStore holds no open handles.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) readFile(path string) (*storedFile, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from numeric cluster/version
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read bundle file: %w", err)
	}
	return &sf, nil
}

func (s *FileStore) bundlePath(clusterID, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("cluster_%d_v%d%s", clusterID, version, fileExt))
}
