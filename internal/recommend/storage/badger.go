// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key layout: bundle/{cluster:010d}/{version:010d}. Zero padding keeps
// versions of a cluster in byte order.
const bundlePrefix = "bundle/"

// badgerRecord is the stored value.
type badgerRecord struct {
	Metadata Metadata        `json:"metadata"`
	Bundle   json.RawMessage `json:"bundle"`
}

// BadgerStore keeps bundles in a BadgerDB keyspace.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a Badger database at dir.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStoreWithDB wraps an open database. Tests pass an in-memory one.
func NewBadgerStoreWithDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func bundleKey(clusterID, version int) []byte {
	return []byte(fmt.Sprintf("%s%010d/%010d", bundlePrefix, clusterID, version))
}

func clusterPrefix(clusterID int) []byte {
	return []byte(fmt.Sprintf("%s%010d/", bundlePrefix, clusterID))
}

// Save stores b under the next version for its cluster.
func (s *BadgerStore) Save(ctx context.Context, b *Bundle) (Metadata, error) {
	if err := b.Validate(); err != nil {
		return Metadata{}, err
	}

	raw, err := json.Marshal(b)
	if err != nil {
		return Metadata{}, fmt.Errorf("encode bundle: %w", err)
	}
	sum := sha256.Sum256(raw)

	var meta Metadata
	err = s.db.Update(func(txn *badger.Txn) error {
		latest, err := latestVersion(txn, b.ClusterID)
		if err != nil {
			return err
		}
		meta = Metadata{
			ClusterID: b.ClusterID,
			Version:   latest + 1,
			TrainedAt: b.TrainedAt,
			SavedAt:   time.Now().UTC(),
			Source:    b.Source,
			Metrics:   b.Metrics(),
			Checksum:  hex.EncodeToString(sum[:]),
			SizeBytes: int64(len(raw)),
		}
		value, err := json.Marshal(badgerRecord{Metadata: meta, Bundle: raw})
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		return txn.Set(bundleKey(meta.ClusterID, meta.Version), value)
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("save bundle: %w", err)
	}
	return meta, nil
}

// Load reads a bundle and verifies its checksum.
func (s *BadgerStore) Load(ctx context.Context, clusterID, version int) (*Bundle, *Metadata, error) {
	var rec badgerRecord
	err := s.db.View(func(txn *badger.Txn) error {
		if version == 0 {
			latest, err := latestVersion(txn, clusterID)
			if err != nil {
				return err
			}
			if latest == 0 {
				return notFound(clusterID, 0)
			}
			version = latest
		}
		item, err := txn.Get(bundleKey(clusterID, version))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return notFound(clusterID, version)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, nil, err
	}

	sum := sha256.Sum256(rec.Bundle)
	if checksum := hex.EncodeToString(sum[:]); checksum != rec.Metadata.Checksum {
		return nil, nil, fmt.Errorf("checksum mismatch: expected %s, got %s", rec.Metadata.Checksum, checksum)
	}

	var b Bundle
	if err := json.Unmarshal(rec.Bundle, &b); err != nil {
		return nil, nil, fmt.Errorf("decode bundle: %w", err)
	}
	return &b, &rec.Metadata, nil
}

// List returns the latest version's metadata for every cluster.
func (s *BadgerStore) List(ctx context.Context) ([]Metadata, error) {
	latest := make(map[int]Metadata)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bundlePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec badgerRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			if cur, ok := latest[rec.Metadata.ClusterID]; !ok || rec.Metadata.Version > cur.Version {
				latest[rec.Metadata.ClusterID] = rec.Metadata
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}

	out := make([]Metadata, 0, len(latest))
	for _, m := range latest {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClusterID < out[j].ClusterID })
	return out, nil
}

// Delete removes one version.
func (s *BadgerStore) Delete(ctx context.Context, clusterID, version int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := bundleKey(clusterID, version)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return notFound(clusterID, version)
			}
			return err
		}
		return txn.Delete(key)
	})
}

// Prune keeps only the newest keep versions. keep below 1 is treated as 1.
func (s *BadgerStore) Prune(ctx context.Context, clusterID, keep int) error {
	if keep < 1 {
		keep = 1
	}
	return s.db.Update(func(txn *badger.Txn) error {
		keys := clusterKeys(txn, clusterID)
		// keys are ascending; drop all but the last keep
		for i := 0; i < len(keys)-keep; i++ {
			if err := txn.Delete(keys[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func clusterKeys(txn *badger.Txn, clusterID int) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = clusterPrefix(clusterID)
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

// latestVersion returns the highest stored version of a cluster, or 0.
func latestVersion(txn *badger.Txn, clusterID int) (int, error) {
	keys := clusterKeys(txn, clusterID)
	if len(keys) == 0 {
		return 0, nil
	}
	last := string(keys[len(keys)-1])
	v, err := strconv.Atoi(last[strings.LastIndexByte(last, '/')+1:])
	if err != nil {
		return 0, fmt.Errorf("parse key %q: %w", last, err)
	}
	return v, nil
}
