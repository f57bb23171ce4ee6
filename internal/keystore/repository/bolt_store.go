// Package repository persists keystores as bbolt files.
package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"go.etcd.io/bbolt"
	bolterrors "go.etcd.io/bbolt/errors"

	keystoreDomain "github.com/allisson/cmf/internal/keystore/domain"
)

const storeFileMode os.FileMode = 0o600

var (
	bucketMeta    = []byte("meta")
	bucketEntries = []byte("entries")

	keyID        = []byte("id")
	keyKind      = []byte("kind")
	keyCreatedAt = []byte("created_at")
	keyVerifier  = []byte("verifier")
)

var entryEncMode = mustEntryEncMode()

func mustEntryEncMode() cbor.EncMode {
	mode, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}

// BoltStore is one keystore file.
//
// Nothing is cached: every call opens the file, runs one transaction and
// closes it, so changes made by another process are always visible. bbolt
// holds an exclusive flock on writable opens and a shared one on read-only
// opens; waiting longer than lockTimeout yields ErrStoreLocked. Each write is
// a single transaction, so a crash leaves the last committed state intact.
type BoltStore struct {
	path        string
	kind        keystoreDomain.Kind
	lockTimeout time.Duration
}

// NewBoltStore returns a store for the keystore file at path.
func NewBoltStore(path string, kind keystoreDomain.Kind, lockTimeout time.Duration) *BoltStore {
	return &BoltStore{path: path, kind: kind, lockTimeout: lockTimeout}
}

// Path returns the keystore file path.
func (s *BoltStore) Path() string {
	return s.path
}

// Exists reports whether the keystore file is present. A zero-length file,
// left behind when a create was interrupted before bbolt wrote its meta
// pages, counts as absent so Create can initialize it.
func (s *BoltStore) Exists() (bool, error) {
	info, err := os.Stat(s.path)
	if err == nil {
		return info.Size() > 0, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %w", keystoreDomain.ErrKeystore, err)
}

// Create initializes the keystore if the file is absent or empty and returns
// its metadata. An existing keystore of the right kind is left untouched and
// created is false. Any other existing file is ErrInvalidStore and is never
// overwritten.
func (s *BoltStore) Create(ctx context.Context, verifier string, now time.Time) (*keystoreDomain.StoreMeta, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	db, err := s.open(false)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = db.Close() }()

	var meta *keystoreDomain.StoreMeta
	created := false
	err = db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketMeta) != nil {
			meta, err = s.readMeta(tx)
			return err
		}

		// A file with foreign buckets is not ours to initialize.
		if name, _ := tx.Cursor().First(); name != nil {
			return fmt.Errorf("%w: unexpected bucket %q", keystoreDomain.ErrInvalidStore, name)
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate keystore id: %w", err)
		}
		meta = &keystoreDomain.StoreMeta{
			ID:        id,
			Kind:      s.kind,
			CreatedAt: now.UTC(),
			Verifier:  verifier,
		}
		if err := writeMeta(tx, meta); err != nil {
			return err
		}
		if _, err := tx.CreateBucket(bucketEntries); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, wrapStoreError(err)
	}
	return meta, created, nil
}

// Meta loads the keystore metadata. A missing file is ErrStoreNotFound.
func (s *BoltStore) Meta(ctx context.Context) (*keystoreDomain.StoreMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := s.openExisting()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	var meta *keystoreDomain.StoreMeta
	err = db.View(func(tx *bbolt.Tx) error {
		meta, err = s.readMeta(tx)
		return err
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return meta, nil
}

// Put inserts or replaces the entry stored under alias.
func (s *BoltStore) Put(ctx context.Context, alias string, entry *keystoreDomain.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := entryEncMode.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: failed to encode entry: %w", keystoreDomain.ErrKeystore, err)
	}

	exists, err := s.Exists()
	if err != nil {
		return err
	}
	if !exists {
		return keystoreDomain.ErrStoreNotFound
	}

	db, err := s.open(false)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := s.readMeta(tx); err != nil {
			return err
		}
		return tx.Bucket(bucketEntries).Put([]byte(alias), data)
	})
	return wrapStoreError(err)
}

// Get returns the entry stored under alias, or ErrEntryNotFound.
func (s *BoltStore) Get(ctx context.Context, alias string) (*keystoreDomain.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := s.openExisting()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	var entry *keystoreDomain.Entry
	err = db.View(func(tx *bbolt.Tx) error {
		if _, err := s.readMeta(tx); err != nil {
			return err
		}
		data := tx.Bucket(bucketEntries).Get([]byte(alias))
		if data == nil {
			return keystoreDomain.ErrEntryNotFound
		}
		entry = &keystoreDomain.Entry{}
		if err := cbor.Unmarshal(data, entry); err != nil {
			return fmt.Errorf("%w: %w", keystoreDomain.ErrInvalidEntry, err)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return entry, nil
}

// Aliases returns every alias in the keystore in byte order.
func (s *BoltStore) Aliases(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := s.openExisting()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	aliases := []string{}
	err = db.View(func(tx *bbolt.Tx) error {
		if _, err := s.readMeta(tx); err != nil {
			return err
		}
		return tx.Bucket(bucketEntries).ForEach(func(k, _ []byte) error {
			aliases = append(aliases, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return aliases, nil
}

func (s *BoltStore) openExisting() (*bbolt.DB, error) {
	exists, err := s.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, keystoreDomain.ErrStoreNotFound
	}
	return s.open(true)
}

func (s *BoltStore) open(readOnly bool) (*bbolt.DB, error) {
	db, err := bbolt.Open(s.path, storeFileMode, &bbolt.Options{
		Timeout:  s.lockTimeout,
		ReadOnly: readOnly,
	})
	if err != nil {
		if errors.Is(err, bolterrors.ErrTimeout) {
			return nil, fmt.Errorf("%w: %s", keystoreDomain.ErrStoreLocked, s.path)
		}
		return nil, fmt.Errorf("%w: %s: %w", keystoreDomain.ErrInvalidStore, s.path, err)
	}
	return db, nil
}

// readMeta validates the layout and kind of the store inside tx.
func (s *BoltStore) readMeta(tx *bbolt.Tx) (*keystoreDomain.StoreMeta, error) {
	b := tx.Bucket(bucketMeta)
	if b == nil || tx.Bucket(bucketEntries) == nil {
		return nil, fmt.Errorf("%w: missing buckets", keystoreDomain.ErrInvalidStore)
	}

	kind := keystoreDomain.Kind(b.Get(keyKind))
	if kind != s.kind {
		return nil, fmt.Errorf("%w: expected %s keystore, found %q", keystoreDomain.ErrInvalidStore, s.kind, kind)
	}

	id, err := uuid.FromBytes(b.Get(keyID))
	if err != nil {
		return nil, fmt.Errorf("%w: bad id: %w", keystoreDomain.ErrInvalidStore, err)
	}

	meta := &keystoreDomain.StoreMeta{
		ID:       id,
		Kind:     kind,
		Verifier: string(b.Get(keyVerifier)),
	}
	if raw := b.Get(keyCreatedAt); raw != nil {
		if createdAt, err := time.Parse(time.RFC3339Nano, string(raw)); err == nil {
			meta.CreatedAt = createdAt
		}
	}
	return meta, nil
}

func writeMeta(tx *bbolt.Tx, meta *keystoreDomain.StoreMeta) error {
	b, err := tx.CreateBucket(bucketMeta)
	if err != nil {
		return err
	}

	fields := map[string][]byte{
		string(keyID):        meta.ID[:],
		string(keyKind):      []byte(meta.Kind),
		string(keyCreatedAt): []byte(meta.CreatedAt.Format(time.RFC3339Nano)),
	}
	if meta.Verifier != "" {
		fields[string(keyVerifier)] = []byte(meta.Verifier)
	}
	for k, v := range fields {
		if err := b.Put([]byte(k), v); err != nil {
			return err
		}
	}
	return nil
}

// wrapStoreError leaves domain errors as they are and marks bbolt failures
// as keystore errors.
func wrapStoreError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		keystoreDomain.ErrInvalidStore,
		keystoreDomain.ErrEntryNotFound,
		keystoreDomain.ErrInvalidEntry,
		keystoreDomain.ErrStoreNotFound,
		keystoreDomain.ErrStoreLocked,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", keystoreDomain.ErrKeystore, err)
}
