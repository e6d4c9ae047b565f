// Package localstore keeps the whole school Dataset as one JSON blob under a schema key,
// the way the dashboard kept it in the browser's local storage.
package localstore

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
)

// DefaultKey is the current schema key. Bump it on incompatible Dataset changes:
// data stored under older keys is orphaned, never migrated.
const DefaultKey = "edu_ke_data_v2"

type Store struct {
	medium   core.Storage
	generate func() school.Dataset
	key      string
	logger   core.Logger
}

var _ school.Store = (*Store)(nil) // interface compliance check

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key = core.CleanString(key); key != "" {
			s.key = key
		}
	}
}

func WithLogger(logger core.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New returns a Store persisting to medium. generate builds the initial Dataset; it is only called
// when nothing is stored under the key yet (or on Reset).
func New(medium core.Storage, generate func() school.Dataset, opts ...Option) *Store {
	s := &Store{
		medium:   medium,
		generate: generate,
		key:      DefaultKey,
		logger:   core.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Key() string { return s.key }

// Load returns the persisted Dataset, generating & persisting it on first access.
// The stored blob is returned as decoded, without further validation.
func (s *Store) Load(ctx context.Context) (school.Dataset, error) {
	data, err := s.medium.GetItem(ctx, s.key)
	if err != nil {
		if errors.Is(err, core.ErrItemNotFound) {
			return s.initialize(ctx)
		}
		return school.Dataset{}, errors.Wrapf(school.ErrStorageUnavailable, "reading %s: %v", s.key, err)
	}

	var ds school.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return school.Dataset{}, errors.Wrapf(school.ErrCorruptState, "decoding %s: %v", s.key, err)
	}
	return ds, nil
}

func (s *Store) initialize(ctx context.Context) (school.Dataset, error) {
	ds := s.generate()
	if err := s.Save(ctx, ds); err != nil {
		return school.Dataset{}, err
	}
	s.logger.Info("dataset initialized", map[string]interface{}{
		"key":      s.key,
		"students": len(ds.Students),
		"results":  len(ds.Results),
	})
	return ds, nil
}

// Save serializes the whole Dataset and overwrites the stored blob.
func (s *Store) Save(ctx context.Context, ds school.Dataset) error {
	data, err := json.Marshal(ds)
	if err != nil {
		return errors.Wrap(err, "encoding dataset")
	}
	if err := s.medium.SetItem(ctx, s.key, data); err != nil {
		return errors.Wrapf(school.ErrStorageUnavailable, "writing %s: %v", s.key, err)
	}
	return nil
}

// Reset drops the stored Dataset and generates a new one. It is the way out of ErrCorruptState.
func (s *Store) Reset(ctx context.Context) (school.Dataset, error) {
	if err := s.medium.RemoveItem(ctx, s.key); err != nil && !errors.Is(err, core.ErrItemNotFound) {
		return school.Dataset{}, errors.Wrapf(school.ErrStorageUnavailable, "removing %s: %v", s.key, err)
	}
	s.logger.Warn("dataset reset", map[string]interface{}{"key": s.key})
	return s.initialize(ctx)
}
