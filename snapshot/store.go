package snapshot

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/newtechremo/riskrec/helper"
	"github.com/newtechremo/riskrec/model"
)

const (
	recordPrefix = "risk:"
	recordIDSeq  = "riskseq"

	defaultSequenceBandwidth = 100
)

// ErrInvalidID is returned by Save for records with a negative id
var ErrInvalidID = errors.New("record id must not be negative")

// Store is a file based copy of the risk assessment master data.
// The directory is opened for the duration of each call only.
type Store struct {
	path string
	log  *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

// Badger info output is noisy on every open, so it goes to debug.
func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// NewStore returns a store rooted at path. Nothing is opened yet.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, log: logger}
}

// Path returns the snapshot directory
func (s *Store) Path() string {
	return s.path
}

func (s *Store) open(readOnly bool) (*badger.DB, error) {
	if readOnly {
		info, err := os.Stat(s.path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", s.path)
		}
	} else if err := os.MkdirAll(s.path, 0755); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(s.path).WithReadOnly(readOnly)
	opts.Logger = &badgerLoggerAdapter{logger: s.log}
	opts.Compression = options.None

	return badger.Open(opts)
}

// Save writes records into the snapshot in a single transaction and returns
// how many were written. Nil records are skipped. Records with ID 0 get the
// next free id from the snapshot sequence and the assigned id is written back
// to the record. A negative id rejects the whole batch.
func (s *Store) Save(ctx context.Context, records []*model.RiskRecord) (int, error) {
	for _, record := range records {
		if record != nil && record.ID < 0 {
			return 0, helper.NewError("save snapshot", fmt.Errorf("%w: %d", ErrInvalidID, record.ID))
		}
	}

	db, err := s.open(false)
	if err != nil {
		return 0, helper.StoreUnavailable("open snapshot", err)
	}
	defer db.Close()

	seq, err := db.GetSequence([]byte(recordIDSeq), defaultSequenceBandwidth)
	if err != nil {
		return 0, helper.NewError("snapshot sequence", err)
	}
	defer seq.Release()

	saved := 0
	err = db.Update(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			if record == nil {
				continue
			}

			if record.ID == 0 {
				id, err := nextFreeID(tx, seq)
				if err != nil {
					return err
				}
				record.ID = id
			}

			value, err := json.Marshal(record)
			if err != nil {
				return err
			}
			if err := tx.Set(makeRecordKey(record.ID), value); err != nil {
				return err
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, helper.NewError("save snapshot", err)
	}

	s.log.Info("Saved snapshot", "path", s.path, "records", saved)

	return saved, nil
}

// SelectRiskCandidates returns the records matching any keyword in id order.
// Any failure to read the snapshot is reported as store unavailable.
func (s *Store) SelectRiskCandidates(ctx context.Context, keywords []string) ([]*model.RiskRecord, error) {
	candidates := []*model.RiskRecord{}
	err := s.scan(ctx, func(record *model.RiskRecord) {
		if record.ContainsAny(keywords) {
			candidates = append(candidates, record)
		}
	})
	if err != nil {
		return nil, helper.StoreUnavailable("select snapshot candidates", err)
	}

	s.log.Debug("Selected snapshot candidates", "keywords", len(keywords), "candidates", len(candidates))

	return candidates, nil
}

// SelectAllRiskRecords returns every record in id order
func (s *Store) SelectAllRiskRecords(ctx context.Context) ([]*model.RiskRecord, error) {
	records := []*model.RiskRecord{}
	err := s.scan(ctx, func(record *model.RiskRecord) {
		records = append(records, record)
	})
	if err != nil {
		return nil, helper.StoreUnavailable("select snapshot records", err)
	}
	return records, nil
}

// Count returns the number of records in the snapshot
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.scan(ctx, func(*model.RiskRecord) {
		count++
	})
	if err != nil {
		return 0, helper.StoreUnavailable("count snapshot", err)
	}
	return count, nil
}

func (s *Store) scan(ctx context.Context, fn func(record *model.RiskRecord)) error {
	db, err := s.open(true)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var record model.RiskRecord
			err := iter.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			fn(&record)
		}
		return nil
	})
}

// makeRecordKey encodes the id big endian so key order is id order.
// Ids must not be negative.
func makeRecordKey(id int64) []byte {
	key := make([]byte, len(recordPrefix)+8)
	copy(key, recordPrefix)
	binary.BigEndian.PutUint64(key[len(recordPrefix):], uint64(id))
	return key
}

func nextFreeID(tx *badger.Txn, seq *badger.Sequence) (int64, error) {
	for {
		next, err := seq.Next()
		if err != nil {
			return 0, err
		}
		// BadgerDB sequences can return 0 on first call
		if next == 0 {
			continue
		}

		_, err = tx.Get(makeRecordKey(int64(next)))
		if err == badger.ErrKeyNotFound {
			return int64(next), nil
		}
		if err != nil {
			return 0, err
		}
	}
}
