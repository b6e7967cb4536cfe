package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/zenzer0s/crawlbase/internal/domain"
)

// BadgerRepository implements Repository on BadgerDB.
type BadgerRepository struct {
	db  *badger.DB
	log logrus.FieldLogger
}

// NewBadgerRepository opens (or creates) the database at dbPath.
func NewBadgerRepository(dbPath string, logger logrus.FieldLogger) (*BadgerRepository, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		logger.WithError(err).Error("Failed to open BadgerDB")
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dbPath, err)
	}
	logger.WithField("path", dbPath).Info("BadgerDB opened")

	return &BadgerRepository{
		db:  db,
		log: logger.WithField("component", "repository"),
	}, nil
}

// Close closes the database.
func (r *BadgerRepository) Close() error {
	r.log.Info("Closing BadgerDB...")
	if err := r.db.Close(); err != nil {
		r.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	r.log.Info("BadgerDB closed.")
	return nil
}

// recordKey format: user:{userID}:call:{variant}:{target}
func recordKey(userID int64, variant, target string) []byte {
	return []byte(fmt.Sprintf("user:%d:call:%s:%s", userID, variant, target))
}

// userPrefix format: user:{userID}:call:
func userPrefix(userID int64) []byte {
	return []byte(fmt.Sprintf("user:%d:call:", userID))
}

// SaveRecord stores or replaces a record.
func (r *BadgerRepository) SaveRecord(ctx context.Context, rec domain.Record) error {
	log := r.log.WithFields(logrus.Fields{
		"user_id": rec.UserID,
		"variant": rec.Variant,
		"target":  rec.Target,
	})

	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	recBytes, err := json.Marshal(rec)
	if err != nil {
		log.WithError(err).Error("Failed to marshal record")
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	key := recordKey(rec.UserID, rec.Variant, rec.Target)
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(key, recBytes))
	})
	if err != nil {
		log.WithError(err).Error("Failed to save record to BadgerDB")
		return fmt.Errorf("failed to save record: %w", err)
	}

	log.Debug("Record saved")
	return nil
}

// GetRecordsByUser returns all records of userID, newest first.
func (r *BadgerRepository) GetRecordsByUser(ctx context.Context, userID int64) ([]domain.Record, error) {
	log := r.log.WithField("user_id", userID)

	var records []domain.Record
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := userPrefix(userID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var rec domain.Record
				// val is only valid inside this callback; Unmarshal copies what it keeps.
				if err := json.Unmarshal(val, &rec); err != nil {
					return fmt.Errorf("failed to unmarshal record for key %s: %w", string(item.Key()), err)
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to retrieve records from BadgerDB")
		return nil, fmt.Errorf("failed to get records for user %d: %w", userID, err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})

	log.WithField("record_count", len(records)).Debug("Records retrieved")
	return records, nil
}

// DeleteRecord removes a single record.
func (r *BadgerRepository) DeleteRecord(ctx context.Context, userID int64, variant, target string) error {
	log := r.log.WithFields(logrus.Fields{
		"user_id": userID,
		"variant": variant,
		"target":  target,
	})

	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(recordKey(userID, variant, target))
	})
	if err != nil {
		log.WithError(err).Error("Failed to delete record from BadgerDB")
		return fmt.Errorf("failed to delete %s record %s for user %d: %w", variant, target, userID, err)
	}

	log.Info("Record deleted")
	return nil
}

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{})   { l.logger.Errorf(f, v...) }
func (l *badgerLogger) Warningf(f string, v ...interface{}) { l.logger.Warningf(f, v...) }
func (l *badgerLogger) Infof(f string, v ...interface{})    { l.logger.Infof(f, v...) }
func (l *badgerLogger) Debugf(f string, v ...interface{})   { l.logger.Debugf(f, v...) }
