package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"oppgave-sync/feature/oppgave/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no copy exists for the requested key.
var ErrNotFound = errors.New("oppgave copy not found")

// UpsertResult reports what an Upsert call did.
type UpsertResult struct {
	// Written is true when the latest snapshot was inserted or replaced.
	Written bool
	// SkippedStale is true when the incoming version was not strictly
	// newer than the stored one and the call was a no-op.
	SkippedStale bool
}

// Store is the versioned copy store for oppgaver. Upserts serialize per id
// so the strictly-increasing-version invariant holds under concurrent
// stream and batch writers; different ids never contend.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
	locks  keyedLocks
}

// New creates a store on the given database handle.
func New(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// AutoMigrate creates or updates the copy and history tables.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.OppgaveKopi{},
		&models.Metadata{},
		&models.OppgaveKopiVersjon{},
		&models.VersjonMetadata{},
	)
}

// Upsert stores the incoming copy idempotently.
//
// Absent id: insert, and append the (id, versjon) history entry.
// Present with strictly newer versjon: merge metadata identities, replace
// the snapshot, and append the history entry unless that exact
// (id, versjon) was recorded before (replay protection).
// Present with versjon <= stored: no-op, reported as SkippedStale.
func (s *Store) Upsert(ctx context.Context, kopi models.OppgaveKopi) (UpsertResult, error) {
	if kopi.ID == 0 {
		return UpsertResult{}, models.ErrMissingID
	}

	unlock := s.locks.lock(kopi.ID)
	defer unlock()

	var result UpsertResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.OppgaveKopi
		err := tx.Preload("Metadata").First(&existing, "id = ?", kopi.ID).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&kopi).Error; err != nil {
				return fmt.Errorf("failed to insert oppgave copy %d: %w", kopi.ID, err)
			}
			if err := appendVersjon(tx, kopi); err != nil {
				return err
			}
			result.Written = true
			return nil

		case err != nil:
			return fmt.Errorf("failed to load oppgave copy %d: %w", kopi.ID, err)
		}

		if kopi.Versjon <= existing.Versjon {
			s.logger.Debug("Oppgave copy stored before, won't overwrite",
				zap.Int64("oppgave_id", existing.ID),
				zap.Int("stored_versjon", existing.Versjon),
				zap.Int("incoming_versjon", kopi.Versjon),
			)
			result.SkippedStale = true
			return nil
		}

		kopi.Metadata = mergeMetadata(kopi.Metadata, existing.Metadata)

		// Replace the snapshot: full-row update plus rewritten metadata
		// set. Items keep their merged identifiers.
		if err := tx.Omit("Metadata").Save(&kopi).Error; err != nil {
			return fmt.Errorf("failed to update oppgave copy %d: %w", kopi.ID, err)
		}
		if err := tx.Where("oppgave_id = ?", kopi.ID).Delete(&models.Metadata{}).Error; err != nil {
			return fmt.Errorf("failed to clear metadata for oppgave copy %d: %w", kopi.ID, err)
		}
		if len(kopi.Metadata) > 0 {
			if err := tx.Create(&kopi.Metadata).Error; err != nil {
				return fmt.Errorf("failed to store metadata for oppgave copy %d: %w", kopi.ID, err)
			}
		}

		if err := appendVersjon(tx, kopi); err != nil {
			return err
		}

		result.Written = true
		return nil
	})
	if err != nil {
		return UpsertResult{}, err
	}

	return result, nil
}

// Get returns the latest snapshot for the id.
func (s *Store) Get(ctx context.Context, id int64) (*models.OppgaveKopi, error) {
	var kopi models.OppgaveKopi
	err := s.db.WithContext(ctx).Preload("Metadata").First(&kopi, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load oppgave copy %d: %w", id, err)
	}
	return &kopi, nil
}

// GetVersjon returns one history entry by (id, versjon).
func (s *Store) GetVersjon(ctx context.Context, id int64, versjon int) (*models.OppgaveKopiVersjon, error) {
	var entry models.OppgaveKopiVersjon
	err := s.db.WithContext(ctx).Preload("Metadata").
		First(&entry, "id = ? AND versjon = ?", id, versjon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load oppgave versjon %d/%d: %w", id, versjon, err)
	}
	return &entry, nil
}

// GetLatestVersjon returns the highest-versioned history entry for the id.
func (s *Store) GetLatestVersjon(ctx context.Context, id int64) (*models.OppgaveKopiVersjon, error) {
	var entry models.OppgaveKopiVersjon
	err := s.db.WithContext(ctx).Preload("Metadata").
		Where("id = ?", id).Order("versjon DESC").First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest versjon for oppgave %d: %w", id, err)
	}
	return &entry, nil
}

// appendVersjon writes the history entry for the snapshot, at most once
// per (id, versjon). A replayed delivery finds the row and leaves it alone.
func appendVersjon(tx *gorm.DB, kopi models.OppgaveKopi) error {
	var count int64
	err := tx.Model(&models.OppgaveKopiVersjon{}).
		Where("id = ? AND versjon = ?", kopi.ID, kopi.Versjon).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check versjon %d/%d: %w", kopi.ID, kopi.Versjon, err)
	}
	if count > 0 {
		return nil
	}

	entry := kopi.ToVersjon()
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append versjon %d/%d: %w", kopi.ID, kopi.Versjon, err)
	}
	return nil
}

// mergeMetadata carries the stored item identifier over for every key
// present in both sets. Keys only in the incoming set keep their fresh
// identifiers; keys only in the stored set are dropped by omission.
func mergeMetadata(incoming, existing []models.Metadata) []models.Metadata {
	byKey := make(map[models.MetadataKey]string, len(existing))
	for _, old := range existing {
		byKey[old.Noekkel] = old.ID
	}

	merged := make([]models.Metadata, len(incoming))
	for i, item := range incoming {
		if oldID, ok := byKey[item.Noekkel]; ok {
			item.ID = oldID
		}
		merged[i] = item
	}
	return merged
}

// keyedLocks hands out one mutex per oppgave id.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func (k *keyedLocks) lock(id int64) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[int64]*sync.Mutex)
	}
	l, ok := k.locks[id]
	if !ok {
		l = &sync.Mutex{}
		k.locks[id] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
