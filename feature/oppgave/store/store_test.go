package store

import (
	"context"
	"sync"
	"testing"

	"oppgave-sync/core/database"
	"oppgave-sync/feature/oppgave/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	s := New(db, zap.NewNop())
	require.NoError(t, s.AutoMigrate())
	return s
}

func testKopi(id int64, versjon int, hjemmel string) models.OppgaveKopi {
	kopi := models.OppgaveKopi{
		ID:              id,
		Versjon:         versjon,
		Status:          models.KopiStatusOpprettet,
		Prioritet:       models.KopiPrioritetNorm,
		Tema:            "SYK",
		TildeltEnhetsnr: "4291",
		Oppgavetype:     "BEH_SAK_MK",
		Behandlingstype: "ae0058",
		OpprettetAv:     "H149290",
	}
	if hjemmel != "" {
		kopi.Metadata = []models.Metadata{{
			ID:        uuid.NewString(),
			OppgaveID: id,
			Noekkel:   models.MetadataHjemmel,
			Verdi:     hjemmel,
		}}
	}
	return kopi
}

func TestUpsert_InsertNew(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	result, err := s.Upsert(ctx, testKopi(1001, 1, "8-25"))
	require.NoError(t, err)
	assert.True(t, result.Written)
	assert.False(t, result.SkippedStale)

	stored, err := s.Get(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Versjon)
	assert.Equal(t, "8-25", stored.HjemmelValue())

	entry, err := s.GetVersjon(ctx, 1001, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Versjon)
}

func TestUpsert_Idempotent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	kopi := testKopi(1001, 1, "8-25")
	_, err := s.Upsert(ctx, kopi)
	require.NoError(t, err)

	// Replayed delivery of the identical (id, versjon).
	result, err := s.Upsert(ctx, testKopi(1001, 1, "8-25"))
	require.NoError(t, err)
	assert.True(t, result.SkippedStale)

	latest, err := s.GetLatestVersjon(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, 1, latest.Versjon)

	stored, err := s.Get(ctx, 1001)
	require.NoError(t, err)
	assert.Len(t, stored.Metadata, 1)
}

func TestUpsert_StaleVersionSkipped(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Upsert(ctx, testKopi(1001, 5, "8-25"))
	require.NoError(t, err)

	older := testKopi(1001, 3, "22-3")
	result, err := s.Upsert(ctx, older)
	require.NoError(t, err)
	assert.True(t, result.SkippedStale)
	assert.False(t, result.Written)

	stored, err := s.Get(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Versjon)
	assert.Equal(t, "8-25", stored.HjemmelValue())
}

func TestUpsert_NewerVersionOverwrites(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Upsert(ctx, testKopi(1001, 1, "8-25"))
	require.NoError(t, err)

	result, err := s.Upsert(ctx, testKopi(1001, 2, "8-14"))
	require.NoError(t, err)
	assert.True(t, result.Written)

	stored, err := s.Get(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Versjon)
	assert.Equal(t, "8-14", stored.HjemmelValue())

	// Both versions remain in history.
	v1, err := s.GetVersjon(ctx, 1001, 1)
	require.NoError(t, err)
	assert.Equal(t, "8-25", metadataValue(v1.Metadata, models.MetadataHjemmel))

	latest, err := s.GetLatestVersjon(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Versjon)
}

func TestUpsert_MetadataIdentityPreserved(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Upsert(ctx, testKopi(1001, 1, "8-25"))
	require.NoError(t, err)

	before, err := s.Get(ctx, 1001)
	require.NoError(t, err)
	require.Len(t, before.Metadata, 1)
	originalID := before.Metadata[0].ID

	t.Run("same value keeps identity", func(t *testing.T) {
		_, err := s.Upsert(ctx, testKopi(1001, 2, "8-25"))
		require.NoError(t, err)

		after, err := s.Get(ctx, 1001)
		require.NoError(t, err)
		require.Len(t, after.Metadata, 1)
		assert.Equal(t, originalID, after.Metadata[0].ID)
	})

	t.Run("changed value keeps identity", func(t *testing.T) {
		_, err := s.Upsert(ctx, testKopi(1001, 3, "8-14"))
		require.NoError(t, err)

		after, err := s.Get(ctx, 1001)
		require.NoError(t, err)
		require.Len(t, after.Metadata, 1)
		assert.Equal(t, originalID, after.Metadata[0].ID)
		assert.Equal(t, "8-14", after.Metadata[0].Verdi)
	})

	t.Run("dropped key removed", func(t *testing.T) {
		_, err := s.Upsert(ctx, testKopi(1001, 4, ""))
		require.NoError(t, err)

		after, err := s.Get(ctx, 1001)
		require.NoError(t, err)
		assert.Empty(t, after.Metadata)
	})
}

func TestUpsert_NewKeyGetsFreshIdentity(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Upsert(ctx, testKopi(1001, 1, "8-25"))
	require.NoError(t, err)

	next := testKopi(1001, 2, "8-25")
	next.Metadata = append(next.Metadata, models.Metadata{
		ID:        uuid.NewString(),
		OppgaveID: 1001,
		Noekkel:   models.MetadataMottattDato,
		Verdi:     "2020-09-09",
	})

	_, err = s.Upsert(ctx, next)
	require.NoError(t, err)

	after, err := s.Get(ctx, 1001)
	require.NoError(t, err)
	assert.Len(t, after.Metadata, 2)

	asMap := after.MetadataAsMap()
	assert.Equal(t, "8-25", asMap[models.MetadataHjemmel])
	assert.Equal(t, "2020-09-09", asMap[models.MetadataMottattDato])
}

func TestUpsert_MissingID(t *testing.T) {
	s := setupStore(t)

	_, err := s.Upsert(context.Background(), models.OppgaveKopi{Versjon: 1})
	assert.ErrorIs(t, err, models.ErrMissingID)
}

func TestGet_NotFound(t *testing.T) {
	s := setupStore(t)

	_, err := s.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetVersjon(context.Background(), 404, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetLatestVersjon(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsert_ConcurrentSameID(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	// Concurrent upserts for one id must serialize; the highest version
	// wins and every distinct version lands in history exactly once.
	var wg sync.WaitGroup
	for versjon := 1; versjon <= 10; versjon++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			_, err := s.Upsert(ctx, testKopi(2002, v, "8-3"))
			assert.NoError(t, err)
		}(versjon)
	}
	wg.Wait()

	stored, err := s.Get(ctx, 2002)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Versjon)

	latest, err := s.GetLatestVersjon(ctx, 2002)
	require.NoError(t, err)
	assert.Equal(t, 10, latest.Versjon)
}

func metadataValue(items []models.VersjonMetadata, key models.MetadataKey) string {
	for _, item := range items {
		if item.Noekkel == key {
			return item.Verdi
		}
	}
	return ""
}
