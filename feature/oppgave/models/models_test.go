package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingTablesAreTotal(t *testing.T) {
	for _, s := range AllStatuses() {
		mapped, err := MapStatus(s)
		assert.NoError(t, err)
		assert.NotEmpty(t, mapped)
	}

	for _, p := range AllPrioriteter() {
		mapped, err := MapPrioritet(p)
		assert.NoError(t, err)
		assert.NotEmpty(t, mapped)
	}
}

func TestMapStatus_Unknown(t *testing.T) {
	_, err := MapStatus("NOT_A_STATUS")
	assert.Error(t, err)
}

func TestOppgave_WithMetadata(t *testing.T) {
	original := Oppgave{
		ID:       1,
		Metadata: map[string]string{"HJEMMEL": "8-3"},
	}

	updated := original.WithMetadata(MetadataHjemmel, "8-14")

	assert.Equal(t, "8-14", updated.HjemmelValue())
	// The original record is untouched.
	assert.Equal(t, "8-3", original.HjemmelValue())
}

func TestKafkaRecordToKopi(t *testing.T) {
	record := OppgaveKafkaRecord{
		ID:              1001,
		Versjon:         3,
		Status:          StatusUnderBehandling,
		Prioritet:       PrioritetNorm,
		TildeltEnhetsnr: "4291",
		Tema:            "SYK",
		Oppgavetype:     "BEH_SAK_MK",
		Behandlingstype: "ae0058",
		Beskrivelse:     "noe tekst",
		Ident:           &KafkaIdent{IdentType: IdentTypeAktoerID, Verdi: "12345", Folkeregisterident: "12345678910"},
		Metadata:        map[MetadataKey]string{MetadataHjemmel: "8-25"},
	}

	kopi, err := KafkaRecordToKopi(record)
	require.NoError(t, err)

	assert.Equal(t, int64(1001), kopi.ID)
	assert.Equal(t, 3, kopi.Versjon)
	assert.Equal(t, KopiStatusUnderBehandling, kopi.Status)
	assert.Equal(t, KopiPrioritetNorm, kopi.Prioritet)
	assert.Equal(t, "12345", kopi.IdentVerdi)
	assert.Equal(t, "8-25", kopi.HjemmelValue())
	require.Len(t, kopi.Metadata, 1)
	assert.NotEmpty(t, kopi.Metadata[0].ID)
}

func TestKafkaRecordToKopi_MissingID(t *testing.T) {
	_, err := KafkaRecordToKopi(OppgaveKafkaRecord{Versjon: 1, Status: StatusOpprettet, Prioritet: PrioritetNorm})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestKafkaRecordToKopi_UnknownMetadataKey(t *testing.T) {
	record := OppgaveKafkaRecord{
		ID:        1,
		Status:    StatusOpprettet,
		Prioritet: PrioritetNorm,
		Metadata:  map[MetadataKey]string{"BOGUS": "x"},
	}

	_, err := KafkaRecordToKopi(record)
	assert.Error(t, err)
}

func TestAPIRecordToKopi(t *testing.T) {
	record := Oppgave{
		ID:        2002,
		Versjon:   1,
		Status:    StatusOpprettet,
		Prioritet: PrioritetHoy,
		Tema:      "SYK",
		Identer: []Ident{
			{Ident: "99988877766", Gruppe: GruppeFolkeregisterident},
			{Ident: "555", Gruppe: GruppeAktoerID},
		},
		Metadata: map[string]string{"HJEMMEL": "22-3"},
	}

	kopi, err := APIRecordToKopi(record)
	require.NoError(t, err)

	assert.Equal(t, string(IdentTypeAktoerID), kopi.IdentType)
	assert.Equal(t, "555", kopi.IdentVerdi)
	assert.Equal(t, "99988877766", kopi.Folkeregisterident)
	assert.Equal(t, "22-3", kopi.HjemmelValue())
}

func TestOppgaveKopi_ToVersjon(t *testing.T) {
	kopi := OppgaveKopi{
		ID:      7,
		Versjon: 2,
		Status:  KopiStatusAapnet,
		Metadata: []Metadata{
			{ID: "original-id", OppgaveID: 7, Noekkel: MetadataHjemmel, Verdi: "8-3"},
		},
	}

	versjon := kopi.ToVersjon()

	assert.Equal(t, int64(7), versjon.ID)
	assert.Equal(t, 2, versjon.Versjon)
	require.Len(t, versjon.Metadata, 1)
	assert.Equal(t, "8-3", versjon.Metadata[0].Verdi)
	// History items carry their own identity.
	assert.NotEqual(t, "original-id", versjon.Metadata[0].ID)
}

func TestOppgaveKafkaRecord_Filter(t *testing.T) {
	record := OppgaveKafkaRecord{Behandlingstype: "ae0058", TildeltEnhetsnr: "4291"}

	assert.True(t, record.IsKlage("ae0058"))
	assert.False(t, record.IsKlage("ae0046"))
	assert.True(t, record.IsTildeltKlageenhet("42"))
	assert.False(t, record.IsTildeltKlageenhet("44"))
}
