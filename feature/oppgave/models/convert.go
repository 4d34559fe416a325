package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrMissingID marks a record lacking the identity field required to build
// a merge target. Fatal for that single record only; batch runs count it
// and continue.
var ErrMissingID = errors.New("oppgave record is missing id")

var validMetadataKeys = map[MetadataKey]struct{}{
	MetadataNormDato:             {},
	MetadataRevurderingstype:     {},
	MetadataSoknadID:             {},
	MetadataKravID:               {},
	MetadataMottattDato:          {},
	MetadataEksternHenvendelseID: {},
	MetadataSkannetDato:          {},
	MetadataRinaSakID:            {},
	MetadataHjemmel:              {},
}

// KafkaRecordToKopi maps a stream record to the stored copy form.
// Metadata items get fresh identifiers; the store's merge preserves the
// identifiers of items that already exist for the id.
func KafkaRecordToKopi(o OppgaveKafkaRecord) (OppgaveKopi, error) {
	if o.ID == 0 {
		return OppgaveKopi{}, ErrMissingID
	}

	status, err := MapStatus(o.Status)
	if err != nil {
		return OppgaveKopi{}, fmt.Errorf("oppgave %d: %w", o.ID, err)
	}

	prioritet, err := MapPrioritet(o.Prioritet)
	if err != nil {
		return OppgaveKopi{}, fmt.Errorf("oppgave %d: %w", o.ID, err)
	}

	metadata := make([]Metadata, 0, len(o.Metadata))
	for key, value := range o.Metadata {
		if _, ok := validMetadataKeys[key]; !ok {
			return OppgaveKopi{}, fmt.Errorf("oppgave %d: unknown metadata key %q", o.ID, key)
		}
		metadata = append(metadata, Metadata{
			ID:        uuid.NewString(),
			OppgaveID: o.ID,
			Noekkel:   key,
			Verdi:     value,
		})
	}

	kopi := OppgaveKopi{
		ID:                     o.ID,
		Versjon:                o.Versjon,
		JournalpostID:          o.JournalpostID,
		Saksreferanse:          o.Saksreferanse,
		MappeID:                o.MappeID,
		Status:                 status,
		TildeltEnhetsnr:        o.TildeltEnhetsnr,
		OpprettetAvEnhetsnr:    o.OpprettetAvEnhetsnr,
		EndretAvEnhetsnr:       o.EndretAvEnhetsnr,
		Tema:                   o.Tema,
		Temagruppe:             o.Temagruppe,
		Behandlingstema:        o.Behandlingstema,
		Oppgavetype:            o.Oppgavetype,
		Behandlingstype:        o.Behandlingstype,
		Prioritet:              prioritet,
		TilordnetRessurs:       o.TilordnetRessurs,
		Beskrivelse:            o.Beskrivelse,
		FristFerdigstillelse:   o.FristFerdigstillelse,
		AktivDato:              o.AktivDato,
		OpprettetAv:            o.OpprettetAv,
		EndretAv:               o.EndretAv,
		OpprettetTidspunkt:     o.OpprettetTidspunkt,
		EndretTidspunkt:        o.EndretTidspunkt,
		FerdigstiltTidspunkt:   o.FerdigstiltTidspunkt,
		BehandlesAvApplikasjon: o.BehandlesAvApplikasjon,
		Journalpostkilde:       o.Journalpostkilde,
		Metadata:               metadata,
	}

	if o.Ident != nil {
		kopi.IdentType = string(o.Ident.IdentType)
		kopi.IdentVerdi = o.Ident.Verdi
		kopi.Folkeregisterident = o.Ident.Folkeregisterident
	}

	return kopi, nil
}

// APIRecordToKopi maps a remote API record to the stored copy form.
func APIRecordToKopi(o Oppgave) (OppgaveKopi, error) {
	if o.ID == 0 {
		return OppgaveKopi{}, ErrMissingID
	}

	status, err := MapStatus(o.Status)
	if err != nil {
		return OppgaveKopi{}, fmt.Errorf("oppgave %d: %w", o.ID, err)
	}

	prioritet, err := MapPrioritet(o.Prioritet)
	if err != nil {
		return OppgaveKopi{}, fmt.Errorf("oppgave %d: %w", o.ID, err)
	}

	metadata := make([]Metadata, 0, len(o.Metadata))
	for key, value := range o.Metadata {
		noekkel := MetadataKey(key)
		if _, ok := validMetadataKeys[noekkel]; !ok {
			return OppgaveKopi{}, fmt.Errorf("oppgave %d: unknown metadata key %q", o.ID, key)
		}
		metadata = append(metadata, Metadata{
			ID:        uuid.NewString(),
			OppgaveID: o.ID,
			Noekkel:   noekkel,
			Verdi:     value,
		})
	}

	kopi := OppgaveKopi{
		ID:                     o.ID,
		Versjon:                o.Versjon,
		JournalpostID:          o.JournalpostID,
		Saksreferanse:          o.Saksreferanse,
		MappeID:                o.MappeID,
		Status:                 status,
		TildeltEnhetsnr:        o.TildeltEnhetsnr,
		OpprettetAvEnhetsnr:    o.OpprettetAvEnhetsnr,
		EndretAvEnhetsnr:       o.EndretAvEnhetsnr,
		Tema:                   o.Tema,
		Temagruppe:             o.Temagruppe,
		Behandlingstema:        o.Behandlingstema,
		Oppgavetype:            o.Oppgavetype,
		Behandlingstype:        o.Behandlingstype,
		Prioritet:              prioritet,
		TilordnetRessurs:       o.TilordnetRessurs,
		Beskrivelse:            o.Beskrivelse,
		FristFerdigstillelse:   o.FristFerdigstillelse,
		AktivDato:              o.AktivDato,
		OpprettetAv:            o.OpprettetAv,
		EndretAv:               o.EndretAv,
		OpprettetTidspunkt:     o.OpprettetTidspunkt,
		EndretTidspunkt:        o.EndretTidspunkt,
		FerdigstiltTidspunkt:   o.FerdigstiltTidspunkt,
		BehandlesAvApplikasjon: o.BehandlesAvApplikasjon,
		Journalpostkilde:       o.Journalpostkilde,
		Metadata:               metadata,
	}

	for _, ident := range o.Identer {
		switch ident.Gruppe {
		case GruppeAktoerID:
			kopi.IdentType = string(IdentTypeAktoerID)
			kopi.IdentVerdi = ident.Ident
		case GruppeFolkeregisterident:
			kopi.Folkeregisterident = ident.Ident
		}
	}

	return kopi, nil
}
