package models

import "github.com/google/uuid"

// Stored-side types: the versioned local copy of an oppgave. Enums are
// distinct types from the wire-side ones and reached only through the
// explicit mapping tables in mapping.go.

// KopiStatus is the stored-entity status.
type KopiStatus string

const (
	KopiStatusOpprettet       KopiStatus = "OPPRETTET"
	KopiStatusAapnet          KopiStatus = "AAPNET"
	KopiStatusUnderBehandling KopiStatus = "UNDER_BEHANDLING"
	KopiStatusFerdigstilt     KopiStatus = "FERDIGSTILT"
	KopiStatusFeilregistrert  KopiStatus = "FEILREGISTRERT"
)

// KopiPrioritet is the stored-entity priority.
type KopiPrioritet string

const (
	KopiPrioritetHoy  KopiPrioritet = "HOY"
	KopiPrioritetNorm KopiPrioritet = "NORM"
	KopiPrioritetLav  KopiPrioritet = "LAV"
)

// Metadata is one metadata item on the latest oppgave copy. The ID is a
// stable internal identifier independent of the key/value pair, so a value
// can be replaced in place without the item changing identity across
// versions.
type Metadata struct {
	ID        string      `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	OppgaveID int64       `gorm:"column:oppgave_id;index" json:"-"`
	Noekkel   MetadataKey `gorm:"column:noekkel;type:varchar(40)" json:"noekkel"`
	Verdi     string      `gorm:"column:verdi" json:"verdi"`
}

// TableName overrides the table name for metadata items.
func (Metadata) TableName() string {
	return "oppgave_kopi_metadata"
}

// OppgaveKopi is the latest-known snapshot of one oppgave (one row per id).
type OppgaveKopi struct {
	ID                     int64         `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Versjon                int           `gorm:"column:versjon" json:"versjon"`
	JournalpostID          string        `gorm:"column:journalpost_id" json:"journalpostId,omitempty"`
	Saksreferanse          string        `gorm:"column:saksreferanse" json:"saksreferanse,omitempty"`
	MappeID                *int64        `gorm:"column:mappe_id" json:"mappeId,omitempty"`
	Status                 KopiStatus    `gorm:"column:status;type:varchar(20)" json:"status"`
	TildeltEnhetsnr        string        `gorm:"column:tildelt_enhetsnr" json:"tildeltEnhetsnr"`
	OpprettetAvEnhetsnr    string        `gorm:"column:opprettet_av_enhetsnr" json:"opprettetAvEnhetsnr,omitempty"`
	EndretAvEnhetsnr       string        `gorm:"column:endret_av_enhetsnr" json:"endretAvEnhetsnr,omitempty"`
	Tema                   string        `gorm:"column:tema" json:"tema"`
	Temagruppe             string        `gorm:"column:temagruppe" json:"temagruppe,omitempty"`
	Behandlingstema        string        `gorm:"column:behandlingstema" json:"behandlingstema,omitempty"`
	Oppgavetype            string        `gorm:"column:oppgavetype" json:"oppgavetype"`
	Behandlingstype        string        `gorm:"column:behandlingstype" json:"behandlingstype,omitempty"`
	Prioritet              KopiPrioritet `gorm:"column:prioritet;type:varchar(10)" json:"prioritet"`
	TilordnetRessurs       string        `gorm:"column:tilordnet_ressurs" json:"tilordnetRessurs,omitempty"`
	Beskrivelse            string        `gorm:"column:beskrivelse" json:"beskrivelse,omitempty"`
	FristFerdigstillelse   string        `gorm:"column:frist_ferdigstillelse" json:"fristFerdigstillelse,omitempty"`
	AktivDato              string        `gorm:"column:aktiv_dato" json:"aktivDato"`
	OpprettetAv            string        `gorm:"column:opprettet_av" json:"opprettetAv"`
	EndretAv               string        `gorm:"column:endret_av" json:"endretAv,omitempty"`
	OpprettetTidspunkt     string        `gorm:"column:opprettet_tidspunkt" json:"opprettetTidspunkt"`
	EndretTidspunkt        string        `gorm:"column:endret_tidspunkt" json:"endretTidspunkt,omitempty"`
	FerdigstiltTidspunkt   string        `gorm:"column:ferdigstilt_tidspunkt" json:"ferdigstiltTidspunkt,omitempty"`
	BehandlesAvApplikasjon string        `gorm:"column:behandles_av_applikasjon" json:"behandlesAvApplikasjon,omitempty"`
	Journalpostkilde       string        `gorm:"column:journalpostkilde" json:"journalpostkilde,omitempty"`
	IdentType              string        `gorm:"column:ident_type" json:"identType,omitempty"`
	IdentVerdi             string        `gorm:"column:ident_verdi" json:"identVerdi,omitempty"`
	Folkeregisterident     string        `gorm:"column:folkeregisterident" json:"folkeregisterident,omitempty"`
	Metadata               []Metadata    `gorm:"foreignKey:OppgaveID;references:ID" json:"metadata,omitempty"`
}

// TableName overrides the table name for the latest-snapshot table.
func (OppgaveKopi) TableName() string {
	return "oppgave_kopi"
}

// MetadataAsMap flattens the metadata items to a key/value map.
func (k OppgaveKopi) MetadataAsMap() map[MetadataKey]string {
	m := make(map[MetadataKey]string, len(k.Metadata))
	for _, item := range k.Metadata {
		m[item.Noekkel] = item.Verdi
	}
	return m
}

// HjemmelValue returns the stored legal reference, or "" when unset.
func (k OppgaveKopi) HjemmelValue() string {
	for _, item := range k.Metadata {
		if item.Noekkel == MetadataHjemmel {
			return item.Verdi
		}
	}
	return ""
}

// VersjonMetadata is one metadata item on a history entry.
type VersjonMetadata struct {
	ID        string      `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	OppgaveID int64       `gorm:"column:oppgave_id;index:idx_versjon_metadata" json:"-"`
	Versjon   int         `gorm:"column:versjon;index:idx_versjon_metadata" json:"-"`
	Noekkel   MetadataKey `gorm:"column:noekkel;type:varchar(40)" json:"noekkel"`
	Verdi     string      `gorm:"column:verdi" json:"verdi"`
}

// TableName overrides the table name for history metadata items.
func (VersjonMetadata) TableName() string {
	return "oppgave_kopi_versjon_metadata"
}

// OppgaveKopiVersjon is one append-only history entry, keyed by
// (id, versjon). Rows are written at most once and never mutated.
type OppgaveKopiVersjon struct {
	ID                     int64             `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Versjon                int               `gorm:"column:versjon;primaryKey;autoIncrement:false" json:"versjon"`
	JournalpostID          string            `gorm:"column:journalpost_id" json:"journalpostId,omitempty"`
	Saksreferanse          string            `gorm:"column:saksreferanse" json:"saksreferanse,omitempty"`
	MappeID                *int64            `gorm:"column:mappe_id" json:"mappeId,omitempty"`
	Status                 KopiStatus        `gorm:"column:status;type:varchar(20)" json:"status"`
	TildeltEnhetsnr        string            `gorm:"column:tildelt_enhetsnr" json:"tildeltEnhetsnr"`
	Tema                   string            `gorm:"column:tema" json:"tema"`
	Oppgavetype            string            `gorm:"column:oppgavetype" json:"oppgavetype"`
	Behandlingstype        string            `gorm:"column:behandlingstype" json:"behandlingstype,omitempty"`
	Prioritet              KopiPrioritet     `gorm:"column:prioritet;type:varchar(10)" json:"prioritet"`
	TilordnetRessurs       string            `gorm:"column:tilordnet_ressurs" json:"tilordnetRessurs,omitempty"`
	Beskrivelse            string            `gorm:"column:beskrivelse" json:"beskrivelse,omitempty"`
	FristFerdigstillelse   string            `gorm:"column:frist_ferdigstillelse" json:"fristFerdigstillelse,omitempty"`
	AktivDato              string            `gorm:"column:aktiv_dato" json:"aktivDato"`
	OpprettetAv            string            `gorm:"column:opprettet_av" json:"opprettetAv"`
	EndretAv               string            `gorm:"column:endret_av" json:"endretAv,omitempty"`
	OpprettetTidspunkt     string            `gorm:"column:opprettet_tidspunkt" json:"opprettetTidspunkt"`
	EndretTidspunkt        string            `gorm:"column:endret_tidspunkt" json:"endretTidspunkt,omitempty"`
	FerdigstiltTidspunkt   string            `gorm:"column:ferdigstilt_tidspunkt" json:"ferdigstiltTidspunkt,omitempty"`
	Metadata               []VersjonMetadata `gorm:"foreignKey:OppgaveID,Versjon;references:ID,Versjon" json:"metadata,omitempty"`
}

// TableName overrides the table name for the history table.
func (OppgaveKopiVersjon) TableName() string {
	return "oppgave_kopi_versjon"
}

// ToVersjon derives the history entry for this snapshot. History metadata
// items get their own identifiers; history identity never aliases the
// mutable latest-snapshot items.
func (k OppgaveKopi) ToVersjon() OppgaveKopiVersjon {
	metadata := make([]VersjonMetadata, 0, len(k.Metadata))
	for _, item := range k.Metadata {
		metadata = append(metadata, VersjonMetadata{
			ID:        uuid.NewString(),
			OppgaveID: k.ID,
			Versjon:   k.Versjon,
			Noekkel:   item.Noekkel,
			Verdi:     item.Verdi,
		})
	}

	return OppgaveKopiVersjon{
		ID:                   k.ID,
		Versjon:              k.Versjon,
		JournalpostID:        k.JournalpostID,
		Saksreferanse:        k.Saksreferanse,
		MappeID:              k.MappeID,
		Status:               k.Status,
		TildeltEnhetsnr:      k.TildeltEnhetsnr,
		Tema:                 k.Tema,
		Oppgavetype:          k.Oppgavetype,
		Behandlingstype:      k.Behandlingstype,
		Prioritet:            k.Prioritet,
		TilordnetRessurs:     k.TilordnetRessurs,
		Beskrivelse:          k.Beskrivelse,
		FristFerdigstillelse: k.FristFerdigstillelse,
		AktivDato:            k.AktivDato,
		OpprettetAv:          k.OpprettetAv,
		EndretAv:             k.EndretAv,
		OpprettetTidspunkt:   k.OpprettetTidspunkt,
		EndretTidspunkt:      k.EndretTidspunkt,
		FerdigstiltTidspunkt: k.FerdigstiltTidspunkt,
		Metadata:             metadata,
	}
}
