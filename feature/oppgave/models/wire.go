package models

// Wire-side types: the change-event record from the stream and the record
// shape spoken by the remote oppgave API. Timestamps stay strings on the
// wire; this subsystem never computes with them.

// Status is the wire-side oppgave status.
type Status string

const (
	StatusOpprettet       Status = "OPPRETTET"
	StatusAapnet          Status = "AAPNET"
	StatusUnderBehandling Status = "UNDER_BEHANDLING"
	StatusFerdigstilt     Status = "FERDIGSTILT"
	StatusFeilregistrert  Status = "FEILREGISTRERT"
)

// Statuskategori is the coarse open/closed classification.
type Statuskategori string

const (
	StatuskategoriAapen     Statuskategori = "AAPEN"
	StatuskategoriAvsluttet Statuskategori = "AVSLUTTET"
)

// Prioritet is the wire-side oppgave priority.
type Prioritet string

const (
	PrioritetHoy  Prioritet = "HOY"
	PrioritetNorm Prioritet = "NORM"
	PrioritetLav  Prioritet = "LAV"
)

// IdentType classifies the subject identifier on a stream record.
type IdentType string

const (
	IdentTypeAktoerID   IdentType = "AKTOERID"
	IdentTypeOrgnr      IdentType = "ORGNR"
	IdentTypeSamhandler IdentType = "SAMHANDLERNR"
	IdentTypeBostnummer IdentType = "BNR"
)

// MetadataKey is the closed set of metadata keys an oppgave may carry.
type MetadataKey string

const (
	MetadataNormDato             MetadataKey = "NORM_DATO"
	MetadataRevurderingstype     MetadataKey = "REVURDERINGSTYPE"
	MetadataSoknadID             MetadataKey = "SOKNAD_ID"
	MetadataKravID               MetadataKey = "KRAV_ID"
	MetadataMottattDato          MetadataKey = "MOTTATT_DATO"
	MetadataEksternHenvendelseID MetadataKey = "EKSTERN_HENVENDELSE_ID"
	MetadataSkannetDato          MetadataKey = "SKANNET_DATO"
	MetadataRinaSakID            MetadataKey = "RINA_SAKID"
	MetadataHjemmel              MetadataKey = "HJEMMEL"
)

// KafkaIdent is the subject identifier as delivered on the stream.
type KafkaIdent struct {
	ID                 *int64    `json:"id,omitempty"`
	IdentType          IdentType `json:"identType"`
	Verdi              string    `json:"verdi"`
	Folkeregisterident string    `json:"folkeregisterident,omitempty"`
}

// OppgaveKafkaRecord is one change event from the oppgave stream.
type OppgaveKafkaRecord struct {
	ID                     int64                  `json:"id"`
	Versjon                int                    `json:"versjon"`
	JournalpostID          string                 `json:"journalpostId,omitempty"`
	Saksreferanse          string                 `json:"saksreferanse,omitempty"`
	MappeID                *int64                 `json:"mappeId,omitempty"`
	Status                 Status                 `json:"status"`
	Statuskategori         Statuskategori         `json:"statuskategori,omitempty"`
	TildeltEnhetsnr        string                 `json:"tildeltEnhetsnr"`
	OpprettetAvEnhetsnr    string                 `json:"opprettetAvEnhetsnr,omitempty"`
	EndretAvEnhetsnr       string                 `json:"endretAvEnhetsnr,omitempty"`
	Tema                   string                 `json:"tema"`
	Temagruppe             string                 `json:"temagruppe,omitempty"`
	Behandlingstema        string                 `json:"behandlingstema,omitempty"`
	Oppgavetype            string                 `json:"oppgavetype"`
	Behandlingstype        string                 `json:"behandlingstype,omitempty"`
	Prioritet              Prioritet              `json:"prioritet"`
	TilordnetRessurs       string                 `json:"tilordnetRessurs,omitempty"`
	Beskrivelse            string                 `json:"beskrivelse,omitempty"`
	FristFerdigstillelse   string                 `json:"fristFerdigstillelse,omitempty"`
	AktivDato              string                 `json:"aktivDato"`
	OpprettetAv            string                 `json:"opprettetAv"`
	EndretAv               string                 `json:"endretAv,omitempty"`
	OpprettetTidspunkt     string                 `json:"opprettetTidspunkt"`
	EndretTidspunkt        string                 `json:"endretTidspunkt,omitempty"`
	FerdigstiltTidspunkt   string                 `json:"ferdigstiltTidspunkt,omitempty"`
	BehandlesAvApplikasjon string                 `json:"behandlesAvApplikasjon,omitempty"`
	Journalpostkilde       string                 `json:"journalpostkilde,omitempty"`
	Ident                  *KafkaIdent            `json:"ident,omitempty"`
	Metadata               map[MetadataKey]string `json:"metadata,omitempty"`
}

// IsKlage reports whether the record is a complaint case of the given
// case-type code.
func (o OppgaveKafkaRecord) IsKlage(behandlingstype string) bool {
	return o.Behandlingstype == behandlingstype
}

// IsTildeltKlageenhet reports whether the record is assigned to a
// complaint-handling unit, identified by unit-code prefix.
func (o OppgaveKafkaRecord) IsTildeltKlageenhet(prefix string) bool {
	return len(o.TildeltEnhetsnr) >= len(prefix) && o.TildeltEnhetsnr[:len(prefix)] == prefix
}

// HjemmelValue returns the stored legal reference, or "" when unset.
func (o OppgaveKafkaRecord) HjemmelValue() string {
	return o.Metadata[MetadataHjemmel]
}
