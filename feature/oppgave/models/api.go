package models

// Gruppe classifies an identifier on the remote API record.
type Gruppe string

const (
	GruppeFolkeregisterident Gruppe = "FOLKEREGISTERIDENT"
	GruppeAktoerID           Gruppe = "AKTOERID"
	GruppeNpid               Gruppe = "NPID"
)

// Ident is one identifier entry on the remote API record.
type Ident struct {
	Ident  string `json:"ident,omitempty"`
	Gruppe Gruppe `json:"gruppe,omitempty"`
}

// Oppgave is the remote API record shape (RemoteRecordSource wire form).
// Metadata is string-keyed on this surface; the closed key set is only
// enforced when a record is taken into the local copy store.
type Oppgave struct {
	ID                     int64             `json:"id"`
	Versjon                int               `json:"versjon"`
	TildeltEnhetsnr        string            `json:"tildeltEnhetsnr,omitempty"`
	EndretAvEnhetsnr       string            `json:"endretAvEnhetsnr,omitempty"`
	OpprettetAvEnhetsnr    string            `json:"opprettetAvEnhetsnr,omitempty"`
	JournalpostID          string            `json:"journalpostId,omitempty"`
	Journalpostkilde       string            `json:"journalpostkilde,omitempty"`
	BehandlesAvApplikasjon string            `json:"behandlesAvApplikasjon,omitempty"`
	Saksreferanse          string            `json:"saksreferanse,omitempty"`
	Identer                []Ident           `json:"identer,omitempty"`
	TilordnetRessurs       string            `json:"tilordnetRessurs,omitempty"`
	Beskrivelse            string            `json:"beskrivelse,omitempty"`
	Temagruppe             string            `json:"temagruppe,omitempty"`
	Tema                   string            `json:"tema"`
	Behandlingstema        string            `json:"behandlingstema,omitempty"`
	Oppgavetype            string            `json:"oppgavetype,omitempty"`
	Behandlingstype        string            `json:"behandlingstype,omitempty"`
	MappeID                *int64            `json:"mappeId,omitempty"`
	OpprettetAv            string            `json:"opprettetAv,omitempty"`
	EndretAv               string            `json:"endretAv,omitempty"`
	Prioritet              Prioritet         `json:"prioritet,omitempty"`
	Status                 Status            `json:"status,omitempty"`
	Metadata               map[string]string `json:"metadata,omitempty"`
	FristFerdigstillelse   string            `json:"fristFerdigstillelse,omitempty"`
	AktivDato              string            `json:"aktivDato,omitempty"`
	OpprettetTidspunkt     string            `json:"opprettetTidspunkt,omitempty"`
	FerdigstiltTidspunkt   string            `json:"ferdigstiltTidspunkt,omitempty"`
	EndretTidspunkt        string            `json:"endretTidspunkt,omitempty"`
}

// HjemmelValue returns the stored legal reference, or "" when unset.
func (o Oppgave) HjemmelValue() string {
	return o.Metadata[string(MetadataHjemmel)]
}

// WithMetadata returns a copy of the record with one metadata entry set.
// The receiver is never mutated; shared records stay immutable.
func (o Oppgave) WithMetadata(key MetadataKey, value string) Oppgave {
	metadata := make(map[string]string, len(o.Metadata)+1)
	for k, v := range o.Metadata {
		metadata[k] = v
	}
	metadata[string(key)] = value

	o.Metadata = metadata
	return o
}

// OppgaveResponse is one page of a paginated fetch. An empty Oppgaver
// slice ends pagination regardless of AntallTreffTotalt.
type OppgaveResponse struct {
	AntallTreffTotalt int       `json:"antallTreffTotalt"`
	Oppgaver          []Oppgave `json:"oppgaver"`
}
