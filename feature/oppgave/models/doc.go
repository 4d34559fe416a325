// Package models defines the oppgave domain types.
//
// Three shapes of the same case record exist:
//
//   - OppgaveKafkaRecord: the change event as delivered on the stream
//   - Oppgave: the record as spoken by the remote oppgave API
//   - OppgaveKopi / OppgaveKopiVersjon: the versioned local copy (GORM)
//
// Wire-side and stored-side enumerations are distinct types crossed only
// through the explicit mapping tables in mapping.go; totality is checked
// at package init.
package models
