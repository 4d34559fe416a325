// Package oppgave keeps klage oppgaver in sync: it consumes change
// events from the oppgave stream, maintains a versioned local copy of
// every matching record, derives the hjemmel from the free-text
// beskrivelse and writes it back to the remote system. Batch runs over
// the remote API are exposed as HTTP triggers.
package oppgave
