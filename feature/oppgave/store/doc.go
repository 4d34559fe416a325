// Package store persists the versioned local copy of oppgaver.
//
// Two tables hold the state: oppgave_kopi keeps the latest snapshot per id,
// oppgave_kopi_versjon keeps an append-only history entry per (id, versjon)
// ever observed. Upsert is idempotent: replayed deliveries of the same
// (id, versjon) change nothing, stale versions are skipped, and metadata
// items keep their internal identifiers across version overwrites.
package store
