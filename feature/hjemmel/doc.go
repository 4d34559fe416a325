// Package hjemmel extracts legal-reference codes from oppgave descriptions.
//
// A hjemmel is a short "section-subsection" citation (e.g. "8-35") naming
// the legal basis for a decision. Saksbehandlere write them into the free
// text beskrivelse field, often prefixed with a paragraph glyph ("§8-35")
// and surrounded by history markers. The extractor finds every candidate,
// validates it against a closed whitelist of legally meaningful codes, and
// returns the survivors in source order.
//
// Numeric ranges that merely look like citations (say "6-66" in a date or
// an amount) fail whitelist validation and are dropped without comment.
package hjemmel
