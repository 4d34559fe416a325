package models

import "fmt"

// Explicit, exhaustive mapping tables between the wire-side and stored-side
// enumerations. The near-identical enums used to be crossed by name lookup;
// an unmapped value now fails at package init instead of at runtime.

var statusToKopi = map[Status]KopiStatus{
	StatusOpprettet:       KopiStatusOpprettet,
	StatusAapnet:          KopiStatusAapnet,
	StatusUnderBehandling: KopiStatusUnderBehandling,
	StatusFerdigstilt:     KopiStatusFerdigstilt,
	StatusFeilregistrert:  KopiStatusFeilregistrert,
}

var prioritetToKopi = map[Prioritet]KopiPrioritet{
	PrioritetHoy:  KopiPrioritetHoy,
	PrioritetNorm: KopiPrioritetNorm,
	PrioritetLav:  KopiPrioritetLav,
}

// AllStatuses lists every declared wire-side status.
func AllStatuses() []Status {
	return []Status{
		StatusOpprettet,
		StatusAapnet,
		StatusUnderBehandling,
		StatusFerdigstilt,
		StatusFeilregistrert,
	}
}

// AllPrioriteter lists every declared wire-side priority.
func AllPrioriteter() []Prioritet {
	return []Prioritet{PrioritetHoy, PrioritetNorm, PrioritetLav}
}

func init() {
	// Totality check: a wire value without a stored counterpart is a
	// programming error and must not survive startup.
	for _, s := range AllStatuses() {
		if _, ok := statusToKopi[s]; !ok {
			panic(fmt.Sprintf("models: status %q has no stored mapping", s))
		}
	}
	for _, p := range AllPrioriteter() {
		if _, ok := prioritetToKopi[p]; !ok {
			panic(fmt.Sprintf("models: prioritet %q has no stored mapping", p))
		}
	}
}

// MapStatus maps a wire-side status to its stored form.
func MapStatus(s Status) (KopiStatus, error) {
	mapped, ok := statusToKopi[s]
	if !ok {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return mapped, nil
}

// MapPrioritet maps a wire-side priority to its stored form.
func MapPrioritet(p Prioritet) (KopiPrioritet, error) {
	mapped, ok := prioritetToKopi[p]
	if !ok {
		return "", fmt.Errorf("unknown prioritet %q", p)
	}
	return mapped, nil
}
