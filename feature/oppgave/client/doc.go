// Package client talks to the remote oppgave REST API. It exposes the
// OppgaveClient interface consumed by the reconciliation engine and a
// thin HTTP implementation with offset pagination, correlation headers
// and secure logging of error payloads.
package client
