// Package server holds the HTTP server configuration section.
//
// The Name field doubles as the consumer id sent to the remote oppgave API
// on every outbound call.
package server
