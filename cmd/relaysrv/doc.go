// Package `relaysrv` implements broadcast chat relay server over TCP.
//
// Every chunk of text received from one client is sent as is to every other connected client.
// Optionally WebSocket clients may join the same relay (see --ws flag).
//
// To compile relay server locally, run from package directory:
//
//	go install .
//
// Or quickly launch server with command:
//
//	go run . --port 8000
package main
