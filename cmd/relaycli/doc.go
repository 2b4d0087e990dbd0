// Package `relaycli` implements console client of broadcast chat relay.
//
// Every line typed on standard input is sent to relay, every message from relay is printed on standard output.
// Diagnostics go to standard error.
//
//	go run . --host 127.0.0.1 --port 8000
package main
