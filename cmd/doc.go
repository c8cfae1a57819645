// Package cmd provides the runnable binaries for the secure-aggregation SDK.
//
// # Commands
//
// coordinator: Standalone round coordinator collecting one secure-aggregation
// round over HTTP. Intended for development and integration testing.
//
//	go run ./cmd/coordinator --listen-addr=:8080 --clients=5 --threshold=3
//
// demo-cli: Simulates a full round in-process with configurable dropouts and
// verifies the unmasked aggregate.
//
//	go run ./cmd/demo-cli --clients=5 --threshold=3 --drop=1 --update-size=64
package cmd
