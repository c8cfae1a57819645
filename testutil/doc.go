// Package testutil provides small helpers shared by tests across the module:
// deterministic and intentionally broken randomness sources, and random test
// data generation.
//
// This package is intended for testing purposes only and should not be used
// in production code.
package testutil
