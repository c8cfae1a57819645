// Package services provides the server-communication collaborators around
// the secure-aggregation core.
//
// RoundClient drives a protocol.Session through a full round over HTTP
// against a coordinator: join, upload the share bundle, upload the masked
// update, fetch the dropped-client list and deliver the unmasking report.
// Transport is the only thing it adds; all protocol state lives in the
// session.
//
// Coordinator is an in-memory implementation of the server side, sufficient
// to run complete local rounds for the demo and end-to-end tests. It keeps
// the uploaded share bundles, reconstructs the mask seed of every client
// that delivered an update, and strips the masks from the XOR-combined
// aggregate. It is a development collaborator, not a production aggregator.
package services
