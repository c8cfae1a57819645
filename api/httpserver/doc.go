// Package httpserver provides a base HTTP server with structured request
// logging, readiness/liveness endpoints, drain handling and optional pprof.
// Round services plug their routes in through the RouteRegistrar interface.
package httpserver
