// Package server wires and runs the application's transport servers.
//
// It owns the lifecycle of the HTTP API, the gRPC health server and the
// background workers: startup, signal handling and graceful shutdown in
// reverse order of startup.
package server
