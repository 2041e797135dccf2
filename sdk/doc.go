// Package sdk reports agent telemetry to a Nexus server and reads it back.
//
// A Tracker collects metrics, health and security data locally for one agent and posts them to the
// server's ingest endpoints. A Client reads the dashboard endpoints.
package sdk
