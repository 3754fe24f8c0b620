// Package provider defines the metrics provider boundary of the control loop.
//
// The engine never collects telemetry itself; a Provider hands it an honest
// snapshot and a recent history window on demand. The package ships two
// implementations: Static, for tests and one-shot dry runs, and FileProvider,
// which follows a JSON metrics feed file and maintains a bounded history of
// the snapshots it has seen.
//
// Providers are the control loop's only suspend point. Callers are expected
// to bound provider calls with a context timeout and fall back to the
// engine's insufficient-evidence behavior when the provider cannot answer.
package provider
