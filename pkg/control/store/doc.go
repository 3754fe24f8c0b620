// Package store provides durable audit storage for applied control decisions.
//
// The engine's in-memory ledger is its source of truth for cooldowns and
// outcome evaluation; the store is an optional audit sink so operators can
// answer "what did the loop change last month" after a restart. Two backends
// are provided: Memory for tests and ephemeral deployments, and SQLite for
// single-instance durability.
package store
