// Package server provides the operational HTTP surface for the control loop.
//
// The surface is deliberately small: status and outcome inspection, dry-run
// evaluation, and explicit application or rollback of proposed decisions.
// Rejected decisions are well-formed business responses and return 200; 4xx
// is reserved for malformed input.
package server
