// Package logging provides structured logging for Callisto built on log/slog.
//
// Loggers are constructed from configuration (level, format, source
// annotation) and handed down to components, which attach their own
// "component" attribute. Output formats are JSON for machine consumption and
// text for local development.
package logging
