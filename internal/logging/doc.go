// Package logging builds slog loggers with either a human readable
// console format or JSON output, honoring the logging section of the
// application configuration.
package logging
