// Package logging builds the application's slog loggers: a human-oriented
// console format for interactive use and JSON for anything that scrapes the
// log file.
package logging
