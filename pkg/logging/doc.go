// Package logging provides structured logging configuration for libraryql.
//
// This package wraps log/slog to provide consistent logging across the
// server, the GraphQL handler and the CLI. It supports configurable log
// levels and output formats.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//
//	logger.Info("server started", "port", 5000)
//
// # Integration
//
// Components accept a *slog.Logger in their constructor or via a setter and
// tag it with Component. Request-scoped loggers travel in the request context
// (WithContext, FromContext). If no logger is provided, use Nop.
package logging
