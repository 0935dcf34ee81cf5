// Package logging provides structured logging for the home controller.
//
// This package wraps log/slog so every component logs with the same
// default fields (service, version) and key/value attributes.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stderr"   # stdout, stderr
//
// Logs default to stderr. The temperature report line is not a log entry
// and is written to its own sink.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Component("mqtt").Info("connected", "broker", addr)
package logging
