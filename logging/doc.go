// Package logging provides the structured JSON logger used by the
// monitoring subsystem.
//
// The Logger interface is intentionally small so a hosting application can
// adapt its own logger to it. The built-in implementation writes one JSON
// object per line with a timestamp, level and message, plus any attached
// fields:
//
//	logger := logging.New("info")
//	logger.Info(ctx, "server started", logging.F("port", 8080))
//
// Use Nop to silence the subsystem entirely.
package logging
