// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a sane console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// All flows accept a context and extract the logger from it, enabling
// scoped, structured logging throughout the codebase. Severity is rendered
// as a leading colored level tag on every console line.
package logger
