// Package speech provides driven.Recogniser implementations.
//
// Engines:
//   - Script: replays a YAML transcript script, for demos and tests
//   - Command: runs an external recogniser that prints JSON events
//
// Both share one lifecycle: a session emits start, its results, an optional
// error and exactly one end. Sessions are serialised, so the end of a
// stopped session is always delivered before the start of the next one.
package speech
