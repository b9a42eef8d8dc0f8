// Package domain defines the core business entities for quill.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Note: A user document with title, body and pin state
//   - RecognitionEvent: One callback from a speech recognition engine
//   - RecordingStatus: The dictation state shown to the user
//   - AppSettings: User configuration with defaults
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
