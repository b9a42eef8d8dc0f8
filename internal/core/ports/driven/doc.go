// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - NoteStore: Persistence of the whole note collection
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil or absent - the application degrades gracefully:
//
//   - Recogniser: Speech recognition engine. Without it, dictation reports
//     "Speech not supported".
//   - Watchable: Change notification for stores edited by other processes.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
