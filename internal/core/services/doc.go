// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The two algorithms at the heart of quill live here: Project orders and
// filters the note list, and TranscriptMerger folds streaming speech
// results into a note body. Session composes them with the Recorder state
// machine and the Saver write queue.
package services
