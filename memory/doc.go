// Package memory holds the in-process message history for a single query.
//
// Ordering model:
//   - index 0 is the system instruction prompt, index 1 the original user query.
//   - later entries are assistant step JSON or user observations, append-only.
//   - nothing is persisted; the history lives as long as one run.
package memory
