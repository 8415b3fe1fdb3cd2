// Package storage provides file management for collection exports.
//
// The storage package handles:
//   - Creating and managing the output directory
//   - Writing CSV, chart, and manifest files atomically
//   - Detecting name collisions with existing exports
//   - Thread-safe file operations
//
// The Manager type is the primary interface for storage operations. It keeps
// an in-memory set of the export files it has seen for fast collision checks
// and writes through temporary files so a failed export never leaves a
// half-written file behind.
//
// Features:
//   - Atomic file writes using temporary files and rename
//   - Collision handling honoring the overwrite setting
//   - Append mode for resumed collections extending their CSV
//   - Automatic scanning of existing exports on initialization
//
// Usage:
//
//	manager, err := storage.NewManager("./exports", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = manager.Write("TweetsWith_climate.csv", func(w io.Writer) error {
//	    return export.WriteMentions(w, rows)
//	})
//	if err != nil {
//	    log.Printf("Failed to write export: %v", err)
//	}
package storage
