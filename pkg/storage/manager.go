package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	errs "github.com/tgsn-co/XPlore/pkg/errors"
)

// exportExtensions are the file types the manager owns in the output directory
var exportExtensions = map[string]bool{
	".csv":  true,
	".svg":  true,
	".png":  true,
	".json": true,
}

// Manager handles export file operations and collision detection
type Manager struct {
	outputDir string
	overwrite bool
	exports   map[string]bool
	mu        sync.RWMutex
}

// NewManager creates a new storage manager rooted at outputDir
func NewManager(outputDir string, overwrite bool) (*Manager, error) {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manager := &Manager{
		outputDir: outputDir,
		overwrite: overwrite,
		exports:   make(map[string]bool),
	}

	// Scan existing files for collision detection
	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return manager, nil
}

// scanExistingFiles records the export files already present in the directory
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && exportExtensions[filepath.Ext(entry.Name())] {
			m.exports[entry.Name()] = true
		}
	}

	return nil
}

// Exists checks if an export with the given filename is already present
func (m *Manager) Exists(filename string) bool {
	filename = filepath.Base(filename)

	m.mu.RLock()
	if m.exports[filename] {
		m.mu.RUnlock()
		return true
	}
	m.mu.RUnlock()

	// Double-check on disk in case another process wrote it
	if _, err := os.Stat(filepath.Join(m.outputDir, filename)); err == nil {
		m.mu.Lock()
		m.exports[filename] = true
		m.mu.Unlock()
		return true
	}

	return false
}

// Write creates an export file atomically. The write callback receives the
// file; its content lands under the final name only after a clean close.
// An existing file fails the call unless the manager was built with overwrite.
func (m *Manager) Write(filename string, write func(w io.Writer) error) error {
	filename = filepath.Base(filename)

	if !m.overwrite && m.Exists(filename) {
		return errs.Newf(errs.ErrorTypeValidation,
			"output file %q already exists (enable overwrite or choose another name)", filename)
	}

	target := filepath.Join(m.outputDir, filename)

	// Create temporary file first
	tempFile := target + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	err = write(out)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile) // Clean up temp file
		return fmt.Errorf("failed to write export data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile) // Clean up temp file
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	// Atomic rename
	if err := os.Rename(tempFile, target); err != nil {
		os.Remove(tempFile) // Clean up temp file
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	// Update export map
	m.mu.Lock()
	m.exports[filename] = true
	m.mu.Unlock()

	return nil
}

// Append adds to an existing export file, creating it if absent. Appends are
// not atomic; they exist for resumed collections extending their own CSV.
func (m *Manager) Append(filename string, write func(w io.Writer) error) error {
	filename = filepath.Base(filename)
	target := filepath.Join(m.outputDir, filename)

	out, err := os.OpenFile(target, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file for append: %w", err)
	}

	err = write(out)
	closeErr := out.Close()

	if err != nil {
		return fmt.Errorf("failed to append export data: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	m.mu.Lock()
	m.exports[filename] = true
	m.mu.Unlock()

	return nil
}

// ListExports returns the export filenames present in the output directory
func (m *Manager) ListExports() ([]string, error) {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && exportExtensions[filepath.Ext(entry.Name())] {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	return files, nil
}

// Path returns the path an export filename resolves to inside the output directory
func (m *Manager) Path(filename string) string {
	return filepath.Join(m.outputDir, filepath.Base(filename))
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetExportCount returns the number of export files the manager knows about
func (m *Manager) GetExportCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.exports)
}
