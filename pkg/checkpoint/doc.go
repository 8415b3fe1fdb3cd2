// Package checkpoint provides functionality for saving and resuming collections.
//
// The checkpoint system allows a search that stopped at the page ceiling to
// resume from its live pagination cursor instead of re-fetching from the
// start. It tracks:
//   - The next_token cursor position
//   - Pages fetched and tweets collected so far
//   - The CSV file rows are appended to on resume
//
// Checkpoints are stored in platform-specific data directories:
//   - Linux: ~/.local/share/xplore/checkpoints/
//   - macOS: ~/Library/Application Support/xplore/checkpoints/
//   - Windows: %APPDATA%/xplore/checkpoints/
//
// The checkpoint files are saved atomically to prevent corruption and include
// versioning for future compatibility.
package checkpoint
