// Package fileutil provides shared file permission constants.
package fileutil

import "os"

// OwnerReadWrite is the file permission mode for spec output files
// containing potentially sensitive API data (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for generated fixture files
// intended to be read by test tooling and other users.
const ReadableByAll os.FileMode = 0o644

// DirReadableByAll is the directory permission mode for generated
// fixture directories.
const DirReadableByAll os.FileMode = 0o755
