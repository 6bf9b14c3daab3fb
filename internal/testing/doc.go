// Package testing contains fixture and assertion helpers shared by tests that
// build documents on disk.
package testing

const (
	testDirPermissions  = 0o750
	testFilePermissions = 0o600
)
