package catalog

import "os"

// System abstracts the filesystem and environment reads used by version
// discovery. The interface is intentionally package-local so tests can run in
// parallel without shared global state; other packages define their own System
// interfaces with operations specific to their needs.
type System interface {
	ReadDir(name string) ([]os.DirEntry, error)
	Stat(name string) (os.FileInfo, error)
	Getenv(key string) string
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// ReadDir reads the named directory and returns its entries sorted by name.
func (RealSystem) ReadDir(name string) ([]os.DirEntry, error) {
	return os.ReadDir(name)
}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// Getenv returns the value of the environment variable named by key.
func (RealSystem) Getenv(key string) string {
	return os.Getenv(key)
}
