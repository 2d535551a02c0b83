package patcher

import "os"

// System abstracts the filesystem mutations the orchestrator performs
// directly: classification stats and the backup/swap renames. Package-local by
// design; see the catalog package for rationale.
type System interface {
	Stat(name string) (os.FileInfo, error)
	Rename(oldpath string, newpath string) error
	Remove(name string) error
	RemoveAll(path string) error
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// Rename renames (moves) oldpath to newpath.
func (RealSystem) Rename(oldpath string, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Remove removes the named file.
func (RealSystem) Remove(name string) error {
	return os.Remove(name)
}

// RemoveAll removes path and any children it contains.
func (RealSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
