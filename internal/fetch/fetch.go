// Package fetch downloads the custom script into the unpacked tree.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fynrae/zalopatch/internal/messages"
)

// ErrDownloadFailed wraps every transport, status, and write failure so
// callers can classify without inspecting the cause.
var ErrDownloadFailed = errors.New("download failed")

// httpClient bounds the whole transfer. Swappable in tests.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// System abstracts the filesystem writes performed by Download. Package-local
// by design; see the catalog package for rationale.
type System interface {
	MkdirAll(path string, perm os.FileMode) error
	Create(name string) (io.WriteCloser, error)
	Remove(name string) error
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Create creates or truncates the named file.
func (RealSystem) Create(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// Remove removes the named file.
func (RealSystem) Remove(name string) error {
	return os.Remove(name)
}

// Download streams url to destPath, creating parent directories as needed.
// On any failure the partially written destination is removed and the error
// wraps ErrDownloadFailed.
func Download(ctx context.Context, sys System, url string, destPath string) error {
	if err := sys.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fail(messages.FetchCreateDirFmt, destPath, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fail(messages.FetchRequestFmt, url, err)
	}
	req.Header.Set("User-Agent", "zalopatch")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fail(messages.FetchTransportFmt, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s", ErrDownloadFailed, fmt.Sprintf(messages.FetchStatusFmt, url, resp.Status))
	}

	file, err := sys.Create(destPath)
	if err != nil {
		return fail(messages.FetchWriteFmt, destPath, err)
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		_ = file.Close()
		removePartial(sys, destPath)
		return fail(messages.FetchWriteFmt, destPath, err)
	}
	if err := file.Close(); err != nil {
		removePartial(sys, destPath)
		return fail(messages.FetchWriteFmt, destPath, err)
	}
	return nil
}

func fail(format string, subject string, err error) error {
	return fmt.Errorf("%w: %s", ErrDownloadFailed, fmt.Errorf(format, subject, err).Error())
}

func removePartial(sys System, destPath string) {
	// Best effort: a partial file must not masquerade as a good download.
	_ = sys.Remove(destPath)
}
