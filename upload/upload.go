// Package upload keeps the photos attached to pickup requests. Files live in
// one flat area and are addressed by the name recorded on the request.
package upload

//go:generate mockgen -destination=../api/mocks/upload.go -package=mocks github.com/scan2clean/intake-api/upload Area

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"sync"
	"time"
)

const logPrefix = "upload"

var (
	ErrNotFound    = errors.New("upload not found")
	ErrInvalidName = errors.New("invalid upload name")
	ErrExists      = errors.New("upload already exists")
)

// FileInfo describes a stored upload
type FileInfo struct {
	Size        int64
	ContentType string
	ModTime     time.Time
}

// Area is where uploaded images are stored and served from. Save never
// replaces an existing upload, it returns ErrExists instead.
type Area interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, *FileInfo, error)
	Remove(ctx context.Context, name string) error
}

// namer hands out strictly increasing millisecond stamps so names created
// by this process never collide
type namer struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

var defaultNamer = &namer{now: time.Now}

func (n *namer) next() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	stamp := n.now().UnixNano() / int64(time.Millisecond)
	if stamp <= n.last {
		stamp = n.last + 1
	}
	n.last = stamp
	return stamp
}

func (n *namer) name(original string) string {
	return fmt.Sprintf("%d-%s", n.next(), cleanBase(original))
}

// NewName returns the stored name for an uploaded file:
// <unix milliseconds>-<original base name>
func NewName(original string) string {
	return defaultNamer.name(original)
}

func cleanBase(original string) string {
	name := strings.ReplaceAll(original, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return "upload"
	}
	return name
}

// ValidName reports whether name stays inside the flat upload area
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}

func contentTypeOf(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
