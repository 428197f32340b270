package upload

import (
	"context"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

type diskArea struct {
	dir string
}

// NewDiskArea stores uploads as files in dir, creating it when missing
func NewDiskArea(dir string) (Area, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &diskArea{dir: dir}, nil
}

func (d *diskArea) path(name string) (string, error) {
	if !ValidName(name) {
		return "", ErrInvalidName
	}
	return filepath.Join(d.dir, name), nil
}

// Save writes r to a new file. An existing file is never overwritten and a
// partially written file is removed.
func (d *diskArea) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return ErrExists
		}
		return err
	}

	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		os.Remove(p)
		return err
	}

	log.WithField("prefix", logPrefix).Debugf("saved %s (%d bytes)", name, written)
	return nil
}

func (d *diskArea) Open(ctx context.Context, name string) (io.ReadCloser, *FileInfo, error) {
	p, err := d.path(name)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if stat.IsDir() {
		f.Close()
		return nil, nil, ErrNotFound
	}

	return f, &FileInfo{
		Size:        stat.Size(),
		ContentType: contentTypeOf(name),
		ModTime:     stat.ModTime(),
	}, nil
}

func (d *diskArea) Remove(ctx context.Context, name string) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
