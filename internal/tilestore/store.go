// Package tilestore persists tiles as z/x/y.png files below a root folder,
// the layout all slippy map tools expect.
package tilestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/willie68/go_tilefetch/internal/model"
)

// Store is the file based tile storage of a fetch run. It is safe for
// concurrent use as long as no two goroutines work on the same tile, which
// the enumeration guarantees.
type Store struct {
	path string
}

// New creates a store rooted at the given folder. The folder is created
// recursively, an existing file of the same name is an error.
func New(path string) (*Store, error) {
	if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
		return nil, errors.Errorf("output %s exists and is not a directory", path)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, errors.Wrap(err, "can't create output directory")
	}
	return &Store{path: path}, nil
}

// Path returns the root folder of the store.
func (s *Store) Path() string {
	return s.path
}

// Has checks whether the tile file is already present.
func (s *Store) Has(tile model.Tile) bool {
	_, err := os.Stat(s.Filename(tile))
	return err == nil
}

// Save streams the tile data to its destination file, overwriting any
// previous content. The z/x folder is created on demand.
func (s *Store) Save(tile model.Tile, data io.Reader) error {
	fn := s.Filename(tile)
	if err := os.MkdirAll(filepath.Dir(fn), 0o755); err != nil {
		return errors.Wrapf(err, "can't create directory for tile %s", tile.String())
	}
	f, err := os.Create(fn)
	if err != nil {
		return errors.Wrapf(err, "can't create file for tile %s", tile.String())
	}
	defer f.Close()
	if _, err := io.Copy(f, data); err != nil {
		return errors.Wrapf(err, "can't stream tile %s to disk", tile.String())
	}
	return nil
}

// Open opens the stored tile file for reading.
func (s *Store) Open(tile model.Tile) (io.ReadCloser, error) {
	f, err := os.Open(s.Filename(tile))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Filename returns the destination file of the tile.
func (s *Store) Filename(tile model.Tile) string {
	return filepath.Join(s.path, strconv.Itoa(tile.Z), strconv.Itoa(tile.X), fmt.Sprintf("%d.png", tile.Y))
}
