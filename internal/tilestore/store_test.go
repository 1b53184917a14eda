package tilestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/willie68/go_tilefetch/internal/model"
)

func TestSaveAndOpen(t *testing.T) {
	ast := assert.New(t)
	st, err := New(filepath.Join(t.TempDir(), "tiles"))
	ast.NoError(err)

	tile := model.Tile{Z: 10, X: 529, Y: 342}
	ast.False(st.Has(tile))

	err = st.Save(tile, strings.NewReader("tiledata"))
	ast.NoError(err)
	ast.True(st.Has(tile))
	ast.Equal(filepath.Join(st.Path(), "10", "529", "342.png"), st.Filename(tile))

	rd, err := st.Open(tile)
	ast.NoError(err)
	defer rd.Close()
	data, err := os.ReadFile(st.Filename(tile))
	ast.NoError(err)
	ast.Equal("tiledata", string(data))
}

func TestSaveOverwrites(t *testing.T) {
	ast := assert.New(t)
	st, err := New(t.TempDir())
	ast.NoError(err)

	tile := model.Tile{Z: 1, X: 0, Y: 0}
	ast.NoError(st.Save(tile, strings.NewReader("old")))
	ast.NoError(st.Save(tile, strings.NewReader("new")))

	data, err := os.ReadFile(st.Filename(tile))
	ast.NoError(err)
	ast.Equal("new", string(data))
}

func TestNewRejectsFile(t *testing.T) {
	ast := assert.New(t)
	fn := filepath.Join(t.TempDir(), "blocker")
	ast.NoError(os.WriteFile(fn, []byte("x"), 0o644))

	_, err := New(fn)
	ast.Error(err)
}
