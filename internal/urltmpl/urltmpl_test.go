package urltmpl

import (
	"fmt"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/willie68/go_tilefetch/internal/model"
)

func TestRender(t *testing.T) {
	ast := assert.New(t)
	tmpl := New("https://tile.example.org/{z}/{x}/{y}.png")

	url, err := tmpl.Render(model.Tile{Z: 3, X: 1, Y: 2})
	ast.NoError(err)
	ast.Equal("https://tile.example.org/3/1/2.png", url)
}

func TestRenderSubdomainCycle(t *testing.T) {
	ast := assert.New(t)
	tmpl := New("https://{s}.foo.com/{x}/{y}/{z}.png")
	tile := model.Tile{Z: 3, X: 1, Y: 2}

	url, err := tmpl.Render(tile)
	ast.NoError(err)
	ast.Equal("https://a.foo.com/1/2/3.png", url)

	for _, sub := range []string{"b", "c", "a", "b", "c"} {
		url, err = tmpl.Render(tile)
		ast.NoError(err)
		ast.Equal(fmt.Sprintf("https://%s.foo.com/1/2/3.png", sub), url)
	}
}

func TestRenderOwnSubdomains(t *testing.T) {
	ast := assert.New(t)
	tmpl := NewWithSubdomains("{s}", []string{"t1", "t2"})
	tile := model.Tile{Z: 1, X: 0, Y: 0}

	for _, sub := range []string{"t1", "t2", "t1"} {
		url, err := tmpl.Render(tile)
		ast.NoError(err)
		ast.Equal(sub, url)
	}
}

func TestRenderBadToken(t *testing.T) {
	ast := assert.New(t)
	tt := []string{
		"https://tile.example.org/{z}/{x}/{q}.png",
		"https://tile.example.org/{z}/{x}/{y",
		"{}",
	}
	for _, format := range tt {
		url, err := New(format).Render(model.Tile{Z: 1, X: 0, Y: 0})
		ast.Error(err, "format %q", format)
		ast.True(errors.Is(err, ErrBadToken))
		ast.Empty(url)
	}
}

func TestRenderConcurrentCounter(t *testing.T) {
	ast := assert.New(t)
	tmpl := New("{s}")
	tile := model.Tile{Z: 1, X: 0, Y: 0}

	seen := sync.Map{}
	wg := sync.WaitGroup{}
	for range 10 {
		wg.Go(func() {
			for range 30 {
				url, err := tmpl.Render(tile)
				ast.NoError(err)
				seen.Store(url, true)
			}
		})
	}
	wg.Wait()

	// all three subdomains get used, nothing outside the list shows up
	total := 0
	seen.Range(func(k, _ any) bool {
		ast.Contains([]string{"a", "b", "c"}, k.(string))
		total++
		return true
	})
	ast.Equal(3, total)
}
