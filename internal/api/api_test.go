package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willie68/go_tilefetch/internal/model"
	"github.com/willie68/go_tilefetch/internal/tilestore"
	"github.com/willie68/go_tilefetch/internal/utils/measurement"
)

func testRouter(t *testing.T) (*tilestore.Store, http.Handler) {
	t.Helper()
	inj := do.New()

	st, err := tilestore.New(t.TempDir())
	require.NoError(t, err)
	do.ProvideValue(inj, st)
	do.ProvideValue(inj, measurement.New(true))

	return st, APIRoutes(inj)
}

func TestGetTile(t *testing.T) {
	ast := assert.New(t)
	st, router := testRouter(t)

	tile := model.Tile{Z: 10, X: 529, Y: 342}
	ast.NoError(st.Save(tile, strings.NewReader("tiledata")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tiles/10/529/342.png", nil))

	ast.Equal(http.StatusOK, rec.Code)
	ast.Equal("image/png", rec.Header().Get("Content-Type"))
	ast.Equal("tiledata", rec.Body.String())
}

func TestGetTileNotFound(t *testing.T) {
	ast := assert.New(t)
	_, router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tiles/10/529/342.png", nil))
	ast.Equal(http.StatusNotFound, rec.Code)
}

func TestGetTileBadCoords(t *testing.T) {
	ast := assert.New(t)
	_, router := testRouter(t)

	tt := []string{
		"/tiles/2/4/0.png",  // x beyond 2^z
		"/tiles/2/0/4.png",  // y beyond 2^z
		"/tiles/x/0/0.png",  // non numeric zoom
		"/tiles/2/aa/0.png", // non numeric x
	}
	for _, path := range tt {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		ast.Equal(http.StatusBadRequest, rec.Code, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ast := assert.New(t)
	st, router := testRouter(t)

	tile := model.Tile{Z: 1, X: 0, Y: 0}
	ast.NoError(st.Save(tile, strings.NewReader("tiledata")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/tiles/%d/%d/%d.png", tile.Z, tile.X, tile.Y), nil))
	ast.Equal(http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	ast.Equal(http.StatusOK, rec.Code)
	ast.Contains(rec.Body.String(), "serveTile")
}
