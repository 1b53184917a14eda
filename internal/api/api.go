// Package api exposes the downloaded tiles as a local XYZ tile endpoint.
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/samber/do/v2"

	"github.com/willie68/go_tilefetch/internal/logging"
	"github.com/willie68/go_tilefetch/internal/model"
	"github.com/willie68/go_tilefetch/internal/tilestore"
	"github.com/willie68/go_tilefetch/internal/utils/measurement"
)

// APIRoutes builds the full router of the serve mode.
func APIRoutes(inj do.Injector) *chi.Mux {
	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))
	router.Mount("/tiles", NewTileHandler(inj).Routes())
	router.Mount("/metrics", measurement.Routes(inj))
	return router
}

// TileHandler serves tile files from the store of the last fetch run.
type TileHandler struct {
	log     *logging.Logger
	store   *tilestore.Store
	metrics *measurement.Service
}

func NewTileHandler(inj do.Injector) *TileHandler {
	return &TileHandler{
		log:     logging.New().WithName("api"),
		store:   do.MustInvoke[*tilestore.Store](inj),
		metrics: do.MustInvoke[*measurement.Service](inj),
	}
}

// Routes get the routes
func (h *TileHandler) Routes() *chi.Mux {
	router := chi.NewRouter()
	router.Get("/{z}/{x}/{y}.png", h.GetTileHandler)
	return router
}

func (h *TileHandler) GetTileHandler(w http.ResponseWriter, r *http.Request) {
	td := h.metrics.Start("serveTile")
	defer td.Stop()

	tile, err := h.getRequestParameter(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Path error: %s", err.Error()), http.StatusBadRequest)
		return
	}

	rd, err := h.store.Open(tile)
	if err != nil {
		h.log.Debugf("tile not in store: %s", tile.String())
		http.Error(w, "tile not found", http.StatusNotFound)
		return
	}
	defer rd.Close()

	w.Header().Set("Content-Type", "image/png")
	io.Copy(w, rd)
}

func (h *TileHandler) getRequestParameter(r *http.Request) (tile model.Tile, err error) {
	zs := chi.URLParam(r, "z")
	xs := chi.URLParam(r, "x")
	ys := chi.URLParam(r, "y")

	tile.Z, err = strconv.Atoi(zs)
	if err != nil {
		return tile, errors.New("error in zoom level")
	}
	tile.X, err = strconv.Atoi(xs)
	if err != nil {
		return tile, errors.New("error in x axis")
	}
	ys = strings.TrimSuffix(ys, filepath.Ext(ys))
	tile.Y, err = strconv.Atoi(ys)
	if err != nil {
		return tile, errors.New("error in y axis")
	}

	if !h.isValidXYZCoord(tile.X, tile.Y, tile.Z) {
		return tile, errors.New("invalid tile coordinates")
	}
	return tile, nil
}

// Checks if the given XYZ coordinates are valid for the given zoom level.
func (h *TileHandler) isValidXYZCoord(x, y, zoom int) bool {
	if zoom < 0 {
		return false
	}
	max := 1 << zoom // 2^zoom
	if x < 0 || x >= max {
		return false
	}
	if y < 0 || y >= max {
		return false
	}
	return true
}
