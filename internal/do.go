package internal

import (
	"github.com/samber/do/v2"

	"github.com/willie68/go_tilefetch/internal/config"
	"github.com/willie68/go_tilefetch/internal/fetch"
	"github.com/willie68/go_tilefetch/internal/tilestore"
	"github.com/willie68/go_tilefetch/internal/utils/measurement"
)

// Inj is the injector holding all services of this process.
var Inj do.Injector

// Init wires up all services.
func Init() {
	Inj = do.New()

	config.Init(Inj)

	cfg := do.MustInvoke[*config.Config](Inj)
	do.ProvideValue(Inj, measurement.New(cfg.Metrics))

	fetch.Init(Inj)
	do.Provide(Inj, func(inj do.Injector) (*tilestore.Store, error) {
		return do.MustInvoke[*fetch.Service](inj).Store(), nil
	})
}

// Stop shuts the injector down.
func Stop() {
	if Inj != nil {
		_ = Inj.Shutdown()
	}
}
