package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/samber/do/v2"
	flag "github.com/spf13/pflag"

	"github.com/willie68/go_tilefetch/configs"
	"github.com/willie68/go_tilefetch/internal"
	"github.com/willie68/go_tilefetch/internal/api"
	"github.com/willie68/go_tilefetch/internal/config"
	"github.com/willie68/go_tilefetch/internal/fetch"
	"github.com/willie68/go_tilefetch/internal/logging"
	"github.com/willie68/go_tilefetch/pkg/fileutils"
)

var (
	log         *logging.Logger
	configFile  string
	showVersion bool
	initConfig  bool

	north, south, east, west float64
	fixture                  string
	zoom, minZoom, maxZoom   int
	output                   string
	url                      string
	subdomains               string
	rate, retries, timeout   int
	fetchExisting            bool
	dryRun                   bool
	serve                    bool
	port                     int
)

func init() {
	flag.BoolVarP(&showVersion, "version", "v", false, "showing the version")
	flag.BoolVarP(&initConfig, "init", "i", false, "init config, writes out a default config.")
	flag.StringVarP(&configFile, "config", "c", "config.yaml", "this is the path and filename to the config file")
	flag.Float64VarP(&north, "north", "n", 0, "latitude of the north bounding box boundary (in degrees)")
	flag.Float64VarP(&south, "south", "s", 0, "latitude of the south bounding box boundary (in degrees)")
	flag.Float64VarP(&east, "east", "e", 0, "longitude of the east bounding box boundary (in degrees)")
	flag.Float64VarP(&west, "west", "w", 0, "longitude of the west bounding box boundary (in degrees)")
	flag.StringVar(&fixture, "fixture", "", "use a preset bounding box (usa, aachen) instead of explicit coordinates")
	flag.IntVarP(&zoom, "zoom", "z", 0, "only fetch a single zoom level (implies min=x/max=x)")
	flag.IntVar(&minZoom, "min-zoom", 0, "the minimum zoom level to fetch")
	flag.IntVar(&maxZoom, "max-zoom", 0, "the maximum zoom level to fetch")
	flag.StringVarP(&output, "output", "o", "", "the folder to output the tiles to")
	flag.StringVarP(&url, "url", "u", "", "the url template with the placeholders {x}, {y}, {z} and {s}")
	flag.StringVar(&subdomains, "subdomains", "", "subdomain list for {s}, csv")
	flag.IntVarP(&rate, "rate", "r", 0, "the amount of tiles fetched in parallel")
	flag.IntVar(&retries, "retries", 0, "the amount of times to retry a failed request")
	flag.IntVarP(&timeout, "timeout", "t", 0, "the timeout (in seconds) for fetching a single tile, 0 for no timeout")
	flag.BoolVar(&fetchExisting, "fetch-existing", false, "fetch tiles already downloaded (this usually isn't required)")
	flag.BoolVar(&dryRun, "dry-run", false, "don't fetch anything, just determine how many tiles would be fetched")
	flag.BoolVar(&serve, "serve", false, "serve the downloaded tiles as xyz endpoint after the run")
	flag.IntVarP(&port, "port", "p", 0, "overwrite the port (8580) of the serve mode")
	flag.Usage = func() {
		fmt.Printf("Usage of %s:\n", os.Args[0])
		fmt.Println("more on https://github.com/willie68/go_tilefetch")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("examples:")
		fmt.Println("download the aachen region up to zoom 10:")
		fmt.Printf("%s --fixture aachen --max-zoom 10 -u \"https://{s}.tile.openstreetmap.de/{z}/{x}/{y}.png\" -o ./tiles\n", os.Args[0])
		fmt.Println("explicit bounding box, single zoom level, 10 parallel downloads:")
		fmt.Printf("%s -n 50.811 -s 50.7492 -e 6.1649 -w 6.031 -z 10 -r 10 -u \"https://{s}.tile.openstreetmap.de/{z}/{x}/{y}.png\"\n", os.Args[0])
	}
}

func main() {
	flag.Parse()
	if showVersion {
		fmt.Println(config.NewVersion().String())
		os.Exit(0)
	}
	if initConfig {
		fmt.Println(configs.ConfigFile)
		os.Exit(0)
	}
	if fileutils.FileExists(configFile) {
		if err := config.Load(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\r\n", err)
			os.Exit(1)
		}
	}
	config.SetParameter(flagOverrides()...)

	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\r\n\r\n", err)
		flag.Usage()
		os.Exit(1)
	}
	if err := logging.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "error on logging init: %v\r\n", err)
		os.Exit(1)
	}
	log = logging.New().WithName("main")

	if dryRun {
		count := cfg.BoundingBox().Count(cfg.Zoom.Min, cfg.Zoom.Max)
		fmt.Fprintf(os.Stderr, "would download %d tiles (approx %s, assuming 10 kB per tile)\n",
			count, humanize.Bytes(count*10_000))
		os.Exit(0)
	}

	internal.Init()

	svc, err := do.Invoke[*fetch.Service](internal.Inj)
	if err != nil {
		log.Fatalf("could not create fetch service: %v", err)
	}
	log.Infof("starting fetch of %d tiles", svc.Count())
	rep := svc.Run()
	log.Infof("fetch finished: %d saved, %d skipped, %d failed", rep.Saved(), rep.Skipped(), rep.Failed())

	if cfg.Serve.Active || serve {
		startServer(cfg.Serve.Port)
	}

	internal.Stop()
	os.Exit(0)
}

func startServer(port int) {
	router := api.APIRoutes(internal.Inj)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}
	go func() {
		log.Infof("serving tiles on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("error on listen and serve: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	_ = srv.Close()
	log.Info("server finished")
}

// flagOverrides maps the set command line flags onto the loaded config.
func flagOverrides() []config.Option {
	opts := []config.Option{
		config.WithZoomRange(minZoom, maxZoom),
		config.WithZoom(zoom),
		config.WithPort(port),
	}
	opts = append(opts, func(c *config.Config) {
		coords := false
		if flag.CommandLine.Changed("north") {
			c.Bbox.North = north
			coords = true
		}
		if flag.CommandLine.Changed("south") {
			c.Bbox.South = south
			coords = true
		}
		if flag.CommandLine.Changed("east") {
			c.Bbox.East = east
			coords = true
		}
		if flag.CommandLine.Changed("west") {
			c.Bbox.West = west
			coords = true
		}
		if coords {
			// explicit coordinates win over a configured fixture
			c.Bbox.Fixture = ""
		}
		if fixture != "" {
			c.Bbox.Fixture = fixture
		}
		if output != "" {
			c.Output = output
		}
		if url != "" {
			c.URL = url
		}
		if subdomains != "" {
			c.Subdomains = subdomains
		}
		if rate > 0 {
			c.Rate = rate
		}
		if flag.CommandLine.Changed("retries") {
			c.Retries = retries
		}
		if flag.CommandLine.Changed("timeout") {
			c.Timeout = timeout
		}
		if fetchExisting {
			c.FetchExisting = true
		}
		if serve {
			c.Serve.Active = true
		}
	})
	return opts
}
