// Package fetch drives the concurrent tile download: a bounded worker pool
// drains the tile enumeration, every tile runs its own retry loop and ends
// up saved, skipped or failed.
package fetch

import (
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/do/v2"

	"github.com/willie68/go_tilefetch/internal/config"
	"github.com/willie68/go_tilefetch/internal/logging"
	"github.com/willie68/go_tilefetch/internal/mercator"
	"github.com/willie68/go_tilefetch/internal/model"
	"github.com/willie68/go_tilefetch/internal/progress"
	"github.com/willie68/go_tilefetch/internal/tilestore"
	"github.com/willie68/go_tilefetch/internal/urltmpl"
	"github.com/willie68/go_tilefetch/internal/utils/measurement"
	"github.com/willie68/go_tilefetch/pkg/extstrgutils"
)

// BackoffDelay is the wait between failed attempts and the fallback for a
// 429 without a Retry-After header.
const BackoffDelay = 10 * time.Second

// Service is the fetch pipeline of one run. The http client and the url
// template are shared over all workers, both are safe for concurrent use.
type Service struct {
	log     *logging.Logger
	cfg     *config.Config
	bbox    mercator.BoundingBox
	tmpl    *urltmpl.Template
	store   *tilestore.Store
	cl      *http.Client
	ua      string
	metrics *measurement.Service

	// taken over in tests to observe backoff without waiting
	sleep func(time.Duration)
	out   io.Writer
}

// Init wires the fetch service into the injector.
func Init(inj do.Injector) {
	do.Provide(inj, func(inj do.Injector) (*Service, error) {
		cfg := do.MustInvoke[*config.Config](inj)
		ver := do.MustInvoke[config.Version](inj)
		return New(cfg, ver.UserAgent(), do.MustInvoke[*measurement.Service](inj))
	})
}

// New creates the pipeline for the given configuration. Fails for an
// unusable output path, per tile errors never surface here.
func New(cfg *config.Config, userAgent string, m *measurement.Service) (*Service, error) {
	store, err := tilestore.New(cfg.Output)
	if err != nil {
		return nil, err
	}

	cl := &http.Client{}
	if cfg.Timeout > 0 {
		cl.Timeout = time.Duration(cfg.Timeout) * time.Second
	}

	return &Service{
		log:     logging.New().WithName("fetch"),
		cfg:     cfg,
		bbox:    cfg.BoundingBox(),
		tmpl:    urltmpl.NewWithSubdomains(cfg.URL, extstrgutils.SplitMultiValueParam(cfg.Subdomains)),
		store:   store,
		cl:      cl,
		ua:      userAgent,
		metrics: m,
		sleep:   time.Sleep,
	}, nil
}

// Store returns the tile store of this run.
func (s *Service) Store() *tilestore.Store {
	return s.store
}

// Count returns the total number of tiles of this run.
func (s *Service) Count() uint64 {
	return s.bbox.Count(s.cfg.Zoom.Min, s.cfg.Zoom.Max)
}

// Run processes all tiles of the configured bounding box and zoom range
// with the configured parallelism. It returns after every tile reached a
// terminal state, per tile failures are reported, not returned.
func (s *Service) Run() *progress.Reporter {
	reporter := progress.NewReporter(s.Count(), s.out)

	jobs := make(chan model.Tile, 1000)
	wg := sync.WaitGroup{}
	for range s.cfg.Rate {
		wg.Go(func() {
			for t := range jobs {
				res, err := s.processTile(t)
				if res == model.Failed {
					s.log.Errorf("failed fetching tile %dx%dx%d: %v", t.Z, t.X, t.Y, err)
				}
				reporter.Done(t, res, err)
			}
		})
	}

	for t := range s.bbox.Tiles(s.cfg.Zoom.Min, s.cfg.Zoom.Max) {
		jobs <- t
	}
	close(jobs)
	wg.Wait()

	reporter.Finish()
	return reporter
}

// processTile runs the retry loop of one tile. Only genuine failures eat
// the retry budget, rate limit waits happen inside the attempt.
func (s *Service) processTile(t model.Tile) (model.Result, error) {
	if !s.cfg.FetchExisting && s.store.Has(t) {
		return model.Skipped, nil
	}

	var lastErr error
	for attempt := 0; attempt <= s.cfg.Retries; attempt++ {
		if attempt > 0 {
			s.sleep(BackoffDelay)
		}
		if err := s.fetchOnce(t); err != nil {
			lastErr = err
			continue
		}
		return model.Saved, nil
	}
	return model.Failed, lastErr
}

// fetchOnce is a single attempt: render the url, issue the request and
// stream the body to the store. A 429 response sleeps for the advertised
// Retry-After and repeats the request within the same attempt.
func (s *Service) fetchOnce(t model.Tile) error {
	url, err := s.tmpl.Render(t)
	if err != nil {
		return err
	}

	md := s.metrics.Start("download")
	resp, err := s.doGet(url, t)
	if err != nil {
		md.SetError()
		md.Stop()
		return err
	}
	md.Stop()
	defer resp.Body.Close()

	sd := s.metrics.Start("store")
	defer sd.Stop()
	if err := s.store.Save(t, resp.Body); err != nil {
		sd.SetError()
		return err
	}
	return nil
}

func (s *Service) doGet(url string, t model.Tile) (*http.Response, error) {
	for {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return nil, errors.Wrap(err, "can't create request")
		}
		s.setDefaultHeaders(req)

		resp, err := s.cl.Do(req)
		if err != nil {
			return nil, errors.Wrapf(err, "failed fetching tile %s", t.String())
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			s.sleep(retryAfter(resp))
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, errors.Errorf("unexpected status %s fetching tile %s", resp.Status, t.String())
		}
		return resp, nil
	}
}

func (s *Service) setDefaultHeaders(req *http.Request) {
	req.Header.Set("User-Agent", s.ua)
	req.Header.Set("Accept", "*/*")
}

// retryAfter reads the Retry-After header in seconds, BackoffDelay if
// missing or unparsable.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return BackoffDelay
	}
	secs, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return BackoffDelay
	}
	return time.Duration(secs) * time.Second
}
