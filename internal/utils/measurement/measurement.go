// Package measurement collects simple timing statistics for the phases of
// a fetch run.
package measurement

import (
	"slices"
	"strings"
	"sync"
)

// Service holds all measure points of a run.
type Service struct {
	active bool
	plock  sync.Mutex
	points map[string]*Point
}

// Data is the aggregated result of one measure point, durations in
// microseconds.
type Data struct {
	Name    string `json:"name"`
	Min     int64  `json:"min"`
	Max     int64  `json:"max"`
	Average int64  `json:"average"`
	Total   int64  `json:"total"`
	Count   int    `json:"count"`
	Errors  int    `json:"errors"`
}

// New creates a measurement service. With active false all monitors are
// no-ops, the call sites stay unchanged.
func New(active bool) *Service {
	return &Service{
		active: active,
		points: make(map[string]*Point),
	}
}

// Start returns a started monitor on the named point.
func (s *Service) Start(name string) Monitor {
	m := s.Point(name).Monitor()
	m.Start()
	return m
}

// Point returns the named measure point, creating it on first use.
func (s *Service) Point(name string) *Point {
	s.plock.Lock()
	defer s.plock.Unlock()
	p, ok := s.points[name]
	if !ok {
		p = NewPoint(name, s.active)
		s.points[name] = p
	}
	return p
}

// Datas returns the aggregated data of all points, sorted by name.
func (s *Service) Datas() []Data {
	s.plock.Lock()
	defer s.plock.Unlock()
	datas := make([]Data, 0, len(s.points))
	for _, p := range s.points {
		datas = append(datas, p.Data())
	}
	slices.SortFunc(datas, func(d1, d2 Data) int {
		return strings.Compare(d1.Name, d2.Name)
	})
	return datas
}

// Reset clears all points.
func (s *Service) Reset() {
	s.plock.Lock()
	defer s.plock.Unlock()
	for _, p := range s.points {
		p.Reset()
	}
}
