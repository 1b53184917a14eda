package measurement

import (
	"sync"
	"time"
)

// Point aggregates the monitors of one named measurement.
type Point struct {
	name     string
	active   bool
	calcLock sync.Mutex
	min, max time.Duration
	total    time.Duration
	count    int
	errcount int
}

func NewPoint(name string, active bool) *Point {
	return &Point{
		name:   name,
		active: active,
	}
}

// Name the name of this measure point
func (p *Point) Name() string {
	return p.name
}

// Monitor get a new monitor for this point
func (p *Point) Monitor() Monitor {
	if p.active {
		return &defaultMonitor{point: p}
	}
	return &nullMonitor{}
}

func (p *Point) Reset() {
	p.calcLock.Lock()
	defer p.calcLock.Unlock()
	p.min = 0
	p.max = 0
	p.total = 0
	p.count = 0
	p.errcount = 0
}

// Data the aggregated data of this point
func (p *Point) Data() Data {
	p.calcLock.Lock()
	defer p.calcLock.Unlock()
	d := Data{
		Name:   p.name,
		Min:    p.min.Microseconds(),
		Max:    p.max.Microseconds(),
		Total:  p.total.Microseconds(),
		Count:  p.count,
		Errors: p.errcount,
	}
	if p.count > 0 {
		d.Average = p.total.Microseconds() / int64(p.count)
	}
	return d
}

func (p *Point) process(d time.Duration, failed bool) {
	p.calcLock.Lock()
	defer p.calcLock.Unlock()
	if p.count == 0 || d < p.min {
		p.min = d
	}
	if d > p.max {
		p.max = d
	}
	p.total += d
	p.count++
	if failed {
		p.errcount++
	}
}
