// Package urltmpl renders per tile download URLs from a template string
// with the placeholders {x}, {y}, {z} and {s}.
package urltmpl

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/willie68/go_tilefetch/internal/model"
)

// ErrBadToken is returned for templates referencing an unknown placeholder.
var ErrBadToken = errors.New("urltmpl: unsupported token in url template")

// DefaultSubdomains are the mirror subdomains the {s} placeholder cycles
// through when no own list is configured.
var DefaultSubdomains = []string{"a", "b", "c"}

// Template renders tile URLs. The {s} placeholder is resolved round robin
// over the subdomain list, the counter is shared over all goroutines using
// the same instance so the load spreads over the mirrors.
type Template struct {
	format     string
	subdomains []string
	counter    atomic.Uint64
}

// New creates a template with the default subdomains.
func New(format string) *Template {
	return NewWithSubdomains(format, DefaultSubdomains)
}

// NewWithSubdomains creates a template with an own subdomain list.
func NewWithSubdomains(format string, subdomains []string) *Template {
	if len(subdomains) == 0 {
		subdomains = DefaultSubdomains
	}
	return &Template{
		format:     format,
		subdomains: subdomains,
	}
}

// Render builds the URL for the given tile. Unsupported tokens or an
// unclosed placeholder fail with ErrBadToken and no partial output.
func (t *Template) Render(tile model.Tile) (string, error) {
	var sb strings.Builder
	sb.Grow(len(t.format) + 16)

	rest := t.format
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			sb.WriteString(rest)
			return sb.String(), nil
		}
		sb.WriteString(rest[:open])
		rest = rest[open:]

		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return "", errors.Wrapf(ErrBadToken, "unclosed token in %q", t.format)
		}
		token := rest[1:end]
		rest = rest[end+1:]

		switch token {
		case "x":
			sb.WriteString(strconv.Itoa(tile.X))
		case "y":
			sb.WriteString(strconv.Itoa(tile.Y))
		case "z":
			sb.WriteString(strconv.Itoa(tile.Z))
		case "s":
			sb.WriteString(t.nextSubdomain())
		default:
			return "", errors.Wrapf(ErrBadToken, "token {%s} in %q", token, t.format)
		}
	}
}

func (t *Template) nextSubdomain() string {
	n := t.counter.Add(1) - 1
	return t.subdomains[n%uint64(len(t.subdomains))]
}
