// Package catalog implements the filterable, offset-paginated activity
// collection behind the `ls` command and the interactive browser.
package catalog

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/core/apierr"
	"github.com/hay-kot/stride/internal/core/credential"
)

// DefaultPageSize is used when the configured page size is not positive.
const DefaultPageSize = 20

const msgFetchFailed = "Failed to fetch activities."

// ErrSuperseded is returned by Load when a newer load was issued while the
// request was in flight. The response is discarded.
var ErrSuperseded = errors.New("catalog load superseded by a newer request")

// State is the lifecycle of the active filter set.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of the catalog state.
type Snapshot struct {
	Items       []activity.Activity
	Filters     activity.Filters
	Page        int
	CanLoadMore bool
	State       State
	Err         string
}

// Catalog accumulates pages of activities for one filter set at a time. It
// is safe for concurrent use; the lock is never held across a remote call.
type Catalog struct {
	remote   activity.Lister
	creds    credential.Provider
	pageSize int
	log      zerolog.Logger

	mu          sync.Mutex
	items       []activity.Activity
	filters     activity.Filters
	page        int
	canLoadMore bool
	state       State
	err         string
	seq         uint64
}

// New creates an empty catalog.
func New(remote activity.Lister, creds credential.Provider, pageSize int, log zerolog.Logger) *Catalog {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Catalog{
		remote:      remote,
		creds:       creds,
		pageSize:    pageSize,
		log:         log,
		page:        1,
		canLoadMore: true,
	}
}

// PageSize returns the number of activities requested per page.
func (c *Catalog) PageSize() int { return c.pageSize }

// Load fetches the next page for filters.
//
// When appendPage is false, or filters differ from the active set, the
// collection is cleared and paging restarts at page 1 before the request is
// made. Appending is a no-op when the end of the data was reached or a load
// is already in flight. Each reset bumps a sequence number; a response that
// arrives after a newer reset is dropped and Load returns ErrSuperseded.
func (c *Catalog) Load(ctx context.Context, filters activity.Filters, appendPage bool) error {
	c.mu.Lock()
	if !credential.Authenticated(c.creds) {
		c.err = apierr.MsgNotAuthenticated
		c.state = StateError
		c.mu.Unlock()
		return credential.ErrMissing
	}

	if appendPage && filters != c.filters {
		appendPage = false
	}

	if appendPage {
		if !c.canLoadMore || c.state == StateLoading {
			c.mu.Unlock()
			return nil
		}
	} else {
		c.seq++
		c.items = nil
		c.page = 1
		c.filters = filters
		c.canLoadMore = true
	}

	seq := c.seq
	q := activity.ListQuery{
		Limit:   c.pageSize,
		Offset:  (c.page - 1) * c.pageSize,
		Filters: c.filters,
	}
	c.state = StateLoading
	c.err = ""
	c.mu.Unlock()

	l := c.log.With().Uint64("seq", seq).Int("offset", q.Offset).Logger()
	l.Debug().Bool("append", appendPage).Msg("loading page")

	page, err := c.remote.List(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		l.Debug().Uint64("latest", c.seq).Msg("dropping stale page")
		return ErrSuperseded
	}

	if err != nil {
		c.state = StateError
		c.err = apierr.Message(err, msgFetchFailed)
		l.Warn().Err(err).Msg("load page")
		return err
	}

	if appendPage {
		c.items = append(c.items, page...)
	} else {
		c.items = slices.Clone(page)
	}
	c.canLoadMore = len(page) >= c.pageSize
	c.page++
	c.state = StateLoaded

	l.Debug().Int("count", len(page)).Bool("more", c.canLoadMore).Msg("page loaded")
	return nil
}

// LoadMore appends the next page for the active filters.
func (c *Catalog) LoadMore(ctx context.Context) error {
	return c.Load(ctx, c.Filters(), true)
}

// Items returns a copy of the accumulated activities in server order.
func (c *Catalog) Items() []activity.Activity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Filters returns the active filter set.
func (c *Catalog) Filters() activity.Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// CanLoadMore reports whether another page may exist.
func (c *Catalog) CanLoadMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canLoadMore
}

func (c *Catalog) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Items:       slices.Clone(c.items),
		Filters:     c.filters,
		Page:        c.page,
		CanLoadMore: c.canLoadMore,
		State:       c.state,
		Err:         c.err,
	}
}
