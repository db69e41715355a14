// Package feed keeps the small, non-paginated list of the most recent
// activities shown on the dashboard.
package feed

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/core/apierr"
	"github.com/hay-kot/stride/internal/core/credential"
)

// DefaultLimit is the number of activities held by the feed.
const DefaultLimit = 5

const msgFetchFailed = "Failed to fetch activities."

// Feed holds the most recent activities. It is safe for concurrent use.
type Feed struct {
	remote activity.Lister
	creds  credential.Provider
	limit  int
	log    zerolog.Logger

	mu      sync.Mutex
	items   []activity.Activity
	loading bool
	err     string
}

// New creates a Feed holding up to limit activities.
func New(remote activity.Lister, creds credential.Provider, limit int, log zerolog.Logger) *Feed {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Feed{
		remote: remote,
		creds:  creds,
		limit:  limit,
		log:    log,
	}
}

// Refresh re-fetches the feed. It returns immediately, without a network
// call, when a refresh is already in flight or no credential is available.
// On failure the previous items are kept and Err reports the reason.
func (f *Feed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		f.log.Debug().Msg("refresh already in flight")
		return nil
	}
	if !credential.Authenticated(f.creds) {
		f.err = apierr.MsgNotAuthenticated
		f.mu.Unlock()
		return credential.ErrMissing
	}
	f.loading = true
	f.err = ""
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.loading = false
		f.mu.Unlock()
	}()

	items, err := f.remote.List(ctx, activity.ListQuery{Limit: f.limit})

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.err = apierr.Message(err, msgFetchFailed)
		f.log.Warn().Err(err).Msg("refresh recent activities")
		return err
	}

	f.items = items
	f.log.Debug().Int("count", len(items)).Msg("recent activities refreshed")
	return nil
}

// Remove drops the activity with the given id from the held list. It reports
// whether the activity was present.
func (f *Feed) Remove(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := slices.IndexFunc(f.items, func(a activity.Activity) bool { return a.ID == id })
	if i < 0 {
		return false
	}
	f.items = slices.Delete(f.items, i, i+1)
	return true
}

// Items returns a copy of the held activities, most recent first.
func (f *Feed) Items() []activity.Activity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.items)
}

// Loading reports whether a refresh is in flight.
func (f *Feed) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Err returns the message of the last failed refresh, or "".
func (f *Feed) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
