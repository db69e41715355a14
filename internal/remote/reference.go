package remote

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/core/stats"
)

var _ stats.Remote = (*Client)(nil)

// Types returns the activity categories. The endpoint is public, so no
// credential is required.
func (c *Client) Types(ctx context.Context) ([]activity.ActivityType, error) {
	var env envelope[activity.ActivityType]
	err := c.do(ctx, request{method: http.MethodGet, path: "/resolve/types", anonymous: true}, &env)
	if err != nil {
		return nil, err
	}
	return env.items("GET /resolve/types")
}

type settingsEnvelope struct {
	Settings *activity.Settings `json:"settings"`
}

// Settings returns the user's activity defaults.
func (c *Client) Settings(ctx context.Context) (activity.Settings, error) {
	var env settingsEnvelope
	err := c.do(ctx, request{method: http.MethodGet, path: "/users/me/settings/"}, &env)
	if err != nil {
		return activity.Settings{}, err
	}
	if env.Settings == nil {
		return activity.Settings{}, &ParseError{Endpoint: "GET /users/me/settings/", Err: errors.New(`missing "settings" field`)}
	}
	return *env.Settings, nil
}

// Yearly implements stats.Remote. A zero year requests all-time totals.
func (c *Client) Yearly(ctx context.Context, year int) (stats.YearStats, error) {
	q := url.Values{}
	if year != 0 {
		q.Set("year", strconv.Itoa(year))
	}

	var out stats.YearStats
	err := c.do(ctx, request{method: http.MethodGet, path: "/statistics/year", query: q}, &out)
	return out, err
}

// Weekly implements stats.Remote.
func (c *Client) Weekly(ctx context.Context, wq stats.WeekQuery) (stats.WeeklyStats, error) {
	q := url.Values{}
	if wq.Year != 0 {
		q.Set("year", strconv.Itoa(wq.Year))
	}
	if wq.Week != 0 {
		q.Set("week", strconv.Itoa(wq.Week))
	}
	q.Set("activity_type_id", strconv.Itoa(wq.TypeID))

	var out stats.WeeklyStats
	err := c.do(ctx, request{method: http.MethodGet, path: "/statistics/week", query: q}, &out)
	return out, err
}
