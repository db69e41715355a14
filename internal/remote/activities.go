package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/core/apierr"
)

type createBody struct {
	Start               string   `json:"start"`
	Duration            string   `json:"duration"`
	Distance            float64  `json:"distance"`
	TypeID              int      `json:"type_id"`
	SubTypeID           *int     `json:"sub_type_id,omitempty"`
	Name                *string  `json:"name,omitempty"`
	ElevationChangeUp   *float64 `json:"elevation_change_up,omitempty"`
	ElevationChangeDown *float64 `json:"elevation_change_down,omitempty"`
}

type updateBody struct {
	Start               *string  `json:"start,omitempty"`
	Duration            *string  `json:"duration,omitempty"`
	Distance            *float64 `json:"distance,omitempty"`
	TypeID              *int     `json:"type_id,omitempty"`
	SubTypeID           *int     `json:"sub_type_id,omitempty"`
	Name                *string  `json:"name,omitempty"`
	ElevationChangeUp   *float64 `json:"elevation_change_up,omitempty"`
	ElevationChangeDown *float64 `json:"elevation_change_down,omitempty"`
}

// List implements activity.Lister.
func (c *Client) List(ctx context.Context, q activity.ListQuery) ([]activity.Activity, error) {
	var env envelope[activity.Record]
	err := c.do(ctx, request{method: http.MethodGet, path: "/activity/", query: q.Values()}, &env)
	if err != nil {
		return nil, err
	}

	records, err := env.items("GET /activity/")
	if err != nil {
		return nil, err
	}

	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, &ParseError{Endpoint: "GET /activity/", Err: fmt.Errorf("data[%d]: %w", i, err)}
		}
	}

	return activity.MapAll(records), nil
}

// Get implements activity.Remote.
func (c *Client) Get(ctx context.Context, id string) (activity.Activity, error) {
	var rec activity.Record
	err := c.do(ctx, request{method: http.MethodGet, path: activityPath(id)}, &rec)
	if err != nil {
		var apiErr *apierr.Error
		if errors.As(err, &apiErr) {
			return activity.Activity{}, fmt.Errorf("%w: %w", activity.ErrNotFound, err)
		}
		return activity.Activity{}, err
	}

	return decodeRecord("GET /activity/{id}", rec)
}

// Create implements activity.Remote.
func (c *Client) Create(ctx context.Context, in activity.CreateInput) (activity.Activity, error) {
	payload := createBody{
		Start:               in.Start.Format(time.RFC3339),
		Duration:            in.Duration,
		Distance:            in.Distance,
		TypeID:              in.TypeID,
		ElevationChangeUp:   in.ElevationUp,
		ElevationChangeDown: in.ElevationDown,
	}
	if in.SubTypeID != 0 {
		payload.SubTypeID = &in.SubTypeID
	}
	if in.Name != "" {
		payload.Name = &in.Name
	}

	body, err := jsonBody(payload)
	if err != nil {
		return activity.Activity{}, err
	}

	var query url.Values
	if in.AttachDefaultEquipment {
		query = url.Values{"add_default_equipment": {"true"}}
	}

	var rec activity.Record
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/activity/",
		query:       query,
		body:        body,
		contentType: "application/json",
	}, &rec)
	if err != nil {
		return activity.Activity{}, err
	}

	return decodeRecord("POST /activity/", rec)
}

// Update implements activity.Remote.
func (c *Client) Update(ctx context.Context, id string, in activity.UpdateInput) error {
	payload := updateBody{
		Duration:            in.Duration,
		Distance:            in.Distance,
		TypeID:              in.TypeID,
		SubTypeID:           in.SubTypeID,
		Name:                in.Name,
		ElevationChangeUp:   in.ElevationUp,
		ElevationChangeDown: in.ElevationDown,
	}
	if in.Start != nil {
		s := in.Start.Format(time.RFC3339)
		payload.Start = &s
	}

	body, err := jsonBody(payload)
	if err != nil {
		return err
	}

	return c.do(ctx, request{
		method:      http.MethodPatch,
		path:        activityPath(id),
		body:        body,
		contentType: "application/json",
	}, nil)
}

// Delete implements activity.Remote.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: activityPath(id)}, nil)
}

func decodeRecord(endpoint string, rec activity.Record) (activity.Activity, error) {
	if err := rec.Validate(); err != nil {
		return activity.Activity{}, &ParseError{Endpoint: endpoint, Err: err}
	}
	return activity.Map(rec), nil
}
