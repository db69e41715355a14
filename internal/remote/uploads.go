package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hay-kot/stride/internal/core/activity"
)

// UploadTrack implements activity.Remote.
func (c *Client) UploadTrack(ctx context.Context, activityID string, f activity.Upload) error {
	body, contentType, err := c.multipartBody(f)
	if err != nil {
		return err
	}

	return c.do(ctx, request{
		method:      http.MethodPut,
		path:        "/track/",
		query:       url.Values{"activity_id": {activityID}},
		body:        body,
		contentType: contentType,
	}, nil)
}

// AutoCreate implements activity.Remote.
func (c *Client) AutoCreate(ctx context.Context, f activity.Upload) (activity.Activity, error) {
	body, contentType, err := c.multipartBody(f)
	if err != nil {
		return activity.Activity{}, err
	}

	var rec activity.Record
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/activity/auto/",
		body:        body,
		contentType: contentType,
	}, &rec)
	if err != nil {
		return activity.Activity{}, err
	}

	return decodeRecord("POST /activity/auto/", rec)
}

// Track returns the recorded track points of an activity. A response without
// a data field is treated as an activity without a track.
func (c *Client) Track(ctx context.Context, activityID string) ([]activity.TrackPoint, error) {
	var env envelope[activity.TrackRecord]
	err := c.do(ctx, request{method: http.MethodGet, path: "/track/" + url.PathEscape(activityID)}, &env)
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []activity.TrackPoint{}, nil
	}
	return activity.MapTrack(*env.Data), nil
}

// Images implements activity.ImageRemote.
func (c *Client) Images(ctx context.Context, activityID string) ([]activity.Image, error) {
	var env envelope[activity.Image]
	endpoint := "GET /activity/{id}/images"
	err := c.do(ctx, request{method: http.MethodGet, path: activityPath(activityID) + "/images"}, &env)
	if err != nil {
		return nil, err
	}
	return env.items(endpoint)
}

// UploadImage implements activity.ImageRemote.
func (c *Client) UploadImage(ctx context.Context, activityID string, f activity.Upload) (activity.Image, error) {
	body, contentType, err := c.multipartBody(f)
	if err != nil {
		return activity.Image{}, err
	}

	var img activity.Image
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        activityPath(activityID) + "/images",
		body:        body,
		contentType: contentType,
	}, &img)
	if err != nil {
		return activity.Image{}, err
	}
	if img.ID == "" {
		return activity.Image{}, &ParseError{Endpoint: "POST /activity/{id}/images", Err: fmt.Errorf("missing image id")}
	}
	return img, nil
}

// DeleteImage implements activity.ImageRemote.
func (c *Client) DeleteImage(ctx context.Context, activityID, imageID string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   activityPath(activityID) + "/images/" + url.PathEscape(imageID),
	}, nil)
}
