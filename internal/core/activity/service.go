package activity

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a single activity cannot be fetched.
var ErrNotFound = errors.New("activity not found")

// Lister fetches one page of activities.
type Lister interface {
	// List returns the page described by q in server order.
	List(ctx context.Context, q ListQuery) ([]Activity, error)
}

// Remote is the subset of the activity API the client core relies on.
// Implementations attach the bearer credential to every call and return
// credential.ErrMissing without touching the network when there is none.
type Remote interface {
	Lister
	// Get returns one activity. Any non-2xx response wraps ErrNotFound.
	Get(ctx context.Context, id string) (Activity, error)
	// Create creates an activity and returns it as stored by the server.
	Create(ctx context.Context, in CreateInput) (Activity, error)
	// Update sends only the fields set in in.
	Update(ctx context.Context, id string, in UpdateInput) error
	// Delete removes an activity.
	Delete(ctx context.Context, id string) error
	// UploadTrack attaches a track file to an existing activity.
	UploadTrack(ctx context.Context, activityID string, f Upload) error
	// AutoCreate creates an activity from a track file, with fields inferred
	// server side.
	AutoCreate(ctx context.Context, f Upload) (Activity, error)
}

// ImageRemote manages the images attached to an activity.
type ImageRemote interface {
	Images(ctx context.Context, activityID string) ([]Image, error)
	UploadImage(ctx context.Context, activityID string, f Upload) (Image, error)
	DeleteImage(ctx context.Context, activityID, imageID string) error
}
