// Package stride wires the activity remote, the recent feed and the catalog
// together and exposes the mutations that keep them consistent.
package stride

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/stride/internal/catalog"
	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/core/apierr"
	"github.com/hay-kot/stride/internal/core/credential"
	"github.com/hay-kot/stride/internal/core/stats"
	"github.com/hay-kot/stride/internal/feed"
)

// User facing outcome messages.
const (
	MsgCreated            = "Activity created."
	MsgCreatedTrackFailed = "Activity created, but track upload failed."
	MsgCreateFailed       = "Failed to create activity."
	MsgAutoCreated        = "Activity created from file."
	MsgAutoCreateFailed   = "Failed to create activity from file."
	MsgUpdated            = "Activity updated."
	MsgUpdateFailed       = "Failed to update activity."
	MsgDeleted            = "Activity deleted."
	MsgDeleteFailed       = "Failed to delete activity."
	MsgImageAdded         = "Image uploaded."
	MsgImageAddFailed     = "Failed to upload image."
	MsgImageRemoved       = "Image deleted."
	MsgImageRemoveFailed  = "Failed to delete image."
	msgInvalidInput       = "Invalid activity."
	msgNothingToUpdate    = "Nothing to update."
)

// Backend is the full remote surface used by the service.
type Backend interface {
	activity.Remote
	activity.ImageRemote
	stats.Remote
	Track(ctx context.Context, activityID string) ([]activity.TrackPoint, error)
	Types(ctx context.Context) ([]activity.ActivityType, error)
	Settings(ctx context.Context) (activity.Settings, error)
}

// Result is the outcome of a mutation. A partial failure reports Success
// with a warning Message and a non-nil Err; use Partial to tell it from a
// full success.
type Result struct {
	Success  bool               `json:"success"`
	Message  string             `json:"message"`
	Activity *activity.Activity `json:"activity,omitempty"`
	Image    *activity.Image    `json:"image,omitempty"`

	// Err is the underlying failure, if any. For partial failures it is the
	// error of the step that failed.
	Err error `json:"-"`
}

// Partial reports whether the operation committed but a later step failed.
func (r Result) Partial() bool {
	return r.Success && r.Err != nil
}

// Service coordinates mutations against the remote with the local feed.
type Service struct {
	remote  Backend
	creds   credential.Provider
	feed    *feed.Feed
	catalog *catalog.Catalog
	log     zerolog.Logger

	wg sync.WaitGroup

	typesMu sync.Mutex
	types   []activity.ActivityType
}

// New creates a new Service.
func New(remote Backend, creds credential.Provider, f *feed.Feed, c *catalog.Catalog, log zerolog.Logger) *Service {
	return &Service{
		remote:  remote,
		creds:   creds,
		feed:    f,
		catalog: c,
		log:     log,
	}
}

// Feed returns the recent activity feed.
func (s *Service) Feed() *feed.Feed { return s.feed }

// Catalog returns the paginated activity catalog.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// Wait blocks until background feed refreshes have finished.
func (s *Service) Wait() { s.wg.Wait() }

func (s *Service) unauthenticated() (Result, bool) {
	if credential.Authenticated(s.creds) {
		return Result{}, false
	}
	return Result{Message: apierr.MsgNotAuthenticated, Err: credential.ErrMissing}, true
}

func failure(err error, fallback string) Result {
	return Result{Message: apierr.Message(err, fallback), Err: err}
}

// Create creates an activity and, when track is non-nil, uploads the track
// to it. A failed upload does not undo the creation.
func (s *Service) Create(ctx context.Context, in activity.CreateInput, track *activity.Upload) Result {
	if r, ok := s.unauthenticated(); ok {
		return r
	}
	if err := in.Validate(); err != nil {
		return Result{Message: msgInvalidInput, Err: err}
	}

	created, err := s.remote.Create(ctx, in)
	if err != nil {
		s.log.Warn().Err(err).Msg("create activity")
		return failure(err, MsgCreateFailed)
	}
	s.log.Info().Str("id", created.ID).Msg("activity created")
	s.refreshFeed(ctx)

	res := Result{Success: true, Message: MsgCreated, Activity: &created}
	if track == nil {
		return res
	}

	if err := s.remote.UploadTrack(ctx, created.ID, *track); err != nil {
		s.log.Warn().Err(err).Str("id", created.ID).Str("file", track.Filename).Msg("upload track")
		res.Message = MsgCreatedTrackFailed
		res.Err = fmt.Errorf("upload track: %w", err)
		return res
	}

	s.log.Debug().Str("id", created.ID).Int("bytes", track.Size()).Msg("track uploaded")
	return res
}

// AutoCreate creates an activity from a track file, with fields inferred by
// the server.
func (s *Service) AutoCreate(ctx context.Context, f activity.Upload) Result {
	if r, ok := s.unauthenticated(); ok {
		return r
	}

	created, err := s.remote.AutoCreate(ctx, f)
	if err != nil {
		s.log.Warn().Err(err).Str("file", f.Filename).Msg("auto create activity")
		return failure(err, MsgAutoCreateFailed)
	}

	s.log.Info().Str("id", created.ID).Str("file", f.Filename).Msg("activity created from file")
	s.refreshFeed(ctx)
	return Result{Success: true, Message: MsgAutoCreated, Activity: &created}
}

// Update sends the set fields of in. Cached copies are not touched; callers
// re-fetch the activity they display.
func (s *Service) Update(ctx context.Context, id string, in activity.UpdateInput) Result {
	if r, ok := s.unauthenticated(); ok {
		return r
	}
	if in.IsEmpty() {
		return Result{Message: msgNothingToUpdate, Err: in.Validate()}
	}
	if err := in.Validate(); err != nil {
		return Result{Message: msgInvalidInput, Err: err}
	}

	if err := s.remote.Update(ctx, id, in); err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("update activity")
		return failure(err, MsgUpdateFailed)
	}
	return Result{Success: true, Message: MsgUpdated}
}

// Delete removes an activity and drops it from the feed. The catalog keeps
// its entry until its next load.
func (s *Service) Delete(ctx context.Context, id string) Result {
	if r, ok := s.unauthenticated(); ok {
		return r
	}

	if err := s.remote.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("delete activity")
		return failure(err, MsgDeleteFailed)
	}

	if s.feed != nil && s.feed.Remove(id) {
		s.log.Debug().Str("id", id).Msg("removed from feed")
	}
	return Result{Success: true, Message: MsgDeleted}
}

// Activity fetches one activity.
func (s *Service) Activity(ctx context.Context, id string) (activity.Activity, error) {
	return s.remote.Get(ctx, id)
}

// Track fetches the track points of an activity.
func (s *Service) Track(ctx context.Context, id string) ([]activity.TrackPoint, error) {
	return s.remote.Track(ctx, id)
}

// Images lists the images attached to an activity.
func (s *Service) Images(ctx context.Context, id string) ([]activity.Image, error) {
	return s.remote.Images(ctx, id)
}

// AddImage uploads an image to an activity.
func (s *Service) AddImage(ctx context.Context, id string, f activity.Upload) Result {
	if r, ok := s.unauthenticated(); ok {
		return r
	}

	img, err := s.remote.UploadImage(ctx, id, f)
	if err != nil {
		s.log.Warn().Err(err).Str("id", id).Str("file", f.Filename).Msg("upload image")
		return failure(err, MsgImageAddFailed)
	}
	return Result{Success: true, Message: MsgImageAdded, Image: &img}
}

// RemoveImage deletes an image from an activity.
func (s *Service) RemoveImage(ctx context.Context, id, imageID string) Result {
	if r, ok := s.unauthenticated(); ok {
		return r
	}

	if err := s.remote.DeleteImage(ctx, id, imageID); err != nil {
		s.log.Warn().Err(err).Str("id", id).Str("image", imageID).Msg("delete image")
		return failure(err, MsgImageRemoveFailed)
	}
	return Result{Success: true, Message: MsgImageRemoved}
}

// Types returns the activity categories. The first successful response is
// cached for the life of the service.
func (s *Service) Types(ctx context.Context) ([]activity.ActivityType, error) {
	s.typesMu.Lock()
	defer s.typesMu.Unlock()

	if s.types != nil {
		return s.types, nil
	}

	types, err := s.remote.Types(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch activity types: %w", err)
	}
	if types == nil {
		types = []activity.ActivityType{}
	}
	s.types = types
	return types, nil
}

// TypeNames returns the type lookup used to label activities. Failures
// yield an empty lookup so labels fall back to ids.
func (s *Service) TypeNames(ctx context.Context) activity.TypeNames {
	types, err := s.Types(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("type names unavailable")
		return activity.TypeNames{}
	}
	return activity.NewTypeNames(types)
}

// Settings returns the user's activity defaults.
func (s *Service) Settings(ctx context.Context) (activity.Settings, error) {
	return s.remote.Settings(ctx)
}

// YearStats returns yearly totals. Year 0 requests all-time totals.
func (s *Service) YearStats(ctx context.Context, year int) (stats.YearStats, error) {
	return s.remote.Yearly(ctx, year)
}

// WeekStats returns the per-day series for one week.
func (s *Service) WeekStats(ctx context.Context, q stats.WeekQuery) (stats.WeeklyStats, error) {
	return s.remote.Weekly(ctx, q)
}

// refreshFeed refreshes the feed in the background. Its outcome is only
// logged.
func (s *Service) refreshFeed(ctx context.Context) {
	if s.feed == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	s.wg.Go(func() {
		if err := s.feed.Refresh(ctx); err != nil {
			s.log.Debug().Err(err).Msg("background feed refresh")
		}
	})
}
