package subsonic

import (
	"context"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
)

type starRequest struct {
	ID       []string `url:"id,omitempty"`
	AlbumID  []string `url:"albumId,omitempty"`
	ArtistID []string `url:"artistId,omitempty"`
}

type ratingRequest struct {
	ID     string `url:"id"`
	Rating int    `url:"rating"`
}

type scrobbleRequest struct {
	ID         string `url:"id"`
	Time       int64  `url:"time,omitempty"`
	Submission bool   `url:"submission"`
}

func toStarRequest(query mediaprovider.FavoriteQuery) starRequest {
	switch query.Type {
	case mediaprovider.ItemTypeAlbum:
		return starRequest{AlbumID: query.IDs}
	case mediaprovider.ItemTypeAlbumArtist, mediaprovider.ItemTypeArtist:
		return starRequest{ArtistID: query.IDs}
	default:
		return starRequest{ID: query.IDs}
	}
}

func (c *Controller) CreateFavorite(ctx context.Context, server *mediaprovider.Server, query mediaprovider.FavoriteQuery) error {
	_, err := c.get(ctx, server, "create favorite", "star", toStarRequest(query))
	return err
}

func (c *Controller) DeleteFavorite(ctx context.Context, server *mediaprovider.Server, query mediaprovider.FavoriteQuery) error {
	_, err := c.get(ctx, server, "delete favorite", "unstar", toStarRequest(query))
	return err
}

// SetRating rates each item with its own request, since the protocol
// takes a single id per call.
func (c *Controller) SetRating(ctx context.Context, server *mediaprovider.Server, query mediaprovider.RatingQuery) error {
	rating := max(0, min(query.Rating, 5))
	p := pool.New().WithMaxGoroutines(maxParallelFetches).WithErrors().WithFirstError().WithContext(ctx)
	for _, item := range query.Items {
		p.Go(func(ctx context.Context) error {
			_, err := c.get(ctx, server, "set rating", "setRating", ratingRequest{ID: item.ID, Rating: rating})
			return err
		})
	}
	return p.Wait()
}

// Scrobble reports "now playing" on start and a play on submission.
// Other playback events have no protocol equivalent and are ignored.
func (c *Controller) Scrobble(ctx context.Context, server *mediaprovider.Server, query mediaprovider.ScrobbleQuery) error {
	if !query.Submission && query.Event != mediaprovider.ScrobbleStart && query.Event != "" {
		return nil
	}
	req := scrobbleRequest{ID: query.ID, Submission: query.Submission}
	if query.Submission {
		req.Time = time.Now().UnixMilli()
	}
	_, err := c.get(ctx, server, "scrobble", "scrobble", req)
	return err
}
