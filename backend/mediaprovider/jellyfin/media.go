package jellyfin

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/dweymouth/sonicbridge/backend/apiclient"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/helpers"
	"github.com/dweymouth/sonicbridge/sharedutil"
)

func (c *Controller) setFavorite(ctx context.Context, server *mediaprovider.Server, op string, ids []string, favorite bool) error {
	method := http.MethodPost
	if !favorite {
		method = http.MethodDelete
	}
	p := pool.New().WithMaxGoroutines(maxParallelFavorites).WithErrors().WithFirstError().WithContext(ctx)
	for _, id := range ids {
		p.Go(func(ctx context.Context) error {
			return c.call(ctx, server, op, apiclient.Request{
				Method: method,
				Path:   "/Users/{userId}/FavoriteItems/{id}",
				Params: userParams(server, map[string]string{"id": id}),
			}, nil)
		})
	}
	return p.Wait()
}

// CreateFavorite marks items as favorites. Items of every type share one
// endpoint, one request per item with bounded concurrency.
func (c *Controller) CreateFavorite(ctx context.Context, server *mediaprovider.Server, query mediaprovider.FavoriteQuery) error {
	return c.setFavorite(ctx, server, "create favorite", query.IDs, true)
}

func (c *Controller) DeleteFavorite(ctx context.Context, server *mediaprovider.Server, query mediaprovider.FavoriteQuery) error {
	return c.setFavorite(ctx, server, "delete favorite", query.IDs, false)
}

// SetRating is not supported; Jellyfin has no per-user star rating.
func (c *Controller) SetRating(context.Context, *mediaprovider.Server, mediaprovider.RatingQuery) error {
	return mediaprovider.Unsupported("set rating")
}

// Scrobble reports playback through the session endpoints. A submission
// ends playback at the given position, which is what marks the item played.
func (c *Controller) Scrobble(ctx context.Context, server *mediaprovider.Server, query mediaprovider.ScrobbleQuery) error {
	report := playbackReport{
		ItemID:        query.ID,
		PositionTicks: durationToTicks(time.Duration(query.Position) * time.Millisecond),
	}
	path := "/Sessions/Playing/Progress"
	switch {
	case query.Submission:
		path = "/Sessions/Playing/Stopped"
	case query.Event == mediaprovider.ScrobbleStart || query.Event == "":
		path = "/Sessions/Playing"
	default:
		report.EventName = string(query.Event)
		report.IsPaused = query.Event == mediaprovider.ScrobblePause
	}
	return c.call(ctx, server, "scrobble", apiclient.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   report,
	}, nil)
}

// Search runs one query per result category concurrently. A category
// with a zero limit is not searched.
func (c *Controller) Search(ctx context.Context, server *mediaprovider.Server, query mediaprovider.SearchQuery) (*mediaprovider.SearchResult, error) {
	const op = "search"
	result := &mediaprovider.SearchResult{
		Albums:       []*mediaprovider.Album{},
		AlbumArtists: []*mediaprovider.AlbumArtist{},
		Songs:        []*mediaprovider.Song{},
	}
	folder := parentID(server, query.MusicFolderID)
	p := pool.New().WithErrors().WithFirstError().WithContext(ctx).WithCancelOnError()
	if query.AlbumLimit > 0 {
		p.Go(func(ctx context.Context) error {
			resp, err := c.listItems(ctx, server, op, userItemsPath, userParams(server, nil), itemsQuery{
				IncludeItemTypes: itemTypeAlbum,
				Recursive:        true,
				ParentID:         folder,
				SearchTerm:       query.Query,
				StartIndex:       query.AlbumStartIndex,
				Limit:            query.AlbumLimit,
			}, nil)
			if err != nil {
				return err
			}
			result.Albums = toAlbums(server, resp.Items)
			return nil
		})
	}
	if query.AlbumArtistLimit > 0 {
		p.Go(func(ctx context.Context) error {
			resp, err := c.listItems(ctx, server, op, "/Artists/AlbumArtists", nil, itemsQuery{
				UserID:     server.UserID,
				ParentID:   folder,
				SearchTerm: query.Query,
				StartIndex: query.AlbumArtistStartIndex,
				Limit:      query.AlbumArtistLimit,
			}, nil)
			if err != nil {
				return err
			}
			result.AlbumArtists = sharedutil.MapSlice(resp.Items, func(it *item) *mediaprovider.AlbumArtist {
				return toAlbumArtist(server, it)
			})
			return nil
		})
	}
	if query.SongLimit > 0 {
		p.Go(func(ctx context.Context) error {
			resp, err := c.listItems(ctx, server, op, userItemsPath, userParams(server, nil), itemsQuery{
				IncludeItemTypes: itemTypeSong,
				Recursive:        true,
				ParentID:         folder,
				SearchTerm:       query.Query,
				StartIndex:       query.SongStartIndex,
				Limit:            query.SongLimit,
			}, nil)
			if err != nil {
				return err
			}
			result.Songs = toSongs(server, resp.Items)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetLyrics returns the song's lyrics, or nil if it has none.
// Servers before 10.9 serve lyrics from the user item path.
func (c *Controller) GetLyrics(ctx context.Context, server *mediaprovider.Server, song *mediaprovider.Song) (*mediaprovider.Lyrics, error) {
	path, params := "/Audio/{id}/Lyrics", map[string]string{"id": song.ID}
	if !server.HasFeature(mediaprovider.FeatureLyricsSingleStructured) {
		path, params = "/Users/{userId}/Items/{id}/Lyrics", userParams(server, params)
	}
	var l lyricsResponse
	if err := c.get(ctx, server, "get lyrics", path, params, nil, &l); err != nil {
		if errors.Is(err, mediaprovider.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(l.Lyrics) == 0 {
		return nil, nil
	}
	return toLyrics(&l), nil
}

// GetTags lists the genre and tag values in use for the item type.
func (c *Controller) GetTags(ctx context.Context, server *mediaprovider.Server, query mediaprovider.TagListQuery) ([]mediaprovider.Tag, error) {
	if !server.HasFeature(mediaprovider.FeatureTags) {
		return []mediaprovider.Tag{}, nil
	}
	itemType := itemTypeSong
	if query.Type == mediaprovider.ItemTypeAlbum {
		itemType = itemTypeAlbum
	}
	var f filtersResponse
	err := c.get(ctx, server, "get tags", "/Items/Filters", nil, itemsQuery{
		UserID:           server.UserID,
		ParentID:         server.MusicFolderID,
		IncludeItemTypes: itemType,
	}, &f)
	if err != nil {
		return nil, err
	}
	tags := []mediaprovider.Tag{}
	for _, t := range []mediaprovider.Tag{{Name: "genre", Values: f.Genres}, {Name: "tag", Values: f.Tags}} {
		if len(t.Values) == 0 {
			continue
		}
		t.Values = slices.Compact(slices.Sorted(slices.Values(t.Values)))
		tags = append(tags, t)
	}
	return tags, nil
}

// GetTopSongs approximates top songs by community rating and play count,
// since Jellyfin has no external popularity source.
func (c *Controller) GetTopSongs(ctx context.Context, server *mediaprovider.Server, query mediaprovider.TopSongsQuery) (*mediaprovider.ListResponse[mediaprovider.Song], error) {
	q := itemsQuery{
		IncludeItemTypes: itemTypeSong,
		Recursive:        true,
		ParentID:         server.MusicFolderID,
		Limit:            query.Count,
		SortBy:           "CommunityRating,PlayCount,SortName",
		SortOrder:        sortOrders[mediaprovider.SortDesc],
	}
	v, err := q.values(nil)
	if err != nil {
		return nil, mediaprovider.OpError("get top songs", 0, err)
	}
	v.Set("Fields", itemFields)
	if query.ArtistID != "" {
		v.Set("ArtistIds", query.ArtistID)
	} else if query.Artist != "" {
		v.Set("Artists", query.Artist)
	}
	var resp itemsResponse
	if err := c.get(ctx, server, "get top songs", userItemsPath, userParams(server, nil), v, &resp); err != nil {
		return nil, err
	}
	items := toSongs(server, resp.Items)
	return &mediaprovider.ListResponse[mediaprovider.Song]{Items: items, TotalRecordCount: len(items)}, nil
}

// instantMix is Jellyfin's native similar songs call.
func (c *Controller) instantMix(ctx context.Context, server *mediaprovider.Server, query mediaprovider.SimilarSongsQuery) ([]*mediaprovider.Song, error) {
	var resp itemsResponse
	err := c.get(ctx, server, "get similar songs", "/Items/{id}/InstantMix", map[string]string{"id": query.SongID},
		itemsQuery{UserID: server.UserID, Limit: query.Count, Fields: itemFields}, &resp)
	if err != nil {
		return nil, err
	}
	return toSongs(server, resp.Items), nil
}

func (c *Controller) GetSimilarSongs(ctx context.Context, server *mediaprovider.Server, query mediaprovider.SimilarSongsQuery) ([]*mediaprovider.Song, error) {
	return helpers.GetSimilarSongsWithFallback(ctx, server, query, c.instantMix, c.GetRandomSongList)
}

// ShareItem is not supported; Jellyfin has no public share links.
func (c *Controller) ShareItem(context.Context, *mediaprovider.Server, mediaprovider.ShareQuery) (*mediaprovider.ShareResult, error) {
	return nil, mediaprovider.Unsupported("share item")
}

func (c *Controller) mediaURL(server *mediaprovider.Server, path, id string, q url.Values) string {
	q.Set("api_key", server.Credential)
	u, err := apiclient.BuildURL(server.URL, apiclient.Request{
		Path:   path,
		Params: map[string]string{"id": id},
		Query:  q,
	})
	if err != nil {
		return ""
	}
	return u
}

func (c *Controller) GetDownloadURL(server *mediaprovider.Server, id string) string {
	return c.mediaURL(server, "/Items/{id}/Download", id, url.Values{})
}

// GetTranscodeURL returns the universal audio URL for the requested codec,
// which doubles as the container. Without a format the original file is streamed.
func (c *Controller) GetTranscodeURL(server *mediaprovider.Server, query mediaprovider.TranscodeQuery) string {
	if query.Format == "" || query.Format == "raw" {
		return c.mediaURL(server, "/Audio/{id}/stream", query.ID, url.Values{"static": {"true"}})
	}
	q := url.Values{
		"UserId":               {server.UserID},
		"DeviceId":             {c.deviceID},
		"Container":            {query.Format},
		"AudioCodec":           {query.Format},
		"TranscodingContainer": {query.Format},
		"TranscodingProtocol":  {"http"},
	}
	if query.BitRateKB > 0 {
		q.Set("MaxStreamingBitrate", strconv.Itoa(query.BitRateKB*1000))
	}
	return c.mediaURL(server, "/Audio/{id}/universal", query.ID, q)
}
