package navidrome

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/dweymouth/sonicbridge/backend/apiclient"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/helpers"
)

// Tags that are browsable through dedicated lists or carry no useful
// browse value are left out of tag enumeration.
var (
	excludedAlbumTags = map[string]struct{}{
		"disctotal": {}, "genre": {}, "tracktotal": {}, "comment": {},
		"lyrics": {}, "musicbrainz_trackid": {}, "musicbrainz_recordingid": {},
	}
	excludedSongTags = map[string]struct{}{
		"disctotal": {}, "genre": {}, "tracktotal": {}, "lyrics": {},
	}
)

// GetTags enumerates tag names with their distinct values. Tags are only
// indexed by servers with tag-based browsing; others report none.
func (c *Controller) GetTags(ctx context.Context, server *mediaprovider.Server, query mediaprovider.TagListQuery) ([]mediaprovider.Tag, error) {
	if !server.HasFeature(mediaprovider.FeatureBFR) {
		return []mediaprovider.Tag{}, nil
	}
	var raw []*ndTag
	params := url.Values{"_sort": {"tagName"}, "_order": {"ASC"}, "_start": {"0"}}
	if _, err := c.get(ctx, server, "get tags", "/api/tag", nil, params, &raw); err != nil {
		return nil, err
	}
	excluded := excludedSongTags
	if query.Type == mediaprovider.ItemTypeAlbum {
		excluded = excludedAlbumTags
	}

	byName := make(map[string][]string)
	var names []string
	for _, t := range raw {
		if _, skip := excluded[t.TagName]; skip {
			continue
		}
		if _, seen := byName[t.TagName]; !seen {
			names = append(names, t.TagName)
		}
		byName[t.TagName] = append(byName[t.TagName], t.TagValue)
	}
	slices.Sort(names)
	tags := make([]mediaprovider.Tag, 0, len(names))
	for _, n := range names {
		vals := byName[n]
		slices.Sort(vals)
		tags = append(tags, mediaprovider.Tag{Name: n, Values: slices.Compact(vals)})
	}
	return tags, nil
}

// ShareItem creates a public share. Sharing albums and songs needs
// server support; other resources can always be shared.
func (c *Controller) ShareItem(ctx context.Context, server *mediaprovider.Server, query mediaprovider.ShareQuery) (*mediaprovider.ShareResult, error) {
	const op = "share item"
	switch query.ResourceType {
	case mediaprovider.ItemTypeAlbum, mediaprovider.ItemTypeSong:
		if !server.HasFeature(mediaprovider.FeatureSharingAlbumSong) {
			return nil, mediaprovider.Unsupported(op)
		}
	}
	body := ndShareBody{
		ResourceIDs:  strings.Join(query.ResourceIDs, ","),
		ResourceType: string(query.ResourceType),
		Description:  query.Description,
		Downloadable: query.Downloadable,
	}
	if query.ExpiresInMS > 0 {
		exp := time.Now().Add(time.Duration(query.ExpiresInMS) * time.Millisecond)
		body.ExpiresAt = &exp
	}
	var created idResponse
	if _, err := c.call(ctx, server, op, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/api/share",
		Body:   body,
	}, &created); err != nil {
		return nil, err
	}
	return &mediaprovider.ShareResult{
		ID:  created.ID,
		URL: strings.TrimSuffix(server.URL, "/") + "/share/" + created.ID,
	}, nil
}

func (c *Controller) GetSimilarSongs(ctx context.Context, server *mediaprovider.Server, query mediaprovider.SimilarSongsQuery) ([]*mediaprovider.Song, error) {
	return helpers.GetSimilarSongsWithFallback(ctx, server, query, c.sub.NativeSimilarSongs, c.GetRandomSongList)
}

// The operations below have no Navidrome-specific behavior and are served
// by the Subsonic API.

func (c *Controller) SetRating(ctx context.Context, server *mediaprovider.Server, query mediaprovider.RatingQuery) error {
	return c.sub.SetRating(ctx, server, query)
}

func (c *Controller) CreateFavorite(ctx context.Context, server *mediaprovider.Server, query mediaprovider.FavoriteQuery) error {
	return c.sub.CreateFavorite(ctx, server, query)
}

func (c *Controller) DeleteFavorite(ctx context.Context, server *mediaprovider.Server, query mediaprovider.FavoriteQuery) error {
	return c.sub.DeleteFavorite(ctx, server, query)
}

func (c *Controller) GetLyrics(ctx context.Context, server *mediaprovider.Server, song *mediaprovider.Song) (*mediaprovider.Lyrics, error) {
	return c.sub.GetLyrics(ctx, server, song)
}

func (c *Controller) GetMusicFolderList(ctx context.Context, server *mediaprovider.Server) (*mediaprovider.ListResponse[mediaprovider.MusicFolder], error) {
	return c.sub.GetMusicFolderList(ctx, server)
}

func (c *Controller) GetTopSongs(ctx context.Context, server *mediaprovider.Server, query mediaprovider.TopSongsQuery) (*mediaprovider.ListResponse[mediaprovider.Song], error) {
	return c.sub.GetTopSongs(ctx, server, query)
}

func (c *Controller) Scrobble(ctx context.Context, server *mediaprovider.Server, query mediaprovider.ScrobbleQuery) error {
	return c.sub.Scrobble(ctx, server, query)
}

func (c *Controller) Search(ctx context.Context, server *mediaprovider.Server, query mediaprovider.SearchQuery) (*mediaprovider.SearchResult, error) {
	return c.sub.Search(ctx, server, query)
}

func (c *Controller) GetDownloadURL(server *mediaprovider.Server, id string) string {
	return c.sub.GetDownloadURL(server, id)
}

func (c *Controller) GetTranscodeURL(server *mediaprovider.Server, query mediaprovider.TranscodeQuery) string {
	return c.sub.GetTranscodeURL(server, query)
}
