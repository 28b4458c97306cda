package subsonic

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
)

type lyricsRequest struct {
	Artist string `url:"artist,omitempty"`
	Title  string `url:"title,omitempty"`
}

type createShareRequest struct {
	ID          []string `url:"id"`
	Description string   `url:"description,omitempty"`
	Expires     int64    `url:"expires,omitempty"`
}

func (c *Controller) Search(ctx context.Context, server *mediaprovider.Server, query mediaprovider.SearchQuery) (*mediaprovider.SearchResult, error) {
	resp, err := c.get(ctx, server, "search", "search3", search3Request{
		Query:         query.Query,
		ArtistCount:   query.AlbumArtistLimit,
		ArtistOffset:  query.AlbumArtistStartIndex,
		AlbumCount:    query.AlbumLimit,
		AlbumOffset:   query.AlbumStartIndex,
		SongCount:     query.SongLimit,
		SongOffset:    query.SongStartIndex,
		MusicFolderID: musicFolder(server, query.MusicFolderID),
	})
	if err != nil {
		return nil, err
	}
	res := &mediaprovider.SearchResult{
		Albums:       []*mediaprovider.Album{},
		AlbumArtists: []*mediaprovider.AlbumArtist{},
		Songs:        []*mediaprovider.Song{},
	}
	if r := resp.SearchResult3; r != nil {
		res.Albums = append(res.Albums, c.toAlbums(server, r.Album)...)
		res.Songs = append(res.Songs, c.toSongs(server, r.Song)...)
		for _, ar := range r.Artist {
			res.AlbumArtists = append(res.AlbumArtists, c.toAlbumArtist(server, ar))
		}
	}
	return res, nil
}

// GetLyrics prefers structured lyrics when the server supports them, picking
// a synced set if there is one. The result is nil if the server has none.
func (c *Controller) GetLyrics(ctx context.Context, server *mediaprovider.Server, song *mediaprovider.Song) (*mediaprovider.Lyrics, error) {
	const op = "get lyrics"
	if server.HasFeature(mediaprovider.FeatureLyricsMultipleStructured) {
		resp, err := c.get(ctx, server, op, "getLyricsBySongId", idRequest{ID: song.ID})
		if err != nil {
			return nil, err
		}
		if resp.LyricsList == nil || len(resp.LyricsList.StructuredLyrics) == 0 {
			return nil, nil
		}
		all := resp.LyricsList.StructuredLyrics
		for _, l := range all {
			if l.Synced {
				return toLyrics(l), nil
			}
		}
		return toLyrics(all[0]), nil
	}

	var artist string
	if len(song.Artists) > 0 {
		artist = song.Artists[0].Name
	}
	resp, err := c.get(ctx, server, op, "getLyrics", lyricsRequest{Artist: artist, Title: song.Name})
	if err != nil {
		return nil, err
	}
	if resp.Lyrics == nil || resp.Lyrics.Value == "" {
		return nil, nil
	}
	return plainToLyrics(resp.Lyrics), nil
}

// GetTags returns no tags: Subsonic has no tag enumeration endpoint.
func (c *Controller) GetTags(context.Context, *mediaprovider.Server, mediaprovider.TagListQuery) ([]mediaprovider.Tag, error) {
	return []mediaprovider.Tag{}, nil
}

func (c *Controller) ShareItem(ctx context.Context, server *mediaprovider.Server, query mediaprovider.ShareQuery) (*mediaprovider.ShareResult, error) {
	const op = "share item"
	req := createShareRequest{ID: query.ResourceIDs, Description: query.Description}
	if query.ExpiresInMS > 0 {
		req.Expires = time.Now().Add(time.Duration(query.ExpiresInMS) * time.Millisecond).UnixMilli()
	}
	resp, err := c.get(ctx, server, op, "createShare", req)
	if err != nil {
		return nil, err
	}
	if resp.Shares == nil || len(resp.Shares.Share) == 0 {
		return nil, mediaprovider.OpError(op, 0, mediaprovider.ErrNotFound)
	}
	sh := resp.Shares.Share[0]
	return &mediaprovider.ShareResult{ID: string(sh.ID), URL: sh.URL}, nil
}

func (c *Controller) GetDownloadURL(server *mediaprovider.Server, id string) string {
	return c.restURL(server, "download", url.Values{"id": {id}})
}

func (c *Controller) GetTranscodeURL(server *mediaprovider.Server, query mediaprovider.TranscodeQuery) string {
	params := url.Values{"id": {query.ID}}
	if query.Format != "" {
		params.Set("format", query.Format)
	}
	if query.BitRateKB > 0 {
		params.Set("maxBitRate", strconv.Itoa(query.BitRateKB))
	}
	return c.restURL(server, "stream", params)
}

// CoverArtURL is the proxied cover art URL for an image id.
func (c *Controller) CoverArtURL(server *mediaprovider.Server, id string) string {
	return c.coverArtURL(server, id)
}
