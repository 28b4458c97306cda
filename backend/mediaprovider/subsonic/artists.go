package subsonic

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/helpers"
	"github.com/dweymouth/sonicbridge/sharedutil"
)

type topSongsRequest struct {
	Artist string `url:"artist"`
	Count  int    `url:"count,omitempty"`
}

type similarSongsRequest struct {
	ID    string `url:"id"`
	Count int    `url:"count,omitempty"`
}

func (c *Controller) getAllArtists(ctx context.Context, server *mediaprovider.Server, op, folder string) ([]*artist, error) {
	resp, err := c.get(ctx, server, op, "getArtists", musicFolderRequest{MusicFolderID: folder})
	if err != nil {
		return nil, err
	}
	var artists []*artist
	if resp.Artists != nil {
		for _, idx := range resp.Artists.Index {
			artists = append(artists, idx.Artist...)
		}
	}
	return artists, nil
}

func filterArtists(artists []*artist, searchTerm string, favorite *bool) []*artist {
	return sharedutil.FilterSlice(artists, func(a *artist) bool {
		if favorite != nil && *favorite != (a.Starred != nil) {
			return false
		}
		return helpers.MatchesSearch(a.Name, searchTerm)
	})
}

func (c *Controller) GetAlbumArtistList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.AlbumArtistListQuery) (*mediaprovider.ListResponse[mediaprovider.AlbumArtist], error) {
	artists, err := c.getAllArtists(ctx, server, "get album artist list", musicFolder(server, query.MusicFolderID))
	if err != nil {
		return nil, err
	}
	items := sharedutil.MapSlice(filterArtists(artists, query.SearchTerm, query.Favorite), func(a *artist) *mediaprovider.AlbumArtist {
		return c.toAlbumArtist(server, a)
	})
	return helpers.Page(helpers.SortAlbumArtists(items, query.SortBy, query.SortOrder), query.Paging), nil
}

func (c *Controller) GetAlbumArtistListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.AlbumArtistListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetAlbumArtistList)
}

func (c *Controller) GetArtistList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.ArtistListQuery) (*mediaprovider.ListResponse[mediaprovider.Artist], error) {
	artists, err := c.getAllArtists(ctx, server, "get artist list", musicFolder(server, query.MusicFolderID))
	if err != nil {
		return nil, err
	}
	items := sharedutil.MapSlice(filterArtists(artists, query.SearchTerm, query.Favorite), func(a *artist) *mediaprovider.Artist {
		return c.toArtist(server, a)
	})
	return helpers.Page(helpers.SortArtists(items, query.SortBy, query.SortOrder), query.Paging), nil
}

func (c *Controller) GetArtistListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.ArtistListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetArtistList)
}

// ArtistInfo fetches external artist metadata. It is an enrichment call:
// callers are expected to degrade gracefully when it fails.
func (c *Controller) ArtistInfo(ctx context.Context, server *mediaprovider.Server, id string) (*ArtistInfo, error) {
	resp, err := c.get(ctx, server, "get artist info", "getArtistInfo2", idRequest{ID: id})
	if err != nil {
		return nil, err
	}
	if resp.ArtistInfo2 == nil {
		return &ArtistInfo{}, nil
	}
	info := resp.ArtistInfo2
	return &ArtistInfo{
		Biography:      info.Biography,
		MBID:           info.MusicBrainzID,
		SmallImageURL:  info.SmallImageURL,
		MediumImageURL: info.MediumImageURL,
		LargeImageURL:  info.LargeImageURL,
		SimilarArtists: sharedutil.MapSlice(info.SimilarArtist, func(a *artist) mediaprovider.RelatedArtist {
			return mediaprovider.RelatedArtist{ID: string(a.ID), Name: a.Name, ImageURL: a.ArtistImageURL}
		}),
	}, nil
}

type ArtistInfo struct {
	Biography      string
	MBID           string
	SmallImageURL  string
	MediumImageURL string
	LargeImageURL  string
	SimilarArtists []mediaprovider.RelatedArtist
}

// PreferredImage returns the largest external image, or fallback if there is none.
func (a *ArtistInfo) PreferredImage(fallback string) string {
	if a == nil {
		return fallback
	}
	return sharedutil.FirstNonEmpty(a.LargeImageURL, a.MediumImageURL, a.SmallImageURL, fallback)
}

func (c *Controller) GetAlbumArtistDetail(ctx context.Context, server *mediaprovider.Server, id string) (*mediaprovider.AlbumArtist, error) {
	const op = "get album artist detail"
	var (
		ar   *artistWithAlbums
		info *ArtistInfo
	)
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		resp, err := c.get(ctx, server, op, "getArtist", idRequest{ID: id})
		if err != nil {
			return err
		}
		if resp.Artist == nil {
			return mediaprovider.OpError(op, 0, mediaprovider.ErrNotFound)
		}
		ar = resp.Artist
		return nil
	})
	p.Go(func(ctx context.Context) error {
		i, err := c.ArtistInfo(ctx, server, id)
		if err != nil {
			log.Debug().Err(err).Str("artistId", id).Msg("artist info unavailable")
			return nil
		}
		info = i
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	aa := c.toAlbumArtist(server, &ar.artist)
	aa.ImageURL = info.PreferredImage(aa.ImageURL)
	for _, al := range ar.Album {
		aa.SongCount += al.SongCount
		aa.Duration += seconds(al.Duration)
		aa.PlayCount += al.PlayCount
	}
	if info != nil {
		aa.Biography = info.Biography
		aa.SimilarArtists = info.SimilarArtists
		if aa.MBID == "" {
			aa.MBID = info.MBID
		}
	}
	return aa, nil
}

func (c *Controller) GetGenreList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.GenreListQuery) (*mediaprovider.ListResponse[mediaprovider.Genre], error) {
	resp, err := c.get(ctx, server, "get genre list", "getGenres", nil)
	if err != nil {
		return nil, err
	}
	var gs []genre
	if resp.Genres != nil {
		gs = resp.Genres.Genre
	}
	items := sharedutil.FilterMapSlice(gs, func(g genre) (*mediaprovider.Genre, bool) {
		return toGenre(server, g), helpers.MatchesSearch(g.Value, query.SearchTerm)
	})
	return helpers.Page(helpers.SortGenres(items, query.SortBy, query.SortOrder), query.Paging), nil
}

func (c *Controller) GetGenreListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.GenreListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetGenreList)
}

func (c *Controller) GetTopSongs(ctx context.Context, server *mediaprovider.Server, query mediaprovider.TopSongsQuery) (*mediaprovider.ListResponse[mediaprovider.Song], error) {
	resp, err := c.get(ctx, server, "get top songs", "getTopSongs", topSongsRequest{
		Artist: query.Artist,
		Count:  query.Count,
	})
	if err != nil {
		return nil, err
	}
	var chs []*child
	if resp.TopSongs != nil {
		chs = resp.TopSongs.Song
	}
	items := c.toSongs(server, chs)
	return &mediaprovider.ListResponse[mediaprovider.Song]{
		Items:            items,
		TotalRecordCount: len(items),
	}, nil
}

// NativeSimilarSongs is the protocol's own similar songs call. Its errors are
// meant to be dropped by the caller; see helpers.GetSimilarSongsWithFallback.
func (c *Controller) NativeSimilarSongs(ctx context.Context, server *mediaprovider.Server, query mediaprovider.SimilarSongsQuery) ([]*mediaprovider.Song, error) {
	resp, err := c.get(ctx, server, "get similar songs", "getSimilarSongs", similarSongsRequest{
		ID:    query.SongID,
		Count: query.Count,
	})
	if err != nil {
		return nil, err
	}
	if resp.SimilarSongs == nil {
		return nil, nil
	}
	return c.toSongs(server, resp.SimilarSongs.Song), nil
}

func (c *Controller) GetSimilarSongs(ctx context.Context, server *mediaprovider.Server, query mediaprovider.SimilarSongsQuery) ([]*mediaprovider.Song, error) {
	return helpers.GetSimilarSongsWithFallback(ctx, server, query, c.NativeSimilarSongs, c.GetRandomSongList)
}
