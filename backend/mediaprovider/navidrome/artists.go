package navidrome

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/helpers"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/subsonic"
	"github.com/dweymouth/sonicbridge/sharedutil"
)

func (c *Controller) listArtists(ctx context.Context, server *mediaprovider.Server, op string, page mediaprovider.Paging, sort string, order mediaprovider.SortOrder, filter artistFilter, custom mediaprovider.CustomFilter) ([]*ndArtist, int, error) {
	params, err := withFilter(listValues(page, sort, order), filter, custom)
	if err != nil {
		return nil, 0, mediaprovider.OpError(op, 0, err)
	}
	var artists []*ndArtist
	resp, err := c.get(ctx, server, op, "/api/artist", nil, params, &artists)
	if err != nil {
		return nil, 0, err
	}
	return artists, recordCount(resp, page, len(artists)), nil
}

// GetAlbumArtistList lists artists in the album artist role. Servers without
// tag-based browsing have no roles and list album artists by default.
func (c *Controller) GetAlbumArtistList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.AlbumArtistListQuery) (*mediaprovider.ListResponse[mediaprovider.AlbumArtist], error) {
	filter := artistFilter{
		Name:      query.SearchTerm,
		GenreID:   query.GenreIDs,
		Starred:   query.Favorite,
		LibraryID: libraryID(server, query.MusicFolderID),
		Missing:   missingFilter(server),
	}
	if server.HasFeature(mediaprovider.FeatureBFR) {
		filter.Role = roleAlbumArtist
	}
	artists, total, err := c.listArtists(ctx, server, "get album artist list", query.Paging,
		albumArtistListSorts[query.SortBy], query.SortOrder, filter, query.Custom)
	if err != nil {
		return nil, err
	}
	return &mediaprovider.ListResponse[mediaprovider.AlbumArtist]{
		Items: sharedutil.MapSlice(artists, func(a *ndArtist) *mediaprovider.AlbumArtist {
			return c.toAlbumArtist(server, a)
		}),
		StartIndex:       query.StartIndex,
		TotalRecordCount: total,
	}, nil
}

func (c *Controller) GetAlbumArtistListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.AlbumArtistListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetAlbumArtistList)
}

// GetArtistList lists contributors. The role filter is only sent to servers
// with tag-based browsing, since older servers do not track roles.
func (c *Controller) GetArtistList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.ArtistListQuery) (*mediaprovider.ListResponse[mediaprovider.Artist], error) {
	filter := artistFilter{
		Name:      query.SearchTerm,
		Starred:   query.Favorite,
		LibraryID: libraryID(server, query.MusicFolderID),
		Missing:   missingFilter(server),
	}
	if server.HasFeature(mediaprovider.FeatureBFR) {
		filter.Role = query.Role
	}
	artists, total, err := c.listArtists(ctx, server, "get artist list", query.Paging,
		artistListSorts[query.SortBy], query.SortOrder, filter, query.Custom)
	if err != nil {
		return nil, err
	}
	return &mediaprovider.ListResponse[mediaprovider.Artist]{
		Items: sharedutil.MapSlice(artists, func(a *ndArtist) *mediaprovider.Artist {
			return c.toArtist(server, a)
		}),
		StartIndex:       query.StartIndex,
		TotalRecordCount: total,
	}, nil
}

func (c *Controller) GetArtistListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.ArtistListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetArtistList)
}

// GetAlbumArtistDetail fetches the artist and its external info concurrently.
// The info call is best-effort; when it succeeds its image is preferred
// over the server's own.
func (c *Controller) GetAlbumArtistDetail(ctx context.Context, server *mediaprovider.Server, id string) (*mediaprovider.AlbumArtist, error) {
	const op = "get album artist detail"
	var (
		ar   ndArtist
		info *subsonic.ArtistInfo
	)
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		_, err := c.get(ctx, server, op, "/api/artist/{id}", map[string]string{"id": id}, nil, &ar)
		return err
	})
	p.Go(func(ctx context.Context) error {
		i, err := c.sub.ArtistInfo(ctx, server, id)
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

	aa := c.toAlbumArtist(server, &ar)
	native := sharedutil.FirstNonEmpty(ar.LargeImageURL, ar.MediumImageURL, ar.SmallImageURL, aa.ImageURL)
	aa.ImageURL = info.PreferredImage(native)
	aa.Biography = ar.Biography
	if info != nil {
		aa.Biography = sharedutil.FirstNonEmpty(info.Biography, ar.Biography)
		aa.SimilarArtists = info.SimilarArtists
		if aa.MBID == "" {
			aa.MBID = info.MBID
		}
	}
	return aa, nil
}

func (c *Controller) GetGenreList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.GenreListQuery) (*mediaprovider.ListResponse[mediaprovider.Genre], error) {
	const op = "get genre list"
	params, err := withFilter(listValues(query.Paging, genreListSorts[query.SortBy], query.SortOrder),
		nameFilter{Name: query.SearchTerm}, query.Custom)
	if err != nil {
		return nil, mediaprovider.OpError(op, 0, err)
	}
	var genres []*ndGenre
	resp, err := c.get(ctx, server, op, "/api/genre", nil, params, &genres)
	if err != nil {
		return nil, err
	}
	items := sharedutil.MapSlice(genres, func(g *ndGenre) *mediaprovider.Genre { return toGenre(server, g) })
	return listResponse(items, query.Paging, resp), nil
}

func (c *Controller) GetGenreListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.GenreListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetGenreList)
}
