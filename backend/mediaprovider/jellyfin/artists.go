package jellyfin

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/helpers"
	"github.com/dweymouth/sonicbridge/sharedutil"
)

const similarArtistsLimit = 10

func (c *Controller) GetAlbumArtistList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.AlbumArtistListQuery) (*mediaprovider.ListResponse[mediaprovider.AlbumArtist], error) {
	q := itemsQuery{
		UserID:     server.UserID,
		ParentID:   parentID(server, query.MusicFolderID),
		SearchTerm: query.SearchTerm,
		GenreIDs:   query.GenreIDs,
		IsFavorite: query.Favorite,
	}
	q.page(query.Paging)
	q.sort(albumArtistListSorts[query.SortBy], query.SortOrder)
	resp, err := c.listItems(ctx, server, "get album artist list", "/Artists/AlbumArtists", nil, q, query.Custom)
	if err != nil {
		return nil, err
	}
	items := sharedutil.MapSlice(resp.Items, func(it *item) *mediaprovider.AlbumArtist { return toAlbumArtist(server, it) })
	return listResponse(items, query.Paging, resp), nil
}

func (c *Controller) GetAlbumArtistListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.AlbumArtistListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetAlbumArtistList)
}

// GetArtistList lists every credited artist. Jellyfin has no contributor
// roles, so the query's Role is ignored.
func (c *Controller) GetArtistList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.ArtistListQuery) (*mediaprovider.ListResponse[mediaprovider.Artist], error) {
	q := itemsQuery{
		UserID:     server.UserID,
		ParentID:   parentID(server, query.MusicFolderID),
		SearchTerm: query.SearchTerm,
		IsFavorite: query.Favorite,
	}
	q.page(query.Paging)
	q.sort(artistListSorts[query.SortBy], query.SortOrder)
	resp, err := c.listItems(ctx, server, "get artist list", "/Artists", nil, q, query.Custom)
	if err != nil {
		return nil, err
	}
	items := sharedutil.MapSlice(resp.Items, func(it *item) *mediaprovider.Artist { return toArtist(server, it) })
	return listResponse(items, query.Paging, resp), nil
}

func (c *Controller) GetArtistListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.ArtistListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetArtistList)
}

// similarArtists is best-effort enrichment for the artist detail view.
func (c *Controller) similarArtists(ctx context.Context, server *mediaprovider.Server, id string) ([]mediaprovider.RelatedArtist, error) {
	var resp itemsResponse
	err := c.get(ctx, server, "get similar artists", "/Artists/{id}/Similar", map[string]string{"id": id},
		itemsQuery{UserID: server.UserID, Limit: similarArtistsLimit}, &resp)
	if err != nil {
		return nil, err
	}
	return sharedutil.MapSlice(resp.Items, func(it *item) mediaprovider.RelatedArtist {
		return mediaprovider.RelatedArtist{ID: it.ID, Name: it.Name, ImageURL: imageURL(server, it.ID, it.ImageTags["Primary"])}
	}), nil
}

func (c *Controller) GetAlbumArtistDetail(ctx context.Context, server *mediaprovider.Server, id string) (*mediaprovider.AlbumArtist, error) {
	var (
		ar      *item
		similar []mediaprovider.RelatedArtist
	)
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		it, err := c.getItem(ctx, server, "get album artist detail", id)
		ar = it
		return err
	})
	p.Go(func(ctx context.Context) error {
		s, err := c.similarArtists(ctx, server, id)
		if err != nil {
			log.Debug().Err(err).Str("artistId", id).Msg("similar artists unavailable")
			return nil
		}
		similar = s
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}
	aa := toAlbumArtist(server, ar)
	aa.SimilarArtists = similar
	return aa, nil
}

func (c *Controller) GetGenreList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.GenreListQuery) (*mediaprovider.ListResponse[mediaprovider.Genre], error) {
	q := itemsQuery{
		UserID:     server.UserID,
		ParentID:   parentID(server, query.MusicFolderID),
		SearchTerm: query.SearchTerm,
	}
	q.page(query.Paging)
	q.sort(genreListSorts[query.SortBy], query.SortOrder)
	resp, err := c.listItems(ctx, server, "get genre list", "/MusicGenres", nil, q, query.Custom)
	if err != nil {
		return nil, err
	}
	items := sharedutil.MapSlice(resp.Items, func(it *item) *mediaprovider.Genre { return toGenre(server, it) })
	return listResponse(items, query.Paging, resp), nil
}

func (c *Controller) GetGenreListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.GenreListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetGenreList)
}
