package jellyfin

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/helpers"
)

const userItemsPath = "/Users/{userId}/Items"

// listItems runs an item query and returns the raw page.
func (c *Controller) listItems(ctx context.Context, server *mediaprovider.Server, op, path string, params map[string]string, q itemsQuery, custom mediaprovider.CustomFilter) (*itemsResponse, error) {
	if q.Fields == "" {
		q.Fields = itemFields
	}
	v, err := q.values(custom)
	if err != nil {
		return nil, mediaprovider.OpError(op, 0, err)
	}
	var resp itemsResponse
	if err := c.get(ctx, server, op, path, params, v, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func listResponse[T any](items []*T, page mediaprovider.Paging, resp *itemsResponse) *mediaprovider.ListResponse[T] {
	return &mediaprovider.ListResponse[T]{
		Items:            items,
		StartIndex:       page.StartIndex,
		TotalRecordCount: resp.TotalRecordCount,
	}
}

func (c *Controller) getItem(ctx context.Context, server *mediaprovider.Server, op, id string) (*item, error) {
	var it item
	err := c.get(ctx, server, op, "/Users/{userId}/Items/{id}", userParams(server, map[string]string{"id": id}), nil, &it)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *Controller) GetAlbumList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.AlbumListQuery) (*mediaprovider.ListResponse[mediaprovider.Album], error) {
	q := itemsQuery{
		IncludeItemTypes: itemTypeAlbum,
		Recursive:        true,
		ParentID:         parentID(server, query.MusicFolderID),
		SearchTerm:       query.SearchTerm,
		GenreIDs:         query.GenreIDs,
		ArtistIDs:        query.ArtistIDs,
		Years:            yearRange(query.MinYear, query.MaxYear),
		IsFavorite:       query.Favorite,
	}
	q.page(query.Paging)
	q.sort(albumListSorts[query.SortBy], query.SortOrder)
	resp, err := c.listItems(ctx, server, "get album list", userItemsPath, userParams(server, nil), q, query.Custom)
	if err != nil {
		return nil, err
	}
	return listResponse(toAlbums(server, resp.Items), query.Paging, resp), nil
}

func (c *Controller) GetAlbumListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.AlbumListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetAlbumList)
}

// albumSongs lists an album's songs in disc/track order.
func (c *Controller) albumSongs(ctx context.Context, server *mediaprovider.Server, op, albumID string) ([]*item, error) {
	resp, err := c.listItems(ctx, server, op, userItemsPath, userParams(server, nil), itemsQuery{
		IncludeItemTypes: itemTypeSong,
		Recursive:        true,
		ParentID:         albumID,
		SortBy:           "ParentIndexNumber,IndexNumber,SortName",
	}, nil)
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Controller) GetAlbumDetail(ctx context.Context, server *mediaprovider.Server, id string) (*mediaprovider.Album, error) {
	const op = "get album detail"
	var (
		album *item
		songs []*item
	)
	p := pool.New().WithErrors().WithFirstError().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		it, err := c.getItem(ctx, server, op, id)
		album = it
		return err
	})
	p.Go(func(ctx context.Context) error {
		s, err := c.albumSongs(ctx, server, op, id)
		songs = s
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}
	al := toAlbum(server, album)
	al.Songs = toSongs(server, songs)
	if al.Songs == nil {
		al.Songs = []*mediaprovider.Song{}
	}
	return al, nil
}
