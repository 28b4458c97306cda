package jellyfin

import (
	"context"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/helpers"
)

func (c *Controller) GetSongList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.SongListQuery) (*mediaprovider.ListResponse[mediaprovider.Song], error) {
	q := itemsQuery{
		IncludeItemTypes: itemTypeSong,
		Recursive:        true,
		ParentID:         parentID(server, query.MusicFolderID),
		SearchTerm:       query.SearchTerm,
		AlbumIDs:         query.AlbumIDs,
		ArtistIDs:        query.ArtistIDs,
		GenreIDs:         query.GenreIDs,
		Years:            yearRange(query.MinYear, query.MaxYear),
		IsFavorite:       query.Favorite,
	}
	q.page(query.Paging)
	q.sort(songListSorts[query.SortBy], query.SortOrder)
	resp, err := c.listItems(ctx, server, "get song list", userItemsPath, userParams(server, nil), q, query.Custom)
	if err != nil {
		return nil, err
	}
	return listResponse(toSongs(server, resp.Items), query.Paging, resp), nil
}

func (c *Controller) GetSongListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.SongListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetSongList)
}

func (c *Controller) GetSongDetail(ctx context.Context, server *mediaprovider.Server, id string) (*mediaprovider.Song, error) {
	it, err := c.getItem(ctx, server, "get song detail", id)
	if err != nil {
		return nil, err
	}
	return toSong(server, it), nil
}

func (c *Controller) GetRandomSongList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.RandomSongListQuery) (*mediaprovider.ListResponse[mediaprovider.Song], error) {
	q := itemsQuery{
		IncludeItemTypes: itemTypeSong,
		Recursive:        true,
		ParentID:         parentID(server, query.MusicFolderID),
		Limit:            query.Limit,
		SortBy:           "Random",
		AlbumArtistIDs:   query.AlbumArtistIDs,
		Years:            yearRange(query.MinYear, query.MaxYear),
	}
	if query.GenreID != "" {
		q.GenreIDs = []string{query.GenreID}
	}
	resp, err := c.listItems(ctx, server, "get random songs", userItemsPath, userParams(server, nil), q, nil)
	if err != nil {
		return nil, err
	}
	items := toSongs(server, resp.Items)
	return &mediaprovider.ListResponse[mediaprovider.Song]{
		Items:            items,
		TotalRecordCount: len(items),
	}, nil
}
