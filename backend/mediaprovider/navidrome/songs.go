package navidrome

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/helpers"
)

func (c *Controller) GetSongList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.SongListQuery) (*mediaprovider.ListResponse[mediaprovider.Song], error) {
	const op = "get song list"
	params, err := withFilter(listValues(query.Paging, songListSorts[query.SortBy], query.SortOrder), songFilter{
		Title:     query.SearchTerm,
		AlbumID:   query.AlbumIDs,
		ArtistID:  query.ArtistIDs,
		GenreID:   query.GenreIDs,
		Starred:   query.Favorite,
		Year:      yearFilter(query.MinYear, query.MaxYear),
		LibraryID: libraryID(server, query.MusicFolderID),
		Missing:   missingFilter(server),
	}, query.Custom)
	if err != nil {
		return nil, mediaprovider.OpError(op, 0, err)
	}
	var songs []*ndSong
	resp, err := c.get(ctx, server, op, "/api/song", nil, params, &songs)
	if err != nil {
		return nil, err
	}
	return listResponse(c.toSongs(server, songs), query.Paging, resp), nil
}

func (c *Controller) GetSongListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.SongListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetSongList)
}

func (c *Controller) GetSongDetail(ctx context.Context, server *mediaprovider.Server, id string) (*mediaprovider.Song, error) {
	var song ndSong
	if _, err := c.get(ctx, server, "get song detail", "/api/song/{id}", map[string]string{"id": id}, nil, &song); err != nil {
		return nil, err
	}
	return c.toSong(server, &song), nil
}

// GetRandomSongList uses the native random sort, which unlike the Subsonic
// call can be scoped to album artists.
func (c *Controller) GetRandomSongList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.RandomSongListQuery) (*mediaprovider.ListResponse[mediaprovider.Song], error) {
	const op = "get random songs"
	params := url.Values{"_sort": {"random"}, "_start": {"0"}}
	if query.Limit > 0 {
		params.Set("_end", strconv.Itoa(query.Limit))
	}
	var genres []string
	if query.GenreID != "" {
		genres = []string{query.GenreID}
	}
	params, err := withFilter(params, songFilter{
		AlbumArtistID: query.AlbumArtistIDs,
		GenreID:       genres,
		Year:          yearFilter(query.MinYear, query.MaxYear),
		LibraryID:     libraryID(server, query.MusicFolderID),
		Missing:       missingFilter(server),
	}, nil)
	if err != nil {
		return nil, mediaprovider.OpError(op, 0, err)
	}
	var songs []*ndSong
	if _, err := c.get(ctx, server, op, "/api/song", nil, params, &songs); err != nil {
		return nil, err
	}
	items := c.toSongs(server, songs)
	return &mediaprovider.ListResponse[mediaprovider.Song]{
		Items:            items,
		TotalRecordCount: len(items),
	}, nil
}
