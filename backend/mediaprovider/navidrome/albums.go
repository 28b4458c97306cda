package navidrome

import (
	"context"
	"net/url"

	"github.com/sourcegraph/conc/pool"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/helpers"
	"github.com/dweymouth/sonicbridge/sharedutil"
)

func libraryID(server *mediaprovider.Server, queryFolder string) string {
	return sharedutil.FirstNonEmpty(queryFolder, server.MusicFolderID)
}

func (c *Controller) GetAlbumList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.AlbumListQuery) (*mediaprovider.ListResponse[mediaprovider.Album], error) {
	const op = "get album list"
	params, err := withFilter(listValues(query.Paging, albumListSorts[query.SortBy], query.SortOrder), albumFilter{
		Name:        query.SearchTerm,
		GenreID:     query.GenreIDs,
		ArtistID:    query.ArtistIDs,
		Starred:     query.Favorite,
		Compilation: query.Compilation,
		Year:        yearFilter(query.MinYear, query.MaxYear),
		LibraryID:   libraryID(server, query.MusicFolderID),
		Missing:     missingFilter(server),
	}, query.Custom)
	if err != nil {
		return nil, mediaprovider.OpError(op, 0, err)
	}
	var albums []*ndAlbum
	resp, err := c.get(ctx, server, op, "/api/album", nil, params, &albums)
	if err != nil {
		return nil, err
	}
	return listResponse(c.toAlbums(server, albums), query.Paging, resp), nil
}

func (c *Controller) GetAlbumListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.AlbumListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetAlbumList)
}

// albumSongs lists an album's songs in disc/track order.
func (c *Controller) albumSongs(ctx context.Context, server *mediaprovider.Server, op, albumID string) ([]*ndSong, error) {
	params := url.Values{
		"album_id": {albumID},
		"_sort":    {"album"},
		"_order":   {"ASC"},
		"_start":   {"0"},
	}
	var songs []*ndSong
	if _, err := c.get(ctx, server, op, "/api/song", nil, params, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

func (c *Controller) GetAlbumDetail(ctx context.Context, server *mediaprovider.Server, id string) (*mediaprovider.Album, error) {
	const op = "get album detail"
	var (
		album ndAlbum
		songs []*ndSong
	)
	p := pool.New().WithErrors().WithFirstError().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		_, err := c.get(ctx, server, op, "/api/album/{id}", map[string]string{"id": id}, nil, &album)
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
	al := c.toAlbum(server, &album)
	al.Songs = c.toSongs(server, songs)
	if al.Songs == nil {
		al.Songs = []*mediaprovider.Song{}
	}
	return al, nil
}
