package subsonic

import (
	"context"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/helpers"
	"github.com/dweymouth/sonicbridge/sharedutil"
)

// maxPageSize is the largest page most Subsonic servers will return.
const maxPageSize = 500

const maxYear = 9999

type albumListRequest struct {
	Type          albumListType `url:"type"`
	Size          int           `url:"size"`
	Offset        int           `url:"offset"`
	FromYear      *int          `url:"fromYear,omitempty"`
	ToYear        *int          `url:"toYear,omitempty"`
	Genre         string        `url:"genre,omitempty"`
	MusicFolderID string        `url:"musicFolderId,omitempty"`
}

type search3Request struct {
	Query         string `url:"query"`
	ArtistCount   int    `url:"artistCount"`
	ArtistOffset  int    `url:"artistOffset"`
	AlbumCount    int    `url:"albumCount"`
	AlbumOffset   int    `url:"albumOffset"`
	SongCount     int    `url:"songCount"`
	SongOffset    int    `url:"songOffset"`
	MusicFolderID string `url:"musicFolderId,omitempty"`
}

func pageSize(limit int) int {
	if limit <= 0 || limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func musicFolder(server *mediaprovider.Server, queryFolder string) string {
	return sharedutil.FirstNonEmpty(queryFolder, server.MusicFolderID)
}

// yearRange returns the byYear bounds. Subsonic lists in reverse when
// fromYear > toYear, which is how descending order is expressed.
func yearRange(minYear, maxYr int, order mediaprovider.SortOrder) (from, to int) {
	from, to = minYear, maxYr
	if to == 0 {
		to = maxYear
	}
	if order == mediaprovider.SortDesc {
		from, to = to, from
	}
	return from, to
}

func (c *Controller) GetAlbumList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.AlbumListQuery) (*mediaprovider.ListResponse[mediaprovider.Album], error) {
	const op = "get album list"
	folder := musicFolder(server, query.MusicFolderID)

	if query.SearchTerm != "" {
		resp, err := c.get(ctx, server, op, "search3", search3Request{
			Query:         query.SearchTerm,
			AlbumCount:    pageSize(query.Limit),
			AlbumOffset:   query.StartIndex,
			MusicFolderID: folder,
		})
		if err != nil {
			return nil, err
		}
		var albums []*album
		if resp.SearchResult3 != nil {
			albums = resp.SearchResult3.Album
		}
		return &mediaprovider.ListResponse[mediaprovider.Album]{
			Items:            c.toAlbums(server, albums),
			StartIndex:       query.StartIndex,
			TotalRecordCount: mediaprovider.UnknownCount,
		}, nil
	}

	if query.Favorite != nil && *query.Favorite {
		st, err := c.getStarred(ctx, server, op, folder)
		if err != nil {
			return nil, err
		}
		albums := helpers.SortAlbums(c.toAlbums(server, st.Album), query.SortBy, query.SortOrder)
		return helpers.Page(albums, query.Paging), nil
	}

	req := albumListRequest{
		Type:          albumListTypeFor(query.SortBy),
		Size:          pageSize(query.Limit),
		Offset:        query.StartIndex,
		MusicFolderID: folder,
	}
	switch {
	case len(query.GenreIDs) > 0:
		req.Type = albumListByGenre
		req.Genre = query.GenreIDs[0]
	case query.MinYear > 0 || query.MaxYear > 0 || req.Type == albumListByYear:
		from, to := yearRange(query.MinYear, query.MaxYear, query.SortOrder)
		req.Type = albumListByYear
		req.FromYear, req.ToYear = &from, &to
	}

	resp, err := c.get(ctx, server, op, "getAlbumList2", req)
	if err != nil {
		return nil, err
	}
	var albums []*album
	if resp.AlbumList2 != nil {
		albums = resp.AlbumList2.Album
	}
	return &mediaprovider.ListResponse[mediaprovider.Album]{
		Items:            c.toAlbums(server, albums),
		StartIndex:       query.StartIndex,
		TotalRecordCount: mediaprovider.UnknownCount,
	}, nil
}

func (c *Controller) GetAlbumListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.AlbumListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetAlbumList)
}

func (c *Controller) GetAlbumDetail(ctx context.Context, server *mediaprovider.Server, id string) (*mediaprovider.Album, error) {
	const op = "get album detail"
	resp, err := c.get(ctx, server, op, "getAlbum", idRequest{ID: id})
	if err != nil {
		return nil, err
	}
	if resp.Album == nil {
		return nil, mediaprovider.OpError(op, 0, mediaprovider.ErrNotFound)
	}
	al := c.toAlbum(server, resp.Album)
	if al.Songs == nil {
		al.Songs = []*mediaprovider.Song{}
	}
	return al, nil
}

type idRequest struct {
	ID string `url:"id"`
}

func (c *Controller) getStarred(ctx context.Context, server *mediaprovider.Server, op, folder string) (*starred, error) {
	resp, err := c.get(ctx, server, op, "getStarred2", musicFolderRequest{MusicFolderID: folder})
	if err != nil {
		return nil, err
	}
	if resp.Starred2 == nil {
		return &starred{}, nil
	}
	return resp.Starred2, nil
}

type musicFolderRequest struct {
	MusicFolderID string `url:"musicFolderId,omitempty"`
}
