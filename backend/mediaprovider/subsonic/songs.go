package subsonic

import (
	"context"
	"slices"

	"github.com/sourcegraph/conc/pool"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/helpers"
	"github.com/dweymouth/sonicbridge/sharedutil"
)

// maxParallelFetches bounds fan-out requests such as fetching many albums.
const maxParallelFetches = 5

type songsByGenreRequest struct {
	Genre         string `url:"genre"`
	Count         int    `url:"count"`
	Offset        int    `url:"offset"`
	MusicFolderID string `url:"musicFolderId,omitempty"`
}

type randomSongsRequest struct {
	Size          int    `url:"size,omitempty"`
	Genre         string `url:"genre,omitempty"`
	FromYear      int    `url:"fromYear,omitempty"`
	ToYear        int    `url:"toYear,omitempty"`
	MusicFolderID string `url:"musicFolderId,omitempty"`
}

func (c *Controller) GetSongList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.SongListQuery) (*mediaprovider.ListResponse[mediaprovider.Song], error) {
	const op = "get song list"
	folder := musicFolder(server, query.MusicFolderID)

	// whole-list sources are filtered, sorted and paged here
	var whole []*mediaprovider.Song
	materialized := true
	switch {
	case query.Favorite != nil && *query.Favorite:
		st, err := c.getStarred(ctx, server, op, folder)
		if err != nil {
			return nil, err
		}
		whole = c.toSongs(server, st.Song)
	case len(query.AlbumIDs) > 0:
		albums, err := c.fetchAlbums(ctx, server, op, query.AlbumIDs)
		if err != nil {
			return nil, err
		}
		for _, al := range albums {
			whole = append(whole, c.toSongs(server, al.Song)...)
		}
	default:
		materialized = false
	}
	if materialized {
		if query.SearchTerm != "" {
			whole = sharedutil.FilterSlice(whole, func(s *mediaprovider.Song) bool {
				return helpers.MatchesSearch(s.Name, query.SearchTerm)
			})
		}
		if query.SortBy != "" {
			whole = helpers.SortSongs(whole, query.SortBy, query.SortOrder)
		}
		return helpers.Page(whole, query.Paging), nil
	}

	var chs []*child
	if len(query.GenreIDs) > 0 {
		resp, err := c.get(ctx, server, op, "getSongsByGenre", songsByGenreRequest{
			Genre:         query.GenreIDs[0],
			Count:         pageSize(query.Limit),
			Offset:        query.StartIndex,
			MusicFolderID: folder,
		})
		if err != nil {
			return nil, err
		}
		if resp.SongsByGenre != nil {
			chs = resp.SongsByGenre.Song
		}
	} else {
		// OpenSubsonic servers treat an empty query as "match everything"
		resp, err := c.get(ctx, server, op, "search3", search3Request{
			Query:         query.SearchTerm,
			SongCount:     pageSize(query.Limit),
			SongOffset:    query.StartIndex,
			MusicFolderID: folder,
		})
		if err != nil {
			return nil, err
		}
		if resp.SearchResult3 != nil {
			chs = resp.SearchResult3.Song
		}
	}
	return &mediaprovider.ListResponse[mediaprovider.Song]{
		Items:            c.toSongs(server, chs),
		StartIndex:       query.StartIndex,
		TotalRecordCount: mediaprovider.UnknownCount,
	}, nil
}

func (c *Controller) GetSongListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.SongListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetSongList)
}

func (c *Controller) GetSongDetail(ctx context.Context, server *mediaprovider.Server, id string) (*mediaprovider.Song, error) {
	const op = "get song detail"
	resp, err := c.get(ctx, server, op, "getSong", idRequest{ID: id})
	if err != nil {
		return nil, err
	}
	if resp.Song == nil {
		return nil, mediaprovider.OpError(op, 0, mediaprovider.ErrNotFound)
	}
	return c.toSong(server, resp.Song), nil
}

func (c *Controller) GetRandomSongList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.RandomSongListQuery) (*mediaprovider.ListResponse[mediaprovider.Song], error) {
	const op = "get random songs"
	if len(query.AlbumArtistIDs) > 0 {
		return c.randomSongsByArtists(ctx, server, op, query)
	}
	resp, err := c.get(ctx, server, op, "getRandomSongs", randomSongsRequest{
		Size:          query.Limit,
		Genre:         query.GenreID,
		FromYear:      query.MinYear,
		ToYear:        query.MaxYear,
		MusicFolderID: musicFolder(server, query.MusicFolderID),
	})
	if err != nil {
		return nil, err
	}
	var chs []*child
	if resp.RandomSongs != nil {
		chs = resp.RandomSongs.Song
	}
	items := c.toSongs(server, chs)
	return &mediaprovider.ListResponse[mediaprovider.Song]{
		Items:            items,
		TotalRecordCount: len(items),
	}, nil
}

// randomSongsByArtists has no protocol equivalent: it gathers every song
// of the artists' albums, shuffles them and takes the first query.Limit.
func (c *Controller) randomSongsByArtists(ctx context.Context, server *mediaprovider.Server, op string, query mediaprovider.RandomSongListQuery) (*mediaprovider.ListResponse[mediaprovider.Song], error) {
	var albumIDs []string
	for _, id := range query.AlbumArtistIDs {
		resp, err := c.get(ctx, server, op, "getArtist", idRequest{ID: id})
		if err != nil {
			return nil, err
		}
		if resp.Artist == nil {
			continue
		}
		for _, al := range resp.Artist.Album {
			albumIDs = append(albumIDs, string(al.ID))
		}
	}
	albums, err := c.fetchAlbums(ctx, server, op, albumIDs)
	if err != nil {
		return nil, err
	}
	var all []*mediaprovider.Song
	for _, al := range albums {
		for _, ch := range al.Song {
			s := c.toSong(server, ch)
			if query.GenreID != "" && !slices.ContainsFunc(s.Genres, func(g mediaprovider.RelatedGenre) bool {
				return g.ID == query.GenreID
			}) {
				continue
			}
			if (query.MinYear > 0 && s.ReleaseYear < query.MinYear) || (query.MaxYear > 0 && s.ReleaseYear > query.MaxYear) {
				continue
			}
			all = append(all, s)
		}
	}
	all = helpers.Shuffle(all)
	if query.Limit > 0 && len(all) > query.Limit {
		all = all[:query.Limit]
	}
	return &mediaprovider.ListResponse[mediaprovider.Song]{
		Items:            all,
		TotalRecordCount: len(all),
	}, nil
}

// fetchAlbums loads albums with their songs concurrently, preserving the order of ids.
func (c *Controller) fetchAlbums(ctx context.Context, server *mediaprovider.Server, op string, ids []string) ([]*album, error) {
	albums := make([]*album, len(ids))
	p := pool.New().WithMaxGoroutines(maxParallelFetches).WithErrors().WithFirstError().WithContext(ctx).WithCancelOnError()
	for i, id := range ids {
		p.Go(func(ctx context.Context) error {
			resp, err := c.get(ctx, server, op, "getAlbum", idRequest{ID: id})
			if err != nil {
				return err
			}
			albums[i] = resp.Album
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return sharedutil.FilterSlice(albums, func(al *album) bool { return al != nil }), nil
}
