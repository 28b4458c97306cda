package mediaprovider

import "context"

// ControllerEndpoint is the uniform operation contract every backend
// implements. Controllers are stateless: all server state comes in
// through the Server descriptor, and cancellation through ctx.
type ControllerEndpoint interface {
	Authenticate(ctx context.Context, url, username, password string, legacy bool) (*AuthResult, error)

	GetServerInfo(ctx context.Context, server *Server) (*ServerInfo, error)

	GetAlbumList(ctx context.Context, server *Server, query AlbumListQuery) (*ListResponse[Album], error)

	GetAlbumListCount(ctx context.Context, server *Server, query AlbumListQuery) (int, error)

	GetAlbumDetail(ctx context.Context, server *Server, id string) (*Album, error)

	GetSongList(ctx context.Context, server *Server, query SongListQuery) (*ListResponse[Song], error)

	GetSongListCount(ctx context.Context, server *Server, query SongListQuery) (int, error)

	GetSongDetail(ctx context.Context, server *Server, id string) (*Song, error)

	GetRandomSongList(ctx context.Context, server *Server, query RandomSongListQuery) (*ListResponse[Song], error)

	GetAlbumArtistList(ctx context.Context, server *Server, query AlbumArtistListQuery) (*ListResponse[AlbumArtist], error)

	GetAlbumArtistListCount(ctx context.Context, server *Server, query AlbumArtistListQuery) (int, error)

	GetAlbumArtistDetail(ctx context.Context, server *Server, id string) (*AlbumArtist, error)

	GetArtistList(ctx context.Context, server *Server, query ArtistListQuery) (*ListResponse[Artist], error)

	GetArtistListCount(ctx context.Context, server *Server, query ArtistListQuery) (int, error)

	GetGenreList(ctx context.Context, server *Server, query GenreListQuery) (*ListResponse[Genre], error)

	GetGenreListCount(ctx context.Context, server *Server, query GenreListQuery) (int, error)

	GetPlaylistList(ctx context.Context, server *Server, query PlaylistListQuery) (*ListResponse[Playlist], error)

	GetPlaylistListCount(ctx context.Context, server *Server, query PlaylistListQuery) (int, error)

	GetPlaylistDetail(ctx context.Context, server *Server, id string) (*Playlist, error)

	GetPlaylistSongList(ctx context.Context, server *Server, query PlaylistSongListQuery) (*ListResponse[Song], error)

	CreatePlaylist(ctx context.Context, server *Server, body PlaylistBody) (*Playlist, error)

	UpdatePlaylist(ctx context.Context, server *Server, id string, body PlaylistBody) error

	DeletePlaylist(ctx context.Context, server *Server, id string) error

	AddToPlaylist(ctx context.Context, server *Server, id string, songIDs []string) error

	// RemoveFromPlaylist removes entries by their PlaylistItemID.
	RemoveFromPlaylist(ctx context.Context, server *Server, id string, itemIDs []string) error

	MovePlaylistItem(ctx context.Context, server *Server, id string, itemID string, newIndex int) error

	GetUserList(ctx context.Context, server *Server, query UserListQuery) (*ListResponse[User], error)

	GetMusicFolderList(ctx context.Context, server *Server) (*ListResponse[MusicFolder], error)

	CreateFavorite(ctx context.Context, server *Server, query FavoriteQuery) error

	DeleteFavorite(ctx context.Context, server *Server, query FavoriteQuery) error

	SetRating(ctx context.Context, server *Server, query RatingQuery) error

	Scrobble(ctx context.Context, server *Server, query ScrobbleQuery) error

	Search(ctx context.Context, server *Server, query SearchQuery) (*SearchResult, error)

	GetLyrics(ctx context.Context, server *Server, song *Song) (*Lyrics, error)

	GetTags(ctx context.Context, server *Server, query TagListQuery) ([]Tag, error)

	GetTopSongs(ctx context.Context, server *Server, query TopSongsQuery) (*ListResponse[Song], error)

	GetSimilarSongs(ctx context.Context, server *Server, query SimilarSongsQuery) ([]*Song, error)

	ShareItem(ctx context.Context, server *Server, query ShareQuery) (*ShareResult, error)

	GetDownloadURL(server *Server, id string) string

	GetTranscodeURL(server *Server, query TranscodeQuery) string
}
