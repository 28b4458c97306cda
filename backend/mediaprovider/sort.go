package mediaprovider

type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

type AlbumListSort string

const (
	AlbumSortAlbumArtist     AlbumListSort = "albumArtist"
	AlbumSortArtist          AlbumListSort = "artist"
	AlbumSortCommunityRating AlbumListSort = "communityRating"
	AlbumSortCriticRating    AlbumListSort = "criticRating"
	AlbumSortDuration        AlbumListSort = "duration"
	AlbumSortFavorited       AlbumListSort = "favorited"
	AlbumSortID              AlbumListSort = "id"
	AlbumSortName            AlbumListSort = "name"
	AlbumSortPlayCount       AlbumListSort = "playCount"
	AlbumSortRandom          AlbumListSort = "random"
	AlbumSortRating          AlbumListSort = "rating"
	AlbumSortRecentlyAdded   AlbumListSort = "recentlyAdded"
	AlbumSortRecentlyPlayed  AlbumListSort = "recentlyPlayed"
	AlbumSortReleaseDate     AlbumListSort = "releaseDate"
	AlbumSortSongCount       AlbumListSort = "songCount"
	AlbumSortYear            AlbumListSort = "year"
)

type SongListSort string

const (
	SongSortAlbum          SongListSort = "album"
	SongSortAlbumArtist    SongListSort = "albumArtist"
	SongSortArtist         SongListSort = "artist"
	SongSortBPM            SongListSort = "bpm"
	SongSortChannels       SongListSort = "channels"
	SongSortComment        SongListSort = "comment"
	SongSortDuration       SongListSort = "duration"
	SongSortFavorited      SongListSort = "favorited"
	SongSortGenre          SongListSort = "genre"
	SongSortID             SongListSort = "id"
	SongSortName           SongListSort = "name"
	SongSortPlayCount      SongListSort = "playCount"
	SongSortRandom         SongListSort = "random"
	SongSortRating         SongListSort = "rating"
	SongSortRecentlyAdded  SongListSort = "recentlyAdded"
	SongSortRecentlyPlayed SongListSort = "recentlyPlayed"
	SongSortReleaseDate    SongListSort = "releaseDate"
	SongSortYear           SongListSort = "year"
)

type AlbumArtistListSort string

const (
	AlbumArtistSortAlbum         AlbumArtistListSort = "album"
	AlbumArtistSortAlbumCount    AlbumArtistListSort = "albumCount"
	AlbumArtistSortDuration      AlbumArtistListSort = "duration"
	AlbumArtistSortFavorited     AlbumArtistListSort = "favorited"
	AlbumArtistSortName          AlbumArtistListSort = "name"
	AlbumArtistSortPlayCount     AlbumArtistListSort = "playCount"
	AlbumArtistSortRandom        AlbumArtistListSort = "random"
	AlbumArtistSortRating        AlbumArtistListSort = "rating"
	AlbumArtistSortRecentlyAdded AlbumArtistListSort = "recentlyAdded"
	AlbumArtistSortReleaseDate   AlbumArtistListSort = "releaseDate"
	AlbumArtistSortSongCount     AlbumArtistListSort = "songCount"
)

type ArtistListSort string

const (
	ArtistSortAlbumCount ArtistListSort = "albumCount"
	ArtistSortFavorited  ArtistListSort = "favorited"
	ArtistSortName       ArtistListSort = "name"
	ArtistSortPlayCount  ArtistListSort = "playCount"
	ArtistSortRandom     ArtistListSort = "random"
	ArtistSortRating     ArtistListSort = "rating"
	ArtistSortSongCount  ArtistListSort = "songCount"
)

type GenreListSort string

const (
	GenreSortName GenreListSort = "name"
)

type PlaylistListSort string

const (
	PlaylistSortDuration  PlaylistListSort = "duration"
	PlaylistSortName      PlaylistListSort = "name"
	PlaylistSortOwner     PlaylistListSort = "owner"
	PlaylistSortPublic    PlaylistListSort = "public"
	PlaylistSortSongCount PlaylistListSort = "songCount"
	PlaylistSortUpdatedAt PlaylistListSort = "updatedAt"
)

type UserListSort string

const (
	UserSortName UserListSort = "name"
)
