package mediaprovider

// Paging is the abstract pagination window shared by every list query.
type Paging struct {
	StartIndex int
	Limit      int // 0 == backend default (usually unlimited)
}

// Pager is implemented by list queries so generic helpers can
// derive a copy of the query with a different page window.
type Pager[Q any] interface {
	WithPage(startIndex, limit int) Q
}

type AlbumListQuery struct {
	Paging
	SortBy    AlbumListSort
	SortOrder SortOrder

	SearchTerm    string
	GenreIDs      []string
	ArtistIDs     []string
	MinYear       int // 0 == unset
	MaxYear       int // 0 == unset
	Favorite      *bool
	Compilation   *bool
	MusicFolderID string

	Custom CustomFilter
}

func (q AlbumListQuery) WithPage(startIndex, limit int) AlbumListQuery {
	q.StartIndex, q.Limit = startIndex, limit
	return q
}

type SongListQuery struct {
	Paging
	SortBy    SongListSort
	SortOrder SortOrder

	SearchTerm    string
	AlbumIDs      []string
	ArtistIDs     []string
	GenreIDs      []string
	MinYear       int
	MaxYear       int
	Favorite      *bool
	MusicFolderID string

	Custom CustomFilter
}

func (q SongListQuery) WithPage(startIndex, limit int) SongListQuery {
	q.StartIndex, q.Limit = startIndex, limit
	return q
}

type AlbumArtistListQuery struct {
	Paging
	SortBy    AlbumArtistListSort
	SortOrder SortOrder

	SearchTerm    string
	GenreIDs      []string
	Favorite      *bool
	MusicFolderID string

	Custom CustomFilter
}

func (q AlbumArtistListQuery) WithPage(startIndex, limit int) AlbumArtistListQuery {
	q.StartIndex, q.Limit = startIndex, limit
	return q
}

type ArtistListQuery struct {
	Paging
	SortBy    ArtistListSort
	SortOrder SortOrder

	SearchTerm    string
	Role          string // contributor role, only honored by tag-browse capable servers
	Favorite      *bool
	MusicFolderID string

	Custom CustomFilter
}

func (q ArtistListQuery) WithPage(startIndex, limit int) ArtistListQuery {
	q.StartIndex, q.Limit = startIndex, limit
	return q
}

type GenreListQuery struct {
	Paging
	SortBy    GenreListSort
	SortOrder SortOrder

	SearchTerm    string
	MusicFolderID string

	Custom CustomFilter
}

func (q GenreListQuery) WithPage(startIndex, limit int) GenreListQuery {
	q.StartIndex, q.Limit = startIndex, limit
	return q
}

type PlaylistListQuery struct {
	Paging
	SortBy    PlaylistListSort
	SortOrder SortOrder

	SearchTerm string

	Custom CustomFilter
}

func (q PlaylistListQuery) WithPage(startIndex, limit int) PlaylistListQuery {
	q.StartIndex, q.Limit = startIndex, limit
	return q
}

type UserListQuery struct {
	Paging
	SortBy    UserListSort
	SortOrder SortOrder

	SearchTerm string
}

func (q UserListQuery) WithPage(startIndex, limit int) UserListQuery {
	q.StartIndex, q.Limit = startIndex, limit
	return q
}

type PlaylistSongListQuery struct {
	Paging
	ID        string
	SortBy    SongListSort
	SortOrder SortOrder
}

func (q PlaylistSongListQuery) WithPage(startIndex, limit int) PlaylistSongListQuery {
	q.StartIndex, q.Limit = startIndex, limit
	return q
}

type RandomSongListQuery struct {
	Limit         int
	GenreID       string
	MinYear       int
	MaxYear       int
	MusicFolderID string
	// AlbumArtistIDs scopes the random selection to these album artists.
	// Only servers with a native filtering API honor it.
	AlbumArtistIDs []string
}

type SearchQuery struct {
	Query string

	AlbumLimit            int
	AlbumStartIndex       int
	AlbumArtistLimit      int
	AlbumArtistStartIndex int
	SongLimit             int
	SongStartIndex        int
	MusicFolderID         string
}

type SimilarSongsQuery struct {
	SongID         string
	AlbumArtistIDs []string
	Count          int
}

type TopSongsQuery struct {
	Artist   string
	ArtistID string
	Count    int
}

type PlaylistBody struct {
	Name        string
	Description string
	Public      bool

	Custom PlaylistCustom
}

type FavoriteQuery struct {
	IDs  []string
	Type ItemType
}

type RatingQuery struct {
	Items  []RatedItem
	Rating int // 0 clears the rating
}

type RatedItem struct {
	ID   string
	Type ItemType
}

type ScrobbleQuery struct {
	ID         string
	Submission bool  // false == "now playing"
	Position   int64 // milliseconds into the song
	Event      ScrobbleEvent
}

type ScrobbleEvent string

const (
	ScrobbleStart    ScrobbleEvent = "start"
	ScrobbleProgress ScrobbleEvent = "timeupdate"
	ScrobblePause    ScrobbleEvent = "pause"
	ScrobbleUnpause  ScrobbleEvent = "unpause"
)

type ShareQuery struct {
	ResourceIDs  []string
	ResourceType ItemType
	Description  string
	Downloadable bool
	ExpiresInMS  int64
}

type TranscodeQuery struct {
	ID        string
	Format    string
	BitRateKB int
}

type TagListQuery struct {
	Type ItemType
}
