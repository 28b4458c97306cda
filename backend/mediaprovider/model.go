package mediaprovider

import "time"

// ItemType identifies the kind of a normalized entity.
type ItemType string

const (
	ItemTypeSong        ItemType = "song"
	ItemTypeAlbum       ItemType = "album"
	ItemTypeAlbumArtist ItemType = "albumArtist"
	ItemTypeArtist      ItemType = "artist"
	ItemTypeGenre       ItemType = "genre"
	ItemTypePlaylist    ItemType = "playlist"
	ItemTypeUser        ItemType = "user"
	ItemTypeMusicFolder ItemType = "musicFolder"
	ItemTypeLabel       ItemType = "label"
)

// UnknownCount is reported as TotalRecordCount when the backend
// has no way of telling how many records match a query.
const UnknownCount = -1

type ListResponse[T any] struct {
	Items            []*T
	StartIndex       int
	TotalRecordCount int // UnknownCount if unsupported by the backend
}

// RelatedArtist is a weak reference to an artist embedded in a song or album.
type RelatedArtist struct {
	ID       string
	Name     string
	ImageURL string
}

type RelatedGenre struct {
	ID   string
	Name string
}

// ReplayGain info. Nil fields were not reported by the server.
type ReplayGain struct {
	AlbumGain *float64
	TrackGain *float64
	AlbumPeak *float64
	TrackPeak *float64
}

type Song struct {
	ItemType   ItemType
	ServerID   string
	ServerType ServerType

	ID           string
	Name         string
	Album        string
	AlbumID      string
	Artists      []RelatedArtist
	AlbumArtists []RelatedArtist
	Genres       []RelatedGenre
	Duration     time.Duration
	TrackNumber  int
	DiscNumber   int
	ReleaseYear  int
	ReleaseDate  string
	Favorite     bool
	UserRating   *int // 0-5, nil if unrated
	PlayCount    int
	LastPlayedAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Comment      string
	Path         string
	Size         int64
	BitRate      int
	Container    string
	ImageURL     string

	// Tags holds raw tag metadata keyed by lower-cased tag name.
	Tags         map[string][]string
	Participants map[string][]RelatedArtist
	Gain         ReplayGain

	// PlaylistItemID identifies this entry inside a playlist, when
	// the song was returned as part of a playlist listing.
	PlaylistItemID string
}

type Album struct {
	ItemType   ItemType
	ServerID   string
	ServerType ServerType

	ID            string
	Name          string
	AlbumArtist   string
	AlbumArtists  []RelatedArtist
	Artists       []RelatedArtist
	Genres        []RelatedGenre
	ReleaseYear   int
	ReleaseDate   string
	SongCount     int
	Duration      time.Duration
	IsCompilation bool
	Favorite      bool
	UserRating    *int
	PlayCount     int
	LastPlayedAt  time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Comment       string
	ImageURL      string
	MBID          string

	Tags         map[string][]string
	Participants map[string][]RelatedArtist

	// Songs is only populated by detail fetches.
	Songs []*Song
}

// AlbumArtist is an artist that has albums.
type AlbumArtist struct {
	ItemType   ItemType
	ServerID   string
	ServerType ServerType

	ID             string
	Name           string
	AlbumCount     int
	SongCount      int
	Duration       time.Duration
	Genres         []RelatedGenre
	Favorite       bool
	UserRating     *int
	PlayCount      int
	LastPlayedAt   time.Time
	Biography      string
	ImageURL       string
	MBID           string
	SimilarArtists []RelatedArtist
}

// Artist is an artist as a contributor, not necessarily owning any album.
type Artist struct {
	ItemType   ItemType
	ServerID   string
	ServerType ServerType

	ID         string
	Name       string
	AlbumCount int
	ImageURL   string
}

type Genre struct {
	ItemType   ItemType
	ServerID   string
	ServerType ServerType

	ID         string
	Name       string
	AlbumCount int // UnknownCount if unsupported
	SongCount  int // UnknownCount if unsupported
	ImageURL   string
}

type Playlist struct {
	ItemType   ItemType
	ServerID   string
	ServerType ServerType

	ID          string
	Name        string
	Description string
	Public      bool
	Owner       string
	OwnerID     string
	Duration    time.Duration
	SongCount   int
	Size        int64
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Rules is the smart playlist rule tree, if any.
	Rules map[string]any
	Sync  bool
}

type User struct {
	ItemType   ItemType
	ServerID   string
	ServerType ServerType

	ID          string
	Name        string
	Email       string
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt time.Time
}

type MusicFolder struct {
	ItemType   ItemType
	ServerID   string
	ServerType ServerType

	ID   string
	Name string
}

type Tag struct {
	Name   string
	Values []string
}

type Lyrics struct {
	Synced bool
	Lang   string
	Artist string
	Title  string
	Lines  []LyricLine
}

type LyricLine struct {
	Text  string
	Start time.Duration
}

type SearchResult struct {
	Albums       []*Album
	AlbumArtists []*AlbumArtist
	Songs        []*Song
}

type ShareResult struct {
	ID  string
	URL string
}

// AuthResult is what a successful login yields. It is stored in place
// of the password and copied onto the Server for subsequent requests.
type AuthResult struct {
	Username     string
	UserID       string
	Credential   string
	NDCredential string
}

type ServerInfo struct {
	ID       string
	Version  string
	Features Features
}
