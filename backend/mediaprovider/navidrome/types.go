package navidrome

import "time"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Username      string `json:"username"`
	IsAdmin       bool   `json:"isAdmin"`
	Token         string `json:"token"`
	SubsonicSalt  string `json:"subsonicSalt"`
	SubsonicToken string `json:"subsonicToken"`
}

type ndGenre struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AlbumCount *int   `json:"albumCount"`
	SongCount  *int   `json:"songCount"`
}

type ndParticipant struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	SubRole string `json:"subRole"`
}

type ndAlbum struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	Artist        string                     `json:"artist"`
	ArtistID      string                     `json:"artistId"`
	AlbumArtist   string                     `json:"albumArtist"`
	AlbumArtistID string                     `json:"albumArtistId"`
	MaxYear       int                        `json:"maxYear"`
	Date          string                     `json:"date"`
	ReleaseDate   string                     `json:"releaseDate"`
	Compilation   bool                       `json:"compilation"`
	SongCount     int                        `json:"songCount"`
	Duration      float64                    `json:"duration"`
	Genre         string                     `json:"genre"`
	Genres        []ndGenre                  `json:"genres"`
	Comment       string                     `json:"comment"`
	MBZAlbumID    string                     `json:"mbzAlbumId"`
	CreatedAt     *time.Time                 `json:"createdAt"`
	UpdatedAt     *time.Time                 `json:"updatedAt"`
	Starred       bool                       `json:"starred"`
	PlayCount     int                        `json:"playCount"`
	PlayDate      *time.Time                 `json:"playDate"`
	Rating        int                        `json:"rating"`
	Participants  map[string][]ndParticipant `json:"participants"`
	Tags          map[string][]string        `json:"tags"`
}

type ndSong struct {
	ID            string                     `json:"id"`
	Title         string                     `json:"title"`
	Album         string                     `json:"album"`
	AlbumID       string                     `json:"albumId"`
	Artist        string                     `json:"artist"`
	ArtistID      string                     `json:"artistId"`
	AlbumArtist   string                     `json:"albumArtist"`
	AlbumArtistID string                     `json:"albumArtistId"`
	TrackNumber   int                        `json:"trackNumber"`
	DiscNumber    int                        `json:"discNumber"`
	Year          int                        `json:"year"`
	Date          string                     `json:"date"`
	Duration      float64                    `json:"duration"`
	Size          int64                      `json:"size"`
	Suffix        string                     `json:"suffix"`
	BitRate       int                        `json:"bitRate"`
	Path          string                     `json:"path"`
	Genre         string                     `json:"genre"`
	Genres        []ndGenre                  `json:"genres"`
	Comment       string                     `json:"comment"`
	CreatedAt     *time.Time                 `json:"createdAt"`
	UpdatedAt     *time.Time                 `json:"updatedAt"`
	Starred       bool                       `json:"starred"`
	PlayCount     int                        `json:"playCount"`
	PlayDate      *time.Time                 `json:"playDate"`
	Rating        int                        `json:"rating"`
	RGAlbumGain   *float64                   `json:"rgAlbumGain"`
	RGAlbumPeak   *float64                   `json:"rgAlbumPeak"`
	RGTrackGain   *float64                   `json:"rgTrackGain"`
	RGTrackPeak   *float64                   `json:"rgTrackPeak"`
	Participants  map[string][]ndParticipant `json:"participants"`
	Tags          map[string][]string        `json:"tags"`

	// set on playlist track entries only
	MediaFileID string `json:"mediaFileId"`
	PlaylistID  string `json:"playlistId"`
}

type ndArtistStats struct {
	AlbumCount int `json:"albumCount"`
	SongCount  int `json:"songCount"`
}

type ndArtist struct {
	ID             string                   `json:"id"`
	Name           string                   `json:"name"`
	AlbumCount     int                      `json:"albumCount"`
	SongCount      int                      `json:"songCount"`
	Genres         []ndGenre                `json:"genres"`
	Biography      string                   `json:"biography"`
	SmallImageURL  string                   `json:"smallImageUrl"`
	MediumImageURL string                   `json:"mediumImageUrl"`
	LargeImageURL  string                   `json:"largeImageUrl"`
	MBZArtistID    string                   `json:"mbzArtistId"`
	Starred        bool                     `json:"starred"`
	PlayCount      int                      `json:"playCount"`
	PlayDate       *time.Time               `json:"playDate"`
	Rating         int                      `json:"rating"`
	Stats          map[string]ndArtistStats `json:"stats"`
}

type ndPlaylist struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Comment   string         `json:"comment"`
	Duration  float64        `json:"duration"`
	Size      int64          `json:"size"`
	SongCount int            `json:"songCount"`
	OwnerName string         `json:"ownerName"`
	OwnerID   string         `json:"ownerId"`
	Public    bool           `json:"public"`
	Sync      bool           `json:"sync"`
	Rules     map[string]any `json:"rules"`
	CreatedAt *time.Time     `json:"createdAt"`
	UpdatedAt *time.Time     `json:"updatedAt"`
}

type ndPlaylistBody struct {
	Name    string         `json:"name"`
	Comment string         `json:"comment"`
	Public  *bool          `json:"public,omitempty"`
	Rules   map[string]any `json:"rules,omitempty"`
	Sync    *bool          `json:"sync,omitempty"`
}

type ndUser struct {
	ID          string     `json:"id"`
	UserName    string     `json:"userName"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	IsAdmin     bool       `json:"isAdmin"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	CreatedAt   *time.Time `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

type ndTag struct {
	ID         string `json:"id"`
	TagName    string `json:"tagName"`
	TagValue   string `json:"tagValue"`
	AlbumCount int    `json:"albumCount"`
	SongCount  int    `json:"songCount"`
}

type ndShareBody struct {
	ResourceIDs  string     `json:"resourceIds"`
	ResourceType string     `json:"resourceType"`
	Description  string     `json:"description,omitempty"`
	Downloadable bool       `json:"downloadable"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

type idResponse struct {
	ID string `json:"id"`
}
