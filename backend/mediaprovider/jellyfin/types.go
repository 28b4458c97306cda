package jellyfin

import (
	"bytes"
	"encoding/json"
	"time"
)

// jfTime accepts the timestamp shapes Jellyfin emits: RFC 3339 with or
// without a zone, and seven fractional digits. Unparseable values decode
// as the zero time rather than failing the whole response.
type jfTime struct {
	time.Time
}

var jfTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
}

func (t *jfTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	for _, layout := range jfTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

type nameID struct {
	Name string `json:"Name"`
	ID   string `json:"Id"`
}

type person struct {
	Name string `json:"Name"`
	ID   string `json:"Id"`
	Type string `json:"Type"`
	Role string `json:"Role"`
}

type userData struct {
	IsFavorite     bool   `json:"IsFavorite"`
	PlayCount      int    `json:"PlayCount"`
	LastPlayedDate jfTime `json:"LastPlayedDate"`
}

type mediaSource struct {
	Path      string `json:"Path"`
	Size      int64  `json:"Size"`
	Bitrate   int    `json:"Bitrate"`
	Container string `json:"Container"`
}

// item is the subset of BaseItemDto the controller reads.
type item struct {
	ID             string `json:"Id"`
	Name           string `json:"Name"`
	SortName       string `json:"SortName"`
	Type           string `json:"Type"`
	CollectionType string `json:"CollectionType"`
	Overview       string `json:"Overview"`
	Path           string `json:"Path"`
	Container      string `json:"Container"`

	Album        string   `json:"Album"`
	AlbumID      string   `json:"AlbumId"`
	AlbumArtist  string   `json:"AlbumArtist"`
	AlbumArtists []nameID `json:"AlbumArtists"`
	ArtistItems  []nameID `json:"ArtistItems"`
	GenreItems   []nameID `json:"GenreItems"`
	Genres       []string `json:"Genres"`
	Studios      []nameID `json:"Studios"`
	Tags         []string `json:"Tags"`
	People       []person `json:"People"`

	RunTimeTicks      int64    `json:"RunTimeTicks"`
	IndexNumber       int      `json:"IndexNumber"`
	ParentIndexNumber int      `json:"ParentIndexNumber"`
	ProductionYear    int      `json:"ProductionYear"`
	PremiereDate      jfTime   `json:"PremiereDate"`
	DateCreated       jfTime   `json:"DateCreated"`
	ChildCount        int      `json:"ChildCount"`
	SongCount         *int     `json:"SongCount"`
	AlbumCount        *int     `json:"AlbumCount"`
	NormalizationGain *float64 `json:"NormalizationGain"`

	ImageTags            map[string]string `json:"ImageTags"`
	AlbumPrimaryImageTag string            `json:"AlbumPrimaryImageTag"`
	ProviderIDs          map[string]string `json:"ProviderIds"`
	UserData             userData          `json:"UserData"`
	MediaSources         []mediaSource     `json:"MediaSources"`

	// PlaylistItemID is set on items listed through a playlist.
	PlaylistItemID string `json:"PlaylistItemId"`
}

type itemsResponse struct {
	Items            []*item `json:"Items"`
	TotalRecordCount int     `json:"TotalRecordCount"`
	StartIndex       int     `json:"StartIndex"`
}

type userPolicy struct {
	IsAdministrator bool `json:"IsAdministrator"`
}

type user struct {
	ID            string     `json:"Id"`
	Name          string     `json:"Name"`
	LastLoginDate jfTime     `json:"LastLoginDate"`
	Policy        userPolicy `json:"Policy"`
}

type authRequest struct {
	Username string `json:"Username"`
	Pw       string `json:"Pw"`
}

type authResponse struct {
	User        user   `json:"User"`
	AccessToken string `json:"AccessToken"`
	ServerID    string `json:"ServerId"`
}

type systemInfo struct {
	ID         string `json:"Id"`
	ServerName string `json:"ServerName"`
	Version    string `json:"Version"`
}

type createPlaylistRequest struct {
	Name      string   `json:"Name"`
	IDs       []string `json:"Ids"`
	UserID    string   `json:"UserId"`
	MediaType string   `json:"MediaType"`
	IsPublic  *bool    `json:"IsPublic,omitempty"`
}

type updatePlaylistRequest struct {
	IsPublic bool `json:"IsPublic"`
}

type idResponse struct {
	ID string `json:"Id"`
}

type playbackReport struct {
	ItemID        string `json:"ItemId"`
	PositionTicks int64  `json:"PositionTicks"`
	IsPaused      bool   `json:"IsPaused"`
	EventName     string `json:"EventName,omitempty"`
}

type lyricLine struct {
	Text  string `json:"Text"`
	Start int64  `json:"Start"`
}

type lyricsResponse struct {
	Metadata struct {
		Artist   string `json:"Artist"`
		Title    string `json:"Title"`
		IsSynced bool   `json:"IsSynced"`
	} `json:"Metadata"`
	Lyrics []lyricLine `json:"Lyrics"`
}

type filtersResponse struct {
	Genres []string `json:"Genres"`
	Tags   []string `json:"Tags"`
}

// playlistInfo is the playlist settings document served from 10.9 on.
type playlistInfo struct {
	OpenAccess bool `json:"OpenAccess"`
}
