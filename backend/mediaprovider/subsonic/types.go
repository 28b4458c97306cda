package subsonic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
)

// subsonicID accepts both string and numeric ids; older servers send numbers.
type subsonicID string

func (id *subsonicID) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		*id = subsonicID(v)
	case float64:
		*id = subsonicID(strconv.FormatInt(int64(v), 10))
	case nil:
		*id = ""
	default:
		return fmt.Errorf("cannot convert type %T to Subsonic ID", raw)
	}
	return nil
}

type envelope struct {
	Response *subsonicResponse `json:"subsonic-response"`
}

type subsonicResponse struct {
	Status        string         `json:"status"`
	Version       string         `json:"version"`
	Type          string         `json:"type"`
	ServerVersion string         `json:"serverVersion"`
	OpenSubsonic  bool           `json:"openSubsonic"`
	Error         *subsonicError `json:"error"`

	// Kept raw: some servers send {} here instead of [].
	OpenSubsonicExtensions json.RawMessage `json:"openSubsonicExtensions"`

	MusicFolders  *musicFolders     `json:"musicFolders"`
	Genres        *genres           `json:"genres"`
	Artists       *artistsID3       `json:"artists"`
	Artist        *artistWithAlbums `json:"artist"`
	ArtistInfo2   *artistInfo       `json:"artistInfo2"`
	Album         *album            `json:"album"`
	Song          *child            `json:"song"`
	AlbumList2    *albumList        `json:"albumList2"`
	RandomSongs   *songs            `json:"randomSongs"`
	SongsByGenre  *songs            `json:"songsByGenre"`
	SimilarSongs  *songs            `json:"similarSongs"`
	TopSongs      *songs            `json:"topSongs"`
	Starred2      *starred          `json:"starred2"`
	SearchResult3 *searchResult     `json:"searchResult3"`
	Playlists     *playlists        `json:"playlists"`
	Playlist      *playlist         `json:"playlist"`
	Users         *users            `json:"users"`
	Lyrics        *plainLyrics      `json:"lyrics"`
	LyricsList    *lyricsList       `json:"lyricsList"`
	Shares        *shares           `json:"shares"`
}

type subsonicError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *subsonicError) Error() string {
	return fmt.Sprintf("subsonic error %d: %s", e.Code, e.Message)
}

const errCodeNotFound = 70

func (e *subsonicError) Unwrap() error {
	if e.Code == errCodeNotFound {
		return mediaprovider.ErrNotFound
	}
	return nil
}

// extensions decodes openSubsonicExtensions. A missing field yields nil,
// anything that is present but not an array yields an empty list.
func (r *subsonicResponse) extensions() []mediaprovider.Extension {
	raw := bytes.TrimSpace(r.OpenSubsonicExtensions)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	exts := []mediaprovider.Extension{}
	if raw[0] != '[' {
		return exts
	}
	if err := json.Unmarshal(raw, &exts); err != nil {
		return []mediaprovider.Extension{}
	}
	return exts
}

type folderEntry struct {
	ID   subsonicID `json:"id"`
	Name string     `json:"name"`
}

type musicFolders struct {
	MusicFolder []folderEntry `json:"musicFolder"`
}

type genres struct {
	Genre []genre `json:"genre"`
}

type genre struct {
	Value      string `json:"value"`
	SongCount  int    `json:"songCount"`
	AlbumCount int    `json:"albumCount"`
}

type artistsID3 struct {
	Index []artistIndex `json:"index"`
}

type artistIndex struct {
	Name   string    `json:"name"`
	Artist []*artist `json:"artist"`
}

type artist struct {
	ID             subsonicID `json:"id"`
	Name           string     `json:"name"`
	CoverArt       string     `json:"coverArt"`
	ArtistImageURL string     `json:"artistImageUrl"`
	AlbumCount     int        `json:"albumCount"`
	Starred        *time.Time `json:"starred"`
	UserRating     int        `json:"userRating"`
	MusicBrainzID  string     `json:"musicBrainzId"`
	Roles          []string   `json:"roles"`
}

type artistWithAlbums struct {
	artist
	Album []*album `json:"album"`
}

type artistInfo struct {
	Biography      string    `json:"biography"`
	MusicBrainzID  string    `json:"musicBrainzId"`
	SmallImageURL  string    `json:"smallImageUrl"`
	MediumImageURL string    `json:"mediumImageUrl"`
	LargeImageURL  string    `json:"largeImageUrl"`
	SimilarArtist  []*artist `json:"similarArtist"`
}

type itemGenre struct {
	Name string `json:"name"`
}

type artistRef struct {
	ID   subsonicID `json:"id"`
	Name string     `json:"name"`
}

type contributor struct {
	Role    string    `json:"role"`
	SubRole string    `json:"subRole"`
	Artist  artistRef `json:"artist"`
}

type itemDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type replayGain struct {
	TrackGain *float64 `json:"trackGain"`
	AlbumGain *float64 `json:"albumGain"`
	TrackPeak *float64 `json:"trackPeak"`
	AlbumPeak *float64 `json:"albumPeak"`
}

type recordLabel struct {
	Name string `json:"name"`
}

type album struct {
	ID            subsonicID    `json:"id"`
	Name          string        `json:"name"`
	Artist        string        `json:"artist"`
	ArtistID      subsonicID    `json:"artistId"`
	CoverArt      string        `json:"coverArt"`
	SongCount     int           `json:"songCount"`
	Duration      int           `json:"duration"`
	PlayCount     int           `json:"playCount"`
	Created       *time.Time    `json:"created"`
	Starred       *time.Time    `json:"starred"`
	Played        *time.Time    `json:"played"`
	Year          int           `json:"year"`
	Genre         string        `json:"genre"`
	UserRating    int           `json:"userRating"`
	MusicBrainzID string        `json:"musicBrainzId"`
	Genres        []itemGenre   `json:"genres"`
	Artists       []artistRef   `json:"artists"`
	DisplayArtist string        `json:"displayArtist"`
	ReleaseDate   *itemDate     `json:"releaseDate"`
	IsCompilation bool          `json:"isCompilation"`
	RecordLabels  []recordLabel `json:"recordLabels"`
	Song          []*child      `json:"song"`
}

type child struct {
	ID            subsonicID    `json:"id"`
	Parent        string        `json:"parent"`
	Title         string        `json:"title"`
	Album         string        `json:"album"`
	Artist        string        `json:"artist"`
	Track         int           `json:"track"`
	Year          int           `json:"year"`
	Genre         string        `json:"genre"`
	CoverArt      string        `json:"coverArt"`
	Size          int64         `json:"size"`
	ContentType   string        `json:"contentType"`
	Suffix        string        `json:"suffix"`
	Duration      int           `json:"duration"`
	BitRate       int           `json:"bitRate"`
	Path          string        `json:"path"`
	PlayCount     int           `json:"playCount"`
	DiscNumber    int           `json:"discNumber"`
	Created       *time.Time    `json:"created"`
	Played        *time.Time    `json:"played"`
	Starred       *time.Time    `json:"starred"`
	AlbumID       subsonicID    `json:"albumId"`
	ArtistID      subsonicID    `json:"artistId"`
	UserRating    int           `json:"userRating"`
	Comment       string        `json:"comment"`
	BPM           int           `json:"bpm"`
	MusicBrainzID string        `json:"musicBrainzId"`
	Genres        []itemGenre   `json:"genres"`
	Artists       []artistRef   `json:"artists"`
	AlbumArtists  []artistRef   `json:"albumArtists"`
	DisplayArtist string        `json:"displayArtist"`
	Contributors  []contributor `json:"contributors"`
	ReplayGain    *replayGain   `json:"replayGain"`
}

type albumList struct {
	Album []*album `json:"album"`
}

type songs struct {
	Song []*child `json:"song"`
}

type starred struct {
	Artist []*artist `json:"artist"`
	Album  []*album  `json:"album"`
	Song   []*child  `json:"song"`
}

type searchResult struct {
	Artist []*artist `json:"artist"`
	Album  []*album  `json:"album"`
	Song   []*child  `json:"song"`
}

type playlists struct {
	Playlist []*playlist `json:"playlist"`
}

type playlist struct {
	ID        subsonicID `json:"id"`
	Name      string     `json:"name"`
	Comment   string     `json:"comment"`
	Owner     string     `json:"owner"`
	Public    bool       `json:"public"`
	SongCount int        `json:"songCount"`
	Duration  int        `json:"duration"`
	Created   *time.Time `json:"created"`
	Changed   *time.Time `json:"changed"`
	CoverArt  string     `json:"coverArt"`
	Entry     []*child   `json:"entry"`
}

type users struct {
	User []*user `json:"user"`
}

type user struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	AdminRole bool   `json:"adminRole"`
}

type plainLyrics struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
	Value  string `json:"value"`
}

type lyricsList struct {
	StructuredLyrics []structuredLyrics `json:"structuredLyrics"`
}

type structuredLyrics struct {
	Lang          string       `json:"lang"`
	Synced        bool         `json:"synced"`
	DisplayArtist string       `json:"displayArtist"`
	DisplayTitle  string       `json:"displayTitle"`
	Line          []lyricsLine `json:"line"`
}

type lyricsLine struct {
	Start *int64 `json:"start"`
	Value string `json:"value"`
}

type shares struct {
	Share []share `json:"share"`
}

type share struct {
	ID  subsonicID `json:"id"`
	URL string     `json:"url"`
}
