package subsonic

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dweymouth/sonicbridge/backend/apiclient"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/sharedutil"
)

type fakeSubsonic struct {
	*httptest.Server
	router chi.Router

	mu       sync.Mutex
	requests map[string][]url.Values
	methods  map[string]string
}

func newFakeSubsonic(t *testing.T) *fakeSubsonic {
	f := &fakeSubsonic{
		router:   chi.NewRouter(),
		requests: make(map[string][]url.Values),
		methods:  make(map[string]string),
	}
	f.Server = httptest.NewServer(f.router)
	t.Cleanup(f.Close)
	return f
}

// handle registers a REST method returning the given subsonic-response fields.
func (f *fakeSubsonic) handle(method, body string) {
	f.handleFunc(method, func(w http.ResponseWriter, _ url.Values) {
		writeOK(w, body)
	})
}

func (f *fakeSubsonic) handleFunc(method string, h func(http.ResponseWriter, url.Values)) {
	f.router.HandleFunc("/rest/"+method+".view", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		f.mu.Lock()
		f.requests[method] = append(f.requests[method], r.Form)
		f.methods[method] = r.Method
		f.mu.Unlock()
		h(w, r.Form)
	})
}

func (f *fakeSubsonic) lastRequest(method string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	reqs := f.requests[method]
	if len(reqs) == 0 {
		return nil
	}
	return reqs[len(reqs)-1]
}

func writeOK(w http.ResponseWriter, body string) {
	if body != "" {
		body = "," + body
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"subsonic-response":{"status":"ok","version":"1.16.1"%s}}`, body)
}

func newTestController() *Controller {
	return NewController(apiclient.New(apiclient.Options{}), "sonicbridge-test")
}

func testServer(f *fakeSubsonic) *mediaprovider.Server {
	return &mediaprovider.Server{
		ID:         "srv1",
		URL:        f.URL,
		Type:       mediaprovider.ServerTypeSubsonic,
		Username:   "alice",
		Credential: EncodeCredential("alice", "secret", false),
	}
}

func TestAuthenticateSaltedToken(t *testing.T) {
	f := newFakeSubsonic(t)
	f.handle("ping", "")

	res, err := newTestController().Authenticate(context.Background(), f.URL, "alice", "secret", false)
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Username)

	req := f.lastRequest("ping")
	require.NotNil(t, req)
	assert.Equal(t, "alice", req.Get("u"))
	assert.Equal(t, "json", req.Get("f"))
	assert.Equal(t, "sonicbridge-test", req.Get("c"))
	assert.Empty(t, req.Get("p"))
	sum := md5.Sum([]byte("secret" + req.Get("s")))
	assert.Equal(t, hex.EncodeToString(sum[:]), req.Get("t"))

	// the stored credential carries the same salt/token pair
	cred, err := url.ParseQuery(res.Credential)
	require.NoError(t, err)
	assert.Equal(t, req.Get("t"), cred.Get("t"))
}

func TestAuthenticateLegacy(t *testing.T) {
	f := newFakeSubsonic(t)
	f.handle("ping", "")

	_, err := newTestController().Authenticate(context.Background(), f.URL, "bob", "pw", true)
	require.NoError(t, err)
	assert.Equal(t, "enc:"+hex.EncodeToString([]byte("pw")), f.lastRequest("ping").Get("p"))
}

func TestAuthenticateFailure(t *testing.T) {
	f := newFakeSubsonic(t)
	f.router.HandleFunc("/rest/ping.view", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"subsonic-response":{"status":"failed","version":"1.16.1","error":{"code":40,"message":"Wrong username or password"}}}`)
	})

	_, err := newTestController().Authenticate(context.Background(), f.URL, "alice", "nope", false)
	var opErr *mediaprovider.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "authenticate", opErr.Op)
	assert.Contains(t, err.Error(), "Wrong username or password")
}

func TestGetServerInfoExtensions(t *testing.T) {
	f := newFakeSubsonic(t)
	f.handle("ping", `"openSubsonic":true,"type":"gonic","serverVersion":"0.16.4"`)
	f.handle("getOpenSubsonicExtensions", `"openSubsonicExtensions":[
		{"name":"songLyrics","versions":[1]},
		{"name":"formPost","versions":[1]},
		{"name":"somethingElse","versions":[3]}
	]`)

	info, err := newTestController().GetServerInfo(context.Background(), testServer(f))
	require.NoError(t, err)
	assert.Equal(t, "0.16.4", info.Version)
	assert.Equal(t, mediaprovider.Features{
		mediaprovider.FeatureLyricsMultipleStructured: {1},
		mediaprovider.FeatureFormPost:                 {1},
	}, info.Features)
}

func TestGetServerInfoMalformedExtensions(t *testing.T) {
	f := newFakeSubsonic(t)
	f.handle("ping", `"openSubsonic":true`)
	f.handle("getOpenSubsonicExtensions", `"openSubsonicExtensions":{}`)

	info, err := newTestController().GetServerInfo(context.Background(), testServer(f))
	require.NoError(t, err)
	assert.Equal(t, "1.16.1", info.Version)
	assert.Empty(t, info.Features)
}

func TestGetServerInfoPlainSubsonic(t *testing.T) {
	f := newFakeSubsonic(t)
	f.handle("ping", "")

	info, err := newTestController().GetServerInfo(context.Background(), testServer(f))
	require.NoError(t, err)
	assert.Empty(t, info.Features)
	assert.Nil(t, f.lastRequest("getOpenSubsonicExtensions"))
}

func TestFailureStatusNamesOperation(t *testing.T) {
	f := newFakeSubsonic(t)
	f.router.HandleFunc("/rest/getAlbum.view", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"subsonic-response":{"status":"failed","version":"1.16.1","error":{"code":70,"message":"Album not found"}}}`)
	})
	f.router.HandleFunc("/rest/getSong.view", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	c := newTestController()
	_, err := c.GetAlbumDetail(context.Background(), testServer(f), "al1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get album detail")
	assert.ErrorIs(t, err, mediaprovider.ErrNotFound)

	_, err = c.GetSongDetail(context.Background(), testServer(f), "s1")
	var opErr *mediaprovider.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, http.StatusBadGateway, opErr.Status)
	assert.Equal(t, "get song detail", opErr.Op)
}

func TestNotFoundStatusIsNotFound(t *testing.T) {
	f := newFakeSubsonic(t)
	f.router.HandleFunc("/rest/getAlbum.view", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := newTestController().GetAlbumDetail(context.Background(), testServer(f), "al1")
	assert.ErrorIs(t, err, mediaprovider.ErrNotFound)
	var opErr *mediaprovider.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, http.StatusNotFound, opErr.Status)
}

func TestCancelledRequestIsAborted(t *testing.T) {
	f := newFakeSubsonic(t)
	f.handle("getAlbum", `"album":{"id":"al1","name":"A"}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestController().GetAlbumDetail(ctx, testServer(f), "al1")
	assert.ErrorIs(t, err, mediaprovider.ErrAborted)
}

func TestGetAlbumListTypes(t *testing.T) {
	f := newFakeSubsonic(t)
	f.handle("getAlbumList2", `"albumList2":{"album":[{"id":"al1","name":"One","artist":"X","artistId":"ar1","coverArt":"al-1","songCount":3,"duration":600,"year":1999}]}`)
	c := newTestController()
	server := testServer(f)

	tests := []struct {
		name  string
		query mediaprovider.AlbumListQuery
		want  url.Values
	}{
		{
			name:  "recently added",
			query: mediaprovider.AlbumListQuery{SortBy: mediaprovider.AlbumSortRecentlyAdded, Paging: mediaprovider.Paging{StartIndex: 20, Limit: 10}},
			want:  url.Values{"type": {"newest"}, "size": {"10"}, "offset": {"20"}},
		},
		{
			name:  "unmapped sort uses default listing",
			query: mediaprovider.AlbumListQuery{SortBy: mediaprovider.AlbumSortDuration},
			want:  url.Values{"type": {"alphabeticalByName"}, "size": {"500"}, "offset": {"0"}},
		},
		{
			name:  "year descending",
			query: mediaprovider.AlbumListQuery{SortBy: mediaprovider.AlbumSortYear, SortOrder: mediaprovider.SortDesc},
			want:  url.Values{"type": {"byYear"}, "fromYear": {"9999"}, "toYear": {"0"}},
		},
		{
			name:  "genre filter",
			query: mediaprovider.AlbumListQuery{SortBy: mediaprovider.AlbumSortName, GenreIDs: []string{"Rock"}},
			want:  url.Values{"type": {"byGenre"}, "genre": {"Rock"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.GetAlbumList(context.Background(), server, tt.query)
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, mediaprovider.UnknownCount, resp.TotalRecordCount)

			req := f.lastRequest("getAlbumList2")
			for k, v := range tt.want {
				assert.Equal(t, v, req[k], k)
			}
		})
	}

	resp, err := c.GetAlbumList(context.Background(), server, mediaprovider.AlbumListQuery{})
	require.NoError(t, err)
	al := resp.Items[0]
	assert.Equal(t, mediaprovider.ItemTypeAlbum, al.ItemType)
	assert.Equal(t, mediaprovider.ServerTypeSubsonic, al.ServerType)
	assert.Equal(t, "srv1", al.ServerID)
	assert.Equal(t, []mediaprovider.RelatedArtist{{ID: "ar1", Name: "X"}}, al.AlbumArtists)
	assert.Equal(t, "1999", al.ReleaseDate)
	assert.Contains(t, al.ImageURL, "/rest/getCoverArt.view")
	assert.Contains(t, al.ImageURL, "id=al-1")
}

const artistsBody = `"artists":{"index":[
	{"name":"A","artist":[{"id":"1","name":"Abba","albumCount":4},{"id":"2","name":"aha","albumCount":1,"starred":"2023-01-01T00:00:00Z"}]},
	{"name":"B","artist":[{"id":"3","name":"Beck","albumCount":9}]},
	{"name":"#","artist":[{"id":"4","name":"10cc","albumCount":2}]}
]}`

func TestAlbumArtistListSortedPagedAndCounted(t *testing.T) {
	f := newFakeSubsonic(t)
	f.handle("getArtists", artistsBody)
	c := newTestController()
	server := testServer(f)

	query := mediaprovider.AlbumArtistListQuery{
		SortBy:    mediaprovider.AlbumArtistSortAlbumCount,
		SortOrder: mediaprovider.SortDesc,
		Paging:    mediaprovider.Paging{StartIndex: 1, Limit: 2},
	}
	resp, err := c.GetAlbumArtistList(context.Background(), server, query)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.TotalRecordCount)
	ids := sharedutil.MapSlice(resp.Items, func(a *mediaprovider.AlbumArtist) string { return a.ID })
	assert.Equal(t, []string{"1", "4"}, ids)

	count, err := c.GetAlbumArtistListCount(context.Background(), server, query)
	require.NoError(t, err)
	assert.Equal(t, resp.TotalRecordCount, count)

	fav := true
	resp, err = c.GetAlbumArtistList(context.Background(), server, mediaprovider.AlbumArtistListQuery{Favorite: &fav})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "aha", resp.Items[0].Name)
	assert.True(t, resp.Items[0].Favorite)
}

func TestGenreListCountMatchesList(t *testing.T) {
	f := newFakeSubsonic(t)
	f.handle("getGenres", `"genres":{"genre":[{"value":"Rock","songCount":10,"albumCount":2},{"value":"Jazz","songCount":3,"albumCount":1},{"value":"Post-Rock","songCount":1,"albumCount":1}]}`)
	c := newTestController()

	query := mediaprovider.GenreListQuery{SearchTerm: "rock", SortBy: mediaprovider.GenreSortName}
	list, err := c.GetGenreList(context.Background(), testServer(f), query.WithPage(0, 1))
	require.NoError(t, err)
	count, err := c.GetGenreListCount(context.Background(), testServer(f), query)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, list.TotalRecordCount, count)
	assert.Equal(t, "Post-Rock", list.Items[0].Name)
}

func TestAlbumArtistDetailPrefersExternalImage(t *testing.T) {
	f := newFakeSubsonic(t)
	f.handle("getArtist", `"artist":{"id":"1","name":"Abba","artistImageUrl":"http://native/abba.jpg","albumCount":1,"album":[{"id":"al1","name":"Gold","songCount":19,"duration":4500}]}`)
	f.handle("getArtistInfo2", `"artistInfo2":{"biography":"Swedish pop","smallImageUrl":"http://ext/s.jpg","mediumImageUrl":"http://ext/m.jpg","similarArtist":[{"id":"9","name":"Roxette"}]}`)

	aa, err := newTestController().GetAlbumArtistDetail(context.Background(), testServer(f), "1")
	require.NoError(t, err)
	assert.Equal(t, "http://ext/m.jpg", aa.ImageURL)
	assert.Equal(t, "Swedish pop", aa.Biography)
	assert.Equal(t, 19, aa.SongCount)
	assert.Equal(t, []mediaprovider.RelatedArtist{{ID: "9", Name: "Roxette"}}, aa.SimilarArtists)
}

func TestAlbumArtistDetailSurvivesInfoFailure(t *testing.T) {
	f := newFakeSubsonic(t)
	f.handle("getArtist", `"artist":{"id":"1","name":"Abba","artistImageUrl":"http://native/abba.jpg","albumCount":0}`)
	f.router.HandleFunc("/rest/getArtistInfo2.view", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	aa, err := newTestController().GetAlbumArtistDetail(context.Background(), testServer(f), "1")
	require.NoError(t, err)
	assert.Equal(t, "http://native/abba.jpg", aa.ImageURL)
	assert.Empty(t, aa.Biography)
}

func TestSimilarSongsFallsBackToArtistSongs(t *testing.T) {
	f := newFakeSubsonic(t)
	f.handle("getSimilarSongs", `"similarSongs":{"song":[{"id":"seed","title":"Seed"}]}`)
	f.handle("getArtist", `"artist":{"id":"ar1","name":"X","album":[{"id":"al1","name":"One"}]}`)
	f.handle("getAlbum", `"album":{"id":"al1","name":"One","song":[{"id":"seed","title":"Seed"},{"id":"s2","title":"Two"},{"id":"s3","title":"Three"}]}`)

	songs, err := newTestController().GetSimilarSongs(context.Background(), testServer(f), mediaprovider.SimilarSongsQuery{
		SongID:         "seed",
		AlbumArtistIDs: []string{"ar1"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s2", "s3"}, sharedutil.SongsToIDs(songs))
}

func TestPlaylistSongsAndMove(t *testing.T) {
	f := newFakeSubsonic(t)
	f.handle("getPlaylist", `"playlist":{"id":"pl1","name":"Mix","songCount":3,"entry":[{"id":"a","title":"A"},{"id":"b","title":"B"},{"id":"c","title":"C"}]}`)
	f.handle("createPlaylist", `"playlist":{"id":"pl1","name":"Mix"}`)
	c := newTestController()
	server := testServer(f)

	resp, err := c.GetPlaylistSongList(context.Background(), server, mediaprovider.PlaylistSongListQuery{ID: "pl1"})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalRecordCount)
	assert.Equal(t, "2", resp.Items[2].PlaylistItemID)

	require.NoError(t, c.MovePlaylistItem(context.Background(), server, "pl1", "0", 2))
	req := f.lastRequest("createPlaylist")
	assert.Equal(t, "pl1", req.Get("playlistId"))
	assert.Equal(t, []string{"b", "c", "a"}, req["songId"])
}

func TestFavoriteUsesTypedIDParam(t *testing.T) {
	f := newFakeSubsonic(t)
	f.handle("star", "")
	f.handle("unstar", "")
	c := newTestController()
	server := testServer(f)

	require.NoError(t, c.CreateFavorite(context.Background(), server, mediaprovider.FavoriteQuery{
		IDs:  []string{"al1", "al2"},
		Type: mediaprovider.ItemTypeAlbum,
	}))
	assert.Equal(t, []string{"al1", "al2"}, f.lastRequest("star")["albumId"])

	require.NoError(t, c.DeleteFavorite(context.Background(), server, mediaprovider.FavoriteQuery{
		IDs:  []string{"s1"},
		Type: mediaprovider.ItemTypeSong,
	}))
	assert.Equal(t, []string{"s1"}, f.lastRequest("unstar")["id"])
}

func TestFormPostFeatureSendsPost(t *testing.T) {
	f := newFakeSubsonic(t)
	f.handle("getGenres", `"genres":{"genre":[]}`)
	server := testServer(f)
	server.Features = mediaprovider.Features{mediaprovider.FeatureFormPost: {1}}

	_, err := newTestController().GetGenreList(context.Background(), server, mediaprovider.GenreListQuery{})
	require.NoError(t, err)
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, http.MethodPost, f.methods["getGenres"])
	assert.Equal(t, "alice", f.requests["getGenres"][0].Get("u"))
}

func TestStructuredLyricsPreferSynced(t *testing.T) {
	f := newFakeSubsonic(t)
	f.handle("getLyricsBySongId", `"lyricsList":{"structuredLyrics":[
		{"lang":"eng","synced":false,"line":[{"value":"plain"}]},
		{"lang":"eng","synced":true,"line":[{"start":1500,"value":"timed"}]}
	]}`)
	server := testServer(f)
	server.Features = mediaprovider.Features{mediaprovider.FeatureLyricsMultipleStructured: {1}}

	l, err := newTestController().GetLyrics(context.Background(), server, &mediaprovider.Song{ID: "s1"})
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.True(t, l.Synced)
	assert.Equal(t, "timed", l.Lines[0].Text)
	assert.Equal(t, int64(1500), l.Lines[0].Start.Milliseconds())
}

func TestStreamURLs(t *testing.T) {
	server := &mediaprovider.Server{URL: "http://music.local/", Credential: "u=alice&s=abc&t=def"}
	c := newTestController()

	u, err := url.Parse(c.GetTranscodeURL(server, mediaprovider.TranscodeQuery{ID: "s1", Format: "opus", BitRateKB: 128}))
	require.NoError(t, err)
	assert.Equal(t, "/rest/stream.view", u.Path)
	q := u.Query()
	assert.Equal(t, "s1", q.Get("id"))
	assert.Equal(t, "opus", q.Get("format"))
	assert.Equal(t, "128", q.Get("maxBitRate"))
	assert.Equal(t, "abc", q.Get("s"))
	assert.Empty(t, q.Get("f"))

	u, err = url.Parse(c.GetDownloadURL(server, "s2"))
	require.NoError(t, err)
	assert.Equal(t, "/rest/download.view", u.Path)
	assert.Equal(t, "s2", u.Query().Get("id"))
}
