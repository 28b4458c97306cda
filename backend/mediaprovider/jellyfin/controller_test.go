package jellyfin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dweymouth/sonicbridge/backend/apiclient"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/sharedutil"
)

type recorded struct {
	query  url.Values
	header http.Header
	body   []byte
}

type fakeJellyfin struct {
	*httptest.Server
	router chi.Router

	mu   sync.Mutex
	reqs map[string]recorded
	hits map[string]int
}

func newFakeJellyfin(t *testing.T) *fakeJellyfin {
	f := &fakeJellyfin{router: chi.NewRouter(), reqs: make(map[string]recorded), hits: make(map[string]int)}
	f.router.Use(f.record)
	f.Server = httptest.NewServer(f.router)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeJellyfin) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		key := r.Method + " " + r.URL.Path
		f.mu.Lock()
		f.reqs[key] = recorded{query: r.URL.Query(), header: r.Header.Clone(), body: body}
		f.hits[key]++
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *fakeJellyfin) last(t *testing.T, key string) recorded {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reqs[key]
	require.True(t, ok, "no request for %s", key)
	return r
}

func (f *fakeJellyfin) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func (f *fakeJellyfin) json(method, path, body string) {
	f.router.MethodFunc(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	})
}

func (f *fakeJellyfin) status(method, path string, code int) {
	f.router.MethodFunc(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	})
}

func newTestController() *Controller {
	return NewController(apiclient.New(apiclient.Options{}), "sonicbridge-test", "1.0.0", "dev-1")
}

func testServer(f *fakeJellyfin, version string) *mediaprovider.Server {
	return &mediaprovider.Server{
		ID:         "jf1",
		URL:        f.URL,
		Type:       mediaprovider.ServerTypeJellyfin,
		Username:   "alice",
		UserID:     "u1",
		Credential: "tok",
		Version:    version,
		Features:   VersionTable.Resolve(version),
	}
}

const albumItems = `{"TotalRecordCount":120,"StartIndex":40,"Items":[{"Id":"al1","Name":"OK Computer","Type":"MusicAlbum",
	"AlbumArtist":"Radiohead","AlbumArtists":[{"Id":"ar1","Name":"Radiohead"}],"ProductionYear":1997,
	"PremiereDate":"1997-05-21T00:00:00.0000000Z","ChildCount":12,"RunTimeTicks":32010000000,
	"Studios":[{"Id":"st1","Name":"Parlophone"}],"ImageTags":{"Primary":"abc"},"UserData":{"IsFavorite":true,"PlayCount":3}}]}`

func TestAuthenticate(t *testing.T) {
	f := newFakeJellyfin(t)
	f.json(http.MethodPost, "/Users/AuthenticateByName", `{"AccessToken":"tok","ServerId":"srv","User":{"Id":"u1","Name":"alice"}}`)

	res, err := newTestController().Authenticate(context.Background(), f.URL, "alice", "secret", false)
	require.NoError(t, err)
	assert.Equal(t, &mediaprovider.AuthResult{Username: "alice", UserID: "u1", Credential: "tok"}, res)

	req := f.last(t, "POST /Users/AuthenticateByName")
	auth := req.header.Get("Authorization")
	assert.True(t, strings.HasPrefix(auth, "MediaBrowser "))
	assert.Contains(t, auth, `Client="sonicbridge-test"`)
	assert.Contains(t, auth, `DeviceId="dev-1"`)
	assert.Contains(t, auth, `Version="1.0.0"`)
	assert.NotContains(t, auth, "Token=")

	var sent authRequest
	require.NoError(t, json.Unmarshal(req.body, &sent))
	assert.Equal(t, authRequest{Username: "alice", Pw: "secret"}, sent)
}

func TestAuthenticateFailure(t *testing.T) {
	f := newFakeJellyfin(t)
	f.status(http.MethodPost, "/Users/AuthenticateByName", http.StatusUnauthorized)

	_, err := newTestController().Authenticate(context.Background(), f.URL, "alice", "nope", false)
	var opErr *mediaprovider.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "authenticate", opErr.Op)
	assert.Equal(t, http.StatusUnauthorized, opErr.Status)
}

func TestGeneratedDeviceID(t *testing.T) {
	c := NewController(apiclient.New(apiclient.Options{}), "sonicbridge", "1.0.0", "")
	_, err := uuid.Parse(c.DeviceID())
	assert.NoError(t, err)
	assert.NotEqual(t, c.DeviceID(), NewController(nil, "sonicbridge", "1.0.0", "").DeviceID())
}

func TestGetServerInfoFeatures(t *testing.T) {
	for _, tt := range []struct {
		version string
		want    mediaprovider.Features
	}{
		{"10.8.13", mediaprovider.Features{mediaprovider.FeatureTags: {1}}},
		{"10.9.11", mediaprovider.Features{
			mediaprovider.FeatureTags:                   {1},
			mediaprovider.FeatureLyricsSingleStructured: {1},
			mediaprovider.FeaturePublicPlaylist:         {1},
		}},
		{"", mediaprovider.Features{}},
	} {
		t.Run(tt.version, func(t *testing.T) {
			f := newFakeJellyfin(t)
			f.json(http.MethodGet, "/System/Info", fmt.Sprintf(`{"Id":"srv","ServerName":"home","Version":%q}`, tt.version))

			info, err := newTestController().GetServerInfo(context.Background(), testServer(f, ""))
			require.NoError(t, err)
			assert.Equal(t, "jf1", info.ID)
			assert.Equal(t, tt.version, info.Version)
			assert.Equal(t, tt.want, info.Features)
			assert.Contains(t, f.last(t, "GET /System/Info").header.Get("Authorization"), `Token="tok"`)
		})
	}
}

func TestAlbumListQuery(t *testing.T) {
	f := newFakeJellyfin(t)
	f.json(http.MethodGet, "/Users/{userId}/Items", albumItems)
	server := testServer(f, "10.9.0")
	server.MusicFolderID = "lib1"
	fav := true

	resp, err := newTestController().GetAlbumList(context.Background(), server, mediaprovider.AlbumListQuery{
		Paging:    mediaprovider.Paging{StartIndex: 40, Limit: 20},
		SortBy:    mediaprovider.AlbumSortYear,
		SortOrder: mediaprovider.SortDesc,
		GenreIDs:  []string{"g1", "g2"},
		MinYear:   1999,
		MaxYear:   2001,
		Favorite:  &fav,
	})
	require.NoError(t, err)
	assert.Equal(t, 120, resp.TotalRecordCount)
	assert.Equal(t, 40, resp.StartIndex)

	q := f.last(t, "GET /Users/u1/Items").query
	assert.Equal(t, "MusicAlbum", q.Get("IncludeItemTypes"))
	assert.Equal(t, "true", q.Get("Recursive"))
	assert.Equal(t, "lib1", q.Get("ParentId"))
	assert.Equal(t, "40", q.Get("StartIndex"))
	assert.Equal(t, "20", q.Get("Limit"))
	assert.Equal(t, "ProductionYear,PremiereDate,SortName", q.Get("SortBy"))
	assert.Equal(t, "Descending", q.Get("SortOrder"))
	assert.Equal(t, "g1|g2", q.Get("GenreIds"))
	assert.Equal(t, "1999,2000,2001", q.Get("Years"))
	assert.Equal(t, "true", q.Get("IsFavorite"))
	assert.NotEmpty(t, q.Get("Fields"))

	require.Len(t, resp.Items, 1)
	al := resp.Items[0]
	assert.Equal(t, mediaprovider.ServerTypeJellyfin, al.ServerType)
	assert.Equal(t, "1997-05-21", al.ReleaseDate)
	assert.Equal(t, 12, al.SongCount)
	assert.Equal(t, 53*time.Minute+21*time.Second, al.Duration)
	assert.True(t, al.Favorite)
	assert.Equal(t, []string{"Parlophone"}, al.Tags["label"])
	assert.Equal(t, []mediaprovider.RelatedArtist{{ID: "ar1", Name: "Radiohead"}}, al.AlbumArtists)
	assert.Contains(t, al.ImageURL, "/Items/al1/Images/Primary")
	assert.Contains(t, al.ImageURL, "tag=abc")
}

func TestUnmappedSortIsOmitted(t *testing.T) {
	f := newFakeJellyfin(t)
	f.json(http.MethodGet, "/Users/{userId}/Items", `{"Items":[],"TotalRecordCount":0}`)

	_, err := newTestController().GetAlbumList(context.Background(), testServer(f, "10.9.0"), mediaprovider.AlbumListQuery{
		SortBy:    mediaprovider.AlbumSortID,
		SortOrder: mediaprovider.SortDesc,
	})
	require.NoError(t, err)
	q := f.last(t, "GET /Users/u1/Items").query
	assert.NotContains(t, q, "SortBy")
	assert.NotContains(t, q, "SortOrder")
	assert.NotContains(t, q, "Years")
}

func TestCustomParamsPassThrough(t *testing.T) {
	f := newFakeJellyfin(t)
	f.json(http.MethodGet, "/Users/{userId}/Items", `{"Items":[],"TotalRecordCount":0}`)
	c := newTestController()
	server := testServer(f, "10.9.0")

	_, err := c.GetSongList(context.Background(), server, mediaprovider.SongListQuery{
		SearchTerm: "karma",
		Custom:     mediaprovider.JellyfinFilter{Params: map[string]string{"SearchTerm": "police", "HasLyrics": "true"}},
	})
	require.NoError(t, err)
	q := f.last(t, "GET /Users/u1/Items").query
	assert.Equal(t, "police", q.Get("SearchTerm"))
	assert.Equal(t, "true", q.Get("HasLyrics"))

	_, err = c.GetSongList(context.Background(), server, mediaprovider.SongListQuery{
		Custom: mediaprovider.NavidromeFilter{Params: map[string]string{"has_rating": "true"}},
	})
	require.NoError(t, err)
	assert.NotContains(t, f.last(t, "GET /Users/u1/Items").query, "has_rating")
}

func TestListCountMatchesList(t *testing.T) {
	f := newFakeJellyfin(t)
	f.json(http.MethodGet, "/Artists/AlbumArtists", `{"TotalRecordCount":77,"Items":[{"Id":"ar1","Name":"Radiohead"}]}`)
	c := newTestController()
	server := testServer(f, "10.9.0")
	query := mediaprovider.AlbumArtistListQuery{SearchTerm: "radio"}

	list, err := c.GetAlbumArtistList(context.Background(), server, query.WithPage(0, 1))
	require.NoError(t, err)
	count, err := c.GetAlbumArtistListCount(context.Background(), server, query)
	require.NoError(t, err)
	assert.Equal(t, list.TotalRecordCount, count)
	assert.Equal(t, 77, count)

	q := f.last(t, "GET /Artists/AlbumArtists").query
	assert.Equal(t, "u1", q.Get("userId"))
	assert.Equal(t, "1", q.Get("Limit"))
	assert.Equal(t, mediaprovider.UnknownCount, list.Items[0].AlbumCount)
}

func TestAlbumDetailJoinsSongs(t *testing.T) {
	f := newFakeJellyfin(t)
	f.json(http.MethodGet, "/Users/{userId}/Items/{id}", `{"Id":"al1","Name":"OK Computer","ChildCount":2}`)
	f.json(http.MethodGet, "/Users/{userId}/Items", `{"TotalRecordCount":2,"Items":[
		{"Id":"s1","Name":"Airbag","AlbumId":"al1","IndexNumber":1,"ParentIndexNumber":1,"RunTimeTicks":2840000000},
		{"Id":"s2","Name":"Paranoid Android","AlbumId":"al1","IndexNumber":2,"ParentIndexNumber":1,"AlbumPrimaryImageTag":"xyz"}]}`)

	al, err := newTestController().GetAlbumDetail(context.Background(), testServer(f, "10.9.0"), "al1")
	require.NoError(t, err)
	require.Len(t, al.Songs, 2)
	assert.Equal(t, 284*time.Second, al.Songs[0].Duration)
	assert.Contains(t, al.Songs[1].ImageURL, "/Items/al1/Images/Primary")

	q := f.last(t, "GET /Users/u1/Items").query
	assert.Equal(t, "al1", q.Get("ParentId"))
	assert.Equal(t, "Audio", q.Get("IncludeItemTypes"))
	assert.Equal(t, "ParentIndexNumber,IndexNumber,SortName", q.Get("SortBy"))
}

func TestDetailNotFound(t *testing.T) {
	f := newFakeJellyfin(t)
	f.status(http.MethodGet, "/Users/{userId}/Items/{id}", http.StatusNotFound)

	_, err := newTestController().GetSongDetail(context.Background(), testServer(f, "10.9.0"), "missing")
	assert.ErrorIs(t, err, mediaprovider.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to get song detail")
}

func TestFavoritesUseBoundedConcurrency(t *testing.T) {
	f := newFakeJellyfin(t)
	var inFlight, peak atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		fmt.Fprint(w, `{}`)
	}
	f.router.Post("/Users/{userId}/FavoriteItems/{id}", handler)
	f.router.Delete("/Users/{userId}/FavoriteItems/{id}", handler)

	ids := make([]string, 12)
	for i := range ids {
		ids[i] = fmt.Sprintf("s%d", i)
	}
	c := newTestController()
	server := testServer(f, "10.9.0")
	require.NoError(t, c.CreateFavorite(context.Background(), server, mediaprovider.FavoriteQuery{IDs: ids, Type: mediaprovider.ItemTypeSong}))
	assert.LessOrEqual(t, peak.Load(), int32(maxParallelFavorites))
	for _, id := range ids {
		assert.Equal(t, 1, f.count("POST /Users/u1/FavoriteItems/"+id))
	}

	require.NoError(t, c.DeleteFavorite(context.Background(), server, mediaprovider.FavoriteQuery{IDs: ids[:1], Type: mediaprovider.ItemTypeAlbum}))
	assert.Equal(t, 1, f.count("DELETE /Users/u1/FavoriteItems/s0"))
}

func TestUnsupportedOperations(t *testing.T) {
	f := newFakeJellyfin(t)
	c := newTestController()
	server := testServer(f, "10.9.0")

	err := c.SetRating(context.Background(), server, mediaprovider.RatingQuery{Items: []mediaprovider.RatedItem{{ID: "s1"}}, Rating: 3})
	assert.ErrorIs(t, err, mediaprovider.ErrUnsupported)
	assert.Contains(t, err.Error(), "set rating")

	_, err = c.ShareItem(context.Background(), server, mediaprovider.ShareQuery{ResourceIDs: []string{"al1"}})
	assert.ErrorIs(t, err, mediaprovider.ErrUnsupported)
	assert.Contains(t, err.Error(), "share item")
}

func TestCreatePlaylistPublicFlagByVersion(t *testing.T) {
	for _, tt := range []struct {
		version    string
		wantPublic bool
	}{
		{"10.8.13", false},
		{"10.9.0", true},
	} {
		t.Run(tt.version, func(t *testing.T) {
			f := newFakeJellyfin(t)
			f.json(http.MethodPost, "/Playlists", `{"Id":"pl1"}`)

			pl, err := newTestController().CreatePlaylist(context.Background(), testServer(f, tt.version), mediaprovider.PlaylistBody{
				Name:   "Road trip",
				Public: true,
			})
			require.NoError(t, err)
			assert.Equal(t, "pl1", pl.ID)
			assert.Equal(t, tt.wantPublic, pl.Public)

			var sent map[string]any
			require.NoError(t, json.Unmarshal(f.last(t, "POST /Playlists").body, &sent))
			assert.Equal(t, "u1", sent["UserId"])
			_, hasPublic := sent["IsPublic"]
			assert.Equal(t, tt.wantPublic, hasPublic)
		})
	}
}

func TestUpdatePlaylistRoundTripsItem(t *testing.T) {
	f := newFakeJellyfin(t)
	f.json(http.MethodGet, "/Users/{userId}/Items/{id}", `{"Id":"pl1","Name":"Old","Overview":"","LockData":true}`)
	f.json(http.MethodPost, "/Items/{id}", ``)
	f.json(http.MethodPost, "/Playlists/{id}", ``)
	c := newTestController()

	require.NoError(t, c.UpdatePlaylist(context.Background(), testServer(f, "10.8.0"), "pl1", mediaprovider.PlaylistBody{
		Name: "New", Description: "desc", Public: true,
	}))
	var doc map[string]any
	require.NoError(t, json.Unmarshal(f.last(t, "POST /Items/pl1").body, &doc))
	assert.Equal(t, "New", doc["Name"])
	assert.Equal(t, "desc", doc["Overview"])
	assert.Equal(t, true, doc["LockData"])
	assert.Zero(t, f.count("POST /Playlists/pl1"))

	require.NoError(t, c.UpdatePlaylist(context.Background(), testServer(f, "10.9.0"), "pl1", mediaprovider.PlaylistBody{Name: "New", Public: true}))
	var pub updatePlaylistRequest
	require.NoError(t, json.Unmarshal(f.last(t, "POST /Playlists/pl1").body, &pub))
	assert.True(t, pub.IsPublic)
}

func TestPlaylistEntries(t *testing.T) {
	f := newFakeJellyfin(t)
	f.json(http.MethodGet, "/Playlists/{id}/Items", `{"TotalRecordCount":1,"Items":[{"Id":"s1","Name":"Airbag","PlaylistItemId":"e1"}]}`)
	f.json(http.MethodPost, "/Playlists/{id}/Items", ``)
	f.json(http.MethodDelete, "/Playlists/{id}/Items", ``)
	f.json(http.MethodPost, "/Playlists/{id}/Items/{itemId}/Move/{index}", ``)
	c := newTestController()
	server := testServer(f, "10.9.0")

	resp, err := c.GetPlaylistSongList(context.Background(), server, mediaprovider.PlaylistSongListQuery{ID: "pl1"})
	require.NoError(t, err)
	assert.Equal(t, "e1", resp.Items[0].PlaylistItemID)
	assert.Equal(t, 1, resp.TotalRecordCount)

	require.NoError(t, c.AddToPlaylist(context.Background(), server, "pl1", []string{"s1", "s2"}))
	assert.Equal(t, "s1,s2", f.last(t, "POST /Playlists/pl1/Items").query.Get("ids"))

	require.NoError(t, c.RemoveFromPlaylist(context.Background(), server, "pl1", []string{"e1", "e2"}))
	assert.Equal(t, "e1,e2", f.last(t, "DELETE /Playlists/pl1/Items").query.Get("entryIds"))

	require.NoError(t, c.MovePlaylistItem(context.Background(), server, "pl1", "e2", 0))
	assert.Equal(t, 1, f.count("POST /Playlists/pl1/Items/e2/Move/0"))
}

func TestGetLyrics(t *testing.T) {
	const body = `{"Metadata":{"Artist":"Radiohead","Title":"Airbag"},"Lyrics":[{"Text":"In the next world war","Start":10000000},{"Text":"In a jackknifed juggernaut","Start":35000000}]}`
	f := newFakeJellyfin(t)
	f.json(http.MethodGet, "/Audio/{id}/Lyrics", body)
	f.json(http.MethodGet, "/Users/{userId}/Items/{id}/Lyrics", body)
	c := newTestController()
	song := &mediaprovider.Song{ID: "s1"}

	l, err := c.GetLyrics(context.Background(), testServer(f, "10.9.0"), song)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.True(t, l.Synced)
	assert.Equal(t, 3500*time.Millisecond, l.Lines[1].Start)
	assert.Equal(t, 1, f.count("GET /Audio/s1/Lyrics"))

	_, err = c.GetLyrics(context.Background(), testServer(f, "10.8.0"), song)
	require.NoError(t, err)
	assert.Equal(t, 1, f.count("GET /Users/u1/Items/s1/Lyrics"))
}

func TestGetLyricsMissing(t *testing.T) {
	f := newFakeJellyfin(t)
	f.status(http.MethodGet, "/Audio/{id}/Lyrics", http.StatusNotFound)

	l, err := newTestController().GetLyrics(context.Background(), testServer(f, "10.9.0"), &mediaprovider.Song{ID: "s1"})
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestSimilarSongsFallsBackToRandom(t *testing.T) {
	f := newFakeJellyfin(t)
	f.json(http.MethodGet, "/Items/{id}/InstantMix", `{"Items":[{"Id":"seed","Name":"Seed"}]}`)
	f.json(http.MethodGet, "/Users/{userId}/Items", `{"Items":[{"Id":"seed","Name":"Seed"},{"Id":"s2","Name":"B"},{"Id":"s3","Name":"C"}]}`)

	songs, err := newTestController().GetSimilarSongs(context.Background(), testServer(f, "10.9.0"), mediaprovider.SimilarSongsQuery{
		SongID:         "seed",
		AlbumArtistIDs: []string{"ar1", "ar2"},
		Count:          20,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s2", "s3"}, sharedutil.SongsToIDs(songs))

	q := f.last(t, "GET /Users/u1/Items").query
	assert.Equal(t, "Random", q.Get("SortBy"))
	assert.Equal(t, "ar1|ar2", q.Get("AlbumArtistIds"))
	assert.Equal(t, "50", q.Get("Limit"))
}

func TestScrobbleEvents(t *testing.T) {
	f := newFakeJellyfin(t)
	for _, p := range []string{"/Sessions/Playing", "/Sessions/Playing/Progress", "/Sessions/Playing/Stopped"} {
		f.json(http.MethodPost, p, ``)
	}
	c := newTestController()
	server := testServer(f, "10.9.0")

	require.NoError(t, c.Scrobble(context.Background(), server, mediaprovider.ScrobbleQuery{ID: "s1", Event: mediaprovider.ScrobbleStart}))
	assert.Equal(t, 1, f.count("POST /Sessions/Playing"))

	require.NoError(t, c.Scrobble(context.Background(), server, mediaprovider.ScrobbleQuery{ID: "s1", Event: mediaprovider.ScrobblePause, Position: 1500}))
	var progress playbackReport
	require.NoError(t, json.Unmarshal(f.last(t, "POST /Sessions/Playing/Progress").body, &progress))
	assert.Equal(t, playbackReport{ItemID: "s1", PositionTicks: 15_000_000, IsPaused: true, EventName: "pause"}, progress)

	require.NoError(t, c.Scrobble(context.Background(), server, mediaprovider.ScrobbleQuery{ID: "s1", Submission: true, Position: 60_000}))
	var stopped playbackReport
	require.NoError(t, json.Unmarshal(f.last(t, "POST /Sessions/Playing/Stopped").body, &stopped))
	assert.Equal(t, int64(600_000_000), stopped.PositionTicks)
}

func TestSearchSkipsZeroLimitCategories(t *testing.T) {
	f := newFakeJellyfin(t)
	f.json(http.MethodGet, "/Users/{userId}/Items", `{"Items":[{"Id":"x1","Name":"Karma Police"}]}`)
	f.json(http.MethodGet, "/Artists/AlbumArtists", `{"Items":[]}`)

	res, err := newTestController().Search(context.Background(), testServer(f, "10.9.0"), mediaprovider.SearchQuery{
		Query:     "karma",
		SongLimit: 5,
	})
	require.NoError(t, err)
	assert.Len(t, res.Songs, 1)
	assert.Empty(t, res.Albums)
	assert.Empty(t, res.AlbumArtists)
	assert.Equal(t, 1, f.count("GET /Users/u1/Items"))
	assert.Zero(t, f.count("GET /Artists/AlbumArtists"))
	assert.Equal(t, "Audio", f.last(t, "GET /Users/u1/Items").query.Get("IncludeItemTypes"))
}

func TestMusicFolderListKeepsMusicLibraries(t *testing.T) {
	f := newFakeJellyfin(t)
	f.json(http.MethodGet, "/Users/{userId}/Views", `{"Items":[
		{"Id":"m1","Name":"Music","CollectionType":"music"},
		{"Id":"v1","Name":"Movies","CollectionType":"movies"}]}`)

	resp, err := newTestController().GetMusicFolderList(context.Background(), testServer(f, "10.9.0"))
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "m1", resp.Items[0].ID)
	assert.Equal(t, 1, resp.TotalRecordCount)
}

func TestGetTags(t *testing.T) {
	f := newFakeJellyfin(t)
	f.json(http.MethodGet, "/Items/Filters", `{"Genres":["Rock","Electronic","Rock"],"Tags":[]}`)

	tags, err := newTestController().GetTags(context.Background(), testServer(f, "10.9.0"), mediaprovider.TagListQuery{Type: mediaprovider.ItemTypeAlbum})
	require.NoError(t, err)
	assert.Equal(t, []mediaprovider.Tag{{Name: "genre", Values: []string{"Electronic", "Rock"}}}, tags)
	assert.Equal(t, "MusicAlbum", f.last(t, "GET /Items/Filters").query.Get("IncludeItemTypes"))
}

func TestMediaURLs(t *testing.T) {
	f := newFakeJellyfin(t)
	c := newTestController()
	server := testServer(f, "10.9.0")

	u, err := url.Parse(c.GetDownloadURL(server, "s1"))
	require.NoError(t, err)
	assert.Equal(t, "/Items/s1/Download", u.Path)
	assert.Equal(t, "tok", u.Query().Get("api_key"))

	u, err = url.Parse(c.GetTranscodeURL(server, mediaprovider.TranscodeQuery{ID: "s1", Format: "opus", BitRateKB: 128}))
	require.NoError(t, err)
	assert.Equal(t, "/Audio/s1/universal", u.Path)
	assert.Equal(t, "opus", u.Query().Get("AudioCodec"))
	assert.Equal(t, "128000", u.Query().Get("MaxStreamingBitrate"))
	assert.Equal(t, "dev-1", u.Query().Get("DeviceId"))

	u, err = url.Parse(c.GetTranscodeURL(server, mediaprovider.TranscodeQuery{ID: "s1"}))
	require.NoError(t, err)
	assert.Equal(t, "/Audio/s1/stream", u.Path)
	assert.Equal(t, "true", u.Query().Get("static"))
}
