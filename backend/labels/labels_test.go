package labels

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
)

type fakeLister struct {
	mu      sync.Mutex
	albums  []*mediaprovider.Album
	err     error
	release chan struct{} // if set, each call blocks until it is closed
	queries []mediaprovider.AlbumListQuery
}

func (f *fakeLister) GetAlbumList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.AlbumListQuery) (*mediaprovider.ListResponse[mediaprovider.Album], error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	if ctx.Err() != nil {
		return nil, mediaprovider.ErrAborted
	}
	if f.err != nil {
		return nil, f.err
	}
	return &mediaprovider.ListResponse[mediaprovider.Album]{Items: f.albums, TotalRecordCount: len(f.albums)}, nil
}

func (f *fakeLister) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func album(id, tag, value string) *mediaprovider.Album {
	al := &mediaprovider.Album{ID: id, Name: id, ImageURL: "img/" + id}
	if tag != "" {
		al.Tags = map[string][]string{tag: {value}}
	}
	return al
}

var testServer = &mediaprovider.Server{ID: "s1", Type: mediaprovider.ServerTypeNavidrome}

func names(resp *mediaprovider.ListResponse[Label]) []string {
	out := make([]string, 0, len(resp.Items))
	for _, l := range resp.Items {
		out = append(out, l.Name)
	}
	return out
}

func TestCreateLabelID(t *testing.T) {
	for _, tt := range []struct {
		name string
		want string
	}{
		{"Sub Pop Records", "sub-pop-records"},
		{"sub-pop-records", "sub-pop-records"},
		{"  Warp!!  Records. ", "warp-records"},
		{"Björk Ltd.", "bjork-ltd"},
		{"4AD", "4ad"},
		{"!!!", ""},
	} {
		t.Run(tt.name, func(t *testing.T) {
			id := CreateLabelID(tt.name)
			assert.Equal(t, tt.want, id)
			assert.Equal(t, id, CreateLabelID(id))
		})
	}
}

func TestLabelNamePriority(t *testing.T) {
	al := &mediaprovider.Album{Tags: map[string][]string{
		"publisher":    {"Pub"},
		"organization": {"  ", "Org"},
	}}
	assert.Equal(t, "Org", LabelName(al))

	al.Tags["label"] = []string{"Label"}
	assert.Equal(t, "Label", LabelName(al))

	assert.Equal(t, "", LabelName(&mediaprovider.Album{}))
}

func TestGetLabelListGroupsAlbums(t *testing.T) {
	lister := &fakeLister{albums: []*mediaprovider.Album{
		album("a1", "label", "Sub Pop Records"),
		album("a2", "organization", "sub-pop records"),
		album("a3", "publisher", "Warp"),
		album("a4", "", ""),
		album("a5", "label", "Sub Pop Records"),
	}}
	s := NewService(lister, Options{})

	resp, err := s.GetLabelList(context.Background(), testServer, ListQuery{SortBy: SortName})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 2, resp.TotalRecordCount)
	assert.Equal(t, &Label{
		ItemType:   mediaprovider.ItemTypeLabel,
		ServerID:   "s1",
		ServerType: mediaprovider.ServerTypeNavidrome,
		ID:         "sub-pop-records",
		Name:       "Sub Pop Records",
		AlbumCount: 3,
		ImageURL:   "img/a1",
	}, resp.Items[0])
	assert.Equal(t, "warp", resp.Items[1].ID)

	albums, err := s.GetLabelAlbums(context.Background(), testServer, "sub-pop-records", "")
	require.NoError(t, err)
	require.Len(t, albums, 3)
	assert.Equal(t, "a2", albums[1].ID)
	assert.Equal(t, 1, lister.calls())
}

func TestGetLabelListSorts(t *testing.T) {
	lister := &fakeLister{albums: []*mediaprovider.Album{
		album("a1", "label", "Label 10"),
		album("a2", "label", "label 2"),
		album("a3", "label", "Label 1"),
		album("a4", "label", "label 2"),
	}}
	s := NewService(lister, Options{})
	ctx := context.Background()

	resp, err := s.GetLabelList(ctx, testServer, ListQuery{SortBy: SortName, SortOrder: mediaprovider.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Label 1", "label 2", "Label 10"}, names(resp))

	resp, err = s.GetLabelList(ctx, testServer, ListQuery{SortBy: SortName, SortOrder: mediaprovider.SortDesc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Label 10", "label 2", "Label 1"}, names(resp))

	resp, err = s.GetLabelList(ctx, testServer, ListQuery{SortBy: SortAlbumCount, SortOrder: mediaprovider.SortDesc})
	require.NoError(t, err)
	assert.Equal(t, []string{"label 2", "Label 1", "Label 10"}, names(resp))
}

func TestGetLabelListSearchAndPaging(t *testing.T) {
	lister := &fakeLister{albums: []*mediaprovider.Album{
		album("a1", "label", "Warp Records"),
		album("a2", "label", "Rough Trade Records"),
		album("a3", "label", "Sub Pop"),
		album("a4", "label", "Éditions Mego Records"),
	}}
	s := NewService(lister, Options{})
	ctx := context.Background()

	resp, err := s.GetLabelList(ctx, testServer, ListQuery{SearchTerm: "RECORDS", SortBy: SortName})
	require.NoError(t, err)
	assert.Equal(t, []string{"Éditions Mego Records", "Rough Trade Records", "Warp Records"}, names(resp))

	resp, err = s.GetLabelList(ctx, testServer, ListQuery{SearchTerm: "editions"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Éditions Mego Records"}, names(resp))

	resp, err = s.GetLabelList(ctx, testServer, ListQuery{
		Paging: mediaprovider.Paging{StartIndex: 1, Limit: 2},
		SortBy: SortName,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rough Trade Records", "Sub Pop"}, names(resp))
	assert.Equal(t, 4, resp.TotalRecordCount)
	assert.Equal(t, 1, resp.StartIndex)
}

func TestBatchQuery(t *testing.T) {
	lister := &fakeLister{}
	s := NewService(lister, Options{BatchSize: 250})

	_, err := s.GetLabelList(context.Background(), testServer, ListQuery{MusicFolderID: "f1"})
	require.NoError(t, err)
	require.Equal(t, 1, lister.calls())
	q := lister.queries[0]
	assert.Equal(t, 0, q.StartIndex)
	assert.Equal(t, 250, q.Limit)
	assert.Equal(t, "f1", q.MusicFolderID)

	assert.Equal(t, DefaultBatchSize, NewService(lister, Options{}).opts.BatchSize)
}

func TestSnapshotCache(t *testing.T) {
	lister := &fakeLister{albums: []*mediaprovider.Album{album("a1", "label", "Warp")}}
	s := NewService(lister, Options{CacheTTL: time.Minute})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	for range 3 {
		_, err := s.GetLabelList(ctx, testServer, ListQuery{})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, lister.calls())

	_, err := s.GetLabelList(ctx, &mediaprovider.Server{ID: "s2"}, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls())

	now = now.Add(time.Minute)
	_, err = s.GetLabelList(ctx, testServer, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, lister.calls())

	s.Invalidate("s1")
	_, err = s.GetLabelList(ctx, testServer, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 4, lister.calls())
}

func TestFetchErrorIsNotCached(t *testing.T) {
	boom := errors.New("boom")
	lister := &fakeLister{err: boom}
	s := NewService(lister, Options{})

	_, err := s.GetLabelList(context.Background(), testServer, ListQuery{})
	assert.ErrorIs(t, err, boom)

	lister.err = nil
	_, err = s.GetLabelList(context.Background(), testServer, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls())
}

func TestSlowFetchOutlivesTimeout(t *testing.T) {
	lister := &fakeLister{
		albums:  []*mediaprovider.Album{album("a1", "label", "Warp")},
		release: make(chan struct{}),
	}
	s := NewService(lister, Options{Timeout: 5 * time.Millisecond})

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(lister.release)
	}()
	resp, err := s.GetLabelList(context.Background(), testServer, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Warp"}, names(resp))
}

func TestCancelledCallerStillFillsCache(t *testing.T) {
	lister := &fakeLister{
		albums:  []*mediaprovider.Album{album("a1", "label", "Warp")},
		release: make(chan struct{}),
	}
	s := NewService(lister, Options{})
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := s.GetLabelList(ctx, testServer, ListQuery{})
	assert.ErrorIs(t, err, mediaprovider.ErrAborted)

	close(lister.release)
	require.Eventually(t, func() bool {
		_, ok := s.cached(cacheKey(testServer, ""))
		return ok
	}, time.Second, 5*time.Millisecond)

	resp, err := s.GetLabelList(context.Background(), testServer, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, 1, lister.calls())
}
