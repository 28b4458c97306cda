// Package labels derives a virtual "label" list from album metadata.
//
// No backend has a label endpoint, so labels are computed client-side from
// one batch of albums. The batch is capped at BatchSize albums, which means
// label album counts are only accurate for libraries up to that size.
package labels

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/charlievieth/strcase"
	"github.com/deluan/sanitize"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/helpers"
)

const (
	DefaultBatchSize = 1000
	DefaultTimeout   = 10 * time.Second
	DefaultCacheTTL  = 5 * time.Minute
)

// labelTags are checked in order; the first non-empty value names the label.
var labelTags = []string{"label", "organization", "publisher"}

type Label struct {
	ItemType   mediaprovider.ItemType
	ServerID   string
	ServerType mediaprovider.ServerType

	ID         string
	Name       string
	AlbumCount int
	ImageURL   string
}

type ListSort string

const (
	SortName       ListSort = "name"
	SortAlbumCount ListSort = "albumCount"
)

type ListQuery struct {
	mediaprovider.Paging
	SortBy    ListSort
	SortOrder mediaprovider.SortOrder

	SearchTerm    string
	MusicFolderID string
}

// AlbumLister is the part of mediaprovider.ControllerEndpoint the service needs.
type AlbumLister interface {
	GetAlbumList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.AlbumListQuery) (*mediaprovider.ListResponse[mediaprovider.Album], error)
}

type Options struct {
	// BatchSize caps how many albums are fetched per snapshot.
	BatchSize int
	// Timeout is how long a caller waits before a slow fetch is logged.
	// The fetch is never abandoned because of it.
	Timeout time.Duration
	// CacheTTL is how long a finished snapshot is reused.
	CacheTTL time.Duration
}

type snapshot struct {
	fetchedAt time.Time
	albums    []*mediaprovider.Album
}

type Service struct {
	controller AlbumLister
	opts       Options
	now        func() time.Time

	mu    sync.Mutex
	cache map[string]snapshot
}

func NewService(controller AlbumLister, opts Options) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	return &Service{
		controller: controller,
		opts:       opts,
		now:        time.Now,
		cache:      make(map[string]snapshot),
	}
}

// CreateLabelID returns the grouping key for a label name: accents are
// stripped, the result lower-cased, and every run of characters that is not
// a letter or digit collapsed to a single "-". It is idempotent.
func CreateLabelID(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(sanitize.Accents(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return sb.String()
}

// LabelName returns the album's label, or "" if none of the label tags are set.
func LabelName(album *mediaprovider.Album) string {
	for _, tag := range labelTags {
		for _, v := range album.Tags[tag] {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// GetLabelList groups the album snapshot by label, then searches, sorts
// and pages the result in memory.
func (s *Service) GetLabelList(ctx context.Context, server *mediaprovider.Server, query ListQuery) (*mediaprovider.ListResponse[Label], error) {
	albums, err := s.albums(ctx, server, query.MusicFolderID)
	if err != nil {
		return nil, err
	}
	labels := group(server, albums)
	if query.SearchTerm != "" {
		term := sanitize.Accents(query.SearchTerm)
		labels = slices.DeleteFunc(labels, func(l *Label) bool {
			return !strcase.Contains(sanitize.Accents(l.Name), term)
		})
	}
	sortLabels(labels, query.SortBy, query.SortOrder)
	return helpers.Page(labels, query.Paging), nil
}

// GetLabelAlbums returns the snapshot's albums published under the label id,
// in the order the server returned them.
func (s *Service) GetLabelAlbums(ctx context.Context, server *mediaprovider.Server, labelID, musicFolderID string) ([]*mediaprovider.Album, error) {
	albums, err := s.albums(ctx, server, musicFolderID)
	if err != nil {
		return nil, err
	}
	out := []*mediaprovider.Album{}
	for _, al := range albums {
		if CreateLabelID(LabelName(al)) == labelID && labelID != "" {
			out = append(out, al)
		}
	}
	return out, nil
}

// Invalidate drops every cached snapshot for the server.
func (s *Service) Invalidate(serverID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.cache {
		if strings.HasPrefix(k, serverID+"\x00") {
			delete(s.cache, k)
		}
	}
}

func cacheKey(server *mediaprovider.Server, folder string) string {
	return server.ID + "\x00" + folder
}

func (s *Service) cached(key string) ([]*mediaprovider.Album, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.cache[key]
	if !ok || s.now().Sub(snap.fetchedAt) >= s.opts.CacheTTL {
		return nil, false
	}
	return snap.albums, true
}

type fetchResult struct {
	albums []*mediaprovider.Album
	err    error
}

// albums returns the album snapshot, fetching it if the cache has none.
// The fetch runs detached from ctx so it completes and fills the cache even
// if the caller gives up. Cancelling ctx returns ErrAborted immediately.
func (s *Service) albums(ctx context.Context, server *mediaprovider.Server, folder string) ([]*mediaprovider.Album, error) {
	key := cacheKey(server, folder)
	if albums, ok := s.cached(key); ok {
		return albums, nil
	}

	done := make(chan fetchResult, 1)
	go func() {
		resp, err := s.controller.GetAlbumList(context.WithoutCancel(ctx), server, mediaprovider.AlbumListQuery{
			Paging:        mediaprovider.Paging{Limit: s.opts.BatchSize},
			SortBy:        mediaprovider.AlbumSortName,
			SortOrder:     mediaprovider.SortAsc,
			MusicFolderID: folder,
		})
		if err != nil {
			done <- fetchResult{err: err}
			return
		}
		s.mu.Lock()
		s.cache[key] = snapshot{fetchedAt: s.now(), albums: resp.Items}
		s.mu.Unlock()
		done <- fetchResult{albums: resp.Items}
	}()

	timer := time.NewTimer(s.opts.Timeout)
	defer timer.Stop()
	for {
		select {
		case r := <-done:
			return r.albums, r.err
		case <-timer.C:
			log.Warn().Str("server", server.ID).Dur("timeout", s.opts.Timeout).
				Msg("label album fetch is slow, still waiting")
		case <-ctx.Done():
			return nil, mediaprovider.ErrAborted
		}
	}
}

func group(server *mediaprovider.Server, albums []*mediaprovider.Album) []*Label {
	byID := make(map[string]*Label)
	var labels []*Label
	for _, al := range albums {
		name := LabelName(al)
		id := CreateLabelID(name)
		if id == "" {
			continue
		}
		l, ok := byID[id]
		if !ok {
			l = &Label{
				ItemType:   mediaprovider.ItemTypeLabel,
				ServerID:   server.ID,
				ServerType: server.Type,
				ID:         id,
				Name:       name,
				ImageURL:   al.ImageURL,
			}
			byID[id] = l
			labels = append(labels, l)
		}
		l.AlbumCount++
	}
	return labels
}

// sortLabels sorts by name with numeric-aware, case-insensitive collation,
// or by album count with name as tie breaker. Unknown sort keys sort by name.
func sortLabels(labels []*Label, by ListSort, order mediaprovider.SortOrder) {
	c := collate.New(language.English, collate.Numeric, collate.IgnoreCase)
	byName := func(a, b *Label) int { return c.CompareString(a.Name, b.Name) }
	dir := 1
	if order == mediaprovider.SortDesc {
		dir = -1
	}
	slices.SortStableFunc(labels, func(a, b *Label) int {
		if by == SortAlbumCount {
			if n := cmp.Compare(a.AlbumCount, b.AlbumCount); n != 0 {
				return dir * n
			}
			return byName(a, b)
		}
		return dir * byName(a, b)
	})
}
