package jellyfin

import (
	"net/url"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/sharedutil"
)

const (
	itemTypeAlbum    = "MusicAlbum"
	itemTypeSong     = "Audio"
	itemTypePlaylist = "Playlist"

	collectionTypeMusic = "music"
)

// itemFields are requested on every item query so normalization
// sees the same shape from lists and detail fetches.
const itemFields = "Genres,DateCreated,MediaSources,ParentId,Path,Overview,Studios,Tags,People,ProviderIds,ChildCount,SortName"

// earliestYear bounds open-ended year ranges from below.
const earliestYear = 1900

// itemsQuery mirrors the item query parameters shared by the list endpoints.
// Id lists are pipe delimited, years comma delimited.
type itemsQuery struct {
	UserID           string   `url:"userId,omitempty"`
	IncludeItemTypes string   `url:"IncludeItemTypes,omitempty"`
	MediaTypes       string   `url:"MediaTypes,omitempty"`
	Recursive        bool     `url:"Recursive,omitempty"`
	ParentID         string   `url:"ParentId,omitempty"`
	StartIndex       int      `url:"StartIndex,omitempty"`
	Limit            int      `url:"Limit,omitempty"`
	SortBy           string   `url:"SortBy,omitempty"`
	SortOrder        string   `url:"SortOrder,omitempty"`
	SearchTerm       string   `url:"SearchTerm,omitempty"`
	GenreIDs         []string `url:"GenreIds,omitempty" del:"|"`
	ArtistIDs        []string `url:"ArtistIds,omitempty" del:"|"`
	AlbumArtistIDs   []string `url:"AlbumArtistIds,omitempty" del:"|"`
	AlbumIDs         []string `url:"AlbumIds,omitempty" del:"|"`
	Years            []int    `url:"Years,omitempty" del:","`
	IsFavorite       *bool    `url:"IsFavorite,omitempty"`
	Fields           string   `url:"Fields,omitempty"`
}

func (q *itemsQuery) page(p mediaprovider.Paging) {
	q.StartIndex = p.StartIndex
	q.Limit = p.Limit
}

// sort sets SortBy and SortOrder, or neither for an unmapped key.
func (q *itemsQuery) sort(by string, order mediaprovider.SortOrder) {
	if by == "" {
		return
	}
	q.SortBy = by
	q.SortOrder = sortOrders[order]
}

// values encodes q, then adds any Jellyfin custom params, which take precedence.
func (q itemsQuery) values(custom mediaprovider.CustomFilter) (url.Values, error) {
	v, err := query.Values(q)
	if err != nil {
		return nil, err
	}
	if jf, ok := mediaprovider.JellyfinParams(custom); ok {
		for k, val := range jf.Params {
			v.Set(k, val)
		}
	}
	return v, nil
}

func parentID(server *mediaprovider.Server, queryFolder string) string {
	return sharedutil.FirstNonEmpty(queryFolder, server.MusicFolderID)
}

// yearRange expands a year filter into the explicit list Jellyfin takes.
// An open lower bound starts at earliestYear, an open upper bound at the
// current year. Reversed bounds are swapped.
func yearRange(minYear, maxYear int) []int {
	if minYear == 0 && maxYear == 0 {
		return nil
	}
	if minYear == 0 {
		minYear = earliestYear
	}
	if maxYear == 0 {
		maxYear = max(time.Now().Year(), minYear)
	}
	if minYear > maxYear {
		minYear, maxYear = maxYear, minYear
	}
	years := make([]int, 0, maxYear-minYear+1)
	for y := minYear; y <= maxYear; y++ {
		years = append(years, y)
	}
	return years
}
