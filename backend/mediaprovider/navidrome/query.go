package navidrome

import (
	"net/url"
	"strconv"

	"github.com/google/go-querystring/query"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
)

var falseVal = false

// listValues builds the pagination and sort params shared by every native
// list call. An empty sort token omits both _sort and _order.
func listValues(p mediaprovider.Paging, sort string, order mediaprovider.SortOrder) url.Values {
	v := url.Values{}
	if sort != "" {
		v.Set("_sort", sort)
		if o, ok := sortOrders[order]; ok {
			v.Set("_order", o)
		}
	}
	v.Set("_start", strconv.Itoa(p.StartIndex))
	if p.Limit > 0 {
		v.Set("_end", strconv.Itoa(p.StartIndex+p.Limit))
	}
	return v
}

// withFilter merges a url-tagged filter struct into v, followed by any
// Navidrome custom params, which take precedence.
func withFilter(v url.Values, filter any, custom mediaprovider.CustomFilter) (url.Values, error) {
	fv, err := query.Values(filter)
	if err != nil {
		return nil, err
	}
	for k, vs := range fv {
		v[k] = vs
	}
	if nf, ok := mediaprovider.NavidromeParams(custom); ok {
		for k, val := range nf.Params {
			v.Set(k, val)
		}
	}
	return v, nil
}

// missingFilter excludes files flagged missing by bulk file reconciliation.
// Older servers have no such flag and reject unknown filters.
func missingFilter(server *mediaprovider.Server) *bool {
	if server.HasFeature(mediaprovider.FeatureBFR) {
		return &falseVal
	}
	return nil
}

// yearFilter returns the single year the native API can filter on.
// Open or multi-year ranges are not expressible and yield 0.
func yearFilter(minYear, maxYear int) int {
	if minYear > 0 && (maxYear == 0 || maxYear == minYear) {
		return minYear
	}
	return 0
}

type albumFilter struct {
	Name        string   `url:"name,omitempty"`
	GenreID     []string `url:"genre_id,omitempty"`
	ArtistID    []string `url:"artist_id,omitempty"`
	Starred     *bool    `url:"starred,omitempty"`
	Compilation *bool    `url:"compilation,omitempty"`
	Year        int      `url:"year,omitempty"`
	LibraryID   string   `url:"library_id,omitempty"`
	Missing     *bool    `url:"missing,omitempty"`
}

type songFilter struct {
	Title         string   `url:"title,omitempty"`
	AlbumID       []string `url:"album_id,omitempty"`
	ArtistID      []string `url:"artist_id,omitempty"`
	AlbumArtistID []string `url:"album_artist_id,omitempty"`
	GenreID       []string `url:"genre_id,omitempty"`
	Starred       *bool    `url:"starred,omitempty"`
	Year          int      `url:"year,omitempty"`
	LibraryID     string   `url:"library_id,omitempty"`
	Missing       *bool    `url:"missing,omitempty"`
}

type artistFilter struct {
	Name      string   `url:"name,omitempty"`
	GenreID   []string `url:"genre_id,omitempty"`
	Starred   *bool    `url:"starred,omitempty"`
	Role      string   `url:"role,omitempty"`
	LibraryID string   `url:"library_id,omitempty"`
	Missing   *bool    `url:"missing,omitempty"`
}

type nameFilter struct {
	Name string `url:"name,omitempty"`
}

type playlistFilter struct {
	Q     string `url:"q,omitempty"`
	Smart *bool  `url:"smart,omitempty"`
}
