package helpers

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
)

// In-memory sorting for lists the server only returns whole.
// All Sort* functions return a sorted copy and leave the input untouched.
// Sorts are stable: the primary key comes from the sort enum (reversed for
// DESC), ties are broken by lower-cased name and then, for songs, by
// disc and track number. Random sorts are a shuffle and not deterministic.
// A sort key with no comparator keeps the input order.

type compareFn[T any] func(a, b *T) int

func SortSongs(songs []*mediaprovider.Song, by mediaprovider.SongListSort, order mediaprovider.SortOrder) []*mediaprovider.Song {
	if by == mediaprovider.SongSortRandom {
		return Shuffle(songs)
	}
	return sortStable(songs, songComparators[by], order, songByName, songByDiscTrack)
}

func SortAlbums(albums []*mediaprovider.Album, by mediaprovider.AlbumListSort, order mediaprovider.SortOrder) []*mediaprovider.Album {
	if by == mediaprovider.AlbumSortRandom {
		return Shuffle(albums)
	}
	return sortStable(albums, albumComparators[by], order, albumByName)
}

func SortAlbumArtists(artists []*mediaprovider.AlbumArtist, by mediaprovider.AlbumArtistListSort, order mediaprovider.SortOrder) []*mediaprovider.AlbumArtist {
	if by == mediaprovider.AlbumArtistSortRandom {
		return Shuffle(artists)
	}
	return sortStable(artists, albumArtistComparators[by], order, albumArtistByName)
}

func SortArtists(artists []*mediaprovider.Artist, by mediaprovider.ArtistListSort, order mediaprovider.SortOrder) []*mediaprovider.Artist {
	if by == mediaprovider.ArtistSortRandom {
		return Shuffle(artists)
	}
	return sortStable(artists, artistComparators[by], order, artistByName)
}

func SortGenres(genres []*mediaprovider.Genre, by mediaprovider.GenreListSort, order mediaprovider.SortOrder) []*mediaprovider.Genre {
	var primary compareFn[mediaprovider.Genre]
	if by == mediaprovider.GenreSortName {
		primary = genreByName
	}
	return sortStable(genres, primary, order, genreByName)
}

func SortPlaylists(playlists []*mediaprovider.Playlist, by mediaprovider.PlaylistListSort, order mediaprovider.SortOrder) []*mediaprovider.Playlist {
	return sortStable(playlists, playlistComparators[by], order, playlistByName)
}

func SortUsers(users []*mediaprovider.User, by mediaprovider.UserListSort, order mediaprovider.SortOrder) []*mediaprovider.User {
	var primary compareFn[mediaprovider.User]
	if by == mediaprovider.UserSortName {
		primary = userByName
	}
	return sortStable(users, primary, order, userByName)
}

// Shuffle returns a randomly permuted copy of items.
func Shuffle[T any](items []*T) []*T {
	out := slices.Clone(items)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func sortStable[T any](items []*T, primary compareFn[T], order mediaprovider.SortOrder, tiebreaks ...compareFn[T]) []*T {
	out := slices.Clone(items)
	if primary == nil {
		return out
	}
	desc := order == mediaprovider.SortDesc
	slices.SortStableFunc(out, func(a, b *T) int {
		c := primary(a, b)
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		for _, t := range tiebreaks {
			if c := t(a, b); c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

func lowerCmp(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

func timeCmp(a, b time.Time) int {
	return a.Compare(b)
}

func ratingCmp(a, b *int) int {
	return cmp.Compare(ratingOrZero(a), ratingOrZero(b))
}

func ratingOrZero(r *int) int {
	if r == nil {
		return 0
	}
	return *r
}

func firstArtistName(artists []mediaprovider.RelatedArtist) string {
	if len(artists) == 0 {
		return ""
	}
	return artists[0].Name
}

func firstGenreName(genres []mediaprovider.RelatedGenre) string {
	if len(genres) == 0 {
		return ""
	}
	return genres[0].Name
}

func songByName(a, b *mediaprovider.Song) int { return lowerCmp(a.Name, b.Name) }

func songByDiscTrack(a, b *mediaprovider.Song) int {
	if c := cmp.Compare(a.DiscNumber, b.DiscNumber); c != 0 {
		return c
	}
	return cmp.Compare(a.TrackNumber, b.TrackNumber)
}

var songComparators = map[mediaprovider.SongListSort]compareFn[mediaprovider.Song]{
	mediaprovider.SongSortAlbum: func(a, b *mediaprovider.Song) int { return lowerCmp(a.Album, b.Album) },
	mediaprovider.SongSortAlbumArtist: func(a, b *mediaprovider.Song) int {
		return lowerCmp(firstArtistName(a.AlbumArtists), firstArtistName(b.AlbumArtists))
	},
	mediaprovider.SongSortArtist: func(a, b *mediaprovider.Song) int {
		return lowerCmp(firstArtistName(a.Artists), firstArtistName(b.Artists))
	},
	mediaprovider.SongSortComment:   func(a, b *mediaprovider.Song) int { return lowerCmp(a.Comment, b.Comment) },
	mediaprovider.SongSortDuration:  func(a, b *mediaprovider.Song) int { return cmp.Compare(a.Duration, b.Duration) },
	mediaprovider.SongSortFavorited: func(a, b *mediaprovider.Song) int { return boolCmp(a.Favorite, b.Favorite) },
	mediaprovider.SongSortGenre: func(a, b *mediaprovider.Song) int {
		return lowerCmp(firstGenreName(a.Genres), firstGenreName(b.Genres))
	},
	mediaprovider.SongSortID:     func(a, b *mediaprovider.Song) int { return strings.Compare(a.ID, b.ID) },
	mediaprovider.SongSortName:   songByName,
	mediaprovider.SongSortRating: func(a, b *mediaprovider.Song) int { return ratingCmp(a.UserRating, b.UserRating) },
	mediaprovider.SongSortPlayCount: func(a, b *mediaprovider.Song) int {
		return cmp.Compare(a.PlayCount, b.PlayCount)
	},
	mediaprovider.SongSortRecentlyAdded: func(a, b *mediaprovider.Song) int {
		return timeCmp(a.CreatedAt, b.CreatedAt)
	},
	mediaprovider.SongSortRecentlyPlayed: func(a, b *mediaprovider.Song) int {
		return timeCmp(a.LastPlayedAt, b.LastPlayedAt)
	},
	mediaprovider.SongSortReleaseDate: func(a, b *mediaprovider.Song) int {
		return strings.Compare(a.ReleaseDate, b.ReleaseDate)
	},
	mediaprovider.SongSortYear: func(a, b *mediaprovider.Song) int {
		return cmp.Compare(a.ReleaseYear, b.ReleaseYear)
	},
}

func albumByName(a, b *mediaprovider.Album) int { return lowerCmp(a.Name, b.Name) }

var albumComparators = map[mediaprovider.AlbumListSort]compareFn[mediaprovider.Album]{
	mediaprovider.AlbumSortAlbumArtist: func(a, b *mediaprovider.Album) int { return lowerCmp(a.AlbumArtist, b.AlbumArtist) },
	mediaprovider.AlbumSortArtist: func(a, b *mediaprovider.Album) int {
		return lowerCmp(firstArtistName(a.Artists), firstArtistName(b.Artists))
	},
	mediaprovider.AlbumSortDuration:  func(a, b *mediaprovider.Album) int { return cmp.Compare(a.Duration, b.Duration) },
	mediaprovider.AlbumSortFavorited: func(a, b *mediaprovider.Album) int { return boolCmp(a.Favorite, b.Favorite) },
	mediaprovider.AlbumSortID:        func(a, b *mediaprovider.Album) int { return strings.Compare(a.ID, b.ID) },
	mediaprovider.AlbumSortName:      albumByName,
	mediaprovider.AlbumSortPlayCount: func(a, b *mediaprovider.Album) int { return cmp.Compare(a.PlayCount, b.PlayCount) },
	mediaprovider.AlbumSortRating:    func(a, b *mediaprovider.Album) int { return ratingCmp(a.UserRating, b.UserRating) },
	mediaprovider.AlbumSortRecentlyAdded: func(a, b *mediaprovider.Album) int {
		return timeCmp(a.CreatedAt, b.CreatedAt)
	},
	mediaprovider.AlbumSortRecentlyPlayed: func(a, b *mediaprovider.Album) int {
		return timeCmp(a.LastPlayedAt, b.LastPlayedAt)
	},
	mediaprovider.AlbumSortReleaseDate: func(a, b *mediaprovider.Album) int {
		return strings.Compare(a.ReleaseDate, b.ReleaseDate)
	},
	mediaprovider.AlbumSortSongCount: func(a, b *mediaprovider.Album) int { return cmp.Compare(a.SongCount, b.SongCount) },
	mediaprovider.AlbumSortYear:      func(a, b *mediaprovider.Album) int { return cmp.Compare(a.ReleaseYear, b.ReleaseYear) },
}

func albumArtistByName(a, b *mediaprovider.AlbumArtist) int { return lowerCmp(a.Name, b.Name) }

var albumArtistComparators = map[mediaprovider.AlbumArtistListSort]compareFn[mediaprovider.AlbumArtist]{
	mediaprovider.AlbumArtistSortAlbumCount: func(a, b *mediaprovider.AlbumArtist) int {
		return cmp.Compare(a.AlbumCount, b.AlbumCount)
	},
	mediaprovider.AlbumArtistSortDuration: func(a, b *mediaprovider.AlbumArtist) int {
		return cmp.Compare(a.Duration, b.Duration)
	},
	mediaprovider.AlbumArtistSortFavorited: func(a, b *mediaprovider.AlbumArtist) int {
		return boolCmp(a.Favorite, b.Favorite)
	},
	mediaprovider.AlbumArtistSortName: albumArtistByName,
	mediaprovider.AlbumArtistSortPlayCount: func(a, b *mediaprovider.AlbumArtist) int {
		return cmp.Compare(a.PlayCount, b.PlayCount)
	},
	mediaprovider.AlbumArtistSortRating: func(a, b *mediaprovider.AlbumArtist) int {
		return ratingCmp(a.UserRating, b.UserRating)
	},
	mediaprovider.AlbumArtistSortSongCount: func(a, b *mediaprovider.AlbumArtist) int {
		return cmp.Compare(a.SongCount, b.SongCount)
	},
}

func artistByName(a, b *mediaprovider.Artist) int { return lowerCmp(a.Name, b.Name) }

var artistComparators = map[mediaprovider.ArtistListSort]compareFn[mediaprovider.Artist]{
	mediaprovider.ArtistSortAlbumCount: func(a, b *mediaprovider.Artist) int { return cmp.Compare(a.AlbumCount, b.AlbumCount) },
	mediaprovider.ArtistSortName:       artistByName,
}

func genreByName(a, b *mediaprovider.Genre) int { return lowerCmp(a.Name, b.Name) }

func playlistByName(a, b *mediaprovider.Playlist) int { return lowerCmp(a.Name, b.Name) }

var playlistComparators = map[mediaprovider.PlaylistListSort]compareFn[mediaprovider.Playlist]{
	mediaprovider.PlaylistSortDuration:  func(a, b *mediaprovider.Playlist) int { return cmp.Compare(a.Duration, b.Duration) },
	mediaprovider.PlaylistSortName:      playlistByName,
	mediaprovider.PlaylistSortOwner:     func(a, b *mediaprovider.Playlist) int { return lowerCmp(a.Owner, b.Owner) },
	mediaprovider.PlaylistSortPublic:    func(a, b *mediaprovider.Playlist) int { return boolCmp(a.Public, b.Public) },
	mediaprovider.PlaylistSortSongCount: func(a, b *mediaprovider.Playlist) int { return cmp.Compare(a.SongCount, b.SongCount) },
	mediaprovider.PlaylistSortUpdatedAt: func(a, b *mediaprovider.Playlist) int { return timeCmp(a.UpdatedAt, b.UpdatedAt) },
}

func userByName(a, b *mediaprovider.User) int { return lowerCmp(a.Name, b.Name) }
