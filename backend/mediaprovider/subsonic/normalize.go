package subsonic

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/sharedutil"
)

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func ratingPtr(r int) *int {
	if r <= 0 {
		return nil
	}
	return &r
}

func seconds(s int) time.Duration {
	return time.Duration(s) * time.Second
}

func toRelatedArtists(refs []artistRef, fallbackID subsonicID, fallbackName string) []mediaprovider.RelatedArtist {
	if len(refs) == 0 {
		if fallbackName == "" && fallbackID == "" {
			return nil
		}
		return []mediaprovider.RelatedArtist{{ID: string(fallbackID), Name: fallbackName}}
	}
	return sharedutil.MapSlice(refs, func(a artistRef) mediaprovider.RelatedArtist {
		return mediaprovider.RelatedArtist{ID: string(a.ID), Name: a.Name}
	})
}

// Subsonic genres are identified by name.
func toRelatedGenres(genres []itemGenre, fallback string) []mediaprovider.RelatedGenre {
	if len(genres) == 0 {
		if fallback == "" {
			return nil
		}
		return []mediaprovider.RelatedGenre{{ID: fallback, Name: fallback}}
	}
	return sharedutil.MapSlice(genres, func(g itemGenre) mediaprovider.RelatedGenre {
		return mediaprovider.RelatedGenre{ID: g.Name, Name: g.Name}
	})
}

func formatDate(d *itemDate, year int) string {
	if d == nil || d.Year == 0 {
		if year > 0 {
			return strconv.Itoa(year)
		}
		return ""
	}
	switch {
	case d.Month == 0:
		return strconv.Itoa(d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}

func toParticipants(cs []contributor) map[string][]mediaprovider.RelatedArtist {
	if len(cs) == 0 {
		return nil
	}
	out := make(map[string][]mediaprovider.RelatedArtist)
	for _, c := range cs {
		role := c.Role
		if c.SubRole != "" {
			role += " (" + c.SubRole + ")"
		}
		out[role] = append(out[role], mediaprovider.RelatedArtist{ID: string(c.Artist.ID), Name: c.Artist.Name})
	}
	return out
}

func (c *Controller) toSong(server *mediaprovider.Server, ch *child) *mediaprovider.Song {
	s := &mediaprovider.Song{
		ItemType:     mediaprovider.ItemTypeSong,
		ServerID:     server.ID,
		ServerType:   server.Type,
		ID:           string(ch.ID),
		Name:         ch.Title,
		Album:        ch.Album,
		AlbumID:      string(ch.AlbumID),
		Artists:      toRelatedArtists(ch.Artists, ch.ArtistID, ch.Artist),
		AlbumArtists: toRelatedArtists(ch.AlbumArtists, "", ""),
		Genres:       toRelatedGenres(ch.Genres, ch.Genre),
		Duration:     seconds(ch.Duration),
		TrackNumber:  ch.Track,
		DiscNumber:   ch.DiscNumber,
		ReleaseYear:  ch.Year,
		Favorite:     ch.Starred != nil,
		UserRating:   ratingPtr(ch.UserRating),
		PlayCount:    ch.PlayCount,
		LastPlayedAt: timeOrZero(ch.Played),
		CreatedAt:    timeOrZero(ch.Created),
		Comment:      ch.Comment,
		Path:         ch.Path,
		Size:         ch.Size,
		BitRate:      ch.BitRate,
		Container:    ch.Suffix,
		ImageURL:     c.coverArtURL(server, ch.CoverArt),
		Participants: toParticipants(ch.Contributors),
	}
	if ch.Year > 0 {
		s.ReleaseDate = strconv.Itoa(ch.Year)
	}
	if len(s.AlbumArtists) == 0 {
		s.AlbumArtists = s.Artists
	}
	if g := ch.ReplayGain; g != nil {
		s.Gain = mediaprovider.ReplayGain{
			AlbumGain: g.AlbumGain,
			TrackGain: g.TrackGain,
			AlbumPeak: g.AlbumPeak,
			TrackPeak: g.TrackPeak,
		}
	}
	return s
}

func (c *Controller) toSongs(server *mediaprovider.Server, chs []*child) []*mediaprovider.Song {
	return sharedutil.MapSlice(chs, func(ch *child) *mediaprovider.Song {
		return c.toSong(server, ch)
	})
}

func (c *Controller) toAlbum(server *mediaprovider.Server, al *album) *mediaprovider.Album {
	a := &mediaprovider.Album{
		ItemType:      mediaprovider.ItemTypeAlbum,
		ServerID:      server.ID,
		ServerType:    server.Type,
		ID:            string(al.ID),
		Name:          al.Name,
		AlbumArtist:   sharedutil.FirstNonEmpty(al.DisplayArtist, al.Artist),
		AlbumArtists:  toRelatedArtists(al.Artists, al.ArtistID, al.Artist),
		Genres:        toRelatedGenres(al.Genres, al.Genre),
		ReleaseYear:   al.Year,
		ReleaseDate:   formatDate(al.ReleaseDate, al.Year),
		SongCount:     al.SongCount,
		Duration:      seconds(al.Duration),
		IsCompilation: al.IsCompilation,
		Favorite:      al.Starred != nil,
		UserRating:    ratingPtr(al.UserRating),
		PlayCount:     al.PlayCount,
		LastPlayedAt:  timeOrZero(al.Played),
		CreatedAt:     timeOrZero(al.Created),
		ImageURL:      c.coverArtURL(server, al.CoverArt),
		MBID:          al.MusicBrainzID,
	}
	a.Artists = a.AlbumArtists
	if len(al.RecordLabels) > 0 {
		a.Tags = map[string][]string{
			"label": sharedutil.MapSlice(al.RecordLabels, func(l recordLabel) string { return l.Name }),
		}
	}
	if al.Song != nil {
		a.Songs = c.toSongs(server, al.Song)
	}
	return a
}

func (c *Controller) toAlbums(server *mediaprovider.Server, als []*album) []*mediaprovider.Album {
	return sharedutil.MapSlice(als, func(al *album) *mediaprovider.Album {
		return c.toAlbum(server, al)
	})
}

func (c *Controller) artistImage(server *mediaprovider.Server, ar *artist) string {
	if ar.ArtistImageURL != "" {
		return ar.ArtistImageURL
	}
	return c.coverArtURL(server, sharedutil.FirstNonEmpty(ar.CoverArt, string(ar.ID)))
}

func (c *Controller) toAlbumArtist(server *mediaprovider.Server, ar *artist) *mediaprovider.AlbumArtist {
	return &mediaprovider.AlbumArtist{
		ItemType:   mediaprovider.ItemTypeAlbumArtist,
		ServerID:   server.ID,
		ServerType: server.Type,
		ID:         string(ar.ID),
		Name:       ar.Name,
		AlbumCount: ar.AlbumCount,
		Favorite:   ar.Starred != nil,
		UserRating: ratingPtr(ar.UserRating),
		ImageURL:   c.artistImage(server, ar),
		MBID:       ar.MusicBrainzID,
	}
}

func (c *Controller) toArtist(server *mediaprovider.Server, ar *artist) *mediaprovider.Artist {
	return &mediaprovider.Artist{
		ItemType:   mediaprovider.ItemTypeArtist,
		ServerID:   server.ID,
		ServerType: server.Type,
		ID:         string(ar.ID),
		Name:       ar.Name,
		AlbumCount: ar.AlbumCount,
		ImageURL:   c.artistImage(server, ar),
	}
}

func (c *Controller) toPlaylist(server *mediaprovider.Server, pl *playlist) *mediaprovider.Playlist {
	return &mediaprovider.Playlist{
		ItemType:    mediaprovider.ItemTypePlaylist,
		ServerID:    server.ID,
		ServerType:  server.Type,
		ID:          string(pl.ID),
		Name:        pl.Name,
		Description: pl.Comment,
		Public:      pl.Public,
		Owner:       pl.Owner,
		Duration:    seconds(pl.Duration),
		SongCount:   pl.SongCount,
		ImageURL:    c.coverArtURL(server, pl.CoverArt),
		CreatedAt:   timeOrZero(pl.Created),
		UpdatedAt:   timeOrZero(pl.Changed),
	}
}

func toGenre(server *mediaprovider.Server, g genre) *mediaprovider.Genre {
	return &mediaprovider.Genre{
		ItemType:   mediaprovider.ItemTypeGenre,
		ServerID:   server.ID,
		ServerType: server.Type,
		ID:         g.Value,
		Name:       g.Value,
		AlbumCount: g.AlbumCount,
		SongCount:  g.SongCount,
	}
}

func toUser(server *mediaprovider.Server, u *user) *mediaprovider.User {
	return &mediaprovider.User{
		ItemType:   mediaprovider.ItemTypeUser,
		ServerID:   server.ID,
		ServerType: server.Type,
		ID:         u.Username,
		Name:       u.Username,
		Email:      u.Email,
		IsAdmin:    u.AdminRole,
	}
}

func toLyrics(sl structuredLyrics) *mediaprovider.Lyrics {
	return &mediaprovider.Lyrics{
		Synced: sl.Synced,
		Lang:   sl.Lang,
		Artist: sl.DisplayArtist,
		Title:  sl.DisplayTitle,
		Lines: sharedutil.MapSlice(sl.Line, func(l lyricsLine) mediaprovider.LyricLine {
			line := mediaprovider.LyricLine{Text: l.Value}
			if l.Start != nil {
				line.Start = time.Duration(*l.Start) * time.Millisecond
			}
			return line
		}),
	}
}

func plainToLyrics(l *plainLyrics) *mediaprovider.Lyrics {
	text := strings.ReplaceAll(l.Value, "\r\n", "\n")
	return &mediaprovider.Lyrics{
		Artist: l.Artist,
		Title:  l.Title,
		Lines: sharedutil.MapSlice(strings.Split(text, "\n"), func(s string) mediaprovider.LyricLine {
			return mediaprovider.LyricLine{Text: s}
		}),
	}
}
