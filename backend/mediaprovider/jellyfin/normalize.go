package jellyfin

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dweymouth/sonicbridge/backend/apiclient"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/sharedutil"
)

const imageSize = "300"

func ticksToDuration(ticks int64) time.Duration {
	return time.Duration(ticks/ticksPerMicrosecond) * time.Microsecond
}

func durationToTicks(d time.Duration) int64 {
	return d.Microseconds() * ticksPerMicrosecond
}

func countOrUnknown(n *int) int {
	if n == nil {
		return mediaprovider.UnknownCount
	}
	return *n
}

func imageURL(server *mediaprovider.Server, id, tag string) string {
	if id == "" {
		return ""
	}
	q := url.Values{"maxHeight": {imageSize}, "quality": {"90"}}
	if tag != "" {
		q.Set("tag", tag)
	}
	u, err := apiclient.BuildURL(server.URL, apiclient.Request{
		Path:   "/Items/{id}/Images/Primary",
		Params: map[string]string{"id": id},
		Query:  q,
	})
	if err != nil {
		return ""
	}
	return u
}

func toRelatedArtists(refs []nameID) []mediaprovider.RelatedArtist {
	return sharedutil.MapSlice(refs, func(r nameID) mediaprovider.RelatedArtist {
		return mediaprovider.RelatedArtist{ID: r.ID, Name: r.Name}
	})
}

func toRelatedGenres(it *item) []mediaprovider.RelatedGenre {
	if len(it.GenreItems) > 0 {
		return sharedutil.MapSlice(it.GenreItems, func(g nameID) mediaprovider.RelatedGenre {
			return mediaprovider.RelatedGenre{ID: g.ID, Name: g.Name}
		})
	}
	return sharedutil.MapSlice(it.Genres, func(g string) mediaprovider.RelatedGenre {
		return mediaprovider.RelatedGenre{ID: g, Name: g}
	})
}

func releaseDate(it *item) string {
	if !it.PremiereDate.IsZero() {
		return it.PremiereDate.Format(time.DateOnly)
	}
	if it.ProductionYear > 0 {
		return strconv.Itoa(it.ProductionYear)
	}
	return ""
}

// toParticipants groups credited people by lower-cased role type.
func toParticipants(people []person) map[string][]mediaprovider.RelatedArtist {
	if len(people) == 0 {
		return nil
	}
	out := make(map[string][]mediaprovider.RelatedArtist)
	for _, p := range people {
		role := strings.ToLower(p.Type)
		if role == "" {
			continue
		}
		out[role] = append(out[role], mediaprovider.RelatedArtist{ID: p.ID, Name: p.Name})
	}
	return out
}

// toTags exposes studios as the label tag alongside free-form item tags.
func toTags(it *item) map[string][]string {
	tags := make(map[string][]string)
	if len(it.Studios) > 0 {
		tags["label"] = sharedutil.MapSlice(it.Studios, func(s nameID) string { return s.Name })
	}
	if len(it.Tags) > 0 {
		tags["tag"] = it.Tags
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func toSong(server *mediaprovider.Server, it *item) *mediaprovider.Song {
	s := &mediaprovider.Song{
		ItemType:       mediaprovider.ItemTypeSong,
		ServerID:       server.ID,
		ServerType:     server.Type,
		ID:             it.ID,
		Name:           it.Name,
		Album:          it.Album,
		AlbumID:        it.AlbumID,
		Artists:        toRelatedArtists(it.ArtistItems),
		AlbumArtists:   toRelatedArtists(it.AlbumArtists),
		Genres:         toRelatedGenres(it),
		Duration:       ticksToDuration(it.RunTimeTicks),
		TrackNumber:    it.IndexNumber,
		DiscNumber:     it.ParentIndexNumber,
		ReleaseYear:    it.ProductionYear,
		ReleaseDate:    releaseDate(it),
		Favorite:       it.UserData.IsFavorite,
		PlayCount:      it.UserData.PlayCount,
		LastPlayedAt:   it.UserData.LastPlayedDate.Time,
		CreatedAt:      it.DateCreated.Time,
		Comment:        it.Overview,
		Path:           it.Path,
		Container:      it.Container,
		Tags:           toTags(it),
		Participants:   toParticipants(it.People),
		Gain:           mediaprovider.ReplayGain{TrackGain: it.NormalizationGain},
		PlaylistItemID: it.PlaylistItemID,
	}
	if len(it.MediaSources) > 0 {
		ms := it.MediaSources[0]
		s.Path = sharedutil.FirstNonEmpty(ms.Path, s.Path)
		s.Size = ms.Size
		s.BitRate = ms.Bitrate / 1000
		s.Container = sharedutil.FirstNonEmpty(ms.Container, s.Container)
	}
	// songs without their own art show the album's
	if tag := it.ImageTags["Primary"]; tag != "" {
		s.ImageURL = imageURL(server, it.ID, tag)
	} else {
		s.ImageURL = imageURL(server, it.AlbumID, it.AlbumPrimaryImageTag)
	}
	return s
}

func toSongs(server *mediaprovider.Server, items []*item) []*mediaprovider.Song {
	return sharedutil.MapSlice(items, func(it *item) *mediaprovider.Song { return toSong(server, it) })
}

func toAlbum(server *mediaprovider.Server, it *item) *mediaprovider.Album {
	al := &mediaprovider.Album{
		ItemType:     mediaprovider.ItemTypeAlbum,
		ServerID:     server.ID,
		ServerType:   server.Type,
		ID:           it.ID,
		Name:         it.Name,
		AlbumArtist:  it.AlbumArtist,
		AlbumArtists: toRelatedArtists(it.AlbumArtists),
		Artists:      toRelatedArtists(it.ArtistItems),
		Genres:       toRelatedGenres(it),
		ReleaseYear:  it.ProductionYear,
		ReleaseDate:  releaseDate(it),
		SongCount:    it.ChildCount,
		Duration:     ticksToDuration(it.RunTimeTicks),
		Favorite:     it.UserData.IsFavorite,
		PlayCount:    it.UserData.PlayCount,
		LastPlayedAt: it.UserData.LastPlayedDate.Time,
		CreatedAt:    it.DateCreated.Time,
		Comment:      it.Overview,
		ImageURL:     imageURL(server, it.ID, it.ImageTags["Primary"]),
		MBID:         it.ProviderIDs["MusicBrainzAlbum"],
		Tags:         toTags(it),
		Participants: toParticipants(it.People),
	}
	if al.AlbumArtist == "" && len(al.AlbumArtists) > 0 {
		al.AlbumArtist = al.AlbumArtists[0].Name
	}
	return al
}

func toAlbums(server *mediaprovider.Server, items []*item) []*mediaprovider.Album {
	return sharedutil.MapSlice(items, func(it *item) *mediaprovider.Album { return toAlbum(server, it) })
}

func toAlbumArtist(server *mediaprovider.Server, it *item) *mediaprovider.AlbumArtist {
	return &mediaprovider.AlbumArtist{
		ItemType:     mediaprovider.ItemTypeAlbumArtist,
		ServerID:     server.ID,
		ServerType:   server.Type,
		ID:           it.ID,
		Name:         it.Name,
		AlbumCount:   countOrUnknown(it.AlbumCount),
		SongCount:    countOrUnknown(it.SongCount),
		Duration:     ticksToDuration(it.RunTimeTicks),
		Genres:       toRelatedGenres(it),
		Favorite:     it.UserData.IsFavorite,
		PlayCount:    it.UserData.PlayCount,
		LastPlayedAt: it.UserData.LastPlayedDate.Time,
		Biography:    it.Overview,
		ImageURL:     imageURL(server, it.ID, it.ImageTags["Primary"]),
		MBID:         it.ProviderIDs["MusicBrainzArtist"],
	}
}

func toArtist(server *mediaprovider.Server, it *item) *mediaprovider.Artist {
	return &mediaprovider.Artist{
		ItemType:   mediaprovider.ItemTypeArtist,
		ServerID:   server.ID,
		ServerType: server.Type,
		ID:         it.ID,
		Name:       it.Name,
		AlbumCount: countOrUnknown(it.AlbumCount),
		ImageURL:   imageURL(server, it.ID, it.ImageTags["Primary"]),
	}
}

func toGenre(server *mediaprovider.Server, it *item) *mediaprovider.Genre {
	return &mediaprovider.Genre{
		ItemType:   mediaprovider.ItemTypeGenre,
		ServerID:   server.ID,
		ServerType: server.Type,
		ID:         it.ID,
		Name:       it.Name,
		AlbumCount: countOrUnknown(it.AlbumCount),
		SongCount:  countOrUnknown(it.SongCount),
		ImageURL:   imageURL(server, it.ID, it.ImageTags["Primary"]),
	}
}

// toPlaylist normalizes a playlist item. Jellyfin does not report the
// owner on the item, so it is only known for playlists this user lists.
func toPlaylist(server *mediaprovider.Server, it *item) *mediaprovider.Playlist {
	return &mediaprovider.Playlist{
		ItemType:    mediaprovider.ItemTypePlaylist,
		ServerID:    server.ID,
		ServerType:  server.Type,
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Overview,
		Owner:       server.Username,
		OwnerID:     server.UserID,
		Duration:    ticksToDuration(it.RunTimeTicks),
		SongCount:   it.ChildCount,
		ImageURL:    imageURL(server, it.ID, it.ImageTags["Primary"]),
		CreatedAt:   it.DateCreated.Time,
	}
}

func toUser(server *mediaprovider.Server, u *user) *mediaprovider.User {
	return &mediaprovider.User{
		ItemType:    mediaprovider.ItemTypeUser,
		ServerID:    server.ID,
		ServerType:  server.Type,
		ID:          u.ID,
		Name:        u.Name,
		IsAdmin:     u.Policy.IsAdministrator,
		LastLoginAt: u.LastLoginDate.Time,
	}
}

func toLyrics(l *lyricsResponse) *mediaprovider.Lyrics {
	return &mediaprovider.Lyrics{
		Artist: l.Metadata.Artist,
		Title:  l.Metadata.Title,
		Synced: l.Metadata.IsSynced || (len(l.Lyrics) > 0 && l.Lyrics[0].Start > 0),
		Lines: sharedutil.MapSlice(l.Lyrics, func(ll lyricLine) mediaprovider.LyricLine {
			return mediaprovider.LyricLine{Text: ll.Text, Start: ticksToDuration(ll.Start)}
		}),
	}
}
