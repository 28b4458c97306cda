package navidrome

import (
	"strconv"
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

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func countOrUnknown(n *int) int {
	if n == nil {
		return mediaprovider.UnknownCount
	}
	return *n
}

// participant roles that populate Artists and AlbumArtists
const (
	roleArtist      = "artist"
	roleAlbumArtist = "albumartist"
)

func related(id, name string) []mediaprovider.RelatedArtist {
	if id == "" && name == "" {
		return nil
	}
	return []mediaprovider.RelatedArtist{{ID: id, Name: name}}
}

func participantsFor(p map[string][]ndParticipant, role string) []mediaprovider.RelatedArtist {
	return sharedutil.MapSlice(p[role], func(a ndParticipant) mediaprovider.RelatedArtist {
		return mediaprovider.RelatedArtist{ID: a.ID, Name: a.Name}
	})
}

func toParticipants(p map[string][]ndParticipant) map[string][]mediaprovider.RelatedArtist {
	if len(p) == 0 {
		return nil
	}
	out := make(map[string][]mediaprovider.RelatedArtist, len(p))
	for role, as := range p {
		for _, a := range as {
			r := role
			if a.SubRole != "" {
				r += " (" + a.SubRole + ")"
			}
			out[r] = append(out[r], mediaprovider.RelatedArtist{ID: a.ID, Name: a.Name})
		}
	}
	return out
}

func toRelatedGenres(gs []ndGenre, fallback string) []mediaprovider.RelatedGenre {
	if len(gs) == 0 {
		if fallback == "" {
			return nil
		}
		return []mediaprovider.RelatedGenre{{ID: fallback, Name: fallback}}
	}
	return sharedutil.MapSlice(gs, func(g ndGenre) mediaprovider.RelatedGenre {
		return mediaprovider.RelatedGenre{ID: g.ID, Name: g.Name}
	})
}

// recordLabelTag is what Navidrome calls the label tag.
const recordLabelTag = "recordlabel"

// normalizeTags copies the record label under the common "label" key.
func normalizeTags(tags map[string][]string) map[string][]string {
	if len(tags) == 0 {
		return nil
	}
	if _, ok := tags["label"]; !ok {
		if l, ok := tags[recordLabelTag]; ok {
			tags["label"] = l
		}
	}
	return tags
}

func (c *Controller) toSong(server *mediaprovider.Server, s *ndSong) *mediaprovider.Song {
	id := s.ID
	if s.MediaFileID != "" {
		id = s.MediaFileID
	}
	song := &mediaprovider.Song{
		ItemType:     mediaprovider.ItemTypeSong,
		ServerID:     server.ID,
		ServerType:   server.Type,
		ID:           id,
		Name:         s.Title,
		Album:        s.Album,
		AlbumID:      s.AlbumID,
		Genres:       toRelatedGenres(s.Genres, s.Genre),
		Duration:     seconds(s.Duration),
		TrackNumber:  s.TrackNumber,
		DiscNumber:   s.DiscNumber,
		ReleaseYear:  s.Year,
		ReleaseDate:  s.Date,
		Favorite:     s.Starred,
		UserRating:   ratingPtr(s.Rating),
		PlayCount:    s.PlayCount,
		LastPlayedAt: timeOrZero(s.PlayDate),
		CreatedAt:    timeOrZero(s.CreatedAt),
		UpdatedAt:    timeOrZero(s.UpdatedAt),
		Comment:      s.Comment,
		Path:         s.Path,
		Size:         s.Size,
		BitRate:      s.BitRate,
		Container:    s.Suffix,
		ImageURL:     c.sub.CoverArtURL(server, id),
		Tags:         normalizeTags(s.Tags),
		Participants: toParticipants(s.Participants),
		Gain: mediaprovider.ReplayGain{
			AlbumGain: s.RGAlbumGain,
			TrackGain: s.RGTrackGain,
			AlbumPeak: s.RGAlbumPeak,
			TrackPeak: s.RGTrackPeak,
		},
	}
	if s.MediaFileID != "" {
		song.PlaylistItemID = s.ID
	}
	if song.ReleaseDate == "" && s.Year > 0 {
		song.ReleaseDate = strconv.Itoa(s.Year)
	}
	song.Artists = participantsFor(s.Participants, roleArtist)
	if len(song.Artists) == 0 {
		song.Artists = related(s.ArtistID, s.Artist)
	}
	song.AlbumArtists = participantsFor(s.Participants, roleAlbumArtist)
	if len(song.AlbumArtists) == 0 {
		song.AlbumArtists = related(s.AlbumArtistID, s.AlbumArtist)
	}
	return song
}

func (c *Controller) toSongs(server *mediaprovider.Server, ss []*ndSong) []*mediaprovider.Song {
	return sharedutil.MapSlice(ss, func(s *ndSong) *mediaprovider.Song {
		return c.toSong(server, s)
	})
}

func (c *Controller) toAlbum(server *mediaprovider.Server, al *ndAlbum) *mediaprovider.Album {
	a := &mediaprovider.Album{
		ItemType:      mediaprovider.ItemTypeAlbum,
		ServerID:      server.ID,
		ServerType:    server.Type,
		ID:            al.ID,
		Name:          al.Name,
		AlbumArtist:   al.AlbumArtist,
		Genres:        toRelatedGenres(al.Genres, al.Genre),
		ReleaseYear:   al.MaxYear,
		ReleaseDate:   sharedutil.FirstNonEmpty(al.ReleaseDate, al.Date),
		SongCount:     al.SongCount,
		Duration:      seconds(al.Duration),
		IsCompilation: al.Compilation,
		Favorite:      al.Starred,
		UserRating:    ratingPtr(al.Rating),
		PlayCount:     al.PlayCount,
		LastPlayedAt:  timeOrZero(al.PlayDate),
		CreatedAt:     timeOrZero(al.CreatedAt),
		UpdatedAt:     timeOrZero(al.UpdatedAt),
		Comment:       al.Comment,
		ImageURL:      c.sub.CoverArtURL(server, al.ID),
		MBID:          al.MBZAlbumID,
		Tags:          normalizeTags(al.Tags),
		Participants:  toParticipants(al.Participants),
	}
	if a.ReleaseDate == "" && al.MaxYear > 0 {
		a.ReleaseDate = strconv.Itoa(al.MaxYear)
	}
	a.AlbumArtists = participantsFor(al.Participants, roleAlbumArtist)
	if len(a.AlbumArtists) == 0 {
		a.AlbumArtists = related(al.AlbumArtistID, al.AlbumArtist)
	}
	a.Artists = participantsFor(al.Participants, roleArtist)
	if len(a.Artists) == 0 {
		a.Artists = related(al.ArtistID, al.Artist)
	}
	return a
}

func (c *Controller) toAlbums(server *mediaprovider.Server, als []*ndAlbum) []*mediaprovider.Album {
	return sharedutil.MapSlice(als, func(al *ndAlbum) *mediaprovider.Album {
		return c.toAlbum(server, al)
	})
}

// artistCoverArtURL is the proxied artist image. List views use it in place
// of the external image URLs so many artists do not hot-link external hosts.
func (c *Controller) artistCoverArtURL(server *mediaprovider.Server, id string) string {
	return c.sub.CoverArtURL(server, "ar-"+id)
}

// toAlbumArtist normalizes an artist for a list view. Album and song counts
// come from the album artist role stats when the server reports them.
func (c *Controller) toAlbumArtist(server *mediaprovider.Server, ar *ndArtist) *mediaprovider.AlbumArtist {
	aa := &mediaprovider.AlbumArtist{
		ItemType:     mediaprovider.ItemTypeAlbumArtist,
		ServerID:     server.ID,
		ServerType:   server.Type,
		ID:           ar.ID,
		Name:         ar.Name,
		AlbumCount:   ar.AlbumCount,
		SongCount:    ar.SongCount,
		Genres:       toRelatedGenres(ar.Genres, ""),
		Favorite:     ar.Starred,
		UserRating:   ratingPtr(ar.Rating),
		PlayCount:    ar.PlayCount,
		LastPlayedAt: timeOrZero(ar.PlayDate),
		ImageURL:     c.artistCoverArtURL(server, ar.ID),
		MBID:         ar.MBZArtistID,
	}
	if st, ok := ar.Stats[roleAlbumArtist]; ok {
		aa.AlbumCount = st.AlbumCount
		aa.SongCount = st.SongCount
	}
	return aa
}

func (c *Controller) toArtist(server *mediaprovider.Server, ar *ndArtist) *mediaprovider.Artist {
	return &mediaprovider.Artist{
		ItemType:   mediaprovider.ItemTypeArtist,
		ServerID:   server.ID,
		ServerType: server.Type,
		ID:         ar.ID,
		Name:       ar.Name,
		AlbumCount: ar.AlbumCount,
		ImageURL:   c.artistCoverArtURL(server, ar.ID),
	}
}

func (c *Controller) toPlaylist(server *mediaprovider.Server, pl *ndPlaylist) *mediaprovider.Playlist {
	return &mediaprovider.Playlist{
		ItemType:    mediaprovider.ItemTypePlaylist,
		ServerID:    server.ID,
		ServerType:  server.Type,
		ID:          pl.ID,
		Name:        pl.Name,
		Description: pl.Comment,
		Public:      pl.Public,
		Owner:       pl.OwnerName,
		OwnerID:     pl.OwnerID,
		Duration:    seconds(pl.Duration),
		SongCount:   pl.SongCount,
		Size:        pl.Size,
		ImageURL:    c.sub.CoverArtURL(server, "pl-"+pl.ID),
		CreatedAt:   timeOrZero(pl.CreatedAt),
		UpdatedAt:   timeOrZero(pl.UpdatedAt),
		Rules:       pl.Rules,
		Sync:        pl.Sync,
	}
}

func toGenre(server *mediaprovider.Server, g *ndGenre) *mediaprovider.Genre {
	return &mediaprovider.Genre{
		ItemType:   mediaprovider.ItemTypeGenre,
		ServerID:   server.ID,
		ServerType: server.Type,
		ID:         g.ID,
		Name:       g.Name,
		AlbumCount: countOrUnknown(g.AlbumCount),
		SongCount:  countOrUnknown(g.SongCount),
	}
}

func toUser(server *mediaprovider.Server, u *ndUser) *mediaprovider.User {
	return &mediaprovider.User{
		ItemType:    mediaprovider.ItemTypeUser,
		ServerID:    server.ID,
		ServerType:  server.Type,
		ID:          u.ID,
		Name:        sharedutil.FirstNonEmpty(u.UserName, u.Name),
		Email:       u.Email,
		IsAdmin:     u.IsAdmin,
		CreatedAt:   timeOrZero(u.CreatedAt),
		UpdatedAt:   timeOrZero(u.UpdatedAt),
		LastLoginAt: timeOrZero(u.LastLoginAt),
	}
}
