package subsonic

import (
	"context"
	"strconv"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/helpers"
	"github.com/dweymouth/sonicbridge/sharedutil"
)

type createPlaylistRequest struct {
	PlaylistID string   `url:"playlistId,omitempty"`
	Name       string   `url:"name,omitempty"`
	SongID     []string `url:"songId,omitempty"`
}

type updatePlaylistRequest struct {
	PlaylistID        string   `url:"playlistId"`
	Name              string   `url:"name,omitempty"`
	Comment           *string  `url:"comment,omitempty"`
	Public            *bool    `url:"public,omitempty"`
	SongIDToAdd       []string `url:"songIdToAdd,omitempty"`
	SongIndexToRemove []string `url:"songIndexToRemove,omitempty"`
}

func (c *Controller) GetPlaylistList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.PlaylistListQuery) (*mediaprovider.ListResponse[mediaprovider.Playlist], error) {
	resp, err := c.get(ctx, server, "get playlist list", "getPlaylists", nil)
	if err != nil {
		return nil, err
	}
	var pls []*playlist
	if resp.Playlists != nil {
		pls = resp.Playlists.Playlist
	}
	items := sharedutil.FilterMapSlice(pls, func(pl *playlist) (*mediaprovider.Playlist, bool) {
		return c.toPlaylist(server, pl), helpers.MatchesSearch(pl.Name, query.SearchTerm)
	})
	return helpers.Page(helpers.SortPlaylists(items, query.SortBy, query.SortOrder), query.Paging), nil
}

func (c *Controller) GetPlaylistListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.PlaylistListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetPlaylistList)
}

func (c *Controller) getPlaylist(ctx context.Context, server *mediaprovider.Server, op, id string) (*playlist, error) {
	resp, err := c.get(ctx, server, op, "getPlaylist", idRequest{ID: id})
	if err != nil {
		return nil, err
	}
	if resp.Playlist == nil {
		return nil, mediaprovider.OpError(op, 0, mediaprovider.ErrNotFound)
	}
	return resp.Playlist, nil
}

func (c *Controller) GetPlaylistDetail(ctx context.Context, server *mediaprovider.Server, id string) (*mediaprovider.Playlist, error) {
	pl, err := c.getPlaylist(ctx, server, "get playlist detail", id)
	if err != nil {
		return nil, err
	}
	return c.toPlaylist(server, pl), nil
}

// GetPlaylistSongList returns playlist entries. Subsonic addresses
// entries by position, so PlaylistItemID is the entry's index.
func (c *Controller) GetPlaylistSongList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.PlaylistSongListQuery) (*mediaprovider.ListResponse[mediaprovider.Song], error) {
	pl, err := c.getPlaylist(ctx, server, "get playlist songs", query.ID)
	if err != nil {
		return nil, err
	}
	songs := make([]*mediaprovider.Song, len(pl.Entry))
	for i, e := range pl.Entry {
		songs[i] = c.toSong(server, e)
		songs[i].PlaylistItemID = strconv.Itoa(i)
	}
	if query.SortBy != "" {
		songs = helpers.SortSongs(songs, query.SortBy, query.SortOrder)
	}
	return helpers.Page(songs, query.Paging), nil
}

func (c *Controller) CreatePlaylist(ctx context.Context, server *mediaprovider.Server, body mediaprovider.PlaylistBody) (*mediaprovider.Playlist, error) {
	const op = "create playlist"
	resp, err := c.get(ctx, server, op, "createPlaylist", createPlaylistRequest{Name: body.Name})
	if err != nil {
		return nil, err
	}
	if resp.Playlist == nil {
		return nil, mediaprovider.OpError(op, 0, mediaprovider.ErrNotFound)
	}
	pl := resp.Playlist
	if body.Description != "" || body.Public {
		if _, err := c.get(ctx, server, op, "updatePlaylist", updatePlaylistRequest{
			PlaylistID: string(pl.ID),
			Comment:    &body.Description,
			Public:     &body.Public,
		}); err != nil {
			return nil, err
		}
		pl.Comment = body.Description
		pl.Public = body.Public
	}
	return c.toPlaylist(server, pl), nil
}

func (c *Controller) UpdatePlaylist(ctx context.Context, server *mediaprovider.Server, id string, body mediaprovider.PlaylistBody) error {
	_, err := c.get(ctx, server, "update playlist", "updatePlaylist", updatePlaylistRequest{
		PlaylistID: id,
		Name:       body.Name,
		Comment:    &body.Description,
		Public:     &body.Public,
	})
	return err
}

func (c *Controller) DeletePlaylist(ctx context.Context, server *mediaprovider.Server, id string) error {
	_, err := c.get(ctx, server, "delete playlist", "deletePlaylist", idRequest{ID: id})
	return err
}

func (c *Controller) AddToPlaylist(ctx context.Context, server *mediaprovider.Server, id string, songIDs []string) error {
	_, err := c.get(ctx, server, "add to playlist", "updatePlaylist", updatePlaylistRequest{
		PlaylistID:  id,
		SongIDToAdd: songIDs,
	})
	return err
}

func (c *Controller) RemoveFromPlaylist(ctx context.Context, server *mediaprovider.Server, id string, itemIDs []string) error {
	_, err := c.get(ctx, server, "remove from playlist", "updatePlaylist", updatePlaylistRequest{
		PlaylistID:        id,
		SongIndexToRemove: itemIDs,
	})
	return err
}

// MovePlaylistItem has no protocol call, so the playlist's song list is
// rewritten in the new order via createPlaylist's replace mode.
func (c *Controller) MovePlaylistItem(ctx context.Context, server *mediaprovider.Server, id, itemID string, newIndex int) error {
	const op = "move playlist item"
	from, err := strconv.Atoi(itemID)
	if err != nil {
		return mediaprovider.OpError(op, 0, err)
	}
	pl, err := c.getPlaylist(ctx, server, op, id)
	if err != nil {
		return err
	}
	if from < 0 || from >= len(pl.Entry) {
		return mediaprovider.OpError(op, 0, mediaprovider.ErrNotFound)
	}
	ids := sharedutil.MapSlice(pl.Entry, func(e *child) string { return string(e.ID) })
	_, err = c.get(ctx, server, op, "createPlaylist", createPlaylistRequest{
		PlaylistID: id,
		SongID:     sharedutil.MoveItem(ids, from, newIndex),
	})
	return err
}

func (c *Controller) GetUserList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.UserListQuery) (*mediaprovider.ListResponse[mediaprovider.User], error) {
	resp, err := c.get(ctx, server, "get user list", "getUsers", nil)
	if err != nil {
		return nil, err
	}
	var us []*user
	if resp.Users != nil {
		us = resp.Users.User
	}
	items := sharedutil.FilterMapSlice(us, func(u *user) (*mediaprovider.User, bool) {
		return toUser(server, u), helpers.MatchesSearch(u.Username, query.SearchTerm)
	})
	return helpers.Page(helpers.SortUsers(items, query.SortBy, query.SortOrder), query.Paging), nil
}

func (c *Controller) GetMusicFolderList(ctx context.Context, server *mediaprovider.Server) (*mediaprovider.ListResponse[mediaprovider.MusicFolder], error) {
	resp, err := c.get(ctx, server, "get music folder list", "getMusicFolders", nil)
	if err != nil {
		return nil, err
	}
	var folders []*mediaprovider.MusicFolder
	if resp.MusicFolders != nil {
		folders = sharedutil.MapSlice(resp.MusicFolders.MusicFolder, func(f folderEntry) *mediaprovider.MusicFolder {
			return &mediaprovider.MusicFolder{
				ItemType:   mediaprovider.ItemTypeMusicFolder,
				ServerID:   server.ID,
				ServerType: server.Type,
				ID:         string(f.ID),
				Name:       f.Name,
			}
		})
	}
	return helpers.Page(folders, mediaprovider.Paging{}), nil
}
