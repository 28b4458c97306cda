package jellyfin

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/dweymouth/sonicbridge/backend/apiclient"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/helpers"
	"github.com/dweymouth/sonicbridge/sharedutil"
)

const mediaTypeAudio = "Audio"

func (c *Controller) GetPlaylistList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.PlaylistListQuery) (*mediaprovider.ListResponse[mediaprovider.Playlist], error) {
	q := itemsQuery{
		IncludeItemTypes: itemTypePlaylist,
		MediaTypes:       mediaTypeAudio,
		Recursive:        true,
		SearchTerm:       query.SearchTerm,
	}
	q.page(query.Paging)
	q.sort(playlistListSorts[query.SortBy], query.SortOrder)
	resp, err := c.listItems(ctx, server, "get playlist list", userItemsPath, userParams(server, nil), q, query.Custom)
	if err != nil {
		return nil, err
	}
	items := sharedutil.MapSlice(resp.Items, func(it *item) *mediaprovider.Playlist { return toPlaylist(server, it) })
	return listResponse(items, query.Paging, resp), nil
}

func (c *Controller) GetPlaylistListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.PlaylistListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetPlaylistList)
}

// GetPlaylistDetail fetches the playlist item. Servers with public playlists
// also serve the sharing settings, which are joined in best-effort.
func (c *Controller) GetPlaylistDetail(ctx context.Context, server *mediaprovider.Server, id string) (*mediaprovider.Playlist, error) {
	var (
		it   *item
		info *playlistInfo
	)
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		i, err := c.getItem(ctx, server, "get playlist detail", id)
		it = i
		return err
	})
	if server.HasFeature(mediaprovider.FeaturePublicPlaylist) {
		p.Go(func(ctx context.Context) error {
			var pi playlistInfo
			err := c.get(ctx, server, "get playlist settings", "/Playlists/{id}", map[string]string{"id": id}, nil, &pi)
			if err != nil {
				log.Debug().Err(err).Str("playlistId", id).Msg("playlist settings unavailable")
				return nil
			}
			info = &pi
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	pl := toPlaylist(server, it)
	if info != nil {
		pl.Public = info.OpenAccess
	}
	return pl, nil
}

func (c *Controller) GetPlaylistSongList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.PlaylistSongListQuery) (*mediaprovider.ListResponse[mediaprovider.Song], error) {
	q := itemsQuery{UserID: server.UserID}
	q.page(query.Paging)
	q.sort(songListSorts[query.SortBy], query.SortOrder)
	resp, err := c.listItems(ctx, server, "get playlist songs", "/Playlists/{id}/Items", map[string]string{"id": query.ID}, q, nil)
	if err != nil {
		return nil, err
	}
	return listResponse(toSongs(server, resp.Items), query.Paging, resp), nil
}

func (c *Controller) CreatePlaylist(ctx context.Context, server *mediaprovider.Server, body mediaprovider.PlaylistBody) (*mediaprovider.Playlist, error) {
	const op = "create playlist"
	req := createPlaylistRequest{
		Name:      body.Name,
		IDs:       []string{},
		UserID:    server.UserID,
		MediaType: mediaTypeAudio,
	}
	public := false
	if server.HasFeature(mediaprovider.FeaturePublicPlaylist) {
		public = body.Public
		req.IsPublic = &public
	}
	var created idResponse
	if err := c.call(ctx, server, op, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/Playlists",
		Body:   req,
	}, &created); err != nil {
		return nil, err
	}
	// creation takes no description
	if body.Description != "" {
		if err := c.updateItemMetadata(ctx, server, op, created.ID, body.Name, body.Description); err != nil {
			return nil, err
		}
	}
	return &mediaprovider.Playlist{
		ItemType:    mediaprovider.ItemTypePlaylist,
		ServerID:    server.ID,
		ServerType:  server.Type,
		ID:          created.ID,
		Name:        body.Name,
		Description: body.Description,
		Public:      public,
		Owner:       server.Username,
		OwnerID:     server.UserID,
		ImageURL:    imageURL(server, created.ID, ""),
	}, nil
}

// updateItemMetadata rewrites name and overview through the generic item
// update, which expects the full item back. The item is round-tripped as a
// raw document so fields this package does not model are preserved.
func (c *Controller) updateItemMetadata(ctx context.Context, server *mediaprovider.Server, op, id, name, overview string) error {
	var doc map[string]any
	err := c.get(ctx, server, op, "/Users/{userId}/Items/{id}", userParams(server, map[string]string{"id": id}), nil, &doc)
	if err != nil {
		return err
	}
	doc["Name"] = name
	doc["Overview"] = overview
	return c.call(ctx, server, op, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/Items/{id}",
		Params: map[string]string{"id": id},
		Body:   doc,
	}, nil)
}

func (c *Controller) UpdatePlaylist(ctx context.Context, server *mediaprovider.Server, id string, body mediaprovider.PlaylistBody) error {
	const op = "update playlist"
	if err := c.updateItemMetadata(ctx, server, op, id, body.Name, body.Description); err != nil {
		return err
	}
	if !server.HasFeature(mediaprovider.FeaturePublicPlaylist) {
		return nil
	}
	return c.call(ctx, server, op, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/Playlists/{id}",
		Params: map[string]string{"id": id},
		Body:   updatePlaylistRequest{IsPublic: body.Public},
	}, nil)
}

func (c *Controller) DeletePlaylist(ctx context.Context, server *mediaprovider.Server, id string) error {
	return c.call(ctx, server, "delete playlist", apiclient.Request{
		Method: http.MethodDelete,
		Path:   "/Items/{id}",
		Params: map[string]string{"id": id},
	}, nil)
}

func (c *Controller) AddToPlaylist(ctx context.Context, server *mediaprovider.Server, id string, songIDs []string) error {
	return c.call(ctx, server, "add to playlist", apiclient.Request{
		Method: http.MethodPost,
		Path:   "/Playlists/{id}/Items",
		Params: map[string]string{"id": id},
		Query:  url.Values{"ids": {strings.Join(songIDs, ",")}, "userId": {server.UserID}},
	}, nil)
}

func (c *Controller) RemoveFromPlaylist(ctx context.Context, server *mediaprovider.Server, id string, itemIDs []string) error {
	return c.call(ctx, server, "remove from playlist", apiclient.Request{
		Method: http.MethodDelete,
		Path:   "/Playlists/{id}/Items",
		Params: map[string]string{"id": id},
		Query:  url.Values{"entryIds": {strings.Join(itemIDs, ",")}},
	}, nil)
}

// MovePlaylistItem moves the entry to the zero-based newIndex, which
// Jellyfin takes as is.
func (c *Controller) MovePlaylistItem(ctx context.Context, server *mediaprovider.Server, id, itemID string, newIndex int) error {
	return c.call(ctx, server, "move playlist item", apiclient.Request{
		Method: http.MethodPost,
		Path:   "/Playlists/{id}/Items/{itemId}/Move/{index}",
		Params: map[string]string{"id": id, "itemId": itemID, "index": strconv.Itoa(newIndex)},
	}, nil)
}

// GetUserList needs administrator rights. The server returns every user
// at once, so search, sort and paging are applied locally.
func (c *Controller) GetUserList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.UserListQuery) (*mediaprovider.ListResponse[mediaprovider.User], error) {
	var users []*user
	if err := c.get(ctx, server, "get user list", "/Users", nil, nil, &users); err != nil {
		return nil, err
	}
	items := sharedutil.FilterMapSlice(users, func(u *user) (*mediaprovider.User, bool) {
		return toUser(server, u), helpers.MatchesSearch(u.Name, query.SearchTerm)
	})
	return helpers.Page(helpers.SortUsers(items, query.SortBy, query.SortOrder), query.Paging), nil
}

// GetMusicFolderList lists the user's music libraries.
func (c *Controller) GetMusicFolderList(ctx context.Context, server *mediaprovider.Server) (*mediaprovider.ListResponse[mediaprovider.MusicFolder], error) {
	var resp itemsResponse
	if err := c.get(ctx, server, "get music folders", "/Users/{userId}/Views", userParams(server, nil), nil, &resp); err != nil {
		return nil, err
	}
	folders := sharedutil.FilterMapSlice(resp.Items, func(it *item) (*mediaprovider.MusicFolder, bool) {
		return &mediaprovider.MusicFolder{
			ItemType:   mediaprovider.ItemTypeMusicFolder,
			ServerID:   server.ID,
			ServerType: server.Type,
			ID:         it.ID,
			Name:       it.Name,
		}, it.CollectionType == collectionTypeMusic
	})
	return helpers.Page(folders, mediaprovider.Paging{}), nil
}
