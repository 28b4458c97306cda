package navidrome

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dweymouth/sonicbridge/backend/apiclient"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/helpers"
	"github.com/dweymouth/sonicbridge/sharedutil"
)

type addTracksBody struct {
	IDs []string `json:"ids"`
}

type reorderBody struct {
	InsertBefore string `json:"insert_before"`
}

func (c *Controller) GetPlaylistList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.PlaylistListQuery) (*mediaprovider.ListResponse[mediaprovider.Playlist], error) {
	const op = "get playlist list"
	filter := playlistFilter{Q: query.SearchTerm}
	if nf, ok := mediaprovider.NavidromeParams(query.Custom); ok && server.HasFeature(mediaprovider.FeatureSmartPlaylists) {
		filter.Smart = nf.Smart
	}
	params, err := withFilter(listValues(query.Paging, playlistListSorts[query.SortBy], query.SortOrder), filter, query.Custom)
	if err != nil {
		return nil, mediaprovider.OpError(op, 0, err)
	}
	var pls []*ndPlaylist
	resp, err := c.get(ctx, server, op, "/api/playlist", nil, params, &pls)
	if err != nil {
		return nil, err
	}
	items := sharedutil.MapSlice(pls, func(pl *ndPlaylist) *mediaprovider.Playlist { return c.toPlaylist(server, pl) })
	return listResponse(items, query.Paging, resp), nil
}

func (c *Controller) GetPlaylistListCount(ctx context.Context, server *mediaprovider.Server, query mediaprovider.PlaylistListQuery) (int, error) {
	return helpers.CountFromList(ctx, server, query, c.GetPlaylistList)
}

func (c *Controller) GetPlaylistDetail(ctx context.Context, server *mediaprovider.Server, id string) (*mediaprovider.Playlist, error) {
	var pl ndPlaylist
	if _, err := c.get(ctx, server, "get playlist detail", "/api/playlist/{id}", map[string]string{"id": id}, nil, &pl); err != nil {
		return nil, err
	}
	return c.toPlaylist(server, &pl), nil
}

// GetPlaylistSongList lists playlist entries. Each song's PlaylistItemID is
// the entry id the track endpoints address it by.
func (c *Controller) GetPlaylistSongList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.PlaylistSongListQuery) (*mediaprovider.ListResponse[mediaprovider.Song], error) {
	const op = "get playlist songs"
	sort := songListSorts[query.SortBy]
	if sort == "" {
		// playlist position
		sort = "id"
	}
	var tracks []*ndSong
	resp, err := c.get(ctx, server, op, "/api/playlist/{id}/tracks", map[string]string{"id": query.ID},
		listValues(query.Paging, sort, query.SortOrder), &tracks)
	if err != nil {
		return nil, err
	}
	return listResponse(c.toSongs(server, tracks), query.Paging, resp), nil
}

// playlistBody drops the public flag and smart playlist fields for servers
// that do not support them, even when the caller supplied them.
func playlistBody(server *mediaprovider.Server, body mediaprovider.PlaylistBody) ndPlaylistBody {
	b := ndPlaylistBody{Name: body.Name, Comment: body.Description}
	if server.HasFeature(mediaprovider.FeaturePublicPlaylist) {
		b.Public = &body.Public
	}
	if custom, ok := body.Custom.(mediaprovider.NavidromePlaylistCustom); ok && server.HasFeature(mediaprovider.FeatureSmartPlaylists) {
		b.Rules = custom.Rules
		b.Sync = &custom.Sync
	}
	return b
}

func (c *Controller) CreatePlaylist(ctx context.Context, server *mediaprovider.Server, body mediaprovider.PlaylistBody) (*mediaprovider.Playlist, error) {
	b := playlistBody(server, body)
	var created idResponse
	if _, err := c.call(ctx, server, "create playlist", apiclient.Request{
		Method: http.MethodPost,
		Path:   "/api/playlist",
		Body:   b,
	}, &created); err != nil {
		return nil, err
	}
	pl := &ndPlaylist{ID: created.ID, Name: b.Name, Comment: b.Comment, Rules: b.Rules, OwnerID: server.UserID, OwnerName: server.Username}
	if b.Public != nil {
		pl.Public = *b.Public
	}
	if b.Sync != nil {
		pl.Sync = *b.Sync
	}
	return c.toPlaylist(server, pl), nil
}

func (c *Controller) UpdatePlaylist(ctx context.Context, server *mediaprovider.Server, id string, body mediaprovider.PlaylistBody) error {
	_, err := c.call(ctx, server, "update playlist", apiclient.Request{
		Method: http.MethodPut,
		Path:   "/api/playlist/{id}",
		Params: map[string]string{"id": id},
		Body:   playlistBody(server, body),
	}, nil)
	return err
}

func (c *Controller) DeletePlaylist(ctx context.Context, server *mediaprovider.Server, id string) error {
	_, err := c.call(ctx, server, "delete playlist", apiclient.Request{
		Method: http.MethodDelete,
		Path:   "/api/playlist/{id}",
		Params: map[string]string{"id": id},
	}, nil)
	return err
}

func (c *Controller) AddToPlaylist(ctx context.Context, server *mediaprovider.Server, id string, songIDs []string) error {
	_, err := c.call(ctx, server, "add to playlist", apiclient.Request{
		Method: http.MethodPost,
		Path:   "/api/playlist/{id}/tracks",
		Params: map[string]string{"id": id},
		Body:   addTracksBody{IDs: songIDs},
	}, nil)
	return err
}

func (c *Controller) RemoveFromPlaylist(ctx context.Context, server *mediaprovider.Server, id string, itemIDs []string) error {
	_, err := c.call(ctx, server, "remove from playlist", apiclient.Request{
		Method: http.MethodDelete,
		Path:   "/api/playlist/{id}/tracks",
		Params: map[string]string{"id": id},
		Query:  url.Values{"id": itemIDs},
	}, nil)
	return err
}

// MovePlaylistItem moves the entry to the zero-based newIndex.
// The server takes a one-based position to insert before.
func (c *Controller) MovePlaylistItem(ctx context.Context, server *mediaprovider.Server, id, itemID string, newIndex int) error {
	_, err := c.call(ctx, server, "move playlist item", apiclient.Request{
		Method: http.MethodPut,
		Path:   "/api/playlist/{id}/tracks/{itemId}",
		Params: map[string]string{"id": id, "itemId": itemID},
		Body:   reorderBody{InsertBefore: strconv.Itoa(newIndex + 1)},
	}, nil)
	return err
}

func (c *Controller) GetUserList(ctx context.Context, server *mediaprovider.Server, query mediaprovider.UserListQuery) (*mediaprovider.ListResponse[mediaprovider.User], error) {
	const op = "get user list"
	params, err := withFilter(listValues(query.Paging, userListSorts[query.SortBy], query.SortOrder),
		nameFilter{Name: query.SearchTerm}, nil)
	if err != nil {
		return nil, mediaprovider.OpError(op, 0, err)
	}
	var users []*ndUser
	resp, err := c.get(ctx, server, op, "/api/user", nil, params, &users)
	if err != nil {
		return nil, err
	}
	items := sharedutil.MapSlice(users, func(u *ndUser) *mediaprovider.User { return toUser(server, u) })
	return listResponse(items, query.Paging, resp), nil
}
