// Package navidrome implements the Navidrome native REST API controller.
// Operations the native API has no special behavior for are delegated to
// the Subsonic controller, which Navidrome also speaks.
package navidrome

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dweymouth/sonicbridge/backend/apiclient"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/subsonic"
)

const (
	authHeader       = "x-nd-authorization"
	totalCountHeader = "x-total-count"
)

type Controller struct {
	client *apiclient.Client
	sub    *subsonic.Controller
}

var _ mediaprovider.ControllerEndpoint = (*Controller)(nil)

func NewController(client *apiclient.Client, sub *subsonic.Controller) *Controller {
	return &Controller{client: client, sub: sub}
}

func statusError(status int) error {
	if status == http.StatusNotFound {
		return mediaprovider.ErrNotFound
	}
	return errors.New(http.StatusText(status))
}

// call issues a native API request and fails on any non-2xx status.
// If v is non-nil the body is decoded into it.
func (c *Controller) call(ctx context.Context, server *mediaprovider.Server, op string, req apiclient.Request, v any) (*apiclient.Response, error) {
	if req.Header == nil {
		req.Header = http.Header{}
	}
	if server.NDCredential != "" {
		req.Header.Set(authHeader, "Bearer "+server.NDCredential)
	}
	resp, err := c.client.Do(ctx, server.URL, req)
	if err != nil {
		return nil, mediaprovider.OpError(op, 0, err)
	}
	if !resp.OK() {
		return nil, mediaprovider.OpError(op, resp.Status, statusError(resp.Status))
	}
	if v != nil {
		if err := resp.JSON(v); err != nil {
			return nil, mediaprovider.OpError(op, resp.Status, fmt.Errorf("decoding response: %w", err))
		}
	}
	return resp, nil
}

func (c *Controller) get(ctx context.Context, server *mediaprovider.Server, op, path string, params map[string]string, query url.Values, v any) (*apiclient.Response, error) {
	return c.call(ctx, server, op, apiclient.Request{Path: path, Params: params, Query: query}, v)
}

// recordCount reads the x-total-count header. Without one, an unpaged
// request is known to have returned everything.
func recordCount(resp *apiclient.Response, page mediaprovider.Paging, n int) int {
	total, err := strconv.Atoi(resp.Header.Get(totalCountHeader))
	if err == nil {
		return total
	}
	if page.StartIndex == 0 && page.Limit == 0 {
		return n
	}
	return mediaprovider.UnknownCount
}

func listResponse[T any](items []*T, page mediaprovider.Paging, resp *apiclient.Response) *mediaprovider.ListResponse[T] {
	return &mediaprovider.ListResponse[T]{
		Items:            items,
		StartIndex:       page.StartIndex,
		TotalRecordCount: recordCount(resp, page, len(items)),
	}
}

// Authenticate logs in to the native API. The returned credential also
// carries the Subsonic salt/token pair used by delegated operations.
func (c *Controller) Authenticate(ctx context.Context, serverURL, username, password string, _ bool) (*mediaprovider.AuthResult, error) {
	const op = "authenticate"
	var login loginResponse
	_, err := c.call(ctx, &mediaprovider.Server{URL: serverURL}, op, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   loginRequest{Username: username, Password: password},
	}, &login)
	if err != nil {
		return nil, err
	}
	if login.Token == "" {
		return nil, mediaprovider.OpError(op, 0, errors.New("server returned no token"))
	}
	cred := url.Values{}
	cred.Set("u", username)
	if login.SubsonicSalt != "" && login.SubsonicToken != "" {
		cred.Set("s", login.SubsonicSalt)
		cred.Set("t", login.SubsonicToken)
	} else {
		cred, _ = url.ParseQuery(subsonic.EncodeCredential(username, password, false))
	}
	return &mediaprovider.AuthResult{
		Username:     login.Username,
		UserID:       login.ID,
		Credential:   cred.Encode(),
		NDCredential: login.Token,
	}, nil
}

// bfrVersionTag marks pre-release builds of the bulk file reconciliation
// branch, which behave like the 0.55.0 release.
const (
	bfrVersionTag     = "pr-2709"
	bfrReleaseVersion = "0.55.0"
)

// normalizeVersion rewrites the known pre-release version string to its
// released equivalent. It is applied before any version parsing.
func normalizeVersion(v string) string {
	if strings.Contains(v, bfrVersionTag) {
		return bfrReleaseVersion
	}
	return v
}

var VersionTable = mediaprovider.VersionTable{
	{MinVersion: "0.0.0", Features: mediaprovider.Features{mediaprovider.FeaturePublicPlaylist: {1}}},
	{MinVersion: "0.48.0", Features: mediaprovider.Features{mediaprovider.FeatureSmartPlaylists: {1}}},
	{MinVersion: "0.49.3", Features: mediaprovider.Features{mediaprovider.FeatureSharingAlbumSong: {1}}},
	{MinVersion: "0.53.0", Features: mediaprovider.Features{mediaprovider.FeatureLyricsMultipleStructured: {1}}},
	{MinVersion: "0.55.0", Features: mediaprovider.Features{
		mediaprovider.FeatureBFR:  {1},
		mediaprovider.FeatureTags: {1},
	}},
}

func (c *Controller) GetServerInfo(ctx context.Context, server *mediaprovider.Server) (*mediaprovider.ServerInfo, error) {
	ping, err := c.sub.Ping(ctx, server)
	if err != nil {
		return nil, err
	}
	version := normalizeVersion(ping.ServerVersion)
	features := VersionTable.Resolve(version)
	return &mediaprovider.ServerInfo{
		ID:       server.ID,
		Version:  version,
		Features: mediaprovider.ApplyExtensions(features, ping.Extensions, subsonic.ExtensionMap),
	}, nil
}
