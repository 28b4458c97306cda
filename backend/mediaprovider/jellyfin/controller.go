// Package jellyfin implements the Jellyfin REST API controller.
package jellyfin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dweymouth/sonicbridge/backend/apiclient"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
)

const (
	// one tick is 100ns
	ticksPerMicrosecond = 10

	// Jellyfin has no bulk favorite endpoint
	maxParallelFavorites = 5
)

type Controller struct {
	client        *apiclient.Client
	clientName    string
	clientVersion string
	deviceID      string
}

var _ mediaprovider.ControllerEndpoint = (*Controller)(nil)

// NewController creates a Jellyfin controller. The device id identifies this
// client installation to the server; a random one is generated if empty.
func NewController(client *apiclient.Client, clientName, clientVersion, deviceID string) *Controller {
	if deviceID == "" {
		deviceID = uuid.NewString()
	}
	return &Controller{
		client:        client,
		clientName:    clientName,
		clientVersion: clientVersion,
		deviceID:      deviceID,
	}
}

func (c *Controller) DeviceID() string {
	return c.deviceID
}

func (c *Controller) authorization(token string) string {
	fields := []string{
		fmt.Sprintf("Client=%q", c.clientName),
		fmt.Sprintf("Device=%q", c.clientName),
		fmt.Sprintf("DeviceId=%q", c.deviceID),
		fmt.Sprintf("Version=%q", c.clientVersion),
	}
	if token != "" {
		fields = append(fields, fmt.Sprintf("Token=%q", token))
	}
	return "MediaBrowser " + strings.Join(fields, ", ")
}

func statusError(status int) error {
	if status == http.StatusNotFound {
		return mediaprovider.ErrNotFound
	}
	return errors.New(http.StatusText(status))
}

// call issues a request and fails on any non-2xx status.
// If v is non-nil the body is decoded into it.
func (c *Controller) call(ctx context.Context, server *mediaprovider.Server, op string, req apiclient.Request, v any) error {
	if req.Header == nil {
		req.Header = http.Header{}
	}
	req.Header.Set("Authorization", c.authorization(server.Credential))
	resp, err := c.client.Do(ctx, server.URL, req)
	if err != nil {
		return mediaprovider.OpError(op, 0, err)
	}
	if !resp.OK() {
		return mediaprovider.OpError(op, resp.Status, statusError(resp.Status))
	}
	if v != nil {
		if err := resp.JSON(v); err != nil {
			return mediaprovider.OpError(op, resp.Status, fmt.Errorf("decoding response: %w", err))
		}
	}
	return nil
}

func (c *Controller) get(ctx context.Context, server *mediaprovider.Server, op, path string, params map[string]string, query any, v any) error {
	return c.call(ctx, server, op, apiclient.Request{Path: path, Params: params, Query: query}, v)
}

func userParams(server *mediaprovider.Server, extra map[string]string) map[string]string {
	p := map[string]string{"userId": server.UserID}
	for k, v := range extra {
		p[k] = v
	}
	return p
}

// Authenticate signs in by name. The access token becomes the credential.
func (c *Controller) Authenticate(ctx context.Context, serverURL, username, password string, _ bool) (*mediaprovider.AuthResult, error) {
	var auth authResponse
	err := c.call(ctx, &mediaprovider.Server{URL: serverURL}, "authenticate", apiclient.Request{
		Method: http.MethodPost,
		Path:   "/Users/AuthenticateByName",
		Body:   authRequest{Username: username, Pw: password},
	}, &auth)
	if err != nil {
		return nil, err
	}
	if auth.AccessToken == "" {
		return nil, mediaprovider.OpError("authenticate", 0, errors.New("server returned no access token"))
	}
	return &mediaprovider.AuthResult{
		Username:   auth.User.Name,
		UserID:     auth.User.ID,
		Credential: auth.AccessToken,
	}, nil
}

var VersionTable = mediaprovider.VersionTable{
	{MinVersion: "10.0.0", Features: mediaprovider.Features{mediaprovider.FeatureTags: {1}}},
	{MinVersion: "10.9.0", Features: mediaprovider.Features{
		mediaprovider.FeatureLyricsSingleStructured: {1},
		mediaprovider.FeaturePublicPlaylist:         {1},
	}},
}

func (c *Controller) GetServerInfo(ctx context.Context, server *mediaprovider.Server) (*mediaprovider.ServerInfo, error) {
	var info systemInfo
	if err := c.get(ctx, server, "get server info", "/System/Info", nil, nil, &info); err != nil {
		return nil, err
	}
	return &mediaprovider.ServerInfo{
		ID:       server.ID,
		Version:  info.Version,
		Features: VersionTable.Resolve(info.Version),
	}, nil
}
