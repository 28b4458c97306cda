package subsonic

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/go-querystring/query"
	"go.mau.fi/util/random"

	"github.com/dweymouth/sonicbridge/backend/apiclient"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
)

const (
	apiVersion = "1.13.0"
	saltLength = 12
)

var errNoSubsonicResponse = errors.New("server returned invalid JSON")

// ExtensionMap maps OpenSubsonic extensions to the features they provide.
var ExtensionMap = mediaprovider.ExtensionMap{
	"songLyrics":      mediaprovider.FeatureLyricsMultipleStructured,
	"formPost":        mediaprovider.FeatureFormPost,
	"transcodeOffset": mediaprovider.FeatureTranscodeOffset,
}

// Controller speaks the Subsonic REST API, including OpenSubsonic extensions.
type Controller struct {
	client     *apiclient.Client
	clientName string
}

var _ mediaprovider.ControllerEndpoint = (*Controller)(nil)

func NewController(client *apiclient.Client, clientName string) *Controller {
	return &Controller{client: client, clientName: clientName}
}

// EncodeCredential builds the stored auth query for a Subsonic-family server.
// The password itself is never part of the result unless legacy is set,
// in which case it is hex encoded as the protocol requires.
func EncodeCredential(username, password string, legacy bool) string {
	v := url.Values{}
	v.Set("u", username)
	if legacy {
		v.Set("p", "enc:"+hex.EncodeToString([]byte(password)))
		return v.Encode()
	}
	salt := random.String(saltLength)
	hash := md5.Sum([]byte(password + salt))
	v.Set("s", salt)
	v.Set("t", hex.EncodeToString(hash[:]))
	return v.Encode()
}

func (c *Controller) baseParams(server *mediaprovider.Server) url.Values {
	params, err := url.ParseQuery(server.Credential)
	if err != nil {
		params = url.Values{}
	}
	params.Set("v", apiVersion)
	params.Set("c", c.clientName)
	params.Set("f", "json")
	return params
}

// restURL builds a fully authenticated URL, for endpoints that are
// consumed directly (streams, downloads, images) rather than through get.
func (c *Controller) restURL(server *mediaprovider.Server, method string, extra url.Values) string {
	params := c.baseParams(server)
	params.Del("f")
	for k, vs := range extra {
		params[k] = vs
	}
	u, err := apiclient.BuildURL(server.URL, apiclient.Request{
		Path:  "/rest/" + method + ".view",
		Query: params,
	})
	if err != nil {
		return ""
	}
	return u
}

func (c *Controller) coverArtURL(server *mediaprovider.Server, id string) string {
	if id == "" {
		return ""
	}
	return c.restURL(server, "getCoverArt", url.Values{"id": {id}, "size": {"300"}})
}

// get calls a REST method and checks both the HTTP status and the Subsonic
// response status. req is either url.Values or a struct with url tags.
func statusError(status int) error {
	if status == http.StatusNotFound {
		return mediaprovider.ErrNotFound
	}
	return errors.New(http.StatusText(status))
}

func (c *Controller) get(ctx context.Context, server *mediaprovider.Server, op, method string, req any) (*subsonicResponse, error) {
	params := c.baseParams(server)
	if req != nil {
		var extra url.Values
		switch r := req.(type) {
		case url.Values:
			extra = r
		default:
			v, err := query.Values(req)
			if err != nil {
				return nil, mediaprovider.OpError(op, 0, err)
			}
			extra = v
		}
		for k, vs := range extra {
			params[k] = vs
		}
	}

	r := apiclient.Request{Path: "/rest/" + method + ".view"}
	if server.HasFeature(mediaprovider.FeatureFormPost) {
		r.Method = http.MethodPost
		r.Body = params
	} else {
		r.Query = params
	}

	resp, err := c.client.Do(ctx, server.URL, r)
	if err != nil {
		return nil, mediaprovider.OpError(op, 0, err)
	}
	if resp.Status != http.StatusOK {
		return nil, mediaprovider.OpError(op, resp.Status, statusError(resp.Status))
	}
	var env envelope
	if err := resp.JSON(&env); err != nil {
		return nil, mediaprovider.OpError(op, resp.Status, fmt.Errorf("decoding response: %w", err))
	}
	if env.Response == nil {
		return nil, mediaprovider.OpError(op, resp.Status, errNoSubsonicResponse)
	}
	if env.Response.Status != "ok" {
		var err error = errors.New("server reported failure")
		if env.Response.Error != nil {
			err = env.Response.Error
		}
		return nil, mediaprovider.OpError(op, resp.Status, err)
	}
	return env.Response, nil
}

func (c *Controller) Authenticate(ctx context.Context, serverURL, username, password string, legacy bool) (*mediaprovider.AuthResult, error) {
	cred := EncodeCredential(username, password, legacy)
	server := &mediaprovider.Server{URL: serverURL, Username: username, Credential: cred}
	if _, err := c.get(ctx, server, "authenticate", "ping", nil); err != nil {
		return nil, err
	}
	return &mediaprovider.AuthResult{
		Username:   username,
		Credential: cred,
	}, nil
}

// PingInfo is what a Subsonic-family server reports about itself.
type PingInfo struct {
	ProtocolVersion string
	ServerType      string
	ServerVersion   string
	OpenSubsonic    bool
	// Extensions is nil if the server did not advertise a list.
	Extensions []mediaprovider.Extension
}

// Ping fetches server identification and, for OpenSubsonic servers,
// the advertised extension list.
func (c *Controller) Ping(ctx context.Context, server *mediaprovider.Server) (*PingInfo, error) {
	ping, err := c.get(ctx, server, "get server info", "ping", nil)
	if err != nil {
		return nil, err
	}
	info := &PingInfo{
		ProtocolVersion: ping.Version,
		ServerType:      ping.Type,
		ServerVersion:   ping.ServerVersion,
		OpenSubsonic:    ping.OpenSubsonic,
	}
	if !ping.OpenSubsonic {
		return info, nil
	}
	resp, err := c.get(ctx, server, "get server info", "getOpenSubsonicExtensions", nil)
	if err != nil {
		return nil, err
	}
	info.Extensions = resp.extensions()
	return info, nil
}

func (c *Controller) GetServerInfo(ctx context.Context, server *mediaprovider.Server) (*mediaprovider.ServerInfo, error) {
	ping, err := c.Ping(ctx, server)
	if err != nil {
		return nil, err
	}
	version := ping.ServerVersion
	if version == "" {
		version = ping.ProtocolVersion
	}
	return &mediaprovider.ServerInfo{
		ID:       server.ID,
		Version:  version,
		Features: mediaprovider.ApplyExtensions(mediaprovider.Features{}, ping.Extensions, ExtensionMap),
	}, nil
}
