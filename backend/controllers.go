package backend

import (
	"fmt"
	"time"

	"github.com/dweymouth/sonicbridge/backend/apiclient"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/jellyfin"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/navidrome"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider/subsonic"
)

// ControllerResolver picks the controller for a server type.
type ControllerResolver interface {
	For(mediaprovider.ServerType) (mediaprovider.ControllerEndpoint, error)
}

// Controllers holds one controller per backend type. Controllers are
// stateless, so a single set serves every configured server.
type Controllers struct {
	Subsonic  *subsonic.Controller
	Navidrome *navidrome.Controller
	Jellyfin  *jellyfin.Controller
}

var _ ControllerResolver = (*Controllers)(nil)

func NewControllers(conf HTTPConfig, appVersion string) *Controllers {
	client := apiclient.New(apiclient.Options{
		Timeout:       time.Duration(conf.TimeoutSeconds) * time.Second,
		RetryMax:      conf.RetryMax,
		SkipSSLVerify: conf.SkipSSLVerify,
		UserAgent:     conf.ClientName + "/" + appVersion,
	})
	sub := subsonic.NewController(client, conf.ClientName)
	return &Controllers{
		Subsonic:  sub,
		Navidrome: navidrome.NewController(client, sub),
		Jellyfin:  jellyfin.NewController(client, conf.ClientName, appVersion, conf.DeviceID),
	}
}

func (c *Controllers) For(t mediaprovider.ServerType) (mediaprovider.ControllerEndpoint, error) {
	switch t {
	case mediaprovider.ServerTypeSubsonic:
		return c.Subsonic, nil
	case mediaprovider.ServerTypeNavidrome:
		return c.Navidrome, nil
	case mediaprovider.ServerTypeJellyfin:
		return c.Jellyfin, nil
	default:
		return nil, fmt.Errorf("unknown server type %q", t)
	}
}

// NormalizeURL applies the URL normalization for the server type.
func NormalizeURL(t mediaprovider.ServerType, rawURL string) string {
	if t == mediaprovider.ServerTypeJellyfin {
		return NormalizeJellyfinURL(rawURL)
	}
	return NormalizeServerURL(rawURL)
}
