package mediaprovider

type ServerType string

const (
	ServerTypeNavidrome ServerType = "navidrome"
	ServerTypeSubsonic  ServerType = "subsonic"
	ServerTypeJellyfin  ServerType = "jellyfin"
)

// Server is the descriptor passed to every controller call.
// Controllers treat it as read-only; Features is written once by the
// server manager after a server info fetch.
type Server struct {
	ID   string
	Name string
	URL  string
	Type ServerType

	Username string
	UserID   string

	// Credential is the backend's query or token credential.
	// For Subsonic-family servers it is an encoded auth query (u=..&s=..&t=..),
	// for Jellyfin the access token.
	Credential string

	// NDCredential is the Navidrome native API bearer token.
	NDCredential string

	// MusicFolderID restricts list queries to one library, if set.
	MusicFolderID string

	Version  string
	Features Features
}

func (s *Server) HasFeature(f Feature) bool {
	if s == nil {
		return false
	}
	return s.Features.Has(f)
}
