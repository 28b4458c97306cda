package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zalando/go-keyring"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
)

var ErrNotConnected = errors.New("server is not connected")

// storedCredential is what is saved in the keyring after a login.
// The password itself is never stored.
type storedCredential struct {
	Username     string `json:"username"`
	UserID       string `json:"userId,omitempty"`
	Credential   string `json:"credential"`
	NDCredential string `json:"ndCredential,omitempty"`
}

// ServerManager logs in to configured servers and owns the connected
// server descriptors. A descriptor's Features are written once on connect
// and read-only afterwards.
type ServerManager struct {
	appName     string
	config      *Config
	controllers ControllerResolver
	useKeyring  bool

	// mu also guards config.Servers
	mu        sync.RWMutex
	connected map[uuid.UUID]*mediaprovider.Server
	// in-memory credentials, used when the keyring is disabled
	creds map[uuid.UUID]string

	onServerConnected []func(*mediaprovider.Server)
	onLogout          []func(uuid.UUID)
}

func NewServerManager(appName string, config *Config, controllers ControllerResolver, useKeyring bool) *ServerManager {
	return &ServerManager{
		appName:     appName,
		config:      config,
		controllers: controllers,
		useKeyring:  useKeyring,
		connected:   make(map[uuid.UUID]*mediaprovider.Server),
		creds:       make(map[uuid.UUID]string),
	}
}

func (s *ServerManager) OnServerConnected(cb func(*mediaprovider.Server)) {
	s.onServerConnected = append(s.onServerConnected, cb)
}

func (s *ServerManager) OnLogout(cb func(uuid.UUID)) {
	s.onLogout = append(s.onLogout, cb)
}

func (s *ServerManager) GetDefaultServer() *ServerConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.DefaultServer()
}

// Login authenticates against a new server, connects to it and, only once
// connected, adds it to the config. The first server added becomes the default.
func (s *ServerManager) Login(ctx context.Context, conn ServerConnection, nickname, password string) (*ServerConfig, *mediaprovider.Server, error) {
	controller, err := s.controllers.For(conn.ServerType)
	if err != nil {
		return nil, nil, err
	}
	conn.Hostname = NormalizeURL(conn.ServerType, conn.Hostname)
	auth, err := controller.Authenticate(ctx, conn.Hostname, conn.Username, password, conn.LegacyAuth)
	if err != nil {
		return nil, nil, err
	}
	conf := &ServerConfig{
		ServerConnection: conn,
		ID:               uuid.New(),
		Nickname:         nickname,
	}
	if err := s.saveCredential(conf.ID, auth); err != nil {
		return nil, nil, fmt.Errorf("error saving credentials: %w", err)
	}

	server, err := s.ConnectToServer(ctx, conf)
	if err != nil {
		s.forgetCredential(conf.ID)
		return nil, nil, err
	}
	s.mu.Lock()
	conf.Default = len(s.config.Servers) == 0
	s.config.Servers = append(s.config.Servers, conf)
	s.mu.Unlock()
	return conf, server, nil
}

// ConnectToServer builds the descriptor for a configured server from its
// saved credential and fetches its capabilities.
func (s *ServerManager) ConnectToServer(ctx context.Context, conf *ServerConfig) (*mediaprovider.Server, error) {
	controller, err := s.controllers.For(conf.ServerType)
	if err != nil {
		return nil, err
	}
	cred, err := s.loadCredential(conf.ID)
	if err != nil {
		return nil, fmt.Errorf("error reading credentials: %w", err)
	}
	server := &mediaprovider.Server{
		ID:            conf.ID.String(),
		Name:          conf.Nickname,
		URL:           conf.Hostname,
		Type:          conf.ServerType,
		Username:      cred.Username,
		UserID:        cred.UserID,
		Credential:    cred.Credential,
		NDCredential:  cred.NDCredential,
		MusicFolderID: conf.MusicFolderID,
	}
	info, err := controller.GetServerInfo(ctx, server)
	if err != nil {
		return nil, err
	}
	server.Version = info.Version
	server.Features = info.Features
	log.Info().Str("server", server.ID).Str("type", string(server.Type)).Str("version", server.Version).
		Int("features", len(server.Features)).Msg("connected to server")

	s.mu.Lock()
	s.connected[conf.ID] = server
	s.mu.Unlock()
	for _, cb := range s.onServerConnected {
		cb(server)
	}
	return server, nil
}

// Server returns the connected descriptor for id.
func (s *ServerManager) Server(id uuid.UUID) (*mediaprovider.Server, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	server, ok := s.connected[id]
	if !ok {
		return nil, ErrNotConnected
	}
	return server, nil
}

func (s *ServerManager) Controller(server *mediaprovider.Server) (mediaprovider.ControllerEndpoint, error) {
	return s.controllers.For(server.Type)
}

// Logout forgets the server's saved credential and disconnects it.
// The server stays in the config.
func (s *ServerManager) Logout(id uuid.UUID) {
	s.forgetCredential(id)
	s.mu.Lock()
	delete(s.connected, id)
	s.mu.Unlock()
	for _, cb := range s.onLogout {
		cb(id)
	}
}

// DeleteServer logs out of the server and removes it from the config.
func (s *ServerManager) DeleteServer(id uuid.UUID) {
	s.Logout(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	wasDefault := false
	servers := s.config.Servers[:0]
	for _, sc := range s.config.Servers {
		if sc.ID == id {
			wasDefault = sc.Default
			continue
		}
		servers = append(servers, sc)
	}
	s.config.Servers = servers
	if wasDefault && len(servers) > 0 {
		servers[0].Default = true
	}
}

func (s *ServerManager) SetDefaultServer(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range s.config.Servers {
		sc.Default = sc.ID == id
	}
}

func (s *ServerManager) forgetCredential(id uuid.UUID) {
	if s.useKeyring {
		if err := keyring.Delete(s.appName, id.String()); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			log.Warn().Err(err).Str("server", id.String()).Msg("error deleting keyring credentials")
		}
	}
	s.mu.Lock()
	delete(s.creds, id)
	s.mu.Unlock()
}

func (s *ServerManager) saveCredential(id uuid.UUID, auth *mediaprovider.AuthResult) error {
	b, err := json.Marshal(storedCredential{
		Username:     auth.Username,
		UserID:       auth.UserID,
		Credential:   auth.Credential,
		NDCredential: auth.NDCredential,
	})
	if err != nil {
		return err
	}
	if s.useKeyring {
		return keyring.Set(s.appName, id.String(), string(b))
	}
	s.mu.Lock()
	s.creds[id] = string(b)
	s.mu.Unlock()
	return nil
}

func (s *ServerManager) loadCredential(id uuid.UUID) (*storedCredential, error) {
	var raw string
	if s.useKeyring {
		v, err := keyring.Get(s.appName, id.String())
		if err != nil {
			return nil, err
		}
		raw = v
	} else {
		s.mu.RLock()
		v, ok := s.creds[id]
		s.mu.RUnlock()
		if !ok {
			return nil, keyring.ErrNotFound
		}
		raw = v
	}
	var cred storedCredential
	if err := json.Unmarshal([]byte(raw), &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}
