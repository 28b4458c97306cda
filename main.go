package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/dweymouth/sonicbridge/backend"
	"github.com/dweymouth/sonicbridge/res"
)

const usage = `usage: %s <command> [flags]

commands:
  login    add a server and log in to it
  servers  list configured servers
  info     show the server version and capabilities
  albums   list albums
  labels   list record labels derived from album metadata
`

type command func(ctx context.Context, app *cliApp, args []string) error

var commands = map[string]command{
	"login":   runLogin,
	"servers": runServers,
	"info":    runInfo,
	"albums":  runAlbums,
	"labels":  runLabels,
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, res.AppName)
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, usage, res.AppName)
		os.Exit(2)
	}

	app, err := newCLIApp()
	if err != nil {
		log.Fatal().Err(err).Msg("fatal startup error")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd(ctx, app, os.Args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Error().Err(err).Msg(os.Args[1] + " failed")
		os.Exit(1)
	}
}

type cliApp struct {
	configDir string
	config    *backend.Config
	servers   *backend.ServerManager
}

func newCLIApp() (*cliApp, error) {
	dir, err := backend.ConfigDir(res.AppName)
	if err != nil {
		return nil, err
	}
	conf, err := backend.LoadConfig(dir, res.AppName)
	if err != nil {
		return nil, err
	}
	backend.SetupLogging(conf.Log, os.Stderr)
	log.Debug().Str("dir", dir).Msg("using config dir")

	controllers := backend.NewControllers(conf.HTTP, res.AppVersion)
	return &cliApp{
		configDir: dir,
		config:    conf,
		servers:   backend.NewServerManager(res.AppName, conf, controllers, true),
	}, nil
}

func (a *cliApp) saveConfig() error {
	return a.config.WriteConfigFile(filepath.Join(a.configDir, backend.ConfigFile))
}
