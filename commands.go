package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/dweymouth/sonicbridge/backend"
	"github.com/dweymouth/sonicbridge/backend/labels"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
)

var errNoServers = errors.New("no servers configured, run login first")

func runLogin(ctx context.Context, app *cliApp, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	serverType := fs.String("type", string(mediaprovider.ServerTypeNavidrome), "server type: navidrome, subsonic or jellyfin")
	url := fs.String("url", "", "server URL")
	user := fs.String("user", "", "username")
	name := fs.String("name", "", "nickname for the server")
	legacy := fs.Bool("legacy", false, "use plain-text Subsonic authentication")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *url == "" || *user == "" {
		return errors.New("login needs -url and -user")
	}
	password, err := readPassword()
	if err != nil {
		return err
	}

	conf, server, err := app.servers.Login(ctx, backend.ServerConnection{
		ServerType: mediaprovider.ServerType(*serverType),
		Hostname:   *url,
		Username:   *user,
		LegacyAuth: *legacy,
	}, *name, password)
	if err != nil {
		return err
	}
	if err := app.saveConfig(); err != nil {
		return err
	}
	fmt.Printf("logged in to %s (%s %s) as %s\n", conf.Hostname, server.Type, server.Version, server.Username)
	return nil
}

// readPassword takes the password from SONICBRIDGE_PASSWORD, or prompts
// for it if stdin is a terminal.
func readPassword() (string, error) {
	if p := os.Getenv("SONICBRIDGE_PASSWORD"); p != "" {
		return p, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no password: set SONICBRIDGE_PASSWORD")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func runServers(_ context.Context, app *cliApp, _ []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tURL\tDEFAULT")
	for _, s := range app.config.Servers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", s.ID, s.Nickname, s.ServerType, s.Hostname, s.Default)
	}
	return w.Flush()
}

// connect logs in to the server named by id, or the default server.
func (a *cliApp) connect(ctx context.Context, id string) (*mediaprovider.Server, mediaprovider.ControllerEndpoint, error) {
	conf := a.servers.GetDefaultServer()
	if id != "" {
		uid, err := uuid.Parse(id)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid server id: %w", err)
		}
		conf = a.config.ServerByID(uid)
	}
	if conf == nil {
		return nil, nil, errNoServers
	}
	server, err := a.servers.ConnectToServer(ctx, conf)
	if err != nil {
		return nil, nil, err
	}
	controller, err := a.servers.Controller(server)
	return server, controller, err
}

func runInfo(ctx context.Context, app *cliApp, args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	serverID := fs.String("server", "", "server id (default server if empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	server, _, err := app.connect(ctx, *serverID)
	if err != nil {
		return err
	}
	fmt.Printf("server:  %s\ntype:    %s\nversion: %s\n", server.URL, server.Type, server.Version)
	feats := make([]string, 0, len(server.Features))
	for f, versions := range server.Features {
		feats = append(feats, fmt.Sprintf("%s%v", f, versions))
	}
	slices.Sort(feats)
	fmt.Printf("features: %s\n", strings.Join(feats, " "))
	return nil
}

func runAlbums(ctx context.Context, app *cliApp, args []string) error {
	fs := flag.NewFlagSet("albums", flag.ContinueOnError)
	serverID := fs.String("server", "", "server id (default server if empty)")
	sortBy := fs.String("sort", string(mediaprovider.AlbumSortName), "sort key")
	desc := fs.Bool("desc", false, "sort descending")
	search := fs.String("search", "", "search term")
	offset := fs.Int("offset", 0, "start index")
	limit := fs.Int("limit", 25, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	server, controller, err := app.connect(ctx, *serverID)
	if err != nil {
		return err
	}
	query := mediaprovider.AlbumListQuery{
		Paging:     mediaprovider.Paging{StartIndex: *offset, Limit: *limit},
		SortBy:     mediaprovider.AlbumListSort(*sortBy),
		SortOrder:  sortOrder(*desc),
		SearchTerm: *search,
	}
	resp, err := controller.GetAlbumList(ctx, server, query)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tALBUM\tARTIST\tYEAR\tSONGS")
	for _, al := range resp.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", al.ID, al.Name, al.AlbumArtist, al.ReleaseYear, al.SongCount)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	printTotal(resp.StartIndex, len(resp.Items), resp.TotalRecordCount)
	return nil
}

func runLabels(ctx context.Context, app *cliApp, args []string) error {
	fs := flag.NewFlagSet("labels", flag.ContinueOnError)
	serverID := fs.String("server", "", "server id (default server if empty)")
	sortBy := fs.String("sort", string(labels.SortName), "sort key: name or albumCount")
	desc := fs.Bool("desc", false, "sort descending")
	search := fs.String("search", "", "search term")
	albumsOf := fs.String("albums", "", "list the albums of this label id instead")
	limit := fs.Int("limit", 0, "page size (0 for all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	server, controller, err := app.connect(ctx, *serverID)
	if err != nil {
		return err
	}
	svc := labels.NewService(controller, app.config.LabelOptions())
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	if *albumsOf != "" {
		albums, err := svc.GetLabelAlbums(ctx, server, *albumsOf, server.MusicFolderID)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tALBUM\tARTIST")
		for _, al := range albums {
			fmt.Fprintf(w, "%s\t%s\t%s\n", al.ID, al.Name, al.AlbumArtist)
		}
		return w.Flush()
	}

	resp, err := svc.GetLabelList(ctx, server, labels.ListQuery{
		Paging:        mediaprovider.Paging{Limit: *limit},
		SortBy:        labels.ListSort(*sortBy),
		SortOrder:     sortOrder(*desc),
		SearchTerm:    *search,
		MusicFolderID: server.MusicFolderID,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "ID\tLABEL\tALBUMS")
	for _, l := range resp.Items {
		fmt.Fprintf(w, "%s\t%s\t%d\n", l.ID, l.Name, l.AlbumCount)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	printTotal(resp.StartIndex, len(resp.Items), resp.TotalRecordCount)
	return nil
}

func sortOrder(desc bool) mediaprovider.SortOrder {
	if desc {
		return mediaprovider.SortDesc
	}
	return mediaprovider.SortAsc
}

func printTotal(start, n, total int) {
	if total == mediaprovider.UnknownCount {
		fmt.Printf("\n%d-%d of unknown total\n", start+1, start+n)
		return
	}
	fmt.Printf("\n%d-%d of %d\n", min(start+1, total), start+n, total)
}
