package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/chanyong1027/sesac-team2-sub001/api"
	"github.com/chanyong1027/sesac-team2-sub001/internal/config"
	"github.com/chanyong1027/sesac-team2-sub001/invitations"
	"github.com/chanyong1027/sesac-team2-sub001/refresh"
	"github.com/chanyong1027/sesac-team2-sub001/session"
	"github.com/chanyong1027/sesac-team2-sub001/storage"
	"github.com/chanyong1027/sesac-team2-sub001/transport"
)

// app wires the full client stack: durable storage, session, refresh
// coordinator, authenticated transport, and the API surfaces.
type app struct {
	session    *session.Session
	auth       *api.Auth
	workspaces *api.Workspaces
	reconciler *invitations.Reconciler
}

func newApp(c config.Config) (*app, error) {
	store, err := buildStore(c)
	if err != nil {
		return nil, err
	}

	sess, err := session.New(store)
	if err != nil {
		return nil, err
	}
	if err := sess.Restore(); err != nil {
		return nil, errors.Wrap(err, "[newApp] restore session")
	}

	bare := &http.Client{Timeout: c.GetHTTPTimeout()}
	coordinator, err := refresh.New(sess,
		api.RefreshFunc(c.GetAPIBaseURL(), bare),
		refresh.WithTimeout(c.GetRefreshTimeout()),
	)
	if err != nil {
		return nil, err
	}

	client, err := transport.New(c.GetAPIBaseURL(), sess, coordinator,
		transport.WithHTTPClient(&http.Client{Timeout: c.GetHTTPTimeout()}))
	if err != nil {
		return nil, err
	}

	auth, err := api.NewAuth(c.GetAPIBaseURL(), bare, sess, client)
	if err != nil {
		return nil, err
	}

	reconciler, err := invitations.NewReconciler(
		storage.NewMemStore(),
		api.NewInvitations(client),
		func(path string) { fmt.Printf("→ %s\n", path) },
	)
	if err != nil {
		return nil, err
	}

	return &app{
		session:    sess,
		auth:       auth,
		workspaces: api.NewWorkspaces(client),
		reconciler: reconciler,
	}, nil
}

// buildStore creates the durable credential store, sealed at rest when a
// sealing key is configured.
func buildStore(c config.Config) (storage.Store, error) {
	fileStore, err := storage.NewFileStore(c.GetCredentialsDir())
	if err != nil {
		return nil, err
	}
	encoded := c.GetCredentialsKey()
	if encoded == "" {
		return fileStore, nil
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "[buildStore] decode credentials key")
	}
	return storage.NewSealedStore(fileStore, key)
}

func (a *app) dispatch(command string, args []string) error {
	ctx := context.Background()
	switch command {
	case "login":
		return a.login(ctx, args)
	case "whoami":
		return a.whoami(ctx)
	case "workspaces":
		return a.listWorkspaces(ctx)
	case "logout":
		return a.logout()
	default:
		usage()
		return errors.Errorf("unknown command %q", command)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	invitation := fs.String("invitation", "", "pending invitation token to accept after login")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("login requires -email and -password")
	}

	if *invitation != "" {
		if err := a.reconciler.Stash(*invitation); err != nil {
			return err
		}
	}

	user, err := a.auth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", user.Name, user.Email)

	dest, err := a.reconciler.Run(ctx, "")
	if err != nil {
		return err
	}
	fmt.Printf("Landing: %s\n", dest)
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	user, err := a.auth.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> (id %d)\n", user.Name, user.Email, user.ID)
	return nil
}

func (a *app) listWorkspaces(ctx context.Context) error {
	list, err := a.workspaces.List(ctx)
	if err != nil {
		return err
	}
	for _, w := range list {
		fmt.Printf("%d\t%s\n", w.ID, w.Name)
	}
	return nil
}

func (a *app) logout() error {
	if err := a.auth.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}
