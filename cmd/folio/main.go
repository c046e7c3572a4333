// folio is the command-line surface over the magazine submission stores:
// authors sign in, submit Markdown articles with a hero image, and admins
// review them. With API_BASE_URL set it talks to the remote collaborator;
// without it everything runs against the local fallback backend.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/foliopress/folio/config"
	"github.com/foliopress/folio/internal/application"
	"github.com/foliopress/folio/internal/domain/entity"
	"github.com/foliopress/folio/internal/domain/repository"
	"github.com/foliopress/folio/internal/infrastructure/keyval"
	"github.com/foliopress/folio/internal/infrastructure/localstore"
	"github.com/foliopress/folio/internal/infrastructure/restapi"
	"github.com/foliopress/folio/pkg/helpers"
)

// app bundles the wired stores for the command handlers.
type app struct {
	cfg        *config.Config
	logger     *logrus.Logger
	kv         keyval.Store
	session    *application.SessionService
	content    *application.ContentService
	engagement *application.EngagementService
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	var kv keyval.Store
	if cfg.RedisAddr != "" {
		kv = keyval.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.AppName)
	} else {
		store, err := keyval.NewSQLiteStore(cfg.StorePath())
		if err != nil {
			return nil, err
		}
		kv = store
	}

	a := &app{cfg: cfg, logger: logger, kv: kv}

	var (
		authBackend       repository.AuthBackend
		contentBackend    repository.ContentBackend
		engagementBackend repository.EngagementBackend
	)
	if cfg.RemoteConfigured() {
		client, err := restapi.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, logger, func() string {
			if a.session == nil {
				return ""
			}
			return a.session.Token()
		})
		if err != nil {
			_ = kv.Close()
			return nil, err
		}
		authBackend = restapi.NewAuthBackend(client)
		contentBackend = restapi.NewContentBackend(client)
		engagementBackend = restapi.NewEngagementBackend(client)
	} else {
		local := localstore.New(kv, logger, localstore.Options{
			SessionTTL:  cfg.LocalSessionTTL,
			AdminEmails: cfg.AdminEmails(),
		})
		authBackend = local
		contentBackend = local
		engagementBackend = local
	}

	a.session = application.NewSessionService(authBackend, kv, logger)
	if local, ok := authBackend.(*localstore.Store); ok {
		local.BindCaller(func() (string, entity.Role) {
			sess := a.session.Current()
			return sess.Identity.ID, sess.Role
		})
	}
	if err := a.session.Init(ctx); err != nil {
		logger.WithError(err).Warn("session restore failed")
	}
	a.content = application.NewContentService(a.session, contentBackend, logger, cfg.DefaultPageLimit)
	a.engagement = application.NewEngagementService(a.session, engagementBackend, kv, logger)
	return a, nil
}

func (a *app) teardown() {
	a.session.Close()
	if err := a.kv.Close(); err != nil {
		a.logger.WithError(err).Warn("closing keyed store")
	}
}

func main() {
	_ = godotenv.Load() // load .env if present

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "folio:", err)
		os.Exit(1)
	}
	defer a.teardown()

	root := &cobra.Command{
		Use:           "folio",
		Short:         "folio - magazine submission and review",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newRegisterCmd(ctx, a),
		newLoginCmd(ctx, a),
		newLogoutCmd(ctx, a),
		newWhoamiCmd(a),
		newProfileCmd(ctx, a),
		newListCmd(ctx, a),
		newGetCmd(ctx, a),
		newSubmitCmd(ctx, a),
		newEditCmd(ctx, a),
		newRemoveCmd(ctx, a),
		newApproveCmd(ctx, a),
		newDisapproveCmd(ctx, a),
		newLikeCmd(ctx, a),
		newUnlikeCmd(ctx, a),
		newCommentCmd(ctx, a),
		newUncommentCmd(ctx, a),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "folio:", err)
		os.Exit(1)
	}
}
