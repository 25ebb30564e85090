package cli

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"

	"github.com/dtroode/levelkeeper/internal/api/http/router"
	"github.com/dtroode/levelkeeper/internal/config"
	"github.com/dtroode/levelkeeper/internal/logger"
	"github.com/dtroode/levelkeeper/internal/model"
	"github.com/dtroode/levelkeeper/internal/notify"
	"github.com/dtroode/levelkeeper/internal/repository/postgres"
	"github.com/dtroode/levelkeeper/internal/repository/sqlite"
	"github.com/dtroode/levelkeeper/internal/service"
	storage "github.com/dtroode/levelkeeper/internal/storage/minio"
)

// app holds what every command shares once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *logger.Logger
}

func (a *app) init(cmd *cobra.Command, envFile string) error {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}

	cfg, err := config.NewConfig(files...)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	return nil
}

// store is an opened user store with its transaction boundary.
type store struct {
	users model.UserStore
	tx    model.Transactor
	ping  router.PingFunc
	close func() error
}

func (a *app) openStore(ctx context.Context) (*store, error) {
	switch a.cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, a.cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		return &store{
			users: sqlite.NewUserRepository(db),
			tx:    sqlite.NewTxManager(db),
			ping:  db.PingContext,
			close: db.Close,
		}, nil
	default:
		conn, err := postgres.NewConnection(ctx, a.cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		return &store{
			users: postgres.NewUserRepository(conn),
			tx:    postgres.NewTxManager(conn),
			ping:  conn.Ping,
			close: conn.Close,
		}, nil
	}
}

func (a *app) notifier() model.Notifier {
	var sender notify.MailSender
	if a.cfg.SMTP.Host != "" {
		sender = notify.NewSMTPSender(a.cfg.SMTP.Host, a.cfg.SMTP.Port, a.cfg.SMTP.Username, a.cfg.SMTP.Password)
	} else {
		a.logger.Warn("SMTP_HOST is not set, upgrade notices will only be logged")
		sender = notify.NewLogSender(a.logger)
	}
	return notify.NewEmailNotifier(sender, a.cfg.SMTP.From)
}

func (a *app) membership(st *store, opts ...service.Option) *service.Membership {
	return service.NewMembership(st.users, st.tx, a.notifier(), a.logger, opts...)
}

// reportArchive returns nil when report archiving is disabled.
func (a *app) reportArchive(ctx context.Context) (model.ReportArchive, error) {
	if !a.cfg.Storage.Enabled {
		return nil, nil
	}

	client, err := minio.New(a.cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(a.cfg.Storage.AccessKey, a.cfg.Storage.SecretKey, ""),
		Secure: a.cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	archive, err := storage.NewReportArchive(ctx, client, a.cfg.Storage.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report archive: %w", err)
	}
	return archive, nil
}
