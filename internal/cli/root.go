// Package cli implements creditctl, the operator tool for balances and
// payment reconciliation.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"ai-imagegen-be/internal/bootstrap"
	"ai-imagegen-be/internal/config"
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "creditctl",
	Short:         "Operate credit balances and payment settlement",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// env is the wiring a command needs. Built lazily so "logs" works without a database.
type env struct {
	cfg       *config.Config
	db        *gorm.DB
	container *bootstrap.Container
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Database.Connection == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING is not set")
	}
	return database.NewGormDB(database.GormConfig{
		Connection:   cfg.Database.Connection,
		MaxIdleConns: 2,
		MaxOpenConns: 4,
		Debug:        cfg.Database.Debug,
	})
}

func newEnv() (*env, error) {
	cfg := config.Load()
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	container, err := bootstrap.NewContainer(db, cfg)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, db: db, container: container}, nil
}

func (e *env) close() {
	e.container.Close()
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// resolveUser accepts a user id or an email address.
func (e *env) resolveUser(ctx context.Context, ref string) (*entity.User, error) {
	var spec specification.Specification
	if id, err := uuid.Parse(ref); err == nil {
		spec = specification.ByID{ID: id}
	} else {
		spec = specification.ByEmail{Email: strings.ToLower(strings.TrimSpace(ref))}
	}

	user, err := e.container.UowFactory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, spec)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %q: %w", ref, entity.ErrNotFound)
	}
	return user, nil
}

// withEnv adapts a command body that needs the full container.
func withEnv(fn func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.close()
		return fn(cmd.Context(), e, cmd, args)
	}
}
