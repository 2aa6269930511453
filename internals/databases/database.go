package database

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/configs"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/logger"
)

// ConnectDB opens the postgres pool. PreferSimpleProtocol keeps it usable
// behind PgBouncer in transaction pooling mode.
func ConnectDB(cfg configs.DBConfig) (*gorm.DB, error) {
	logger.Logger.Infow("connecting to postgres", "host", cfg.Host, "db", cfg.Name)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 configs.NewGormLogger(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect db")
	}
	logger.Logger.Info("db connected")
	return db, nil
}

func TunePool(db *gorm.DB, cfg configs.DBConfig) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Warnw("pool tune failed", "error", err)
		return
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// WarmUp pings in the background so the first request does not pay for the dial.
func WarmUp(db *gorm.DB) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := Ping(ctx, db); err != nil {
			logger.Logger.Warnw("warm-up ping failed", "error", err)
		}
	}()
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
