// Package app 两个二进制共用的启动装配
package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"bookstore-api/internal/core/config"
	"bookstore-api/internal/core/database"
	"bookstore-api/internal/core/logger"
	"bookstore-api/internal/domain"
)

func NewLogger(cfg *config.Config) (*zap.Logger, func()) {
	r := cfg.Log.Rotate
	return logger.NewWithOptions(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     r.Enable,
			Filename:   r.Filename,
			MaxSizeMB:  r.MaxSizeMB,
			MaxBackups: r.MaxBackups,
			MaxAgeDays: r.MaxAgeDays,
			Compress:   r.Compress,
		},
	})
}

// OpenDB SQL 日志走同一个 zap
func OpenDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	sqlLog, err := logger.ToStdLogger(l.Named("gorm"), zapcore.InfoLevel)
	if err != nil {
		return nil, err
	}
	return database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Writer:             sqlLog,
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}
