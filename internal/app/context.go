package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/desmitry/urfu-teamfinder/internal/session"
)

// AppContext holds shared dependencies (DB, session store, logger) and is
// passed explicitly into every service instead of living as package globals.
type AppContext struct {
	DB       *gorm.DB
	Sessions *session.Store
	Logger   *slog.Logger
}

// New creates a new AppContext
func New(db *gorm.DB, sessions *session.Store, logger *slog.Logger) *AppContext {
	return &AppContext{
		DB:       db,
		Sessions: sessions,
		Logger:   logger,
	}
}
