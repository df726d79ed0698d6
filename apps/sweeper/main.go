package main

import (
	"go.uber.org/fx"

	"github.com/deckdrop/deckdrop/internal/artifact"
	"github.com/deckdrop/deckdrop/internal/clock"
	"github.com/deckdrop/deckdrop/internal/config"
	"github.com/deckdrop/deckdrop/internal/migration"
	"github.com/deckdrop/deckdrop/internal/observability"
	"github.com/deckdrop/deckdrop/internal/presentation"
	"github.com/deckdrop/deckdrop/internal/sweeper"
	"github.com/deckdrop/deckdrop/pkg/db"
)

// The sweeper-only binary runs the expiry sweep without the HTTP surface.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		migration.Module,

		presentation.Module,
		artifact.Module,
		sweeper.Module,
	)
	app.Run()
}
