package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/deckdrop/deckdrop/internal/artifact"
	"github.com/deckdrop/deckdrop/internal/clock"
	"github.com/deckdrop/deckdrop/internal/config"
	"github.com/deckdrop/deckdrop/internal/migration"
	"github.com/deckdrop/deckdrop/internal/observability"
	"github.com/deckdrop/deckdrop/internal/presentation"
	"github.com/deckdrop/deckdrop/internal/server"
	"github.com/deckdrop/deckdrop/internal/sweeper"
	"github.com/deckdrop/deckdrop/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		server.Module,

		presentation.Module,
		artifact.Module,
		sweeper.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
