package sweeper

import (
	"context"

	"github.com/deckdrop/deckdrop/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("sweeper",
	fx.Provide(ProvideConfig),
	fx.Provide(New),
	fx.Invoke(start),
)

func ProvideConfig(cfg config.Config) Config {
	return Config{Interval: cfg.SweepInterval}.withDefaults()
}

func start(lc fx.Lifecycle, s *Sweeper) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go s.RunForever(runCtx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
