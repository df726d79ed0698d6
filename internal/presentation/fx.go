package presentation

import (
	"github.com/deckdrop/deckdrop/internal/presentation/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("presentation",
	fx.Provide(repository.Provide),
)
