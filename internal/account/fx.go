package account

import (
	"github.com/deckdrop/deckdrop/internal/account/repository"
	"github.com/deckdrop/deckdrop/internal/account/service"
	"go.uber.org/fx"
)

var Module = fx.Module("account.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
