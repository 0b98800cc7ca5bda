package history

import (
	"github.com/smallbiznis/folio/internal/history/repository"
	"github.com/smallbiznis/folio/internal/history/service"
	"go.uber.org/fx"
)

var Module = fx.Module("history.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
