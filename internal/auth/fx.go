package auth

import (
	"github.com/smallbiznis/folio/internal/auth/repository"
	"github.com/smallbiznis/folio/internal/auth/service"
	"github.com/smallbiznis/folio/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.NewService),
	fx.Provide(session.NewManager),
)
