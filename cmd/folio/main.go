package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/folio/internal/clock"
	"github.com/smallbiznis/folio/internal/config"
	"github.com/smallbiznis/folio/internal/migration"
	"github.com/smallbiznis/folio/internal/observability"
	"github.com/smallbiznis/folio/internal/scheduler"
	"github.com/smallbiznis/folio/internal/server"
	"github.com/smallbiznis/folio/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
