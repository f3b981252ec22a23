package main

import (
	"github.com/beanbook/beanbook/internal/clock"
	"github.com/beanbook/beanbook/internal/config"
	"github.com/beanbook/beanbook/internal/migration"
	"github.com/beanbook/beanbook/internal/server"
	"github.com/beanbook/beanbook/pkg/db"
	"github.com/beanbook/beanbook/pkg/log"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
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
