package main

import (
	"github.com/brjatoba92/loja-materiais-utilidades/internal/clock"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/config"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/migration"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/observability"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/server"
	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		server.Module,
		migration.Module,
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
