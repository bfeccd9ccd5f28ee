package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/cresho/mygrate/pkg/buildinfo"
	"github.com/cresho/mygrate/pkg/migration"
)

type versionCmd struct{}

func (versionCmd) Run() error {
	fmt.Println(buildinfo.Get())
	return nil
}

var cli struct {
	Generate migration.Generate `cmd:"" help:"Render migration plans to MySQL DDL."`
	Apply    migration.Apply    `cmd:"" help:"Apply migration plans to a MySQL server."`
	Lint     migration.Lint     `cmd:"" help:"Parse-validate the DDL generated from migration plans."`
	Version  versionCmd         `cmd:"" help:"Print version information."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("mygrate"),
		kong.Description("mygrate: MySQL schema migration DDL generation"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
