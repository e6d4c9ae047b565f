package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/apps/shared"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/storage/database"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %+v\n", err)
		os.Exit(1)
	}

	deps, err := shared.Setup(context.Background(), conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setting up: %+v\n", err)
		os.Exit(1)
	}

	cli := newCommandLine(deps, func(ctx context.Context) (*sqlx.DB, error) {
		return database.Open(ctx, conf.Database)
	})
	err = cli.run(os.Args)
	if cErr := deps.Close(); cErr != nil {
		deps.Logger.Error("closing", cErr)
	}
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
