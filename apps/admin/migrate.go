package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/trezcool/goose"

	"github.com/trezcool/shule/assets"
	"github.com/trezcool/shule/storage/database"
)

var (
	gooseRunFunc       = goose.RunFS               // mockable
	createIfNotExistFn = database.CreateIfNotExist // mockable
)

func (cli *commandLine) migrateCmd() *cobra.Command {
	var create bool
	cmd := &cobra.Command{
		Use:   "migrate COMMAND [ARGS...]",
		Short: "Run goose migrations against the postgres database (up, down, status, version...)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return errHelp
			}
			ctx := cmd.Context()
			if create {
				if err := createIfNotExistFn(ctx, cli.deps.Conf.Database); err != nil {
					return errors.Wrap(err, "creating database")
				}
			}
			db, err := cli.openDB(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			return gooseRunFunc(args[0], db.DB, assets.FS, "migrations", args[1:]...)
		},
	}
	cmd.Flags().BoolVar(&create, "create", false, "create the app user & database first (needs the admin credentials)")
	return cmd
}
