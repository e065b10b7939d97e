package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/rafidain/schoollink/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errors.Errorf("migrations need an SQL storage engine, not %q", cli.conf.Storage.Engine)
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(context.Background(), cli.db.DB, cli.conf.Storage.Engine, args[0], arguments...)
}
