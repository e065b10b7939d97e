package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/rafidain/schoollink/core"
	"github.com/rafidain/schoollink/core/school"
)

// seed writes the default dataset. Existing collections are kept unless force is set.
func (cli *commandLine) seed(force bool) error {
	ctx := context.Background()
	records := school.DefaultDataset(time.Now()).Records()

	for _, key := range core.AllKeys {
		if !force {
			_, err := cli.store.Get(ctx, key)
			if err == nil {
				cli.printf("%s: kept\n", key)
				continue
			}
			if !errors.Is(err, core.ErrRecordNotFound) {
				return errors.Wrapf(err, "reading %q", key)
			}
		}
		if err := core.Save(ctx, cli.store, key, records[key]); err != nil {
			return err
		}
		cli.printf("%s: seeded\n", key)
	}
	return nil
}
