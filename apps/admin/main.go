package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/rafidain/schoollink/core"
	"github.com/rafidain/schoollink/core/school"
	"github.com/rafidain/schoollink/core/user"
	"github.com/rafidain/schoollink/storage/database"
	"github.com/rafidain/schoollink/storage/database/sqlstore"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	school.InitValidators(validate, translator)

	cli := commandLine{
		conf:       conf,
		validate:   validate,
		translator: translator,
	}

	// SQL storage is not migrated here: `migrate up` owns the schema
	if conf.Storage.IsSQL() {
		db, err := database.Open(conf.Storage)
		errAndDie(err)
		defer db.Close()
		errAndDie(db.Ping())
		cli.db = db
		cli.store = sqlstore.NewStore(db)
	} else {
		store, closeStore, err := database.NewRecordStore(context.Background(), conf.Storage)
		errAndDie(err)
		defer closeStore()
		cli.store = store
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
