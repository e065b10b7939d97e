package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/rafidain/schoollink/core"
	"github.com/rafidain/schoollink/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf       *core.Config
	db         *sqlx.DB // nil unless the storage engine is SQL
	store      core.RecordStore
	validate   *validator.Validate
	translator ut.Translator
	out        io.Writer
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	out := cli.out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, format, args...)
}

func (cli *commandLine) printUsage() {
	cli.printf("Usage:\n")
	cli.printf("  migrate COMMAND [ARGS...]                           - run goose migrations (SQL engines only)\n")
	cli.printf("  seed [-force]                                       - write the default dataset to storage\n")
	cli.printf("  adduser -name NAME -role ROLE [-id ID] [-email EMAIL] [-phone PHONE] [-students ID,ID]\n")
	cli.printf("                                                      - register a user\n")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ContinueOnError)
	seedForce := seedCmd.Bool("force", false, "Overwrite collections that already exist.")

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserID := addUserCmd.String("id", "", "The user id. Generated when empty.")
	addUserName := addUserCmd.String("name", "", "The user's display name.")
	addUserRole := addUserCmd.String("role", "", "One of parent, student, teacher.")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserPhone := addUserCmd.String("phone", "", "The user's phone number (E.164).")
	addUserStudents := addUserCmd.String("students", "", "Comma separated ids of the parent's children.")

	for _, fs := range []*flag.FlagSet{seedCmd, addUserCmd} {
		if cli.out != nil {
			fs.SetOutput(cli.out)
		}
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.seed(*seedForce)
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserName == "" || *addUserRole == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(user.NewUser{
			ID:               *addUserID,
			Name:             *addUserName,
			Role:             user.Role(*addUserRole),
			Email:            *addUserEmail,
			Phone:            *addUserPhone,
			LinkedStudentIDs: splitIDs(*addUserStudents),
		})
	default:
		cli.printUsage()
		return errHelp
	}
}
