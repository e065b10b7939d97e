package main

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/rafidain/schoollink/core"
	"github.com/rafidain/schoollink/core/school"
	"github.com/rafidain/schoollink/core/user"
)

// addUser registers a new user.User in storage.
func (cli *commandLine) addUser(nu user.NewUser) error {
	ctx := context.Background()

	if err := nu.Validate(cli.validate); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, f := range core.TranslateErrors(verrs, cli.translator) {
				msgs = append(msgs, f.Field+": "+f.Error)
			}
			return core.NewValidationError(errors.New(strings.Join(msgs, "; ")))
		}
		return err
	}

	svc := school.NewService(ctx, cli.store, school.Options{})
	if nu.ID != "" {
		if _, taken := svc.GetUserByID(nu.ID); taken {
			return errors.Errorf("user %q already exists", nu.ID)
		}
	}
	usr, err := svc.RegisterUser(ctx, nu.User(svc.GenerateID))
	if err != nil {
		return err
	}
	cli.printf("added %s %q (%s)\n", usr.Role, usr.ID, usr.Name)
	return nil
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = core.CleanString(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
