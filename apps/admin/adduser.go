package main

import (
	"fmt"
	"net/mail"

	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/user"
)

const generatedPwdLen = 12

// addUser creates an account with a generated password and mails the
// credentials when an email was given.
func (cli *commandLine) addUser(name, uname, email string, isAdmin bool) error {
	pwd, err := user.RandomPassword(generatedPwdLen)
	if err != nil {
		return err
	}

	role := user.RoleSewadar
	if isAdmin {
		role = user.RoleAdmin
	}
	nu := user.NewUser{
		Name:            name,
		Username:        uname,
		Email:           email,
		Role:            role,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if err = nu.Validate(cli.usrSvc); err != nil {
		return err
	}

	usr, err := cli.usrSvc.Create(nu)
	if err != nil {
		return err
	}
	fmt.Printf("created %s user %q (id=%d)\n", usr.Role, usr.Username, usr.ID)

	if usr.Email != "" {
		msg := &core.EmailMessage{
			To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
			Subject:      "Welcome to " + core.Conf.AppName,
			TemplateName: "welcome",
			TemplateData: struct {
				Name     string
				Username string
				Password string
			}{usr.Name, usr.Username, pwd},
		}
		cli.mailSvc.SendMessages(msg)
	} else {
		fmt.Printf("generated password: %s\n", pwd)
	}
	return nil
}
