package main

import "fmt"

func (cli *commandLine) resetPassword(uname, pwd string) error {
	usr, err := cli.usrSvc.SetPassword(uname, pwd)
	if err != nil {
		return err
	}
	fmt.Printf("password updated for %q\n", usr.Username)
	return nil
}
