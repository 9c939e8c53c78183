package testutil

import (
	"testing"
	"time"

	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/sewadar"
	"github.com/rssbrudrapur/sewabase/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateRecord(
	t *testing.T,
	repo sewadar.Repository,
	badgeType, badgeNo, name, parent, gender, phone, birth, address string,
) sewadar.Record {
	t.Helper()

	bd, err := core.ParseDate(birth)
	if err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	rec, err := repo.CreateRecord(sewadar.Record{
		BadgeType:  badgeType,
		BadgeNo:    badgeNo,
		Pic:        sewadar.DefaultPic,
		Name:       name,
		ParentName: parent,
		Gender:     gender,
		Phone:      phone,
		BirthDate:  bd,
		Address:    address,
	})
	if err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	return rec
}
