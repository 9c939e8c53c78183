package sqlxrepos

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	q := `SELECT username, email FROM users WHERE (username = $1 OR (email <> '' AND email = $2))`
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, strconv.Itoa(usr.ID))
		}
		q += ` AND id NOT IN (` + strings.Join(ids, ",") + `)`
	}
	q += ` LIMIT 1`

	var uname, mail string
	err := repo.db.QueryRow(q, username, email).Scan(&uname, &mail)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return core.NewStoreError("user.CheckUsernameUniqueness", err)
	}
	if uname == username {
		return user.ErrUsernameExists
	}
	return user.ErrEmailExists
}

func (repo userRepository) CreateUser(usr user.User) (user.User, error) {
	var created user.User
	err := repo.db.QueryRowx(
		`INSERT INTO users (name, username, email, role, is_active, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING *`,
		usr.Name, usr.Username, usr.Email, usr.Role, usr.IsActive, usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt,
	).StructScan(&created)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return user.User{}, user.ErrUsernameExists
		}
		return user.User{}, core.NewStoreError("user.CreateUser", err)
	}
	return created, nil
}

func (repo userRepository) QueryAllUsers() ([]user.User, error) {
	users := []user.User{}
	if err := repo.db.Select(&users, "SELECT * FROM users ORDER BY username ASC"); err != nil {
		return nil, core.NewStoreError("user.QueryAllUsers", err)
	}
	return users, nil
}

func (repo userRepository) GetUserByID(id int) (user.User, error) {
	var usr user.User
	err := repo.db.Get(&usr, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, core.NewStoreError("user.GetUserByID", err)
	}
	return usr, nil
}

func (repo userRepository) GetUserByUsername(username string) (user.User, error) {
	var usr user.User
	err := repo.db.Get(&usr, "SELECT * FROM users WHERE username = $1", username)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, core.NewStoreError("user.GetUserByUsername", err)
	}
	return usr, nil
}

func (repo userRepository) UpdateUser(usr user.User) (user.User, error) {
	var updated user.User
	err := repo.db.QueryRowx(
		`UPDATE users SET name = $1, email = $2, role = $3, is_active = $4, password_hash = $5,
		 updated_at = $6, last_login = $7
		 WHERE id = $8 RETURNING *`,
		usr.Name, usr.Email, usr.Role, usr.IsActive, usr.PasswordHash, usr.UpdatedAt, usr.LastLogin, usr.ID,
	).StructScan(&updated)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, core.NewStoreError("user.UpdateUser", err)
	}
	return updated, nil
}

func (repo userRepository) DeleteUsersByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM users WHERE id IN (?)", ids)
	if err != nil {
		return core.NewStoreError("user.DeleteUsersByID", err)
	}
	if _, err = repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return core.NewStoreError("user.DeleteUsersByID", err)
	}
	return nil
}
