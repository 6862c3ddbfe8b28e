package user

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	listUsersQuery = `
		SELECT id, name, email, phone, website, gender, gender_other, birthdate, created_at
		FROM users
		ORDER BY id
	`
	getUserByIDQuery = `
		SELECT id, name, email, phone, website, gender, gender_other, birthdate, created_at
		FROM users
		WHERE id = $1
	`
	insertUserQuery = `
		INSERT INTO users (name, email, phone, website, gender, gender_other, birthdate)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	updateUserQuery = `
		UPDATE users
		SET name = $1,
			email = $2,
			phone = $3,
			website = $4,
			gender = $5,
			gender_other = $6,
			birthdate = $7
		WHERE id = $8
		RETURNING created_at
	`
	deleteUserQuery = `DELETE FROM users WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]User, error) {
	rows, err := r.db.Query(listUsersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	u, err := scanUser(r.db.QueryRow(getUserByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) Create(u User) (User, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return User{}, err
	}

	err = tx.QueryRow(
		insertUserQuery,
		u.Name,
		u.Email,
		u.Phone,
		nullable(u.Website),
		u.Gender,
		nullable(u.GenderOther),
		u.Birthdate,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return User{}, ErrEmailExists
		}
		return User{}, err
	}

	if err := tx.Commit(); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) Update(id int, u User) (User, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return User{}, err
	}

	err = tx.QueryRow(
		updateUserQuery,
		u.Name,
		u.Email,
		u.Phone,
		nullable(u.Website),
		u.Gender,
		nullable(u.GenderOther),
		u.Birthdate,
		id,
	).Scan(&u.CreatedAt)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		if isUniqueViolation(err) {
			return User{}, ErrEmailExists
		}
		return User{}, err
	}

	if err := tx.Commit(); err != nil {
		return User{}, err
	}
	u.ID = id
	return u, nil
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(deleteUserQuery, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(scanner rowScanner) (User, error) {
	u := User{}
	var website sql.NullString
	var genderOther sql.NullString

	if err := scanner.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&website,
		&u.Gender,
		&genderOther,
		&u.Birthdate,
		&u.CreatedAt,
	); err != nil {
		return User{}, err
	}

	if website.Valid {
		u.Website = &website.String
	}
	if genderOther.Valid {
		u.GenderOther = &genderOther.String
	}
	return u, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (class 23505), which here can only be the users email index.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
