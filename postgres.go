package main

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// PgxStore is the Postgres-backed Store.
type PgxStore struct {
	conn   *pgxpool.Pool
	logger *zap.Logger
}

const PG_UNIQUE_VIOLATION = "23505"

// mapStoreError translates storage-layer failures into the store's
// sentinel errors. Uniqueness violations are told apart by constraint
// name.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == PG_UNIQUE_VIOLATION {
		switch pgErr.ConstraintName {
		case "user_email_key":
			return ErrDuplicateEmail
		case "coordinates_unique":
			return ErrDuplicateCoordinates
		case "cadastral_number_unique", "queryhistory_cadastral_number_key":
			return ErrDuplicateCadastralNumber
		}
	}
	return err
}

const sqlUserColumns = `id, email, hashed_password, is_active, is_verified, is_superuser, registered_at`

func (p *PgxStore) CreateUser(ctx context.Context, email, hashedPassword string) (*User, error) {
	u := User{Email: email, HashedPassword: hashedPassword}
	err := p.conn.QueryRow(ctx,
		`INSERT INTO "user" (email, hashed_password) VALUES ($1, $2)
		 RETURNING id, is_active, is_verified, is_superuser, registered_at`,
		email, hashedPassword).
		Scan(&u.ID, &u.IsActive, &u.IsVerified, &u.IsSuperuser, &u.RegisteredAt)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return &u, nil
}

func (p *PgxStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	return p.scanUser(p.conn.QueryRow(ctx,
		`SELECT `+sqlUserColumns+` FROM "user" WHERE email = $1`, email))
}

func (p *PgxStore) UserByID(ctx context.Context, id int64) (*User, error) {
	return p.scanUser(p.conn.QueryRow(ctx,
		`SELECT `+sqlUserColumns+` FROM "user" WHERE id = $1`, id))
}

func (p *PgxStore) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.IsActive, &u.IsVerified, &u.IsSuperuser, &u.RegisteredAt)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return &u, nil
}

func (p *PgxStore) Users(ctx context.Context) ([]*User, error) {
	rows, err := p.conn.Query(ctx, `SELECT `+sqlUserColumns+` FROM "user" ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		var u User
		err := rows.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.IsActive, &u.IsVerified, &u.IsSuperuser, &u.RegisteredAt)
		if err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// DeleteUser removes the user's history and then the user, in one
// transaction. The history delete is explicit rather than left to the
// ON DELETE CASCADE on queryhistory.user_id.
func (p *PgxStore) DeleteUser(ctx context.Context, id int64) error {
	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM queryhistory WHERE user_id = $1`, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM "user" WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

func (p *PgxStore) AddQuery(ctx context.Context, q *QueryHistory) (*QueryHistory, error) {
	stored := *q
	err := p.conn.QueryRow(ctx,
		`INSERT INTO queryhistory (cadastral_number, latitude, longitude, result, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		q.CadastralNumber, q.Latitude, q.Longitude, q.Result, q.UserID).
		Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return &stored, nil
}

func (p *PgxStore) HistoryPage(ctx context.Context, f HistoryFilter) ([]*QueryHistory, error) {
	sql := `SELECT id, cadastral_number, latitude, longitude, result, created_at, user_id
		FROM queryhistory WHERE user_id = $1`
	args := []interface{}{f.UserID}

	if f.CadastralNumber != "" {
		sql += ` AND cadastral_number = $2`
		args = append(args, f.CadastralNumber)
	}
	sql += ` ORDER BY created_at DESC OFFSET $` + strconv.Itoa(len(args)+1) + ` LIMIT $` + strconv.Itoa(len(args)+2)
	args = append(args, (f.Page-1)*f.Size, f.Size)

	rows, err := p.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*QueryHistory{}
	for rows.Next() {
		var q QueryHistory
		var latitude, longitude pgtype.Numeric

		err := rows.Scan(&q.ID, &q.CadastralNumber, &latitude, &longitude, &q.Result, &q.CreatedAt, &q.UserID)
		if err != nil {
			return nil, err
		}
		q.Latitude = numericToFloat(latitude)
		q.Longitude = numericToFloat(longitude)
		records = append(records, &q)
	}
	return records, rows.Err()
}

// numericToFloat converts a nullable DECIMAL column value.
func numericToFloat(n pgtype.Numeric) *float64 {
	if n.Status != pgtype.Present {
		return nil
	}
	var f float64
	if err := n.AssignTo(&f); err != nil {
		return nil
	}
	return &f
}
