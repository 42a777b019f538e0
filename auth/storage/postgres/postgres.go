package postgres

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"net"
	"net/url"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	_ "github.com/jackc/pgx/v5/stdlib" // postgresql driver

	"github.com/google/uuid"
	"glickoserver/auth/service"
	"glickoserver/auth/storage"
	"glickoserver/auth/users"
	"glickoserver/gen/auth/public/model"
	"glickoserver/gen/auth/public/table"
)

type Storage struct {
	db *sql.DB
}

var _ storage.AuthStorage = (*Storage)(nil)

func New(ctx context.Context, config service.Config) (*Storage, error) {
	db, err := sql.Open("pgx", connString(config.Storage))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	if err := ensureRoles(ctx, db, config.Roles); err != nil {
		return nil, err
	}
	return &Storage{
		db: db,
	}, nil
}

func connString(cfg service.StorageConfig) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   cfg.DBName,
		User:   url.UserPassword(cfg.Username, cfg.Password),
	}
	return u.String()
}

// ensureRoles inserts the configured roles that the database does not
// know yet.
func ensureRoles(ctx context.Context, db *sql.DB, roles []string) error {
	var dbRoles []model.Roles
	err := table.Roles.SELECT(table.Roles.AllColumns).QueryContext(ctx, db, &dbRoles)
	if err != nil {
		return err
	}
	known := mapset.NewSet[string]()
	for _, role := range dbRoles {
		known.Add(role.ID)
	}
	for _, role := range roles {
		if known.Contains(role) {
			continue
		}
		_, err := table.Roles.
			INSERT(table.Roles.AllColumns).
			MODEL(model.Roles{ID: role}).
			ExecContext(ctx, db)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s Storage) CreateUser(ctx context.Context, user users.User, secret users.Secret) error {
	return withTxNoResult(ctx, s.db, func(tx *sql.Tx) error {
		dbUser := model.Users{
			ID:           user.ID,
			Username:     user.Name,
			PasswordHash: hex.EncodeToString(secret.PasswordHash),
			PasswordSalt: hex.EncodeToString(secret.Salt),
			CreatedAt:    user.RegisteredAt,
		}
		_, err := table.Users.
			INSERT(table.Users.AllColumns).
			MODEL(dbUser).
			ExecContext(ctx, tx)
		if err != nil {
			return err
		}
		if len(user.Roles) == 0 {
			return nil
		}
		dbRoles := make([]model.UserRoles, 0, len(user.Roles))
		for _, role := range user.Roles {
			dbRoles = append(dbRoles, model.UserRoles{
				UserID: user.ID,
				Role:   role,
			})
		}
		_, err = table.UserRoles.
			INSERT(table.UserRoles.AllColumns).
			MODELS(dbRoles).
			ExecContext(ctx, tx)
		return err
	})
}

func (s Storage) GetUser(ctx context.Context, id uuid.UUID) (users.User, error) {
	return s.fetchUser(ctx, table.Users.ID.EQ(postgres.UUID(id)))
}

func (s Storage) SignIn(ctx context.Context, name string, passwordHash []byte) (users.User, error) {
	return s.fetchUser(ctx,
		table.Users.Username.EQ(postgres.String(name)).
			AND(table.Users.PasswordHash.EQ(postgres.String(hex.EncodeToString(passwordHash)))),
	)
}

// fetchUser loads one live user with the roles attached. Users without
// a single role do not come back, the inner join drops them.
func (s Storage) fetchUser(ctx context.Context, cond postgres.BoolExpression) (users.User, error) {
	return withTx(ctx, s.db, func(tx *sql.Tx) (users.User, error) {
		var dest struct {
			model.Users
			UserRoles []model.UserRoles
		}
		err := table.Users.
			SELECT(
				table.Users.AllColumns.Except(
					table.Users.PasswordHash,
					table.Users.PasswordSalt,
				),
				table.UserRoles.AllColumns).
			FROM(table.Users.INNER_JOIN(table.UserRoles, table.UserRoles.UserID.EQ(table.Users.ID))).
			WHERE(cond.AND(table.Users.DeletedAt.IS_NULL())).
			QueryContext(ctx, tx, &dest)
		if err != nil {
			return users.User{}, mapNoRows(err)
		}
		u := users.User{
			ID:           dest.ID,
			Name:         dest.Username,
			Roles:        make([]string, 0, len(dest.UserRoles)),
			RegisteredAt: dest.CreatedAt,
		}
		for _, role := range dest.UserRoles {
			u.Roles = append(u.Roles, role.Role)
		}
		return u, nil
	})
}

func (s Storage) GetUserSecret(ctx context.Context, user users.User) (users.Secret, error) {
	return withTx(ctx, s.db, func(tx *sql.Tx) (users.Secret, error) {
		var cond postgres.BoolExpression
		switch {
		case user.ID != uuid.Nil:
			cond = table.Users.ID.EQ(postgres.UUID(user.ID))
		case user.Name != "":
			cond = table.Users.Username.EQ(postgres.String(user.Name))
		default:
			return users.Secret{}, errors.New("empty user")
		}

		var dbUser model.Users
		err := table.Users.
			SELECT(
				table.Users.PasswordHash,
				table.Users.PasswordSalt,
			).
			FROM(table.Users).
			WHERE(cond).
			QueryContext(ctx, tx, &dbUser)
		if err != nil {
			return users.Secret{}, mapNoRows(err)
		}
		hash, err := hex.DecodeString(dbUser.PasswordHash)
		if err != nil {
			return users.Secret{}, err
		}
		salt, err := hex.DecodeString(dbUser.PasswordSalt)
		if err != nil {
			return users.Secret{}, err
		}
		return users.Secret{
			PasswordHash: hash,
			Salt:         salt,
		}, nil
	})
}

func mapNoRows(err error) error {
	if errors.Is(err, qrm.ErrNoRows) {
		return sql.ErrNoRows
	}
	return err
}

func withTx[T any](ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) (T, error)) (T, error) {
	var zero T
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return zero, err
	}
	value, err := fn(tx)
	if err != nil {
		return zero, errors.Join(err, tx.Rollback())
	}
	return value, tx.Commit()
}

func withTxNoResult(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	_, err := withTx(ctx, db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, fn(tx)
	})
	return err
}
