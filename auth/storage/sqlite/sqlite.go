package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"glickoserver/auth/gen/model"
	"glickoserver/auth/gen/table"
	"glickoserver/auth/storage"
	"glickoserver/auth/users"
	"glickoserver/internal/config"
	"glickoserver/internal/migrate"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Storage struct {
	db  *sql.DB
	log *logrus.Entry
}

var _ storage.AuthStorage = (*Storage)(nil)

func New(l *logrus.Logger, cfg config.Server) (*Storage, error) {
	log := l.WithFields(map[string]interface{}{
		"from": "auth-storage",
	})
	db, err := sql.Open("sqlite3", "file:"+cfg.Auth.SqliteFile+"?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open auth db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := migrate.UpAuthDB(db); err != nil {
		return nil, fmt.Errorf("migrate auth db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	log.Info("auth storage connected")
	return &Storage{
		db:  db,
		log: log,
	}, nil
}

// userWithRoles is the scan target for user queries, password columns
// stay out of it.
type userWithRoles struct {
	model.Users
	UserRoles []model.UserRoles
}

func (s *Storage) CreateUser(ctx context.Context, user users.User, secret users.Secret) error {
	dbUser := model.Users{
		ID:           user.ID.String(),
		Username:     user.Name,
		PasswordHash: hex.EncodeToString(secret.PasswordHash),
		PasswordSalt: hex.EncodeToString(secret.Salt),
		CreatedAt:    user.RegisteredAt,
	}
	_, err := table.Users.
		INSERT(table.Users.AllColumns).
		MODEL(dbUser).
		ExecContext(ctx, s.db)
	if err != nil {
		return err
	}
	if len(user.Roles) == 0 {
		return nil
	}
	dbRoles := make([]model.UserRoles, 0, len(user.Roles))
	for _, role := range user.Roles {
		dbRoles = append(dbRoles, model.UserRoles{
			UserID: user.ID.String(),
			RoleID: roleID(role),
		})
	}
	_, err = table.UserRoles.
		INSERT(table.UserRoles.AllColumns).
		MODELS(dbRoles).
		ExecContext(ctx, s.db)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id uuid.UUID) (users.User, error) {
	return s.fetchUser(ctx, table.Users.ID.EQ(sqlite.UUID(id)))
}

func (s *Storage) SignIn(ctx context.Context, name string, passwordHash []byte) (users.User, error) {
	return s.fetchUser(ctx,
		table.Users.Username.EQ(sqlite.String(name)).
			AND(table.Users.PasswordHash.EQ(sqlite.String(hex.EncodeToString(passwordHash)))),
	)
}

// fetchUser loads one live user with the roles attached. Users without
// a single role do not come back, the inner join drops them.
func (s *Storage) fetchUser(ctx context.Context, cond sqlite.BoolExpression) (users.User, error) {
	var dest userWithRoles
	err := table.Users.
		SELECT(
			table.Users.AllColumns.Except(
				table.Users.PasswordHash,
				table.Users.PasswordSalt,
			),
			table.UserRoles.AllColumns,
		).
		FROM(table.Users.INNER_JOIN(table.UserRoles, table.UserRoles.UserID.EQ(table.Users.ID))).
		WHERE(cond.AND(table.Users.DeletedAt.IS_NULL())).
		QueryContext(ctx, s.db, &dest)
	if err != nil {
		return users.User{}, mapNoRows(err)
	}
	return toDomainUser(dest)
}

func (s *Storage) GetUserSecret(ctx context.Context, user users.User) (users.Secret, error) {
	var cond sqlite.BoolExpression
	switch {
	case user.ID != uuid.Nil:
		cond = table.Users.ID.EQ(sqlite.UUID(user.ID))
	case user.Name != "":
		cond = table.Users.Username.EQ(sqlite.String(user.Name))
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
		QueryContext(ctx, s.db, &dbUser)
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
}

func mapNoRows(err error) error {
	if errors.Is(err, qrm.ErrNoRows) {
		return sql.ErrNoRows
	}
	return err
}

func toDomainUser(dest userWithRoles) (users.User, error) {
	id, err := uuid.Parse(dest.ID)
	if err != nil {
		return users.User{}, err
	}
	u := users.User{
		ID:           id,
		Name:         dest.Username,
		Roles:        make([]string, 0, len(dest.UserRoles)),
		RegisteredAt: dest.CreatedAt,
	}
	for _, role := range dest.UserRoles {
		u.Roles = append(u.Roles, roleName(role.RoleID))
	}
	return u, nil
}

func roleID(role string) int32 {
	switch role {
	case "admin":
		return 1
	case "user":
		return 2
	}
	return 0
}

func roleName(id int32) string {
	switch id {
	case 1:
		return "admin"
	case 2:
		return "user"
	}
	return ""
}
