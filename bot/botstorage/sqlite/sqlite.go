package sqlite

import (
	"database/sql"
	"fmt"
	"glickoserver/bot/botstorage"
	dbmodel "glickoserver/bot/gen/model"
	"glickoserver/bot/gen/table"
	"glickoserver/bot/model"
	"glickoserver/internal/config"
	"glickoserver/internal/domain"
	"glickoserver/internal/migrate"
	"time"

	"github.com/go-jet/jet/v2/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Storage struct {
	db  *sql.DB
	log *logrus.Entry
}

var _ botstorage.BotStorage = (*Storage)(nil)

func New(l *logrus.Logger, cfg config.TgBot) (*Storage, error) {
	log := l.WithFields(map[string]interface{}{
		"from": "bot-storage",
	})
	db, err := sql.Open("sqlite3", "file:"+cfg.SqliteFile+"?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open bot db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := migrate.UpBotDB(db); err != nil {
		return nil, fmt.Errorf("migrate bot db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	log.Info("bot storage connected")
	return &Storage{
		db:  db,
		log: log,
	}, nil
}

func (s *Storage) NewUser(user model.User) (model.User, error) {
	var inserted dbmodel.Users
	err := table.Users.
		INSERT(table.Users.AllColumns).
		MODEL(toDBUser(user)).
		RETURNING(table.Users.AllColumns).
		Query(s.db, &inserted)
	if err != nil {
		return model.User{}, err
	}
	created := fromDBUser(inserted)
	// the default role has to exist before the first command is run
	created.Role, err = s.userRole(created.ID)
	if err != nil {
		return model.User{}, err
	}
	return created, nil
}

// GetUser loads the user together with the subscriptions and the role.
func (s *Storage) GetUser(id int) (model.User, error) {
	var dbUser dbmodel.Users
	err := table.Users.
		SELECT(table.Users.AllColumns).
		FROM(table.Users).
		WHERE(table.Users.ID.EQ(sqlite.Int(int64(id)))).
		Query(s.db, &dbUser)
	if err != nil {
		return model.User{}, err
	}
	user := fromDBUser(dbUser)

	user.Subscriptions, err = s.userEvents(id)
	if err != nil {
		return model.User{}, err
	}
	user.Role, err = s.userRole(id)
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *Storage) userEvents(id int) ([]model.EventType, error) {
	var dbEvents []dbmodel.UserEvents
	err := table.UserEvents.
		SELECT(table.UserEvents.AllColumns).
		FROM(table.UserEvents).
		WHERE(table.UserEvents.UserID.EQ(sqlite.Int(int64(id)))).
		Query(s.db, &dbEvents)
	if err != nil {
		return nil, err
	}
	events := make([]model.EventType, 0, len(dbEvents))
	for _, e := range dbEvents {
		events = append(events, model.EventType(e.Event))
	}
	return events, nil
}

// userRole reads the stored role and writes the default one back for
// users that do not have any yet.
func (s *Storage) userRole(id int) (model.UserRole, error) {
	var dbRoles []dbmodel.UserRoles
	err := table.UserRoles.
		SELECT(table.UserRoles.AllColumns).
		FROM(table.UserRoles).
		WHERE(table.UserRoles.UserID.EQ(sqlite.Int(int64(id)))).
		Query(s.db, &dbRoles)
	if err != nil {
		return 0, err
	}
	if len(dbRoles) > 0 {
		return model.UserRole(dbRoles[0].RoleID), nil
	}
	_, err = table.UserRoles.
		INSERT(table.UserRoles.AllColumns).
		MODEL(dbmodel.UserRoles{
			UserID: int32(id),
			RoleID: int32(model.RoleUser),
		}).
		Exec(s.db)
	if err != nil {
		return 0, err
	}
	return model.RoleUser, nil
}

func (s *Storage) ListUsers() ([]model.User, error) {
	var dbUsers []dbmodel.Users
	err := table.Users.
		SELECT(table.Users.AllColumns).
		FROM(table.Users).
		Query(s.db, &dbUsers)
	if err != nil {
		return nil, err
	}
	var dbEvents []dbmodel.UserEvents
	err = table.UserEvents.
		SELECT(table.UserEvents.AllColumns).
		FROM(table.UserEvents).
		Query(s.db, &dbEvents)
	if err != nil {
		return nil, err
	}
	subs := make(map[int32][]model.EventType, len(dbUsers))
	for _, e := range dbEvents {
		subs[e.UserID] = append(subs[e.UserID], model.EventType(e.Event))
	}
	converted := make([]model.User, 0, len(dbUsers))
	for _, dbUser := range dbUsers {
		user := fromDBUser(dbUser)
		user.Subscriptions = subs[dbUser.ID]
		converted = append(converted, user)
	}
	return converted, nil
}

func (s *Storage) UpdateUserRole(user model.User) error {
	_, err := table.UserRoles.
		UPDATE(table.UserRoles.RoleID).
		SET(int32(user.Role)).
		WHERE(table.UserRoles.UserID.EQ(sqlite.Int(int64(user.ID)))).
		Exec(s.db)
	return err
}

func (s *Storage) Subscribe(user model.User) error {
	_, err := table.UserEvents.
		INSERT(table.UserEvents.AllColumns).
		MODEL(dbmodel.UserEvents{
			UserID: int32(user.ID),
			Event:  string(model.NewMatch),
		}).
		ON_CONFLICT(table.UserEvents.UserID, table.UserEvents.Event).
		DO_NOTHING().
		Exec(s.db)
	return err
}

func (s *Storage) Unsubscribe(user model.User) error {
	_, err := table.UserEvents.
		DELETE().
		WHERE(
			table.UserEvents.UserID.EQ(sqlite.Int(int64(user.ID))).
				AND(table.UserEvents.Event.EQ(sqlite.String(string(model.NewMatch)))),
		).
		Exec(s.db)
	return err
}

func (s *Storage) Log(user model.User, msg string) error {
	_, err := table.Log.
		INSERT(table.Log.UserID, table.Log.Message, table.Log.CreatedAt).
		MODEL(dbmodel.Log{
			UserID:    int32(user.ID),
			Message:   msg,
			CreatedAt: time.Now(),
		}).
		Exec(s.db)
	return err
}

func (s *Storage) GetMyPlayer(user model.User) (uuid.UUID, error) {
	var link dbmodel.UserPlayers
	err := table.UserPlayers.
		SELECT(table.UserPlayers.AllColumns).
		FROM(table.UserPlayers).
		WHERE(table.UserPlayers.UserID.EQ(sqlite.Int(int64(user.ID)))).
		Query(s.db, &link)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(link.PlayerID)
}

func (s *Storage) LinkPlayer(user model.User, player domain.Player) error {
	_, err := table.UserPlayers.
		INSERT(table.UserPlayers.AllColumns).
		MODEL(dbmodel.UserPlayers{
			UserID:   int32(user.ID),
			PlayerID: player.ID.String(),
		}).
		ON_CONFLICT(table.UserPlayers.UserID).
		DO_UPDATE(sqlite.SET(table.UserPlayers.PlayerID.SET(sqlite.String(player.ID.String())))).
		Exec(s.db)
	return err
}

func toDBUser(user model.User) dbmodel.Users {
	return dbmodel.Users{
		ID:        int32(user.ID),
		FirstName: user.FirstName,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func fromDBUser(user dbmodel.Users) model.User {
	return model.User{
		ID:        int(user.ID),
		FirstName: user.FirstName,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
