package sqlite

import (
	"database/sql"
	"glickoserver/gen/model"
	"glickoserver/gen/table"
	"glickoserver/internal/config"
	"glickoserver/internal/domain"
	"glickoserver/internal/migrate"
	"glickoserver/internal/storage"

	"github.com/go-jet/jet/v2/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Storage struct {
	db  *sql.DB
	log *logrus.Entry
}

var _ storage.PlayerStorage = (*Storage)(nil)
var _ storage.MatchStorage = (*Storage)(nil)

func New(l *logrus.Logger, cfg config.Server) (*Storage, error) {
	log := l.WithFields(map[string]interface{}{
		"from": "rating-storage",
	})
	db, err := sql.Open("sqlite3", buildSource(cfg.SqliteFile))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	err = migrate.UpServerDB(db)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}
	log.Info("rating storage connected")
	return &Storage{
		db:  db,
		log: log,
	}, nil
}

func buildSource(fileName string) string {
	return "file:" + fileName + "?cache=shared"
}

func (s *Storage) ListPlayers() ([]domain.Player, error) {
	var dbPlayers []model.Players
	err := table.Players.
		SELECT(table.Players.AllColumns).
		FROM(table.Players).
		Query(s.db, &dbPlayers)
	if err != nil {
		return nil, err
	}
	players := make([]domain.Player, 0, len(dbPlayers))
	for _, dbPlayer := range dbPlayers {
		player, err := convertPlayerToDomain(dbPlayer)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}

func (s *Storage) Add(p domain.Player) (domain.Player, error) {
	_, err := table.Players.
		INSERT(table.Players.AllColumns).
		MODEL(convertPlayerToDB(p)).
		Exec(s.db)
	if err != nil {
		return domain.Player{}, err
	}
	return p, nil
}

func (s *Storage) ImportPlayers(players []domain.Player) error {
	_, err := table.Players.
		DELETE().
		WHERE(sqlite.Bool(true)).
		Exec(s.db)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		return nil
	}
	dbPlayers := make([]model.Players, 0, len(players))
	for _, player := range players {
		dbPlayers = append(dbPlayers, convertPlayerToDB(player))
	}
	_, err = table.Players.
		INSERT(table.Players.AllColumns).
		MODELS(dbPlayers).
		Exec(s.db)
	return err
}

func (s *Storage) ListMatches() ([]domain.Match, error) {
	players, err := s.playersByID()
	if err != nil {
		return nil, err
	}
	var dbMatches []model.Matches
	err = table.Matches.
		SELECT(table.Matches.AllColumns).
		FROM(table.Matches).
		ORDER_BY(table.Matches.ID.ASC()).
		Query(s.db, &dbMatches)
	if err != nil {
		return nil, err
	}
	matches := make([]domain.Match, 0, len(dbMatches))
	for _, dbMatch := range dbMatches {
		match, err := convertMatchToDomain(dbMatch, players)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func (s *Storage) Create(m domain.Match) (domain.Match, error) {
	dbMatch := convertMatchToDB(m)
	var inserted model.Matches
	err := table.Matches.
		INSERT(table.Matches.MutableColumns).
		MODEL(dbMatch).
		RETURNING(table.Matches.AllColumns).
		Query(s.db, &inserted)
	if err != nil {
		return domain.Match{}, err
	}
	m.ID = int(inserted.ID)
	return m, nil
}

func (s *Storage) ImportMatches(matches []domain.Match) error {
	_, err := table.Matches.
		DELETE().
		WHERE(sqlite.Bool(true)).
		Exec(s.db)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return nil
	}
	dbMatches := make([]model.Matches, 0, len(matches))
	for _, match := range matches {
		dbMatch := convertMatchToDB(match)
		dbMatch.ID = int32(match.ID)
		dbMatches = append(dbMatches, dbMatch)
	}
	_, err = table.Matches.
		INSERT(table.Matches.AllColumns).
		MODELS(dbMatches).
		Exec(s.db)
	return err
}

func (s *Storage) playersByID() (map[uuid.UUID]domain.Player, error) {
	players, err := s.ListPlayers()
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.Player, len(players))
	for _, player := range players {
		byID[player.ID] = player
	}
	return byID, nil
}
