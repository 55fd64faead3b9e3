package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/storage"
)

//go:embed schema.sql
var schema string

// MemoryDSN is an in-memory database, private to one Storage
const MemoryDSN = ":memory:"

const summaryColumns = "id, name, release_date, estimated_owners, required_age, price"

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens the database at dsn and applies the schema
func New(dsn string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: would be its own database
	if dsn == MemoryDSN {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) SaveGames(ctx context.Context, games []model.GameDetail) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO games (id, rank, name, release_date, estimated_owners, required_age, price)
		VALUES (?, (SELECT COALESCE(MAX(rank), 0) + 1 FROM games), ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			release_date = excluded.release_date,
			estimated_owners = excluded.estimated_owners,
			required_age = excluded.required_age,
			price = excluded.price`)
	if err != nil {
		return err
	}
	defer upsert.Close()

	for _, g := range games {
		if _, err := upsert.ExecContext(ctx, g.ID, g.Name, g.ReleaseDate, g.EstimatedOwners, g.RequiredAge, g.Price); err != nil {
			return fmt.Errorf("save game %d: %w", g.ID, err)
		}
		for table, names := range map[string][]string{
			"game_publishers": g.Publishers,
			"game_genres":     g.Genres,
			"game_tags":       g.Tags,
		} {
			if err := replaceNames(ctx, tx, table, g.ID, names); err != nil {
				return fmt.Errorf("save game %d: %w", g.ID, err)
			}
		}
	}

	return tx.Commit()
}

// replaceNames rewrites one relationship list of a game, keeping its order
func replaceNames(ctx context.Context, tx *sql.Tx, table string, gameID int, names []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE game_id = ?", gameID); err != nil {
		return err
	}
	for i, name := range names {
		if _, err := tx.ExecContext(ctx, "INSERT INTO "+table+" (game_id, position, name) VALUES (?, ?, ?)", gameID, i, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id int) (*model.GameDetail, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+summaryColumns+" FROM games WHERE id = ?", id)
	summary, err := scanSummary(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	game := model.GameDetail{GameSummary: summary}
	if game.Publishers, err = s.names(ctx, "game_publishers", id); err != nil {
		return nil, err
	}
	if game.Genres, err = s.names(ctx, "game_genres", id); err != nil {
		return nil, err
	}
	if game.Tags, err = s.names(ctx, "game_tags", id); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) names(ctx context.Context, table string, gameID int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM "+table+" WHERE game_id = ? ORDER BY position", gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Storage) ListGames(ctx context.Context, limit int) ([]model.GameSummary, error) {
	return s.list(ctx, "SELECT "+summaryColumns+" FROM games ORDER BY rank LIMIT ?", limit)
}

func (s *Storage) ListGamesByPublisher(ctx context.Context, publisher string, limit int) ([]model.GameSummary, error) {
	return s.list(ctx, `SELECT `+summaryColumns+` FROM games g
		WHERE EXISTS (SELECT 1 FROM game_publishers p WHERE p.game_id = g.id AND p.name = ?)
		ORDER BY rank LIMIT ?`, publisher, limit)
}

func (s *Storage) ListGamesByCategory(ctx context.Context, category string, limit int) ([]model.GameSummary, error) {
	return s.list(ctx, `SELECT `+summaryColumns+` FROM games g
		WHERE EXISTS (SELECT 1 FROM game_tags t WHERE t.game_id = g.id AND t.name = ?)
		ORDER BY rank LIMIT ?`, category, limit)
}

func (s *Storage) CountGames(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM games").Scan(&n)
	return n, err
}

// list runs a summary query whose last parameter is the limit
func (s *Storage) list(ctx context.Context, query string, args ...any) ([]model.GameSummary, error) {
	if limit, ok := args[len(args)-1].(int); ok && limit <= 0 {
		return []model.GameSummary{}, nil
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := []model.GameSummary{}
	for rows.Next() {
		g, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (model.GameSummary, error) {
	var (
		g               model.GameSummary
		releaseDate     sql.NullString
		estimatedOwners sql.NullString
		requiredAge     sql.NullInt64
		price           sql.NullFloat64
	)
	if err := row.Scan(&g.ID, &g.Name, &releaseDate, &estimatedOwners, &requiredAge, &price); err != nil {
		return model.GameSummary{}, err
	}
	if releaseDate.Valid {
		g.ReleaseDate = &releaseDate.String
	}
	if estimatedOwners.Valid {
		g.EstimatedOwners = &estimatedOwners.String
	}
	if requiredAge.Valid {
		age := int(requiredAge.Int64)
		g.RequiredAge = &age
	}
	if price.Valid {
		g.Price = &price.Float64
	}
	return g, nil
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET password_hash = excluded.password_hash`,
		user.Username, user.PasswordHash, user.CreatedAt.UTC())
	return err
}

func (s *Storage) GetUser(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	err := s.db.QueryRowContext(ctx, "SELECT username, password_hash, created_at FROM users WHERE username = ?", username).
		Scan(&user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
