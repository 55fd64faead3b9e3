// Package importer loads the Steam games CSV dataset into storage.
//
// Rows are ranked by the upper bound of their "Estimated owners" range,
// highest first, and only the first MaxRows are kept.
package importer

import (
	"cmp"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/storage"
)

// Dataset column names
const (
	ColumnAppID           = "AppID"
	ColumnName            = "Name"
	ColumnReleaseDate     = "Release date"
	ColumnEstimatedOwners = "Estimated owners"
	ColumnRequiredAge     = "Required age"
	ColumnPrice           = "Price"
	ColumnPublishers      = "Publishers"
	ColumnGenres          = "Genres"
	ColumnTags            = "Tags"
)

var requiredColumns = []string{
	ColumnAppID, ColumnName, ColumnReleaseDate, ColumnEstimatedOwners,
	ColumnRequiredAge, ColumnPrice, ColumnPublishers, ColumnGenres, ColumnTags,
}

// ErrMissingColumn is returned when the header lacks a dataset column
var ErrMissingColumn = errors.New("missing column")

var ownersRange = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)

// Config holds importer configuration
type Config struct {
	// MaxRows is how many of the most owned games are kept
	MaxRows int
	// BatchSize is how many games are saved per storage call
	BatchSize int
}

// DefaultConfig returns default importer configuration
func DefaultConfig() Config {
	return Config{
		MaxRows:   500,
		BatchSize: 50,
	}
}

// Importer loads CSV rows into storage
type Importer struct {
	storage storage.Storage
	logger  *slog.Logger
	cfg     Config
}

// New creates a new Importer
func New(storage storage.Storage, cfg Config, logger *slog.Logger) *Importer {
	def := DefaultConfig()
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = def.MaxRows
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	return &Importer{
		storage: storage,
		logger:  logger,
		cfg:     cfg,
	}
}

// ImportFile imports the dataset at path and returns the number of games saved
func (im *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return im.Import(ctx, file)
}

// Import reads a dataset and saves the most owned games in rank order
func (im *Importer) Import(ctx context.Context, r io.Reader) (int, error) {
	rows, err := im.read(r)
	if err != nil {
		return 0, err
	}

	// Stable, so rows with equal owners keep file order
	slices.SortStableFunc(rows, func(a, b row) int {
		return cmp.Compare(b.owners, a.owners)
	})
	if len(rows) > im.cfg.MaxRows {
		rows = rows[:im.cfg.MaxRows]
	}

	saved := 0
	for batch := range slices.Chunk(rows, im.cfg.BatchSize) {
		games := make([]model.GameDetail, len(batch))
		for i, r := range batch {
			games[i] = r.game
		}
		if err := im.storage.SaveGames(ctx, games); err != nil {
			return saved, fmt.Errorf("save games: %w", err)
		}
		saved += len(games)
		im.logger.Info("games imported", slog.Int("count", saved), slog.Int("total", len(rows)))
	}
	return saved, nil
}

type row struct {
	game   model.GameDetail
	owners int
}

func (im *Importer) read(r io.Reader) ([]row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	var rows []row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(name string) string {
			i := columns[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		game, err := toGame(field)
		if err != nil {
			im.logger.Warn("skipping row", slog.Int("line", line), slog.String("error", err.Error()))
			continue
		}
		rows = append(rows, row{game: game, owners: ParseEstimatedOwners(field(ColumnEstimatedOwners))})
	}
	return rows, nil
}

func toGame(field func(string) string) (model.GameDetail, error) {
	id, err := strconv.Atoi(field(ColumnAppID))
	if err != nil {
		return model.GameDetail{}, fmt.Errorf("bad %s: %w", ColumnAppID, err)
	}

	// Missing age and price count as zero
	age, _ := strconv.Atoi(field(ColumnRequiredAge))
	price, _ := strconv.ParseFloat(field(ColumnPrice), 64)

	return model.GameDetail{
		GameSummary: model.GameSummary{
			ID:              id,
			Name:            field(ColumnName),
			ReleaseDate:     optional(field(ColumnReleaseDate)),
			EstimatedOwners: optional(field(ColumnEstimatedOwners)),
			RequiredAge:     &age,
			Price:           &price,
		},
		Publishers: SplitList(field(ColumnPublishers)),
		Genres:     SplitList(field(ColumnGenres)),
		Tags:       SplitList(field(ColumnTags)),
	}, nil
}

// ParseEstimatedOwners returns the upper bound of a "low - high" range,
// the number itself for a plain number, and 0 otherwise
func ParseEstimatedOwners(s string) int {
	if m := ownersRange.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[2])
		if err == nil {
			return n
		}
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// SplitList splits a comma-separated cell into trimmed, non-empty entries
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
