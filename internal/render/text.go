package render

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/mcoot/steamgames/internal/client"
	"github.com/mcoot/steamgames/internal/graph"
	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/view/catalog"
	"github.com/mcoot/steamgames/internal/view/detail"
)

// GamesTable writes one row per game, numbered from 1. The empty message is
// written instead when there is no row.
func GamesTable(w io.Writer, games []model.GameSummary, emptyMessage string) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, emptyMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tName\tRelease Date\tPrice\tRequired Age\tEstimated Owners")
	for i, g := range games {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			g.ID,
			g.Name,
			FormatOptional(g.ReleaseDate, NA),
			FormatPrice(g.Price),
			FormatAge(g.RequiredAge),
			FormatOptional(g.EstimatedOwners, NA),
		)
	}
	return tw.Flush()
}

// SimilarGames writes the games sharing tags with a game, best match first
func SimilarGames(w io.Writer, s client.SimilarGames) error {
	fmt.Fprintf(w, "Games similar to %d\n", s.GameID)
	if len(s.Games) == 0 {
		_, err := fmt.Fprintln(w, "No similar games found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tName\tShared Tags\tPrice")
	for i, g := range s.Games {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%s\n", i+1, g.ID, g.Name, g.Score, FormatPrice(g.Price))
	}
	return tw.Flush()
}

// Catalog writes the home view: the login prompt or the games table
func Catalog(w io.Writer, s catalog.Snapshot) error {
	if s.State == catalog.LoggedOut {
		fmt.Fprintln(w, "Steam Games Catalog")
		if s.LoggingIn {
			fmt.Fprintln(w, "Logging in...")
		} else {
			fmt.Fprintln(w, "Please log in: login <username> <password>")
		}
		if s.Error != "" {
			fmt.Fprintf(w, "Error: %s\n", s.Error)
		}
		return nil
	}

	fmt.Fprintf(w, "Steam Games Catalog (logged in as %s)\n", s.Username)
	fmt.Fprintf(w, "Limit: %s\n", s.Limit)
	if s.Result.FilterText != "" {
		visible, total := s.Result.Counts()
		fmt.Fprintf(w, "Search: %q (%d of %d)\n", s.Result.FilterText, visible, total)
	}
	if s.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", s.Error)
	}
	if s.Loading {
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	}
	return GamesTable(w, s.Result.Filtered, s.EmptyMessage)
}

// Game writes the detail view of a game
func Game(w io.Writer, s detail.GameSnapshot) error {
	if s.Loading && s.Game == nil {
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	}
	if s.NotFound() {
		msg := s.Error
		if msg == "" {
			msg = detail.MessageGameNotFound
		}
		fmt.Fprintln(w, msg)
		_, err := fmt.Fprintln(w, "Back to list: open /")
		return err
	}

	g := s.Game
	fmt.Fprintln(w, g.Name)
	if s.Provisional {
		fmt.Fprintln(w, "(loading details...)")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Release Date\t%s\n", FormatOptional(g.ReleaseDate, NotAvailable))
	fmt.Fprintf(tw, "Price\t%s\n", FormatPrice(g.Price))
	fmt.Fprintf(tw, "Required Age\t%s\n", FormatAge(g.RequiredAge))
	fmt.Fprintf(tw, "Estimated Owners\t%s\n", FormatOptional(g.EstimatedOwners, NotAvailable))
	if len(g.Publishers) > 0 {
		fmt.Fprintf(tw, "Publishers\t%s\n", JoinNames(g.Publishers))
	}
	if len(g.Genres) > 0 {
		fmt.Fprintf(tw, "Genres\t%s\n", JoinNames(g.Genres))
	}
	if len(g.Tags) > 0 {
		fmt.Fprintf(tw, "Tags\t%s\n", JoinNames(g.Tags))
	}
	return tw.Flush()
}

// List writes a publisher or category view
func List(w io.Writer, s detail.ListSnapshot) error {
	switch s.Kind {
	case "category":
		fmt.Fprintf(w, "Category: %s\n", s.Name)
	default:
		fmt.Fprintf(w, "Publisher: %s\n", s.Name)
	}
	if s.Searchable && s.Result.FilterText != "" {
		visible, total := s.Result.Counts()
		fmt.Fprintf(w, "Search: %q (%d of %d)\n", s.Result.FilterText, visible, total)
	}
	if s.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", s.Error)
	}
	if s.Loading {
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	}
	return GamesTable(w, s.Result.Filtered, s.EmptyMessage)
}

// Graph writes the relationship graph as an indented tree, grouped by kind.
// The hovered node is marked with its enlarged radius.
func Graph(w io.Writer, c *graph.Canvas) error {
	g := c.Graph()
	if g == nil || len(g.Nodes) == 0 {
		_, err := fmt.Fprintln(w, "No relationships to show.")
		return err
	}

	fmt.Fprintf(w, "%s%s\n", g.Root, hoverMark(c, g.Root))

	groups := map[graph.Kind][]string{}
	for _, n := range g.Nodes {
		if n.Kind == graph.KindGame {
			continue
		}
		groups[n.Kind] = append(groups[n.Kind], n.ID)
	}

	kinds := []graph.Kind{graph.KindPublisher, graph.KindGenre, graph.KindTag}
	for _, k := range kinds {
		for _, id := range groups[k] {
			fmt.Fprintf(w, "  -- %s [%s]%s\n", id, k, hoverMark(c, id))
		}
	}
	return nil
}

func hoverMark(c *graph.Canvas, id string) string {
	if c.Hovered() != id {
		return ""
	}
	return " (hover, r=" + strconv.FormatFloat(c.Radius(id), 'f', 1, 64) + ")"
}
