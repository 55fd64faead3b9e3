package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/steamgames/internal/graph"
	"github.com/mcoot/steamgames/internal/render/graphhtml"
	"github.com/mcoot/steamgames/internal/router"
	"github.com/mcoot/steamgames/internal/shell"
	"github.com/mcoot/steamgames/internal/view"
	"github.com/mcoot/steamgames/internal/view/catalog"
	"github.com/mcoot/steamgames/internal/view/detail"
)

var errMissingCredentials = errors.New("--user and --password are required (env: STEAMGAMES_USER, STEAMGAMES_PASSWORD)")

// openShell creates a shell logged in with the configured credentials
func openShell(ctx context.Context) (*shell.Shell, error) {
	if !cfg.HasCredentials() {
		return nil, errMissingCredentials
	}
	sh := shell.New(shell.Config{API: api, Logger: logger})
	if !sh.Session().Login(ctx, cfg.Username, cfg.Password) {
		return nil, errors.New(sh.Session().LastAuthError())
	}
	return sh, nil
}

func gameTarget(id string) router.Target {
	return router.Target{Path: "/games/" + url.PathEscape(id)}
}

func newGamesCmd() *cobra.Command {
	var (
		limit  string
		search string
	)
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List the most owned games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := openShell(cmd.Context())
			if err != nil {
				return err
			}

			page, err := sh.Open(router.Home())
			if err != nil {
				return err
			}
			home := page.(*catalog.View)
			home.SetLimit(limit)
			if home.Limit() != limit {
				return errors.New(view.Message(view.ErrInvalidLimit, ""))
			}

			if err := sh.Reload(cmd.Context()); err != nil {
				return errors.New(home.Snapshot().Error)
			}
			home.SetFilterText(search)

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(home.Snapshot())
			return nil
		},
	}
	cmd.Flags().StringVarP(&limit, "limit", "l", catalog.DefaultLimit, "Number of games to fetch")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show games whose name contains this text")
	return cmd
}

func newGameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "game <id>",
		Short: "Show one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadGame(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(snap)
			return nil
		},
	}
}

func loadGame(ctx context.Context, id string) (detail.GameSnapshot, error) {
	sh, err := openShell(ctx)
	if err != nil {
		return detail.GameSnapshot{}, err
	}
	if err := sh.Navigate(ctx, gameTarget(id)); err != nil {
		if page, ok := sh.Page().(*detail.Game); ok {
			return page.Snapshot(), errors.New(page.Snapshot().Error)
		}
		return detail.GameSnapshot{}, err
	}
	page, ok := sh.Page().(*detail.Game)
	if !ok {
		return detail.GameSnapshot{}, fmt.Errorf("game %s: %w", id, view.ErrNotLoggedIn)
	}
	return page.Snapshot(), nil
}

func newPublisherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publisher <name>",
		Short: "List a publisher's games",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := openShell(cmd.Context())
			if err != nil {
				return err
			}
			if err := sh.Navigate(cmd.Context(), router.Target{Path: router.PublisherPath(args[0])}); err != nil {
				return listError(sh, err)
			}
			page, ok := sh.Page().(*detail.Publisher)
			if !ok {
				return view.ErrNotLoggedIn
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(page.Snapshot())
			return nil
		},
	}
}

func newCategoryCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "category <name>",
		Short: "List the games carrying a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := openShell(cmd.Context())
			if err != nil {
				return err
			}
			if err := sh.Navigate(cmd.Context(), router.Target{Path: router.CategoryPath(args[0])}); err != nil {
				return listError(sh, err)
			}
			page, ok := sh.Page().(*detail.Category)
			if !ok {
				return view.ErrNotLoggedIn
			}
			page.SetFilterText(search)

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(page.Snapshot())
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show games whose name contains this text")
	return cmd
}

// listError prefers the message the list view recorded
func listError(sh *shell.Shell, err error) error {
	switch page := sh.Page().(type) {
	case *detail.Publisher:
		return errors.New(page.Snapshot().Error)
	case *detail.Category:
		return errors.New(page.Snapshot().Error)
	default:
		return err
	}
}

func newGraphCmd() *cobra.Command {
	var (
		htmlFile string
		hover    string
	)
	cmd := &cobra.Command{
		Use:   "graph <id>",
		Short: "Show a game's relationship graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadGame(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			canvas := graph.NewCanvas(snap.Graph)
			if hover != "" {
				canvas.Hover(hover)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if htmlFile == "" {
				out.Print(canvas)
				return nil
			}
			if err := exportGraph(cmd.Context(), canvas, htmlFile); err != nil {
				return err
			}
			out.PrintMessage("Graph written to " + htmlFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&htmlFile, "html", "", "Write the graph as an HTML page to this file")
	cmd.Flags().StringVar(&hover, "hover", "", "Highlight this node")
	return cmd
}

func exportGraph(ctx context.Context, canvas *graph.Canvas, path string) error {
	page, err := graphhtml.Render(ctx, graphhtml.Page(canvas))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	return nil
}

func newSimilarCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "similar <id>",
		Short: "List the games sharing the most tags with a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := openShell(cmd.Context())
			if err != nil {
				return err
			}
			header, ok := sh.Session().AuthHeader()
			if !ok {
				return view.ErrNotLoggedIn
			}

			similar, err := api.SimilarGames(cmd.Context(), header, args[0], limit)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(similar)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Number of games to list (server default when 0)")
	return cmd
}
