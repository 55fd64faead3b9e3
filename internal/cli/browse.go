package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/steamgames/internal/client"
	"github.com/mcoot/steamgames/internal/graph"
	"github.com/mcoot/steamgames/internal/router"
	"github.com/mcoot/steamgames/internal/shell"
	"github.com/mcoot/steamgames/internal/view"
	"github.com/mcoot/steamgames/internal/view/catalog"
	"github.com/mcoot/steamgames/internal/view/detail"
)

const prompt = "steamgames> "

const browseHelp = `Commands:
  login <username> <password>  log in (catalog page)
  logout                       log out and return to the catalog
  limit <n>                    set how many games to fetch (catalog page)
  fetch                        fetch games with the current limit (catalog page)
  search [text]                filter the table by name; no text clears it
  select <row>                 open the game on a table row
  open <path>                  go to /, /games/{id}, /publishers/{name} or /categories/{name}
  back                         return to the previous page
  refresh                      fetch the current page again
  graph                        show the relationship graph (game page)
  hover [name]                 highlight a graph node; no name clears it
  click <name>                 open a publisher or tag node
  export <file>                write the graph as an HTML page
  help                         show this help
  quit                         leave`

var (
	errQuit        = errors.New("quit")
	errWrongPage   = errors.New("not available on this page")
	errMissingArgs = errors.New("missing argument, see help")
)

// browser is an interactive session over one shell
type browser struct {
	shell  *shell.Shell
	out    *Output
	w      io.Writer
	canvas *graph.Canvas
}

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := newBrowser(cmd.OutOrStdout(), cmd.ErrOrStderr())
			return b.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

func newBrowser(w, errW io.Writer) *browser {
	b := &browser{
		out: NewOutput("text", w, errW),
		w:   w,
	}
	b.shell = shell.New(shell.Config{
		API:      api,
		Logger:   logger,
		OnRender: b.render,
	})
	return b
}

func (b *browser) run(ctx context.Context, in io.Reader) error {
	if err := b.shell.Navigate(ctx, router.Home()); err != nil {
		b.out.PrintError(err)
	}
	if cfg.HasCredentials() {
		if err := b.loginAs(ctx, cfg.Username, cfg.Password); err != nil {
			b.out.PrintError(err)
		}
	}

	scanner := bufio.NewScanner(in)
	fmt.Fprint(b.w, prompt)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			if errors.Is(b.exec(ctx, line), errQuit) {
				return nil
			}
		}
		fmt.Fprint(b.w, prompt)
	}
	return scanner.Err()
}

// exec runs one command line. Errors other than quit are printed.
func (b *browser) exec(ctx context.Context, line string) error {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch strings.ToLower(name) {
	case "quit", "exit":
		return errQuit
	case "help":
		fmt.Fprintln(b.w, browseHelp)
	case "login":
		err = b.login(ctx, arg)
	case "logout":
		err = b.shell.Logout(ctx)
	case "limit":
		err = b.limit(arg)
	case "fetch":
		err = b.fetch(ctx)
	case "search":
		err = b.search(arg)
	case "select":
		err = b.selectRow(ctx, arg)
	case "open":
		err = b.open(ctx, arg)
	case "back":
		err = b.shell.Back(ctx)
	case "refresh":
		err = b.shell.Reload(ctx)
	case "graph":
		err = b.graph()
	case "hover":
		err = b.hover(arg)
	case "click":
		err = b.click(ctx, arg)
	case "export":
		err = b.export(ctx, arg)
	default:
		err = fmt.Errorf("unknown command %q, see help", name)
	}

	// Load failures are already shown on the page
	if err != nil && !isPageError(err) {
		b.out.PrintError(err)
	}
	return err
}

// isPageError reports whether a view has recorded the error for display
func isPageError(err error) bool {
	var apiErr *client.Error
	return errors.As(err, &apiErr) ||
		errors.Is(err, view.ErrInvalidLimit) ||
		errors.Is(err, view.ErrNotLoggedIn)
}

func (b *browser) home() (*catalog.View, error) {
	home, ok := b.shell.Page().(*catalog.View)
	if !ok {
		return nil, errWrongPage
	}
	return home, nil
}

func (b *browser) login(ctx context.Context, arg string) error {
	username, password, _ := strings.Cut(arg, " ")
	return b.loginAs(ctx, username, strings.TrimSpace(password))
}

// loginAs submits the login form with the pair as given
func (b *browser) loginAs(ctx context.Context, username, password string) error {
	home, err := b.home()
	if err != nil {
		return err
	}
	if home.State() == catalog.LoggedIn {
		return errors.New("already logged in, logout first")
	}
	home.Login(ctx, username, password)
	b.printPage()
	return nil
}

func (b *browser) limit(arg string) error {
	home, err := b.home()
	if err != nil {
		return err
	}
	home.SetLimit(arg)
	home.BlurLimit()
	fmt.Fprintf(b.w, "Limit: %s\n", home.Limit())
	return nil
}

func (b *browser) fetch(ctx context.Context) error {
	home, err := b.home()
	if err != nil {
		return err
	}
	err = home.Fetch(ctx)
	b.printPage()
	return err
}

func (b *browser) search(arg string) error {
	switch page := b.shell.Page().(type) {
	case *catalog.View:
		page.SetFilterText(arg)
	case *detail.Category:
		page.SetFilterText(arg)
	default:
		return errWrongPage
	}
	b.printPage()
	return nil
}

func (b *browser) selectRow(ctx context.Context, arg string) error {
	row, err := strconv.Atoi(arg)
	if err != nil {
		return errMissingArgs
	}
	// rows are shown numbered from 1
	row--

	var target router.Target
	switch page := b.shell.Page().(type) {
	case *catalog.View:
		target, err = page.Select(row)
	case *detail.Publisher:
		target, err = page.Select(row)
	case *detail.Category:
		target, err = page.Select(row)
	default:
		return errWrongPage
	}
	if err != nil {
		return err
	}
	return b.shell.Navigate(ctx, target)
}

func (b *browser) open(ctx context.Context, path string) error {
	if path == "" {
		return errMissingArgs
	}
	return b.shell.Navigate(ctx, router.Target{Path: path})
}

func (b *browser) gameCanvas() (*graph.Canvas, error) {
	if _, ok := b.shell.Page().(*detail.Game); !ok || b.canvas == nil {
		return nil, errWrongPage
	}
	return b.canvas, nil
}

func (b *browser) graph() error {
	canvas, err := b.gameCanvas()
	if err != nil {
		return err
	}
	b.out.Print(canvas)
	return nil
}

func (b *browser) hover(name string) error {
	canvas, err := b.gameCanvas()
	if err != nil {
		return err
	}
	canvas.Hover(name)
	b.out.Print(canvas)
	return nil
}

func (b *browser) click(ctx context.Context, name string) error {
	canvas, err := b.gameCanvas()
	if err != nil {
		return err
	}
	node, ok := canvas.Graph().Node(name)
	if !ok {
		return fmt.Errorf("no node named %q", name)
	}
	target, ok := graph.Click(node)
	if !ok {
		fmt.Fprintf(b.w, "%s has no page of its own\n", name)
		return nil
	}
	return b.shell.Navigate(ctx, target)
}

func (b *browser) export(ctx context.Context, path string) error {
	canvas, err := b.gameCanvas()
	if err != nil {
		return err
	}
	if path == "" {
		return errMissingArgs
	}
	if err := exportGraph(ctx, canvas, path); err != nil {
		return err
	}
	fmt.Fprintf(b.w, "Graph written to %s\n", path)
	return nil
}

// render is the shell's render hook. Before a load only a provisional game
// is worth printing.
func (b *browser) render(_ router.Match, page view.Page, loaded bool) {
	if !loaded {
		game, ok := page.(*detail.Game)
		if !ok || !game.Snapshot().Provisional {
			return
		}
	}
	b.printPage()
}

func (b *browser) printPage() {
	switch page := b.shell.Page().(type) {
	case *catalog.View:
		b.out.Print(page.Snapshot())
	case *detail.Game:
		snap := page.Snapshot()
		b.out.Print(snap)
		if snap.Graph == nil || snap.NotFound() {
			b.canvas = nil
			return
		}
		if b.canvas == nil || b.canvas.Graph() != snap.Graph {
			b.canvas = graph.NewCanvas(snap.Graph)
		}
		fmt.Fprintln(b.w, "\nRelationships:")
		b.out.Print(b.canvas)
	case *detail.Publisher:
		b.out.Print(page.Snapshot())
	case *detail.Category:
		b.out.Print(page.Snapshot())
	}
}
