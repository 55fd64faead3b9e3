package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mcoot/steamgames/internal/client"
	"github.com/mcoot/steamgames/internal/graph"
	"github.com/mcoot/steamgames/internal/render"
	"github.com/mcoot/steamgames/internal/view/catalog"
	"github.com/mcoot/steamgames/internal/view/detail"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, out, errOut io.Writer) *Output {
	return &Output{format: format, out: out, errOut: errOut}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errOut, string(data))
	} else {
		fmt.Fprintf(o.errOut, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.out, string(data))
	} else {
		fmt.Fprintln(o.out, msg)
	}
}

func (o *Output) printJSON(data any) {
	switch v := data.(type) {
	case catalog.Snapshot:
		data = v.Result.Filtered
	case detail.GameSnapshot:
		data = v.Game
	case detail.ListSnapshot:
		data = v.Result.Filtered
	case *graph.Canvas:
		data = v.Graph()
	}

	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	var err error
	switch v := data.(type) {
	case catalog.Snapshot:
		err = render.Catalog(o.out, v)
	case detail.GameSnapshot:
		err = render.Game(o.out, v)
	case detail.ListSnapshot:
		err = render.List(o.out, v)
	case *graph.Canvas:
		err = render.Graph(o.out, v)
	case client.SimilarGames:
		err = render.SimilarGames(o.out, v)
	case HealthResult:
		_, err = fmt.Fprintf(o.out, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
	if err != nil {
		o.PrintError(err)
	}
}
