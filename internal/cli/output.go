package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ironsheep/colorthief/internal/palette"
)

// jsonStatus is the part of the JSON output shared by every command.
type jsonStatus struct {
	Source string `json:"source"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

func newJSONStatus(o outcome) jsonStatus {
	j := jsonStatus{Source: o.source, OK: !o.failed()}
	if err := o.problem(); err != nil {
		j.Error = err.Error()
	}
	return j
}

type jsonPalette struct {
	jsonStatus
	Palette interface{} `json:"palette"`
}

type jsonColor struct {
	jsonStatus
	// Color is null when there is no dominant colour.
	Color interface{} `json:"color"`
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatColor renders one colour as "#rrggbb" or "r,g,b".
func formatColor(c palette.Color, format string) string {
	if format == formatArray {
		return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
	}
	return c.Hex()
}

// prefix labels lines with their source when there is more than one.
func prefix(o outcome, many bool) string {
	if many {
		return o.source + ": "
	}
	return ""
}

// writePalettes prints one line per successful source; failures are left to
// the logger and the command's error.
func writePalettes(w io.Writer, format string, ct palette.ColorType, outcomes []outcome) error {
	if format == formatJSON {
		out := make([]jsonPalette, len(outcomes))
		for i, o := range outcomes {
			out[i] = jsonPalette{jsonStatus: newJSONStatus(o), Palette: o.res.Palette.Format(ct)}
		}
		return writeJSON(w, out)
	}

	many := len(outcomes) > 1
	for _, o := range outcomes {
		if o.failed() {
			continue
		}
		parts := make([]string, len(o.res.Palette))
		for i, c := range o.res.Palette {
			parts[i] = formatColor(c, format)
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", prefix(o, many), strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}

// writeColors prints the dominant colour of each successful source, or
// "none" when the image held no usable pixels.
func writeColors(w io.Writer, format string, ct palette.ColorType, outcomes []outcome) error {
	if format == formatJSON {
		out := make([]jsonColor, len(outcomes))
		for i, o := range outcomes {
			out[i] = jsonColor{jsonStatus: newJSONStatus(o)}
			if o.res.Dominant != nil {
				if ct == palette.ColorTypeArray {
					out[i].Color = o.res.Dominant.Array()
				} else {
					out[i].Color = o.res.Dominant.Hex()
				}
			}
		}
		return writeJSON(w, out)
	}

	many := len(outcomes) > 1
	for _, o := range outcomes {
		if o.failed() {
			continue
		}
		line := "none"
		if o.res.Dominant != nil {
			line = formatColor(*o.res.Dominant, format)
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", prefix(o, many), line); err != nil {
			return err
		}
	}
	return nil
}
