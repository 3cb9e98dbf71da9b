// Package output provides terminal output for rendered dashboards: colors, logging and
// text tables.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wesleyorama2/jmdash/internal/dataset"
	"github.com/wesleyorama2/jmdash/internal/render"
)

// barWidth is the width of the pass/fail bar in characters.
const barWidth = 40

// Console prints dashboard summaries and tables to a terminal or a plain writer.
type Console struct {
	writer    io.Writer
	scheme    *ColorScheme
	useColors bool
	printer   *message.Printer
}

// ConsoleConfig contains configuration for Console.
type ConsoleConfig struct {
	Writer      io.Writer
	NoColor     bool
	ForceColors bool
}

// NewConsole creates a new console. Colors are used only on a color-capable terminal
// unless forced.
func NewConsole(config ConsoleConfig) *Console {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}

	useColors := !config.NoColor && (config.ForceColors || (IsTerminal(config.Writer) && supportsColors()))
	scheme := NoColorScheme()
	if useColors {
		scheme = DefaultColorScheme()
		for _, c := range scheme.all() {
			c.EnableColor()
		}
	}

	return &Console{
		writer:    config.Writer,
		scheme:    scheme,
		useColors: useColors,
		printer:   message.NewPrinter(language.English),
	}
}

// IsTerminal checks if the writer is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// supportsColors checks if the terminal supports colors.
func supportsColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// UseColors reports whether the console writes ANSI colors.
func (c *Console) UseColors() bool {
	return c.useColors
}

// PrintSummary prints the dashboard header and the pass/fail summary.
func (c *Console) PrintSummary(d *dataset.Dashboard) {
	line := strings.Repeat("─", 56)
	title := d.Title
	if title == "" {
		title = "JMeter Dashboard"
	}

	c.writeln("")
	c.writeln(c.scheme.Title.Sprint(line))
	c.writeln(c.scheme.Title.Sprint(title))
	c.writeln(c.scheme.Title.Sprint(line))

	if !d.TestStart.IsZero() {
		c.writeln(fmt.Sprintf("Start:         %s", c.scheme.Value.Sprint(d.TestStart.Format("2006-01-02 15:04:05 MST"))))
	}
	if !d.TestEnd.IsZero() {
		c.writeln(fmt.Sprintf("End:           %s", c.scheme.Value.Sprint(d.TestEnd.Format("2006-01-02 15:04:05 MST"))))
	}
	if dur := d.Duration(); dur > 0 {
		c.writeln(fmt.Sprintf("Duration:      %s", c.scheme.Value.Sprint(dur.String())))
	}

	if samples, errors, ok := totals(d); ok {
		c.writeln(fmt.Sprintf("Samples:       %s", c.scheme.Value.Sprint(c.FormatCount(samples))))
		c.writeln(fmt.Sprintf("Errors:        %s", c.scheme.ErrorRateColor(d.RequestsSummary.KoPercent).Sprint(c.FormatCount(errors))))
	}

	summary := d.RequestsSummary
	c.writeln(fmt.Sprintf("PASS:          %s", c.scheme.Pass.Sprintf("%.2f%%", summary.OkPercent)))
	c.writeln(fmt.Sprintf("FAIL:          %s", c.scheme.ErrorRateColor(summary.KoPercent).Sprintf("%.2f%%", summary.KoPercent)))
	c.writeln("               " + c.passFailBar(summary))
	c.writeln("")
}

// passFailBar draws the pass/fail ratio as a horizontal bar, failures first.
func (c *Console) passFailBar(summary dataset.PassFailSummary) string {
	fail := int(summary.KoPercent/100*barWidth + 0.5)
	if fail > barWidth {
		fail = barWidth
	}
	if fail < 0 {
		fail = 0
	}
	return c.scheme.Fail.Sprint(strings.Repeat("█", fail)) + c.scheme.Pass.Sprint(strings.Repeat("█", barWidth-fail))
}

// totals reads the sample and error counts from the statistics overall row.
func totals(d *dataset.Dashboard) (int64, int64, bool) {
	if d.Statistics == nil || d.Statistics.Overall == nil || len(d.Statistics.Overall.Data) < 3 {
		return 0, 0, false
	}
	samples, ok1 := d.Statistics.Overall.Data[1].Float()
	errors, ok2 := d.Statistics.Overall.Data[2].Float()
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return int64(samples), int64(errors), true
}

// FormatCount formats a count with thousands separators.
func (c *Console) FormatCount(n int64) string {
	return c.printer.Sprintf("%d", n)
}

// RenderTable renders a table as text: grouping header, titles, overall row, then the
// rows in their initial sort order.
func (c *Console) RenderTable(t *render.Table) (string, error) {
	data := pterm.TableData{t.Titles}
	if t.Overall != nil {
		data = append(data, c.highlightRow(t.Overall.Cells))
	}
	for _, row := range t.SortedRows() {
		data = append(data, row.Cells)
	}

	table := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data)
	if !c.useColors {
		plain := pterm.NewStyle()
		table = table.WithStyle(plain).WithHeaderStyle(plain).WithSeparatorStyle(plain).WithHeaderRowSeparatorStyle(plain)
	}

	out, err := table.Srender()
	if err != nil {
		return "", fmt.Errorf("failed to render table %s: %w", t.ID, err)
	}

	var b strings.Builder
	if len(t.GroupHeader) > 0 {
		b.WriteString(c.groupHeaderLine(t.GroupHeader))
		b.WriteString("\n")
	}
	b.WriteString(out)
	return b.String(), nil
}

func (c *Console) highlightRow(cells []string) []string {
	if !c.useColors {
		return cells
	}
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = c.scheme.Label.Sprint(cell)
	}
	return out
}

// groupHeaderLine lists the column groups with their span, since a text table cannot
// merge cells.
func (c *Console) groupHeaderLine(cells []render.HeaderCell) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = fmt.Sprintf("%s (%d)", cell.Label, cell.Span)
	}
	return c.scheme.Muted.Sprint("Groups: " + strings.Join(parts, " | "))
}

// PrintTables prints every table with its heading.
func (c *Console) PrintTables(tables []*render.Table, headings map[string]string) error {
	for _, t := range tables {
		heading := headings[t.ID]
		if heading == "" {
			heading = t.ID
		}
		out, err := c.RenderTable(t)
		if err != nil {
			return err
		}
		c.writeln(c.scheme.Label.Sprint(heading))
		c.writeln(out)
	}
	return nil
}

// PrintIssue prints a validation problem.
func (c *Console) PrintIssue(msg string) {
	c.writeln(fmt.Sprintf("  %s %s", ErrorIcon(!c.useColors), msg))
}

// PrintOK prints a success line.
func (c *Console) PrintOK(msg string) {
	c.writeln(fmt.Sprintf("%s %s", SuccessIcon(!c.useColors), msg))
}

// PrintWarning prints a warning line.
func (c *Console) PrintWarning(msg string) {
	c.writeln(fmt.Sprintf("%s %s", WarningIcon(!c.useColors), msg))
}

// Scheme returns the active color scheme.
func (c *Console) Scheme() *ColorScheme {
	return c.scheme
}

// writeln writes to the output with a newline.
func (c *Console) writeln(s string) {
	fmt.Fprintln(c.writer, s)
}

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for i := 0; i < len(s); i++ {
		if s[i] == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if (s[i] >= 'a' && s[i] <= 'z') || (s[i] >= 'A' && s[i] <= 'Z') {
				inEscape = false
			}
			continue
		}
		result.WriteByte(s[i])
	}

	return result.String()
}
