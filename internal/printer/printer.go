package printer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hay-kot/criterio"
	"golang.org/x/term"
)

// ANSI color codes (Tokyo Night palette)
const (
	ColorReset     = "\033[0m"
	ColorRed       = "\033[38;2;215;95;107m"  // #d75f6b
	ColorGreen     = "\033[38;2;158;206;106m" // #9ece6a (Tokyo Night green)
	ColorYellow    = "\033[38;2;224;175;104m" // #e0af68 (Tokyo Night yellow)
	ColorGray      = "\033[38;2;86;95;137m"   // #565f89 (Tokyo Night comment)
	ColorBold      = "\033[1m"
	ColorUnderline = "\033[4m"
)

// Symbols
const (
	Check = "✔"
	Cross = "✘"
	Dot   = "•"
	Warn  = "!"
)

type ctxKey struct{}

// Printer handles formatted output with colors and styles
type Printer struct {
	writer io.Writer
	color  bool
}

// New creates a new Printer that writes to the given writer with colors
// enabled.
func New(w io.Writer) *Printer {
	return &Printer{
		writer: w,
		color:  true,
	}
}

// NewAuto creates a Printer that only emits colors when w is a terminal and
// NO_COLOR is unset.
func NewAuto(w io.Writer) *Printer {
	return &Printer{
		writer: w,
		color:  IsTerminal(w) && os.Getenv("NO_COLOR") == "",
	}
}

// Plain creates a Printer without colors.
func Plain(w io.Writer) *Printer {
	return &Printer{writer: w}
}

// IsTerminal reports whether w is a terminal file descriptor.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.writer }

// Color reports whether the printer emits ANSI colors.
func (p *Printer) Color() bool { return p.color }

// NewContext returns a context with the printer attached
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx retrieves the printer from context, or creates a default one
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return NewAuto(os.Stderr)
}

// FatalError prints a formatted error box and does NOT exit
// Caller should handle exit code
func (p *Printer) FatalError(err error) {
	if err == nil {
		return
	}

	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		p.printValidationErrors(err, fieldErrs)
		return
	}

	lines := []string{
		p.colorize(ColorRed, "╭ Error"),
		p.colorize(ColorRed, "│") + " " + p.colorize(ColorGray, err.Error()),
		p.colorize(ColorRed, "╵"),
	}

	p.write(strings.Join(lines, "\n") + "\n")
}

// printValidationErrors formats criterio.FieldErrors nicely
func (p *Printer) printValidationErrors(wrappedErr error, fieldErrs criterio.FieldErrors) {
	// "create activity: invalid input: <field errors>" keeps the prefix as context
	errStr := wrappedErr.Error()
	fieldErrStr := fieldErrs.Error()

	errContext := ""
	if idx := strings.Index(errStr, fieldErrStr); idx > 0 {
		errContext = strings.TrimSuffix(errStr[:idx], ": ")
	}

	p.write(p.colorize(ColorRed, "╭ Validation Error") + "\n")

	if errContext != "" {
		p.write(p.colorize(ColorRed, "│") + " " + p.colorize(ColorGray, errContext) + "\n")
		p.write(p.colorize(ColorRed, "│") + "\n")
	}

	for _, fe := range fieldErrs {
		line := p.colorize(ColorRed, "│") + " " + p.colorize(ColorRed, Cross) + " "
		if fe.Field != "" {
			line += p.colorize(ColorGray, fe.Field+": ")
		}
		line += fe.Err.Error()
		p.write(line + "\n")
	}

	p.write(p.colorize(ColorRed, "╵") + "\n")
}

// Outcome prints the result of a mutation: green for success, yellow for a
// success that carries a warning, red for failure.
func (p *Printer) Outcome(success, partial bool, message string) {
	switch {
	case success && partial:
		p.write(p.colorize(ColorYellow, Warn+" "+message) + "\n")
	case success:
		p.write(p.colorize(ColorGreen, Check+" "+message) + "\n")
	default:
		p.write(p.colorize(ColorRed, Cross+" "+message) + "\n")
	}
}

// Errorf prints an error message in red
func (p *Printer) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.write(p.colorize(ColorRed, Cross+" "+msg) + "\n")
}

// Successf prints a success message in green
func (p *Printer) Successf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.write(p.colorize(ColorGreen, Check+" "+msg) + "\n")
}

// Success prints a success message with details on a separate line
func (p *Printer) Success(message string, details string) {
	p.write(p.colorize(ColorGreen, Check+" "+message) + "\n")
	if details != "" {
		p.write("  " + p.colorize(ColorGray, details) + "\n")
	}
}

// Infof prints an info message in gray
func (p *Printer) Infof(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.write(p.colorize(ColorGray, Dot+" "+msg) + "\n")
}

// Warnf prints a warning message in yellow
func (p *Printer) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.write(p.colorize(ColorYellow, Dot+" "+msg) + "\n")
}

// Printf prints a plain message without colors
func (p *Printer) Printf(format string, args ...any) {
	p.write(fmt.Sprintf(format, args...) + "\n")
}

// Section prints a section header (bold + underlined)
func (p *Printer) Section(title string) {
	p.write(p.colorize(ColorBold+ColorUnderline, title) + "\n")
}

// CheckItem prints a success item with green checkmark
func (p *Printer) CheckItem(label, detail string) {
	p.printItem(ColorGreen, Check, label, detail)
}

// WarnItem prints a warning item with yellow dot
func (p *Printer) WarnItem(label, detail string) {
	p.printItem(ColorYellow, Dot, label, detail)
}

// FailItem prints a failure item with red cross
func (p *Printer) FailItem(label, detail string) {
	p.printItem(ColorRed, Cross, label, detail)
}

func (p *Printer) printItem(color, symbol, label, detail string) {
	line := "  " + p.colorize(color, symbol) + " " + label
	if detail != "" {
		line += ": " + detail
	}
	p.write(line + "\n")
}

// KeyValue prints aligned "key  value" pairs. Pairs with an empty value are
// skipped.
func (p *Printer) KeyValue(pairs ...[2]string) {
	width := 0
	for _, kv := range pairs {
		width = max(width, len(kv[0]))
	}
	for _, kv := range pairs {
		if kv[1] == "" {
			continue
		}
		p.write(fmt.Sprintf("  %s  %s\n", p.colorize(ColorGray, fmt.Sprintf("%-*s", width, kv[0])), kv[1]))
	}
}

// Table renders rows under headers with a rounded border.
func (p *Printer) Table(headers []string, rows [][]string) {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	border := lipgloss.NewStyle()
	if p.color {
		header = header.Foreground(lipgloss.Color("#7aa2f7"))
		border = border.Foreground(lipgloss.Color("#565f89"))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	p.write(t.Render() + "\n")
}

// Bold makes text bold
func (p *Printer) Bold(text string) string {
	return p.colorize(ColorBold, text)
}

// colorize applies ANSI color codes to text
func (p *Printer) colorize(color, text string) string {
	if !p.color {
		return text
	}
	return color + text + ColorReset
}

func (p *Printer) write(s string) {
	_, _ = io.WriteString(p.writer, s)
}
