// Package console prints the user-facing side of a karaoke session: prompts,
// status lines and the lyric lines themselves.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Palette holds the ANSI sequences used for each kind of message.
type Palette struct {
	Input   string
	Action  string
	Warning string
	Reset   string
}

// DefaultPalette is cyan for prompts, green for actions and red for warnings.
var DefaultPalette = Palette{
	Input:   "\033[96m",
	Action:  "\033[92m",
	Warning: "\033[91m",
	Reset:   "\033[0m",
}

// NoColor prints plain text.
var NoColor = Palette{}

const ruleWidth = 50

// Printer writes coloured lines to an output stream.
type Printer struct {
	out     io.Writer
	palette Palette
}

// New returns a Printer over w using palette p.
func New(w io.Writer, p Palette) *Printer {
	return &Printer{out: w, palette: p}
}

// Stdout returns a Printer for the process stdout. Colour is dropped when
// stdout is not a terminal or noColor is set.
func Stdout(noColor bool) *Printer {
	p := DefaultPalette
	fd := os.Stdout.Fd()
	if noColor || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
		p = NoColor
	}
	return New(colorable.NewColorable(os.Stdout), p)
}

// Writer exposes the underlying stream.
func (p *Printer) Writer() io.Writer { return p.out }

// Palette returns the palette in use.
func (p *Printer) Palette() Palette { return p.palette }

func (p *Printer) colored(color, format string, args ...any) {
	fmt.Fprintf(p.out, "%s%s%s\n", color, fmt.Sprintf(format, args...), p.palette.Reset)
}

// Input prints a prompt-coloured line.
func (p *Printer) Input(format string, args ...any) {
	p.colored(p.palette.Input, format, args...)
}

// Action prints a progress line.
func (p *Printer) Action(format string, args ...any) {
	p.colored(p.palette.Action, format, args...)
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	p.colored(p.palette.Warning, format, args...)
}

// Plain prints an uncoloured line.
func (p *Printer) Plain(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Prompt prints text without a trailing newline, in the input colour.
func (p *Printer) Prompt(text string) {
	fmt.Fprintf(p.out, "%s%s%s", p.palette.Input, text, p.palette.Reset)
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	fmt.Fprintln(p.out)
}

// Rule prints a separator line of '='.
func (p *Printer) Rule() {
	fmt.Fprintln(p.out, strings.Repeat("=", ruleWidth))
}

// Banner prints a title framed by rules, the way section headers look in the session.
func (p *Printer) Banner(title string) {
	p.Blank()
	p.Rule()
	fmt.Fprintf(p.out, "      %s--- %s ---%s\n", p.palette.Input, title, p.palette.Reset)
	p.Rule()
}
