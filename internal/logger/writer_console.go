package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/tidwall/pretty"
)

// WriterConsole is a Console that writes one line per call to an io.Writer.
// Attribute maps are encoded as JSON, pretty-printed and coloured when the
// writer is a terminal.
type WriterConsole struct {
	logger *log.Logger
	color  bool
}

// NewWriterConsole creates a console that writes to w.
func NewWriterConsole(w io.Writer) *WriterConsole {
	if w == nil {
		w = os.Stderr
	}
	return &WriterConsole{
		logger: log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		color:  isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Debug writes args with a DEBUG prefix.
func (c *WriterConsole) Debug(args ...any) { c.print("DEBUG", args) }

// Info writes args with an INFO prefix.
func (c *WriterConsole) Info(args ...any) { c.print("INFO", args) }

// Warn writes args with a WARN prefix.
func (c *WriterConsole) Warn(args ...any) { c.print("WARN", args) }

// Error writes args with an ERROR prefix.
func (c *WriterConsole) Error(args ...any) { c.print("ERROR", args) }

func (c *WriterConsole) print(level string, args []any) {
	var b strings.Builder
	b.WriteString("[" + level + "]")
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(c.render(arg))
	}
	c.logger.Print(b.String())
}

func (c *WriterConsole) render(arg any) string {
	switch v := arg.(type) {
	case string:
		return v
	case Attributes, map[string]any:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		if !c.color {
			return string(raw)
		}
		return strings.TrimRight(string(pretty.Color(pretty.Pretty(raw), nil)), "\n")
	default:
		return fmt.Sprint(v)
	}
}
