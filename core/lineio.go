package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/smallsh/core/mode"
	"github.com/mattn/go-isatty"
)

// ErrLineTooLong is returned alongside the truncated line when the input
// exceeded the configured limit.
var ErrLineTooLong = errors.New("line too long")

// LineReader reads one command line at a time after writing a prompt.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// NewLineReader picks the readline editor when enabled and in is a terminal,
// otherwise plain buffered reads are used. maxLine bounds a single line.
func NewLineReader(in io.Reader, out, errOut io.Writer, maxLine int, lineEditing bool) (LineReader, error) {
	if f, ok := in.(*os.File); ok && lineEditing && isatty.IsTerminal(f.Fd()) {
		return newEditorReader(f, out, errOut, maxLine)
	}
	return newBufferedReader(in, out, maxLine), nil
}

type bufferedReader struct {
	r   *bufio.Reader
	out io.Writer
}

var _ LineReader = (*bufferedReader)(nil)

func newBufferedReader(in io.Reader, out io.Writer, maxLine int) *bufferedReader {
	return &bufferedReader{r: bufio.NewReaderSize(in, maxLine), out: out}
}

func (b *bufferedReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(b.out, prompt)

	line, err := b.r.ReadSlice('\n')
	switch {
	case err == bufio.ErrBufferFull:
		kept := string(line)
		if err := b.discardLine(); err != nil && err != io.EOF {
			return "", err
		}
		return kept, ErrLineTooLong
	case err == io.EOF && len(line) > 0:
		// Final line without a newline, EOF is reported on the next read.
		return string(line), nil
	case err != nil:
		return "", err
	}
	return string(line), nil
}

// discardLine drops input up to and including the next newline.
func (b *bufferedReader) discardLine() error {
	for {
		_, err := b.r.ReadSlice('\n')
		if err != bufio.ErrBufferFull {
			return err
		}
	}
}

func (b *bufferedReader) Close() error {
	return nil
}

type editorReader struct {
	rl      *readline.Instance
	maxLine int
	errOut  io.Writer
	// suspend replaces readline's own Ctrl-Z handling, which stops the
	// parent process and waits to be resumed.
	suspend func() error
}

var _ LineReader = (*editorReader)(nil)

func newEditorReader(in *os.File, out, errOut io.Writer, maxLine int) (*editorReader, error) {
	e := &editorReader{maxLine: maxLine, errOut: errOut, suspend: mode.Raise}

	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(in),
		Stdout: out,
		Stderr: errOut,
		FuncIsTerminal: func() bool {
			return true
		},
		// History is out of scope for this shell.
		HistoryLimit:           -1,
		DisableAutoSaveHistory: true,
		FuncFilterInputRune:    e.filterInput,
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}
	e.rl = rl
	return e, nil
}

// filterInput turns Ctrl-Z into the mode toggle signal and keeps it away from
// the editor.
func (e *editorReader) filterInput(r rune) (rune, bool) {
	if r != readline.CharCtrlZ {
		return r, true
	}
	if err := e.suspend(); err != nil {
		fmt.Fprintf(e.errOut, "smallsh: toggling mode: %v\n", err)
	}
	return r, false
}

func (e *editorReader) ReadLine(prompt string) (string, error) {
	e.rl.SetPrompt(prompt)
	line, err := e.rl.Readline()
	switch {
	case err == readline.ErrInterrupt:
		// Interrupt clears the line.
		return "", nil
	case err != nil:
		return "", err
	case len(line) > e.maxLine:
		return line[:e.maxLine], ErrLineTooLong
	}
	return line, nil
}

func (e *editorReader) Close() error {
	return e.rl.Close()
}
