package destination

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
	tc "github.com/thijzert/go-termcolours"
	"golang.org/x/term"
)

// ErrNoAnswer is returned when the input ends before a question was answered
var ErrNoAnswer = errors.New("no answer")

// Terminal prompts on an interactive terminal
type Terminal struct{}

func (Terminal) Confirm(question string) (bool, error) {
	p := promptui.Prompt{
		Label:     question,
		IsConfirm: true,
	}
	_, err := p.Run()
	if err == promptui.ErrAbort {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

func (Terminal) Ask(question string) (string, error) {
	p := promptui.Prompt{
		Label: question,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("filename cannot be empty")
			}
			return nil
		},
	}
	rv, err := p.Run()
	return strings.TrimSpace(rv), err
}

// Lines prompts by reading lines of text, e.g. from a pipe
type Lines struct {
	r *bufio.Reader
	w io.Writer
}

// NewLines creates a line-based prompter
func NewLines(r io.Reader, w io.Writer) *Lines {
	return &Lines{
		r: bufio.NewReader(r),
		w: w,
	}
}

func (l *Lines) readLine() (string, error) {
	s, err := l.r.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		if err == io.EOF {
			return "", ErrNoAnswer
		}
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (l *Lines) Confirm(question string) (bool, error) {
	for {
		fmt.Fprintf(l.w, "%s? [y/n] ", question)
		s, err := l.readLine()
		if err != nil {
			return false, err
		}
		switch s {
		case "y", "Y":
			return true, nil
		case "n", "N":
			return false, nil
		}
	}
}

func (l *Lines) Ask(question string) (string, error) {
	for {
		fmt.Fprintf(l.w, "%s: ", question)
		s, err := l.readLine()
		if err != nil {
			return "", err
		}
		if s != "" {
			return s, nil
		}
	}
}

// Interactive returns a terminal prompter if stdin is a terminal, and a
// line-based one otherwise
func Interactive() Prompter {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return Terminal{}
	}
	return NewLines(os.Stdin, os.Stderr)
}

// Describe returns a short coloured description of a policy, for status output
func Describe(p Policy) string {
	switch p.(type) {
	case Force:
		return tc.Red("overwrite")
	case Rename:
		return tc.Yellow("rename")
	case Prompt:
		return tc.Green("ask")
	}
	return fmt.Sprintf("%T", p)
}
