package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

// lineInput reads answers to interactive prompts.
type lineInput interface {
	ReadLine(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	Close() error
}

type basicLineInput struct {
	reader *bufio.Reader
	out    io.Writer
}

func newBasicLineInput(in io.Reader, out io.Writer) *basicLineInput {
	return &basicLineInput{reader: bufio.NewReader(in), out: out}
}

func (b *basicLineInput) ReadLine(prompt string) (string, error) {
	if b.out != nil {
		fmt.Fprint(b.out, prompt)
	}
	line, err := b.reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadPassword cannot hide input on a plain reader; it is only used when
// stdin is not a terminal.
func (b *basicLineInput) ReadPassword(prompt string) (string, error) {
	return b.ReadLine(prompt)
}

func (b *basicLineInput) Close() error { return nil }

type readlineInput struct {
	instance *readline.Instance
}

func newReadlineInput(out io.Writer) (*readlineInput, error) {
	instance, err := readline.NewEx(&readline.Config{
		Stdout:          out,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return nil, err
	}
	return &readlineInput{instance: instance}, nil
}

func (r *readlineInput) ReadLine(prompt string) (string, error) {
	r.instance.SetPrompt(prompt)
	return r.instance.Readline()
}

func (r *readlineInput) ReadPassword(prompt string) (string, error) {
	b, err := r.instance.ReadPassword(prompt)
	return string(b), err
}

func (r *readlineInput) Close() error {
	if r == nil || r.instance == nil {
		return nil
	}
	return r.instance.Close()
}

// newLineInput uses readline on a real terminal and a plain reader when
// stdin has been redirected (pipes, tests). Prompts go to stderr so stdout
// stays machine-readable.
func newLineInput(cmd *cobra.Command) lineInput {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && f == os.Stdin && readline.DefaultIsTerminal() {
		if r, err := newReadlineInput(cmd.ErrOrStderr()); err == nil {
			return r
		}
	}
	return newBasicLineInput(in, cmd.ErrOrStderr())
}

func isPromptAbort(err error) bool {
	return errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF)
}

// confirm asks a yes/no question; anything but y/yes is no.
func confirm(in lineInput, prompt string) (bool, error) {
	line, err := in.ReadLine(prompt)
	if err != nil {
		if isPromptAbort(err) {
			return false, nil
		}
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
