package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"

	"github.com/rstms/dfat"
	"github.com/rstms/dfat/session"
)

const helpText = `Available Commands:
  dir            - List contents of current directory
  cd <dir>       - Change directory
  read <file>    - Read and display file contents
  pwd            - Print current directory path
  help           - Show available commands
  exit           - Exit program
`

// Shell is the interactive command loop over one session.
type Shell struct {
	Session *session.Session
	Label   string
	Stats   func() dfat.Stats
	Out     io.Writer
	Prompt  string
}

func New(s *session.Session, label string, stats func() dfat.Stats, out io.Writer) *Shell {
	return &Shell{
		Session: s,
		Label:   label,
		Stats:   stats,
		Out:     out,
		Prompt:  "> ",
	}
}

// Run reads commands from in until `exit` or end of input. Command errors
// are printed and do not end the loop. The device statistics are printed
// before returning.
func (sh *Shell) Run(in io.Reader) error {
	fmt.Fprintf(sh.Out, "Welcome to dBrowse! Disk label: %s\n", sh.Label)
	fmt.Fprint(sh.Out, helpText)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.Out, sh.Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(sh.Out)
			break
		}
		if done := sh.Execute(scanner.Text()); done {
			break
		}
	}
	sh.printStats()
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}
	return nil
}

func (sh *Shell) printStats() {
	if sh.Stats == nil {
		return
	}
	fmt.Fprintln(sh.Out)
	fmt.Fprint(sh.Out, sh.Stats())
}

// Execute runs a single command line and reports whether the shell should
// exit.
func (sh *Shell) Execute(line string) bool {
	line = strings.TrimSpace(line)
	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	log.WithField("command", command).WithField("arg", arg).Debug("execute")

	var err error
	switch command {
	case "":
	case "exit":
		return true
	case "help":
		fmt.Fprint(sh.Out, helpText)
	case "pwd":
		fmt.Fprintln(sh.Out, sh.Session.Pwd())
	case "dir":
		err = sh.dir()
	case "cd":
		err = sh.cd(arg)
	case "read":
		err = sh.read(arg)
	default:
		fmt.Fprintln(sh.Out, "Invalid command. Type 'help' for a list of commands.")
	}
	if err != nil {
		fmt.Fprintf(sh.Out, "error: %v\n", err)
	}
	return false
}

func (sh *Shell) dir() error {
	listings, err := sh.Session.List()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(sh.Out, 0, 8, 2, ' ', tabwriter.AlignRight)
	for _, l := range listings {
		if l.IsDir() {
			fmt.Fprintf(w, "<DIR>\t\t%s\n", l.Name)
		} else {
			fmt.Fprintf(w, "\t%d\t%s\n", l.Size, l.Name)
		}
	}
	return w.Flush()
}

func (sh *Shell) cd(arg string) error {
	if arg == "" {
		return fmt.Errorf("usage: cd <dir>")
	}
	return sh.Session.ChangeDirectory(arg)
}

func (sh *Shell) read(arg string) error {
	if arg == "" {
		return fmt.Errorf("usage: read <file>")
	}
	data, err := sh.Session.ReadFile(arg)
	if err != nil {
		return err
	}
	sh.Out.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(sh.Out)
	}
	return nil
}
