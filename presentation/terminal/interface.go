package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ui_automation/application/scenario"
	"ui_automation/domain/entities"

	"github.com/sirupsen/logrus"
)

const helpText = `Commands (field may be written field:mode):
  open <url>                      navigate, relative to the base URL
  present <field>                 wait for the field
  show <field>                    open the dropdown
  search <field> <query>          type a query
  select <field> <index>          select a result
  pick <field> <index> <query>    search and select
  cancel <field>                  dismiss the dropdown
  reset <field>                   clear the selection
  selected <field> <text>         assert the selected value
  first <field> <text>            assert the only result
  empty <field>                   assert no results
  contains <field> <kw,kw...>     assert results contain keywords
  lacks <field> <kw,kw...>        assert results lack keywords
  run <scenario.yaml>             run a scenario file
  help, quit`

type TerminalInterface struct {
	runner *scenario.Runner
	seed   func([]scenario.Fixture)
	logger *logrus.Logger
	reader *bufio.Reader
	out    io.Writer
}

// NewTerminalInterface - creates an interactive prompt over runner
func NewTerminalInterface(runner *scenario.Runner, seed func([]scenario.Fixture), logger *logrus.Logger, in io.Reader, out io.Writer) *TerminalInterface {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &TerminalInterface{
		runner: runner,
		seed:   seed,
		logger: logger,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run - reads commands until quit or EOF
func (t *TerminalInterface) Run(ctx context.Context) error {
	fmt.Fprintln(t.out, "Search harness")
	fmt.Fprintln(t.out, "==============")
	fmt.Fprintln(t.out, "Type 'help' for commands, or 'quit' to exit")
	fmt.Fprintln(t.out)

	for {
		fmt.Fprint(t.out, "> ")
		input, err := t.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if input == "quit" || input == "exit" || input == "q" {
			fmt.Fprintln(t.out, "Bye")
			return nil
		}

		if err := t.Execute(ctx, input); err != nil {
			fmt.Fprintf(t.out, "FAIL: %v\n", err)
			if kind := entities.ErrorKind(err); kind != "" {
				t.logger.WithField("kind", kind).Debug("command failed")
			}
			continue
		}
		fmt.Fprintln(t.out, "ok")
	}
}

// Execute - runs a single command line
func (t *TerminalInterface) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		fmt.Fprintln(t.out, helpText)
		return nil
	case "open":
		if len(args) != 1 {
			return fmt.Errorf("usage: open <url>")
		}
		return t.runner.Navigate(ctx, args[0])
	case "run":
		if len(args) != 1 {
			return fmt.Errorf("usage: run <scenario.yaml>")
		}
		sc, err := scenario.Load(args[0])
		if err != nil {
			return err
		}
		if t.seed != nil {
			t.seed(sc.Fixtures)
		}
		journal, err := t.runner.Run(ctx, sc)
		if err != nil {
			return err
		}
		fmt.Fprintf(t.out, "%s passed (%s, %d steps)\n", sc.Name, journal.ID, len(journal.Steps))
		return nil
	}

	step, err := parseStep(cmd, args)
	if err != nil {
		return err
	}
	return t.runner.RunStep(ctx, step)
}

var stepCommands = map[string]bool{
	"present": true, "show": true, "cancel": true, "reset": true, "empty": true,
	"search": true, "selected": true, "first": true, "contains": true, "lacks": true,
	"select": true, "pick": true,
}

// parseStep - turns "<cmd> <field[:mode]> args..." into a scenario step
func parseStep(cmd string, args []string) (scenario.Step, error) {
	if !stepCommands[cmd] {
		return scenario.Step{}, fmt.Errorf("unknown command %q (try help)", cmd)
	}
	if len(args) == 0 {
		return scenario.Step{}, fmt.Errorf("%s: missing field", cmd)
	}
	field, mode, _ := strings.Cut(args[0], ":")
	step := scenario.Step{Field: field, Mode: mode}
	rest := args[1:]
	text := strings.Join(rest, " ")

	needText := func() error {
		if text == "" {
			return fmt.Errorf("%s: missing text", cmd)
		}
		return nil
	}

	switch cmd {
	case "present":
		step.Action = scenario.ActionAssertPresent
	case "show":
		step.Action = scenario.ActionShow
	case "cancel":
		step.Action = scenario.ActionCancel
	case "reset":
		step.Action = scenario.ActionReset
	case "empty":
		step.Action = scenario.ActionAssertEmpty
	case "search":
		step.Action, step.Query = scenario.ActionSearch, text
		return step, needText()
	case "selected":
		step.Action, step.Expect = scenario.ActionAssertSelected, text
		return step, needText()
	case "first":
		step.Action, step.Expect = scenario.ActionAssertFirstResult, text
		return step, needText()
	case "contains", "lacks":
		step.Action = scenario.ActionAssertContains
		if cmd == "lacks" {
			step.Action = scenario.ActionAssertNotContains
		}
		for _, kw := range strings.Split(text, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				step.Keywords = append(step.Keywords, kw)
			}
		}
		if len(step.Keywords) == 0 {
			return step, fmt.Errorf("%s: missing keywords", cmd)
		}
	case "select", "pick":
		if len(rest) == 0 {
			return step, fmt.Errorf("%s: missing index", cmd)
		}
		index, err := strconv.Atoi(rest[0])
		if err != nil || index < 0 {
			return step, fmt.Errorf("%s: bad index %q", cmd, rest[0])
		}
		step.Index = index
		step.Action = scenario.ActionSelect
		if cmd == "pick" {
			step.Action = scenario.ActionSearchAndSelect
			step.Query = strings.Join(rest[1:], " ")
			if step.Query == "" {
				return step, fmt.Errorf("pick: missing query")
			}
		}
	}
	return step, nil
}
