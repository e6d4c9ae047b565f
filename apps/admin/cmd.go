package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/trezcool/shule/apps"
	"github.com/trezcool/shule/apps/shared"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	deps    *shared.Deps
	openDB  func(ctx context.Context) (*sqlx.DB, error)
	in      io.Reader
	out     io.Writer
	printer *message.Printer
}

func newCommandLine(deps *shared.Deps, openDB func(context.Context) (*sqlx.DB, error)) *commandLine {
	return &commandLine{
		deps:    deps,
		openDB:  openDB,
		in:      os.Stdin,
		out:     os.Stdout,
		printer: message.NewPrinter(language.English),
	}
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         cli.deps.Conf.AppName + " admin tools",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	root.SetIn(cli.in)
	root.SetOut(cli.out)
	root.SetErr(cli.out)

	root.AddCommand(
		cli.studentsCmd(),
		cli.resultsCmd(),
		cli.averageCmd(),
		cli.atRiskCmd(),
		cli.recordCmd(),
		cli.feesCmd(),
		cli.overviewCmd(),
		cli.whoamiCmd(),
		cli.insightsCmd(),
		cli.resetCmd(),
		cli.notifyCmd(),
		cli.migrateCmd(),
	)
	return root
}

// run executes args, args[0] being the program name.
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func (cli *commandLine) table(headers ...any) *tablewriter.Table {
	table := tablewriter.NewTable(cli.out)
	table.Header(headers...)
	return table
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	_, _ = cli.printer.Fprintf(cli.out, format, args...)
}

// confirm asks for a "yes" on an interactive stdin. Scripts must pass --yes.
func (cli *commandLine) confirm(question string) error {
	f, ok := cli.in.(*os.File)
	if !ok || !isTerminalFunc(int(f.Fd())) {
		return apps.NewArgumentError("not a terminal: pass --yes to confirm")
	}
	fmt.Fprintf(cli.out, "%s [yes/no]: ", question)
	answer, err := bufio.NewReader(cli.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	if strings.ToLower(strings.TrimSpace(answer)) != "yes" {
		return apps.NewArgumentError("aborted")
	}
	return nil
}
