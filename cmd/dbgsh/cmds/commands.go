//go:build windows

// Package cmds implements the dbgsh command line interface.
package cmds

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/go-dbgeng/dbgeng/pkg/config"
	"github.com/go-dbgeng/dbgeng/pkg/dbgeng"
	"github.com/go-dbgeng/dbgeng/pkg/logflags"
	"github.com/go-dbgeng/dbgeng/pkg/terminal"
	"github.com/go-dbgeng/dbgeng/pkg/version"
)

var (
	// log is whether to log debug statements.
	log bool
	// logOutput is a comma separated list of components that should produce debug output.
	logOutput string
	// logDest is the file path or file descriptor where logs should go.
	logDest string
	// initFile is the path to initialization file.
	initFile string
	// symbolPath overrides the engine symbol path.
	symbolPath string
	// noninvasive attaches without taking control of the target.
	noninvasive bool

	// rootCommand is the root of the command tree.
	rootCommand *cobra.Command

	conf *config.Config
)

const dbgshCommandLongDesc = `dbgsh is an interactive shell for the Windows debugger engine.

It drives dbgeng.dll, the engine behind WinDbg and cdb, through a small set
of local commands and forwards everything else to the engine's own command
language unchanged.`

// New returns an initialized command tree.
func New() *cobra.Command {
	// Config setup and load.
	conf = config.LoadConfig()

	// Main dbgsh root command.
	rootCommand = &cobra.Command{
		Use:   "dbgsh",
		Short: "dbgsh is an interactive shell for the Windows debugger engine.",
		Long:  dbgshCommandLongDesc,
	}

	rootCommand.PersistentFlags().BoolVarP(&log, "log", "", false, "Enable debug logging.")
	rootCommand.PersistentFlags().StringVarP(&logOutput, "log-output", "", "", `Comma separated list of components that should produce debug output (see 'dbgsh help log')`)
	rootCommand.PersistentFlags().StringVarP(&logDest, "log-dest", "", "", "Writes logs to the specified file or file descriptor (see 'dbgsh help log').")
	rootCommand.PersistentFlags().StringVar(&initFile, "init", "", "Init file, executed before the first prompt.")
	rootCommand.PersistentFlags().StringVar(&symbolPath, "sympath", "", "Engine symbol path; overrides the configured symbol-path.")

	// 'attach' subcommand.
	attachCommand := &cobra.Command{
		Use:   "attach pid",
		Short: "Attach to running process and begin debugging.",
		Long: `Attach to an already running process and begin debugging it.

When exiting the shell you will have the option to let the process continue
or kill it.`,
		Args: cobra.ExactArgs(1),
		Run:  attachCmd,
	}
	attachCommand.Flags().BoolVar(&noninvasive, "noninvasive", false, "Attach without taking control of the target.")
	rootCommand.AddCommand(attachCommand)

	// 'run' subcommand.
	runCommand := &cobra.Command{
		Use:   "run program [args...]",
		Short: "Launch a program and begin debugging.",
		Long: `Launches the specified program under the engine's control and stops at the
initial breakpoint.`,
		Args: cobra.MinimumNArgs(1),
		Run:  runCmd,
	}
	rootCommand.AddCommand(runCommand)

	// 'dump' subcommand.
	dumpCommand := &cobra.Command{
		Use:   "dump file",
		Short: "Open a crash dump and begin debugging.",
		Args:  cobra.ExactArgs(1),
		Run:   dumpCmd,
	}
	rootCommand.AddCommand(dumpCommand)

	// 'version' subcommand.
	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Prints version.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dbgsh %s\n%s\n", version.DbgshVersion, version.BuildInfo())
		},
	}
	rootCommand.AddCommand(versionCommand)

	rootCommand.AddCommand(&cobra.Command{
		Use:   "log",
		Short: "Help about logging flags.",
		Long: `Logging can be enabled by specifying the --log flag and using the
--log-output flag to select which components should produce logs.

The argument of --log-output must be a comma separated list of component
names selected from this list:

	dbgeng		Log engine calls
	repl		Log shell command dispatch
	script		Log starlark script execution

Additionally --log-dest can be used to specify where the logs should be
written.
If the argument is a number it will be interpreted as a file descriptor,
otherwise as a file path.
`,
	})

	rootCommand.DisableAutoGenTag = true

	return rootCommand
}

func attachCmd(cmd *cobra.Command, args []string) {
	status := func() int {
		pid, err := strconv.ParseUint(args[0], 0, 32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid pid %q\n", args[0])
			return 1
		}
		flags := uint32(dbgeng.DEBUG_ATTACH_DEFAULT)
		if noninvasive {
			flags = dbgeng.DEBUG_ATTACH_NONINVASIVE
		}
		return execute(func(client *dbgeng.Client) error {
			return client.AttachProcess(uint32(pid), flags)
		})
	}()
	os.Exit(status)
}

func runCmd(cmd *cobra.Command, args []string) {
	status := execute(func(client *dbgeng.Client) error {
		return client.CreateProcessAndAttach(windowsCmdline(args), dbgeng.DEBUG_ONLY_THIS_PROCESS)
	})
	os.Exit(status)
}

func dumpCmd(cmd *cobra.Command, args []string) {
	status := execute(func(client *dbgeng.Client) error {
		return client.OpenDumpFile(args[0])
	})
	os.Exit(status)
}

// execute sets up logging and the engine client, starts the target through
// open and runs the shell on it.
func execute(open func(client *dbgeng.Client) error) int {
	if err := logflags.Setup(log, logOutput, logDest); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer logflags.Close()

	client, err := dbgeng.Create()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not create engine client: %v\n", err)
		return 1
	}
	defer client.Close()

	sympath := conf.SymbolPath
	if symbolPath != "" {
		sympath = symbolPath
	}
	if sympath != "" {
		if err := client.SetSymbolPath(sympath); err != nil {
			fmt.Fprintf(os.Stderr, "could not set symbol path: %v\n", err)
			return 1
		}
	}

	if err := open(client); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	// The engine completes attach and dump loading on the first wait.
	if err := client.WaitForEvent(dbgeng.WaitTimeoutInfinite); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	term := terminal.New(client, conf)
	term.InitFile = initFile
	status, err := term.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return status
}
