package cmd

import (
	"io"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/kiosk404/mahiro-adapter/internal/adapter"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/config"
	"github.com/kiosk404/mahiro-adapter/internal/mahiroctl/cmd/mock"
	"github.com/kiosk404/mahiro-adapter/internal/mahiroctl/cmd/probe"
	cmdutil "github.com/kiosk404/mahiro-adapter/internal/mahiroctl/cmd/util"
	"github.com/kiosk404/mahiro-adapter/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewDefaultMahiroCtlCommand creates the `mahiroctl` command with default
// arguments.
func NewDefaultMahiroCtlCommand() *cobra.Command {
	return NewMahiroCtlCommand(os.Stdout, os.Stderr)
}

// NewMahiroCtlCommand returns the mahiroctl root command.
func NewMahiroCtlCommand(out, errOut io.Writer) *cobra.Command {
	// Parent command to which all subcommands are added.
	cmds := &cobra.Command{
		Use:   "mahiroctl",
		Short: "mahiroctl drives the mahiro favorability adapter",
		Long: heredoc.Docf(`
			%s
			mahiroctl is the CLI companion of the mahiro favorability adapter.

			It can probe the companion bot API for a user's favorability and print
			the prompt patch the adapter would inject, and run a mock companion
			bot for local development.`, Banner()),
		Run: runHelp,
	}
	cmds.SetOut(out)
	cmds.SetErr(errOut)

	flags := cmds.PersistentFlags()
	flags.String(cmdutil.FlagConfig, "", "Path to the mahiroctl configuration file.")
	flags.Bool("debug", false, "Enable debug logging.")

	_ = viper.BindPFlags(flags)
	cobra.OnInitialize(func() {
		if viper.GetBool("debug") {
			logger.EnableDebug(true)
		}
	})

	cmds.AddCommand(probe.NewCmdProbe())
	cmds.AddCommand(mock.NewCmdMock())

	registerPluginCommands(cmds)

	return cmds
}

// registerPluginCommands surfaces plugin-provided subcommands on the root
// command. The plugin framework is wired from the default configuration
// (the MAHIROCTL_CONFIG env var or the default search paths; the --config
// flag is not parsed yet at this point). Construction is quiet so help
// output stays clean, and any failure just leaves the commands out.
func registerPluginCommands(cmds *cobra.Command) {
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	opts, err := cmdutil.LoadOptions("")
	if err != nil {
		return
	}
	cfg, err := config.CreateConfigFromOptions(opts)
	if err != nil {
		return
	}
	m, err := adapter.New(cfg)
	if err != nil {
		return
	}
	m.RegisterCLICommands(cmds)
}

func runHelp(cmd *cobra.Command, args []string) {
	_ = cmd.Help()
}
