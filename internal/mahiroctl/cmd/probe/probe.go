package probe

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/kiosk404/mahiro-adapter/internal/adapter"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/config"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin"
	cmdutil "github.com/kiosk404/mahiro-adapter/internal/mahiroctl/cmd/util"
	genericoptions "github.com/kiosk404/mahiro-adapter/internal/pkg/options"
	"github.com/kiosk404/mahiro-adapter/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Options holds the flags of the 'probe' sub command.
type Options struct {
	UserID    string
	Nickname  string
	CardName  string
	SessionID string
	Message   string

	APIBaseURL     string
	TimeoutSeconds float64
}

// NewCmdProbe returns the 'probe' sub command. It drives one full message
// round-trip through the adapter: hook dispatch, favorability fetch, cache
// store, prompt patch assembly.
func NewCmdProbe() *cobra.Command {
	o := &Options{}

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Fetch favorability for a user and print the prompt patch",
		Long: heredoc.Doc(`
			Probe the companion bot API for a single user and print the prompt
			context patch the adapter would inject for that user's next message.

			The companion bot address is taken from the configuration file
			(plugins.entries.userinfo.config.api_base_url) and can be overridden
			with --api.`),
		Example: heredoc.Doc(`
			# Probe with the configured companion bot address
			mahiroctl probe --user-id 10001 --nickname Alice

			# Probe a local mock server
			mahiroctl mock --addr 127.0.0.1:9900 &
			mahiroctl probe --api http://127.0.0.1:9900 --user-id 10001`),
		Run: func(cmd *cobra.Command, args []string) {
			cmdutil.CheckErr(o.Run(cmd.Context()))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.UserID, "user-id", "", "User ID to probe (required).")
	flags.StringVar(&o.Nickname, "nickname", "", "User nickname.")
	flags.StringVar(&o.CardName, "card-name", "", "User group card name, preferred over nickname when set.")
	flags.StringVar(&o.SessionID, "session-id", "probe", "Session ID of the simulated message.")
	flags.StringVar(&o.Message, "message", "hello", "Plain text of the simulated message.")
	flags.StringVar(&o.APIBaseURL, "api", "", "Companion bot base URL, overrides the configuration file.")
	flags.Float64Var(&o.TimeoutSeconds, "timeout", 0, "Request timeout in seconds, overrides the configuration file.")
	_ = cmd.MarkFlagRequired("user-id")

	return cmd
}

// Run executes the probe sub command.
func (o *Options) Run(ctx context.Context) error {
	opts, err := cmdutil.LoadOptions(viper.GetString(cmdutil.FlagConfig))
	if err != nil {
		return err
	}
	o.applyOverrides(opts.PluginOptions)

	cfg, err := config.CreateConfigFromOptions(opts)
	if err != nil {
		return err
	}

	m, err := adapter.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := m.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := m.Stop(context.Background()); err != nil {
			logger.Warn("[Probe] stop error: %v", err)
		}
	}()

	event := &plugin.MessageEvent{
		UserID:    o.UserID,
		Nickname:  o.Nickname,
		CardName:  o.CardName,
		SessionID: o.SessionID,
		PlainText: o.Message,
	}

	m.OnMessage(ctx, event)

	patch, err := m.BuildPromptPatch(ctx, event)
	if err != nil {
		return err
	}

	if patch == "" {
		fmt.Fprintf(os.Stdout, "%s no prompt patch produced for user %s (is the companion bot reachable?)\n",
			color.New(color.FgRed).Sprint("FAIL"), event.DisplayName())
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "%s prompt patch for user %s:\n\n%s\n",
		color.New(color.FgGreen).Sprint("OK"), event.DisplayName(), patch)

	return nil
}

// applyOverrides pushes the probe's flag overrides into the userinfo plugin
// entry so config resolution picks them up like any other user setting.
func (o *Options) applyOverrides(opts *genericoptions.PluginsOptions) {
	if o.APIBaseURL == "" && o.TimeoutSeconds <= 0 {
		return
	}
	if opts.Entries == nil {
		opts.Entries = make(map[string]genericoptions.PluginEntryConfig)
	}
	entry := opts.Entries["userinfo"]
	if entry.Config == nil {
		entry.Config = make(map[string]interface{})
	}
	if o.APIBaseURL != "" {
		entry.Config["api_base_url"] = o.APIBaseURL
	}
	if o.TimeoutSeconds > 0 {
		entry.Config["request_timeout"] = o.TimeoutSeconds
	}
	opts.Entries["userinfo"] = entry
}
