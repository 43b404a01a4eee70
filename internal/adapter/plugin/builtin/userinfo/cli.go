package userinfo

import (
	"fmt"

	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin/builtin/userinfo/entity"
	"github.com/kiosk404/mahiro-adapter/pkg/utils/json"
	"github.com/spf13/cobra"
)

// configCommand prints the plugin's effective configuration. Registered
// through the CLI capability channel so host operators can inspect what
// the plugin actually resolved from the config file.
type configCommand struct {
	cfg *entity.UserInfoConfig
}

var _ plugin.CLIRegistrar = (*configCommand)(nil)

// RegisterCommands implements plugin.CLIRegistrar.
func (c *configCommand) RegisterCommands(parent *cobra.Command) {
	parent.AddCommand(&cobra.Command{
		Use:   "userinfo-config",
		Short: "Print the effective userinfo plugin configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(c.cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})
}
