package util

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/options"
	"github.com/spf13/viper"
)

const (
	// FlagConfig is the persistent flag naming the configuration file.
	FlagConfig = "config"

	// EnvConfig is the environment variable naming the configuration file,
	// consulted when --config is not given.
	EnvConfig = "MAHIROCTL_CONFIG"
)

// LoadOptions reads the adapter configuration from the given file, or from
// the default search paths (./mahiro.yaml, $HOME/.mahiro/mahiro.yaml) when
// cfgFile is empty. A missing default config file is not an error: defaults
// apply. A missing explicitly named file is.
func LoadOptions(cfgFile string) (*options.Options, error) {
	opts := options.NewOptions()

	explicit := cfgFile != ""
	if !explicit {
		cfgFile = os.Getenv(EnvConfig)
		explicit = cfgFile != ""
	}

	v := viper.New()
	if explicit {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("mahiro")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.mahiro")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && errors.As(err, &notFound) {
			return opts, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := v.Unmarshal(opts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file %s: %w", v.ConfigFileUsed(), err)
	}

	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	return opts, nil
}

// CheckErr prints the error in red and exits non-zero.
func CheckErr(err error) {
	if err == nil {
		return
	}
	_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
