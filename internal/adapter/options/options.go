package options

import (
	genericoptions "github.com/kiosk404/mahiro-adapter/internal/pkg/options"
	"github.com/kiosk404/mahiro-adapter/pkg/utils/json"
	"github.com/spf13/pflag"
)

// Options is the top-level configuration surface of the adapter.
type Options struct {
	PluginOptions *genericoptions.PluginsOptions `json:"plugins" mapstructure:"plugins"`
}

// NewOptions returns Options populated with defaults.
func NewOptions() *Options {
	return &Options{
		PluginOptions: genericoptions.NewPluginsOptions(),
	}
}

// AddFlags adds the adapter's flags to the given flag set.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.PluginOptions.AddFlags(fs)
}

// Validate checks all option sections.
func (o *Options) Validate() []error {
	var errs []error
	errs = append(errs, o.PluginOptions.Validate()...)
	return errs
}

// Complete sets derived default Options.
func (o *Options) Complete() error {
	return nil
}

func (o *Options) String() string {
	data, _ := json.Marshal(o)

	return string(data)
}
