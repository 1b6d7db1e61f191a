/*
Copyright © 2017 the QMRA risk engine authors.
This file is part of the QMRA risk engine.

The QMRA risk engine is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

The QMRA risk engine is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with the QMRA risk engine.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package qmracmd holds the command-line batch runner for the QMRA engine:
// viper-backed configuration, cobra command tree, tabular input/output, and
// the glue that feeds parsed scenarios to the scenario package.
package qmracmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
)

// Version is the qmra command's reported version string.
const Version = "0.1.0"

// Cfg holds the command tree and the bound configuration.
type Cfg struct {
	*viper.Viper

	Root, versionCmd, runCmd, validateCmd *cobra.Command
}

var options = []struct {
	name, usage, shorthand string
	defaultVal             interface{}
}{
	{name: "config", usage: "path to a configuration file (flags override its values)"},
	{name: "pathogens", usage: "path to the pathogen parameter file (JSON); the built-in registry is used if empty"},
	{name: "scenarios", usage: "path to the scenario table (CSV), required", defaultVal: ""},
	{name: "dilution", usage: "path to the dilution table (CSV), required", defaultVal: ""},
	{name: "concentration", usage: "path to the pathogen-concentration table (CSV); optional if scenarios carry Effluent_Conc", defaultVal: ""},
	{name: "output", usage: "path to write the result table (CSV)", defaultVal: "qmra_results.csv", shorthand: "o"},
	{name: "seed", usage: "base random seed for the batch", defaultVal: int64(42)},
	{name: "n", usage: "Monte Carlo iteration count override; 0 uses each scenario's own N or the default", defaultVal: 0},
	{name: "workers", usage: "number of scenarios to evaluate concurrently; 0 or 1 runs sequentially", defaultVal: 0},
}

// InitializeConfig builds the qmra command tree and binds its flags.
func InitializeConfig() *Cfg {
	cfg := &Cfg{Viper: viper.New()}

	cfg.Root = &cobra.Command{
		Use:   "qmra",
		Short: "A quantitative microbial risk assessment engine.",
		Long: `qmra evaluates a batch of recreational-water or shellfish exposure scenarios
against each pathogen's default dose-response model (Beta-Binomial for
norovirus) and reports per-event and
annual infection/illness risk percentiles, population impact, and
compliance against the WHO annual infection risk threshold.

Configuration can be supplied as flags, a config file (--config), or
environment variables prefixed QMRA_.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setConfig(cfg)
		},
	}

	cfg.versionCmd = &cobra.Command{
		Use:               "version",
		Short:             "Print the version number",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("qmra v%s\n", Version)
		},
	}

	cfg.runCmd = &cobra.Command{
		Use:               "run",
		Short:             "Run a scenario batch and write the result table.",
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cfg)
		},
	}

	cfg.validateCmd = &cobra.Command{
		Use:               "validate",
		Short:             "Parse and validate the scenario, dilution, and concentration tables without running the batch.",
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Validate(cfg)
		},
	}

	cfg.Root.AddCommand(cfg.versionCmd, cfg.runCmd, cfg.validateCmd)

	cfg.SetEnvPrefix("QMRA")
	cfg.AutomaticEnv()
	flags := cfg.Root.PersistentFlags()
	for _, opt := range options {
		switch v := opt.defaultVal.(type) {
		case nil, string:
			def, _ := opt.defaultVal.(string)
			if opt.shorthand == "" {
				flags.String(opt.name, def, opt.usage)
			} else {
				flags.StringP(opt.name, opt.shorthand, def, opt.usage)
			}
		case int:
			flags.Int(opt.name, v, opt.usage)
		case int64:
			flags.Int64(opt.name, v, opt.usage)
		default:
			panic(fmt.Errorf("qmracmd: unsupported default type %T for option %q", v, opt.name))
		}
		cfg.BindPFlag(opt.name, flags.Lookup(opt.name))
	}
	return cfg
}

// setConfig reads the configuration file named by --config, if any.
func setConfig(cfg *Cfg) error {
	path := cfg.GetString("config")
	if path == "" {
		return nil
	}
	cfg.SetConfigFile(path)
	if err := cfg.ReadInConfig(); err != nil {
		return fmt.Errorf("qmracmd: reading configuration file: %v", err)
	}
	return nil
}

// checkOutputFile verifies that the output path's directory exists.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("qmracmd: no output file specified")
	}
	f = os.ExpandEnv(f)
	dir := filepath.Dir(f)
	if dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return f, fmt.Errorf("qmracmd: output directory does not exist: %v", err)
		}
	}
	return f, nil
}

func requireFlag(cfg *Cfg, name string) (string, error) {
	v := strings.TrimSpace(cfg.GetString(name))
	if v == "" {
		return "", fmt.Errorf("qmracmd: --%s is required", name)
	}
	return os.ExpandEnv(v), nil
}
