package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robotomize/convq/internal/logging"
	"github.com/robotomize/convq/reconcile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "CONVQ"

func commandContext(cmd *cobra.Command) context.Context {
	return logging.WithLogger(cmd.Context(), logging.NewLogger("convq"))
}

func newRootCmd() *cobra.Command {
	var configFile, cacheDir string

	v := viper.New()
	rec := &reconciledState{v: v}

	root := &cobra.Command{
		Use:           "convq",
		Short:         "Free-form currency conversion backed by cached exchange rates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rec.init(cmd, configFile, cacheDir)
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "path to the settings file")
	root.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "directory for the rate snapshot")

	root.AddCommand(newQueryCmd(rec), newUpdateCmd(rec), newWatchCmd(rec))

	return root
}

// reconciledState ties the viper instance to the one Reconciler of the
// process. Settings files are optional, env vars alone are a valid setup
type reconciledState struct {
	v          *viper.Viper
	reconciler *reconcile.Reconciler
}

func (s *reconciledState) init(cmd *cobra.Command, configFile, cacheDir string) error {
	s.v.SetEnvPrefix(envPrefix)
	s.v.AutomaticEnv()

	if configFile != "" {
		s.v.SetConfigFile(configFile)
		if err := s.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read settings file: %w", err)
		}
	}

	var opts []reconcile.Option
	if cacheDir != "" {
		opts = append(opts, reconcile.WithCacheDir(cacheDir))
	}

	s.reconciler = reconcile.New(opts...)

	ctx := commandContext(cmd)
	report := s.reconciler.Apply(ctx, settingsFromViper(s.v))
	if report.Err != nil {
		logging.DefaultLogger().Warn().Err(report.Err).Msg("some settings fell back to defaults")
	}

	return nil
}

func (s *reconciledState) reload(cmd *cobra.Command) {
	ctx := commandContext(cmd)
	report := s.reconciler.Apply(ctx, settingsFromViper(s.v))

	event := logging.DefaultLogger().Info().
		Strs("changed", report.Changed).
		Bool("forced_update", report.ForcedUpdate)
	if report.Err != nil {
		event = event.Err(report.Err)
	}
	event.Msg("settings reloaded")
}

// settingsFromViper keeps the absent/set distinction: a key the user never
// wrote stays a nil pointer
func settingsFromViper(v *viper.Viper) reconcile.Settings {
	var settings reconcile.Settings

	lookup := func(key string) *string {
		if !v.IsSet(key) {
			return nil
		}

		return reconcile.String(v.GetString(key))
	}

	settings.UpdateFreq = lookup("update_freq")
	settings.AppID = lookup("app_id")
	settings.InputCurrency = lookup("input_cur")
	settings.OutputCurrencies = lookup("output_cur")
	settings.Separators = lookup("separators")
	settings.DestinationSeparators = lookup("destination_separators")
	settings.Aliases = lookup("aliases")

	return settings
}

func newQueryCmd(state *reconciledState) *cobra.Command {
	return &cobra.Command{
		Use:   "query <text>",
		Short: "Resolve one conversion query and print the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, state, strings.Join(args, " "))
		},
	}
}

func runQuery(cmd *cobra.Command, state *reconciledState, input string) error {
	ctx := commandContext(cmd)

	resolution, err := state.reconciler.Resolver().Resolve(ctx, input)
	if err != nil {
		return err
	}

	for _, result := range resolution.Results {
		fmt.Fprintln(cmd.OutOrStdout(), result.Description)
	}

	if resolution.Status != "" {
		fmt.Fprintf(cmd.OutOrStderr(), "rates may be stale: %s\n", resolution.Status)
	}

	return nil
}

func newUpdateCmd(state *reconciledState) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Force a rate refresh and report the table age",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			b := state.reconciler.Resolver().Broker()
			b.ForceUpdate(ctx)

			if err := b.LastError(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "rates updated %s ago\n", time.Since(b.LastUpdate()).Round(time.Second))

			return nil
		},
	}
}

func newWatchCmd(state *reconciledState) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Resolve queries from stdin, reloading settings on file change",
		RunE: func(cmd *cobra.Command, args []string) error {
			if state.v.ConfigFileUsed() != "" {
				state.v.OnConfigChange(func(fsnotify.Event) {
					state.reload(cmd)
				})
				state.v.WatchConfig()
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				if err := runQuery(cmd, state, line); err != nil {
					fmt.Fprintf(cmd.OutOrStderr(), "error: %v\n", err)
				}
			}

			return scanner.Err()
		},
	}
}
