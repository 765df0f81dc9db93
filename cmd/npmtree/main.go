// Command npmtree is a thin sample driver over pkg/analyzer: it resolves
// one or more npm packages and prints the resulting dependency tree and
// hoisted installation plan as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/npmtree/pkg/analyzer"
	"github.com/matzehuels/npmtree/pkg/config"
	"github.com/matzehuels/npmtree/pkg/npmtree"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	var configPath string

	root := &cobra.Command{
		Use:          "npmtree",
		Short:        "npmtree resolves and hoists npm package dependency trees",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
				ReportTimestamp: true,
				TimeFormat:      "15:04:05.00",
				Level:           level,
			})
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to an optional npmtree.toml config file")

	root.AddCommand(newResolveCmd(&configPath))
	return root
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *charmlog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func loggerFromContext(ctx context.Context) *charmlog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*charmlog.Logger); ok {
		return l
	}
	return charmlog.Default()
}

func newResolveCmd(configPath *string) *cobra.Command {
	var multi bool
	var timeout time.Duration
	var registryURL string

	cmd := &cobra.Command{
		Use:   "resolve <name>@<descriptor> [more...]",
		Short: "Resolve one or more packages into a dependency tree and hoisted plan",
		Long: `Resolve one or more packages into a dependency tree and hoisted plan.

Examples:
  npmtree resolve left-pad@^1.0.0
  npmtree resolve --multi express@^4.0.0 lodash@^4.17.0`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if registryURL != "" {
				opts.RegistryURL = registryURL
			}
			if timeout > 0 {
				opts.Timeout = timeout
			}
			opts.Logger = loggerFromContext(cmd.Context())

			a := analyzer.New(opts)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if multi || len(args) > 1 {
				requests, err := parseRequests(args)
				if err != nil {
					return err
				}
				result, err := a.AnalyzeMany(cmd.Context(), requests)
				if err != nil {
					return err
				}
				return enc.Encode(result)
			}

			name, descriptor, err := parseRequest(args[0])
			if err != nil {
				return err
			}
			result, err := a.AnalyzeOne(cmd.Context(), name, descriptor)
			if err != nil {
				return err
			}
			return enc.Encode(result)
		},
	}

	cmd.Flags().BoolVar(&multi, "multi", false, "force multi-package analysis even for a single argument")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request registry timeout, e.g. 10s")
	cmd.Flags().StringVar(&registryURL, "registry", "", "registry base URL (overrides config)")
	return cmd
}

func parseRequests(args []string) ([]npmtree.PackageRequest, error) {
	requests := make([]npmtree.PackageRequest, 0, len(args))
	for _, arg := range args {
		name, descriptor, err := parseRequest(arg)
		if err != nil {
			return nil, err
		}
		requests = append(requests, npmtree.PackageRequest{Name: name, Descriptor: descriptor})
	}
	return requests, nil
}

// parseRequest splits "name@descriptor" into its two parts. A scoped name's
// own leading "@" is not a separator; only the last "@" in the string is.
func parseRequest(arg string) (name, descriptor string, err error) {
	idx := strings.LastIndex(arg, "@")
	if idx <= 0 {
		return "", "", fmt.Errorf("invalid package argument %q, expected name@descriptor", arg)
	}
	return arg[:idx], arg[idx+1:], nil
}
