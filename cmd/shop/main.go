// Command shop is the shopNERD terminal storefront. Run without
// arguments it launches the interactive TUI; subcommands offer headless
// one-shot access to the same backend for scripts and smoke checks.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shopnerd/cmd/shop/shop"
	"shopnerd/internal/agent"
	"shopnerd/internal/api"
	"shopnerd/internal/config"
	"shopnerd/internal/logging"
)

var version = "0.3.0"

var (
	flagBaseURL string
	flagTimeout string
	flagVerbose bool

	cfg  *config.Config
	zlog *zap.Logger
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "shop",
		Short:   "Terminal storefront with a pricing-agent dashboard",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if flagBaseURL != "" {
				cfg.Server.BaseURL = flagBaseURL
			}
			if flagTimeout != "" {
				cfg.Server.Timeout = flagTimeout
			}
			if flagVerbose {
				cfg.Logging.DebugMode = true
				cfg.Logging.Level = "debug"
			}
			if err := logging.Initialize(cfg.Logging.DebugMode, cfg.Logging.Level, cfg.Logging.Categories); err != nil {
				return err
			}
			zlog, err = buildLogger(flagVerbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.CloseAll()
			if zlog != nil {
				_ = zlog.Sync()
			}
		},
		RunE: runTUI,
	}

	root.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "backend base URL (overrides config)")
	root.PersistentFlags().StringVar(&flagTimeout, "timeout", "", "request timeout, e.g. 10s")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(healthCmd(), snapshotCmd(), runAgentCmd())
	return root
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}

func newGateway() *api.Client {
	return api.NewClient(cfg.Server.BaseURL, cfg.RequestTimeout())
}

func runTUI(cmd *cobra.Command, args []string) error {
	client := newGateway()
	program := tea.NewProgram(shop.New(client, client, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("ui error: %w", err)
	}
	return nil
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend reachability and data mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := newGateway().Call(context.Background(), api.EndpointHealth, api.Options{})
			if !res.OK {
				zlog.Warn("health check failed", zap.Int("status", res.Status), zap.String("message", res.Message))
				return fmt.Errorf("backend unreachable: %s", res.Message)
			}
			health := api.DecodeHealth(res)
			zlog.Info("health checked", zap.String("mode", health.Mode))
			fmt.Println(health.ModeLabel())
			return nil
		},
	}
}

func snapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Print the current store snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := newGateway().Call(context.Background(), api.EndpointStoreData, api.Options{})
			snap, ok := api.DecodeSnapshot(res)
			if !ok {
				return fmt.Errorf("could not load store data (status %d)", res.Status)
			}
			zlog.Info("snapshot loaded",
				zap.String("source", snap.Source),
				zap.Int("products", len(snap.Products)))

			fmt.Printf("Source: %s\n", snap.Source)
			for _, p := range snap.Products {
				fmt.Printf("  #%d %-24s %-12s %10s  stock %d\n",
					p.ID, p.Name, p.Category, shop.Money(cfg.UI.CurrencySymbol, p.Price), p.Stock)
			}
			fmt.Printf("Cart: %d items, total %s | Likes: %d | Wishlist: %d\n",
				snap.Cart.Count, shop.Money(cfg.UI.CurrencySymbol, snap.Cart.Total),
				snap.LikesCount, snap.WishlistCount)
			return nil
		},
	}
}

func runAgentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run-agent",
		Short: "Execute one pricing cycle and print the decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := newGateway().Call(context.Background(), api.EndpointRunAgent, api.Options{})
			decisions, err := api.DecodeDecisions(res)
			if err != nil {
				return fmt.Errorf("agent run failed: %w", err)
			}
			zlog.Info("agent run complete", zap.Int("decisions", len(decisions)))

			for _, d := range decisions {
				outcome := "ok"
				if !d.Success {
					outcome = "failed"
				}
				fmt.Printf("  %s: %s [%s] %s -> %s (%s)\n",
					d.Label(), d.Action, outcome,
					shop.Money(cfg.UI.CurrencySymbol, d.BeforePrice),
					shop.Money(cfg.UI.CurrencySymbol, d.AfterPrice),
					d.Reason)
			}
			fmt.Println()
			fmt.Println(agent.BuildMemory(decisions))
			return nil
		},
	}
}
