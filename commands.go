package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront/bootstrap"
	"storefront/config"
	"storefront/logging"
	"storefront/repositories"
	"storefront/services"
	"storefront/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront API: local catalog, remote search and session carts",
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the built-in local catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		catalog := services.NewCatalogService(repositories.NewStaticCatalogRepository(nil))
		items, err := catalog.ListItems(cmd.Context())
		if err != nil {
			return err
		}
		for _, item := range items {
			fmt.Fprintf(cmd.OutOrStdout(), "%4d  %-24s %s\n", item.ID, item.Title, utils.FormatPrice(cfg.App.Currency, item.Price))
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Fetch one page from the remote catalog and print it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		query := ""
		if len(args) == 1 {
			query = args[0]
		}

		log := logging.Init("storefront-cli", "", cfg.App.LogLevel)
		defer logging.Sync()

		fetcher := services.NewRemoteFetcher(bootstrap.NewCatalogSource(cfg, log), cfg.Remote.Timeout, log)
		defer fetcher.Close()

		status := fetcher.Fetch(cmd.Context(), query)
		if err := fetcher.LastError(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "fetch failed, showing empty results: %v\n", err)
		}

		out := cmd.OutOrStdout()
		for _, item := range status.Results {
			fmt.Fprintf(out, "%4d  %-32s %s\n", item.ID, item.Title, utils.FormatPrice(cfg.App.Currency, item.Price))
		}
		summary := services.Summarize(status.Results, cfg.App.Currency)
		fmt.Fprintf(out, "%d items, total %s\n", summary.Count, summary.TotalDisplay)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd, catalogCmd, searchCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:         app.Addr(),
		Handler:      app.Router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.App.Port)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.Session.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-ticker.C:
				app.Sessions.Sweep(now)
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		app.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
