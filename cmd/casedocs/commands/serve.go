package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/RichardKnop/casedocs"
	"github.com/RichardKnop/casedocs/adapter/rest"
	"github.com/RichardKnop/casedocs/api"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the case documents HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			forms, err := casedocs.NewFormMetadataProvider(
				casedocs.OSFileSystem{},
				viper.GetString(casedocs.BaseDataDirectorySetting),
				casedocs.WithFormLogger(logger),
			)
			if err != nil {
				return err
			}

			var (
				restAdapter = rest.New(a.service, forms, rest.WithLogger(logger))
				h           = api.HandlerWithOptions(restAdapter, http.NewServeMux(), rest.ParamErrorHandler)
				addr        = viper.GetString("server.addr")
			)

			httpServer := &http.Server{
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      60 * time.Second,
				IdleTimeout:       30 * time.Second,
				ReadHeaderTimeout: 2 * time.Second,
				Addr:              addr,
				Handler:           h,
			}

			g, gCtx := errgroup.WithContext(ctx)

			g.Go(func() error {
				logger.Sugar().With("addr", addr).Info("listening")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				logger.Info("stopped serving new connections")
				return nil
			})

			g.Go(func() error {
				<-gCtx.Done()

				shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownRelease()

				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					return err
				}
				logger.Info("graceful shutdown complete")
				return nil
			})

			return g.Wait()
		},
	}

	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	cobra.CheckErr(viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr")))

	return cmd
}
