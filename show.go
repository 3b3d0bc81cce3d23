package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"sketchpad/internal/config"
	"sketchpad/internal/imaging"
	"sketchpad/internal/viewer"
)

func newShowCmd() *cobra.Command {
	var addr, logLevel string

	cmd := &cobra.Command{
		Use:   "show FILENAME",
		Short: "Serve an image resized to 1000x800 and report click coordinates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := config.NewLogger(cmd.ErrOrStderr(), logLevel, "text")
			if err != nil {
				return err
			}

			img, err := imaging.Load(args[0])
			if err != nil {
				return err
			}

			v := viewer.New(img, cmd.OutOrStdout(), logger)
			srv := &http.Server{
				Addr:              addr,
				Handler:           v.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx := cmd.Context()
			go v.Run(ctx)
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Error("viewer shutdown", "err", err)
				}
			}()

			logger.Info("viewer started", "addr", addr, "image", args[0])
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8081", "listen address")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
	return cmd
}
