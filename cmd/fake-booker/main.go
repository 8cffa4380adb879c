// Command fake-booker serves the in-memory booking API, optionally with known defects switched
// on, so that the contract tests can be run and demonstrated without a real deployment.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/restful-booker/booking-contract-tests/fakebooker"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultPort = 3001

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var port int
	var quiet bool
	var opts fakebooker.Options

	cmd := &cobra.Command{
		Use:           "fake-booker",
		Short:         "In-memory booking service for running the contract tests locally",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(quiet)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			opts.Logger = logger

			gin.SetMode(gin.ReleaseMode)
			addr := fmt.Sprintf(":%d", port)
			logger.Info("fake booking service listening",
				zap.String("addr", addr),
				zap.Int("missingFieldsStatus", opts.MissingFieldsStatus),
				zap.Int("wrongTypeStatus", opts.WrongTypeStatus),
				zap.Int("updateMissingStatus", opts.UpdateMissingStatus),
				zap.Int("unauthorizedDeleteStatus", opts.UnauthorizedDeleteStatus),
				zap.Bool("patchResetsTotalPrice", opts.PatchResetsTotalPrice),
			)
			return http.ListenAndServe(addr, fakebooker.New(opts).Handler())
		},
	}

	fs := cmd.Flags()
	fs.IntVar(&port, "port", defaultPort, "port to listen on")
	fs.BoolVar(&quiet, "quiet", false, "log only warnings and errors")
	fs.StringVar(&opts.Username, "username", "admin", "accepted username")
	fs.StringVar(&opts.Password, "password", "password123", "accepted password")
	fs.IntVar(&opts.MissingFieldsStatus, "missing-fields-status", 0,
		"status for a create without firstname or lastname (200 creates it anyway)")
	fs.IntVar(&opts.WrongTypeStatus, "wrong-type-status", 0,
		"status for a create with a mistyped field (200 creates it anyway)")
	fs.IntVar(&opts.UpdateMissingStatus, "update-missing-status", 0,
		"status for an update of a nonexistent booking (200 creates it)")
	fs.IntVar(&opts.UnauthorizedDeleteStatus, "unauthorized-delete-status", 0,
		"status for a delete without a token (2xx deletes the booking)")
	fs.BoolVar(&opts.PatchResetsTotalPrice, "patch-resets-totalprice", false,
		"make partial updates clear totalprice")
	return cmd
}

func newLogger(quiet bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if quiet {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
