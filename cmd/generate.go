package main

import (
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ozradio/repeater-atlas/internal/directory"
	"github.com/ozradio/repeater-atlas/internal/fetcher"
	"github.com/ozradio/repeater-atlas/internal/pipeline"
	"github.com/ozradio/repeater-atlas/internal/register"
	"github.com/ozradio/repeater-atlas/internal/report"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build the repeater atlas",
	Long: `Fetch the station directory, resolve every station against the licence
register, and write atlas.kml, atlas.csv, and atlas.geojson to the output
directory. Stations in the directory are processed one at a time with a fixed
delay between register requests; individual lookup failures are logged and the
affected station is emitted with the fields it has.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := zap.L().With(
			zap.String("command", "generate"),
			zap.String("run_id", uuid.NewString()),
		)

		f := fetcher.New(fetcher.Options{
			UserAgent:  cfg.Register.UserAgent,
			Timeout:    cfg.Register.Timeout(),
			MaxRetries: cfg.Register.MaxRetries,
			Interval:   cfg.Register.Delay(),
		})

		src := directory.NewSource(f, cfg.Status.URL)
		reg := register.NewClient(f, register.Endpoints{
			SearchURL:  cfg.Register.SearchURL,
			LicenceURL: cfg.Register.LicenceURL,
			SiteURL:    cfg.Register.SiteURL,
		})

		log.Info("starting atlas run",
			zap.String("status_url", cfg.Status.URL),
			zap.Duration("register_delay", cfg.Register.Delay()),
			zap.String("output_dir", cfg.Output.Dir),
		)

		records, err := pipeline.New(src, reg, reg).Run(ctx)
		if err != nil {
			return eris.Wrap(err, "generate")
		}

		if err := report.NewWriter(cfg.Output.Dir, nil).Write(records); err != nil {
			return eris.Wrap(err, "generate: write outputs")
		}

		log.Info("atlas complete", zap.Int("stations", len(records)))
		return nil
	},
}

func init() {
	flags := generateCmd.Flags()
	flags.String("status.url", "", "network status page URL (default built in)")
	flags.String("register.search_url", "", "licence register search endpoint (default built in)")
	flags.String("register.licence_url", "", "licence detail URL template with %s for the licence id (default built in)")
	flags.String("register.site_url", "", "site detail URL template with %s for the site id (default built in)")
	flags.String("output.dir", "out", "output directory for the three artifacts")
	flags.Int("register.delay_millis", 2000, "minimum delay between register requests")
	flags.Int("register.timeout_secs", 30, "per-request timeout")
	rootCmd.AddCommand(generateCmd)
}
