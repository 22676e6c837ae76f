package importcmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/cmd/setup"
	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/repository/racedata"
	"github.com/mpapenbr/pitstop-service-go/pkg/service"
)

type importOptions struct {
	year        int
	tracks      []string
	sessionType string
}

func NewImportCmd() *cobra.Command {
	opts := &importOptions{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "imports sessions from OpenF1 into the database",
		Long: `Loads the given sessions from OpenF1 and stores laps, results and the
telemetry of the fastest laps in the database. An already imported session
is replaced.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.year, "year", 2023, "season of the sessions")
	cmd.Flags().StringSliceVar(&opts.tracks, "track", []string{}, "track name (may be repeated)")
	cmd.Flags().StringVar(&opts.sessionType, "session", "R",
		"session type (R, Q, S, FP1..FP3 or the full name)")
	_ = cmd.MarkFlagRequired("track")
	return cmd
}

func runImport(ctx context.Context, opts *importOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := model.ParseSessionType(opts.sessionType)
	if err != nil {
		return err
	}
	_, sqlLogger := setup.Loggers()
	if err := setup.WaitForServices(ctx, true); err != nil {
		return err
	}
	cat, err := setup.Catalog(ctx)
	if err != nil {
		return err
	}
	res := &setup.Resources{}
	defer res.Close()
	source, err := setup.OpenF1(ctx, cat, res)
	if err != nil {
		return err
	}
	pool, err := setup.Pool(sqlLogger)
	if err != nil {
		return err
	}
	res.Pool = pool

	importer := service.NewImporter(source, racedata.NewRepository(pool))
	for _, track := range opts.tracks {
		if !cat.ValidTrack(track) {
			log.Warn("track not in catalog, trying anyway", log.String("track", track))
		}
		result, err := importer.Import(ctx, opts.year, track, st)
		if err != nil {
			return fmt.Errorf("import of %d %s %s failed: %w", opts.year, track, st, err)
		}
		log.Info("session imported",
			log.String("session", result.Key.String()),
			log.String("id", result.ID.String()),
			log.Int("laps", result.Laps),
			log.Int("telemetryLaps", result.TelemetryLaps))
	}
	return nil
}
