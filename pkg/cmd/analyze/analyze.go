package analyze

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/pitstop-service-go/pkg/cmd/setup"
	"github.com/mpapenbr/pitstop-service-go/pkg/config"
	"github.com/mpapenbr/pitstop-service-go/pkg/service"
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "runs an analysis and prints the result",
	}
	cmd.AddCommand(newStrategyCmd())
	cmd.AddCommand(newCompareCmd())
	cmd.AddCommand(newLayoutCmd())
	return cmd
}

// withService runs fn with an analysis service on the configured provider
//
//nolint:whitespace // can't make both editor and linter happy
func withService(
	ctx context.Context,
	fn func(ctx context.Context, svc *service.AnalysisService) error,
) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_, sqlLogger := setup.Loggers()
	if err := setup.WaitForServices(ctx, config.Provider == config.ProviderDB); err != nil {
		return err
	}
	cat, err := setup.Catalog(ctx)
	if err != nil {
		return err
	}
	provider, res, err := setup.Provider(ctx, cat, sqlLogger)
	defer res.Close()
	if err != nil {
		return fmt.Errorf("provider could not be created: %w", err)
	}
	return fn(ctx, service.NewAnalysisService(provider,
		service.WithStrategySeason(config.ReferenceSeason),
		service.WithLayoutSeason(config.ReferenceSeason)))
}

func newStrategyCmd() *cobra.Command {
	req := service.StrategyRequest{}
	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "predicts the race time for a compound and number of stops",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(),
				func(ctx context.Context, svc *service.AnalysisService) error {
					res, err := svc.PredictStrategy(ctx, req)
					if err != nil {
						return err
					}
					renderStrategy(cmd.OutOrStdout(), req, res)
					return nil
				})
		},
	}
	cmd.Flags().StringVar(&req.Track, "track", "", "track name")
	cmd.Flags().StringVar(&req.Compound, "compound", "MEDIUM", "tire compound (SOFT, MEDIUM, HARD)")
	cmd.Flags().IntVar(&req.Stops, "stops", 1, "number of pit stops")
	cmd.Flags().IntVar(&req.Year, "year", 0, "season of the reference race (default: reference season)")
	_ = cmd.MarkFlagRequired("track")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var (
		year   int
		race   string
		d1, d2 string
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "compares pace and fastest lap of two drivers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(),
				func(ctx context.Context, svc *service.AnalysisService) error {
					res, err := svc.CompareTelemetry(ctx, year, race, d1, d2)
					if err != nil {
						return err
					}
					renderComparison(cmd.OutOrStdout(), res)
					return nil
				})
		},
	}
	cmd.Flags().IntVar(&year, "year", 2023, "season")
	cmd.Flags().StringVar(&race, "race", "", "track name of the race")
	cmd.Flags().StringVar(&d1, "d1", "", "code of the first driver")
	cmd.Flags().StringVar(&d2, "d2", "", "code of the second driver")
	for _, f := range []string{"race", "d1", "d2"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newLayoutCmd() *cobra.Command {
	var track string
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "prints the circuit layout points",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(),
				func(ctx context.Context, svc *service.AnalysisService) error {
					res, ok := svc.CircuitLayout(ctx, track)
					if !ok {
						return fmt.Errorf("no layout available for %s", track)
					}
					renderLayout(cmd.OutOrStdout(), res)
					return nil
				})
		},
	}
	cmd.Flags().StringVar(&track, "track", "", "track name")
	_ = cmd.MarkFlagRequired("track")
	return cmd
}
