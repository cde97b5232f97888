package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/floodscope/internal/accuracy"
	"github.com/sells-group/floodscope/internal/feature"
	"github.com/sells-group/floodscope/internal/proj"
	"github.com/sells-group/floodscope/internal/raster"
	"github.com/sells-group/floodscope/internal/report"
	"github.com/sells-group/floodscope/internal/store"
)

var accuracyCmd = &cobra.Command{
	Use:   "accuracy <raster.asc> <claims.shp> [claims.shp...]",
	Short: "Score flood rasters against claim locations",
	Long: `Loads one categorical flood raster and one or more claim point shapefiles,
deduplicates near-identical claim locations, resolves a flood category for
every claim inside the raster footprint, and reports coverage statistics.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rasterCRS, _ := cmd.Flags().GetString("raster-crs")
		claimsCRS, _ := cmd.Flags().GetString("claims-crs")
		radius, _ := cmd.Flags().GetFloat64("search-radius")
		csvPath, _ := cmd.Flags().GetString("csv")
		xlsxPath, _ := cmd.Flags().GetString("xlsx")
		noStore, _ := cmd.Flags().GetBool("no-store")

		if radius == 0 {
			radius = cfg.Resolver.SearchRadius
		}

		grid, err := raster.ReadASC(args[0], rasterCRS)
		if err != nil {
			return eris.Wrap(err, "accuracy")
		}

		claims := feature.NewCollection(claimsCRS)
		for _, path := range args[1:] {
			part, err := feature.ReadShapefilePoints(path, claimsCRS)
			if err != nil {
				return eris.Wrap(err, "accuracy")
			}
			claims.Features = append(claims.Features, part.Features...)
		}

		unique, removed, err := feature.Deduplicate(claims, cfg.Dedup.Precision)
		if err != nil {
			return eris.Wrap(err, "accuracy")
		}
		zap.L().Info("claims loaded",
			zap.Int("claims", claims.Len()),
			zap.Int("unique", unique.Len()),
			zap.Int("duplicates_removed", removed),
		)

		xform, err := proj.ForCRS(claimsCRS, rasterCRS)
		if err != nil {
			return eris.Wrap(err, "accuracy")
		}

		result, err := accuracy.Analyze(ctx, grid, unique, accuracy.Options{
			SearchRadius: radius,
			Transformer:  xform,
			Workers:      cfg.Accuracy.Workers,
		})
		if err != nil {
			return eris.Wrap(err, "accuracy")
		}

		rasterName := filepath.Base(args[0])
		entry := report.Entry{Raster: rasterName, Result: *result}

		fmt.Printf("%s: %d/%d claims covered (accuracy %.4f)\n",
			rasterName, result.CoveredClaims, result.TotalClaims, result.Accuracy)
		for cat, n := range result.Categories {
			fmt.Printf("  %-26s %d\n", raster.Category(cat).Label(), n)
		}

		if csvPath != "" {
			if err := report.ExportCSV(csvPath, []report.Entry{entry}); err != nil {
				return eris.Wrap(err, "accuracy")
			}
			fmt.Printf("Results written to %s\n", csvPath)
		}
		if xlsxPath != "" {
			if err := report.ExportXLSX(xlsxPath, []report.Entry{entry}); err != nil {
				return eris.Wrap(err, "accuracy")
			}
			fmt.Printf("Results written to %s\n", xlsxPath)
		}

		if !noStore {
			if err := persistRun(ctx, rasterName, result); err != nil {
				return eris.Wrap(err, "accuracy")
			}
		}
		return nil
	},
}

func persistRun(ctx context.Context, rasterName string, result *accuracy.Result) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		return err
	}
	run, err := st.SaveRun(ctx, rasterName, result)
	if err != nil {
		return err
	}
	zap.L().Info("accuracy run saved", zap.String("run_id", run.ID))
	return nil
}

func openStore() (*store.SQLiteStore, error) {
	path := cfg.Store.Path
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "create store dir %s", dir)
		}
	}
	return store.NewSQLite(path)
}

func init() {
	accuracyCmd.Flags().String("raster-crs", "EPSG:4326", "CRS of the flood raster")
	accuracyCmd.Flags().String("claims-crs", "EPSG:4326", "CRS of the claim shapefiles")
	accuracyCmd.Flags().Float64("search-radius", 0, "buffer-fallback search radius in raster units (0 uses config)")
	accuracyCmd.Flags().String("csv", "", "write results table to a CSV file")
	accuracyCmd.Flags().String("xlsx", "", "write results table to an XLSX file")
	accuracyCmd.Flags().Bool("no-store", false, "skip persisting the run")
	rootCmd.AddCommand(accuracyCmd)
}
