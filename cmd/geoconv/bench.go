package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kass/geoconv/pkg/convert"
	"github.com/kass/geoconv/pkg/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	benchPoints  int
	benchWorkers int
	benchSeed    int64
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Round-trip random points through UTM and MGRS",
	Long: `Bench generates random points between 80°S and 84°N, converts each to
UTM and MGRS and back across a pool of workers, and reports throughput and
the largest round-trip error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		points, workers, seed := cfg.Bench.Points, cfg.Bench.Workers, cfg.Bench.Seed
		if cmd.Flags().Changed("points") {
			points = benchPoints
		}
		if cmd.Flags().Changed("workers") {
			workers = benchWorkers
		}
		if cmd.Flags().Changed("seed") {
			seed = benchSeed
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Round-tripping %d random points using %d workers...\n", points, workers)
		stats, err := runBenchmark(cmd.Context(), points, workers, seed)
		if err != nil {
			return err
		}
		stats.print(cmd)
		return nil
	},
}

func init() {
	benchCmd.Flags().IntVarP(&benchPoints, "points", "n", 10000, "number of random points")
	benchCmd.Flags().IntVarP(&benchWorkers, "workers", "w", 4, "number of worker goroutines")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 1, "random seed")
	rootCmd.AddCommand(benchCmd)
}

type benchStats struct {
	Points       int64
	Failures     int64
	MaxUTMError  float64 // metres
	MaxMGRSError float64 // metres
	Elapsed      time.Duration
}

func (s benchStats) print(cmd *cobra.Command) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\nBenchmark Results:\n")
	fmt.Fprintf(w, "Total points: %d\n", s.Points)
	fmt.Fprintf(w, "Failures: %d\n", s.Failures)
	fmt.Fprintf(w, "Total time: %v\n", s.Elapsed)
	if s.Points > 0 {
		fmt.Fprintf(w, "Points per second: %.0f\n", float64(s.Points)/s.Elapsed.Seconds())
		fmt.Fprintf(w, "Average round trip: %v\n", s.Elapsed/time.Duration(s.Points))
	}
	fmt.Fprintf(w, "Max UTM error: %.3f m\n", s.MaxUTMError)
	fmt.Fprintf(w, "Max MGRS error: %.3f m\n", s.MaxMGRSError)
}

// randomPoints stays inside the MGRS latitude range and off the antimeridian.
func randomPoints(n int, seed int64) []models.GeographicCoordinate {
	r := rand.New(rand.NewSource(seed))
	points := make([]models.GeographicCoordinate, n)
	for i := range points {
		points[i] = models.GeographicCoordinate{
			Lat: r.Float64()*163.9 - 79.95,
			Lon: r.Float64()*359.8 - 179.9,
		}
	}
	return points
}

func runBenchmark(ctx context.Context, n, workers int, seed int64) (benchStats, error) {
	if workers < 1 {
		workers = 1
	}
	points := randomPoints(n, seed)

	var (
		done, failed atomic.Int64
		mu           sync.Mutex
		stats        benchStats
	)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	perWorker := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo, hi := w*perWorker, min((w+1)*perWorker, n)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			var maxUTM, maxMGRS float64
			for _, p := range points[lo:hi] {
				if err := gctx.Err(); err != nil {
					return err
				}
				du, dm, err := roundTrip(p)
				if err != nil {
					failed.Add(1)
					zap.L().Debug("round trip failed", zap.Stringer("point", p), zap.Error(err))
					continue
				}
				done.Add(1)
				maxUTM = math.Max(maxUTM, du)
				maxMGRS = math.Max(maxMGRS, dm)
			}

			mu.Lock()
			stats.MaxUTMError = math.Max(stats.MaxUTMError, maxUTM)
			stats.MaxMGRSError = math.Max(stats.MaxMGRSError, maxMGRS)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return benchStats{}, err
	}

	stats.Points = done.Load()
	stats.Failures = failed.Load()
	stats.Elapsed = time.Since(start)
	return stats, nil
}

func roundTrip(p models.GeographicCoordinate) (utmErr, mgrsErr float64, err error) {
	u, err := convert.GeographicToUTM(p)
	if err != nil {
		return 0, 0, err
	}
	back, err := convert.UTMToGeographic(u)
	if err != nil {
		return 0, 0, err
	}
	utmErr = distance(p, back)

	ref, err := convert.GeographicToMGRS(p, 5)
	if err != nil {
		return 0, 0, err
	}
	back, err = convert.MGRSToGeographic(ref)
	if err != nil {
		return 0, 0, err
	}
	return utmErr, distance(p, back), nil
}

// distance is the haversine distance in metres.
func distance(a, b models.GeographicCoordinate) float64 {
	const earthRadius = 6371008.8
	toRad := math.Pi / 180
	dLat := (b.Lat - a.Lat) * toRad
	dLon := (b.Lon - a.Lon) * toRad
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*toRad)*math.Cos(b.Lat*toRad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadius * math.Asin(math.Sqrt(h))
}
