package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/kass/geoconv/pkg/convert"
	"github.com/kass/geoconv/pkg/postgis"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	batchInput   string
	batchWorkers int
	batchOutput  string
	batchDSN     string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert one coordinate per line",
	Long: `Batch reads one coordinate per line from a file or stdin, converts the
lines concurrently and writes the results in input order. Lines that fail
are reported in the output rather than aborting the run. With a PostGIS
DSN the successful results are also stored in a spatial table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		in := cmd.InOrStdin()
		if batchInput != "" && batchInput != "-" {
			f, err := os.Open(batchInput)
			if err != nil {
				return eris.Wrapf(err, "open %s", batchInput)
			}
			defer f.Close()
			in = f
		}

		workers := cfg.Batch.Workers
		if cmd.Flags().Changed("workers") {
			workers = batchWorkers
		}

		dsn := cfg.PostGIS.DSN
		if batchDSN != "" {
			dsn = batchDSN
		}
		var sink resultSink
		if dsn != "" {
			store, err := postgis.Open(ctx, dsn, cfg.PostGIS.Table)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.InitSchema(ctx); err != nil {
				return err
			}
			sink = store
		}

		return runBatch(ctx, in, cmd.OutOrStdout(), converter(), workers, batchOutput, sink)
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "-", "input file, - for stdin")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 4, "number of concurrent workers")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "jsonl", "output format: jsonl or csv")
	batchCmd.Flags().StringVar(&batchDSN, "postgis-dsn", "", "also store successful results in PostGIS")
	rootCmd.AddCommand(batchCmd)
}

// batchRecord is one output line of a batch run.
type batchRecord struct {
	Line   int             `json:"line"`
	Input  string          `json:"input"`
	Result *convert.Result `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// resultSink stores successful conversions, e.g. a *postgis.Store.
type resultSink interface {
	Insert(ctx context.Context, results []convert.Result) error
}

// runBatch converts every non-blank line of in. Results keep input order
// whatever order the workers finish in. A non-nil sink receives the
// successful results before they are written out.
func runBatch(ctx context.Context, in io.Reader, out io.Writer, conv *convert.Converter, workers int, output string, sink resultSink) error {
	if output != "jsonl" && output != "csv" {
		return eris.Errorf("unknown batch output format %q", output)
	}
	if workers < 1 {
		workers = 1
	}

	var records []batchRecord
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		records = append(records, batchRecord{Line: line, Input: text})
	}
	if err := scanner.Err(); err != nil {
		return eris.Wrap(err, "read batch input")
	}

	start := time.Now()
	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := conv.Convert(records[i].Input)
			if err != nil {
				failed.Add(1)
				records[i].Error = err.Error()
				return nil
			}
			records[i].Result = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch interrupted")
	}

	zap.L().Info("batch complete",
		zap.Int("lines", len(records)),
		zap.Int64("failed", failed.Load()),
		zap.Int("workers", workers),
		zap.Duration("elapsed", time.Since(start)),
	)

	if sink != nil {
		var ok []convert.Result
		for _, r := range records {
			if r.Result != nil {
				ok = append(ok, *r.Result)
			}
		}
		if err := sink.Insert(ctx, ok); err != nil {
			return eris.Wrap(err, "store batch results")
		}
	}

	if output == "csv" {
		return writeBatchCSV(out, records)
	}
	return writeBatchJSONL(out, records)
}

func writeBatchJSONL(w io.Writer, records []batchRecord) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return eris.Wrap(err, "write jsonl")
		}
	}
	return nil
}

var csvHeader = []string{"line", "input", "format", "lat", "lon", "utm", "mgrs", "zone", "error"}

func writeBatchCSV(w io.Writer, records []batchRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return eris.Wrap(err, "write csv header")
	}
	for _, r := range records {
		row := []string{strconv.Itoa(r.Line), r.Input, "", "", "", "", "", "", r.Error}
		if r.Result != nil {
			row[2] = r.Result.Format.String()
			row[3] = strconv.FormatFloat(r.Result.Geographic.Lat, 'f', 6, 64)
			row[4] = strconv.FormatFloat(r.Result.Geographic.Lon, 'f', 6, 64)
			row[5] = r.Result.UTM
			row[6] = r.Result.MGRS
			row[7] = r.Result.Zone
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "flush csv")
	}
	return nil
}
