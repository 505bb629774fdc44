// Package cli builds the shared cobra command that every per-algorithm
// binary under cmd/ wraps: parse the external-interface surface
// (graph-path plus -b/-m/-u/-p/-v/-s), load the graph, run the named
// driver to completion, optionally validate and print, and report the
// outcome. Grounded on the teacher's cmd/cli/cmd/root.go persistent-flag
// and PersistentPreRunE pattern, generalized from one multi-subcommand
// binary to six single-purpose ones.
package cli

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vertexflow/vertexflow/internal/driver"
	"github.com/vertexflow/vertexflow/internal/formats"
	"github.com/vertexflow/vertexflow/internal/repository"
	"github.com/vertexflow/vertexflow/internal/storage"
	"github.com/vertexflow/vertexflow/pkg/config"
	"github.com/vertexflow/vertexflow/pkg/device"
	"github.com/vertexflow/vertexflow/pkg/errors"
	"github.com/vertexflow/vertexflow/pkg/graph"
	"github.com/vertexflow/vertexflow/pkg/profiler"
	"github.com/vertexflow/vertexflow/pkg/utils"
)

// flags holds one command invocation's parsed arguments.
type flags struct {
	binary      bool
	matrixMkt   bool
	undirected  bool
	printVertex bool
	validate    bool
	source      uint32
	sourceSet   bool
	verbose     bool
	profile     bool
	dbType      string
	dbDSN       string
	configPath  string
}

// NewCommand builds the cobra.Command for algo (bfs, sssp, cc, bc, tc, pr).
// Its flag surface is spec §6's external interface:
//
//	<algo> <graph-path> [-b] [-m] [-u] [-p] [-v] [-s <source>] [-h]
func NewCommand(algo string) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:          fmt.Sprintf("%s <graph-path>", algo),
		Short:        fmt.Sprintf("Run %s over a graph read from <graph-path>", strings.ToUpper(algo)),
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			f.sourceSet = cmd.Flags().Changed("source")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), algo, args[0], f)
		},
	}

	cmd.Flags().BoolVarP(&f.binary, "binary", "b", false, "input is binary CSR")
	cmd.Flags().BoolVarP(&f.matrixMkt, "matrix-market", "m", false, "input is Matrix Market")
	cmd.Flags().BoolVarP(&f.undirected, "undirected", "u", false, "treat COO input as undirected (mirror each edge)")
	cmd.Flags().BoolVarP(&f.printVertex, "print", "p", false, "print per-vertex output")
	cmd.Flags().BoolVarP(&f.validate, "validate", "v", false, "run a CPU reference validator")
	cmd.Flags().Uint32VarP(&f.source, "source", "s", 0, "source vertex (default: uniformly random)")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "enable debug logging")
	cmd.Flags().BoolVar(&f.profile, "profile", false, "enable OpenTelemetry tracing of the run")
	cmd.Flags().StringVar(&f.dbType, "db-type", "", "optional run-ledger backend: sqlite, postgres, mysql")
	cmd.Flags().StringVar(&f.dbDSN, "db-dsn", "", "run-ledger database path/DSN (sqlite file path or network DSN)")
	cmd.Flags().StringVar(&f.configPath, "config", "", "config file selecting an object-storage backend to fetch <graph-path> from")

	return cmd
}

// Execute runs algo's command against os.Args, exiting the process with
// code 1 on any unrecoverable error (file not openable, invalid format,
// unsupported configuration). Validation failure is reported textually by
// run and does not change the exit code, per spec §6.
func Execute(algo string) {
	if err := NewCommand(algo).Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, algo, graphPath string, f *flags) error {
	logLevel := utils.LevelInfo
	if f.verbose {
		logLevel = utils.LevelDebug
	}
	logger := utils.NewDefaultLogger(logLevel, os.Stdout)

	if f.profile {
		shutdown, err := profiler.Init(ctx, true)
		if err != nil {
			return errors.Wrap(errors.CodeDeviceFailure, "failed to start profiler", err)
		}
		defer shutdown(ctx)
	}
	ctx, span := profiler.Record(ctx, "run", algo)
	defer span.End()

	csr, err := loadGraph(ctx, graphPath, f)
	if err != nil {
		logger.Error("failed to load graph %s: %v", graphPath, err)
		return err
	}

	g, err := graph.BuildGraph(csr, device.Host)
	if err != nil {
		return errors.Wrap(errors.CodeDeviceFailure, "failed to build device graph", err)
	}
	view := g.View()

	source := f.source
	if !f.sourceSet {
		if view.V > 0 {
			source = uint32(rand.Intn(view.V))
		}
	}
	if int(source) >= view.V {
		return errors.InvalidInput(fmt.Sprintf("source %d out of range for %d vertices", source, view.V), nil)
	}

	d, err := driver.Factory(algo)
	if err != nil {
		return err
	}

	opts := driver.DefaultOptions()
	opts.Source = source

	q := device.NewQueue(0)

	logger.Info("running %s on %s (vertices=%d edges=%d source=%d)", d.Name(), graphPath, view.V, view.E, source)

	timer := utils.NewTimer(algo, utils.WithLogger(logger))
	pt := timer.Start("run")
	result, err := d.Run(ctx, q, view, opts)
	elapsed := pt.Stop()
	if err != nil {
		return errors.Wrap(errors.CodeDeviceFailure, "driver run failed", err)
	}

	logger.Info("%s completed in %s (iterations=%d)", d.Name(), elapsed, result.Iterations)
	if f.verbose {
		timer.PrintSummary()
	}

	if f.validate {
		reportValidation(logger, algo, view, source, result)
	}

	if f.printVertex {
		printResult(result)
	}

	if f.dbType != "" {
		if err := saveRun(ctx, f, algo, graphPath, source, elapsed, result); err != nil {
			logger.Warn("failed to save run record: %v", err)
		}
	}

	return nil
}

func loadGraph(ctx context.Context, path string, f *flags) (*graph.CSR, error) {
	localPath, cleanup, err := resolveInputPath(ctx, path, f)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	file, err := os.Open(localPath)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInvalidInput, "failed to open graph file", err)
	}
	defer file.Close()

	switch {
	case f.binary:
		return formats.FromBinary(file)
	case f.matrixMkt:
		return formats.FromMatrixMarket(file)
	default:
		return formats.FromCOO(file, f.undirected)
	}
}

// resolveInputPath returns a local path for path. When f.configPath selects
// an object-storage backend, path is treated as a storage key and fetched
// into a temp file; otherwise path is used as-is. The returned cleanup
// always removes any temp file it created and is safe to call even when no
// fetch occurred.
func resolveInputPath(ctx context.Context, path string, f *flags) (string, func(), error) {
	noop := func() {}
	if f.configPath == "" {
		return path, noop, nil
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return "", noop, errors.Wrap(errors.CodeInvalidInput, "failed to load storage config", err)
	}
	if cfg.Storage.Type == "" || cfg.Storage.Type == "local" {
		return path, noop, nil
	}

	store, err := storage.NewStorage(&cfg.Storage)
	if err != nil {
		return "", noop, errors.Wrap(errors.CodeInvalidInput, "failed to construct storage backend", err)
	}

	tmp, err := os.CreateTemp("", "vertexflow-graph-*")
	if err != nil {
		return "", noop, errors.Wrap(errors.CodeResourceExhaustion, "failed to create temp file", err)
	}
	localPath := tmp.Name()
	tmp.Close()

	if err := store.DownloadFile(ctx, path, localPath); err != nil {
		os.Remove(localPath)
		return "", noop, errors.Wrap(errors.CodeInvalidInput, "failed to fetch graph from storage", err)
	}

	return localPath, func() { os.Remove(localPath) }, nil
}

func reportValidation(logger utils.Logger, algo string, view graph.View, source uint32, result *driver.Result) {
	var ok bool
	var ran bool
	switch algo {
	case "bfs":
		ok, ran = driver.ValidateBFS(view, source, result), true
	case "sssp":
		ok, ran = driver.ValidateSSSP(view, source, result), true
	case "cc":
		ok, ran = driver.ValidateCC(view, result), true
	case "tc":
		ok, ran = driver.ValidateTC(view, result), true
	default:
		logger.Info("no CPU reference validator is defined for %s", algo)
	}
	if ran {
		if ok {
			logger.Info("validation PASSED")
		} else {
			logger.Error("validation FAILED")
		}
	}
}

func printResult(result *driver.Result) {
	switch {
	case result.Distance != nil:
		for v, d := range result.Distance {
			fmt.Printf("%d\t%d\n", v, d)
		}
	case result.DistanceF != nil:
		for v, d := range result.DistanceF {
			fmt.Printf("%d\t%g\n", v, d)
		}
	case result.BC != nil:
		for v, b := range result.BC {
			fmt.Printf("%d\t%g\n", v, b)
		}
	case result.Label != nil:
		for v, l := range result.Label {
			fmt.Printf("%d\t%d\n", v, l)
		}
	case result.Rank != nil:
		for v, r := range result.Rank {
			fmt.Printf("%d\t%g\n", v, r)
		}
	default:
		fmt.Printf("triangles\t%d\n", result.Triangles)
	}
}

func saveRun(ctx context.Context, f *flags, algo, graphPath string, source uint32, elapsed time.Duration, result *driver.Result) error {
	db, err := repository.NewGormDB(&repository.DBConfig{Type: f.dbType, Database: f.dbDSN})
	if err != nil {
		return err
	}
	repos, err := repository.NewRepositories(db, f.dbType)
	if err != nil {
		return err
	}
	defer repos.Close()

	rec := repository.NewRunRecord(algo, graphPath, source, result.Iterations, elapsed, digest(result))
	return repos.Run.SaveRun(ctx, rec)
}

func digest(result *driver.Result) string {
	switch {
	case result.Distance != nil:
		return fmt.Sprintf("distance[0]=%d", result.Distance[0])
	case result.DistanceF != nil:
		return fmt.Sprintf("distance[0]=%g", result.DistanceF[0])
	case result.Label != nil:
		return fmt.Sprintf("components-or-bc labeled=%d", len(result.Label))
	case result.Rank != nil:
		return fmt.Sprintf("rank[0]=%g", result.Rank[0])
	default:
		return fmt.Sprintf("triangles=%d", result.Triangles)
	}
}
