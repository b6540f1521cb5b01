// Profiling:
// go build ./cmd/depotprof
// ./depotprof --mode mem
// go tool pprof -http=":8000" -nodefraction=0.001 ./depotprof mem.pprof

package main

import (
	"fmt"
	"os"

	"github.com/TheBitDrifter/depot"
	"github.com/TheBitDrifter/table"
	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type position struct {
	X, Y float64
}

type velocity struct {
	X, Y float64
}

type frozen struct{}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		entities int
		iters    int
		mode     string
		path     string
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "depotprof",
		Short: "Profile depot query passes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var p interface{ Stop() }
			switch mode {
			case "cpu":
				p = profile.Start(profile.CPUProfile, profile.ProfilePath(path), profile.NoShutdownHook)
			case "mem":
				p = profile.Start(profile.MemProfileAllocs, profile.ProfilePath(path), profile.NoShutdownHook)
			case "none":
			default:
				return eris.Errorf("unknown profile mode %q", mode)
			}
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level).With().Timestamp().Logger()
			matched := run(entities, iters, logger)
			if p != nil {
				p.Stop()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "matched %d entities per pass over %d passes\n", matched, iters)
			return nil
		},
	}
	cmd.Flags().IntVar(&entities, "entities", 100000, "number of entities to create")
	cmd.Flags().IntVar(&iters, "iters", 1000, "number of query passes")
	cmd.Flags().StringVar(&mode, "mode", "cpu", "profile mode: cpu, mem or none")
	cmd.Flags().StringVar(&path, "path", ".", "directory for profile output")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log storage debug events")
	return cmd
}

// run builds the entities, every tenth one frozen, and moves the unfrozen
// ones iters times.
func run(entities, iters int, logger zerolog.Logger) int {
	cfg := depot.DefaultConfig()
	cfg.EntityCapacity = entities
	sto := depot.Factory.NewStorage(table.Factory.NewSchema(), depot.WithConfig(cfg), depot.WithLogger(logger))

	positions := depot.PoolFor[position](sto)
	velocities := depot.PoolFor[velocity](sto)
	frozens := depot.PoolFor[frozen](sto)
	for i := range entities {
		e, _ := positions.NewEntity()
		vel := velocities.Add(e)
		vel.X, vel.Y = 1, 1
		if i%10 == 0 {
			frozens.Add(e)
		}
	}
	depot.LogPools(sto, zerolog.InfoLevel)

	it := depot.Factory.NewQuery().
		Include(depot.Ref[position](), depot.Ref[velocity]()).
		Exclude(depot.Ref[frozen]()).
		Iterator(sto)
	matched := 0
	for range iters {
		matched = 0
		for e := range it.All() {
			pos, vel := positions.Get(e), velocities.Get(e)
			pos.X += vel.X
			pos.Y += vel.Y
			matched++
		}
	}
	return matched
}
