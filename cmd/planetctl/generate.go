package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"planetgen/internal/accretion"
	"planetgen/internal/shared/config"
	"planetgen/internal/shared/redis"
	"planetgen/internal/system"
)

type generateOptions struct {
	name       string
	starMass   float64
	luminosity float64
	seed       int64
	maxNuclei  int
	timeout    time.Duration
	verbose    bool
}

func newGenerateCmd() *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run accretion locally and print the system as JSON",
		Long: `Run the accretion engine without a database and print the resulting
system and planets as JSON. The same name and seed always give the same system.

Examples:
  planetctl generate --name Sol
  planetctl generate --name Kepler --star-mass 0.8 --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := system.CreateRequest{
				Name:       opts.name,
				StarMass:   opts.starMass,
				Luminosity: opts.luminosity,
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &opts.seed
			}
			return runGenerate(cmd, opts, req)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "system name")
	cmd.Flags().Float64Var(&opts.starMass, "star-mass", 1.0, "stellar mass in solar masses")
	cmd.Flags().Float64Var(&opts.luminosity, "luminosity", 0, "stellar luminosity, derived from the mass when zero")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (defaults to a hash of the name)")
	cmd.Flags().IntVar(&opts.maxNuclei, "max-nuclei", accretion.DefaultMaxNuclei, "upper bound on injected nuclei")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "accretion time limit")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "log accretion progress to stderr")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts generateOptions, req system.CreateRequest) error {
	logOutput := io.Discard
	if opts.verbose {
		logOutput = cmd.ErrOrStderr()
	}
	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: slog.LevelDebug}))

	service := system.NewService(nil, nil, redis.NewCache(nil, "system", 0, logger), config.AccretionConfig{
		MaxNuclei:       opts.maxNuclei,
		DefaultStarMass: 1.0,
		Timeout:         opts.timeout,
	}, logger)

	sys, planets, err := service.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}
	sys.Planets = planets

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(sys)
}
