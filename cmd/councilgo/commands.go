package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/quantora/councilgo/internal/config"
	"github.com/quantora/councilgo/internal/display"
	"github.com/quantora/councilgo/internal/graph"
	"github.com/quantora/councilgo/internal/memory"
	"github.com/quantora/councilgo/internal/memory/sqlite"
	"github.com/quantora/councilgo/internal/models"
	"github.com/quantora/councilgo/internal/offline"
	"github.com/quantora/councilgo/internal/ports"
	"github.com/quantora/councilgo/internal/reflection"
)

// The reference CLI drives the engine with the offline ports; it exists
// so the pipeline can be exercised end to end without vendor adapters.
// The product CLI lives elsewhere and supplies real ones.

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "councilgo",
		Short:         "Multi-role trading decision pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newReflectCmd())
	return root
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func openMemory(dbPath string) (ports.MemoryPort, func(), error) {
	if dbPath == "" {
		return memory.NewStore(), func() {}, nil
	}
	store, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

func newRunCmd() *cobra.Command {
	var (
		ticker     string
		date       string
		analysts   []string
		rounds     int
		riskRounds int
		dbPath     string
		outPath    string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the decision pipeline for one ticker and date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			if len(analysts) > 0 {
				cfg.EnabledAnalysts = analysts
			}
			if rounds > 0 {
				cfg.MaxDebateRounds = rounds
			}
			if riskRounds > 0 {
				cfg.MaxRiskDiscussRounds = riskRounds
			}

			mem, closeMem, err := openMemory(dbPath)
			if err != nil {
				return err
			}
			defer closeMem()

			engine := graph.New(offline.Inference{}, offline.Retrieval{}, mem,
				graph.WithLogger(newLogger(verbose)))

			res, err := engine.Run(cmd.Context(), ticker, date, cfg)
			if err != nil {
				return err
			}

			fmt.Println(display.Render(res))

			if outPath != "" {
				data, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(outPath, data, 0o644); err != nil {
					return fmt.Errorf("write result: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&ticker, "ticker", "t", "", "instrument ticker (required)")
	cmd.Flags().StringVarP(&date, "date", "d", time.Now().Format("2006-01-02"), "trade date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&analysts, "analysts", nil, "analysts to enable (default: all)")
	cmd.Flags().IntVar(&rounds, "debate-rounds", 0, "research debate round cap")
	cmd.Flags().IntVar(&riskRounds, "risk-rounds", 0, "risk discussion round cap")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite memory store path (default: in-process)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the run result JSON to this file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log phase transitions")
	_ = cmd.MarkFlagRequired("ticker")
	return cmd
}

func newReflectCmd() *cobra.Command {
	var (
		resultPath string
		realized   string
		horizon    string
		dbPath     string
	)

	cmd := &cobra.Command{
		Use:   "reflect",
		Short: "Record the lesson from a finished run and its realized outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(resultPath)
			if err != nil {
				return fmt.Errorf("read result: %w", err)
			}
			var res models.RunResult
			if err := json.Unmarshal(data, &res); err != nil {
				return fmt.Errorf("parse result: %w", err)
			}

			ret, err := decimal.NewFromString(realized)
			if err != nil {
				return fmt.Errorf("invalid --return %q: %w", realized, err)
			}

			mem, closeMem, err := openMemory(dbPath)
			if err != nil {
				return err
			}
			defer closeMem()

			engine := reflection.New(offline.Inference{}, mem, config.FromEnv())
			rec, err := engine.Reflect(cmd.Context(), &res, reflection.Outcome{
				Horizon:        horizon,
				RealizedReturn: ret,
			})
			if err != nil {
				return err
			}

			fmt.Printf("recorded lesson %s\n%s\n", rec.ID, rec.Lesson)
			return nil
		},
	}

	cmd.Flags().StringVarP(&resultPath, "result", "r", "", "run result JSON produced by run --out (required)")
	cmd.Flags().StringVar(&realized, "return", "", "realized fractional return, e.g. 0.05 (required)")
	cmd.Flags().StringVar(&horizon, "horizon", "7d", "observation horizon")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite memory store path (default: in-process)")
	_ = cmd.MarkFlagRequired("result")
	_ = cmd.MarkFlagRequired("return")
	return cmd
}
