package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"os-scheduler/api"
	"os-scheduler/config"
	"os-scheduler/internal/loader"
	"os-scheduler/internal/logger"
	"os-scheduler/internal/metrics"
	"os-scheduler/internal/requests"
	"os-scheduler/internal/responses"
	"os-scheduler/internal/schedulers"
	"os-scheduler/pkg/client"
)

// GlobalFlags holds persistent flags shared by every command.
type GlobalFlags struct {
	ConfigPath string
	LogLevel   string
}

// SimulationFlags selects the batch file and the policy to run over it.
type SimulationFlags struct {
	File    string
	Policy  string
	Quantum int
}

// SubmitFlags adds the remote server to SimulationFlags.
type SubmitFlags struct {
	SimulationFlags
	Server  string
	Timeout time.Duration
	All     bool
}

type app struct {
	cfg     *config.SchedulerConfig
	log     *slog.Logger
	closeFn func() error
}

func buildRoot() *cobra.Command {
	var gf GlobalFlags
	a := &app{}

	root := &cobra.Command{
		Use:           "cpusched",
		Short:         "CPU scheduling simulator (FCFS, SJF, Round-Robin)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(gf)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.closeFn != nil {
				return a.closeFn()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&gf.ConfigPath, "config", "", "path to config.yaml (default ./config.yaml)")
	root.PersistentFlags().StringVar(&gf.LogLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(
		runCmd(a),
		compareCmd(a),
		serveCmd(a),
		submitCmd(a),
	)
	return root
}

func (a *app) setup(gf GlobalFlags) error {
	cfg, err := config.Load(gf.ConfigPath)
	if err != nil {
		return err
	}
	if gf.LogLevel != "" {
		cfg.Log.Level = gf.LogLevel
	}
	log, closer := logger.Build(cfg.Log)
	a.cfg, a.log, a.closeFn = cfg, log, closer.Close
	return nil
}

// schedulerConfig resolves policy and quantum flags against the config
// file, rejecting a bad quantum before anything is loaded.
func (a *app) schedulerConfig(f SimulationFlags) (schedulers.Config, error) {
	name := f.Policy
	if name == "" {
		name = a.cfg.DefaultPolicy
	}
	policy, err := schedulers.ParsePolicy(name)
	if err != nil {
		return schedulers.Config{}, err
	}
	quantum := f.Quantum
	if quantum == 0 {
		quantum = a.cfg.RoundRobinTimeQuantum
	}
	cfg := schedulers.Config{Policy: policy, RoundRobin: schedulers.RoundRobinConfig{Quantum: quantum}, Logger: a.log}
	if err := cfg.Validate(); err != nil {
		return schedulers.Config{}, err
	}
	return cfg, nil
}

func addSimulationFlags(cmd *cobra.Command, f *SimulationFlags) {
	cmd.Flags().StringVarP(&f.File, "file", "f", "", "process batch file (pid,arrival,burst,priority,user per line)")
	cmd.Flags().StringVarP(&f.Policy, "policy", "p", "", "fcfs, sjf or rr (default scheduler.default_policy)")
	cmd.Flags().IntVarP(&f.Quantum, "quantum", "q", 0, "round-robin quantum (default scheduler.round_robin.time_quantum)")
}

// reportLoadErrors prints bad batch lines and keeps going; any other error
// is returned.
func reportLoadErrors(cmd *cobra.Command, err error) error {
	var loadErr *loader.LoadError
	if errors.As(err, &loadErr) {
		for _, l := range loadErr.Lines {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "[ERROR] %v\n", l)
		}
		return nil
	}
	return err
}

func runCmd(a *app) *cobra.Command {
	var f SimulationFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a batch file and run one scheduling policy over it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.schedulerConfig(f)
			if err != nil {
				return err
			}
			file, err := os.Open(f.File)
			if err != nil {
				return err
			}
			defer func() { _ = file.Close() }()

			pm := schedulers.NewManager(cfg)
			n, err := loader.Load(file, pm)
			if err := reportLoadErrors(cmd, err); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[OK] %d processes loaded\n", n)

			res, err := schedulers.Simulate(pm, cfg)
			if err != nil {
				return err
			}
			return renderResult(cmd.OutOrStdout(), res)
		},
	}
	addSimulationFlags(cmd, &f)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func compareCmd(a *app) *cobra.Command {
	var f SimulationFlags
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run FCFS, SJF and Round-Robin over the same batch file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.schedulerConfig(SimulationFlags{Policy: string(schedulers.RoundRobin), Quantum: f.Quantum})
			if err != nil {
				return err
			}
			jobs, err := loader.ParseFile(f.File)
			if err := reportLoadErrors(cmd, err); err != nil {
				return err
			}
			res, err := schedulers.ScheduleAll(&requests.ScheduleRequests{Jobs: jobs}, cfg.RoundRobin.Quantum, a.log)
			if err != nil {
				return err
			}
			return renderComparison(cmd.OutOrStdout(), res.Results)
		},
	}
	cmd.Flags().StringVarP(&f.File, "file", "f", "", "process batch file")
	cmd.Flags().IntVarP(&f.Quantum, "quantum", "q", 0, "round-robin quantum")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func serveCmd(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scheduling HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != 0 {
				a.cfg.Port = port
			}
			if a.cfg.MetricsEnabled {
				if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
					return err
				}
			}
			server := api.NewRouter(a.cfg, a.log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			errCh := make(chan error, 1)
			go func() {
				a.log.Info("listening", slog.Int("port", a.cfg.Port))
				errCh <- server.Listen(":" + strconv.Itoa(a.cfg.Port))
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				a.log.Info("shutting down")
				return server.ShutdownWithTimeout(5 * time.Second)
			}
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config)")
	return cmd
}

func submitCmd(a *app) *cobra.Command {
	var f SubmitFlags
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Send a batch file to a running server and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			jobs, err := loader.ParseFile(f.File)
			if err := reportLoadErrors(cmd, err); err != nil {
				return err
			}
			req := requests.ScheduleRequests{Jobs: jobs, Quantum: f.Quantum}
			c := client.New(f.Server, f.Timeout)
			ctx, cancel := context.WithTimeout(cmd.Context(), f.Timeout+time.Second)
			defer cancel()

			if f.All {
				res, err := c.Compare(ctx, req)
				if err != nil {
					return err
				}
				return renderComparison(cmd.OutOrStdout(), res.Results)
			}
			policy := schedulers.Policy(f.Policy)
			if f.Policy == "" {
				policy = schedulers.Policy(a.cfg.DefaultPolicy)
			}
			policy, err = schedulers.ParsePolicy(string(policy))
			if err != nil {
				return err
			}
			var res responses.ScheduleResponse
			if res, err = c.Schedule(ctx, string(policy), req); err != nil {
				return err
			}
			return renderResult(cmd.OutOrStdout(), res)
		},
	}
	addSimulationFlags(cmd, &f.SimulationFlags)
	cmd.Flags().StringVar(&f.Server, "server", "http://localhost:9095", "scheduler API base URL")
	cmd.Flags().DurationVar(&f.Timeout, "timeout", client.DefaultTimeout, "request timeout")
	cmd.Flags().BoolVar(&f.All, "all", false, "compare every policy")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
