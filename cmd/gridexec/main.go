package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/overmesh/gridexec/cluster"
	"github.com/overmesh/gridexec/compute"
	"github.com/overmesh/gridexec/gateway"
	"github.com/overmesh/gridexec/gateway/grpcserver"
	"github.com/overmesh/gridexec/gateway/httpserver"
	"github.com/overmesh/gridexec/pkg/logutil"
	"github.com/overmesh/gridexec/pkg/security"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridexec",
		Short: "gridexec distributed compute-task execution engine",
	}
	rootCmd.AddCommand(newServerCmd())
	return rootCmd
}

func newServerCmd() *cobra.Command {
	var (
		configPath string
		overrides  = pflag.NewFlagSet("server", pflag.ContinueOnError)
		httpAddr   = overrides.String("http-addr", "", "HTTP front door address")
		grpcAddr   = overrides.String("grpc-addr", "", "gRPC front door address")
		workers    = overrides.Int("workers", 0, "worker goroutines per node")
	)

	cmd := &cobra.Command{
		Use:   "server",
		Short: "run a gridexec server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			// Command-line flags override the config file.
			if cmd.Flags().Changed("http-addr") {
				cfg.HTTPAddr = *httpAddr
			}
			if cmd.Flags().Changed("grpc-addr") {
				cfg.GRPCAddr = *grpcAddr
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = *workers
			}
			if err := logutil.InitLogger(cfg.Log); err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the TOML config file")
	cmd.Flags().AddFlagSet(overrides)
	return cmd
}

func runServer(cfg *Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clu := cluster.New()
	for i, nodeCfg := range cfg.Nodes {
		clu.AddNode(cluster.NewNode(nodeCfg.Name, nodeCfg.Attributes, i == 0))
	}
	defer clu.Close()

	registry := compute.NewRegistry()
	registry.Register(EchoTaskName, newEchoTask)

	engine := compute.NewEngine(clu, registry, security.NewRegistry(),
		compute.WithWorkersPerNode(cfg.Workers))
	gw := gateway.New(engine)

	httpLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return errors.Trace(err)
	}
	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return errors.Trace(err)
	}

	httpSrv := httpserver.New(gw)
	grpcSrv := grpcserver.New(gw)

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		return engine.Run(ctx)
	})
	errg.Go(func() error {
		return httpSrv.Serve(httpLis)
	})
	errg.Go(func() error {
		return grpcSrv.Serve(grpcLis)
	})
	errg.Go(func() error {
		<-ctx.Done()
		grpcSrv.Stop()
		return httpSrv.Shutdown(context.Background())
	})

	log.L().Info("gridexec server started",
		zap.String("http-addr", cfg.HTTPAddr),
		zap.String("grpc-addr", cfg.GRPCAddr),
		zap.Int("nodes", len(cfg.Nodes)))

	err = errg.Wait()
	if errors.Cause(err) == context.Canceled {
		return nil
	}
	return err
}
