package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goran-ethernal/BlockPipe/internal/alert"
	"github.com/goran-ethernal/BlockPipe/internal/blockstore"
	"github.com/goran-ethernal/BlockPipe/internal/common"
	"github.com/goran-ethernal/BlockPipe/internal/config"
	"github.com/goran-ethernal/BlockPipe/internal/db"
	"github.com/goran-ethernal/BlockPipe/internal/listener"
	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/goran-ethernal/BlockPipe/internal/metrics"
	"github.com/goran-ethernal/BlockPipe/internal/migrations"
	"github.com/goran-ethernal/BlockPipe/internal/monitor"
	"github.com/goran-ethernal/BlockPipe/internal/queue"
	"github.com/goran-ethernal/BlockPipe/internal/sli"
	"github.com/goran-ethernal/BlockPipe/internal/taskstore"
	"github.com/goran-ethernal/BlockPipe/internal/writer"
	"github.com/goran-ethernal/BlockPipe/pkg/api"
	pkgconfig "github.com/goran-ethernal/BlockPipe/pkg/config"
	pkgsli "github.com/goran-ethernal/BlockPipe/pkg/sli"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	version = "1.0.0"
	banner  = `
╔═══════════════════════════════════════════╗
║            BlockPipe v%s               ║
║     Block task pipeline for Flow data     ║
╚═══════════════════════════════════════════╝
`
)

var (
	configPath  string
	envFile     string
	servicesArg string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockpipe",
	Short: "BlockPipe - block task pipeline",
	Long: `BlockPipe turns frontier notifications into a gapless series of block tasks,
persists fetched block payloads exactly once and continuously checks the stored
data for gaps, duplicates and stalled work.`,
	Version: version,
	RunE:    runPipeline,
}

var schemaCmd = &cobra.Command{
	Use:   "config-schema",
	Short: "Print the JSON schema of the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := pkgconfig.Schema()
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
		return err
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "optional KEY=VALUE file loaded before the configuration")
	rootCmd.Flags().StringVarP(&servicesArg, "services", "s", "listener,writer,monitor",
		"comma separated services to run in this process")
	rootCmd.AddCommand(schemaCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	fmt.Printf(banner, version)

	services, err := parseServices(servicesArg)
	if err != nil {
		return err
	}

	if err := config.LoadEnvFiles(envFile); err != nil {
		return err
	}

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	componentLog := func(component string) *logger.Logger {
		return logger.NewComponentLoggerFromConfig(component, cfg.Logging)
	}
	log := componentLog(common.ComponentPipeline)

	log.Infow("starting BlockPipe",
		"network", cfg.Network.Name,
		"network_id", cfg.Network.ID,
		"database", cfg.Database.Driver,
		"queue", cfg.Queue.Kind,
		"services", services)

	database, dialect, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	log.Info("running database migrations")
	if err := migrations.RunMigrations(log, database, dialect); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	maintenance := db.NewMaintenanceCoordinator(cfg.Database, database, componentLog(common.ComponentMaintenance))
	if err := maintenance.Start(ctx); err != nil {
		return fmt.Errorf("failed to start database maintenance: %w", err)
	}
	defer func() {
		if err := maintenance.Stop(); err != nil {
			log.Warnf("failed to stop database maintenance: %v", err)
		}
	}()

	broker, err := queue.New(cfg.Queue, componentLog(common.ComponentQueue))
	if err != nil {
		return err
	}
	defer func() {
		if err := broker.Close(); err != nil {
			log.Warnf("failed to close broker: %v", err)
		}
	}()

	names := cfg.Queue.Names
	if err := broker.DeclareQueues(ctx, names.Sensor, names.Processor, names.Writer); err != nil {
		return fmt.Errorf("failed to declare queues: %w", err)
	}

	networkID := cfg.Network.ID
	taskStore := taskstore.New(database, dialect, networkID, maintenance, componentLog(common.ComponentTaskStore))
	blockStore := blockstore.New(database, dialect, networkID, maintenance, componentLog(common.ComponentBlockStore))
	recorder := sli.NewRecorder(database, dialect, networkID, maintenance, componentLog(common.ComponentSLI))
	notifier := alert.New(cfg.Alerts, cfg.Network.Name, componentLog(common.ComponentAlerts))

	metrics.StartInc()
	recorder.Record(ctx, pkgsli.Metric{Entity: pkgsli.EntitySystem, Name: pkgsli.RestartFramework, Value: 1})

	blockListener := listener.New(cfg.Listener, names, taskStore, broker, componentLog(common.ComponentListener))
	blockWriter := writer.New(taskStore, blockStore, recorder, broker, names.Writer, componentLog(common.ComponentWriter))
	blockMonitor := monitor.New(cfg.Monitor, cfg.Listener.StartBlock,
		blockListener, blockListener, blockStore, taskStore,
		notifier, recorder, componentLog(common.ComponentMonitor))

	g, gctx := errgroup.WithContext(ctx)

	if services.has(serviceListener) {
		g.Go(supervise(gctx, log, common.ComponentListener, blockListener.Run))
	}
	if services.has(serviceWriter) {
		g.Go(supervise(gctx, log, common.ComponentWriter, blockWriter.Run))
	}
	if services.has(serviceMonitor) {
		if services.monitorWithoutListener() {
			log.Warn("monitor runs without the listener in this process, " +
				"the sync check only sees frontiers received here and stays silent")
		}
		g.Go(supervise(gctx, log, common.ComponentMonitor, blockMonitor.Run))
	}

	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics, componentLog(common.ComponentMetrics))
		g.Go(supervise(gctx, log, common.ComponentMetrics, metricsServer.Run))
	}

	if cfg.API != nil && cfg.API.Enabled {
		apiServer := api.NewServer(gctx, cfg.API, cfg.Network.Name, blockListener, taskStore, componentLog(common.ComponentAPI))
		g.Go(supervise(gctx, log, common.ComponentAPI, apiServer.Run))
	}

	log.Info("BlockPipe started")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("pipeline stopped with error: %w", err)
	}

	log.Info("BlockPipe stopped successfully")
	return nil
}

// supervise wraps a service loop with health metrics and logging.
func supervise(ctx context.Context, log *logger.Logger, component string,
	run func(context.Context) error) func() error {
	return func() error {
		metrics.ComponentHealthSet(component, true)
		defer metrics.ComponentHealthSet(component, false)

		err := run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			metrics.ServiceErrorInc(component)
			log.Errorw("service stopped with error", "service", component, "error", err)
			return fmt.Errorf("%s: %w", component, err)
		}

		log.Infow("service stopped", "service", component)
		return nil
	}
}
