package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taprush/config"
	"taprush/core"
	"taprush/core/events"
	coretypes "taprush/core/types"
	"taprush/native/token"
	"taprush/observability"
	"taprush/observability/logging"
	"taprush/rpc"
	"taprush/state"
	"taprush/storage"
)

// logEmitter mirrors engine events onto the structured log stream.
type logEmitter struct {
	logger *slog.Logger
}

func (l logEmitter) Emit(evt events.Event) {
	rendered, ok := evt.(interface{ Event() *coretypes.Event })
	if !ok {
		l.logger.Info(evt.EventType())
		return
	}
	attrs := make([]any, 0, 8)
	for key, value := range rendered.Event().Attributes {
		attrs = append(attrs, slog.String(key, value))
	}
	l.logger.Info(evt.EventType(), attrs...)
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./config.toml", "path to the TOML config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup("taprushd", cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	owner, _ := cfg.OwnerAddress()
	oracle, _ := cfg.OracleAddress()
	pricing, _ := cfg.PricingValue()
	rewardCfg, _ := cfg.RewardConfig()
	claimCfg, _ := cfg.ClaimConfig()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	ledger := token.NewKVLedger(db, core.DefaultModuleAccount())
	node, err := core.NewNode(
		state.NewManager(db),
		ledger,
		owner,
		core.WithOracle(oracle),
		core.WithRewardConfig(rewardCfg),
		core.WithClaimConfig(claimCfg),
		core.WithEmitter(events.Multi{metrics, logEmitter{logger: logger}}),
	)
	if err != nil {
		logger.Error("failed to construct engine", "error", err)
		os.Exit(1)
	}

	if err := node.UpdatePricing(owner, pricing); err != nil {
		logger.Error("failed to apply pricing", "error", err)
		os.Exit(1)
	}
	if err := node.UpdateVerificationMultipliers(owner, cfg.MultiplierTable()); err != nil {
		logger.Error("failed to apply multiplier table", "error", err)
		os.Exit(1)
	}
	submitters, _ := cfg.SubmitterAddresses()
	for _, submitter := range submitters {
		if err := node.SetAuthorizedSubmitter(owner, submitter, true); err != nil {
			logger.Error("failed to authorize submitter", "submitter", submitter.Hex(), "error", err)
			os.Exit(1)
		}
	}

	if cfg.MetricsAddress != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			server := &http.Server{
				Addr:              cfg.MetricsAddress,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}
			logger.Info("metrics listening", "address", cfg.MetricsAddress)
			if err := server.ListenAndServe(); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	server := rpc.NewServer(node)
	logger.Info("rpc listening", "address", cfg.RPCAddress)
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("rpc server stopped", "error", err)
		os.Exit(1)
	}
}
