// Package main provides the entry point for the stake engine.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/stake-engine/internal/api"
	"github.com/yourusername/stake-engine/internal/bankroll"
	"github.com/yourusername/stake-engine/internal/config"
	"github.com/yourusername/stake-engine/internal/database"
	"github.com/yourusername/stake-engine/internal/engine"
	"github.com/yourusername/stake-engine/internal/health"
	"github.com/yourusername/stake-engine/internal/league"
	applogger "github.com/yourusername/stake-engine/internal/logger"
	"github.com/yourusername/stake-engine/internal/metrics"
	"github.com/yourusername/stake-engine/internal/models"
	"github.com/yourusername/stake-engine/internal/predictor"
	"github.com/yourusername/stake-engine/internal/repository"
	"github.com/yourusername/stake-engine/internal/scheduler"
	"github.com/yourusername/stake-engine/internal/staking"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger

	predictLeague   string
	predictHome     string
	predictAway     string
	predictHomeOdds float64
	predictDrawOdds float64
	predictAwayOdds float64
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	predictCmd.Flags().StringVar(&predictLeague, "league", "", "League name or alias")
	predictCmd.Flags().StringVar(&predictHome, "home", "", "Home team")
	predictCmd.Flags().StringVar(&predictAway, "away", "", "Away team")
	predictCmd.Flags().Float64Var(&predictHomeOdds, "home-odds", 0, "Decimal odds for the home win")
	predictCmd.Flags().Float64Var(&predictDrawOdds, "draw-odds", 0, "Decimal odds for the draw")
	predictCmd.Flags().Float64Var(&predictAwayOdds, "away-odds", 0, "Decimal odds for the away win")
	_ = predictCmd.MarkFlagRequired("league")
	_ = predictCmd.MarkFlagRequired("home")
	_ = predictCmd.MarkFlagRequired("away")
}

var rootCmd = &cobra.Command{
	Use:   "stake-engine",
	Short: "Betting decision engine",
	Long:  `Prediction gating, stake sizing and bankroll management for football betting.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cfg.AWS.SecretsEnabled {
			if cfg.AWS.Region == "" || cfg.AWS.SecretsName == "" {
				return fmt.Errorf("aws.region and aws.secrets_name must be set when aws.secrets_enabled is true")
			}
			if err := config.LoadSecretsFromAWS(cfg, cfg.AWS.Region, cfg.AWS.SecretsName); err != nil {
				return fmt.Errorf("failed to load secrets: %w", err)
			}
		}

		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		appLog = applogger.NewLogger(cfg.App.LogLevel)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the engine with its health and metrics endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run a single prediction and print the decision",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPredict(cmd.Context())
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Walk a bet through predict, recommend, place and settle in memory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimulate(cmd.Context())
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, predictCmd, simulateCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// application bundles the engine with the collaborators the serve surfaces
// need direct access to.
type application struct {
	engine   *engine.Engine
	router   *predictor.Router
	registry *league.Registry
}

// buildApplication wires the registry, router, ledger manager and machine
// over the given repositories.
func buildApplication(accounts repository.AccountRepository, transactions repository.TransactionRepository) (*application, error) {
	registry, err := league.DefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build league registry: %w", err)
	}

	var loader predictor.Loader
	if cfg.ModelService.UseBaseline {
		loader = predictor.BaselineLoader()
	} else {
		remoteCfg := predictor.DefaultRemoteConfig(cfg.ModelService.BaseURL)
		remoteCfg.APIKey = cfg.ModelService.APIKey
		remoteCfg.Timeout = cfg.ModelServiceTimeout()
		remoteCfg.MaxRetries = cfg.ModelService.MaxRetries
		remoteCfg.RateLimit = cfg.ModelService.RateLimitPerSec
		loader = predictor.NewRemoteLoader(remoteCfg, appLog)
	}

	router := predictor.NewRouter(registry, loader, appLog)
	ledgers := bankroll.NewManager(accounts, appLog)
	machine := bankroll.NewMachine(ledgers, transactions, applogger.NewAuditLogger(appLog), appLog)

	opts := engine.Options{
		StrategyParams: staking.StrategyParams{
			KellyFraction: cfg.Staking.KellyFraction,
			FixedPercent:  cfg.Staking.FixedPercent,
			FixedAmount:   cfg.Staking.FixedAmount,
		},
		CacheTTL:     cfg.PredictionCacheTTL(),
		CacheMaxSize: cfg.ModelService.CacheMaxSize,
	}

	return &application{
		engine:   engine.New(registry, router, ledgers, machine, opts, appLog),
		router:   router,
		registry: registry,
	}, nil
}

func runServe(ctx context.Context) error {
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"commit":      GitCommit,
	}).Info("Stake engine starting")

	metrics.InitRegistry()

	db, err := database.NewDB(ctx, database.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		Name:           cfg.Database.Name,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		SSLMode:        cfg.Database.SSLMode,
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	appLog.Info("Database connection established")

	accounts := repository.NewPostgresAccountRepository(db)
	transactions := repository.NewPostgresTransactionRepository(db)

	app, err := buildApplication(accounts, transactions)
	if err != nil {
		return err
	}
	appLog.WithField("use_baseline", cfg.ModelService.UseBaseline).Info("Decision engine initialized")

	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer = api.NewServer(app.engine, api.Config{
			Port:           cfg.API.Port,
			BettingEnabled: cfg.Features.LiveBettingEnabled || cfg.Features.PaperTradingEnabled,
		}, appLog)
		apiServer.Start()
	}

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Health.Port,
		Leagues:     app.registry.Keys(),
		Models:      app.router,
		DB:          db,
		Logger:      appLog,
	})
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	var metricsSrv *metrics.Server
	if cfg.Metrics.Enabled {
		metricsSrv = metrics.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, appLog)
		metricsSrv.Start()
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(accounts, transactions, appLog)
		if err := sched.ScheduleReconciliation(cfg.Scheduler.ReconcileSchedule); err != nil {
			return fmt.Errorf("failed to schedule reconciliation: %w", err)
		}
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	healthServer.SetReady(true)
	appLog.Info("Stake engine ready")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		appLog.WithField("signal", sig.String()).Info("Shutdown signal received")
	case <-ctx.Done():
	}

	healthServer.SetReady(false)
	if sched != nil {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Failed to stop scheduler")
		}
	}
	if apiServer != nil {
		if err := apiServer.Stop(context.Background()); err != nil {
			appLog.WithError(err).Error("Failed to stop API server")
		}
	}
	if metricsSrv != nil {
		metricsSrv.Stop(context.Background())
	}
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Failed to stop health server")
	}

	appLog.Info("Stake engine stopped")
	return nil
}

func runPredict(ctx context.Context) error {
	metrics.InitRegistry()

	app, err := buildApplication(repository.NewMemoryAccountRepository(), repository.NewMemoryTransactionRepository())
	if err != nil {
		return err
	}

	record, err := app.engine.Predict(ctx, predictLeague, league.MatchAttributes{
		HomeTeam: predictHome,
		AwayTeam: predictAway,
		Odds: models.OddsTriple{
			Home: predictHomeOdds,
			Draw: predictDrawOdds,
			Away: predictAwayOdds,
		},
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runSimulate(ctx context.Context) error {
	metrics.InitRegistry()

	accounts := repository.NewMemoryAccountRepository()
	transactions := repository.NewMemoryTransactionRepository()

	// Simulation always runs against the built-in baseline predictor.
	cfg.ModelService.UseBaseline = true

	app, err := buildApplication(accounts, transactions)
	if err != nil {
		return err
	}
	eng := app.engine

	now := time.Now().UTC()
	account := &models.BankrollAccount{
		ID:                uuid.New(),
		OwnerID:           "simulation",
		Currency:          "USD",
		InitialBankroll:   cfg.Bankroll.InitialBankroll,
		CurrentBankroll:   cfg.Bankroll.InitialBankroll,
		Strategy:          models.StakingStrategy(cfg.Staking.DefaultStrategy),
		MaxStakePercent:   cfg.Bankroll.DefaultMaxStakePercent,
		DailyLossLimit:    cfg.Bankroll.DefaultDailyLossLimit,
		WeeklyLossLimit:   cfg.Bankroll.DefaultWeeklyLossLimit,
		DailyWindowStart:  now,
		WeeklyWindowStart: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := accounts.Create(ctx, account); err != nil {
		return fmt.Errorf("failed to create simulation account: %w", err)
	}

	attrs := league.MatchAttributes{
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Odds:     models.OddsTriple{Home: 2.10, Draw: 3.40, Away: 3.60},
	}

	record, err := eng.Predict(ctx, "Premier League", attrs)
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}
	appLog.WithFields(logrus.Fields{
		"outcome":    record.Outcome,
		"confidence": fmt.Sprintf("%.4f", record.Confidence),
		"ev":         fmt.Sprintf("%.4f", record.ExpectedValue),
		"reason":     record.Reason,
	}).Info("Prediction produced")

	recommendation, err := eng.RecommendStake(ctx, account.ID, engine.RecommendInput{
		PredictionID: &record.ID,
	})
	if err != nil {
		return fmt.Errorf("stake recommendation failed: %w", err)
	}
	appLog.WithFields(logrus.Fields{
		"stake":      fmt.Sprintf("%.2f", recommendation.Stake),
		"strategy":   recommendation.Strategy,
		"risk_level": recommendation.RiskLevel,
		"warnings":   recommendation.Warnings,
	}).Info("Stake recommended")

	if recommendation.Stake <= 0 {
		appLog.Info("No stake recommended, simulation complete")
		return nil
	}

	tx, err := eng.PlaceBet(ctx, account.ID, record.Outcome, record.SelectedOdds, recommendation.Stake, &record.ID)
	if err != nil {
		return fmt.Errorf("bet placement failed: %w", err)
	}
	appLog.WithFields(logrus.Fields{
		"transaction_id":   tx.ID,
		"stake":            fmt.Sprintf("%.2f", tx.Stake),
		"potential_return": fmt.Sprintf("%.2f", tx.PotentialReturn),
	}).Info("Bet placed")

	settled, err := eng.SettleBet(ctx, tx.ID, true, false)
	if err != nil {
		return fmt.Errorf("settlement failed: %w", err)
	}

	final, err := accounts.GetByID(ctx, account.ID)
	if err != nil {
		return err
	}
	appLog.WithFields(logrus.Fields{
		"status":      settled.Status,
		"profit_loss": fmt.Sprintf("%.2f", settled.SettledProfitLoss()),
		"bankroll":    fmt.Sprintf("%.2f", final.CurrentBankroll),
	}).Info("Bet settled, simulation complete")

	return nil
}
