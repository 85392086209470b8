package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/JRBGitHub/scheadule-desvio/config"
	"github.com/JRBGitHub/scheadule-desvio/database"
	"github.com/JRBGitHub/scheadule-desvio/model"
	"github.com/JRBGitHub/scheadule-desvio/repository"
	"github.com/JRBGitHub/scheadule-desvio/routes"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	rootCmd := &cobra.Command{
		Use:           "scheadule",
		Short:         "Investment alert schedule API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "openapi",
			Short: "Print the OpenAPI document as YAML",
			RunE:  runOpenAPI,
		},
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	sysConfigs, err := config.LoadConfigs()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	if !sysConfigs.Config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, sysConfigs.Config)
	if err != nil {
		return err
	}
	defer closeStore()

	var redisUtil *database.RedisUtil
	if sysConfigs.Config.RedisURL != "" {
		redisUtil, err = database.InitRedis(ctx, sysConfigs.Config.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, stats cached in process")
			redisUtil = nil
		} else {
			defer redisUtil.Close()
		}
	}

	router, _, err := routes.SetupRouter(sysConfigs, repo, redisUtil)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              "0.0.0.0:" + sysConfigs.Config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", sysConfigs.Config.Port).Str("store", repo.Name()).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore picks the schedule repository named by STORE.
func openStore(ctx context.Context, cfg *model.EnvConfig) (repository.ScheduleRepository, func(), error) {
	if cfg.Store != model.StoreMongo {
		return repository.NewMemoryScheduleRepository(), func() {}, nil
	}

	client, db, err := database.InitMongoClient(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}

	repo := repository.NewMongoScheduleRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("ensure schedule indexes: %w", err)
	}
	return repo, closeFn, nil
}

func runOpenAPI(cmd *cobra.Command, _ []string) error {
	gin.SetMode(gin.ReleaseMode)
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	cfg := &config.SystemConfigs{Config: &model.EnvConfig{
		Timezone: "UTC",
		StatsTTL: time.Minute,
	}}
	_, api, err := routes.SetupRouter(cfg, repository.NewMemoryScheduleRepository(), nil)
	if err != nil {
		return err
	}

	doc, err := api.OpenAPI().YAML()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(doc)
	return err
}

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.With().Caller().Logger()
}
