package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/adapters/cms"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/adapters/observability"
	redisad "github.com/kenshomedia-ltd/gds-optimised-sub001/internal/adapters/redis"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/app"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/shared"
	mysqlrepo "github.com/kenshomedia-ltd/gds-optimised-sub001/internal/storage/mysql"
)

type job struct {
	name string
	run  func(context.Context) error
}

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before exit.
func run() int {
	cfg, err := shared.Load()
	if err != nil {
		log.Error().Err(err).Msg("config")
		return 2
	}
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("base", cfg.CMSBase).
		Int("workers", cfg.Workers).
		Strs("locales", cfg.Locales).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Error().Err(err).Msg("sql.Open failed")
		return 2
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("db.Ping failed")
		return 2
	}
	log.Info().Msg("db ping ok")

	client, err := cms.New(cfg.CMSBase, cfg.CMSToken, cfg.CMSRPS)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize CMS client")
		return 2
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	svc := app.NewSyncService(client, mysqlrepo.New(db), cache, cfg.CMSPageSize)

	jobs := []job{
		{"casinos", collectionJob("casinos", svc.SyncCasinos)},
		{"games", collectionJob("games", svc.SyncGames)},
	}
	for _, l := range cfg.Locales {
		l := l
		jobs = append(jobs, job{"locale:" + l, func(ctx context.Context) error { return svc.SyncLocale(ctx, l) }})
	}

	if failed := runJobs(ctx, cfg.Workers, jobs); failed > 0 {
		log.Error().Int("failed", failed).Msg("ingestion finished with errors")
		return 1
	}
	log.Info().Msg("ingestion completed")
	return 0
}

func collectionJob(name string, fn func(context.Context) (app.SyncStats, error)) func(context.Context) error {
	return func(ctx context.Context) error {
		st, err := fn(ctx)
		observability.ObserveSync(name, "ok", st.Written)
		observability.ObserveSync(name, "miss", st.Skipped)
		log.Info().Str("collection", name).Int("pages", st.Pages).Int("written", st.Written).Int("skipped", st.Skipped).Msg("collection synced")
		if err != nil {
			observability.ObserveSync(name, "error", 1)
		}
		return err
	}
}

// runJobs runs at most workers jobs at once and returns how many failed.
func runJobs(ctx context.Context, workers int, jobs []job) int {
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg     sync.WaitGroup
		failed atomic.Int32
	)
	for _, j := range jobs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("ingestion cancelled")
			failed.Add(1)
			break
		}
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			defer sem.Release(1)
			if err := j.run(ctx); err != nil {
				failed.Add(1)
				log.Warn().Str("job", j.name).Err(err).Msg("sync failed")
				return
			}
			log.Info().Str("job", j.name).Msg("sync ok")
		}(j)
	}
	wg.Wait()
	return int(failed.Load())
}
