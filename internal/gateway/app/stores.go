package app

import (
	"fmt"
	"log"

	reportcache "postpulse/internal/cache/report"
	"postpulse/internal/gateway/config"
	"postpulse/internal/gateway/repository/archive"
	"postpulse/internal/source/history"
)

type gatewayStores struct {
	archive archive.Store
	history *history.Store
}

func initStores(cfg *config.Config) (*gatewayStores, error) {
	archiveStore, err := chooseArchiveStore(cfg)
	if err != nil {
		return nil, err
	}
	return &gatewayStores{
		archive: archiveStore,
		history: initHistoryStore(cfg),
	}, nil
}

func chooseArchiveStore(cfg *config.Config) (archive.Store, error) {
	if cfg.Archive.CanUseS3() {
		s3Store, err := archive.NewS3Store(archive.S3Config{
			Endpoint:  cfg.Archive.Endpoint,
			Region:    cfg.Archive.Region,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Bucket:    cfg.Archive.Bucket,
			UseSSL:    cfg.Archive.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize archive s3 store: %w", err)
		}
		log.Printf("archive store: s3 bucket=%s endpoint=%s", cfg.Archive.Bucket, cfg.Archive.Endpoint)
		return reportcache.NewCachedStore(s3Store, reportcache.DefaultCacheConfig()), nil
	}
	if cfg.Archive.Enabled {
		log.Printf("archive store: using in-memory fallback (s3 config incomplete)")
		return reportcache.NewCachedStore(archive.NewMemoryStore(), reportcache.DefaultCacheConfig()), nil
	}
	return nil, nil
}

func initHistoryStore(cfg *config.Config) *history.Store {
	if dsn := cfg.History.DSN; dsn != "" {
		s, err := history.NewPostgres(dsn)
		if err == nil {
			log.Printf("history store: postgres")
			return s
		}
		log.Printf("history store: postgres unavailable (%v), using file fallback", err)
	}
	log.Printf("history store: file %s", cfg.History.FilePath)
	return history.New(cfg.History.FilePath)
}
