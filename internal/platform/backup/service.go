package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/blobstore"
	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/pkg/validation"
)

const keyPrefix = "backups/"

type Service struct {
	pool  *pgxpool.Pool
	store blobstore.Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewService(pool *pgxpool.Pool, store blobstore.Store, log zerolog.Logger) *Service {
	return &Service{pool: pool, store: store, log: log, now: time.Now}
}

// Create exports every table into a fresh snapshot and uploads it.
func (s *Service) Create(ctx context.Context) (blobstore.Info, error) {
	tmpDir, err := os.MkdirTemp("", "clinic-backup-*")
	if err != nil {
		return blobstore.Info{}, err
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "snapshot.db")
	snap, err := createSnapshot(path)
	if err != nil {
		return blobstore.Info{}, err
	}

	for _, table := range Tables {
		if err := s.exportTable(ctx, snap, table); err != nil {
			snap.Close()
			return blobstore.Info{}, fmt.Errorf("export %s: %w", table, err)
		}
	}
	if err := snap.Close(); err != nil {
		return blobstore.Info{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return blobstore.Info{}, err
	}
	defer f.Close()

	key := keyPrefix + "clinic-" + s.now().UTC().Format("20060102-150405") + ".db"
	info, err := s.store.Put(ctx, key, f)
	if err != nil {
		return blobstore.Info{}, err
	}
	s.log.Info().Str("key", key).Int64("size", info.Size).Msg("backup created")
	return info, nil
}

func (s *Service) exportTable(ctx context.Context, snap *snapshotFile, table string) error {
	rows, err := s.pool.Query(ctx,
		`SELECT id, row_to_json(t)::text FROM `+table+` t ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Payload); err != nil {
			return err
		}
		if err := snap.Add(table, rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

// List returns the stored snapshots, newest first.
func (s *Service) List(ctx context.Context) ([]blobstore.Info, error) {
	return s.store.List(ctx, keyPrefix)
}

// Restore replaces the entire database contents with a snapshot's. Runs in
// one transaction: a bad snapshot leaves the database untouched.
func (s *Service) Restore(ctx context.Context, key string) error {
	if !strings.HasPrefix(key, keyPrefix) {
		return validation.Newf("invalid backup key: %s", key)
	}
	rc, err := s.store.Get(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()

	tmpDir, err := os.MkdirTemp("", "clinic-restore-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "snapshot.db")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.ReadFrom(rc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	snap, err := openSnapshot(path)
	if err != nil {
		return err
	}
	defer snap.Close()

	err = db.WithTx(ctx, s.pool, func(ctx context.Context) error {
		tx := db.TxFromContext(ctx)
		for i := len(Tables) - 1; i >= 0; i-- {
			if _, err := tx.Exec(ctx, `DELETE FROM `+Tables[i]); err != nil {
				return fmt.Errorf("clear %s: %w", Tables[i], err)
			}
		}
		for _, table := range Tables {
			records, err := snap.Records(table)
			if err != nil {
				return fmt.Errorf("read %s: %w", table, err)
			}
			for _, rec := range records {
				if _, err := tx.Exec(ctx,
					`INSERT INTO `+table+` SELECT * FROM json_populate_record(NULL::`+table+`, $1::json)`,
					rec.Payload); err != nil {
					return fmt.Errorf("restore %s row %d: %w", table, rec.ID, err)
				}
			}
			if _, err := tx.Exec(ctx,
				`SELECT setval(pg_get_serial_sequence('`+table+`', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM `+table); err != nil {
				return fmt.Errorf("reset %s sequence: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("key", key).Msg("backup restored")
	return nil
}
