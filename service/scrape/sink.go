package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopcrawl.GO/model/entity"
)

// Sink owns the catalog database for the duration of a run. Construction
// ensures the three tables exist; Close releases the connection pool. The
// sink never reconnects on its own; connection loss propagates to the caller.
type Sink struct {
	db        *gorm.DB
	failedDir string
}

func NewSink(db *gorm.DB, failedDir string) (*Sink, error) {
	if err := db.AutoMigrate(&entity.Product{}, &entity.Variant{}, &entity.Image{}); err != nil {
		return nil, &SchemaInitError{Err: err}
	}
	if db.Dialector.Name() == "postgres" {
		if err := ensureVariantFK(db); err != nil {
			return nil, &SchemaInitError{Err: err}
		}
	}
	if failedDir != "" {
		if err := os.MkdirAll(failedDir, 0o755); err != nil {
			return nil, fmt.Errorf("create failure log dir: %w", err)
		}
	}
	return &Sink{db: db, failedDir: failedDir}, nil
}

// ensureVariantFK adds variants.product_id -> products.id once. The images
// table keeps no product relation.
func ensureVariantFK(db *gorm.DB) error {
	var n int64
	if err := db.Raw("SELECT COUNT(*) FROM pg_constraint WHERE conname = 'fk_variants_product'").Scan(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return db.Exec("ALTER TABLE variants ADD CONSTRAINT fk_variants_product FOREIGN KEY (product_id) REFERENCES products(id)").Error
}

func (s *Sink) InsertProducts(ctx context.Context, rows []entity.Product) error {
	return insertBatch(ctx, s, "products", rows, false)
}

func (s *Sink) InsertVariants(ctx context.Context, rows []entity.Variant) error {
	return insertBatch(ctx, s, "variants", rows, false)
}

// InsertImages tolerates duplicate image ids: the same catalog-wide id can
// show up on several pages, so conflicts are silently dropped.
func (s *Sink) InsertImages(ctx context.Context, rows []entity.Image) error {
	return insertBatch(ctx, s, "images", rows, true)
}

// insertBatch runs one transaction for a page's batch. A row that fails rolls
// back to its own savepoint and lands in the failure log; the remaining rows
// and the transaction itself go through. Transaction-level errors (lost
// connection, failed commit) propagate.
func insertBatch[T any](ctx context.Context, s *Sink, table string, rows []T, ignoreConflicts bool) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			sp := fmt.Sprintf("sp_%s_%d", table, i)
			if err := tx.SavePoint(sp).Error; err != nil {
				return err
			}
			ins := tx
			if ignoreConflicts {
				ins = tx.Clauses(clause.OnConflict{DoNothing: true})
			}
			if err := ins.Create(&rows[i]).Error; err != nil {
				if rbErr := tx.RollbackTo(sp).Error; rbErr != nil {
					return rbErr
				}
				s.logFailedRow(table, rows[i], err)
			}
		}
		return nil
	})
}

// logFailedRow appends the original record as one JSON line to the per-table
// failure log. Log-write problems must not take down the run.
func (s *Sink) logFailedRow(table string, row interface{}, cause error) {
	log.Printf("insert into %s failed: %v", table, cause)
	if s.failedDir == "" {
		return
	}
	line, err := json.Marshal(row)
	if err != nil {
		log.Printf("marshal failed %s row: %v", table, err)
		return
	}
	path := filepath.Join(s.failedDir, table+".jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("open failure log %s: %v", path, err)
		return
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		log.Printf("write failure log %s: %v", path, err)
		return
	}
	log.Printf("saved failed item in %q", path)
}

// Close releases the underlying connection pool.
func (s *Sink) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
