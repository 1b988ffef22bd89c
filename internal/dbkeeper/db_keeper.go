package dbkeeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/drstein77/inventory/internal/catalog"
	"github.com/drstein77/inventory/internal/models"
)

var ErrEmptyDSN = errors.New("database dsn is empty")

// Log is the subset of the logger the keeper writes to.
type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// DBKeeper stores the catalog in the items table, one row per position.
type DBKeeper struct {
	pool *pgxpool.Pool
	log  Log
}

// NewDBKeeper connects to dsn and migrates the schema from migrationsDir.
func NewDBKeeper(ctx context.Context, dsn, migrationsDir string, log Log) (*DBKeeper, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database DSN: %w", err)
	}

	if err := migrateUp(dsn, migrationsDir); err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	log.Info("Connected!")

	return &DBKeeper{
		pool: pool,
		log:  log,
	}, nil
}

// ReplaceItems overwrites the stored catalog with items in one transaction.
func (kp *DBKeeper) ReplaceItems(ctx context.Context, items []models.Item) (err error) {
	if kp.pool == nil {
		return fmt.Errorf("database connection pool is nil")
	}

	tx, err := kp.pool.Begin(ctx)
	if err != nil {
		kp.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				kp.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
			}
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	stmt := `INSERT INTO items (position, name, category, price) VALUES ($1, $2, $3, $4)`
	batch := &pgx.Batch{}
	for i, item := range items {
		batch.Queue(stmt, i, item.Name, item.Category.String(), item.Price)
	}

	br := tx.SendBatch(ctx, batch)
	for range items {
		if _, execErr := br.Exec(); execErr != nil {
			br.Close()
			err = fmt.Errorf("failed to execute batch query: %w", execErr)
			return err
		}
	}
	if closeErr := br.Close(); closeErr != nil {
		err = fmt.Errorf("failed to close batch results: %w", closeErr)
		return err
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		return err
	}

	kp.log.Info("Items stored", zap.Int("count", len(items)))
	return nil
}

// GetAllItems reads the catalog back in position order.
func (kp *DBKeeper) GetAllItems(ctx context.Context) ([]models.Item, error) {
	if kp.pool == nil {
		return nil, fmt.Errorf("database connection pool is nil")
	}

	rows, err := kp.pool.Query(ctx, `SELECT name, category, price FROM items ORDER BY position`)
	if err != nil {
		kp.log.Error("Failed to execute query", zap.Error(err))
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var (
			item     models.Item
			category string
		)
		if err := rows.Scan(&item.Name, &category, &item.Price); err != nil {
			kp.log.Error("Failed to scan row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if item.Category, err = catalog.ParseCategory(category); err != nil {
			return nil, fmt.Errorf("row %d: %w", len(items), err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		kp.log.Error("Error occurred during rows iteration", zap.Error(rows.Err()))
		return nil, fmt.Errorf("error during rows iteration: %w", rows.Err())
	}

	kp.log.Info("Successfully retrieved all items", zap.Int("count", len(items)))
	return items, nil
}

// Ping reports whether the database answers.
func (kp *DBKeeper) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := kp.pool.Ping(ctx); err != nil {
		kp.log.Error("Database ping failed", zap.Error(err))
		return false
	}

	return true
}

// Close releases the connection pool.
func (kp *DBKeeper) Close() bool {
	if kp.pool != nil {
		kp.pool.Close()
		kp.log.Info("Database connection pool closed")
		return true
	}
	kp.log.Info("Attempted to close a nil database connection pool")
	return false
}
