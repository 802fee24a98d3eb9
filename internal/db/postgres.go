package db

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/Kamar-Folarin/mileage-collector/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

const defaultListLimit = 50

type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// Store defines the interface for database operations
type Store interface {
	// Mileage cars operations
	CreateMileageCars(ctx context.Context, record *models.MileageCars) error
	ListMileageCars(ctx context.Context, filter models.MileageCarsFilter) ([]*models.MileageCars, error)

	// Collection run operations
	SaveCollectionRun(ctx context.Context, run *models.CollectionRun) error
	GetCollectionRun(ctx context.Context, id string) (*models.CollectionRun, error)
	GetLatestCollectionRun(ctx context.Context) (*models.CollectionRun, error)
}

func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// DB exposes the underlying handle so the kv store can share the connection pool
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Migrate() error {
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// CreateMileageCars inserts an aggregate record. Every collection adds a new row so the
// history of a generation is kept.
func (s *PostgresStore) CreateMileageCars(ctx context.Context, record *models.MileageCars) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}

	years, err := json.Marshal(nonNilInts(record.Years))
	if err != nil {
		return fmt.Errorf("failed to marshal years: %w", err)
	}
	adverts := record.SoldAdverts
	if adverts == nil {
		adverts = []json.RawMessage{}
	}
	soldAdverts, err := json.Marshal(adverts)
	if err != nil {
		return fmt.Errorf("failed to marshal sold adverts: %w", err)
	}
	payloads := record.Payloads
	if payloads == nil {
		payloads = map[int]json.RawMessage{}
	}
	payloadsJSON, err := json.Marshal(payloads)
	if err != nil {
		return fmt.Errorf("failed to marshal payloads: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO mileage_cars (brand_id, model_id, generation_id, years, advert_count, sold_adverts, payloads, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at`,
		record.BrandID,
		record.ModelID,
		record.GenerationID,
		string(years),
		record.AdvertCount,
		string(soldAdverts),
		string(payloadsJSON),
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert mileage cars: %w", err)
	}

	return nil
}

// ListMileageCars lists stored records, newest first
func (s *PostgresStore) ListMileageCars(ctx context.Context, filter models.MileageCarsFilter) ([]*models.MileageCars, error) {
	baseQuery := `
		SELECT
			id, brand_id, model_id, generation_id, years, advert_count,
			sold_adverts, payloads, created_at
		FROM mileage_cars
		WHERE 1 = 1`

	args := []interface{}{}
	argCount := 0

	for _, f := range []struct {
		column string
		value  int
	}{
		{"brand_id", filter.BrandID},
		{"model_id", filter.ModelID},
		{"generation_id", filter.GenerationID},
	} {
		if f.value > 0 {
			argCount++
			baseQuery += fmt.Sprintf(" AND %s = $%d", f.column, argCount)
			args = append(args, f.value)
		}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	argCount++
	baseQuery += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mileage cars: %w", err)
	}
	defer rows.Close()

	var records []*models.MileageCars
	for rows.Next() {
		var r models.MileageCars
		var years, soldAdverts, payloads []byte
		if err := rows.Scan(
			&r.ID,
			&r.BrandID,
			&r.ModelID,
			&r.GenerationID,
			&years,
			&r.AdvertCount,
			&soldAdverts,
			&payloads,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan mileage cars: %w", err)
		}
		if err := json.Unmarshal(years, &r.Years); err != nil {
			return nil, fmt.Errorf("failed to unmarshal years: %w", err)
		}
		if err := json.Unmarshal(soldAdverts, &r.SoldAdverts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sold adverts: %w", err)
		}
		if err := json.Unmarshal(payloads, &r.Payloads); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payloads: %w", err)
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mileage cars: %w", err)
	}

	return records, nil
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
