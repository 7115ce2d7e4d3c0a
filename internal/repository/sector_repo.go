package repository

import (
	"context"
	"errors"
	"fmt"

	"coursehub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SectorRepository reads course sectors
type SectorRepository interface {
	ListSectors(ctx context.Context) ([]model.Sector, error)
	GetSectorByUUID(ctx context.Context, sectorUUID string) (*model.Sector, error)
}

type sectorRepo struct {
	pool *pgxpool.Pool
}

func NewSectorRepo(pool *pgxpool.Pool) SectorRepository {
	return &sectorRepo{pool: pool}
}

// ListSectors returns every sector ordered by name
func (r *sectorRepo) ListSectors(ctx context.Context) ([]model.Sector, error) {
	query := `
		SELECT id, sector_uuid::text, name, sector_image
		FROM sectors
		ORDER BY name ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying sectors: %w", err)
	}
	defer rows.Close()

	sectors := []model.Sector{}
	for rows.Next() {
		var s model.Sector
		if err := rows.Scan(&s.ID, &s.SectorUUID, &s.Name, &s.SectorImage); err != nil {
			return nil, fmt.Errorf("scanning sector row: %w", err)
		}
		sectors = append(sectors, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sector rows: %w", err)
	}
	return sectors, nil
}

// GetSectorByUUID returns nil when the sector does not exist
func (r *sectorRepo) GetSectorByUUID(ctx context.Context, sectorUUID string) (*model.Sector, error) {
	query := `
		SELECT id, sector_uuid::text, name, sector_image
		FROM sectors
		WHERE sector_uuid = $1
	`
	var s model.Sector
	err := r.pool.QueryRow(ctx, query, sectorUUID).Scan(&s.ID, &s.SectorUUID, &s.Name, &s.SectorImage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting sector %s: %w", sectorUUID, err)
	}
	return &s, nil
}
