package database

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// StorageStats aggregates recorded upload sizes for the admin dashboard.
type StorageStats struct {
	TotalSize int64            `json:"total_size"`
	ByType    map[string]int64 `json:"by_type"`
	ByUser    map[string]int64 `json:"by_user"`
	FileCount int64            `json:"file_count"`
}

// GetStorageStats computes total, per-type and per-user storage usage from
// the uploads table. Sizes are recorded at upload time, so files later
// removed from disk out-of-band are still counted until their row is deleted.
func GetStorageStats(db *sql.DB) (StorageStats, error) {
	stats := StorageStats{
		ByType: map[string]int64{"image": 0, "video": 0, "text": 0, "other": 0},
		ByUser: map[string]int64{},
	}

	totalQuery := psql.Select("COALESCE(SUM(size_bytes), 0)", "COUNT(*)").From("uploads")
	sqlStr, args, err := totalQuery.ToSql()
	if err != nil {
		return StorageStats{}, fmt.Errorf("failed to build SQL query for storage totals: %w", err)
	}
	if err := db.QueryRow(sqlStr, args...).Scan(&stats.TotalSize, &stats.FileCount); err != nil {
		return StorageStats{}, fmt.Errorf("failed to query storage totals: %w", err)
	}

	byTypeQuery := psql.Select("type", "COALESCE(SUM(size_bytes), 0)").
		From("uploads").
		GroupBy("type")
	sqlStr, args, err = byTypeQuery.ToSql()
	if err != nil {
		return StorageStats{}, fmt.Errorf("failed to build SQL query for per-type stats: %w", err)
	}
	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return StorageStats{}, fmt.Errorf("failed to query per-type stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var uploadType string
		var size int64
		if err := rows.Scan(&uploadType, &size); err != nil {
			return StorageStats{}, fmt.Errorf("failed to scan per-type stats row: %w", err)
		}
		stats.ByType[uploadType] = size
	}
	if err := rows.Err(); err != nil {
		return StorageStats{}, fmt.Errorf("error iterating per-type stats rows: %w", err)
	}

	byUserQuery := psql.Select("assigned_to", "COALESCE(SUM(size_bytes), 0)").
		From("uploads").
		GroupBy("assigned_to")
	sqlStr, args, err = byUserQuery.ToSql()
	if err != nil {
		return StorageStats{}, fmt.Errorf("failed to build SQL query for per-user stats: %w", err)
	}
	userRows, err := db.Query(sqlStr, args...)
	if err != nil {
		return StorageStats{}, fmt.Errorf("failed to query per-user stats: %w", err)
	}
	defer userRows.Close()
	for userRows.Next() {
		var username string
		var size int64
		if err := userRows.Scan(&username, &size); err != nil {
			return StorageStats{}, fmt.Errorf("failed to scan per-user stats row: %w", err)
		}
		stats.ByUser[username] = size
	}
	if err := userRows.Err(); err != nil {
		return StorageStats{}, fmt.Errorf("error iterating per-user stats rows: %w", err)
	}

	return stats, nil
}
