// Package sqlite persists run output: the normalized-record table and the
// anomaly list, one row per input record and one row per detected issue.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"invnorm/internal/domain"
)

// Repository stores normalization runs in SQLite.
type Repository struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and applies the schema.
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		records INTEGER NOT NULL,
		anomalies INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS records (
		run_id TEXT NOT NULL,
		source_row_id TEXT NOT NULL,
		ip TEXT NOT NULL DEFAULT '',
		ip_valid INTEGER NOT NULL DEFAULT 0,
		ip_version TEXT NOT NULL DEFAULT '',
		subnet_cidr TEXT NOT NULL DEFAULT '',
		reverse_ptr TEXT NOT NULL DEFAULT '',
		mac TEXT NOT NULL DEFAULT '',
		mac_valid INTEGER NOT NULL DEFAULT 0,
		hostname TEXT NOT NULL DEFAULT '',
		hostname_valid INTEGER NOT NULL DEFAULT 0,
		fqdn TEXT NOT NULL DEFAULT '',
		fqdn_consistent INTEGER NOT NULL DEFAULT 0,
		owner TEXT NOT NULL DEFAULT '',
		owner_email TEXT NOT NULL DEFAULT '',
		owner_team TEXT NOT NULL DEFAULT '',
		device_type TEXT NOT NULL DEFAULT '',
		device_type_confidence TEXT NOT NULL DEFAULT '',
		site TEXT NOT NULL DEFAULT '',
		site_normalized TEXT NOT NULL DEFAULT '',
		normalization_steps JSON NOT NULL DEFAULT '[]',
		PRIMARY KEY (run_id, source_row_id),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS anomalies (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		record_id TEXT NOT NULL,
		field TEXT NOT NULL,
		kind TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		recommended_action TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id);
	CREATE INDEX IF NOT EXISTS idx_anomalies_run ON anomalies(run_id);
	CREATE INDEX IF NOT EXISTS idx_anomalies_kind ON anomalies(kind);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveRun persists one complete run in a single transaction.
func (r *Repository) SaveRun(ctx context.Context, runID string, records []domain.NormalizedRecord, anomalies []domain.Anomaly) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, records, anomalies, created_at) VALUES (?, ?, ?, ?)
	`, runID, len(records), len(anomalies), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	recStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (
			run_id, source_row_id,
			ip, ip_valid, ip_version, subnet_cidr, reverse_ptr,
			mac, mac_valid,
			hostname, hostname_valid, fqdn, fqdn_consistent,
			owner, owner_email, owner_team,
			device_type, device_type_confidence,
			site, site_normalized, normalization_steps
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare record statement: %w", err)
	}
	defer recStmt.Close()

	for i, rec := range records {
		steps, err := json.Marshal(rec.Steps)
		if err != nil {
			return fmt.Errorf("failed to marshal steps for %s: %w", rec.SourceRowID, err)
		}

		rowID := rec.SourceRowID
		if domain.Missing(rowID) {
			rowID = fmt.Sprintf("row:%d", i+1)
		}

		if _, err := recStmt.ExecContext(ctx,
			runID, rowID,
			rec.IP, boolToInt(rec.IPValid), string(rec.IPVersion), rec.SubnetCIDR, rec.ReversePTR,
			rec.MAC, boolToInt(rec.MACValid),
			rec.Hostname, boolToInt(rec.HostnameValid), rec.FQDN, boolToInt(rec.FQDNConsistent),
			rec.Owner, rec.OwnerEmail, rec.OwnerTeam,
			rec.DeviceType, string(rec.DeviceTypeConfidence),
			rec.Site, rec.SiteNormalized, steps,
		); err != nil {
			return fmt.Errorf("failed to insert record %s: %w", rowID, err)
		}
	}

	anomStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO anomalies (id, run_id, record_id, field, kind, detail, recommended_action)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare anomaly statement: %w", err)
	}
	defer anomStmt.Close()

	for _, a := range anomalies {
		if _, err := anomStmt.ExecContext(ctx,
			a.ID, runID, a.RecordID, a.Field, string(a.Kind), a.Detail, a.RecommendedAction,
		); err != nil {
			return fmt.Errorf("failed to insert anomaly %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetRecord loads one normalized record from a run.
func (r *Repository) GetRecord(ctx context.Context, runID, sourceRowID string) (*domain.NormalizedRecord, error) {
	var (
		rec        domain.NormalizedRecord
		ipValid    int
		macValid   int
		hostValid  int
		fqdnCons   int
		version    string
		confidence string
		steps      []byte
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT source_row_id, ip, ip_valid, ip_version, subnet_cidr, reverse_ptr,
			mac, mac_valid, hostname, hostname_valid, fqdn, fqdn_consistent,
			owner, owner_email, owner_team, device_type, device_type_confidence,
			site, site_normalized, normalization_steps
		FROM records WHERE run_id = ? AND source_row_id = ?
	`, runID, sourceRowID).Scan(
		&rec.SourceRowID, &rec.IP, &ipValid, &version, &rec.SubnetCIDR, &rec.ReversePTR,
		&rec.MAC, &macValid, &rec.Hostname, &hostValid, &rec.FQDN, &fqdnCons,
		&rec.Owner, &rec.OwnerEmail, &rec.OwnerTeam, &rec.DeviceType, &confidence,
		&rec.Site, &rec.SiteNormalized, &steps,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	rec.IPValid = ipValid != 0
	rec.MACValid = macValid != 0
	rec.HostnameValid = hostValid != 0
	rec.FQDNConsistent = fqdnCons != 0
	rec.IPVersion = domain.IPVersion(version)
	rec.DeviceTypeConfidence = domain.Confidence(confidence)

	if err := json.Unmarshal(steps, &rec.Steps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal steps: %w", err)
	}

	return &rec, nil
}

// ListAnomalies returns a run's anomalies, optionally filtered by kind.
func (r *Repository) ListAnomalies(ctx context.Context, runID string, kind domain.AnomalyKind) ([]domain.Anomaly, error) {
	query := `
		SELECT id, record_id, field, kind, detail, recommended_action
		FROM anomalies WHERE run_id = ?
	`
	args := []interface{}{runID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(kind))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query anomalies: %w", err)
	}
	defer rows.Close()

	var out []domain.Anomaly
	for rows.Next() {
		var a domain.Anomaly
		var k string
		if err := rows.Scan(&a.ID, &a.RecordID, &a.Field, &k, &a.Detail, &a.RecommendedAction); err != nil {
			return nil, fmt.Errorf("failed to scan anomaly: %w", err)
		}
		a.Kind = domain.AnomalyKind(k)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating anomalies: %w", err)
	}

	return out, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
