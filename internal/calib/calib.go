// Package calib persists compiler outputs: fitted interface planes and
// rendered motion programs. Records feed the calibration and z-correction
// tooling that runs between fabrication jobs.
package calib

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/nanofab-data/microfab/internal/motion"
	"github.com/nanofab-data/microfab/internal/planefit"
)

// Store wraps the calibration database.
type Store struct {
	*sql.DB
}

// Open opens (creating if needed) the calibration database at path and
// ensures the baseline schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS plane_fits (
			fit_id            TEXT PRIMARY KEY,
			label             TEXT,
			slope_x           DOUBLE,
			slope_y           DOUBLE,
			z0                DOUBLE,
			mean_deviation    DOUBLE,
			max_deviation     DOUBLE,
			tilt_ratio        DOUBLE,
			polar_angle_deg   DOUBLE,
			azimuth_angle_deg DOUBLE,
			sample_count      BIGINT,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS programs (
			program_id        TEXT PRIMARY KEY,
			shape_kind        TEXT,
			frame             TEXT,
			instruction_count BIGINT,
			program_text      TEXT,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db}, nil
}

// PlaneFitRecord is one persisted plane fit.
type PlaneFitRecord struct {
	FitID     string
	Label     string
	Plane     planefit.Plane
	CreatedAt time.Time
}

// SavePlaneFit records a fitted plane under an optional label and returns
// the generated record ID.
func (s *Store) SavePlaneFit(label string, p *planefit.Plane) (string, error) {
	fitID := uuid.NewString()
	_, err := s.Exec(`
		INSERT INTO plane_fits (
			fit_id, label, slope_x, slope_y, z0,
			mean_deviation, max_deviation,
			tilt_ratio, polar_angle_deg, azimuth_angle_deg, sample_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fitID, label, p.SlopeX, p.SlopeY, p.Z0,
		p.MeanDev, p.MaxDev,
		p.TiltRatio, p.PolarDeg, p.AzimuthDeg, p.SampleCount,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert plane fit: %w", err)
	}
	return fitID, nil
}

// ListPlaneFits returns stored plane fits, newest first, up to limit
// (all when limit <= 0).
func (s *Store) ListPlaneFits(limit int) ([]PlaneFitRecord, error) {
	query := `
		SELECT fit_id, label, slope_x, slope_y, z0,
		       mean_deviation, max_deviation,
		       tilt_ratio, polar_angle_deg, azimuth_angle_deg,
		       sample_count, created_at
		FROM plane_fits ORDER BY created_at DESC, fit_id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plane fits: %w", err)
	}
	defer rows.Close()

	var records []PlaneFitRecord
	for rows.Next() {
		var r PlaneFitRecord
		if err := rows.Scan(
			&r.FitID, &r.Label, &r.Plane.SlopeX, &r.Plane.SlopeY, &r.Plane.Z0,
			&r.Plane.MeanDev, &r.Plane.MaxDev,
			&r.Plane.TiltRatio, &r.Plane.PolarDeg, &r.Plane.AzimuthDeg,
			&r.Plane.SampleCount, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan plane fit: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// LatestPlaneFit returns the most recent plane fit, or sql.ErrNoRows when
// none is stored.
func (s *Store) LatestPlaneFit() (*PlaneFitRecord, error) {
	records, err := s.ListPlaneFits(1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, sql.ErrNoRows
	}
	return &records[0], nil
}

// ProgramRecord is one persisted rendered program.
type ProgramRecord struct {
	ProgramID        string
	ShapeKind        string
	Frame            string
	InstructionCount int
	ProgramText      string
	CreatedAt        time.Time
}

// SaveProgram records a lowered program's rendered text and returns the
// generated record ID.
func (s *Store) SaveProgram(shapeKind string, p *motion.Program) (string, error) {
	programID := uuid.NewString()
	_, err := s.Exec(`
		INSERT INTO programs (program_id, shape_kind, frame, instruction_count, program_text)
		VALUES (?, ?, ?, ?, ?)`,
		programID, shapeKind, string(p.Frame()), p.Len(),
		p.Render(motion.RenderOptions{Trailer: true}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert program: %w", err)
	}
	return programID, nil
}

// GetProgram fetches a stored program by ID.
func (s *Store) GetProgram(programID string) (*ProgramRecord, error) {
	var r ProgramRecord
	err := s.QueryRow(`
		SELECT program_id, shape_kind, frame, instruction_count, program_text, created_at
		FROM programs WHERE program_id = ?`, programID).Scan(
		&r.ProgramID, &r.ShapeKind, &r.Frame, &r.InstructionCount, &r.ProgramText, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
