// Package sqlite provides SQLite database writing for cross-link search results
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
)

const (
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"
	// Schema version written to HeaderTable
	schemaVersion = 1
)

// Writer handles writing search results to SQLite database files.
// All rows are written in one transaction committed by Finalize.
type Writer struct {
	db         *sql.DB
	tx         *sql.Tx
	outputPath string
	settings   core.Settings

	crossLinkStmt *sql.Stmt
	featureStmt   *sql.Stmt
	resultStmt    *sql.Stmt
	massShiftStmt *sql.Stmt

	crossLinkIDs map[*core.CrossLink]int
	featureIDs   map[int]bool
	resultID     int
	finalized    bool
}

// NewWriter creates a new SQLite writer. An existing database at outputPath
// is replaced.
func NewWriter(outputPath string, settings core.Settings) (*Writer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	if err := os.Remove(outputPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to replace database: %w", err)
	}

	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:           db,
		outputPath:   outputPath,
		settings:     settings,
		crossLinkIDs: make(map[*core.CrossLink]int),
		featureIDs:   make(map[int]bool),
		resultID:     1,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	w.tx, err = db.Begin()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := w.prepareStatements(); err != nil {
		w.tx.Rollback()
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS CrossLinkTable (
		CrossLinkId INTEGER PRIMARY KEY,
		Protein TEXT,
		Pep1 TEXT,
		Pep2 TEXT,
		ModType TEXT,
		TheoreticalMass DOUBLE,
		MassShiftPep1 DOUBLE,
		MassShiftPep2 DOUBLE
	);

	CREATE TABLE IF NOT EXISTS FeatureTable (
		FeatureId INTEGER PRIMARY KEY,
		MonoisotopicMass DOUBLE,
		MonoisotopicMz DOUBLE,
		ChargeState INTEGER,
		ScanLcStart INTEGER,
		ScanLcEnd INTEGER,
		ScanLcRep INTEGER,
		ImsScan INTEGER,
		DriftTime DOUBLE,
		Abundance DOUBLE
	);

	CREATE TABLE IF NOT EXISTS ResultTable (
		ResultId INTEGER PRIMARY KEY,
		CrossLinkId INTEGER REFERENCES CrossLinkTable(CrossLinkId),
		FeatureId INTEGER REFERENCES FeatureTable(FeatureId),
		ScanLc INTEGER,
		PPMError DOUBLE,
		ShiftsFound INTEGER
	);

	CREATE TABLE IF NOT EXISTS MassShiftTable (
		ResultId INTEGER REFERENCES ResultTable(ResultId),
		Position INTEGER,
		ShiftedMass DOUBLE,
		ShiftedMz DOUBLE,
		Found BOOL,
		Retried BOOL
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		CreationDate TEXT,
		Settings TEXT,
		Description TEXT
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.crossLinkStmt, err = w.tx.Prepare(`
		INSERT INTO CrossLinkTable (
			CrossLinkId, Protein, Pep1, Pep2, ModType, TheoreticalMass, MassShiftPep1, MassShiftPep2
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare cross-link statement: %w", err)
	}

	w.featureStmt, err = w.tx.Prepare(`
		INSERT OR IGNORE INTO FeatureTable (
			FeatureId, MonoisotopicMass, MonoisotopicMz, ChargeState, ScanLcStart,
			ScanLcEnd, ScanLcRep, ImsScan, DriftTime, Abundance
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare feature statement: %w", err)
	}

	w.resultStmt, err = w.tx.Prepare(`
		INSERT INTO ResultTable (
			ResultId, CrossLinkId, FeatureId, ScanLc, PPMError, ShiftsFound
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare result statement: %w", err)
	}

	w.massShiftStmt, err = w.tx.Prepare(`
		INSERT INTO MassShiftTable (
			ResultId, Position, ShiftedMass, ShiftedMz, Found, Retried
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare mass shift statement: %w", err)
	}

	return nil
}

// WriteCrossLink writes a cross-link once and returns its row id
func (w *Writer) WriteCrossLink(c *core.CrossLink) (int, error) {
	if id, ok := w.crossLinkIDs[c]; ok {
		return id, nil
	}
	id := len(w.crossLinkIDs) + 1

	// Missing second peptide and shifts are stored as NULL
	var pep2, shift1, shift2 interface{}
	if c.PeptideTwo != nil {
		pep2 = c.PeptideTwo.Sequence
	}
	if len(c.MassShiftList) > 0 {
		shift1 = c.MassShiftList[0]
	}
	if len(c.MassShiftList) > 1 {
		shift2 = c.MassShiftList[1]
	}

	_, err := w.crossLinkStmt.Exec(
		id,                    // CrossLinkId
		c.ProteinID,           // Protein
		c.PeptideOne.Sequence, // Pep1
		pep2,                  // Pep2
		c.ModType.String(),    // ModType
		c.Mass,                // TheoreticalMass
		shift1,                // MassShiftPep1
		shift2,                // MassShiftPep2
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert cross-link: %w", err)
	}

	w.crossLinkIDs[c] = id
	return id, nil
}

// writeFeature writes a feature the first time its id is seen
func (w *Writer) writeFeature(f *core.Feature) error {
	if w.featureIDs[f.ID] {
		return nil
	}

	_, err := w.featureStmt.Exec(
		f.ID,               // FeatureId
		f.MassMonoisotopic, // MonoisotopicMass
		f.MzMonoisotopic(), // MonoisotopicMz
		f.Charge,           // ChargeState
		f.ScanLcStart,      // ScanLcStart
		f.ScanLcEnd,        // ScanLcEnd
		f.ScanLcRep,        // ScanLcRep
		f.ScanImsRep,       // ImsScan
		f.DriftTime,        // DriftTime
		f.Abundance,        // Abundance
	)
	if err != nil {
		return fmt.Errorf("failed to insert feature %d: %w", f.ID, err)
	}

	w.featureIDs[f.ID] = true
	return nil
}

// WriteResult writes a single result with its cross-link, feature and mass shifts
func (w *Writer) WriteResult(r *core.CrossLinkResult) error {
	crossLinkID, err := w.WriteCrossLink(r.CrossLink)
	if err != nil {
		return err
	}
	if err := w.writeFeature(r.Feature); err != nil {
		return err
	}

	_, err = w.resultStmt.Exec(
		w.resultID,                // ResultId
		crossLinkID,               // CrossLinkId
		r.Feature.ID,              // FeatureId
		r.ScanLc,                  // ScanLc
		r.PPMError(),              // PPMError
		r.MassShifts.FoundCount(), // ShiftsFound
	)
	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}

	for i, s := range r.MassShifts.Shifts {
		_, err := w.massShiftStmt.Exec(w.resultID, i, s.Mass, r.ShiftedMz(s.Mass), s.Found, s.Retried)
		if err != nil {
			return fmt.Errorf("failed to insert mass shift: %w", err)
		}
	}

	w.resultID++
	return nil
}

// WriteResults writes every result
func (w *Writer) WriteResults(results []*core.CrossLinkResult) error {
	for _, r := range results {
		if err := w.WriteResult(r); err != nil {
			return err
		}
	}
	return nil
}

// Finalize writes the header table, commits and closes the database
func (w *Writer) Finalize() error {
	if w.finalized {
		return nil
	}
	w.finalized = true

	settings, err := json.Marshal(w.settings)
	if err != nil {
		w.abort()
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	// Write HeaderTable
	_, err = w.tx.Exec(`
		INSERT INTO HeaderTable (version, CreationDate, Settings, Description)
		VALUES (?, ?, ?, ?)
	`, schemaVersion, time.Now().Format(headerDateFormat), string(settings), w.settings.DigestRule.Describe())
	if err != nil {
		w.abort()
		return fmt.Errorf("failed to insert header: %w", err)
	}

	w.closeStatements()

	if err := w.tx.Commit(); err != nil {
		w.db.Close()
		return fmt.Errorf("failed to commit results: %w", err)
	}

	// Close database
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close discards uncommitted rows and closes the database. It is a no-op after Finalize.
func (w *Writer) Close() error {
	if w.finalized {
		return nil
	}
	w.finalized = true
	w.abort()
	return nil
}

// abort rolls back everything written and closes the database
func (w *Writer) abort() {
	w.closeStatements()
	w.tx.Rollback()
	w.db.Close()
}

func (w *Writer) closeStatements() {
	for _, stmt := range []*sql.Stmt{w.crossLinkStmt, w.featureStmt, w.resultStmt, w.massShiftStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
}
