// Package refstore caches fully assembled reference records in an
// on-disk DuckDB database, so repeated checks against the same
// accession skip re-parsing a GenBank or LRG record from scratch.
//
// Grounded directly on the teacher's internal/cache/duckdb.go
// (DuckDBLoader): the same open/schema/scan/insert shape, retargeted
// from transcript-cache-for-annotation rows to the gene/transcript/exon
// shape internal/refseq.ReferenceRecord needs.
package refstore

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/inodb/hgvs-checker/internal/refseq"
)

// Store manages a DuckDB connection caching reference records.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at path. An empty path opens
// an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("refstore: open duckdb: %w", err)
	}
	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("refstore: ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS reference_records (
			accession VARCHAR,
			version INTEGER,
			mol_type VARCHAR,
			description VARCHAR,
			source_type TINYINT,
			chrom_offset BIGINT,
			chrom_description VARCHAR,
			bases VARCHAR,
			PRIMARY KEY (accession, version)
		);
		CREATE TABLE IF NOT EXISTS genes (
			accession VARCHAR,
			version INTEGER,
			symbol VARCHAR,
			PRIMARY KEY (accession, version, symbol)
		);
		CREATE TABLE IF NOT EXISTS transcripts (
			accession VARCHAR,
			version INTEGER,
			gene_symbol VARCHAR,
			transcript_id VARCHAR,
			orientation TINYINT,
			cds_start BIGINT,
			cds_stop BIGINT,
			translation_table INTEGER,
			transcribe BOOLEAN,
			translate BOOLEAN,
			PRIMARY KEY (accession, version, gene_symbol, transcript_id)
		);
		CREATE TABLE IF NOT EXISTS exons (
			accession VARCHAR,
			version INTEGER,
			gene_symbol VARCHAR,
			transcript_id VARCHAR,
			exon_number INTEGER,
			acceptor BIGINT,
			donor BIGINT,
			PRIMARY KEY (accession, version, gene_symbol, transcript_id, exon_number)
		);
		CREATE INDEX IF NOT EXISTS idx_genes_record ON genes(accession, version);
		CREATE INDEX IF NOT EXISTS idx_transcripts_gene ON transcripts(accession, version, gene_symbol);
		CREATE INDEX IF NOT EXISTS idx_exons_transcript ON exons(accession, version, gene_symbol, transcript_id);
	`)
	return err
}

// Put inserts or replaces a reference record and its full gene/
// transcript/exon tree.
func (s *Store) Put(ref *refseq.ReferenceRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("refstore: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reference_records WHERE accession = ? AND version = ?`, ref.Accession, ref.Version); err != nil {
		return fmt.Errorf("refstore: clear record: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM genes WHERE accession = ? AND version = ?`, ref.Accession, ref.Version); err != nil {
		return fmt.Errorf("refstore: clear genes: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM transcripts WHERE accession = ? AND version = ?`, ref.Accession, ref.Version); err != nil {
		return fmt.Errorf("refstore: clear transcripts: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM exons WHERE accession = ? AND version = ?`, ref.Accession, ref.Version); err != nil {
		return fmt.Errorf("refstore: clear exons: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO reference_records (accession, version, mol_type, description, source_type, chrom_offset, chrom_description, bases)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, ref.Accession, ref.Version, string(ref.MolType), ref.Description, int(ref.SourceType), ref.ChromOffset, ref.ChromDescription, ref.Seq.Bases)
	if err != nil {
		return fmt.Errorf("refstore: insert record: %w", err)
	}

	for _, g := range ref.Genes {
		if _, err := tx.Exec(`INSERT INTO genes (accession, version, symbol) VALUES (?, ?, ?)`, ref.Accession, ref.Version, g.Symbol); err != nil {
			return fmt.Errorf("refstore: insert gene %q: %w", g.Symbol, err)
		}
		for _, t := range g.Transcripts {
			_, err := tx.Exec(`
				INSERT INTO transcripts (accession, version, gene_symbol, transcript_id, orientation, cds_start, cds_stop, translation_table, transcribe, translate)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, ref.Accession, ref.Version, g.Symbol, t.ID, int(t.Orientation), t.CDS.Start, t.CDS.Stop, t.TranslationTable, t.Transcribe, t.Translate)
			if err != nil {
				return fmt.Errorf("refstore: insert transcript %q: %w", t.ID, err)
			}
			for _, e := range t.Exons {
				_, err := tx.Exec(`
					INSERT INTO exons (accession, version, gene_symbol, transcript_id, exon_number, acceptor, donor)
					VALUES (?, ?, ?, ?, ?, ?, ?)
				`, ref.Accession, ref.Version, g.Symbol, t.ID, e.Number, e.Acceptor, e.Donor)
				if err != nil {
					return fmt.Errorf("refstore: insert exon %d of %q: %w", e.Number, t.ID, err)
				}
			}
		}
	}

	return tx.Commit()
}

// Get looks up a reference record by accession and version, rebuilding
// its full gene/transcript/exon tree. ok is false when nothing matched.
func (s *Store) Get(accession string, version int) (ref *refseq.ReferenceRecord, ok bool, err error) {
	row := s.db.QueryRow(`
		SELECT mol_type, description, source_type, chrom_offset, chrom_description, bases
		FROM reference_records WHERE accession = ? AND version = ?
	`, accession, version)

	ref = &refseq.ReferenceRecord{Accession: accession, Version: version}
	var molType string
	var sourceType int
	err = row.Scan(&molType, &ref.Description, &sourceType, &ref.ChromOffset, &ref.ChromDescription, &ref.Seq.Bases)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("refstore: scan record: %w", err)
	}
	ref.MolType = refseq.MolType(molType)
	ref.SourceType = refseq.SourceType(sourceType)
	ref.Seq.Accession = accession
	ref.Seq.Version = version

	geneRows, err := s.db.Query(`SELECT symbol FROM genes WHERE accession = ? AND version = ? ORDER BY symbol`, accession, version)
	if err != nil {
		return nil, false, fmt.Errorf("refstore: query genes: %w", err)
	}
	defer geneRows.Close()

	for geneRows.Next() {
		var symbol string
		if err := geneRows.Scan(&symbol); err != nil {
			return nil, false, fmt.Errorf("refstore: scan gene: %w", err)
		}
		gene := &refseq.Gene{Symbol: symbol}
		if err := s.loadTranscripts(accession, version, gene); err != nil {
			return nil, false, err
		}
		ref.Genes = append(ref.Genes, gene)
	}
	if err := geneRows.Err(); err != nil {
		return nil, false, err
	}

	return ref, true, nil
}

func (s *Store) loadTranscripts(accession string, version int, gene *refseq.Gene) error {
	rows, err := s.db.Query(`
		SELECT transcript_id, orientation, cds_start, cds_stop, translation_table, transcribe, translate
		FROM transcripts WHERE accession = ? AND version = ? AND gene_symbol = ?
		ORDER BY transcript_id
	`, accession, version, gene.Symbol)
	if err != nil {
		return fmt.Errorf("refstore: query transcripts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t := &refseq.Transcript{GeneSymbol: gene.Symbol}
		var orientation int
		if err := rows.Scan(&t.ID, &orientation, &t.CDS.Start, &t.CDS.Stop, &t.TranslationTable, &t.Transcribe, &t.Translate); err != nil {
			return fmt.Errorf("refstore: scan transcript: %w", err)
		}
		t.Orientation = refseq.Orientation(orientation)
		if err := s.loadExons(accession, version, gene.Symbol, t); err != nil {
			return err
		}
		gene.Transcripts = append(gene.Transcripts, t)
	}
	return rows.Err()
}

func (s *Store) loadExons(accession string, version int, geneSymbol string, t *refseq.Transcript) error {
	rows, err := s.db.Query(`
		SELECT exon_number, acceptor, donor FROM exons
		WHERE accession = ? AND version = ? AND gene_symbol = ? AND transcript_id = ?
		ORDER BY exon_number
	`, accession, version, geneSymbol, t.ID)
	if err != nil {
		return fmt.Errorf("refstore: query exons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e refseq.Exon
		if err := rows.Scan(&e.Number, &e.Acceptor, &e.Donor); err != nil {
			return fmt.Errorf("refstore: scan exon: %w", err)
		}
		t.Exons = append(t.Exons, e)
	}
	return rows.Err()
}

// RecordCount returns the number of cached reference records.
func (s *Store) RecordCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM reference_records`).Scan(&n)
	return n, err
}
