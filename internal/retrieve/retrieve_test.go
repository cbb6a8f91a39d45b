package retrieve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/hgvs-checker/internal/refseq"
)

const sampleJSON = `{
	"accession": "NM_000001",
	"version": 2,
	"bases": "ATGGCTTAA",
	"molType": "g",
	"description": "Homo sapiens FOO gene",
	"sourceType": "GB",
	"genes": [
		{
			"symbol": "FOO",
			"transcripts": [
				{
					"id": "001",
					"orientation": 1,
					"exons": [{"number": 1, "acceptor": 1, "donor": 9}],
					"cdsStart": 1,
					"cdsStop": 9,
					"transcribe": true,
					"translate": true
				}
			]
		}
	]
}`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "NM_000001.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0644))
	return path
}

func TestFromFile(t *testing.T) {
	path := writeSample(t)
	ref, err := FromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "NM_000001", ref.Accession)
	assert.Equal(t, 2, ref.Version)
	assert.Equal(t, "ATGGCTTAA", ref.Seq.Bases)
	assert.Equal(t, refseq.MolGenomic, ref.MolType)
	assert.Equal(t, refseq.GenBank, ref.SourceType)

	require.Len(t, ref.Genes, 1)
	gene := ref.Genes[0]
	assert.Equal(t, "FOO", gene.Symbol)

	require.Len(t, gene.Transcripts, 1)
	transcript := gene.Transcripts[0]
	assert.Equal(t, "001", transcript.ID)
	assert.Equal(t, refseq.Forward, transcript.Orientation)
	assert.True(t, transcript.IsProteinCoding())
	require.Len(t, transcript.Exons, 1)
	assert.Equal(t, 1, transcript.Exons[0].Acceptor)
	assert.Equal(t, 9, transcript.Exons[0].Donor)
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile("/nonexistent/path.json")
	require.Error(t, err)
}

func TestFromFileUnknownSourceType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"accession":"X","sourceType":"WEIRD"}`), 0644))
	_, err := FromFile(path)
	require.Error(t, err)
}
