package seq

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bioparse/parser"
)

func TestFromFastaCopiesViews(t *testing.T) {
	t.Parallel()

	name := []byte("r1")
	data := []byte("ACGT")
	s := FromFasta(name, data)

	// Builders receive reused parser storage, so mutating the views
	// afterwards must not reach the record.
	name[0] = 'x'
	data[0] = 'x'

	assert.Equal(t, "r1", s.Name)
	assert.Equal(t, []byte("ACGT"), s.Data)
	assert.Empty(t, s.Quality)
}

func TestFromFastqCopiesViews(t *testing.T) {
	t.Parallel()

	data := []byte("ACGT")
	quality := []byte("IIII")
	s := FromFastq([]byte("r1"), data, quality)

	data[0] = 'x'
	quality[0] = 'x'

	assert.Equal(t, "r1", s.Name)
	assert.Equal(t, []byte("ACGT"), s.Data)
	assert.Equal(t, []byte("IIII"), s.Quality)
}

func TestFromMhap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		arc, brc        uint32
		wantOrientation byte
	}{
		{name: "both forward", arc: 0, brc: 0, wantOrientation: '+'},
		{name: "both reversed", arc: 1, brc: 1, wantOrientation: '+'},
		{name: "first reversed", arc: 1, brc: 0, wantOrientation: '-'},
		{name: "second reversed", arc: 0, brc: 1, wantOrientation: '-'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			o := FromMhap(parser.MhapOverlap{
				AID: 1, BID: 2, ErrorRate: 0.1, SharedMinmers: 40,
				ARC: tt.arc, ABegin: 100, AEnd: 2100, ALength: 4000,
				BRC: tt.brc, BBegin: 200, BEnd: 2200, BLength: 5000,
			})

			assert.Equal(t, &Overlap{
				AID: 0, ABegin: 100, AEnd: 2100, ALength: 4000,
				BID: 1, BBegin: 200, BEnd: 2200, BLength: 5000,
				Orientation: tt.wantOrientation,
			}, o)
		})
	}
}

func TestFromPafCopiesNames(t *testing.T) {
	t.Parallel()

	aName := []byte("read_1")
	bName := []byte("read_2")
	o := FromPaf(parser.PafOverlap{
		AName: aName, ALength: 4000, ABegin: 100, AEnd: 2100,
		Orientation: '-',
		BName: bName, BLength: 5000, BBegin: 200, BEnd: 2200,
		MatchingBases: 1800, AlignmentLength: 2000, MappingQuality: 255,
	})

	aName[0] = 'x'
	bName[0] = 'x'

	assert.Equal(t, &Overlap{
		AName: "read_1", ABegin: 100, AEnd: 2100, ALength: 4000,
		BName: "read_2", BBegin: 200, BEnd: 2200, BLength: 5000,
		Orientation: '-',
	}, o)
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpenFasta(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "in.fasta", ">r1\nACGT\nGG\n>r2\nTTAA\n")
	p, err := OpenFasta(path)
	require.NoError(t, err)
	defer p.Close()

	var got []*Sequence
	_, err = p.Parse(&got, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, &Sequence{Name: "r1", Data: []byte("ACGTGG")}, got[0])
	assert.Equal(t, &Sequence{Name: "r2", Data: []byte("TTAA")}, got[1])
}

func TestOpenFastq(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "in.fastq", "@r1\nACGT\n+\nII!I\n")
	p, err := OpenFastq(path)
	require.NoError(t, err)
	defer p.Close()

	var got []*Sequence
	_, err = p.Parse(&got, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, &Sequence{Name: "r1", Data: []byte("ACGT"), Quality: []byte("II!I")}, got[0])
}

func TestOpenMhap(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "in.mhap", "1 2 0.015 40 0 100 2100 4000 1 200 2200 5000\n")
	p, err := OpenMhap(path)
	require.NoError(t, err)
	defer p.Close()

	var got []*Overlap
	_, err = p.Parse(&got, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, &Overlap{
		AID: 0, ABegin: 100, AEnd: 2100, ALength: 4000,
		BID: 1, BBegin: 200, BEnd: 2200, BLength: 5000,
		Orientation: '-',
	}, got[0])
}

func TestOpenPaf(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "in.paf",
		"read_1\t4000\t100\t2100\t+\tread_2\t5000\t200\t2200\t1800\t2000\t255\n")
	p, err := OpenPaf(path)
	require.NoError(t, err)
	defer p.Close()

	var got []*Overlap
	_, err = p.Parse(&got, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, &Overlap{
		AName: "read_1", ABegin: 100, AEnd: 2100, ALength: 4000,
		BName: "read_2", BBegin: 200, BEnd: 2200, BLength: 5000,
		Orientation: '+',
	}, got[0])
}

func TestOpenMissingFile(t *testing.T) {
	t.Parallel()

	_, err := OpenFasta("testdata/absent.fasta")
	assert.Error(t, err)
}
