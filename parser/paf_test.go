package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPafParseWhole(t *testing.T) {
	t.Parallel()

	stream, want := samplePaf()
	p := NewPaf(bytes.NewReader(stream), newPafRecord)

	var got []pafRecord
	more, err := p.Parse(&got, 0)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Len(t, got, 500)
	assert.Equal(t, want, got)
}

func TestPafChunkedMatchesWhole(t *testing.T) {
	t.Parallel()

	sample, wantOne := samplePaf()
	var stream []byte
	var want []pafRecord
	for len(stream) < 3*bufferSize {
		stream = append(stream, sample...)
		want = append(want, wantOne...)
	}

	whole := parseAll(t, NewPaf(bytes.NewReader(stream), newPafRecord), 0)
	require.Equal(t, want, whole)

	chunked := parseAll(t, NewPaf(bytes.NewReader(stream), newPafRecord), bufferSize)
	assert.Equal(t, want, chunked)
}

func TestPafEdgeCases(t *testing.T) {
	t.Parallel()

	want := pafRecord{
		aName: "read_1",
		bName: "read_2",
		o: PafOverlap{
			ALength: 4000, ABegin: 100, AEnd: 2100, Orientation: '+',
			BLength: 5000, BBegin: 200, BEnd: 2200,
			MatchingBases: 1800, AlignmentLength: 2000, MappingQuality: 255,
		},
	}

	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "plain line",
			input: "read_1\t4000\t100\t2100\t+\tread_2\t5000\t200\t2200\t1800\t2000\t255\n",
		},
		{
			name:  "no newline at end of stream",
			input: "read_1\t4000\t100\t2100\t+\tread_2\t5000\t200\t2200\t1800\t2000\t255",
		},
		{
			name:  "carriage return trimmed",
			input: "read_1\t4000\t100\t2100\t+\tread_2\t5000\t200\t2200\t1800\t2000\t255\r\n",
		},
		{
			name:  "trailing name whitespace trimmed",
			input: "read_1 \t4000\t100\t2100\t+\tread_2  \t5000\t200\t2200\t1800\t2000\t255\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewPaf(strings.NewReader(tt.input), newPafRecord)
			var got []pafRecord
			more, err := p.Parse(&got, 0)
			require.NoError(t, err)
			assert.False(t, more)
			require.Len(t, got, 1)
			assert.Equal(t, want, got[0])
		})
	}
}

func TestPafReverseOrientation(t *testing.T) {
	t.Parallel()

	input := "read_1\t4000\t100\t2100\t-\tread_2\t5000\t200\t2200\t1800\t2000\t255\n"
	p := NewPaf(strings.NewReader(input), newPafRecord)

	var got []pafRecord
	_, err := p.Parse(&got, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, byte('-'), got[0].o.Orientation)
}

func TestPafNamesCappedAtStorageSize(t *testing.T) {
	t.Parallel()

	longName := strings.Repeat("n", 2*smallStorage)
	input := longName + "\t4000\t100\t2100\t+\tread_2\t5000\t200\t2200\t1800\t2000\t255\n"
	p := NewPaf(strings.NewReader(input), newPafRecord)

	var got []pafRecord
	_, err := p.Parse(&got, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, longName[:smallStorage], got[0].aName)
	assert.Equal(t, "read_2", got[0].bName)
}

func TestPafInvalidFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "eleven fields", input: "read_1\t4000\t100\t2100\t+\tread_2\t5000\t200\t2200\t1800\t2000\n"},
		{name: "thirteen fields", input: "read_1\t4000\t100\t2100\t+\tread_2\t5000\t200\t2200\t1800\t2000\t255\tcm:i:7\n"},
		{name: "empty first name", input: "\t4000\t100\t2100\t+\tread_2\t5000\t200\t2200\t1800\t2000\t255\n"},
		{name: "empty second name", input: "read_1\t4000\t100\t2100\t+\t \t5000\t200\t2200\t1800\t2000\t255\n"},
		{name: "empty orientation", input: "read_1\t4000\t100\t2100\t\tread_2\t5000\t200\t2200\t1800\t2000\t255\n"},
		{name: "length not numeric", input: "read_1\tna\t100\t2100\t+\tread_2\t5000\t200\t2200\t1800\t2000\t255\n"},
		{name: "blank line between records", input: "read_1\t4000\t100\t2100\t+\tread_2\t5000\t200\t2200\t1800\t2000\t255\n\n"},
		{name: "space separated line", input: "read_1 4000 100 2100 + read_2 5000 200 2200 1800 2000 255\n"},
		{name: "numeric overlap stream", input: "1 2 0.015 40 0 100 2100 4000 1 200 2200 5000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewPaf(strings.NewReader(tt.input), newPafRecord)
			var got []pafRecord
			_, err := p.Parse(&got, 0)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestPafStorageGrowthMidLine(t *testing.T) {
	t.Parallel()

	input := "a_very_long_template_name\t4000\t100\t2100\t+\tanother_long_name\t5000\t200\t2200\t1800\t2000\t255\n" +
		"read_1\t4000\t100\t2100\t+\tread_2\t5000\t200\t2200\t1800\t2000\t255\n"

	p := NewPaf(strings.NewReader(input), newPafRecord).(*pafParser[pafRecord])
	p.st = newStorage([]int{16, 64, 256})

	var got []pafRecord
	more, err := p.Parse(&got, 0)
	require.NoError(t, err)
	assert.False(t, more)
	require.Len(t, got, 2)
	assert.Equal(t, "a_very_long_template_name", got[0].aName)
	assert.Equal(t, "another_long_name", got[0].bName)
	assert.Equal(t, "read_1", got[1].aName)
}

func TestPafStorageExhaustion(t *testing.T) {
	t.Parallel()

	input := strings.Repeat("n", 300) + "\t4000\t100\t2100\t+\tread_2\t5000\t200\t2200\t1800\t2000\t255\n"
	p := NewPaf(strings.NewReader(input), newPafRecord).(*pafParser[pafRecord])
	p.st = newStorage([]int{16, 64})

	var got []pafRecord
	_, err := p.Parse(&got, 0)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Empty(t, got)
}

func BenchmarkPafParse(b *testing.B) {
	stream, _ := samplePaf()
	var buf bytes.Buffer
	for i := 0; i < 30; i++ {
		buf.Write(stream)
	}
	input := buf.Bytes()

	b.ResetTimer()
	b.SetBytes(int64(len(input)))

	for i := 0; i < b.N; i++ {
		p := NewPaf(bytes.NewReader(input), func(o PafOverlap) uint32 { return o.ALength })
		var got []uint32
		if _, err := p.Parse(&got, 0); err != nil {
			b.Fatal(err)
		}
	}
}
