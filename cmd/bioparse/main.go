// bioparse inspects and converts sequence and overlap files in the
// FASTA, FASTQ, MHAP and PAF formats. Inputs may be plain, gzip or
// zstd compressed.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"bioparse/internal/convert"
)

var version = "dev"

const (
	// defaultChunkBytes bounds how much input one parse call may
	// consume before handing records back.
	defaultChunkBytes = convert.DefaultChunkBytes

	writeBufferSize = 1 << 20
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "bioparse",
		Short:   "Inspect and convert FASTA, FASTQ, MHAP and PAF files",
		Version: version,
	}

	rootCmd.AddCommand(newStatCmd())
	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newHeadCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
