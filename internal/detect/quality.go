package detect

// QualityEncoding identifies a FASTQ quality score encoding.
type QualityEncoding uint8

const (
	Phred33 QualityEncoding = iota // Sanger / Illumina 1.8+ (offset 33)
	Phred64                        // Illumina 1.3-1.7 (offset 64)
)

func (e QualityEncoding) String() string {
	if e == Phred64 {
		return "phred+64"
	}
	return "phred+33"
}

// DetectQuality scans quality strings and returns the likely encoding.
// Any byte below 59 (';') settles Phred+33 immediately. A minimum of
// 64 ('@') or above means Phred+64. The ambiguous 59-63 band defaults
// to Phred+33.
func DetectQuality(qualities [][]byte) QualityEncoding {
	minByte := byte(255)

	for _, qual := range qualities {
		for _, b := range qual {
			if b < 59 {
				return Phred33
			}
			if b < minByte {
				minByte = b
			}
		}
	}

	if minByte == 255 {
		return Phred33
	}
	if minByte >= 64 {
		return Phred64
	}
	return Phred33
}
