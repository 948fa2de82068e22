package constants

import "os"

func GetDBPath() string {
	path := os.Getenv("TABGENIUS_DB")
	if path != "" {
		return path
	}
	return "./tabgenius.db"
}

func GetListenAddr() string {
	addr := os.Getenv("LISTEN_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

// GetArchiveBucket returns the S3 bucket exported tabs are copied to, or ""
// when archiving is disabled.
func GetArchiveBucket() string {
	return os.Getenv("ARCHIVE_BUCKET")
}

func GetAubioBin() string {
	bin := os.Getenv("AUBIO_BIN")
	if bin != "" {
		return bin
	}
	return "aubio"
}

// Extended guitar range used to filter detected pitches.
const (
	MinGuitarPitch = 40
	MaxGuitarPitch = 84
)

// Per-source caps keep tabs readable.
const (
	MaxMidiNotes  = 30
	MaxAudioNotes = 25
)

const (
	TierFree      = "free"
	TierOne       = "tier1"
	TierUnlimited = "unlimited"
)

// MonthlyLimit returns the generation quota for a tier. A negative limit
// means unlimited; an unknown tier gets no quota at all.
func MonthlyLimit(tier string) int {
	switch tier {
	case TierFree:
		return 100
	case TierOne:
		return 500
	case TierUnlimited:
		return -1
	default:
		return 0
	}
}
