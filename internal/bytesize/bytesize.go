package bytesize

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is a byte count settable from a command-line flag.
// Zero means no limit.
type Size int64

func (s *Size) String() string {
	if *s == 0 {
		return "off"
	}
	return Format(int64(*s))
}

func (s *Size) Set(v string) error {
	n, err := Parse(v)
	if err != nil {
		return err
	}
	*s = Size(n)
	return nil
}

func (s *Size) Type() string {
	return "size"
}

// Exceeds reports whether n is over the limit. A zero limit is never exceeded.
func (s Size) Exceeds(n int64) bool {
	return s > 0 && n > int64(s)
}

// Format formats bytes as a human-readable string using IEC binary units.
//
// NOTE: This is for diagnostics only. Machine-read values stay raw integers.
func Format(bytes int64) string {
	const (
		KiB = 1024
		MiB = KiB * 1024
		GiB = MiB * 1024
	)

	switch {
	case bytes >= GiB:
		return fmt.Sprintf("%.2fGiB", float64(bytes)/GiB)
	case bytes >= MiB:
		return fmt.Sprintf("%.2fMiB", float64(bytes)/MiB)
	case bytes >= KiB:
		return fmt.Sprintf("%.2fKiB", float64(bytes)/KiB)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

// Parse parses a byte size string with optional suffix.
//
// Supported suffixes:
//   - Decimal (1000-based): KB, MB, GB, TB
//   - Binary (1024-based): KiB, MiB, GiB, TiB (also Ki, Mi, Gi, Ti and K, M, G, T)
//   - No suffix or "B": raw bytes
//   - "off": returns (0, nil), meaning no limit
//
// Only integer values are accepted.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}

	if strings.EqualFold(s, "off") {
		return 0, nil
	}

	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9') {
		i++
	}

	if i == 0 {
		return 0, fmt.Errorf("no numeric value found in %q", s)
	}

	if i < len(s) && s[i] == '.' {
		return 0, fmt.Errorf("decimal values not supported in %q; use integer bytes", s)
	}

	num, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number in %q: %w", s, err)
	}

	suffix := strings.TrimSpace(s[i:])

	var multiplier int64
	switch strings.ToUpper(suffix) {
	case "", "B":
		multiplier = 1
	case "KB":
		multiplier = 1000
	case "MB":
		multiplier = 1000 * 1000
	case "GB":
		multiplier = 1000 * 1000 * 1000
	case "TB":
		multiplier = 1000 * 1000 * 1000 * 1000
	case "KIB", "KI", "K":
		multiplier = 1024
	case "MIB", "MI", "M":
		multiplier = 1024 * 1024
	case "GIB", "GI", "G":
		multiplier = 1024 * 1024 * 1024
	case "TIB", "TI", "T":
		multiplier = 1024 * 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown suffix %q in %q", suffix, s)
	}

	if num > 0 && multiplier > 1 && num > (1<<63-1)/multiplier {
		return 0, fmt.Errorf("value %q too large: would overflow int64", s)
	}

	return num * multiplier, nil
}
