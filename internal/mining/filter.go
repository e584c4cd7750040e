package mining

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Threshold is a minimum-support cutoff, either a fraction of the database
// or an absolute transaction count.
type Threshold struct {
	value    float64
	absolute bool
}

// SupportFraction returns a threshold on support, valid in [0, 1].
func SupportFraction(f float64) Threshold {
	return Threshold{value: f}
}

// SupportCount returns a threshold on the raw transaction count.
func SupportCount(n int) Threshold {
	return Threshold{value: float64(n), absolute: true}
}

// IsCount reports whether the threshold is an absolute count.
func (t Threshold) IsCount() bool {
	return t.absolute
}

// Value returns the fraction, or the count as a float64.
func (t Threshold) Value() float64 {
	return t.value
}

// Validate rejects negative and non-finite thresholds and fractions above 1.
func (t Threshold) Validate() error {
	if math.IsNaN(t.value) || math.IsInf(t.value, 0) {
		return fmt.Errorf("%w: min support must be a finite number", ErrInvalidParameter)
	}
	if t.value < 0 {
		return fmt.Errorf("%w: min support %s is negative", ErrInvalidParameter, t)
	}
	if !t.absolute && t.value > 1 {
		return fmt.Errorf("%w: min support fraction %s exceeds 1.0", ErrInvalidParameter, t)
	}
	return nil
}

// Admits reports whether an itemset seen in count of total transactions
// meets the threshold. The comparison is inclusive. An itemset that never
// occurs is never admitted, so a zero threshold admits every observed itemset
// and nothing else.
func (t Threshold) Admits(count, total int) bool {
	if count <= 0 || total <= 0 {
		return false
	}
	if t.absolute {
		return float64(count) >= t.value
	}
	return float64(count)/float64(total) >= t.value
}

// String formats a count as an integer and a fraction with a decimal point,
// so "1" and "1.0" round-trip to different thresholds.
func (t Threshold) String() string {
	if t.absolute {
		return strconv.FormatInt(int64(t.value), 10)
	}
	s := strconv.FormatFloat(t.value, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEN") {
		s += ".0"
	}
	return s
}

// ValidateConfidence rejects a minimum confidence outside [0, 1].
func ValidateConfidence(c float64) error {
	if math.IsNaN(c) || c < 0 || c > 1 {
		return fmt.Errorf("%w: min confidence %v must be between 0 and 1", ErrInvalidParameter, c)
	}
	return nil
}

// FilterFrequent keeps the entries of record that meet minSupport, preserving their
// order. A nil record yields an empty one.
func FilterFrequent(record *SupportRecord, minSupport Threshold) (*SupportRecord, error) {
	if err := minSupport.Validate(); err != nil {
		return nil, err
	}
	if record == nil {
		return newSupportRecord(0, nil), nil
	}

	kept := make([]ItemsetSupport, 0)
	for _, e := range record.entries {
		if minSupport.Admits(e.Count, record.transactions) {
			kept = append(kept, e)
		}
	}
	return newSupportRecord(record.transactions, kept), nil
}

// ParseThreshold reads a minimum support. An integer literal of at least 1
// with no decimal point is an absolute count, so "3" means three
// transactions while "1.0" means every transaction. Anything else must parse
// as a fraction.
func ParseThreshold(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("%w: empty min support", ErrInvalidParameter)
	}

	if !strings.ContainsAny(s, ".eE") {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			t := SupportCount(n)
			return t, t.Validate()
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("%w: min support %q is not a number", ErrInvalidParameter, s)
	}
	t := SupportFraction(f)
	if err := t.Validate(); err != nil {
		return Threshold{}, err
	}
	return t, nil
}
