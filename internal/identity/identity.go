// Package identity holds the known-identity set and the descriptor
// classification logic used to decide whether a detected face is authorized.
package identity

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownName is the display name recorded for any face without a
// confident match.
const UnknownName = "Unknown"

// DefaultTolerance is the maximum descriptor distance for a match.
// Smaller values are stricter.
const DefaultTolerance = 0.5

// Verdict is the per-face access decision.
type Verdict string

const (
	VerdictAuthorized Verdict = "Authorized"
	VerdictIntruder   Verdict = "Intruder"
)

// KnownIdentity is one labeled reference descriptor. A person with several
// reference images appears once per image, all sharing the same display name.
type KnownIdentity struct {
	Name       string
	Descriptor []float32
}

// Classification is the decision for a single detected face.
type Classification struct {
	Name     string
	Verdict  Verdict
	Distance float64
}

// DisplayName derives a person's display name from a reference image
// filename. It strips the extension, drops an underscore-separated numeric
// or short suffix ("Alice_1" -> "Alice"), strips trailing digits
// ("Bob2" -> "Bob") and title-cases the remainder, so duplicate images of
// one person collapse to a single name.
func DisplayName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	if i := strings.LastIndex(base, "_"); i >= 0 {
		suffix := base[i+1:]
		if isDigits(suffix) || utf8.RuneCountInString(suffix) < 3 {
			base = base[:i]
		}
	}

	base = strings.TrimRight(base, "0123456789")
	base = strings.TrimSpace(base)

	return titleCase(base)
}

// titleCase title-cases every alphabetic run so separators of any kind act
// as word boundaries ("john_smith" -> "John_Smith", "mary jane" -> "Mary Jane").
func titleCase(s string) string {
	caser := cases.Title(language.Und)
	var b strings.Builder
	start := -1
	flush := func(end int) {
		if start >= 0 {
			b.WriteString(caser.String(s[start:end]))
			start = -1
		}
	}
	for i, r := range s {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
		b.WriteRune(r)
	}
	flush(len(s))
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// EuclideanDistance computes the euclidean distance between two descriptors.
// Mismatched or empty inputs yield +Inf so they can never match.
func EuclideanDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Classify matches a face descriptor against the known-identity set.
// The verdict is Authorized iff the minimum distance is strictly below the
// tolerance; ties keep the first-encountered minimum so results are
// deterministic for a fixed known-set order. An empty known set always
// yields an Intruder verdict.
func Classify(descriptor []float32, known []KnownIdentity, tolerance float64) Classification {
	best := math.Inf(1)
	bestIdx := -1

	for i := range known {
		if d := EuclideanDistance(descriptor, known[i].Descriptor); d < best {
			best = d
			bestIdx = i
		}
	}

	if bestIdx < 0 || best >= tolerance {
		return Classification{Name: UnknownName, Verdict: VerdictIntruder, Distance: best}
	}
	return Classification{Name: known[bestIdx].Name, Verdict: VerdictAuthorized, Distance: best}
}
