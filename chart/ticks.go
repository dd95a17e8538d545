// ABOUTME: Compactified axis ticks for the z-plane: origin is ±∞, the outer edge is ±δ.
// ABOUTME: Produces 2k+1 evenly spaced positions over [-R, R] with their one-point-compactification labels.
package chart

import (
	"math"
	"strconv"
)

// TickCount is the number of ticks on each side of the origin.
const TickCount = 5

// Tick is one axis tick position with its label.
type Tick struct {
	Value float64
	Label string
}

// CompactTicks returns 2k+1 ticks evenly spaced over [-R, R], including 0.
// Positions are computed as (i-k)·step so the set is exactly symmetric about 0.
// A non-positive or non-finite R, or k < 1, yields nil.
func CompactTicks(r float64, k int) []Tick {
	if k < 1 || !(r > 0) || math.IsInf(r, 0) {
		return nil
	}
	step := r / float64(k)
	ticks := make([]Tick, 0, 2*k+1)
	for i := 0; i <= 2*k; i++ {
		v := float64(i-k) * step
		ticks = append(ticks, Tick{Value: v, Label: TickLabel(v, r, k)})
	}
	return ticks
}

// TickLabel labels position v on a compactified axis of bound r with k ticks per side.
//
// Ticks in the inner half count down from infinity (∞-1, ∞-2, ...); ticks in the outer
// half carry a bare numeral, unsigned on both sides of the axis, and the extreme ticks
// are ±δ.
func TickLabel(v, r float64, k int) string {
	if math.Abs(v) < 0.001 {
		return "±∞"
	}
	fraction := math.Abs(v) / r

	if fraction < 0.5 {
		n := max(1, int(math.Round(fraction*float64(k))))
		if v < 0 {
			return "-∞+" + strconv.Itoa(n)
		}
		return "∞-" + strconv.Itoa(n)
	}

	if fraction > 0.95 {
		if v < 0 {
			return "-δ"
		}
		return "+δ"
	}
	n := int(math.Round((1 - fraction) * float64(k)))
	return strconv.Itoa(n)
}

// splitTicks separates tick positions and labels for an axis descriptor.
func splitTicks(ticks []Tick) ([]float64, []string) {
	vals := make([]float64, len(ticks))
	text := make([]string, len(ticks))
	for i, t := range ticks {
		vals[i] = t.Value
		text[i] = t.Label
	}
	return vals, text
}
