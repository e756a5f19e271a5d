package domain

// Fill level at or above which a pickup point joins a planning run.
const ActivationThreshold = 20

// Represents a single collection container reported by the fill-level snapshot.
// PickupPoints are created once per planning run and never mutated.
type PickupPoint struct {
	ID          string
	Coordinates Coordinates
	Fill        int
}

// Active reports whether the point's fill meets the threshold.
func (p PickupPoint) Active(threshold int) bool {
	return p.Fill >= threshold
}

// ActivePoints keeps the points whose fill meets the threshold, preserving order.
// The returned order defines node indices 1..N for the solver.
func ActivePoints(points []PickupPoint, threshold int) []PickupPoint {
	out := make([]PickupPoint, 0, len(points))
	for _, p := range points {
		if p.Active(threshold) {
			out = append(out, p)
		}
	}
	return out
}
