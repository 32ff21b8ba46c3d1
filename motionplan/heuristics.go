package motionplan

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/navsim/gridmap"
)

// Heuristic estimates the remaining cost between two nodes for grid search.
type Heuristic int

const (
	// Manhattan is exact on an open 4-connected grid.
	Manhattan Heuristic = iota
	// Euclidean is the straight line distance.
	Euclidean
	// Octile is the 8-connected distance with diagonal cost sqrt(2).
	Octile
	// Zero turns grid search into uniform cost search.
	Zero
)

func (h Heuristic) String() string {
	switch h {
	case Manhattan:
		return "manhattan"
	case Euclidean:
		return "euclidean"
	case Octile:
		return "octile"
	case Zero:
		return "zero"
	default:
		return "unknown"
	}
}

// ParseHeuristic maps a configured name to its heuristic. The empty string is Manhattan.
func ParseHeuristic(name string) (Heuristic, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "manhattan", "":
		return Manhattan, nil
	case "euclidean":
		return Euclidean, nil
	case "octile":
		return Octile, nil
	case "zero", "none":
		return Zero, nil
	}
	return 0, errors.Wrapf(ErrUnknownHeuristic, "%q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (h Heuristic) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Heuristic) UnmarshalText(text []byte) error {
	parsed, err := ParseHeuristic(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// Cost evaluates the heuristic between a and b.
func (h Heuristic) Cost(a, b gridmap.Node) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	switch h {
	case Manhattan:
		return dx + dy
	case Euclidean:
		return math.Hypot(dx, dy)
	case Octile:
		return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
	default:
		return 0
	}
}
