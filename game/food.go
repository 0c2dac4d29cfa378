// food.go defines the food kinds and their effects.

package game

// FoodKind selects a food's colour, value and effect.
type FoodKind uint8

const (
	Red FoodKind = iota
	Yellow
	Blue
)

// FoodKinds lists every kind in spawn order.
var FoodKinds = [3]FoodKind{Red, Yellow, Blue}

// Points is the score awarded for eating the food.
func (k FoodKind) Points() int {
	switch k {
	case Red:
		return 10
	case Yellow:
		return 20
	case Blue:
		return 5
	default:
		return 0
	}
}

// Slows reports whether eating this kind resets the speed curve.
func (k FoodKind) Slows() bool {
	return k == Blue
}

func (k FoodKind) String() string {
	switch k {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	case Blue:
		return "blue"
	default:
		return "unknown"
	}
}

// Food is a typed item on the board.
type Food struct {
	Point
	Kind FoodKind
}
