package renderer

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// RenderOrder selects the sequence in which workers claim tiles
type RenderOrder int

const (
	OrderTopToBottom RenderOrder = iota
	OrderFromMiddle
	OrderToMiddle
	OrderNormal
	OrderRandom
)

var renderOrderNames = map[RenderOrder]string{
	OrderTopToBottom: "top-to-bottom",
	OrderFromMiddle:  "from-middle",
	OrderToMiddle:    "to-middle",
	OrderNormal:      "normal",
	OrderRandom:      "random",
}

// RenderOrders lists every traversal order
func RenderOrders() []RenderOrder {
	return []RenderOrder{OrderTopToBottom, OrderFromMiddle, OrderToMiddle, OrderNormal, OrderRandom}
}

// String returns the order name accepted by ParseRenderOrder
func (o RenderOrder) String() string {
	if name, ok := renderOrderNames[o]; ok {
		return name
	}
	return fmt.Sprintf("RenderOrder(%d)", int(o))
}

// ParseRenderOrder parses an order name. Underscores and case are ignored.
func ParseRenderOrder(name string) (RenderOrder, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for order, n := range renderOrderNames {
		if n == normalized {
			return order, nil
		}
	}
	return 0, fmt.Errorf("unknown render order %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (o RenderOrder) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *RenderOrder) UnmarshalText(text []byte) error {
	parsed, err := ParseRenderOrder(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ReorderTiles permutes tiles in place for the given traversal order.
// Only the sequence changes; tile geometry and indices are untouched.
// random is required for OrderRandom and ignored otherwise.
func ReorderTiles(tiles []*RenderTile, order RenderOrder, width, height int, random *rand.Rand) {
	switch order {
	case OrderFromMiddle:
		sortByCenterDistance(tiles, width, height, false)
	case OrderToMiddle:
		sortByCenterDistance(tiles, width, height, true)
	case OrderRandom:
		if random == nil {
			random = rand.New(rand.NewSource(1))
		}
		random.Shuffle(len(tiles), func(i, j int) {
			tiles[i], tiles[j] = tiles[j], tiles[i]
		})
	default:
		// top-to-bottom and normal both keep generation order
		sort.SliceStable(tiles, func(i, j int) bool { return tiles[i].Index < tiles[j].Index })
	}
}

// sortByCenterDistance orders tiles by the squared distance between their
// centre and the image centre. Ties keep generation order.
func sortByCenterDistance(tiles []*RenderTile, width, height int, descending bool) {
	cx, cy := float64(width)/2, float64(height)/2
	distance := func(t *RenderTile) float64 {
		x, y := t.Center()
		return (x-cx)*(x-cx) + (y-cy)*(y-cy)
	}

	sort.SliceStable(tiles, func(i, j int) bool {
		di, dj := distance(tiles[i]), distance(tiles[j])
		if di != dj {
			if descending {
				return di > dj
			}
			return di < dj
		}
		return tiles[i].Index < tiles[j].Index
	})
}
