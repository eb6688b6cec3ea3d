package arbor

// A Point is a zero-based row and column position in source text. Column
// counts bytes within the row, not runes.
type Point struct {
	Row    uint32
	Column uint32
}

// An Extent is a half-open interval over some coordinate type: Start is
// included, End is not. Byte spans are Extent[uint32], position spans are
// Extent[Point].
type Extent[T any] struct {
	Start T
	End   T
}
