package arbor

import (
	"strings"
	"testing"
)

// benchJSSource is a realistic chunk of JavaScript for exercising parse and
// traversal costs: repeated declarations, calls, and a class.
var benchJSSource = []byte(strings.Repeat(`function add(a, b) {
  return a + b;
}
const result = add(1, 2) * add(3, 4);
class Point {
  constructor(x, y) {
    this.x = x;
    this.y = y;
  }
  norm() {
    return Math.sqrt(this.x * this.x + this.y * this.y);
  }
}
`, 50))

func benchParser(b *testing.B) *Parser {
	b.Helper()
	p, err := NewParser(jsLanguage())
	if err != nil {
		b.Fatal(err)
	}
	return p
}

// BenchmarkParseString measures whole-buffer parsing of ~750 lines of
// JavaScript.
func BenchmarkParseString(b *testing.B) {
	p := benchParser(b)
	defer p.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree := p.ParseString(benchJSSource)
		tree.Close()
	}
}

// BenchmarkParseInput measures the chunked callback parse of the same
// source, for comparison with BenchmarkParseString.
func BenchmarkParseInput(b *testing.B) {
	p := benchParser(b)
	defer p.Close()

	const chunk = 1024
	read := func(offset uint32, _ Point) []byte {
		if int(offset) >= len(benchJSSource) {
			return nil
		}
		end := min(int(offset)+chunk, len(benchJSSource))
		return benchJSSource[offset:end]
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree := p.ParseInput(read)
		tree.Close()
	}
}

// BenchmarkCursorWalk measures a full depth-first traversal using one
// cursor.
func BenchmarkCursorWalk(b *testing.B) {
	p := benchParser(b)
	defer p.Close()
	tree := p.ParseString(benchJSSource)
	defer tree.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := tree.Walk()
		nodes := 0
		for {
			nodes++
			if c.GotoFirstChild() {
				continue
			}
			for !c.GotoNextSibling() {
				if !c.GotoParent() {
					goto done
				}
			}
		}
	done:
		c.Close()
		if nodes == 0 {
			b.Fatal("walk visited no nodes")
		}
	}
}

// BenchmarkChildren measures the range-over-children adaptor against the
// top-level statements of the parsed source.
func BenchmarkChildren(b *testing.B) {
	p := benchParser(b)
	defer p.Close()
	tree := p.ParseString(benchJSSource)
	defer tree.Close()
	root := tree.RootNode()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n := 0
		for child := range root.Children() {
			if !child.IsNull() {
				n++
			}
		}
		if n == 0 {
			b.Fatal("no children visited")
		}
	}
}
