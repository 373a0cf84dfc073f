package a

import "strconv"

func double(x int) int { return x * 2 }

func apply(f func(int) int, v int) int { return f(v) }

func mapInts(xs []int, f func(int) string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		out = append(out, f(x))
	}
	return out
}

func direct() {
	_ = apply(func(x int) int { return double(x) }, 3) // want `redundant closure found`

	_ = mapInts(nil, func(x int) string { return strconv.Itoa(x) }) // want `redundant closure found`
}

func notRedundant() {
	_ = apply(func(x int) int { return double(x) + 1 }, 3)
	_ = apply(func(x int) int { return double(3) }, 3)
	_ = mapInts(nil, func(x int) string { return strconv.Itoa(x + 1) })
	_ = mapInts(nil, strconv.Itoa)
}

type counter int

func (c counter) add(x int) int { return int(c) + x }

// method closures stay untouched unless the methods flag is set
func methodsNotReported(c counter) {
	_ = apply(func(x int) int { return c.add(x) }, 3)
}
