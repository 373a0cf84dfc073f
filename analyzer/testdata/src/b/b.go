package b

import "fmt"

func describe(items []fmt.Stringer, f func(fmt.Stringer) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, f(it))
	}
	return out
}

func interfaceMethod() {
	_ = describe(nil, func(s fmt.Stringer) string { return s.String() }) // want `redundant closure found`
}

type counter int

func (c counter) add(x int) int { return int(c) + x }

func fold(xs []int, f func(counter, int) int) int {
	acc := 0
	for _, x := range xs {
		acc = f(counter(acc), x)
	}
	return acc
}

func inherentMethod() {
	_ = fold(nil, func(c counter, x int) int { return c.add(x) }) // want `redundant closure found`
}

func notForwarding() {
	_ = describe(nil, func(s fmt.Stringer) string { return s.String() + "!" })

	_ = fold(nil, func(c counter, x int) int { return c.add(x + 1) })
}
