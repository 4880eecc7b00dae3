package cartesian

type generatorState int

const (
	generatorInitialized generatorState = iota
	generatorProducing
	generatorExhausted
)

// ProductGenerator lazily walks the Cartesian product of a resolution's value
// sets, one tuple per Next call, so large combinatorial spaces never require
// materializing the full product. Tuples come out in lexicographic order with
// the last parameter varying fastest: tuple k is the mixed-radix decomposition
// of k with the last set as the least significant digit. The sequence is fully
// deterministic for a given resolution.
//
// A generator is owned by one logical resolution task and is not safe for
// concurrent use; distinct test methods get distinct generators.
type ProductGenerator struct {
	sets        []ValueSet
	pattern     *namePattern
	displayName string
	state       generatorState
	indices     []int // current position per dimension
	produced    int
	total       int
}

func newProductGenerator(sets []ValueSet, pattern *namePattern, displayName string, total int) *ProductGenerator {
	return &ProductGenerator{
		sets:        sets,
		pattern:     pattern,
		displayName: displayName,
		indices:     make([]int, len(sets)),
		total:       total,
	}
}

// TotalCount returns the number of records the generator will produce in all.
func (g *ProductGenerator) TotalCount() int { return g.total }

// Next returns the next invocation record, or ok=false once the product is
// exhausted. Calling Next after exhaustion is a no-op, never an error.
func (g *ProductGenerator) Next() (InvocationRecord, bool) {
	switch g.state {
	case generatorExhausted:
		return InvocationRecord{}, false
	case generatorInitialized:
		if g.total == 0 {
			g.state = generatorExhausted
			return InvocationRecord{}, false
		}
		g.state = generatorProducing
	case generatorProducing:
		if !g.advance() {
			g.state = generatorExhausted
			return InvocationRecord{}, false
		}
	}

	args := make(Tuple, len(g.sets))
	for i, set := range g.sets {
		args[i] = set.Get(g.indices[i])
	}
	g.produced++
	return InvocationRecord{
		Index:     g.produced,
		Arguments: args,
		Name:      g.pattern.format(g.displayName, g.produced, args),
	}, true
}

// advance increments the odometer with the last dimension least significant.
func (g *ProductGenerator) advance() bool {
	for i := len(g.indices) - 1; i >= 0; i-- {
		g.indices[i]++
		if g.indices[i] < g.sets[i].Count() {
			return true
		}
		g.indices[i] = 0
	}
	return false
}
