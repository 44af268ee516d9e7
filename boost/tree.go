package boost

import (
	"sort"
	"sync"
)

// lambda is the L2 regularization applied to leaf weights and gains.
const lambda = 1.0

// node is one decision point of a regression tree. Leaves carry the
// additive correction for samples that land there.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	value     float64
	leaf      bool
}

// tree is a depth-limited regression tree fit to gradients and hessians.
type tree struct {
	root *node
}

// predict walks a feature row to its leaf value. Rows with a feature
// below the split threshold go left.
func (t *tree) predict(row []float64) float64 {
	n := t.root
	for !n.leaf {
		if row[n.feature] < n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// split is one candidate cut of a node.
type split struct {
	feature   int
	threshold float64
	gain      float64
	ok        bool
}

// builder carries the per-round state needed to grow one tree.
type builder struct {
	rows       [][]float64
	grad       []float64
	hess       []float64
	maxDepth   int
	minLeaf    int
	workers    int
	importance []float64 // accumulated gain per feature, shared across rounds
}

// build grows a tree over the given sample indices.
func (b *builder) build(samples []int) *tree {
	return &tree{root: b.buildNode(samples, 0)}
}

func (b *builder) buildNode(samples []int, depth int) *node {
	sumG, sumH := 0.0, 0.0
	for _, i := range samples {
		sumG += b.grad[i]
		sumH += b.hess[i]
	}

	if depth >= b.maxDepth || len(samples) < 2*b.minLeaf {
		return leafNode(sumG, sumH)
	}

	best := b.bestSplit(samples)
	if !best.ok || best.gain <= 0 {
		return leafNode(sumG, sumH)
	}
	b.importance[best.feature] += best.gain

	left := make([]int, 0, len(samples))
	right := make([]int, 0, len(samples))
	for _, i := range samples {
		if b.rows[i][best.feature] < best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &node{
		feature:   best.feature,
		threshold: best.threshold,
		left:      b.buildNode(left, depth+1),
		right:     b.buildNode(right, depth+1),
	}
}

func leafNode(sumG, sumH float64) *node {
	return &node{leaf: true, value: -sumG / (sumH + lambda)}
}

// bestSplit searches every feature for the best cut of the node. The
// per-feature search fans out over the worker pool; the merge is a
// sequential fold in feature order, so the chosen split is identical
// for any worker count: higher gain wins, ties go to the lower feature
// index, and within a feature to the lower threshold.
func (b *builder) bestSplit(samples []int) split {
	features := len(b.rows[0])
	candidates := make([]split, features)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				candidates[j] = b.bestSplitForFeature(samples, j)
			}
		}()
	}
	for j := 0; j < features; j++ {
		jobs <- j
	}
	close(jobs)
	wg.Wait()

	best := split{}
	for _, c := range candidates {
		if c.ok && (!best.ok || c.gain > best.gain) {
			best = c
		}
	}
	return best
}

// bestSplitForFeature scans one feature's sorted values for the cut
// with the highest gain. Candidate thresholds sit midway between
// distinct consecutive values; the scan keeps the first best, so the
// lowest qualifying threshold wins ties.
func (b *builder) bestSplitForFeature(samples []int, feature int) split {
	type entry struct {
		value float64
		idx   int
	}

	entries := make([]entry, len(samples))
	totalG, totalH := 0.0, 0.0
	for k, i := range samples {
		entries[k] = entry{value: b.rows[i][feature], idx: i}
		totalG += b.grad[i]
		totalH += b.hess[i]
	}
	// The idx tie-break makes the order, and with it the floating-point
	// summation order, unique.
	sort.Slice(entries, func(a, c int) bool {
		if entries[a].value != entries[c].value {
			return entries[a].value < entries[c].value
		}
		return entries[a].idx < entries[c].idx
	})

	parentScore := totalG * totalG / (totalH + lambda)
	best := split{feature: feature}
	leftG, leftH := 0.0, 0.0

	for k := 0; k < len(entries)-1; k++ {
		leftG += b.grad[entries[k].idx]
		leftH += b.hess[entries[k].idx]

		if entries[k].value == entries[k+1].value {
			continue
		}
		if k+1 < b.minLeaf || len(entries)-k-1 < b.minLeaf {
			continue
		}

		rightG := totalG - leftG
		rightH := totalH - leftH
		gain := leftG*leftG/(leftH+lambda) + rightG*rightG/(rightH+lambda) - parentScore

		if !best.ok || gain > best.gain {
			best = split{
				feature:   feature,
				threshold: (entries[k].value + entries[k+1].value) / 2,
				gain:      gain,
				ok:        true,
			}
		}
	}
	return best
}
