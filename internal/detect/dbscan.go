package detect

import (
	"math"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/model"
)

const unvisited = -2

// normalize z-scores each dimension in place across the match's windows.
// Scaling is strictly match-relative: feature magnitudes differ wildly
// between a 20-minute stomp and a 45-minute slugfest, so cross-match scaling
// would leak one match's distribution into another's labels. A dimension
// with zero variance maps to all zeros.
func normalize(points [][]float64) {
	if len(points) == 0 {
		return
	}
	dims := len(points[0])
	n := float64(len(points))

	for d := 0; d < dims; d++ {
		var mean float64
		for _, p := range points {
			mean += p[d]
		}
		mean /= n

		var variance float64
		for _, p := range points {
			diff := p[d] - mean
			variance += diff * diff
		}
		std := math.Sqrt(variance / n)

		for _, p := range points {
			if std == 0 {
				p[d] = 0
			} else {
				p[d] = (p[d] - mean) / std
			}
		}
	}
}

// dbscan labels each point with a non-negative cluster ID or model.Noise.
// A point is core when at least minSamples other points lie within eps.
// Cluster IDs are assigned by order of first discovery scanning points in
// index order, and expansion walks sorted neighbor lists, so the labeling
// is fully reproducible for a fixed input.
func dbscan(points [][]float64, eps float64, minSamples int) []int {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = unvisited
	}
	if len(points) == 0 {
		return labels
	}

	tree := newKDTree(points)
	nextCluster := 0

	for i := range points {
		if labels[i] != unvisited {
			continue
		}
		neighbors := tree.radius(i, eps)
		if len(neighbors) < minSamples {
			labels[i] = model.Noise
			continue
		}

		cluster := nextCluster
		nextCluster++
		labels[i] = cluster

		// Breadth-first density expansion over the seed set.
		queue := append([]int(nil), neighbors...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]

			if labels[j] == model.Noise {
				labels[j] = cluster // border point reclaimed from noise
				continue
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = cluster

			jn := tree.radius(j, eps)
			if len(jn) >= minSamples {
				queue = append(queue, jn...)
			}
		}
	}
	return labels
}
