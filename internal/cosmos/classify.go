package cosmos

import "sort"

// threshold maps every value up to and including UpperBound to Tag.
type threshold[T any] struct {
	UpperBound float64
	Tag        T
}

// bucketTable is a sorted list of thresholds. Values above the last bound take
// the overflow tag.
type bucketTable[T any] struct {
	thresholds []threshold[T]
	overflow   T
}

func (b bucketTable[T]) Classify(v float64) T {
	i := sort.Search(len(b.thresholds), func(i int) bool {
		return v <= b.thresholds[i].UpperBound
	})
	if i == len(b.thresholds) {
		return b.overflow
	}
	return b.thresholds[i].Tag
}

var giantTypes = bucketTable[BodyType]{
	thresholds: []threshold[BodyType]{
		{UpperBound: 0.675, Tag: BodyTypeGasGiant},
	},
	overflow: BodyTypeIceGiant,
}

// ClassifyPlanet returns the body type for a planet of the given mass (earth
// masses) and density.
func ClassifyPlanet(mass, density float64) BodyType {
	if mass <= GiantMassThreshold {
		return BodyTypeRocky
	}
	return giantTypes.Classify(density)
}
