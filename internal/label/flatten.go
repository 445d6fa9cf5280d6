package label

// Relabel flattens ufind in place so every provisional label 1..n maps to a
// compact final label 1..k, numbered in increasing order of root label.
// It returns k.
//
// Labels are visited in increasing order and a subsumed label always points
// at a lower one, so one extra hop through an already visited entry reaches
// its final label.
func Relabel(ufind []uint32, n uint32) uint32 {
	var k uint32
	for i := uint32(1); i <= n; i++ {
		if ufind[i] < i {
			ufind[i] = ufind[ufind[i]]
		} else {
			k++
			ufind[i] = k
		}
	}
	return k
}

// Resolve points every provisional label 1..n directly at its root label.
// Roots keep ufind[i] == i.
func Resolve(ufind []uint32, n uint32) {
	for i := uint32(1); i <= n; i++ {
		if ufind[i] < i {
			ufind[i] = ufind[ufind[i]]
		}
	}
}

// AggregateSizes moves the pixel count of every subsumed label onto its
// root. ufind must already be resolved.
func AggregateSizes(ufind, sizes []uint32, n uint32) {
	for i := uint32(1); i <= n; i++ {
		if r := ufind[i]; r != i {
			sizes[r] += sizes[i]
		}
	}
}

// RelabelMin is Relabel with a size threshold: roots whose aggregated size is
// below minSize are mapped to 0 and excluded from the compact numbering. ufind
// must be resolved and sizes aggregated.
func RelabelMin(ufind, sizes []uint32, n, minSize uint32) uint32 {
	var k uint32
	for i := uint32(1); i <= n; i++ {
		switch {
		case ufind[i] < i:
			ufind[i] = ufind[ufind[i]]
		case sizes[i] >= minSize:
			k++
			ufind[i] = k
		default:
			ufind[i] = 0
		}
	}
	return k
}

// Largest returns the root label with the greatest aggregated size. Equal
// sizes resolve to the lowest root label. It returns 0 when n is 0. ufind
// must be resolved and sizes aggregated.
func Largest(ufind, sizes []uint32, n uint32) uint32 {
	if n == 0 {
		return 0
	}
	best := uint32(1)
	for i := uint32(2); i <= n; i++ {
		if ufind[i] == i && sizes[i] > sizes[best] {
			best = i
		}
	}
	return best
}
