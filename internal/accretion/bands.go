package accretion

// Band is a half-open interval [Inner, Outer) of orbital radius, in AU, that
// still holds unswept material.
type Band struct {
	Inner float64 `json:"inner"`
	Outer float64 `json:"outer"`
}

func (b Band) Width() float64 {
	return b.Outer - b.Inner
}

// Overlaps reports whether the band intersects [lo, hi].
func (b Band) Overlaps(lo, hi float64) bool {
	return b.Inner < hi && lo < b.Outer
}

// Bands is an ordered list of disjoint bands. Operations return new slices and
// never modify the receiver.
type Bands []Band

func NewBands(inner, outer float64) Bands {
	return Bands{{Inner: inner, Outer: outer}}
}

func (bs Bands) Empty() bool {
	return len(bs) == 0
}

func (bs Bands) Width() float64 {
	var w float64
	for _, b := range bs {
		w += b.Width()
	}
	return w
}

// Remove clears [lo, hi] from the list. A band strictly containing the
// interval is split in two, bands inside it are dropped and bands crossing
// one edge are shrunk.
func (bs Bands) Remove(lo, hi float64) Bands {
	if hi <= lo {
		return bs
	}
	out := make(Bands, 0, len(bs)+1)
	for _, b := range bs {
		if !b.Overlaps(lo, hi) {
			out = append(out, b)
			continue
		}
		if b.Inner < lo {
			out = append(out, Band{Inner: b.Inner, Outer: lo})
		}
		if b.Outer > hi {
			out = append(out, Band{Inner: hi, Outer: b.Outer})
		}
	}
	return out
}

// Integrate sums f over the parts of the list that fall inside [lo, hi].
func (bs Bands) Integrate(lo, hi float64, f func(r float64) float64) float64 {
	var total float64
	for _, b := range bs {
		if b.Inner >= hi {
			break
		}
		from, to := max(b.Inner, lo), min(b.Outer, hi)
		if to <= from {
			continue
		}
		total += simpson(from, to, f)
	}
	return total
}

// Valid reports whether every band is well formed and the list is ordered
// and disjoint.
func (bs Bands) Valid() bool {
	for i, b := range bs {
		if b.Inner > b.Outer {
			return false
		}
		if i > 0 && bs[i-1].Outer > b.Inner {
			return false
		}
	}
	return true
}

func simpson(lo, hi float64, f func(float64) float64) float64 {
	h := (hi - lo) / simpsonSteps
	sum := f(lo) + f(hi)
	for i := 1; i < simpsonSteps; i++ {
		x := lo + float64(i)*h
		if i%2 == 1 {
			sum += 4 * f(x)
		} else {
			sum += 2 * f(x)
		}
	}
	return sum * h / 3
}
