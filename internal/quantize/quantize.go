// Package quantize implements the median-cut algorithm that reduces a
// truecolor image (or a set of frames sharing one palette) to at most
// 256 colors.
package quantize

// Color is a single 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// Result is a quantized palette plus a lookup from every color observed
// during Build to its palette index.
type Result struct {
	Palette []Color
	index   map[Color]int
}

// Index returns the palette index for c, exact if c was part of the
// training set, or the nearest palette entry by squared Euclidean
// distance otherwise (spec.md §4.5 step 5 — pixels outside the training
// set, as happens when one frame's palette is reused for another).
func (r *Result) Index(c Color) int {
	if i, ok := r.index[c]; ok {
		return i
	}
	return r.nearest(c)
}

func (r *Result) nearest(c Color) int {
	best := 0
	bestDist := -1
	for i, p := range r.Palette {
		dist := sqDist(c, p)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return best
}

func sqDist(a, b Color) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// channelWeight applies the perceptual weighting spec.md §4.5 step 3
// specifies: blue contributes less to the split decision than red or
// green.
var channelWeight = [3]float64{1.0, 0.8, 0.5}

// box is a population of colors under consideration for a further split.
type box struct {
	colors []Color
}

// Build extracts the unique colors of colors and runs median-cut until it
// has produced at most maxColors boxes (or no box remains splittable),
// then returns the resulting palette and lookup table.
func Build(colors []Color, maxColors int) *Result {
	if maxColors < 1 {
		maxColors = 1
	}
	if maxColors > 256 {
		maxColors = 256
	}

	unique := dedupe(colors)
	boxes := []*box{{colors: unique}}

	for len(boxes) < maxColors {
		i, ok := largestSplittable(boxes)
		if !ok {
			break
		}
		a, b, ok := split(boxes[i])
		if !ok {
			break
		}
		boxes[i] = a
		boxes = append(boxes, b)
	}

	result := &Result{
		Palette: make([]Color, len(boxes)),
		index:   make(map[Color]int, len(unique)),
	}
	for i, bx := range boxes {
		mean := meanColor(bx.colors)
		result.Palette[i] = mean
		for _, c := range bx.colors {
			result.index[c] = i
		}
	}
	return result
}

func dedupe(colors []Color) []Color {
	seen := make(map[Color]struct{}, len(colors))
	out := make([]Color, 0, len(colors))
	for _, c := range colors {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// largestSplittable finds the box with the largest population that has
// more than one color, breaking ties by earlier insertion order.
func largestSplittable(boxes []*box) (int, bool) {
	best := -1
	bestPop := 0
	for i, bx := range boxes {
		if len(bx.colors) <= 1 {
			continue
		}
		if len(bx.colors) > bestPop {
			bestPop = len(bx.colors)
			best = i
		}
	}
	return best, best >= 0
}

// split partitions bx along its widest weighted channel at the median,
// using quickselect for a linear-time median. It reports ok=false if the
// partition would be degenerate (one side empty).
func split(bx *box) (*box, *box, bool) {
	if len(bx.colors) <= 1 {
		return nil, nil, false
	}

	channel, _ := widestChannel(bx.colors)
	colors := append([]Color(nil), bx.colors...)
	mid := len(colors) / 2
	quickselect(colors, mid, channel)
	medianValue := channelValue(colors[mid], channel)

	var lo, hi []Color
	for _, c := range colors {
		if channelValue(c, channel) < medianValue {
			lo = append(lo, c)
		} else {
			hi = append(hi, c)
		}
	}
	if len(lo) == 0 || len(hi) == 0 {
		return nil, nil, false
	}
	return &box{colors: lo}, &box{colors: hi}, true
}

// widestChannel picks the channel (0=R, 1=G, 2=B) with the largest
// weighted range across colors.
func widestChannel(colors []Color) (channel int, weightedRange float64) {
	minv := [3]int{255, 255, 255}
	maxv := [3]int{0, 0, 0}
	for _, c := range colors {
		v := [3]int{int(c.R), int(c.G), int(c.B)}
		for i := 0; i < 3; i++ {
			if v[i] < minv[i] {
				minv[i] = v[i]
			}
			if v[i] > maxv[i] {
				maxv[i] = v[i]
			}
		}
	}
	best := 0
	bestWeighted := -1.0
	for i := 0; i < 3; i++ {
		weighted := float64(maxv[i]-minv[i]) * channelWeight[i]
		if weighted > bestWeighted {
			bestWeighted = weighted
			best = i
		}
	}
	return best, bestWeighted
}

func channelValue(c Color, channel int) int {
	switch channel {
	case 0:
		return int(c.R)
	case 1:
		return int(c.G)
	default:
		return int(c.B)
	}
}

// quickselect rearranges colors so that the element at index k is in its
// sorted position along channel, an O(n) average selection used to find
// the median without a full sort.
func quickselect(colors []Color, k int, channel int) {
	lo, hi := 0, len(colors)-1
	for lo < hi {
		p := partition(colors, lo, hi, channel)
		switch {
		case k == p:
			return
		case k < p:
			hi = p - 1
		default:
			lo = p + 1
		}
	}
}

func partition(colors []Color, lo, hi, channel int) int {
	pivot := channelValue(colors[hi], channel)
	i := lo
	for j := lo; j < hi; j++ {
		if channelValue(colors[j], channel) < pivot {
			colors[i], colors[j] = colors[j], colors[i]
			i++
		}
	}
	colors[i], colors[hi] = colors[hi], colors[i]
	return i
}

func meanColor(colors []Color) Color {
	var sr, sg, sb int
	for _, c := range colors {
		sr += int(c.R)
		sg += int(c.G)
		sb += int(c.B)
	}
	n := len(colors)
	if n == 0 {
		return Color{}
	}
	return Color{
		R: uint8(sr / n),
		G: uint8(sg / n),
		B: uint8(sb / n),
	}
}
