// internal/battery/filter.go
package battery

// Filter is a fixed-window moving average.
// Until the window fills it averages the samples seen so far.
type Filter struct {
	buf  []uint16
	next int
	n    int
	sum  uint32
}

// NewFilter creates a moving average over window samples (minimum 1).
func NewFilter(window int) *Filter {
	if window < 1 {
		window = 1
	}
	return &Filter{buf: make([]uint16, window)}
}

// Push adds a sample and returns the current average.
func (f *Filter) Push(v uint16) float64 {
	if f.n == len(f.buf) {
		f.sum -= uint32(f.buf[f.next])
	} else {
		f.n++
	}
	f.buf[f.next] = v
	f.sum += uint32(v)
	f.next = (f.next + 1) % len(f.buf)

	return float64(f.sum) / float64(f.n)
}

// Reset drops every sample.
func (f *Filter) Reset() {
	f.next, f.n, f.sum = 0, 0, 0
}
