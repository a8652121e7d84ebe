package parser

import "fmt"

// region is one logical span of the storage arena. Its capacity walks
// up a ladder of sizes as the arena grows.
type region struct {
	sizes []int // capacity ladder, one entry per growth step
	step  int   // current ladder position
	off   int   // offset of the region in the arena
	n     int   // bytes written
}

// storage is a contiguous byte arena partitioned into regions, one per
// record component. Growing the arena advances every region that still
// has ladder steps left and keeps all written bytes.
type storage struct {
	buf     []byte
	regions []region
}

func newStorage(ladders ...[]int) *storage {
	s := &storage{regions: make([]region, len(ladders))}
	for i, ladder := range ladders {
		s.regions[i] = region{sizes: ladder}
	}
	s.layout(nil)
	return s
}

// layout recomputes region offsets for the current ladder steps,
// reallocates the arena and copies each region's bytes from old.
func (s *storage) layout(old []byte) {
	total := 0
	oldOff := make([]int, len(s.regions))
	for i := range s.regions {
		r := &s.regions[i]
		oldOff[i] = r.off
		r.off = total
		total += r.sizes[r.step]
	}
	s.buf = make([]byte, total)
	for i := range s.regions {
		r := &s.regions[i]
		copy(s.buf[r.off:r.off+r.n], old[oldOff[i]:oldOff[i]+r.n])
	}
}

func (s *storage) grow() {
	old := s.buf
	for i := range s.regions {
		r := &s.regions[i]
		if r.step+1 < len(r.sizes) {
			r.step++
		}
	}
	s.layout(old)
}

// appendByte writes c at the end of region ri, growing the arena when
// the region is full. Overflowing the final ladder step is a format
// error.
func (s *storage) appendByte(ri int, c byte) error {
	r := &s.regions[ri]
	if r.n == r.sizes[r.step] {
		if r.step == len(r.sizes)-1 {
			return fmt.Errorf("%w: record exceeds %d byte storage limit",
				ErrInvalidFormat, r.sizes[r.step])
		}
		s.grow()
	}
	s.buf[r.off+r.n] = c
	r.n++
	return nil
}

// appendCapped writes c at the end of region ri, silently dropping the
// byte once the region is full. Capped regions never grow.
func (s *storage) appendCapped(ri int, c byte) {
	r := &s.regions[ri]
	if r.n == r.sizes[r.step] {
		return
	}
	s.buf[r.off+r.n] = c
	r.n++
}

// view returns the bytes written to region ri. The slice is valid
// until the next append or reset.
func (s *storage) view(ri int) []byte {
	r := &s.regions[ri]
	return s.buf[r.off : r.off+r.n]
}

func (s *storage) used(ri int) int {
	return s.regions[ri].n
}

func (s *storage) reset(ri int) {
	s.regions[ri].n = 0
}

func (s *storage) resetAll() {
	for i := range s.regions {
		s.regions[i].n = 0
	}
}

// trimSpace drops trailing ASCII whitespace from region ri.
func (s *storage) trimSpace(ri int) {
	r := &s.regions[ri]
	for r.n > 0 && isSpace(s.buf[r.off+r.n-1]) {
		r.n--
	}
}

// isSpace reports whether c is an ASCII whitespace byte.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
