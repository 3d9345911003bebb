//go:build !tinygo

package hal

import "sync"

type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	f := &hostFramebuffer{}
	f.Resize(width, height)
	return f
}

func (f *hostFramebuffer) Width() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width
}

func (f *hostFramebuffer) Height() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.height
}

func (f *hostFramebuffer) StrideBytes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stride
}

func (f *hostFramebuffer) Buffer() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buf
}

func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) Present() error      { return nil }

// Resize reallocates the pixel buffer. Non-positive sizes are ignored and the
// previous size is kept.
func (f *hostFramebuffer) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if width == f.width && height == f.height {
		return false
	}
	f.width = width
	f.height = height
	f.stride = width * 2
	f.buf = make([]byte, f.stride*height)
	return true
}

func (f *hostFramebuffer) size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

// snapshotRGBA converts the current frame into dst (RGBA8) and returns the frame size.
func (f *hostFramebuffer) snapshotRGBA(dst []byte) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	need := f.width * f.height * 4
	if cap(dst) < need {
		dst = make([]byte, need)
	}
	dst = dst[:need]
	src := f.buf
	for i, j := 0, 0; i+1 < len(src) && j+3 < len(dst); i, j = i+2, j+4 {
		r, g, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		dst[j+0] = r
		dst[j+1] = g
		dst[j+2] = b
		dst[j+3] = 0xFF
	}
	return dst
}

func rgb565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F
	return uint8((rr * 255) / 31), uint8((gg * 255) / 63), uint8((bb * 255) / 31)
}
