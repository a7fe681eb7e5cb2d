package bitio

// chunkSize matches the original C encoder's STREAM_BUFSIZE.
const chunkSize = 8192

type chunk struct {
	data [chunkSize]byte
	n    int
	next *chunk
}

// ByteStream is an append-only sink made of linked fixed-capacity chunks.
// It is the owner of compressed tile data during encoding; the TIFF file
// writer reads it once, sequentially, via Chunks.
type ByteStream struct {
	head, tail *chunk
	length     int
}

// NewByteStream returns an empty stream ready for writes.
func NewByteStream() *ByteStream {
	c := &chunk{}
	return &ByteStream{head: c, tail: c}
}

// WriteByte appends a single byte. It never fails.
func (s *ByteStream) WriteByte(b byte) error {
	if s.tail.n == chunkSize {
		c := &chunk{}
		s.tail.next = c
		s.tail = c
	}
	s.tail.data[s.tail.n] = b
	s.tail.n++
	s.length++
	return nil
}

// Len returns the total number of bytes written so far.
func (s *ByteStream) Len() int {
	return s.length
}

// Chunks calls fn once per underlying chunk, in order, with the chunk's
// filled slice. It is the only way to read a ByteStream's contents back
// out; there is no random access.
func (s *ByteStream) Chunks(fn func([]byte) error) error {
	for c := s.head; c != nil; c = c.next {
		if err := fn(c.data[:c.n]); err != nil {
			return err
		}
	}
	return nil
}

// WriteTo copies the stream's contents to w, satisfying io.WriterTo-like
// callers without importing io here.
func (s *ByteStream) WriteTo(write func([]byte) (int, error)) (int64, error) {
	var total int64
	err := s.Chunks(func(b []byte) error {
		n, err := write(b)
		total += int64(n)
		return err
	})
	return total, err
}
