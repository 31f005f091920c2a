package rng

import "fmt"

// Stream is an arcfour keystream generator over a 256 entry permutation.
// It is keyed exactly once. A Stream is not safe for concurrent use.
type Stream struct {
	s      [256]byte
	i, j   uint8
	seeded bool
}

// NewStream returns an unseeded Stream.
func NewStream() *Stream {
	return &Stream{}
}

// Init keys the stream. Keying is single-shot: once the stream is seeded,
// further calls return immediately and leave the state untouched.
func (st *Stream) Init(key []byte) error {
	if st.seeded {
		return nil
	}
	if len(key) == 0 {
		return ErrInvalidKey
	}

	for i := 0; i < 256; i++ {
		st.s[i] = byte(i)
	}

	var j uint8
	for i := 0; i < 256; i++ {
		j += st.s[i] + key[i%len(key)]
		st.s[i], st.s[j] = st.s[j], st.s[i]
	}

	st.i = 0
	st.j = 0
	st.seeded = true
	return nil
}

// Seeded returns whether the stream has been keyed.
func (st *Stream) Seeded() bool {
	return st.seeded
}

// NextByte advances the generator and returns the next keystream byte.
func (st *Stream) NextByte() (byte, error) {
	if !st.seeded {
		return 0, ErrNotSeeded
	}

	// uint8 arithmetic wraps mod 256.
	st.i++
	st.j += st.s[st.i]
	st.s[st.i], st.s[st.j] = st.s[st.j], st.s[st.i]
	return st.s[st.s[st.i]+st.s[st.j]], nil
}

// Read fills p with keystream bytes.
func (st *Stream) Read(p []byte) (n int, err error) {
	if !st.seeded {
		return 0, ErrNotSeeded
	}
	for n = range p {
		p[n], _ = st.NextByte()
	}
	return len(p), nil
}

// XORKeyStream sets dst to the XOR of src with the keystream. Dst and src
// must overlap entirely or not at all.
func (st *Stream) XORKeyStream(dst, src []byte) error {
	if !st.seeded {
		return ErrNotSeeded
	}
	if len(dst) < len(src) {
		return fmt.Errorf("%w: output smaller than input", ErrInvalidCount)
	}
	for i, v := range src {
		k, _ := st.NextByte()
		dst[i] = v ^ k
	}
	return nil
}
