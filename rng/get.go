package rng

import (
	"io"
)

// Reader provides a global instance to read from the RNG.
var Reader io.Reader = reader{}

// reader provides an io.Reader interface
type reader struct{}

func getSource() (*Source, error) {
	if !sourceReady.IsSet() {
		return nil, ErrNotReady
	}
	return defaultSource, nil
}

// Read reads random bytes into the supplied byte slice.
func Read(b []byte) (n int, err error) {
	src, err := getSource()
	if err != nil {
		return 0, err
	}
	return src.Read(b)
}

// Read implements the io.Reader interface
func (r reader) Read(b []byte) (n int, err error) {
	return Read(b)
}

// Bytes allocates a new byte slice of given length and fills it with random data.
func Bytes(n int) ([]byte, error) {
	src, err := getSource()
	if err != nil {
		return nil, err
	}
	return src.Bytes(n)
}

// NextBytes fills b with random data.
func NextBytes(b []byte) error {
	src, err := getSource()
	if err != nil {
		return err
	}
	src.NextBytes(b)
	return nil
}

// Number returns a random number from 0 to (incl.) max.
func Number(max uint64) (uint64, error) {
	src, err := getSource()
	if err != nil {
		return 0, err
	}
	return src.Number(max), nil
}

// MixInt32 mixes x into the entropy pool of the process wide generator.
func MixInt32(x int32) error {
	src, err := getSource()
	if err != nil {
		return err
	}
	src.MixInt32(x)
	return nil
}

// MixTimestamp mixes the current time into the entropy pool of the process wide generator.
func MixTimestamp() error {
	src, err := getSource()
	if err != nil {
		return err
	}
	src.MixTimestamp()
	return nil
}
