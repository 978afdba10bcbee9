package util

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// maxVarLenIntBytes bounds an encoded uint64: ten 7-bit groups.
const maxVarLenIntBytes = 10

// WriteVarLenInt writes n in the base-128 "VARINT" form used for compact
// on-disk encodings: big-endian groups of 7 bits, all but the last with the
// high bit set, and each group after the first biased by one.
func WriteVarLenInt(w io.Writer, n uint64) error {
	buf := make([]byte, 10)
	idx := 0
	mask := uint64(0)
	for {
		if idx > 0 {
			mask = 0x80
		}
		buf[idx] = byte((n & 0x7f) | mask)
		if n <= 0x7f {
			break
		}
		n = (n >> 7) - 1
		idx++
	}
	var tmp bytes.Buffer
	for i := idx; i >= 0; i-- {
		tmp.WriteByte(buf[i])
	}
	_, err := w.Write(tmp.Bytes())
	return err
}

func ReadVarLenInt(r io.Reader) (uint64, error) {
	ret := uint64(0)
	buf := make([]byte, 1)
	for count := 0; ; count++ {
		if count == maxVarLenIntBytes {
			return 0, errors.New("ReadVarLenInt: value overflows a uint64")
		}
		n, err := r.Read(buf)
		if n == 0 {
			return ret, err
		}
		ret = (ret << 7) | uint64(buf[0]&0x7f)
		if buf[0]&0x80 != 0 {
			ret++
		} else {
			return ret, nil
		}
	}
}

func VarLenIntSize(n uint64) uint32 {
	size := uint32(0)
	for {
		size++
		if n <= 0x7f {
			break
		}
		n = (n >> 7) - 1
	}
	return size
}
