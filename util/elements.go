package util

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

func ReadElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		err := readElement(r, element)
		if err != nil {
			return err
		}
	}
	return nil
}

func readElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *int32:
		rv, err := BinarySerializer.Uint32(r, binary.LittleEndian)
		if err != nil {
			return err
		}
		*e = int32(rv)
		return nil
	case *uint32:
		rv, err := BinarySerializer.Uint32(r, binary.LittleEndian)
		if err != nil {
			return err
		}
		*e = rv
		return nil
	case *int64:
		rv, err := BinarySerializer.Uint64(r, binary.LittleEndian)
		if err != nil {
			return err
		}
		*e = int64(rv)
		return nil
	case *uint64:
		rv, err := BinarySerializer.Uint64(r, binary.LittleEndian)
		if err != nil {
			return err
		}
		*e = rv
		return nil
	case *bool:
		rv, err := BinarySerializer.Uint8(r)
		if err != nil {
			return err
		}
		*e = rv != 0x00
		return nil
	case *Hash:
		_, err := io.ReadFull(r, e[:])
		return err
	}
	return errors.Errorf("readElement: unhandled element type %T", element)
}

func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := writeElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case int32:
		return BinarySerializer.PutUint32(w, binary.LittleEndian, uint32(e))
	case uint32:
		return BinarySerializer.PutUint32(w, binary.LittleEndian, e)
	case int64:
		return BinarySerializer.PutUint64(w, binary.LittleEndian, uint64(e))
	case uint64:
		return BinarySerializer.PutUint64(w, binary.LittleEndian, e)
	case bool:
		var b uint8
		if e {
			b = 0x01
		}
		return BinarySerializer.PutUint8(w, b)
	case *Hash:
		_, err := w.Write(e[:])
		return err
	case Hash:
		_, err := w.Write(e[:])
		return err
	}
	return errors.Errorf("writeElement: unhandled element type %T", element)
}
