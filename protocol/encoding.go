package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/edgeml-ai/secagg-go/crypto"
)

// Share bundle wire layout, all integers big-endian:
//
//	participantCount:u32
//	per participant: shareCount:u32
//	  per share: index:u32, valueLen:u32, value[valueLen]
//
// Share values are field elements below 2^61 and are written as 8 bytes.
const shareValueLength = 8

// MarshalShareBundle serializes per-recipient share lists into the bundle
// layout handed to the server for distribution.
func MarshalShareBundle(bundle [][]crypto.Share) []byte {
	size := 4
	for _, list := range bundle {
		size += 4 + len(list)*(4+4+shareValueLength)
	}

	out := make([]byte, 0, size)
	out = binary.BigEndian.AppendUint32(out, uint32(len(bundle)))
	for _, list := range bundle {
		out = binary.BigEndian.AppendUint32(out, uint32(len(list)))
		for _, sh := range list {
			out = binary.BigEndian.AppendUint32(out, sh.Index)
			out = binary.BigEndian.AppendUint32(out, shareValueLength)
			out = binary.BigEndian.AppendUint64(out, sh.Value)
		}
	}
	return out
}

// UnmarshalShareBundle parses a share bundle, rejecting any length field
// that exceeds the remaining buffer. Trailing bytes are also rejected.
func UnmarshalShareBundle(data []byte) ([][]crypto.Share, error) {
	off := 0
	participantCount, err := readUint32(data, &off)
	if err != nil {
		return nil, err
	}

	// Preallocation capacity is capped by what the remaining bytes could
	// possibly encode, so a hostile count field cannot force a huge
	// allocation before the per-item bounds checks run. Every participant
	// needs at least a 4-byte shareCount, every share at least 8 bytes.
	bundle := make([][]crypto.Share, 0, allocCap(participantCount, len(data)-off, 4))
	for p := uint32(0); p < participantCount; p++ {
		shareCount, err := readUint32(data, &off)
		if err != nil {
			return nil, err
		}

		list := make([]crypto.Share, 0, allocCap(shareCount, len(data)-off, 8))
		for s := uint32(0); s < shareCount; s++ {
			index, err := readUint32(data, &off)
			if err != nil {
				return nil, err
			}
			valueLen, err := readUint32(data, &off)
			if err != nil {
				return nil, err
			}
			if valueLen > shareValueLength {
				return nil, fmt.Errorf("%w: share value length %d exceeds %d", ErrMalformedWireData, valueLen, shareValueLength)
			}
			if off+int(valueLen) > len(data) {
				return nil, fmt.Errorf("%w: share value length %d exceeds remaining %d bytes", ErrMalformedWireData, valueLen, len(data)-off)
			}

			var value uint64
			for _, b := range data[off : off+int(valueLen)] {
				value = value<<8 | uint64(b)
			}
			off += int(valueLen)

			list = append(list, crypto.Share{Index: index, Value: value})
		}
		bundle = append(bundle, list)
	}

	if off != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedWireData, len(data)-off)
	}
	return bundle, nil
}

// allocCap bounds a declared item count by the number of items the remaining
// bytes could hold, given the minimum encoded size of one item.
func allocCap(count uint32, remaining, minItemSize int) int {
	most := remaining / minItemSize
	if uint64(count) < uint64(most) {
		return int(count)
	}
	return most
}

func readUint32(data []byte, off *int) (uint32, error) {
	if *off+4 > len(data) {
		return 0, fmt.Errorf("%w: truncated at offset %d", ErrMalformedWireData, *off)
	}
	v := binary.BigEndian.Uint32(data[*off:])
	*off += 4
	return v, nil
}

// BytesToFieldElements chunks buf into 4-byte big-endian groups, one field
// element per group, zero-padding the final partial group on the right.
func BytesToFieldElements(buf []byte) []uint64 {
	els := make([]uint64, 0, (len(buf)+3)/4)
	for start := 0; start < len(buf); start += 4 {
		var chunk [4]byte
		copy(chunk[:], buf[start:])
		els = append(els, uint64(binary.BigEndian.Uint32(chunk[:])))
	}
	return els
}

// FieldElementsToBytes is the inverse of BytesToFieldElements: each element
// becomes a 4-byte big-endian chunk. Elements that do not fit 4 bytes are
// rejected; seed-derived elements always do.
func FieldElementsToBytes(els []uint64) ([]byte, error) {
	out := make([]byte, 0, len(els)*4)
	for _, el := range els {
		if el > 0xffffffff {
			return nil, fmt.Errorf("field element %#x exceeds 4-byte range", el)
		}
		out = binary.BigEndian.AppendUint32(out, uint32(el))
	}
	return out, nil
}

// UnmaskingReport is the payload a client emits in the unmasking step: how
// many participants it believes survived, and its own index so the server
// can attribute the report.
type UnmaskingReport struct {
	SurvivingCount uint32
	ClientIndex    uint32
}

// MarshalUnmaskingReport encodes the report as two big-endian u32.
func MarshalUnmaskingReport(r UnmaskingReport) []byte {
	out := make([]byte, 0, 8)
	out = binary.BigEndian.AppendUint32(out, r.SurvivingCount)
	out = binary.BigEndian.AppendUint32(out, r.ClientIndex)
	return out
}

// UnmarshalUnmaskingReport decodes a report, rejecting any other length.
func UnmarshalUnmaskingReport(data []byte) (UnmaskingReport, error) {
	if len(data) != 8 {
		return UnmaskingReport{}, fmt.Errorf("%w: unmasking report is %d bytes, want 8", ErrMalformedWireData, len(data))
	}
	return UnmaskingReport{
		SurvivingCount: binary.BigEndian.Uint32(data[:4]),
		ClientIndex:    binary.BigEndian.Uint32(data[4:]),
	}, nil
}
