// Package store persists boxed values under string names in BadgerDB.
//
// The stored record format is [kind byte][flag byte][payload]. The
// payload is the value's NETWORK format, extended with private encodings
// for the kinds the network codec refuses (an 8 byte big-endian counter
// for size and elapsed, raw bytes for the filter blob) so every concrete
// kind round-trips through the store.
package store

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/Serophos/freeradius-server/valuebox"
)

const flagTainted = 0x01

func encodeValue(v *valuebox.Value) ([]byte, error) {
	var flags byte
	if v.Tainted() {
		flags |= flagTainted
	}

	switch v.Kind() {
	case valuebox.KindSize:
		out := make([]byte, 2+8)
		out[0], out[1] = byte(v.Kind()), flags
		binary.BigEndian.PutUint64(out[2:], v.Uint())
		return out, nil

	case valuebox.KindElapsed:
		out := make([]byte, 2+8)
		out[0], out[1] = byte(v.Kind()), flags
		binary.BigEndian.PutUint64(out[2:], uint64(v.Elapsed()))
		return out, nil

	case valuebox.KindFilter:
		out := make([]byte, 2, 2+len(v.Bytes()))
		out[0], out[1] = byte(v.Kind()), flags
		return append(out, v.Bytes()...), nil
	}

	out := make([]byte, 2+v.NetworkLength())
	out[0], out[1] = byte(v.Kind()), flags
	if _, _, err := v.ToNetwork(out[2:]); err != nil {
		return nil, fmt.Errorf("failed to encode %s value: %w", v.Kind(), err)
	}
	return out, nil
}

func decodeValue(data []byte) (*valuebox.Value, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("record too short: %d bytes", len(data))
	}

	kind := valuebox.Kind(data[0])
	if !kind.IsConcrete() {
		return nil, fmt.Errorf("record has invalid kind byte %d", data[0])
	}
	tainted := data[1]&flagTainted != 0
	payload := data[2:]

	switch kind {
	case valuebox.KindSize:
		if len(payload) != 8 {
			return nil, fmt.Errorf("size record needs 8 payload bytes, got %d", len(payload))
		}
		return valuebox.NewSize(binary.BigEndian.Uint64(payload), tainted), nil

	case valuebox.KindElapsed:
		if len(payload) != 8 {
			return nil, fmt.Errorf("elapsed record needs 8 payload bytes, got %d", len(payload))
		}
		d := time.Duration(binary.BigEndian.Uint64(payload))
		return valuebox.NewElapsed(d, tainted), nil

	case valuebox.KindFilter:
		return valuebox.NewFilter(payload, tainted), nil
	}

	v, err := valuebox.FromNetwork(kind, payload, tainted)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s record: %w", kind, err)
	}
	return v, nil
}
