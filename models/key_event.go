package models

import (
	"encoding/binary"
	"fmt"
)

// EventRecordSize is the wire size of one raw key-event record:
// int64 seconds, int64 microseconds, uint16 type, uint16 code, int32 value,
// all little-endian.
const EventRecordSize = 24

// Raw event constants — the subset of the kernel input protocol we care about.
const (
	EvKey uint16 = 1 // key state change

	ValRelease int32 = 0
	ValPress   int32 = 1
	ValRepeat  int32 = 2
)

// RawEvent is one decoded key-event record. The two timestamp fields of
// the wire record carry no meaning for the kiosk and are dropped during
// decoding.
type RawEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

// DecodeEventRecord parses a full 24-byte record. Any other length is a
// decode failure.
func DecodeEventRecord(buf []byte) (RawEvent, error) {
	if len(buf) != EventRecordSize {
		return RawEvent{}, fmt.Errorf("event record must be %d bytes, got %d", EventRecordSize, len(buf))
	}
	return RawEvent{
		Type:  binary.LittleEndian.Uint16(buf[16:18]),
		Code:  binary.LittleEndian.Uint16(buf[18:20]),
		Value: int32(binary.LittleEndian.Uint32(buf[20:24])),
	}, nil
}
