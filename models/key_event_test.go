package models

import (
	"encoding/binary"
	"testing"
)

// encodeRecord builds one 24-byte little-endian wire record.
func encodeRecord(sec, usec int64, typ, code uint16, value int32) []byte {
	buf := make([]byte, EventRecordSize)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(sec))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(usec))
	binary.LittleEndian.PutUint16(buf[16:18], typ)
	binary.LittleEndian.PutUint16(buf[18:20], code)
	binary.LittleEndian.PutUint32(buf[20:24], uint32(value))
	return buf
}

func TestDecodeEventRecord(t *testing.T) {
	ev, err := DecodeEventRecord(encodeRecord(1700000000, 123456, EvKey, 78, ValPress))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if ev.Type != EvKey {
		t.Errorf("expected type %d, got %d", EvKey, ev.Type)
	}
	if ev.Code != 78 {
		t.Errorf("expected code 78, got %d", ev.Code)
	}
	if ev.Value != ValPress {
		t.Errorf("expected value %d, got %d", ValPress, ev.Value)
	}
}

func TestDecodeEventRecordNegativeValue(t *testing.T) {
	ev, err := DecodeEventRecord(encodeRecord(0, 0, EvKey, 1, -1))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if ev.Value != -1 {
		t.Errorf("expected value -1, got %d", ev.Value)
	}
}

func TestDecodeEventRecordBadLength(t *testing.T) {
	for _, n := range []int{0, 1, 23, 25, 48} {
		if _, err := DecodeEventRecord(make([]byte, n)); err == nil {
			t.Errorf("length %d: expected decode error", n)
		}
	}
}

func TestCommitRoundTrip(t *testing.T) {
	// wire record for a '+' press decodes and maps to a commit
	ev, err := DecodeEventRecord(encodeRecord(1700000000, 42, 1, 78, 1))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	a := DefaultKeymap().Map(ev)
	if a.Kind != ActionCommit {
		t.Errorf("expected %s, got %s", ActionCommit, a.Kind)
	}
}

func TestKeymapDigits(t *testing.T) {
	km := DefaultKeymap()
	table := map[uint16]byte{
		82: '0', 79: '1', 80: '2', 81: '3', 75: '4',
		76: '5', 77: '6', 71: '7', 72: '8', 73: '9',
	}
	for code, want := range table {
		a := km.Map(RawEvent{Type: EvKey, Code: code, Value: ValPress})
		if a.Kind != ActionDigit {
			t.Errorf("code %d: expected digit action, got %s", code, a.Kind)
			continue
		}
		if a.Digit != want {
			t.Errorf("code %d: expected digit %c, got %c", code, want, a.Digit)
		}
	}
}

func TestKeymapEnterKeys(t *testing.T) {
	km := DefaultKeymap()
	for _, code := range []uint16{28, 96} {
		a := km.Map(RawEvent{Type: EvKey, Code: code, Value: ValPress})
		if a.Kind != ActionPrint {
			t.Errorf("code %d: expected print action, got %s", code, a.Kind)
		}
	}
}

func TestKeymapNoops(t *testing.T) {
	km := DefaultKeymap()
	cases := []struct {
		name string
		ev   RawEvent
	}{
		{"release", RawEvent{Type: EvKey, Code: 78, Value: ValRelease}},
		{"autorepeat", RawEvent{Type: EvKey, Code: 82, Value: ValRepeat}},
		{"sync event", RawEvent{Type: 0, Code: 0, Value: ValPress}},
		{"unmapped key", RawEvent{Type: EvKey, Code: 30, Value: ValPress}},
	}
	for _, c := range cases {
		if a := km.Map(c.ev); a.Kind != ActionNoop {
			t.Errorf("%s: expected noop, got %s", c.name, a.Kind)
		}
	}
}
