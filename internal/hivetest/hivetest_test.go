package hivetest

import (
	"testing"

	"github.com/joshuapare/hivenav/internal/format"
)

func TestBuildProducesWalkableImage(t *testing.T) {
	image := Build(Key{
		Name: "ROOT",
		Subkeys: []Key{
			{Name: "A", Values: []Value{{Name: "v", Type: 4, Data: []byte{1, 0, 0, 0}}}},
			{Name: "B"},
		},
	})

	head, err := format.ParseHeader(image)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if format.ChecksumOf(image) != head.Checksum {
		t.Fatal("stored checksum does not match computed checksum")
	}
	if head.Dirty() {
		t.Fatal("fresh image reports dirty sequence numbers")
	}

	bin, next, err := format.NextHBIN(image, format.HiveDataBase)
	if err != nil {
		t.Fatalf("NextHBIN: %v", err)
	}
	if next != format.HiveDataBase+int(head.HiveBinsDataSize) {
		t.Fatalf("bin does not cover declared data size: next=%d want=%d",
			next, format.HiveDataBase+int(head.HiveBinsDataSize))
	}

	// Every cell must chain to the next until the bin is exhausted, with
	// exactly one free cell covering the slack.
	var allocated, free int
	off := format.HiveDataBase + format.HBINHeaderSize
	for off < next {
		cell, after, err := format.NextCell(image, bin, off)
		if err != nil {
			t.Fatalf("NextCell at %d: %v", off, err)
		}
		if cell.Free {
			free++
		} else {
			allocated++
		}
		off = after
	}
	if free != 1 {
		t.Fatalf("free cells = %d, want exactly 1 slack cell", free)
	}
	// Three NKs, one lf, one value list, one vk. The dword is inline, so no
	// data cell.
	if allocated != 6 {
		t.Fatalf("allocated cells = %d, want 6", allocated)
	}

	root, err := format.PayloadAt(image, head.RootCellOffset)
	if err != nil {
		t.Fatalf("PayloadAt(root): %v", err)
	}
	nk, err := format.DecodeNK(root)
	if err != nil {
		t.Fatalf("DecodeNK(root): %v", err)
	}
	if !nk.IsRoot() || nk.SubkeyCount != 2 {
		t.Fatalf("root NK = %+v, want root flag and 2 subkeys", nk)
	}
}

func TestBuildBigDataLayout(t *testing.T) {
	data := make([]byte, format.DBChunkSize+100)
	for i := range data {
		data[i] = byte(i)
	}
	image := Build(Key{
		Name:   "ROOT",
		Values: []Value{{Name: "big", Type: 3, Data: data}},
	})

	head, _ := format.ParseHeader(image)
	root, err := format.PayloadAt(image, head.RootCellOffset)
	if err != nil {
		t.Fatalf("PayloadAt(root): %v", err)
	}
	nk, _ := format.DecodeNK(root)
	listP, err := format.PayloadAt(image, nk.ValueListOffset)
	if err != nil {
		t.Fatalf("PayloadAt(value list): %v", err)
	}
	vkOffs, _ := format.DecodeValueList(listP, nk.ValueCount)
	vkP, err := format.PayloadAt(image, vkOffs[0])
	if err != nil {
		t.Fatalf("PayloadAt(vk): %v", err)
	}
	vk, _ := format.DecodeVK(vkP)
	if vk.DataInline() {
		t.Fatal("big value stored inline")
	}
	dataP, err := format.PayloadAt(image, vk.DataOffset)
	if err != nil {
		t.Fatalf("PayloadAt(data): %v", err)
	}
	if !format.IsDBRecord(dataP) {
		t.Fatal("oversized value did not produce a db record")
	}
	db, err := format.DecodeDB(dataP)
	if err != nil {
		t.Fatalf("DecodeDB: %v", err)
	}
	if db.NumBlocks != 2 {
		t.Fatalf("NumBlocks = %d, want 2", db.NumBlocks)
	}
}
