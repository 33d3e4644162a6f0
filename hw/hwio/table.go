package hwio

import (
	"fmt"

	"trackerboy/emu/log"
)

// log unmapped accesses (verbose: programs routinely poke the unused
// registers of the sound area)
const logUnmapped = false

type BankIO8 interface {
	Read8(addr uint16) uint8
	// Peek8 reads a byte without side effects (debugging/tracing).
	Peek8(addr uint16) uint8
	Write8(addr uint16, val uint8)
}

// Table maps a contiguous address window to devices, one slot per address.
// Unmapped accesses are forwarded to Unmapped, if set.
type Table struct {
	Name     string
	Unmapped BankIO8

	base  uint16
	slots []BankIO8
}

func NewTable(name string, base uint16, size int) *Table {
	t := &Table{
		Name: name,
		base: base,
	}
	t.slots = make([]BankIO8, size)
	return t
}

func (t *Table) Reset() {
	clear(t.slots)
}

func (t *Table) slot(addr uint16) (int, bool) {
	if addr < t.base {
		return 0, false
	}
	idx := int(addr - t.base)
	return idx, idx < len(t.slots)
}

// MapBank maps a register bank (that is, a structure containing multiple
// hwio fields). For this function to work, registers must have a struct tag
// "hwio", containing the following fields:
//
//	offset=0x12     Byte-offset within the register bank at which this
//	                register is mapped. There is no default value: if this
//	                option is missing, the register is assumed not to be
//	                part of the bank, and is ignored by this call.
//
//	bank=NN         Ordinal bank number (if not specified, default to zero).
//	                This option allows for a structure to expose multiple
//	                banks, as regs can be grouped by bank by specified the
//	                bank number.
func (t *Table) MapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		switch r := reg.regPtr.(type) {
		case *Mem:
			t.MapMem(addr+reg.offset, r)
		case *Reg8:
			t.MapReg8(addr+reg.offset, r)
		case *Device:
			t.MapDevice(addr+reg.offset, r)
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) UnmapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		switch r := reg.regPtr.(type) {
		case *Mem:
			t.Unmap(addr+reg.offset, addr+reg.offset+uint16(r.VSize)-1)
		case *Reg8:
			t.Unmap(addr+reg.offset, addr+reg.offset)
		case *Device:
			t.Unmap(addr+reg.offset, addr+reg.offset+uint16(r.Size)-1)
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) mapBus8(addr uint16, size int, io BankIO8) {
	first, ok := t.slot(addr)
	if !ok || first+size > len(t.slots) {
		panic(fmt.Errorf("%s: mapping [%04x-%04x] out of table bounds", t.Name, addr, int(addr)+size-1))
	}
	for i := first; i < first+size; i++ {
		t.slots[i] = io
	}
}

func (t *Table) MapReg8(addr uint16, io *Reg8) {
	t.mapBus8(addr, 1, io)
}

func (t *Table) MapDevice(addr uint16, io *Device) {
	t.mapBus8(addr, io.Size, io)
}

func (t *Table) MapMem(addr uint16, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Hex16("size", uint16(mem.VSize)).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	t.mapBus8(addr, mem.VSize, mem.BankIO8())
}

func (t *Table) Unmap(begin, end uint16) {
	for addr := int(begin); addr <= int(end); addr++ {
		if idx, ok := t.slot(uint16(addr)); ok {
			t.slots[idx] = nil
		}
	}
}

func (t *Table) search(addr uint16) BankIO8 {
	if idx, ok := t.slot(addr); ok && t.slots[idx] != nil {
		return t.slots[idx]
	}
	return t.Unmapped
}

// Read8 searches in the table for the device mapped at the given address and
// forwards the read to it.
func (t *Table) Read8(addr uint16) uint8 {
	io := t.search(addr)
	if io == nil {
		if logUnmapped {
			log.ModHwIo.ErrorZ("unmapped Read8").
				String("name", t.Name).
				Hex16("addr", addr).
				End()
		}
		return 0xFF
	}
	return io.Read8(addr)
}

func (t *Table) Peek8(addr uint16) uint8 {
	io := t.search(addr)
	if io == nil {
		return 0xFF
	}
	return io.Peek8(addr)
}

func (t *Table) Write8(addr uint16, val uint8) {
	io := t.search(addr)
	if io == nil {
		if logUnmapped {
			log.ModHwIo.ErrorZ("unmapped Write8").
				String("name", t.Name).
				Hex16("addr", addr).
				Hex8("val", val).
				End()
		}
		return
	}
	io.Write8(addr, val)
}
