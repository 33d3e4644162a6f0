package hwio

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type bankReg struct {
	offset uint16
	regPtr any
}

type tagOpts map[string]string

func parseTag(tag string) tagOpts {
	opts := make(tagOpts)
	for _, tok := range strings.Split(tag, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		k, v, _ := strings.Cut(tok, "=")
		opts[k] = v
	}
	return opts
}

func (o tagOpts) uint(key string, bits int) (uint64, bool, error) {
	s, ok := o[key]
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, true, fmt.Errorf("invalid %s=%q: %w", key, s, err)
	}
	return n, true, nil
}

// bankGetRegs returns the registers of the given bank number, along with their
// offset within the bank.
func bankGetRegs(bank any, bankNum int) ([]bankReg, error) {
	sval := reflect.ValueOf(bank)
	if sval.Kind() != reflect.Pointer || sval.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("bank must be a pointer to struct, got %T", bank)
	}
	sval = sval.Elem()
	styp := sval.Type()

	var regs []bankReg
	for i := range styp.NumField() {
		field := styp.Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		opts := parseTag(tag)

		num, _, err := opts.uint("bank", 8)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if int(num) != bankNum {
			continue
		}
		off, ok, err := opts.uint("offset", 16)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if !ok {
			continue
		}
		regs = append(regs, bankReg{
			offset: uint16(off),
			regPtr: sval.Field(i).Addr().Interface(),
		})
	}
	return regs, nil
}

// MustInitRegs is like InitRegs but panics on error.
func MustInitRegs(data any) {
	if err := InitRegs(data); err != nil {
		panic(err)
	}
}

// InitRegs initializes the hwio fields of the struct pointed to by data, from
// their struct tags:
//
//	reset=0x12      initial value (Reg8)
//	rwmask=0xF0     bits that can be written, others are read-only (Reg8)
//	unused=0x80     bits that always read back as 1 (Reg8)
//	readonly        writes are ignored
//	writeonly       reads return the fill value
//	size=0x10       size in bytes (Mem, Device)
//	vsize=0x20      virtual size, for mirroring (Mem)
//	fill=0xFF       value read from a Device with no read callback
//	rcb, wcb, pcb   bind the read/write/peek callbacks to the methods
//	                Read<NAME>, Write<NAME> and Peek<NAME> of data, where
//	                NAME is the upper-cased field name. rcb=Method selects
//	                a method explicitly.
func InitRegs(data any) error {
	val := reflect.ValueOf(data)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("InitRegs: expected pointer to struct, got %T", data)
	}
	sval := val.Elem()
	styp := sval.Type()

	var errs []error
	for i := range styp.NumField() {
		field := styp.Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		opts := parseTag(tag)
		var err error
		switch r := sval.Field(i).Addr().Interface().(type) {
		case *Reg8:
			err = initReg8(val, field.Name, r, opts)
		case *Mem:
			err = initMem(val, field.Name, r, opts)
		case *Device:
			err = initDevice(val, field.Name, r, opts)
		default:
			err = fmt.Errorf("unsupported hwio type %s", field.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", field.Name, err))
		}
	}
	return errors.Join(errs...)
}

func flagsFromOpts(opts tagOpts) (RWFlags, error) {
	_, ro := opts["readonly"]
	_, wo := opts["writeonly"]
	switch {
	case ro && wo:
		return 0, errors.New("readonly and writeonly are mutually exclusive")
	case ro:
		return ReadOnlyFlag, nil
	case wo:
		return WriteOnlyFlag, nil
	}
	return ReadWriteFlag, nil
}

func initReg8(obj reflect.Value, name string, reg *Reg8, opts tagOpts) error {
	reg.Name = name
	reset, _, err := opts.uint("reset", 8)
	if err != nil {
		return err
	}
	reg.Value = uint8(reset)
	rwmask, ok, err := opts.uint("rwmask", 8)
	if err != nil {
		return err
	}
	if ok {
		reg.RoMask = ^uint8(rwmask)
	}
	unused, _, err := opts.uint("unused", 8)
	if err != nil {
		return err
	}
	reg.Unused = uint8(unused)
	if reg.Flags, err = flagsFromOpts(opts); err != nil {
		return err
	}

	if err := bindCallback(obj, "rcb", "Read", name, opts, &reg.ReadCb); err != nil {
		return err
	}
	if err := bindCallback(obj, "pcb", "Peek", name, opts, &reg.PeekCb); err != nil {
		return err
	}
	return bindCallback(obj, "wcb", "Write", name, opts, &reg.WriteCb)
}

func initMem(obj reflect.Value, name string, mem *Mem, opts tagOpts) error {
	mem.Name = name
	size, ok, err := opts.uint("size", 32)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("missing size")
	}
	if size&(size-1) != 0 {
		return fmt.Errorf("size %#x is not pow2", size)
	}
	mem.Data = make([]byte, size)
	mem.VSize = int(size)
	if vsize, ok, err := opts.uint("vsize", 32); err != nil {
		return err
	} else if ok {
		mem.VSize = int(vsize)
	}
	if _, ok := opts["readonly"]; ok {
		mem.Flags = MemFlag8ReadOnly
	}
	return bindCallback(obj, "wcb", "Write", name, opts, &mem.WriteCb)
}

func initDevice(obj reflect.Value, name string, dev *Device, opts tagOpts) error {
	dev.Name = name
	size, ok, err := opts.uint("size", 32)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("missing size")
	}
	dev.Size = int(size)
	fill, _, err := opts.uint("fill", 8)
	if err != nil {
		return err
	}
	dev.Fill = uint8(fill)
	if dev.Flags, err = flagsFromOpts(opts); err != nil {
		return err
	}

	if err := bindCallback(obj, "rcb", "Read", name, opts, &dev.ReadCb); err != nil {
		return err
	}
	if err := bindCallback(obj, "pcb", "Peek", name, opts, &dev.PeekCb); err != nil {
		return err
	}
	return bindCallback(obj, "wcb", "Write", name, opts, &dev.WriteCb)
}

// bindCallback looks for the method designated by the tag option key and
// stores it into cb, whose type is the expected method signature.
func bindCallback[F any](obj reflect.Value, key, prefix, name string, opts tagOpts, cb *F) error {
	mname, ok := opts[key]
	if !ok {
		return nil
	}
	if mname == "" {
		mname = prefix + strings.ToUpper(name)
	}
	m := obj.MethodByName(mname)
	if !m.IsValid() {
		return fmt.Errorf("%s: method %s not found on %s", key, mname, obj.Type())
	}
	fn, ok := m.Interface().(F)
	if !ok {
		return fmt.Errorf("%s: method %s has signature %s, want %T", key, mname, m.Type(), *cb)
	}
	*cb = fn
	return nil
}
