package linkorder

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"errors"
	"fmt"
)

// Minimal ELF64 relocatable-object reader. The only thing the resolver
// needs from an object is its symbol table, classified into defined and
// undefined names, so this reads the headers directly instead of going
// through debug/elf's file reader: symbol names stay raw bytes all the
// way through, as the matching contract requires.

type elfHeader struct {
	Ident     [16]uint8
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint64
	PhOff     uint64
	ShOff     uint64
	Flags     uint32
	EhSize    uint16
	PhEntSize uint16
	PhNum     uint16
	ShEntSize uint16
	ShNum     uint16
	ShStrndx  uint16
}

type elfSection struct {
	Name      uint32
	Type      uint32
	Flags     uint64
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntSize   uint64
}

type elfSymbol struct {
	Name  uint32
	Info  uint8
	Other uint8
	Shndx uint16
	Value uint64
	Size  uint64
}

// isUndefined reports whether the symbol is an unresolved external
// reference.
func (s *elfSymbol) isUndefined() bool {
	return s.Shndx == uint16(elf.SHN_UNDEF)
}

const (
	elfHeaderSize  = 64
	elfSectionSize = 64
	elfSymbolSize  = 24
)

var errNotRelocatable = errors.New("not a relocatable object")

// objectSymbols extracts the global symbols of one ELF64 relocatable
// object, split into definitions and unresolved references. Local
// symbols cannot participate in cross-library resolution and are not
// reported.
func objectSymbols(contents []byte) ([]DefinedSymbol, []UndefinedSymbol, error) {
	order, err := checkObjectHeader(contents)
	if err != nil {
		return nil, nil, err
	}

	var ehdr elfHeader
	if err := binary.Read(bytes.NewReader(contents), order, &ehdr); err != nil {
		return nil, nil, fmt.Errorf("reading ELF header: %w", err)
	}
	if elf.Type(ehdr.Type) != elf.ET_REL {
		return nil, nil, errNotRelocatable
	}

	sections, err := readSections(contents, order, &ehdr)
	if err != nil {
		return nil, nil, err
	}

	symtab := findSection(sections, uint32(elf.SHT_SYMTAB))
	if symtab == nil {
		// An object with no symbol table contributes nothing.
		return nil, nil, nil
	}

	strtab, err := sectionBytes(contents, sections, int(symtab.Link))
	if err != nil {
		return nil, nil, err
	}
	symdata, err := sectionBytes(contents, sections, sectionIndex(sections, symtab))
	if err != nil {
		return nil, nil, err
	}

	count := int(symtab.Size / elfSymbolSize)
	syms := make([]elfSymbol, count)
	if err := binary.Read(bytes.NewReader(symdata), order, syms); err != nil {
		return nil, nil, fmt.Errorf("reading symbol table: %w", err)
	}

	var defined []DefinedSymbol
	var undefined []UndefinedSymbol

	// sh_info of the symbol table is the index of the first non-local
	// symbol; everything before it is local to the object.
	firstGlobal := int(symtab.Info)
	if firstGlobal < 1 {
		firstGlobal = 1
	}
	for i := firstGlobal; i < count; i++ {
		sym := &syms[i]
		name, ok := symbolName(strtab, sym.Name)
		if !ok || len(name) == 0 {
			continue
		}
		if sym.isUndefined() {
			undefined = append(undefined, UndefinedSymbol{Name: name})
		} else {
			defined = append(defined, DefinedSymbol{Name: name})
		}
	}

	return defined, undefined, nil
}

// checkObjectHeader validates the ELF identification bytes and returns
// the file's byte order. Only 64-bit objects are supported; 32-bit
// static libraries do not occur in the build trees this resolver scans.
func checkObjectHeader(contents []byte) (binary.ByteOrder, error) {
	if len(contents) < elfHeaderSize {
		return nil, errNotRelocatable
	}
	if !bytes.HasPrefix(contents, []byte(elf.ELFMAG)) {
		return nil, errNotRelocatable
	}
	if elf.Class(contents[elf.EI_CLASS]) != elf.ELFCLASS64 {
		return nil, fmt.Errorf("unsupported ELF class %d", contents[elf.EI_CLASS])
	}
	switch elf.Data(contents[elf.EI_DATA]) {
	case elf.ELFDATA2LSB:
		return binary.LittleEndian, nil
	case elf.ELFDATA2MSB:
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("unsupported ELF data encoding %d", contents[elf.EI_DATA])
}

func readSections(contents []byte, order binary.ByteOrder, ehdr *elfHeader) ([]elfSection, error) {
	num := int(ehdr.ShNum)
	off := int(ehdr.ShOff)
	if num == 0 {
		return nil, nil
	}
	if off < 0 || off+num*elfSectionSize > len(contents) {
		return nil, errors.New("section header table out of bounds")
	}

	sections := make([]elfSection, num)
	if err := binary.Read(bytes.NewReader(contents[off:]), order, sections); err != nil {
		return nil, fmt.Errorf("reading section headers: %w", err)
	}
	return sections, nil
}

func findSection(sections []elfSection, typ uint32) *elfSection {
	for i := range sections {
		if sections[i].Type == typ {
			return &sections[i]
		}
	}
	return nil
}

func sectionIndex(sections []elfSection, s *elfSection) int {
	for i := range sections {
		if &sections[i] == s {
			return i
		}
	}
	return -1
}

func sectionBytes(contents []byte, sections []elfSection, idx int) ([]byte, error) {
	if idx < 0 || idx >= len(sections) {
		return nil, fmt.Errorf("section index %d out of range", idx)
	}
	s := &sections[idx]
	off, size := int(s.Offset), int(s.Size)
	if off < 0 || size < 0 || off+size > len(contents) {
		return nil, fmt.Errorf("section %d out of bounds", idx)
	}
	return contents[off : off+size], nil
}

// symbolName reads a NUL-terminated name out of the string table. The
// bytes are kept as-is; they are not required to be valid text.
func symbolName(strtab []byte, offset uint32) (SymbolName, bool) {
	if int(offset) >= len(strtab) {
		return "", false
	}
	end := bytes.IndexByte(strtab[offset:], 0)
	if end == -1 {
		return "", false
	}
	return SymbolName(strtab[offset : int(offset)+end]), true
}
