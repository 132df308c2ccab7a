package linkorder

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// The resolver's inputs are nested binary containers, so the tests
// synthesize real ones: minimal ELF64 relocatable objects wrapped in ar
// archives, written through the same header structs the parser reads.

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// elfObject builds a minimal ELF64 relocatable object whose symbol
// table defines and references the given global names.
func elfObject(t *testing.T, defined, undefined []string) []byte {
	t.Helper()

	names := append(append([]string{}, defined...), undefined...)
	strtab := []byte{0}
	offsets := make([]uint32, len(names))
	for i, name := range names {
		offsets[i] = uint32(len(strtab))
		strtab = append(strtab, name...)
		strtab = append(strtab, 0)
	}

	syms := []elfSymbol{{}} // index 0 is the null symbol
	idx := 0
	for range defined {
		syms = append(syms, elfSymbol{
			Name:  offsets[idx],
			Info:  uint8(elf.STB_GLOBAL)<<4 | uint8(elf.STT_FUNC),
			Shndx: uint16(elf.SHN_ABS),
		})
		idx++
	}
	for range undefined {
		syms = append(syms, elfSymbol{
			Name:  offsets[idx],
			Info:  uint8(elf.STB_GLOBAL) << 4,
			Shndx: uint16(elf.SHN_UNDEF),
		})
		idx++
	}

	shstrtab := []byte("\x00.symtab\x00.strtab\x00.shstrtab\x00")

	symtabOff := uint64(elfHeaderSize)
	symtabSize := uint64(len(syms) * elfSymbolSize)
	strtabOff := symtabOff + symtabSize
	shstrtabOff := strtabOff + uint64(len(strtab))
	shOff := shstrtabOff + uint64(len(shstrtab))
	pad := (8 - shOff%8) % 8
	shOff += pad

	sections := []elfSection{
		{},
		{Name: 1, Type: uint32(elf.SHT_SYMTAB), Offset: symtabOff, Size: symtabSize, Link: 2, Info: 1, AddrAlign: 8, EntSize: elfSymbolSize},
		{Name: 9, Type: uint32(elf.SHT_STRTAB), Offset: strtabOff, Size: uint64(len(strtab)), AddrAlign: 1},
		{Name: 17, Type: uint32(elf.SHT_STRTAB), Offset: shstrtabOff, Size: uint64(len(shstrtab)), AddrAlign: 1},
	}

	ehdr := elfHeader{
		Type:      uint16(elf.ET_REL),
		Machine:   uint16(elf.EM_X86_64),
		Version:   1,
		ShOff:     shOff,
		EhSize:    elfHeaderSize,
		ShEntSize: elfSectionSize,
		ShNum:     uint16(len(sections)),
		ShStrndx:  3,
	}
	copy(ehdr.Ident[:], elf.ELFMAG)
	ehdr.Ident[elf.EI_CLASS] = uint8(elf.ELFCLASS64)
	ehdr.Ident[elf.EI_DATA] = uint8(elf.ELFDATA2LSB)
	ehdr.Ident[elf.EI_VERSION] = uint8(elf.EV_CURRENT)

	buf := &bytes.Buffer{}
	require.NoError(t, binary.Write(buf, binary.LittleEndian, ehdr))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, syms))
	buf.Write(strtab)
	buf.Write(shstrtab)
	buf.Write(make([]byte, pad))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, sections))

	return buf.Bytes()
}

// arMemberHeader renders one 60-byte ar member header.
func arMemberHeader(name string, size int) string {
	return fmt.Sprintf("%-16s%-12s%-6s%-6s%-8s%-10s`\n", name, "0", "0", "0", "100644", strconv.Itoa(size))
}

// arArchive wraps member bodies in an ar container, naming them m0.o,
// m1.o, and so on.
func arArchive(t *testing.T, members ...[]byte) []byte {
	t.Helper()

	buf := bytes.NewBufferString(archiveMagic)
	for i, data := range members {
		buf.WriteString(arMemberHeader(fmt.Sprintf("m%d.o/", i), len(data)))
		buf.Write(data)
		if len(data)%2 == 1 {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// writeLibrary synthesizes a single-member static library on fsys.
func writeLibrary(t *testing.T, fsys afero.Fs, path string, defined, undefined []string) {
	t.Helper()

	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	archive := arArchive(t, elfObject(t, defined, undefined))
	require.NoError(t, afero.WriteFile(fsys, path, archive, 0o644))
}

// descriptor builds a LibraryDescriptor directly, bypassing parsing,
// for table and graph tests.
func descriptor(name string, defined, undefined []string) *LibraryDescriptor {
	lib := &LibraryDescriptor{
		Name:    name,
		Path:    "/libs/" + name,
		Defined: make(map[SymbolName]struct{}, len(defined)),
	}
	for _, sym := range defined {
		lib.Defined[SymbolName(sym)] = struct{}{}
	}
	for _, sym := range undefined {
		lib.Undefined = append(lib.Undefined, SymbolName(sym))
	}
	return lib
}
