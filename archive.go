package linkorder

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"
)

// POSIX ar container parsing. Only enough of the format is implemented
// to walk the members of a static library: the global symbol table and
// long-name string table pseudo-members are recognized and skipped, and
// a member whose header cannot be decoded ends the walk without failing
// the archive (best-effort, per the catalog's tolerance policy).

const archiveMagic = "!<arch>\n"

const arHeaderSize = 60

// arHeader is the fixed 60-byte member header: all fields are ASCII,
// space padded.
type arHeader struct {
	Name [16]byte
	Date [12]byte
	UID  [6]byte
	GID  [6]byte
	Mode [8]byte
	Size [10]byte
	Fmag [2]byte
}

func (h *arHeader) startsWith(s string) bool {
	return len(s) <= len(h.Name) && string(h.Name[:len(s)]) == s
}

// isStringTable reports whether this member is the SysV long-name
// string table ("// ").
func (h *arHeader) isStringTable() bool {
	return h.startsWith("// ")
}

// isSymbolTable reports whether this member is the archive's own symbol
// index ("/ " or "/SYM64/ "), which is not an object file.
func (h *arHeader) isSymbolTable() bool {
	return h.startsWith("/ ") || h.startsWith("/SYM64/ ")
}

func (h *arHeader) size() (int, bool) {
	sz, err := strconv.Atoi(strings.TrimSpace(string(h.Size[:])))
	if err != nil || sz < 0 {
		return 0, false
	}
	return sz, true
}

// memberName decodes the member's file name. SysV long names ("/<off>")
// are looked up in the string table; BSD long names ("#1/<len>") are
// read from the front of the member body, and the returned body slice
// excludes them. Returns false if the name cannot be decoded.
func (h *arHeader) memberName(stringTable []byte, body []byte) (string, []byte, bool) {
	// BSD-style long filename: the name is prepended to the body.
	if h.startsWith("#1/") {
		nameLen, err := strconv.Atoi(strings.TrimSpace(string(h.Name[3:])))
		if err != nil || nameLen < 0 || nameLen > len(body) {
			return "", nil, false
		}
		name := body[:nameLen]
		if end := bytes.IndexByte(name, 0); end != -1 {
			name = name[:end]
		}
		return string(name), body[nameLen:], true
	}

	// SysV-style long filename: an offset into the string table.
	if h.startsWith("/") {
		start, err := strconv.Atoi(strings.TrimSpace(string(h.Name[1:])))
		if err != nil || start < 0 || start >= len(stringTable) {
			return "", nil, false
		}
		length := bytes.Index(stringTable[start:], []byte("/\n"))
		if length == -1 {
			return "", nil, false
		}
		return string(stringTable[start : start+length]), body, true
	}

	// Short filename, "/" terminated in the SysV variant.
	if end := bytes.IndexByte(h.Name[:], '/'); end != -1 {
		return string(h.Name[:end]), body, true
	}
	return strings.TrimRight(string(h.Name[:]), " "), body, true
}

// archiveMember is one file bundled in an ar container.
type archiveMember struct {
	name string
	data []byte
}

// isArchive reports whether contents start with the ar magic.
func isArchive(contents []byte) bool {
	return bytes.HasPrefix(contents, []byte(archiveMagic))
}

// archiveMembers walks the container and returns its regular members.
// Pseudo-members and undecodable members are skipped.
func archiveMembers(contents []byte) []archiveMember {
	if !isArchive(contents) {
		return nil
	}

	var stringTable []byte
	var members []archiveMember

	pos := len(archiveMagic)
	for pos+arHeaderSize <= len(contents) {
		// Member bodies are padded to even offsets.
		if pos%2 == 1 {
			pos++
		}
		if pos+arHeaderSize > len(contents) {
			break
		}

		hdr := &arHeader{}
		if err := binary.Read(bytes.NewReader(contents[pos:pos+arHeaderSize]), binary.BigEndian, hdr); err != nil {
			break
		}

		size, ok := hdr.size()
		if !ok {
			// Without a size the walk cannot continue reliably.
			break
		}

		body := pos + arHeaderSize
		end := body + size
		if end > len(contents) {
			break
		}
		pos = end

		if hdr.isStringTable() {
			stringTable = contents[body:end]
			continue
		}
		if hdr.isSymbolTable() {
			continue
		}

		name, data, ok := hdr.memberName(stringTable, contents[body:end])
		if !ok {
			continue
		}
		if name == "__.SYMDEF" || name == "__.SYMDEF SORTED" {
			continue
		}

		members = append(members, archiveMember{name: name, data: data})
	}

	return members
}
