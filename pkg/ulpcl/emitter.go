package ulpcl

import (
	"bufio"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
)

var umcSignature = [4]byte{'U', 'M', 'C', 0x00}

// lookupTableEntry is the fixed 20-byte on-disk shape of one message's lookup record: an 8-byte
// hash, an 8-byte offset into the value blob, and a 4-byte length, all little-endian. It is
// always written field-by-field through encoding/binary rather than cast from a struct, so the
// format stays independent of Go's struct layout rules.
type lookupTableEntry struct {
	hash   uint64
	offset uint64
	length uint32
}

const lookupTableEntrySize = 8 + 8 + 4

// outputFilePath replaces a pack's '.ulp' extension with '.umc' and resolves it against the
// configured output directory. Grounded on _Get_output_file_path in compiler.cpp.
func outputFilePath(outputDir, pack string) string {
	base := filepath.Base(pack)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + ".umc"
	return filepath.Join(outputDir, name)
}

// umcFile is a buffered, append-only writer for one '.umc' catalog, mirroring _Umc_file in
// compiler.cpp's create-or-truncate semantics: a pre-existing file is opened and reset to zero
// length rather than unlinked and recreated.
type umcFile struct {
	f      *os.File
	w      *bufio.Writer
	offset uint64
	open   bool
}

func createUmcFile(path string, rep *reporter) *umcFile {
	if _, err := os.Stat(path); err == nil {
		f, openErr := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o644)
		if openErr != nil {
			rep.errorAt(nil, "E3001", "cannot open the UMC file '%s'", path)
			return &umcFile{}
		}
		return &umcFile{f: f, w: bufio.NewWriter(f), open: true}
	}

	f, err := os.Create(path)
	if err != nil {
		rep.errorAt(nil, "E3000", "cannot create the UMC file '%s'", path)
		return &umcFile{}
	}
	return &umcFile{f: f, w: bufio.NewWriter(f), open: true}
}

func (u *umcFile) isOpen() bool {
	return u.open
}

func (u *umcFile) currentOffset() uint64 {
	if !u.open {
		return 0
	}
	return u.offset
}

func (u *umcFile) write(p []byte) bool {
	if !u.open {
		return false
	}
	n, err := u.w.Write(p)
	u.offset += uint64(n)
	return err == nil
}

func (u *umcFile) writeSignature() bool {
	return u.write(umcSignature[:])
}

func (u *umcFile) writeLanguage(language string) bool {
	length := byte(len(language))
	if !u.write([]byte{length}) {
		return false
	}
	return u.write([]byte(language))
}

func (u *umcFile) writeLCID(lcid uint32) bool {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], lcid)
	return u.write(buf[:])
}

func (u *umcFile) writeMessageCount(count uint32) bool {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], count)
	return u.write(buf[:])
}

func (u *umcFile) writeLookupTableEntry(entry lookupTableEntry) bool {
	var buf [lookupTableEntrySize]byte
	binary.LittleEndian.PutUint64(buf[0:8], entry.hash)
	binary.LittleEndian.PutUint64(buf[8:16], entry.offset)
	binary.LittleEndian.PutUint32(buf[16:20], entry.length)
	return u.write(buf[:])
}

func (u *umcFile) writeMessageValue(value []byte) bool {
	return u.write(value)
}

func (u *umcFile) flushAndClose() error {
	if !u.open {
		return nil
	}
	if err := u.w.Flush(); err != nil {
		u.f.Close()
		return err
	}
	return u.f.Close()
}

// writableMessage is a message whose id has already been hashed and whose value has already
// been converted to UTF-8 bytes, ready to be laid into the lookup table and blob.
type writableMessage struct {
	hash  uint64
	value []byte
}

func convertMessages(messages []Message) []writableMessage {
	out := make([]writableMessage, len(messages))
	for i, m := range messages {
		out[i] = writableMessage{hash: computeHash(m.ID), value: []byte(m.Value)}
	}
	return out
}

// sectionWriter emits the lookup table and value blob for a flattened message list. Grounded on
// _Section_writer in compiler.cpp.
type sectionWriter struct {
	file *umcFile
	msgs []writableMessage
}

func newSectionWriter(file *umcFile, messages []Message) *sectionWriter {
	return &sectionWriter{file: file, msgs: convertMessages(messages)}
}

// writeLookupTable writes the table without recording symbol locations.
func (s *sectionWriter) writeLookupTable() bool {
	var entry lookupTableEntry
	for _, m := range s.msgs {
		entry.hash = m.hash
		entry.length = uint32(len(m.value))
		if !s.file.writeLookupTableEntry(entry) {
			return false
		}
		entry.offset += uint64(entry.length)
	}
	return true
}

// writeLookupTableWithSymbols writes the table while also recording, in symbols, the absolute
// file offset of each entry's id and of its eventual value in the blob that follows.
func (s *sectionWriter) writeLookupTableWithSymbols(symbols []Symbol) bool {
	if len(symbols) < len(s.msgs) {
		return false
	}

	absOff := s.file.currentOffset()
	var entry lookupTableEntry
	for i, m := range s.msgs {
		entry.hash = m.hash
		entry.length = uint32(len(m.value))
		if !s.file.writeLookupTableEntry(entry) {
			return false
		}
		symbols[i].Location.ID = absOff
		absOff += lookupTableEntrySize
		entry.offset += uint64(entry.length)
	}

	absOff = s.file.currentOffset()
	for i, m := range s.msgs {
		symbols[i].Location.Value = absOff
		absOff += uint64(len(m.value))
	}

	return true
}

func (s *sectionWriter) writeBlob() bool {
	for _, m := range s.msgs {
		if !s.file.writeMessageValue(m.value) {
			return false
		}
	}
	return true
}

func allocateSymbols(messages []Message) []Symbol {
	symbols := make([]Symbol, len(messages))
	for i, m := range messages {
		symbols[i] = Symbol{ID: m.ID}
	}
	return symbols
}

// compileParseTree writes tree's flattened content as a '.umc' catalog with no symbol capture.
// Grounded on _Compile_parse_tree in compiler.cpp.
func compileParseTree(file *umcFile, tree ParseTree, rep *reporter) bool {
	messages := flattenContent(tree.Content)
	if !file.writeSignature() || !file.writeLanguage(tree.Language) ||
		!file.writeLCID(tree.LCID) || !file.writeMessageCount(uint32(len(messages))) {
		rep.errorAt(nil, "E3002", "cannot generate the UMC file header")
		return false
	}

	writer := newSectionWriter(file, messages)
	if !writer.writeLookupTable() {
		rep.errorAt(nil, "E3003", "cannot generate the UMC file lookup table")
		return false
	}
	if !writer.writeBlob() {
		rep.errorAt(nil, "E3004", "cannot generate the UMC file blob")
		return false
	}
	return true
}

// compileParseTreeAndGenerateSymbols is compileParseTree's counterpart for when a symbol file
// was requested: it also records every message's lookup-table and blob offsets into freshly
// allocated Symbol values. Grounded on _Compile_parse_tree_and_generate_symbols in compiler.cpp.
func compileParseTreeAndGenerateSymbols(file *umcFile, tree ParseTree, rep *reporter) ([]Symbol, bool) {
	messages := flattenContent(tree.Content)
	if !file.writeSignature() || !file.writeLanguage(tree.Language) ||
		!file.writeLCID(tree.LCID) || !file.writeMessageCount(uint32(len(messages))) {
		rep.errorAt(nil, "E3002", "cannot generate the UMC file header")
		return nil, false
	}

	symbols := allocateSymbols(messages)
	writer := newSectionWriter(file, messages)
	if !writer.writeLookupTableWithSymbols(symbols) {
		rep.errorAt(nil, "E3003", "cannot generate the UMC file lookup table")
		return nil, false
	}
	if !writer.writeBlob() {
		rep.errorAt(nil, "E3004", "cannot generate the UMC file blob")
		return nil, false
	}
	return symbols, true
}
