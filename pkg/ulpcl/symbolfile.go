package ulpcl

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SymbolLocation records where, inside a compiled '.umc' file, a message's lookup-table entry
// and its value bytes begin.
type SymbolLocation struct {
	ID    uint64
	Value uint64
}

// Symbol pairs a message's flattened, group-qualified id with the byte offsets compileParseTreeAndGenerateSymbols
// recorded for it.
type Symbol struct {
	Location SymbolLocation
	ID       string
}

// serializeLocation renders a SymbolLocation as "(XXXXXXXXXXXXXXXX, XXXXXXXXXXXXXXXX)", each
// value exactly 16 uppercase hex digits.
func serializeLocation(loc SymbolLocation) string {
	return fmt.Sprintf("(%016X, %016X)", loc.ID, loc.Value)
}

func serializeSymbol(sym Symbol) string {
	return serializeLocation(sym.Location) + ": " + sym.ID
}

// symbolFileComment is the header every generated '.sym' file starts with.
func symbolFileComment() string {
	return fmt.Sprintf("// generated by ULPCL %s on %s\n\n", Version, currentDate())
}

func currentDate() string {
	now := time.Now()
	return fmt.Sprintf("%02d.%02d.%04d", now.Day(), now.Month(), now.Year())
}

// symbolFilePath makes the path to the symbol file by joining the output directory with the
// pack name, then replacing the '.ulp' extension with '.sym'. Grounded on
// _Get_symbol_file_path in symbol_file.cpp.
func symbolFilePath(outputDir, pack string) string {
	base := filepath.Base(pack)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".sym"
	return filepath.Join(outputDir, name)
}

// GenerateSymbolFile writes pack's compiled symbols to a '.sym' file beside its '.umc' output.
// Grounded on generate_symbol_file in symbol_file.cpp.
func GenerateSymbolFile(outputDir, pack string, symbols []Symbol, rep *reporter) bool {
	path := symbolFilePath(outputDir, pack)

	var f *os.File
	if _, err := os.Stat(path); err == nil {
		opened, openErr := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o644)
		if openErr != nil {
			rep.errorAt(nil, "E4001", "cannot open the symbol file '%s'", path)
			return false
		}
		f = opened
	} else {
		created, createErr := os.Create(path)
		if createErr != nil {
			rep.errorAt(nil, "E4000", "cannot create the symbol file '%s'", path)
			return false
		}
		f = created
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(symbolFileComment()); err != nil {
		rep.warnAt(nil, "W4000", "cannot write comment to the symbol file '%s'", path)
	}

	for i, sym := range symbols {
		line := serializeSymbol(sym)
		if i < len(symbols)-1 {
			line += "\n"
		}
		if _, err := w.WriteString(line); err != nil {
			rep.errorAt(nil, "E4002", "cannot write symbol to the symbol file '%s'", path)
			return false
		}
	}

	if err := w.Flush(); err != nil {
		rep.errorAt(nil, "E4002", "cannot write symbol to the symbol file '%s'", path)
		return false
	}
	return true
}
