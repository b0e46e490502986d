package mach

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":    "0",
	"WORD_BITS": fmt.Sprintf("%#v", WORD_BITS),
}

// Reserved I/O pseudo-cell symbols. Built in; source must not declare them.
var ioCellMap = map[string]Word{
	"stdin.getc":  CELL_GETC,
	"stdout.putc": CELL_PUTC,
}

// Warning is a non-fatal diagnostic attached to a source line.
type Warning struct {
	LineNo int
	Text   string
}

// statement is one tokenized source line: its labels and its remaining
// words (a DAT declaration or an instruction).
type statement struct {
	lineno int
	line   string
	labels []string
	words  []string
	data   bool
}

// Assembler is the two-pass assembler/loader for the machine. Pass 1
// collects symbols and data cells; pass 2 resolves instructions against
// the completed symbol table, so forward references need no patching.
type Assembler struct {
	Verbose  bool              // If set, verbosely logs the assembler actions.
	Symbols  map[string]Symbol // Symbol table built by pass 1.
	Equate   map[string]string // Map of equates.
	Warnings []Warning         // Diagnostics from the most recent Parse.

	predefine map[string]string // Predefines
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var charRe = regexp.MustCompile(`'\\?[^']'`)
var evalRe = regexp.MustCompile(`\$\([^\$]*\)`)

// valueOf returns the value of a literal word. Literals take an optional
// sign, then decimal digits or a 0x, 0b, or 0d prefixed body, covering
// [min int32, max uint32] mapped two's-complement onto the machine word.
func (asm *Assembler) valueOf(word string) (value Word, err error) {
	str := word
	negative := false
	switch {
	case strings.HasPrefix(str, "-"):
		negative = true
		str = str[1:]
	case strings.HasPrefix(str, "+"):
		str = str[1:]
	}

	if str == "" || str[0] == '\'' {
		// Character quotes should have been expanded into
		// values already.
		err = ErrParseCharacter(word)
		return
	}

	base := 10
	switch {
	case strings.HasPrefix(str, "0x"):
		base = 16
		str = str[2:]
	case strings.HasPrefix(str, "0b"):
		base = 2
		str = str[2:]
	case strings.HasPrefix(str, "0d"):
		str = str[2:]
	}

	v64, perr := strconv.ParseUint(str, base, 32)
	if perr != nil {
		err = ErrParseNumber(word)
		return
	}

	value = Word(uint32(v64))
	if negative {
		if v64 > 0x8000_0000 {
			err = ErrParseNumber(word)
			return
		}
		value = Word(^uint32(v64) + 1)
	}

	return
}

// parenEval does compile-time $(...) evaluations over the equate table.
func (asm *Assembler) parenEval(expr string) (value Word, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		word, verr := asm.valueOf(str)
		if verr != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt(int(uint32(word)))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = Word(uint32(st_int64))
	return
}

// tokenize turns one source line into a statement: comment stripped,
// character and $() evaluations expanded, equates substituted, labels
// peeled off the front. A nil statement means the line produced nothing.
func (asm *Assembler) tokenize(text string, lineno int) (stmt *statement, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	line := strings.TrimSpace(strings.SplitN(text, "#", 2)[0])

	// Do 'x' evaluations
	line = charRe.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			switch str[1:] {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = evalRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", uint32(value))
	})
	if err != nil {
		return
	}

	words := slices.DeleteFunc(strings.Fields(line), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	stmt = &statement{lineno: lineno, line: line}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		stmt.labels = append(stmt.labels, words[0][:len(words[0])-1])
		words = words[1:]
	}

	stmt.words = words
	stmt.data = len(words) > 0 && strings.EqualFold(words[0], "DAT")

	return
}

var symbolRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// define enters one symbol into the table. Each name is defined exactly
// once, across both the cell and code address spaces.
func (asm *Assembler) define(name string, sym Symbol) (err error) {
	if _, ok := ioCellMap[name]; ok || strings.Contains(name, ".") {
		err = errors.Join(ErrLabelReserved, fmt.Errorf("'%v'", name))
		return
	}
	if !symbolRe.MatchString(name) {
		err = errors.Join(ErrLabelInvalid, fmt.Errorf("'%v'", name))
		return
	}
	if _, ok := asm.Symbols[name]; ok {
		err = errors.Join(ErrLabelDuplicate, fmt.Errorf("'%v'", name))
		return
	}

	asm.Symbols[name] = sym

	return
}

// parseData evaluates a DAT declaration: an optional initializer literal
// and an optional 'TIMES count' repetition. A cell with no initializer
// starts at the undefined sentinel, not zero.
func (asm *Assembler) parseData(words []string) (value Word, times int, err error) {
	value = WORD_UNDEF
	times = 1

	rest := words[1:]
	if len(rest) > 0 && !strings.EqualFold(rest[0], "TIMES") {
		value, err = asm.valueOf(rest[0])
		if err != nil {
			return
		}
		rest = rest[1:]
	}

	if len(rest) > 0 {
		if !strings.EqualFold(rest[0], "TIMES") || len(rest) != 2 {
			err = ErrDataSyntax
			return
		}
		var count Word
		count, err = asm.valueOf(rest[1])
		if err != nil {
			return
		}
		if count < 1 {
			err = ErrDataSyntax
			return
		}
		times = int(count)
	}

	return
}

// operand resolves one operand word for the given operand class: a
// reserved I/O name, a declared symbol of the matching kind, or a raw
// numeric address or literal.
func (asm *Assembler) operand(arg OpArg, word string, referenced map[string]bool) (value Word, err error) {
	if arg == ARG_CELL {
		if addr, ok := ioCellMap[word]; ok {
			referenced[word] = true
			value = addr
			return
		}
	}

	if sym, ok := asm.Symbols[word]; ok {
		referenced[word] = true
		switch {
		case arg == ARG_CELL && sym.Kind != SYM_CELL,
			arg == ARG_CODE && sym.Kind != SYM_CODE,
			arg == ARG_WORD:
			err = errors.Join(ErrOperandKind, fmt.Errorf("'%v' is a %v symbol", word, sym.Kind))
			return
		}
		value = sym.Addr
		return
	}

	if symbolRe.MatchString(word) || strings.Contains(word, ".") {
		err = ErrSymbolMissing(word)
		return
	}

	value, err = asm.valueOf(word)

	return
}

// parseCode evaluates the words of one instruction line.
func (asm *Assembler) parseCode(words []string, referenced map[string]bool) (code Instruction, err error) {
	op, ok := opMap[strings.ToUpper(words[0])]
	if !ok {
		err = errors.Join(ErrOpcodeUnknown, fmt.Errorf("'%v'", words[0]))
		return
	}

	code.Op = op

	if op.Arg() == ARG_NONE {
		if len(words) > 1 {
			err = ErrOperandExtra
		}
		return
	}

	if len(words) < 2 {
		err = ErrOperandMissing
		return
	}
	if len(words) > 2 {
		err = ErrOperandExtra
		return
	}

	code.Arg, err = asm.operand(op.Arg(), words[1], referenced)

	return
}

// Parse parses source text into a resolved Program, or fails with a
// diagnostic identifying the offending line. Parsing identical text
// always yields identical address assignments and initial cells.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Symbols = make(map[string]Symbol, 16)
	asm.Warnings = asm.Warnings[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	var stmts []*statement
	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, line)
		}

		var stmt *statement
		stmt, err = asm.tokenize(line, lineno)
		if err != nil {
			return
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}

	// Pass 1: collect symbols. Cells and code labels are assigned in
	// source order; duplicates fail here.
	var cells []Word
	ncode := 0
	for _, stmt := range stmts {
		line, lineno = stmt.line, stmt.lineno

		if stmt.data {
			var value Word
			var times int
			value, times, err = asm.parseData(stmt.words)
			if err != nil {
				return
			}
			addr := Word(len(cells))
			for range times {
				cells = append(cells, value)
			}
			for _, label := range stmt.labels {
				err = asm.define(label, Symbol{Kind: SYM_CELL, Addr: addr, LineNo: stmt.lineno})
				if err != nil {
					return
				}
			}
			continue
		}

		for _, label := range stmt.labels {
			err = asm.define(label, Symbol{Kind: SYM_CODE, Addr: Word(ncode), LineNo: stmt.lineno})
			if err != nil {
				return
			}
		}
		if len(stmt.words) > 0 {
			ncode++
		}
	}

	// Pass 2: resolve instructions against the completed symbol table.
	var opcodes []Opcode
	referenced := make(map[string]bool, len(asm.Symbols))
	for _, stmt := range stmts {
		if stmt.data || len(stmt.words) == 0 {
			continue
		}
		line, lineno = stmt.line, stmt.lineno

		var code Instruction
		code, err = asm.parseCode(stmt.words, referenced)
		if err != nil {
			return
		}
		opcodes = append(opcodes, Opcode{LineNo: stmt.lineno, Pc: len(opcodes), Words: stmt.words, Code: code})
	}

	for _, name := range slices.Sorted(maps.Keys(asm.Symbols)) {
		if referenced[name] {
			continue
		}
		sym := asm.Symbols[name]
		asm.Warnings = append(asm.Warnings, Warning{
			LineNo: sym.LineNo,
			Text:   f("symbol '%v' is never referenced", name),
		})
	}

	prog = &Program{
		Opcodes: opcodes,
		Cells:   cells,
		Symbols: maps.Clone(asm.Symbols),
	}

	return
}
