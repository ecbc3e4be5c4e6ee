package pdftext

import (
	"bytes"
	"strconv"
)

// kind is the type of a content stream token
type kind int

const (
	kindNumber kind = iota
	kindString
	kindName
	kindArray
	kindDict
	kindOperator
)

// object is one operand or operator of a content stream
type object struct {
	kind kind
	num  float64
	str  []byte   // String bytes, name or operator
	arr  []object // Array elements
}

// lexer splits a decoded content stream into objects
type lexer struct {
	data []byte
	pos  int
}

func isSpace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// skipSpace skips whitespace and comments
func (l *lexer) skipSpace() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isSpace(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		default:
			return
		}
	}
}

// next returns the next object, or false at the end of the stream
func (l *lexer) next() (object, bool) {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return object{}, false
	}

	c := l.data[l.pos]
	switch {
	case c == '(':
		return object{kind: kindString, str: l.literalString()}, true
	case c == '<' && l.peek(1) == '<':
		l.pos += 2
		l.skipDict()
		return object{kind: kindDict}, true
	case c == '<':
		return object{kind: kindString, str: l.hexString()}, true
	case c == '[':
		l.pos++
		var arr []object
		for {
			l.skipSpace()
			if l.pos >= len(l.data) {
				break
			}
			if l.data[l.pos] == ']' {
				l.pos++
				break
			}
			obj, ok := l.next()
			if !ok {
				break
			}
			arr = append(arr, obj)
		}
		return object{kind: kindArray, arr: arr}, true
	case c == '/':
		l.pos++
		return object{kind: kindName, str: l.regular()}, true
	case c == ']' || c == ')' || c == '>' || c == '{' || c == '}':
		// Stray delimiter
		l.pos++
		return l.next()
	}

	word := l.regular()
	if n, err := strconv.ParseFloat(string(word), 64); err == nil {
		return object{kind: kindNumber, num: n}, true
	}
	return object{kind: kindOperator, str: word}, true
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset < len(l.data) {
		return l.data[l.pos+offset]
	}
	return 0
}

// regular reads a run of regular characters
func (l *lexer) regular() []byte {
	start := l.pos
	for l.pos < len(l.data) && !isSpace(l.data[l.pos]) && !isDelimiter(l.data[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		// Lone delimiter we cannot interpret
		l.pos++
	}
	return l.data[start:l.pos]
}

// literalString reads a parenthesized string, resolving escapes and nested parentheses
func (l *lexer) literalString() []byte {
	l.pos++ // (
	var out []byte
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return out
			}
		case '\\':
			if l.pos >= len(l.data) {
				return out
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				// Line continuation
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for i := 0; i < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; i++ {
						val = val*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					out = append(out, byte(val))
				} else {
					out = append(out, e)
				}
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// hexString reads a <...> string; an odd final digit is padded with 0
func (l *lexer) hexString() []byte {
	l.pos++ // <
	var out []byte
	var hi byte
	half := false
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		if c == '>' {
			break
		}
		v, ok := hexValue(c)
		if !ok {
			continue
		}
		if half {
			out = append(out, hi<<4|v)
		} else {
			hi = v
		}
		half = !half
	}
	if half {
		out = append(out, hi<<4)
	}
	return out
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// skipDict skips to the end of a dictionary, nested dictionaries and strings included
func (l *lexer) skipDict() {
	depth := 1
	for l.pos < len(l.data) && depth > 0 {
		switch {
		case l.data[l.pos] == '(':
			l.literalString()
		case l.data[l.pos] == '<' && l.peek(1) == '<':
			depth++
			l.pos += 2
		case l.data[l.pos] == '>' && l.peek(1) == '>':
			depth--
			l.pos += 2
		default:
			l.pos++
		}
	}
}

// skipInlineImage skips the binary data of an inline image, up to and including EI
func (l *lexer) skipInlineImage() {
	if l.pos < len(l.data) && isSpace(l.data[l.pos]) {
		l.pos++
	}
	for l.pos < len(l.data) {
		i := bytes.Index(l.data[l.pos:], []byte("EI"))
		if i < 0 {
			l.pos = len(l.data)
			return
		}
		at := l.pos + i
		l.pos = at + 2
		before := at == 0 || isSpace(l.data[at-1])
		after := l.pos >= len(l.data) || isSpace(l.data[l.pos])
		if before && after {
			return
		}
	}
}
