package pdftext

import (
	"strings"

	"github.com/gardar/agendapdf/pkg/agenda"
)

// glyphWidth is the estimated advance of one glyph, in text space units per point of font size
const glyphWidth = 0.5

// wordGap is the TJ adjustment, in thousandths of an em, read as a space between words
const wordGap = -200

// matrix is a PDF transformation matrix [a b c d e f]
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// mul returns m × n
func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func translate(tx, ty float64) matrix {
	return matrix{1, 0, 0, 1, tx, ty}
}

// graphics is the part of the graphics state that affects text placement
type graphics struct {
	ctm       matrix
	fontSize  float64
	charSpace float64
	wordSpace float64
	scale     float64 // Horizontal scaling, percent
	leading   float64
}

// interpreter walks one content stream and collects the fragments it shows
type interpreter struct {
	gs        graphics
	stack     []graphics
	tm, tlm   matrix
	operands  []object
	fragments []agenda.Fragment
}

// Interpret returns the text fragments shown by a decoded content stream, in stream order.
// Unknown operators are ignored; blank strings produce no fragment.
func Interpret(content []byte) []agenda.Fragment {
	in := &interpreter{
		gs:  graphics{ctm: identity, fontSize: 1, scale: 100},
		tm:  identity,
		tlm: identity,
	}
	lex := &lexer{data: content}
	for {
		obj, ok := lex.next()
		if !ok {
			break
		}
		if obj.kind != kindOperator {
			in.operands = append(in.operands, obj)
			continue
		}
		op := string(obj.str)
		in.apply(op)
		if op == "ID" {
			lex.skipInlineImage()
		}
		in.operands = in.operands[:0]
	}
	return in.fragments
}

// num returns the i-th operand as a number, 0 when missing or not numeric
func (in *interpreter) num(i int) float64 {
	if i < len(in.operands) && in.operands[i].kind == kindNumber {
		return in.operands[i].num
	}
	return 0
}

// last returns the last operand, if any
func (in *interpreter) last() (object, bool) {
	if len(in.operands) == 0 {
		return object{}, false
	}
	return in.operands[len(in.operands)-1], true
}

func (in *interpreter) apply(op string) {
	switch op {
	case "q":
		in.stack = append(in.stack, in.gs)
	case "Q":
		if n := len(in.stack); n > 0 {
			in.gs = in.stack[n-1]
			in.stack = in.stack[:n-1]
		}
	case "cm":
		if len(in.operands) >= 6 {
			m := matrix{in.num(0), in.num(1), in.num(2), in.num(3), in.num(4), in.num(5)}
			in.gs.ctm = m.mul(in.gs.ctm)
		}
	case "BT":
		in.tm, in.tlm = identity, identity
	case "Tf":
		if len(in.operands) >= 2 {
			in.gs.fontSize = in.num(1)
		}
	case "Tc":
		in.gs.charSpace = in.num(0)
	case "Tw":
		in.gs.wordSpace = in.num(0)
	case "Tz":
		in.gs.scale = in.num(0)
	case "TL":
		in.gs.leading = in.num(0)
	case "Td":
		in.moveLine(in.num(0), in.num(1))
	case "TD":
		in.gs.leading = -in.num(1)
		in.moveLine(in.num(0), in.num(1))
	case "Tm":
		if len(in.operands) >= 6 {
			in.tm = matrix{in.num(0), in.num(1), in.num(2), in.num(3), in.num(4), in.num(5)}
			in.tlm = in.tm
		}
	case "T*":
		in.moveLine(0, -in.gs.leading)
	case "Tj":
		if s, ok := in.last(); ok && s.kind == kindString {
			in.show([][]byte{s.str}, nil)
		}
	case "'":
		in.moveLine(0, -in.gs.leading)
		if s, ok := in.last(); ok && s.kind == kindString {
			in.show([][]byte{s.str}, nil)
		}
	case `"`:
		if len(in.operands) >= 3 {
			in.gs.wordSpace = in.num(0)
			in.gs.charSpace = in.num(1)
		}
		in.moveLine(0, -in.gs.leading)
		if s, ok := in.last(); ok && s.kind == kindString {
			in.show([][]byte{s.str}, nil)
		}
	case "TJ":
		if a, ok := in.last(); ok && a.kind == kindArray {
			var parts [][]byte
			var adjust []float64
			pending := 0.0
			for _, el := range a.arr {
				switch el.kind {
				case kindNumber:
					pending += el.num
				case kindString:
					parts = append(parts, el.str)
					adjust = append(adjust, pending)
					pending = 0
				}
			}
			in.show(parts, adjust)
		}
	}
}

// moveLine starts a new line offset from the start of the current one
func (in *interpreter) moveLine(tx, ty float64) {
	in.tlm = translate(tx, ty).mul(in.tlm)
	in.tm = in.tlm
}

// show emits one fragment for the given strings, shown back to back.
// adjust holds the TJ displacement preceding each string, in thousandths of an em.
func (in *interpreter) show(parts [][]byte, adjust []float64) {
	var text strings.Builder
	start := in.tm.mul(in.gs.ctm)
	started := false
	for i, raw := range parts {
		var a float64
		if i < len(adjust) {
			a = adjust[i]
		}
		if a != 0 {
			in.advance(-a / 1000 * in.gs.fontSize)
		}
		s := decode(raw)
		if !started {
			if strings.TrimSpace(s) == "" {
				in.advance(in.width(s))
				continue
			}
			// Leading blank parts only move the pen
			start = in.tm.mul(in.gs.ctm)
			started = true
		} else if a <= wordGap {
			text.WriteByte(' ')
		}
		text.WriteString(s)
		in.advance(in.width(s))
	}

	if t := strings.TrimSpace(text.String()); t != "" {
		in.fragments = append(in.fragments, agenda.Fragment{Text: t, X: start[4], Y: start[5]})
	}
}

// width estimates the horizontal displacement of s in unscaled text space
func (in *interpreter) width(s string) float64 {
	var w float64
	for _, r := range s {
		w += glyphWidth*in.gs.fontSize + in.gs.charSpace
		if r == ' ' {
			w += in.gs.wordSpace
		}
	}
	return w
}

// advance moves the text matrix along the baseline
func (in *interpreter) advance(tx float64) {
	in.tm = translate(tx*in.gs.scale/100, 0).mul(in.tm)
}
