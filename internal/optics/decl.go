package optics

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// Declaration is one parsed `Type name(param = value, ...);` statement.
type Declaration struct {
	Type   string
	Name   string
	Params []Param
}

// Param is one `name = value` pair. Value is an int64, float64, bool or
// string.
type Param struct {
	Name  string
	Value any
}

// ParseDeclarations parses a sequence of element declarations. Comments in
// Go syntax are ignored. Errors wrap types.ErrInvalidDeclaration.
func ParseDeclarations(code string) ([]Declaration, error) {
	p := &declParser{}
	p.s.Init(strings.NewReader(code))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats |
		scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = fmt.Errorf("%w: %s: %s", types.ErrInvalidDeclaration, s.Position, msg)
		}
	}
	p.next()

	var decls []Declaration
	for p.tok != scanner.EOF && p.err == nil {
		d := p.declaration()
		if p.err != nil {
			break
		}
		decls = append(decls, d)
	}
	if p.err != nil {
		return nil, p.err
	}
	return decls, nil
}

type declParser struct {
	s   scanner.Scanner
	tok rune
	err error
}

func (p *declParser) next() {
	p.tok = p.s.Scan()
}

func (p *declParser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s: %s", types.ErrInvalidDeclaration, p.s.Position, fmt.Sprintf(format, args...))
	}
}

func (p *declParser) expect(tok rune) {
	if p.tok != tok {
		p.fail("expected %s, found %q", scanner.TokenString(tok), p.s.TokenText())
		return
	}
	p.next()
}

func (p *declParser) ident() string {
	if p.tok != scanner.Ident {
		p.fail("expected identifier, found %q", p.s.TokenText())
		return ""
	}
	name := p.s.TokenText()
	p.next()
	return name
}

func (p *declParser) declaration() Declaration {
	var d Declaration
	d.Type = p.ident()
	d.Name = p.ident()
	p.expect('(')
	for p.err == nil && p.tok != ')' {
		if len(d.Params) > 0 {
			p.expect(',')
		}
		name := p.ident()
		p.expect('=')
		v := p.value()
		if p.err != nil {
			break
		}
		d.Params = append(d.Params, Param{Name: name, Value: v})
	}
	p.expect(')')
	p.expect(';')
	return d
}

func (p *declParser) value() any {
	sign := 1.0
	if p.tok == '-' || p.tok == '+' {
		if p.tok == '-' {
			sign = -1
		}
		p.next()
		if p.tok != scanner.Int && p.tok != scanner.Float {
			p.fail("expected number after sign, found %q", p.s.TokenText())
			return nil
		}
	}

	text := p.s.TokenText()
	switch p.tok {
	case scanner.Int:
		p.next()
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			p.fail("bad integer %q: %v", text, err)
			return nil
		}
		return int64(sign) * n
	case scanner.Float:
		p.next()
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.fail("bad number %q: %v", text, err)
			return nil
		}
		return sign * f
	case scanner.String:
		p.next()
		s, err := strconv.Unquote(text)
		if err != nil {
			p.fail("bad string %s: %v", text, err)
			return nil
		}
		return s
	case scanner.Ident:
		p.next()
		switch text {
		case "true":
			return true
		case "false":
			return false
		}
		p.fail("unexpected identifier %q in value", text)
		return nil
	}
	p.fail("unexpected %q in value", text)
	return nil
}

// FormatDeclaration renders a declaration back to source form. Strings are
// quoted and reals use the shortest representation that round-trips.
func FormatDeclaration(d Declaration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s(", d.Type, d.Name)
	for i, prm := range d.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s = %s", prm.Name, formatLiteral(prm.Value))
	}
	b.WriteString(");")
	return b.String()
}

func formatLiteral(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case float64:
		s := strconv.FormatFloat(x, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEn") {
			s += ".0"
		}
		return s
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}
