package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teranos/tsbindgen/errors"
	"github.com/teranos/tsbindgen/model"
)

// CoreLibrary is the assembly primitive references resolve to.
const CoreLibrary = "System.Private.CoreLib"

// genericScope maps generic parameter names to positions while a type or
// method is decoded.
type genericScope struct {
	typeParams   []string
	methodParams []string
}

func (s genericScope) withMethod(names []string) genericScope {
	return genericScope{typeParams: s.typeParams, methodParams: names}
}

func (s genericScope) lookup(name string) (model.GenericParamRef, bool) {
	for i, n := range s.methodParams {
		if n == name {
			return model.GenericParamRef{Name: n, Position: i, Method: true}, true
		}
	}
	for i, n := range s.typeParams {
		if n == name {
			return model.GenericParamRef{Name: n, Position: i}, true
		}
	}
	return model.GenericParamRef{}, false
}

func (s genericScope) name(method bool, pos int) string {
	list := s.typeParams
	if method {
		list = s.methodParams
	}
	if pos < len(list) {
		return list[pos]
	}
	if method {
		return "TM" + strconv.Itoa(pos)
	}
	return "T" + strconv.Itoa(pos)
}

// refParser is a recursive-descent parser over the compact reference syntax.
type refParser struct {
	src   string
	pos   int
	scope genericScope
}

// parseRef parses a compact type reference. Named references come back
// unresolved; primitives and generic parameters resolve immediately.
func parseRef(s string, scope genericScope) (model.TypeReference, error) {
	p := &refParser{src: strings.TrimSpace(s), scope: scope}
	if p.src == "" {
		return nil, nil
	}
	ref, err := p.parse()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return ref, nil
}

func (p *refParser) errorf(format string, args ...interface{}) error {
	return errors.NewInvalidInputf("type reference %q at %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *refParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *refParser) peek() byte {
	p.skipSpace()
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *refParser) parse() (model.TypeReference, error) {
	ref, err := p.parseBase()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			ref = model.PointerRef{Pointee: ref}
		case '&':
			p.pos++
			ref = model.ByRefRef{Referenced: ref}
		case '[':
			rank, ok := p.arrayRank()
			if !ok {
				return ref, nil
			}
			ref = model.ArrayRef{Element: ref, Rank: rank}
		default:
			return ref, nil
		}
	}
}

// arrayRank consumes "[]" or "[,...]" and reports false, consuming nothing,
// for a type argument list.
func (p *refParser) arrayRank() (int, bool) {
	i := p.pos + 1
	rank := 1
	for i < len(p.src) && (p.src[i] == ',' || p.src[i] == ' ') {
		if p.src[i] == ',' {
			rank++
		}
		i++
	}
	if i >= len(p.src) || p.src[i] != ']' {
		return 0, false
	}
	p.pos = i + 1
	return rank, true
}

func (p *refParser) parseBase() (model.TypeReference, error) {
	if p.peek() == '!' {
		return p.parseGenericParam()
	}

	assembly, name := p.qualifiedName()
	if name == "" {
		return nil, p.errorf("expected a type name")
	}
	args, err := p.typeArgs()
	if err != nil {
		return nil, err
	}

	if assembly == "" && len(args) == 0 && p.peek() != '+' {
		if gp, ok := p.scope.lookup(name); ok {
			return gp, nil
		}
		if _, ok := model.PrimitiveName(model.Named(CoreLibrary, name)); ok {
			return model.Named(CoreLibrary, name), nil
		}
	}

	ref := definition(assembly, withArity(name, len(args)), args)
	for p.peek() == '+' {
		p.pos++
		_, seg := p.qualifiedName()
		if seg == "" {
			return nil, p.errorf("expected a nested type name")
		}
		nestedArgs, err := p.typeArgs()
		if err != nil {
			return nil, err
		}
		ref = model.NestedRef{Declaring: ref, Name: withArity(seg, len(nestedArgs)), TypeArguments: nestedArgs}
	}
	return ref, nil
}

// definition stands in for a named type until backfill. A plain name becomes
// a Placeholder; a generic instantiation keeps its arguments in a NamedRef
// whose Assembly stays empty until the definition is found.
func definition(assembly, fullName string, args []model.TypeReference) model.TypeReference {
	if len(args) > 0 {
		return model.NamedRef{FullName: fullName, Assembly: assembly, TypeArguments: args}
	}
	return model.PlaceholderRef{DebugName: fullName, Target: model.StableID{AssemblyName: assembly, FullName: fullName}}
}

func (p *refParser) parseGenericParam() (model.TypeReference, error) {
	p.pos++
	method := false
	if p.pos < len(p.src) && p.src[p.pos] == '!' {
		method = true
		p.pos++
	}
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return nil, p.errorf("expected a generic parameter position")
	}
	return model.GenericParamRef{Name: p.scope.name(method, n), Position: n, Method: method}, nil
}

// qualifiedName reads "[Asm:]Name" where Name may contain dots, backticks
// and digits.
func (p *refParser) qualifiedName() (string, string) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && isNameByte(p.src[p.pos]) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if p.pos < len(p.src) && p.src[p.pos] == ':' {
		p.pos++
		start = p.pos
		for p.pos < len(p.src) && isNameByte(p.src[p.pos]) {
			p.pos++
		}
		return name, p.src[start:p.pos]
	}
	return "", name
}

func isNameByte(c byte) bool {
	return c == '.' || c == '`' || c == '_' ||
		c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (p *refParser) typeArgs() ([]model.TypeReference, error) {
	if p.peek() != '[' {
		return nil, nil
	}
	if _, isArray := p.lookaheadArray(); isArray {
		return nil, nil
	}
	p.pos++
	var args []model.TypeReference
	for {
		arg, err := p.parse()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return args, nil
		default:
			return nil, p.errorf("expected ',' or ']' in type arguments")
		}
	}
}

func (p *refParser) lookaheadArray() (int, bool) {
	save := p.pos
	rank, ok := p.arrayRank()
	p.pos = save
	return rank, ok
}

// withArity appends the arity marker to a generic name written without one.
func withArity(name string, arity int) string {
	if arity == 0 || strings.Contains(name, "`") {
		return name
	}
	return name + "`" + strconv.Itoa(arity)
}
