package emit

import (
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
)

const (
	unknownType   = "unknown"
	universalType = "any"
)

// Generics is the set of generic parameter names in scope at a print site,
// by position. Method is empty outside method signatures.
type Generics struct {
	Type   []string
	Method []string
}

// Extend returns g with method-level parameters added.
func (g *Generics) Extend(method []model.GenericParameter) *Generics {
	out := &Generics{Method: make([]string, len(method))}
	if g != nil {
		out.Type = g.Type
	}
	for i, gp := range method {
		out.Method[i] = gp.Name
	}
	return out
}

func (g *Generics) lookup(ref model.GenericParamRef) (string, bool) {
	if g == nil {
		return "", false
	}
	names := g.Type
	if ref.Method {
		names = g.Method
	}
	if ref.Position < 0 || ref.Position >= len(names) {
		return "", false
	}
	return names[ref.Position], true
}

// TypeGenerics returns the names of a declaration's generic parameters.
func TypeGenerics(t *model.TypeSymbol) *Generics {
	g := &Generics{Type: make([]string, len(t.GenericParameters))}
	for i, gp := range t.GenericParameters {
		g.Type[i] = gp.Name
	}
	return g
}

// Printer renders type references as declaration text.
type Printer struct {
	resolver    Resolver
	log         *zap.SugaredLogger
	usesSupport bool
}

// NewPrinter creates a printer that names definitions through r.
func NewPrinter(r Resolver) *Printer {
	return &Printer{
		resolver: r,
		log:      logger.ComponentLogger("emit.printer"),
	}
}

// UsesSupport reports whether a pointer or by-ref wrapper was printed.
func (p *Printer) UsesSupport() bool {
	return p.usesSupport
}

// Print renders ref. Generic parameters not in allowed print as unknown.
// valuePosition marks an extends clause, where the resolver may need a
// namespace-qualified runtime name.
func (p *Printer) Print(ref model.TypeReference, allowed *Generics, valuePosition bool) string {
	var sb strings.Builder
	p.write(&sb, ref, allowed, valuePosition)
	return sb.String()
}

func (p *Printer) write(sb *strings.Builder, ref model.TypeReference, allowed *Generics, value bool) {
	switch r := ref.(type) {
	case nil:
		sb.WriteString("void")
	case model.NamedRef:
		p.writeNamed(sb, r, r.TypeArguments, allowed, value)
	case model.NestedRef:
		p.writeNamed(sb, r, r.TypeArguments, allowed, value)
	case model.GenericParamRef:
		if name, ok := allowed.lookup(r); ok {
			sb.WriteString(name)
			return
		}
		p.log.Debugw("generic parameter out of scope; demoted",
			"param", r.Name, "position", r.Position, "method", r.Method)
		sb.WriteString(unknownType)
	case model.ArrayRef:
		p.write(sb, r.Element, allowed, false)
		rank := r.Rank
		if rank < 1 {
			rank = 1
		}
		for i := 0; i < rank; i++ {
			sb.WriteString("[]")
		}
	case model.PointerRef:
		p.usesSupport = true
		sb.WriteString("ptr<")
		p.write(sb, r.Pointee, allowed, false)
		sb.WriteByte('>')
	case model.ByRefRef:
		p.usesSupport = true
		sb.WriteString("ref<")
		p.write(sb, r.Referenced, allowed, false)
		sb.WriteByte('>')
	case model.PlaceholderRef:
		p.log.Errorw("placeholder reached the printer; falling back",
			logger.FieldType, r.DebugName, "fallback", universalType)
		sb.WriteString(universalType)
	default:
		sb.WriteString(universalType)
	}
}

func (p *Printer) writeNamed(sb *strings.Builder, ref model.TypeReference, args []model.TypeReference, allowed *Generics, value bool) {
	name, arity := p.resolver.Resolve(ref, value)
	sb.WriteString(name)
	if model.IsPrimitive(ref) {
		return
	}
	switch {
	case len(args) > 0:
		sb.WriteByte('<')
		for i, a := range args {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.write(sb, a, allowed, false)
		}
		sb.WriteByte('>')
	case arity > 0:
		sb.WriteByte('<')
		for i := 0; i < arity; i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(unknownType)
		}
		sb.WriteByte('>')
	}
}
