package emit

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
	"github.com/teranos/tsbindgen/plan"
	"github.com/teranos/tsbindgen/policy"
	"github.com/teranos/tsbindgen/renamer"
	"github.com/teranos/tsbindgen/shape"
)

const indentUnit = "    "

// declWriter prints the declarations of one module.
type declWriter struct {
	sb      strings.Builder
	printer *Printer
	names   *renamer.Renamer
	policy  *policy.Policy
	log     *zap.SugaredLogger
	indent  string
}

func newDeclWriter(p *Printer, r *renamer.Renamer, pol *policy.Policy, indent string) *declWriter {
	return &declWriter{
		printer: p,
		names:   r,
		policy:  pol,
		log:     logger.ComponentLogger("emit.declarations"),
		indent:  indent,
	}
}

func (w *declWriter) line(depth int, s string) {
	w.sb.WriteString(w.indent)
	for i := 0; i < depth; i++ {
		w.sb.WriteString(indentUnit)
	}
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

func (w *declWriter) doc(depth int, text string) {
	if !w.policy.Emission.EmitDocComments {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		w.line(depth, "/** "+escapeDoc(lines[0])+" */")
		return
	}
	w.line(depth, "/**")
	for _, l := range lines {
		w.line(depth, strings.TrimRight(" * "+escapeDoc(strings.TrimSpace(l)), " "))
	}
	w.line(depth, " */")
}

func escapeDoc(s string) string {
	return strings.ReplaceAll(s, "*/", "*\\/")
}

func (w *declWriter) typeName(t *model.TypeSymbol) string {
	if name, ok := w.names.GetFinalTypeName(t.ID.String()); ok {
		return name
	}
	w.log.Errorw("type has no reserved name", logger.FieldStableID, t.ID.String())
	return renamer.TypeBaseName(t.ID.FullName)
}

func (w *declWriter) memberName(t *model.TypeSymbol, m model.Member) string {
	if name, ok := w.names.GetFinalMemberName(shape.ScopeOf(t, m), shape.NameKey(t, m)); ok {
		return name
	}
	w.log.Errorw("member has no reserved name", logger.FieldMember, m.Info().ID.String())
	return renamer.SanitizeIdentifier(shape.RequestedName(m))
}

// writeType prints one declaration.
func (w *declWriter) writeType(t *model.TypeSymbol) {
	doc := t.Doc
	if t.Synthetic && t.ExtensionReceiver != nil && doc == "" {
		doc = "Extension methods for " + model.CanonicalTypeName(t.ExtensionReceiver) + "."
	}
	w.doc(0, doc)

	name := w.typeName(t)
	gens := TypeGenerics(t)
	params := w.genericParams(t.GenericParameters, gens)

	switch {
	case t.Kind == model.KindEnum:
		w.writeEnum(t, name)
	case t.Kind == model.KindDelegate:
		w.writeDelegate(t, name+params, gens)
	case t.Kind == model.KindInterface:
		header := "export interface " + name + params
		if _, ifaces := plan.Heritage(t, w.policy); len(ifaces) > 0 {
			header += " extends " + w.printList(ifaces, gens)
		}
		w.writeBody(t, header, gens, false)
	case t.IsStaticContainer():
		w.writeBody(t, "export abstract class "+name+params, gens, true)
	default:
		header := "export "
		if t.Modifiers.Abstract {
			header += "abstract "
		}
		header += "class " + name + params
		base, ifaces := plan.Heritage(t, w.policy)
		if base != nil {
			header += " extends " + w.printer.Print(base, gens, true)
		}
		if len(ifaces) > 0 {
			header += " implements " + w.printList(ifaces, gens)
		}
		w.writeBody(t, header, gens, true)
	}
}

func (w *declWriter) printList(refs []model.TypeReference, gens *Generics) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = w.printer.Print(r, gens, false)
	}
	return strings.Join(parts, ", ")
}

func (w *declWriter) genericParams(gps []model.GenericParameter, scope *Generics) string {
	if len(gps) == 0 {
		return ""
	}
	parts := make([]string, len(gps))
	for i, gp := range gps {
		parts[i] = gp.Name
		if len(gp.Constraints) > 0 {
			cs := make([]string, len(gp.Constraints))
			for j, c := range gp.Constraints {
				cs[j] = w.printer.Print(c, scope, false)
			}
			parts[i] += " extends " + strings.Join(cs, " & ")
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func (w *declWriter) writeEnum(t *model.TypeSymbol, name string) {
	w.line(0, "export enum "+name+" {")
	for _, m := range w.ordered(t, plan.EmittedMembers(t)) {
		f := m.(*model.FieldSymbol)
		w.doc(1, f.Doc)
		entry := w.memberName(t, f)
		if f.ConstValue != "" {
			entry += " = " + enumValue(f.ConstValue)
		}
		w.line(1, entry+",")
	}
	w.line(0, "}")
}

func enumValue(v string) string {
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v
	}
	return strconv.Quote(v)
}

func (w *declWriter) writeDelegate(t *model.TypeSymbol, header string, gens *Generics) {
	members := plan.EmittedMembers(t)
	if len(members) == 0 {
		w.line(0, "export type "+header+" = (...args: unknown[]) => unknown;")
		return
	}
	invoke := members[0].(*model.MethodSymbol)
	scope := gens.Extend(invoke.GenericParameters)
	w.line(0, "export type "+header+" = "+
		w.genericParams(invoke.GenericParameters, scope)+
		"("+w.params(invoke.Parameters, scope)+") => "+w.printer.Print(invoke.ReturnType, scope, false)+";")
}

// writeBody prints a class or interface body. Members of interface views
// print under one property per interface.
func (w *declWriter) writeBody(t *model.TypeSymbol, header string, gens *Generics, class bool) {
	w.line(0, header+" {")

	var views []model.StableID
	viewMembers := make(map[model.StableID][]model.Member)
	for _, m := range w.ordered(t, plan.EmittedMembers(t)) {
		info := m.Info()
		if info.EmitScope == model.ViewOnly {
			if _, ok := viewMembers[info.SourceInterface]; !ok {
				views = append(views, info.SourceInterface)
			}
			viewMembers[info.SourceInterface] = append(viewMembers[info.SourceInterface], m)
			continue
		}
		w.member(1, t, m, gens, class)
	}

	for _, iface := range views {
		name, ok := w.names.GetFinalMemberName(renamer.InstanceScope(t.ID), shape.ViewKey(iface))
		if !ok {
			name = shape.ViewPrefix + renamer.TypeBaseName(iface.FullName)
		}
		w.line(1, "readonly "+name+": {")
		for _, m := range viewMembers[iface] {
			w.member(2, t, m, gens, false)
		}
		w.line(1, "};")
	}
	w.line(0, "}")
}

func (w *declWriter) member(depth int, t *model.TypeSymbol, m model.Member, gens *Generics, class bool) {
	info := m.Info()
	w.doc(depth, info.Doc)

	prefix := ""
	if class {
		if info.Visibility == model.Protected {
			prefix += "protected "
		}
		if info.IsStatic {
			prefix += "static "
		}
	}

	switch v := m.(type) {
	case *model.ConstructorSymbol:
		w.line(depth, prefix+"constructor("+w.params(v.Parameters, gens)+");")
	case *model.MethodSymbol:
		scope := gens.Extend(v.GenericParameters)
		w.line(depth, prefix+w.memberName(t, m)+w.genericParams(v.GenericParameters, scope)+
			"("+w.params(v.Parameters, scope)+"): "+w.printer.Print(v.ReturnType, scope, false)+";")
	case *model.PropertySymbol:
		if v.IsIndexer() {
			key := v.IndexParameters[0]
			w.line(depth, prefix+"["+paramName(key.Name, 0)+": "+w.printer.Print(key.Type, gens, false)+"]: "+
				w.printer.Print(v.Type, gens, false)+";")
			return
		}
		if !v.HasSetter {
			prefix += "readonly "
		}
		w.line(depth, prefix+w.memberName(t, m)+": "+w.printer.Print(v.Type, gens, false)+";")
	case *model.FieldSymbol:
		if v.IsReadOnly || v.IsConst {
			prefix += "readonly "
		}
		w.line(depth, prefix+w.memberName(t, m)+": "+w.printer.Print(v.Type, gens, false)+";")
	case *model.EventSymbol:
		w.line(depth, prefix+w.memberName(t, m)+": "+w.printer.Print(v.HandlerType, gens, false)+";")
	}
}

func (w *declWriter) params(ps []model.Parameter, scope *Generics) string {
	parts := make([]string, len(ps))
	used := make(map[string]bool)
	for i, p := range ps {
		name := paramName(p.Name, i)
		for used[name] {
			name += strconv.Itoa(i)
		}
		used[name] = true

		typ := w.printer.Print(p.Type, scope, false)
		switch {
		case p.IsParams:
			parts[i] = "..." + name + ": " + typ
		case p.Optional:
			parts[i] = name + "?: " + typ
		default:
			parts[i] = name + ": " + typ
		}
	}
	return strings.Join(parts, ", ")
}

func paramName(name string, i int) string {
	if name == "" {
		return "arg" + strconv.Itoa(i)
	}
	name = renamer.SanitizeIdentifier(name)
	if renamer.IsReserved(name) {
		name += "_"
	}
	return name
}

// ordered sorts members alphabetically by final name within each member
// variant when the policy asks for it; otherwise declaration order is kept.
func (w *declWriter) ordered(t *model.TypeSymbol, members []model.Member) []model.Member {
	if w.policy.Emission.SortOrder != policy.SortAlphabetical {
		return members
	}
	out := append([]model.Member(nil), members...)
	rank := func(m model.Member) int {
		switch m.(type) {
		case *model.ConstructorSymbol:
			return 0
		case *model.FieldSymbol:
			return 1
		case *model.PropertySymbol:
			return 2
		case *model.MethodSymbol:
			return 3
		}
		return 4
	}
	key := func(m model.Member) string {
		if _, ctor := m.(*model.ConstructorSymbol); ctor {
			return m.Info().ID.String()
		}
		return w.memberName(t, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i]), rank(out[j])
		if ri != rj {
			return ri < rj
		}
		si, sj := out[i].Info().IsStatic, out[j].Info().IsStatic
		if si != sj {
			return !si
		}
		return key(out[i]) < key(out[j])
	})
	return out
}
