package loader

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/errors"
	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
)

// Build turns decoded documents into one graph. Namespaces with the same
// name across documents are merged in document order. Unresolved generic
// instantiations are reported to diags; unresolved plain names stay
// Placeholders for model.Normalize.
func Build(docs []*Document, diags *diag.Collector) (*model.SymbolGraph, error) {
	log := logger.ComponentLogger("loader")

	var namespaces []*model.NamespaceSymbol
	byName := make(map[string]*model.NamespaceSymbol)
	for _, doc := range docs {
		for _, nsDoc := range doc.Namespaces {
			ns, ok := byName[nsDoc.Name]
			if !ok {
				ns = &model.NamespaceSymbol{Name: nsDoc.Name}
				byName[nsDoc.Name] = ns
				namespaces = append(namespaces, ns)
			}
			for i := range nsDoc.Types {
				t, err := buildType(doc.Assembly, nsDoc.Name, &nsDoc.Types[i], nil)
				if err != nil {
					return nil, errors.Wrapf(err, "%s: namespace %s", doc.Source, nsDoc.Name)
				}
				ns.Types = append(ns.Types, t)
			}
		}
	}

	g := model.NewGraph(namespaces)
	log.Debugw("decoded graph documents",
		logger.FieldCount, len(docs),
		logger.FieldTotalCount, g.TypeCount())

	return backfill(g, diags, log), nil
}

// buildType is pass one: every named reference is left unresolved.
func buildType(assembly, namespace string, d *TypeDoc, outer *model.TypeSymbol) (*model.TypeSymbol, error) {
	kind, ok := model.KindClass, true
	if d.Kind != "" {
		kind, ok = model.ParseTypeKind(d.Kind)
	}
	if !ok {
		return nil, errors.NewInvalidInputf("type %s: unknown kind %q", d.Name, d.Kind)
	}
	vis, ok := model.ParseVisibility(d.Visibility)
	if !ok {
		return nil, errors.NewInvalidInputf("type %s: unknown visibility %q", d.Name, d.Visibility)
	}

	var scope genericScope
	if outer != nil {
		for _, gp := range outer.GenericParameters {
			scope.typeParams = append(scope.typeParams, gp.Name)
		}
	}
	for _, g := range d.Generics {
		scope.typeParams = append(scope.typeParams, g.Name)
	}

	name := withArity(d.Name, len(d.Generics))
	full := name
	if outer != nil {
		full = outer.ID.FullName + "+" + name
	} else if namespace != "" {
		full = namespace + "." + name
	}

	t := &model.TypeSymbol{
		ID:          model.StableID{AssemblyName: assembly, FullName: full},
		ClrFullName: full,
		Namespace:   namespace,
		Name:        name,
		Kind:        kind,
		Visibility:  vis,
		Modifiers:   model.Modifiers{Abstract: d.Abstract, Sealed: d.Sealed, Static: d.Static},
		IsValueType: d.ValueType || kind == model.KindStruct || kind == model.KindEnum,
		Doc:         d.Doc,
	}
	if outer != nil {
		t.DeclaringType = outer.ID
		t.GenericParameters = append(t.GenericParameters, outer.GenericParameters...)
	}

	b := &typeBuilder{t: t, scope: scope}
	gps, err := b.generics(d.Generics, len(t.GenericParameters), scope)
	if err != nil {
		return nil, err
	}
	t.GenericParameters = append(t.GenericParameters, gps...)

	if t.BaseType, err = b.ref(d.Base, scope, "base"); err != nil {
		return nil, err
	}
	for _, i := range d.Interfaces {
		ref, err := b.ref(i, scope, "interface")
		if err != nil {
			return nil, err
		}
		t.Interfaces = append(t.Interfaces, ref)
	}
	if err := b.members(d); err != nil {
		return nil, err
	}

	for i := range d.Nested {
		n, err := buildType(assembly, namespace, &d.Nested[i], t)
		if err != nil {
			return nil, err
		}
		t.NestedTypes = append(t.NestedTypes, n)
	}
	return t, nil
}

type typeBuilder struct {
	t     *model.TypeSymbol
	scope genericScope
}

func (b *typeBuilder) ref(s string, scope genericScope, where string) (model.TypeReference, error) {
	ref, err := parseRef(s, scope)
	if err != nil {
		return nil, errors.Wrapf(err, "type %s: %s", b.t.ID.FullName, where)
	}
	return ref, nil
}

func (b *typeBuilder) generics(docs []GenericDoc, offset int, scope genericScope) ([]model.GenericParameter, error) {
	var out []model.GenericParameter
	for i, g := range docs {
		gp := model.GenericParameter{Name: g.Name, Position: offset + i}
		for _, c := range g.Constraints {
			ref, err := b.ref(c, scope, "constraint of "+g.Name)
			if err != nil {
				return nil, err
			}
			gp.Constraints = append(gp.Constraints, ref)
		}
		out = append(out, gp)
	}
	return out, nil
}

func (b *typeBuilder) params(docs []ParamDoc, scope genericScope, where string) ([]model.Parameter, error) {
	var out []model.Parameter
	for i, p := range docs {
		ref, err := b.ref(p.Type, scope, where+" parameter "+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		out = append(out, model.Parameter{Name: p.Name, Type: ref, IsParams: p.Params, Optional: p.Optional})
	}
	return out, nil
}

func (b *typeBuilder) info(d MemberDoc) (model.MemberInfo, error) {
	vis, ok := model.ParseVisibility(d.Visibility)
	if !ok {
		return model.MemberInfo{}, errors.NewInvalidInputf("member %s.%s: unknown visibility %q",
			b.t.ID.FullName, d.Name, d.Visibility)
	}
	info := model.MemberInfo{
		Name:       d.Name,
		Visibility: vis,
		IsStatic:   d.Static,
		Doc:        d.Doc,
	}
	info.ID.MetadataToken = d.Token
	if d.Implements != "" {
		info.SourceInterface = model.StableID{FullName: d.Implements}
	}
	return info, nil
}

func (b *typeBuilder) members(d *TypeDoc) error {
	m := &b.t.Members

	for _, c := range d.Constructors {
		info, err := b.info(c.MemberDoc)
		if err != nil {
			return err
		}
		info.Name = ".ctor"
		params, err := b.params(c.Params, b.scope, "constructor")
		if err != nil {
			return err
		}
		m.Constructors = append(m.Constructors, &model.ConstructorSymbol{MemberInfo: info, Parameters: params})
	}

	for _, md := range d.Methods {
		info, err := b.info(md.MemberDoc)
		if err != nil {
			return err
		}
		names := make([]string, len(md.Generics))
		for i, g := range md.Generics {
			names[i] = g.Name
		}
		scope := b.scope.withMethod(names)
		gps, err := b.generics(md.Generics, 0, scope)
		if err != nil {
			return err
		}
		params, err := b.params(md.Params, scope, md.Name)
		if err != nil {
			return err
		}
		ret, err := b.ref(md.Returns, scope, md.Name+" return")
		if err != nil {
			return err
		}
		if md.Extension {
			info.IsStatic = true
		}
		m.Methods = append(m.Methods, &model.MethodSymbol{
			MemberInfo:        info,
			GenericParameters: gps,
			Parameters:        params,
			ReturnType:        ret,
			IsVirtual:         md.Virtual,
			IsAbstract:        md.Abstract,
			IsOverride:        md.Override,
			IsNew:             md.New,
			IsExtension:       md.Extension,
		})
	}

	for _, pd := range d.Properties {
		info, err := b.info(pd.MemberDoc)
		if err != nil {
			return err
		}
		typ, err := b.ref(pd.Type, b.scope, pd.Name)
		if err != nil {
			return err
		}
		index, err := b.params(pd.Index, b.scope, pd.Name)
		if err != nil {
			return err
		}
		m.Properties = append(m.Properties, &model.PropertySymbol{
			MemberInfo:      info,
			Type:            typ,
			IndexParameters: index,
			HasGetter:       pd.Get == nil || *pd.Get,
			HasSetter:       pd.Set,
			IsVirtual:       pd.Virtual,
			IsOverride:      pd.Override,
			IsNew:           pd.New,
		})
	}

	for _, fd := range d.Fields {
		info, err := b.info(fd.MemberDoc)
		if err != nil {
			return err
		}
		f := &model.FieldSymbol{
			MemberInfo: info,
			IsReadOnly: fd.ReadOnly,
			IsConst:    fd.Const,
			ConstValue: fd.Value,
			IsNew:      fd.New,
		}
		if fd.Type == "" && b.t.Kind == model.KindEnum {
			f.Type = b.t.SelfReference()
			f.IsStatic, f.IsConst = true, true
		} else if f.Type, err = b.ref(fd.Type, b.scope, fd.Name); err != nil {
			return err
		}
		m.Fields = append(m.Fields, f)
	}

	for _, ed := range d.Events {
		info, err := b.info(ed.MemberDoc)
		if err != nil {
			return err
		}
		typ, err := b.ref(ed.Type, b.scope, ed.Name)
		if err != nil {
			return err
		}
		m.Events = append(m.Events, &model.EventSymbol{MemberInfo: info, HandlerType: typ, IsNew: ed.New})
	}
	return nil
}

// backfill is pass two: named references and explicit-implementation
// interfaces are resolved against every loaded type.
func backfill(g *model.SymbolGraph, diags *diag.Collector, log *zap.SugaredLogger) *model.SymbolGraph {
	resolved, pending := 0, 0
	find := func(id model.StableID) (*model.TypeSymbol, bool) {
		if id.AssemblyName != "" {
			return g.Lookup(id)
		}
		if ids := g.LookupFullName(id.FullName); len(ids) == 1 {
			return g.Lookup(ids[0])
		}
		return nil, false
	}

	out := g.Transform(func(t *model.TypeSymbol) *model.TypeSymbol {
		model.RewriteRefs(t, func(ref model.TypeReference) model.TypeReference {
			return model.MapRef(ref, func(r model.TypeReference) model.TypeReference {
				switch v := r.(type) {
				case model.PlaceholderRef:
					if def, ok := find(v.Target); ok {
						resolved++
						return model.NamedRef{FullName: def.ID.FullName, Assembly: def.ID.AssemblyName, IsValueType: def.IsValueType}
					}
					if v.Target.AssemblyName != "" {
						return model.NamedRef{FullName: v.Target.FullName, Assembly: v.Target.AssemblyName}
					}
					pending++
					return v
				case model.NamedRef:
					def, ok := find(model.StableID{AssemblyName: v.Assembly, FullName: v.FullName})
					if ok {
						resolved++
						v.Assembly, v.IsValueType = def.ID.AssemblyName, def.IsValueType
						return v
					}
					if v.Assembly == "" {
						diags.Report(diag.UnresolvedType, t.ID.String(),
							"generic type %q is not in the graph; treated as external", v.FullName)
					}
					return v
				}
				return r
			})
		})
		for _, m := range t.Members.All() {
			info := m.Info()
			if info.SourceInterface.IsZero() || info.SourceInterface.AssemblyName != "" {
				continue
			}
			if def, ok := find(info.SourceInterface); ok {
				info.SourceInterface = def.ID
			}
		}
		return t
	})

	log.Debugw("backfilled references", "resolved", resolved, "pending", pending)
	return out
}
