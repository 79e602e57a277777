package shape

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
)

// BucketPrefix starts the simple name of every extension bucket.
const BucketPrefix = "__Ext_"

// BucketExtensions groups the extension methods of static containers by the
// generic definition of their receiver. Each receiver gets one synthetic
// interface, placed in the receiver's namespace (or the first container's
// when the receiver is outside the graph), that declares the methods without
// their receiver parameter. Method generic parameters bound by the receiver
// become the bucket's own parameters.
//
// Receivers that would print as a universal or opaque type (a bare generic
// parameter, System.Object, arrays, pointers and by-refs) cannot be
// represented and are dropped from bucketing (TBG4004). The original static
// methods stay on their container.
func BucketExtensions(g *model.SymbolGraph, env *Env, log *zap.SugaredLogger) *model.SymbolGraph {
	buckets := make(map[model.StableID]*model.TypeSymbol)
	namespaces := make(map[model.StableID]string)
	seen := make(map[model.StableID]map[string]bool)

	for _, c := range g.AllTypes() {
		if !c.IsStaticContainer() {
			continue
		}
		for _, m := range c.Members.Methods {
			if !m.IsExtension || len(m.Parameters) == 0 {
				continue
			}
			recv := m.Parameters[0].Type
			recvID, ok := bucketReceiver(recv)
			if !ok {
				env.Diags.Report(diag.UnrepresentableMember, m.ID.String(),
					"extension receiver %s has no representable shape; not bucketed", model.CanonicalTypeName(recv))
				continue
			}

			b, ok := buckets[recvID]
			if !ok {
				b, namespaces[recvID] = newBucket(g, recvID, recv, c.Namespace)
				buckets[recvID] = b
				seen[recvID] = make(map[string]bool)
			}

			bm := liftExtension(m, model.TypeArgumentsOf(recv), b.GenericParameters)
			rehome(bm, b)
			if seen[recvID][bm.ID.CanonicalSignature] {
				env.Diags.Report(diag.AmbiguousOverload, m.ID.String(),
					"%s already declared for receiver %s by another container; skipped", bm.Name, recvID)
				continue
			}
			seen[recvID][bm.ID.CanonicalSignature] = true
			b.Members.Methods = append(b.Members.Methods, bm)
		}
	}
	if len(buckets) == 0 {
		return g
	}

	ids := make([]model.StableID, 0, len(buckets))
	for id := range buckets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	additions := make(map[string][]*model.TypeSymbol)
	for _, id := range ids {
		ns := namespaces[id]
		additions[ns] = append(additions[ns], buckets[id])
	}
	log.Debugw("bucketed extension methods", logger.FieldCount, len(buckets))
	return g.WithTypes(additions)
}

func bucketReceiver(recv model.TypeReference) (model.StableID, bool) {
	id, ok := model.DefinitionID(recv)
	if !ok || id.FullName == "System.Object" {
		return model.StableID{}, false
	}
	return id, true
}

func newBucket(g *model.SymbolGraph, recvID model.StableID, recv model.TypeReference, fallbackNS string) (*model.TypeSymbol, string) {
	ns := fallbackNS
	var params []model.GenericParameter
	receiver := model.NamedRef{FullName: recvID.FullName, Assembly: recvID.AssemblyName}

	if def, ok := g.Lookup(recvID); ok {
		ns = def.Namespace
		for _, gp := range def.GenericParameters {
			params = append(params, model.GenericParameter{Name: gp.Name, Position: gp.Position})
		}
		receiver = def.SelfReference()
	} else {
		for i := range model.TypeArgumentsOf(recv) {
			name := "T" + strconv.Itoa(i)
			params = append(params, model.GenericParameter{Name: name, Position: i})
			receiver.TypeArguments = append(receiver.TypeArguments, model.GenericParamRef{Name: name, Position: i})
		}
	}

	simple := recvID.FullName
	if i := strings.LastIndexAny(simple, ".+"); i >= 0 {
		simple = simple[i+1:]
	}
	name := BucketPrefix + model.StripArity(simple)
	if len(params) > 0 {
		name += "`" + strconv.Itoa(len(params))
	}
	full := name
	if ns != "" {
		full = ns + "." + name
	}

	return &model.TypeSymbol{
		ID:                model.StableID{AssemblyName: recvID.AssemblyName, FullName: full},
		ClrFullName:       full,
		Namespace:         ns,
		Name:              name,
		Kind:              model.KindInterface,
		GenericParameters: params,
		Synthetic:         true,
		ExtensionReceiver: receiver,
	}, ns
}

// liftExtension copies m without its receiver parameter. A method generic
// parameter that appears directly as a receiver argument is rebound to the
// bucket parameter at the same position; the remaining method parameters are
// renumbered.
func liftExtension(m *model.MethodSymbol, recvArgs []model.TypeReference, bucketParams []model.GenericParameter) *model.MethodSymbol {
	c := m.Clone()
	c.Parameters = c.Parameters[1:]
	c.IsStatic = false
	c.EmitScope = model.ClassSurface
	c.Provenance = model.Synthesized
	c.SourceID = m.ID

	lifted := make(map[int]int)
	for i, a := range recvArgs {
		if gp, ok := a.(model.GenericParamRef); ok && gp.Method && i < len(bucketParams) {
			if _, dup := lifted[gp.Position]; !dup {
				lifted[gp.Position] = i
			}
		}
	}
	if len(lifted) == 0 {
		return c
	}

	renumber := make(map[int]int)
	var kept []model.GenericParameter
	for _, gp := range c.GenericParameters {
		if _, ok := lifted[gp.Position]; ok {
			continue
		}
		renumber[gp.Position] = len(kept)
		gp.Position = len(kept)
		kept = append(kept, gp)
	}
	c.GenericParameters = kept

	rebind := func(ref model.TypeReference) model.TypeReference {
		if ref == nil {
			return nil
		}
		return model.MapRef(ref, func(r model.TypeReference) model.TypeReference {
			gp, ok := r.(model.GenericParamRef)
			if !ok || !gp.Method {
				return r
			}
			if i, ok := lifted[gp.Position]; ok {
				return model.GenericParamRef{Name: bucketParams[i].Name, Position: i}
			}
			if p, ok := renumber[gp.Position]; ok {
				return model.GenericParamRef{Name: gp.Name, Position: p, Method: true}
			}
			return r
		})
	}
	for i := range c.Parameters {
		c.Parameters[i].Type = rebind(c.Parameters[i].Type)
	}
	c.ReturnType = rebind(c.ReturnType)
	for i := range c.GenericParameters {
		for j, con := range c.GenericParameters[i].Constraints {
			c.GenericParameters[i].Constraints[j] = rebind(con)
		}
	}
	return c
}
