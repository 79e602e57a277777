// Package renamer is the single authority for emitted identifiers.
//
// Every name that reaches a declaration file is reserved here first and read
// back through GetFinalTypeName / GetFinalMemberName. A reservation is keyed
// by identity, never by display name, and resolves in a fixed order:
//
//  1. explicit override (Renaming.ExplicitMap, keyed by identity string)
//  2. identifier style (Emission.NameTransform, members only)
//  3. semantic rules (hidden-member suffix, reserved words)
//  4. numeric suffix: smallest unused N >= 1
//
// Within one scope two different keys never share a final name.
package renamer

import (
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/logger"
)

// NameKind tells the renamer which rules apply to a request.
type NameKind int

const (
	TypeName NameKind = iota
	MemberName
	AliasName
)

// Strategy names the step that produced a final name.
type Strategy string

const (
	StrategyNone     Strategy = "none"
	StrategyExplicit Strategy = "explicit"
	StrategyStyle    Strategy = "style"
	StrategySemantic Strategy = "semantic"
	StrategySuffix   Strategy = "numeric-suffix"
)

// Request asks for a name in a scope.
type Request struct {
	Scope Scope
	// Key is the identity the name belongs to: a StableID string, a member
	// identity string or model.OverloadGroupKey for methods.
	Key string
	// Requested is the source base name before any rule ran.
	Requested string
	Kind      NameKind
	// ExplicitKeys are looked up in the explicit map after Key.
	ExplicitKeys []string
	// HiddenNew appends the hidden-member suffix.
	HiddenNew bool
	// Suffix is a fixed semantic suffix (e.g. "_static") applied before
	// conflict resolution.
	Suffix string
	Reason string
	Source string
}

// Decision records how a final name was chosen.
type Decision struct {
	StableID  string   `json:"stableId"`
	Scope     string   `json:"scope"`
	Requested string   `json:"requested"`
	Final     string   `json:"final"`
	Reason    string   `json:"reason,omitempty"`
	Source    string   `json:"source,omitempty"`
	Strategy  Strategy `json:"strategy"`
}

// Options configure the rules. They are fixed for the lifetime of a renamer.
type Options struct {
	Explicit        map[string]string
	Style           Style
	HiddenNewSuffix string
}

type assignment struct {
	requested string
	candidate string
	final     string
}

// Renamer holds the reservation tables of one build. It is safe for
// concurrent use.
type Renamer struct {
	mu        sync.Mutex
	opts      Options
	diags     *diag.Collector
	log       *zap.SugaredLogger
	tables    map[Scope]map[string]string
	assigned  map[Scope]map[string]assignment
	typeNames map[string]string
	decisions []Decision
}

// New creates an empty renamer. diags may be nil in tests that do not
// inspect findings.
func New(opts Options, diags *diag.Collector) *Renamer {
	if opts.Style == "" {
		opts.Style = StyleNone
	}
	return &Renamer{
		opts:      opts,
		diags:     diags,
		log:       logger.ComponentLogger("renamer"),
		tables:    make(map[Scope]map[string]string),
		assigned:  make(map[Scope]map[string]assignment),
		typeNames: make(map[string]string),
	}
}

// Reserve assigns and returns the final name for req. Reserving the same key
// with the same requested name again returns the same final name; a
// different requested name releases the old one first.
func (r *Renamer) Reserve(req Request) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	byKey := r.assigned[req.Scope]
	if byKey == nil {
		byKey = make(map[string]assignment)
		r.assigned[req.Scope] = byKey
	}
	table := r.tables[req.Scope]
	if table == nil {
		table = make(map[string]string)
		r.tables[req.Scope] = table
	}

	if prev, ok := byKey[req.Key]; ok {
		if prev.requested == req.Requested {
			r.checkShared(req, prev)
			return prev.final
		}
		delete(table, prev.final)
	}

	candidate, strategy, explicit := r.candidate(req)

	final := candidate
	if owner, taken := table[final]; taken && owner != req.Key {
		for n := 1; ; n++ {
			next := candidate + strconv.Itoa(n)
			if _, used := table[next]; !used {
				final = next
				break
			}
		}
		strategy = StrategySuffix
		r.report(explicit, req, candidate, final)
	}

	table[final] = req.Key
	byKey[req.Key] = assignment{requested: req.Requested, candidate: candidate, final: final}
	if req.Kind == TypeName && req.Scope.Kind == KindNamespace {
		r.typeNames[req.Key] = final
	}
	r.decisions = append(r.decisions, Decision{
		StableID:  req.Key,
		Scope:     req.Scope.String(),
		Requested: req.Requested,
		Final:     final,
		Reason:    req.Reason,
		Source:    req.Source,
		Strategy:  strategy,
	})

	if final != req.Requested {
		r.log.Debugw("renamed",
			logger.FieldStableID, req.Key,
			logger.FieldScope, req.Scope.String(),
			logger.FieldRequested, req.Requested,
			logger.FieldFinal, final,
			logger.FieldStrategy, string(strategy))
	}
	return final
}

// checkShared reports an explicit name on a request that reuses a key
// already assigned under another name, such as a later overload of a group.
func (r *Renamer) checkShared(req Request, prev assignment) {
	if r.diags == nil {
		return
	}
	for _, key := range req.ExplicitKeys {
		name, ok := r.opts.Explicit[key]
		if !ok || name == "" {
			continue
		}
		if wanted := SanitizeIdentifier(name); wanted != prev.candidate {
			r.diags.Report(diag.ExplicitRenameIgnored, key,
				"explicit name %q conflicts with %q already assigned to %s in %s",
				wanted, prev.final, req.Key, req.Scope)
		}
		return
	}
}

// candidate runs steps 1-3. The returned strategy is the last step that
// changed the name.
func (r *Renamer) candidate(req Request) (string, Strategy, bool) {
	for _, key := range append([]string{req.Key}, req.ExplicitKeys...) {
		if name, ok := r.opts.Explicit[key]; ok && name != "" {
			return SanitizeIdentifier(name), StrategyExplicit, true
		}
	}

	strategy := StrategyNone
	name := req.Requested
	switch req.Kind {
	case TypeName:
		name = TypeBaseName(name)
	default:
		name = SanitizeIdentifier(name)
	}

	if req.Kind == MemberName {
		if styled := ApplyStyle(name, r.opts.Style); styled != name {
			name = styled
			strategy = StrategyStyle
		}
	}

	if req.HiddenNew && r.opts.HiddenNewSuffix != "" {
		name += r.opts.HiddenNewSuffix
		strategy = StrategySemantic
	}
	if req.Suffix != "" {
		name += req.Suffix
		strategy = StrategySemantic
	}
	if req.Kind != MemberName && IsReserved(name) {
		name += "_"
		strategy = StrategySemantic
	}
	return name, strategy, false
}

func (r *Renamer) report(explicit bool, req Request, wanted, final string) {
	if r.diags == nil {
		return
	}
	if explicit {
		r.diags.Report(diag.ExplicitRenameIgnored, req.Key,
			"explicit name %q already taken in %s; using %q", wanted, req.Scope, final)
		return
	}
	r.diags.Report(diag.RenameConflict, req.Key,
		"name %q already taken in %s; using %q", wanted, req.Scope, final)
}

// GetFinalTypeName returns the display name reserved for a type identity.
func (r *Renamer) GetFinalTypeName(stableID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.typeNames[stableID]
	return name, ok
}

// GetFinalMemberName returns the name reserved for key in scope.
func (r *Renamer) GetFinalMemberName(scope Scope, key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assigned[scope][key]
	return a.final, ok
}

// IsTaken reports whether name is reserved in scope by any key.
func (r *Renamer) IsTaken(scope Scope, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tables[scope][name]
	return ok
}

// Decisions returns every recorded decision in reservation order.
func (r *Renamer) Decisions() []Decision {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Decision, len(r.decisions))
	copy(out, r.decisions)
	return out
}
