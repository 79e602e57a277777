package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
)

// writeGraph prints every type and member of g with its provenance and
// emit scope, one line each.
func writeGraph(w io.Writer, pass string, g *model.SymbolGraph) {
	fmt.Fprintf(w, "== %s after %s (%d types)\n", logger.CategoryName(logger.OutputGraphDump), pass, g.TypeCount())
	for _, t := range g.AllTypes() {
		fmt.Fprintf(w, "%s %s\n", t.Kind, t.ID)
		for _, m := range t.Members.All() {
			info := m.Info()
			fmt.Fprintf(w, "  %s [%s, %s]\n", info.ID, info.Provenance, info.EmitScope)
		}
	}
}

// graphDumper returns the AfterPass hook for v, nil below -vvvv.
func graphDumper(v int) func(string, *model.SymbolGraph) {
	if !logger.ShouldOutput(v, logger.OutputGraphDump) {
		return nil
	}
	return func(pass string, g *model.SymbolGraph) {
		writeGraph(os.Stderr, pass, g)
	}
}
