package commands

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tsbindgen/errors"
	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/pipeline"
	"github.com/teranos/tsbindgen/policy"
)

var watchFlags buildFlags

// WatchCmd regenerates on every input or policy change
var WatchCmd = &cobra.Command{
	Use:   "watch <graph files or directories>...",
	Short: "Regenerate whenever inputs or the policy change",
	Long: `Generate once, then watch the inputs and the policy file and regenerate
after changes settle. A failed rebuild keeps the previous output.

Examples:
  tsbindgen watch graphs/ -o types`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchFlags.register(WatchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logger.ComponentLogger("watch")
	v := verbosity(cmd)

	var mu sync.Mutex
	rebuild := func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		p, policyPath, err := loadPolicy(cmd, &watchFlags)
		if err != nil {
			return "", err
		}
		res, err := build(ctx, args, watchFlags.contract, p, v)
		if res == nil {
			return policyPath, err
		}
		if werr := pipeline.WriteOutput(res.Output, watchFlags.output); werr != nil {
			return policyPath, werr
		}
		pterm.Success.Printfln("Wrote %d types to %s", res.Types, watchFlags.output)
		return policyPath, err
	}

	policyPath, err := rebuild()
	if err != nil && !errors.IsBuildFailed(err) {
		return err
	}

	paths := append([]string{}, args...)
	if policyPath != "" {
		paths = append(paths, policyPath)
	}
	w, err := policy.NewWatcher(paths...)
	if err != nil {
		return err
	}
	defer w.Stop()

	w.OnChange(func(changed []string) {
		log.Infow("inputs changed, rebuilding", logger.FieldCount, len(changed))
		if _, err := rebuild(); err != nil {
			pterm.Error.Println(err.Error())
		}
	})
	w.Start()
	pterm.Info.Printfln("Watching %d paths, press Ctrl+C to stop", len(paths))

	<-ctx.Done()
	return nil
}
