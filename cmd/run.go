package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"sync"

	"github.com/spf13/cobra"

	"github.com/sarchlab/fifoemu/config"
	"github.com/sarchlab/fifoemu/datarecording"
	"github.com/sarchlab/fifoemu/fifo"
	"github.com/sarchlab/fifoemu/gif"
	"github.com/sarchlab/fifoemu/mmio"
	"github.com/sarchlab/fifoemu/monitoring"
	"github.com/sarchlab/fifoemu/regs"
	"github.com/sarchlab/fifoemu/renderer"
	"github.com/sarchlab/fifoemu/script"
	"github.com/sarchlab/fifoemu/tracing"
	"github.com/sarchlab/fifoemu/vifcode"
)

// errFaults is returned when a run collected handler faults.
var errFaults = errors.New("handler faults")

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a register access script.",
	Long: "`run scenario.txt` executes the script against a fresh set of " +
		"FIFO registers. Settings come from .env files and FIFOEMU_* " +
		"variables; flags override both.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		steps, err := script.Parse(f)
		if err != nil {
			return err
		}

		return runSteps(cfg, steps, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.StringSlice("env", nil, "Read settings from these .env files")
	flags.Bool("debug", false, "Log handler advisories")
	flags.Int("ring-size", renderer.DefaultRingSize,
		"Capacity of the renderer packet ring")
	flags.String("trace-db", "",
		"Record FIFO traffic to this SQLite file, without extension")
	flags.Bool("monitor", false, "Serve the registers over HTTP")
	flags.Int("port", 0, "Port of the monitor, 0 for a free one")
	flags.Bool("open-browser", false, "Open the monitor page")
	flags.Bool("abort-on-fault", true,
		"Exit on the first fault instead of collecting faults")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	files, _ := flags.GetStringSlice("env")

	cfg, err := config.Load(files...)
	if err != nil {
		return cfg, err
	}

	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}

	if flags.Changed("ring-size") {
		cfg.RingSize, _ = flags.GetInt("ring-size")
	}

	if flags.Changed("trace-db") {
		cfg.TraceDB, _ = flags.GetString("trace-db")
	}

	if flags.Changed("monitor") {
		cfg.Monitor, _ = flags.GetBool("monitor")
	}

	if flags.Changed("port") {
		cfg.MonitorPort, _ = flags.GetInt("port")
	}

	if flags.Changed("open-browser") {
		cfg.OpenBrowser, _ = flags.GetBool("open-browser")
	}

	if flags.Changed("abort-on-fault") {
		cfg.AbortOnFault, _ = flags.GetBool("abort-on-fault")
	}

	return cfg, cfg.Validate()
}

// emulation is everything one script run needs.
type emulation struct {
	worker   *renderer.Worker
	unit     *gif.Unit
	ctx      *fifo.Context
	bus      *mmio.Bus
	faults   *mmio.RecordingSupervisor
	lock     sync.Locker
	recorder datarecording.Recorder
	tracer   *tracing.TrafficTracer
	monitor  *monitoring.Monitor
}

func buildEmulation(cfg config.Config, logOut io.Writer) (*emulation, error) {
	logger := log.New(logOut, "", log.LstdFlags)

	e := &emulation{lock: &sync.Mutex{}}

	e.worker = renderer.MakeBuilder().
		WithRingSize(cfg.RingSize).
		Build("Renderer")
	e.worker.Start()

	e.unit = gif.MakeBuilder().
		WithDownstream(e.worker).
		Build("GIF")

	e.ctx = fifo.MakeBuilder().
		WithUnit(e.unit).
		WithRenderer(e.worker).
		WithLogger(logger).
		WithDebug(cfg.Debug).
		Build("FIFO")

	vifcode.MakeBuilder().Build(e.ctx.VIF0)
	vifcode.MakeBuilder().WithGIF(e.unit).Build(e.ctx.VIF1)

	var supervisor mmio.Supervisor = mmio.AbortSupervisor{Logger: logger}
	if !cfg.AbortOnFault {
		e.faults = &mmio.RecordingSupervisor{}
		supervisor = e.faults
	}

	e.bus = mmio.MakeBuilder().
		WithContext(e.ctx).
		WithSupervisor(supervisor).
		Build("Bus")

	if cfg.TraceDB != "" {
		if err := e.startTracing(cfg.TraceDB); err != nil {
			e.worker.Stop()
			return nil, err
		}
	}

	if cfg.Monitor {
		e.monitor = monitoring.NewMonitor().
			WithPortNumber(cfg.MonitorPort).
			WithLock(e.lock).
			WithBrowser(cfg.OpenBrowser)
		e.monitor.RegisterBus(e.bus)
		e.monitor.RegisterComponent(e.unit)
		e.monitor.RegisterComponent(e.worker)
		e.monitor.StartServer()
	}

	return e, nil
}

func (e *emulation) startTracing(path string) error {
	rec, err := datarecording.Open(path)
	if err != nil {
		return err
	}

	tracer, err := tracing.NewTrafficTracer(rec)
	if err != nil {
		rec.Close()
		return err
	}

	tracer.Attach(e.ctx, e.unit, e.ctx.SoftFIFO)

	e.recorder = rec
	e.tracer = tracer

	return nil
}

func (e *emulation) close() error {
	e.worker.Stop()

	if e.recorder == nil {
		return nil
	}

	if err := e.tracer.Err(); err != nil {
		e.recorder.Close()
		return err
	}

	return e.recorder.Close()
}

func runSteps(
	cfg config.Config,
	steps []script.Step,
	out, errOut io.Writer,
) error {
	e, err := buildEmulation(cfg, errOut)
	if err != nil {
		return err
	}

	env := script.Env{
		Bus:      e.bus,
		Unit:     e.unit,
		Renderer: e.worker,
		Lock:     e.lock,
	}

	if e.monitor != nil {
		bar := e.monitor.CreateProgressBar("Script", uint64(len(steps)))
		defer e.monitor.CompleteProgressBar(bar)

		env.AfterStep = func(script.Step) { bar.IncrementFinished(1) }
	}

	runErr := script.NewRunner(env, out).Run(steps)

	e.lock.Lock()
	e.worker.WaitUntilIdle(true)
	e.lock.Unlock()
	report(errOut, e)

	if err := e.close(); err != nil && runErr == nil {
		runErr = err
	}

	if runErr != nil {
		return runErr
	}

	if e.faults != nil && len(e.faults.Faults) > 0 {
		return fmt.Errorf("%w: %d", errFaults, len(e.faults.Faults))
	}

	return nil
}

func report(w io.Writer, e *emulation) {
	stats := e.worker.Stats()

	fmt.Fprintf(w, "delivered path1=%d path2=%d path3=%d downloaded=%d\n",
		stats.Delivered[regs.Path1],
		stats.Delivered[regs.Path2],
		stats.Delivered[regs.Path3],
		stats.Downloaded)

	if e.faults != nil {
		for _, f := range e.faults.Faults {
			fmt.Fprintf(w, "fault: %v\n", f)
		}
	}

	if e.tracer == nil {
		return
	}

	counts := e.tracer.Counts()

	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}

	sort.Strings(kinds)

	for _, k := range kinds {
		fmt.Fprintf(w, "traced %s=%d\n", k, counts[k])
	}
}
