// Package script reads and runs text scenarios against the FIFO ports.
//
// A script has one command per line. Blank lines and lines starting with #
// are skipped. Arguments are split the way a shell splits them.
//
//	write <addr> <w3> <w2> <w1> <w0>   write a quadword, most significant word first
//	read <addr>                        read a quadword and print it
//	stat <addr|vif0|vif1|gif>          print a status register
//	download <n> [<qword>...]          start a VIF1 download of n quadwords
//	                                   and give the renderer the data
//	accept <n>                         let the pipeline take n buffered quadwords, -1 for all
//	mask-path3 on|off                  mask or unmask path 3
//	queue path1|path2 <qword>...       queue data on a graphics input path
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/buildkite/shellwords"

	"github.com/sarchlab/fifoemu/mmio"
	"github.com/sarchlab/fifoemu/qword"
	"github.com/sarchlab/fifoemu/regs"
)

var (
	// ErrUnknownCommand is returned for a line that names no command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrArguments is returned when a command gets the wrong arguments.
	ErrArguments = errors.New("bad arguments")
)

// Op is a script command.
type Op int

// The script commands.
const (
	OpWrite Op = iota
	OpRead
	OpStat
	OpDownload
	OpAccept
	OpMaskPath3
	OpQueue
)

var opNames = map[string]Op{
	"write":      OpWrite,
	"read":       OpRead,
	"stat":       OpStat,
	"download":   OpDownload,
	"accept":     OpAccept,
	"mask-path3": OpMaskPath3,
	"queue":      OpQueue,
}

// Step is one parsed script line.
type Step struct {
	Line  int
	Op    Op
	Addr  uint32
	Data  []qword.Quadword
	Count int
	Path  regs.PathID
	On    bool
}

// A LineError locates an error in a script.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *LineError) Unwrap() error {
	return e.Err
}

// Parse reads a whole script.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step

	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		step, err := ParseLine(text)
		if err != nil {
			return nil, &LineError{Line: line, Err: err}
		}

		step.Line = line
		steps = append(steps, step)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return steps, nil
}

// ParseLine parses a single command.
func ParseLine(text string) (Step, error) {
	args, err := shellwords.Split(text)
	if err != nil {
		return Step{}, err
	}

	if len(args) == 0 {
		return Step{}, fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}

	op, ok := opNames[args[0]]
	if !ok {
		return Step{}, fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}

	step := Step{Op: op}
	args = args[1:]

	switch op {
	case OpWrite:
		err = parseWrite(&step, args)
	case OpRead:
		err = parseAddr(&step, args)
	case OpStat:
		err = parseStat(&step, args)
	case OpDownload:
		err = parseDownload(&step, args)
	case OpAccept:
		err = parseAccept(&step, args)
	case OpMaskPath3:
		err = parseMask(&step, args)
	case OpQueue:
		err = parseQueue(&step, args)
	}

	return step, err
}

func argCount(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: want %d, got %d", ErrArguments, n, len(args))
	}

	return nil
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a 32-bit number", ErrArguments, s)
	}

	return uint32(v), nil
}

func parseAddr(step *Step, args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}

	addr, err := parseUint32(args[0])
	step.Addr = addr

	return err
}

func parseWrite(step *Step, args []string) error {
	if err := argCount(args, 5); err != nil {
		return err
	}

	addr, err := parseUint32(args[0])
	if err != nil {
		return err
	}

	var q qword.Quadword

	for i, a := range args[1:] {
		w, err := parseUint32(a)
		if err != nil {
			return err
		}

		q[3-i] = w
	}

	step.Addr = addr
	step.Data = []qword.Quadword{q}

	return nil
}

var statNames = map[string]uint32{
	"vif0": mmio.VIF0Stat,
	"vif1": mmio.VIF1Stat,
	"gif":  mmio.GIFStat,
}

func parseStat(step *Step, args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}

	if addr, ok := statNames[strings.ToLower(args[0])]; ok {
		step.Addr = addr
		return nil
	}

	return parseAddr(step, args)
}

func parseQuadwords(args []string) ([]qword.Quadword, error) {
	data := make([]qword.Quadword, 0, len(args))

	for _, a := range args {
		q, err := qword.Parse(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrArguments, err)
		}

		data = append(data, q)
	}

	return data, nil
}

func parseDownload(step *Step, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: download needs a count", ErrArguments)
	}

	n, err := parseUint32(args[0])
	if err != nil {
		return err
	}

	step.Count = int(n)
	step.Data, err = parseQuadwords(args[1:])

	return err
}

func parseAccept(step *Step, args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < -1 {
		return fmt.Errorf("%w: %q is not a budget", ErrArguments, args[0])
	}

	step.Count = n

	return nil
}

func parseMask(step *Step, args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}

	switch args[0] {
	case "on":
		step.On = true
	case "off":
		step.On = false
	default:
		return fmt.Errorf("%w: want on or off, got %q", ErrArguments, args[0])
	}

	return nil
}

func parseQueue(step *Step, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: queue needs a path and data", ErrArguments)
	}

	switch args[0] {
	case "path1":
		step.Path = regs.Path1
	case "path2":
		step.Path = regs.Path2
	default:
		return fmt.Errorf("%w: cannot queue on %q", ErrArguments, args[0])
	}

	var err error
	step.Data, err = parseQuadwords(args[1:])

	return err
}
