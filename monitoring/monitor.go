// Package monitoring serves the state of a running emulation over HTTP.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	// Register the runtime profiling handlers on the default mux.
	_ "net/http/pprof"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/fifoemu/mmio"
	"github.com/sarchlab/fifoemu/monitoring/web"
)

// Named is anything with a name that the monitor can show.
type Named interface {
	Name() string
}

// Buffer is a queue whose fill level the monitor reports.
type Buffer interface {
	Name() string
	Size() int
	Capacity() int
}

// Monitor turns an emulation into a web server.
type Monitor struct {
	lock        sync.Locker
	bus         *mmio.Bus
	components  []Named
	buffers     []Buffer
	portNumber  int
	openBrowser bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{lock: &sync.Mutex{}}
}

// WithPortNumber sets the port number of the monitor. Zero picks a free
// port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitor, "+
				"using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithLock sets the lock that guards the emulation state. The code driving
// the handlers must hold the same lock.
func (m *Monitor) WithLock(l sync.Locker) *Monitor {
	m.lock = l
	return m
}

// WithBrowser opens the monitor page in a browser once the server runs.
func (m *Monitor) WithBrowser(open bool) *Monitor {
	m.openBrowser = open
	return m
}

// RegisterBus registers a bus, its handler context and its software FIFO.
func (m *Monitor) RegisterBus(b *mmio.Bus) {
	m.bus = b
	m.RegisterComponent(b)
	m.RegisterComponent(b.Context())
	m.RegisterBuffer(b.Context().SoftFIFO)
}

// RegisterComponent registers a component to be inspected. Buses, handler
// contexts, graphics-input units and renderer workers are shown through
// snapshots taken under the monitor lock.
func (m *Monitor) RegisterComponent(c Named) {
	m.components = append(m.components, c)
}

// RegisterBuffer registers a buffer whose level is reported.
func (m *Monitor) RegisterBuffer(b Buffer) {
	m.buffers = append(m.buffers, b)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the page.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			bars = append(bars, b)
		}
	}

	m.progressBars = bars
}

// Handler returns the router serving the monitor API and page.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/registers", m.listRegisters)
	r.HandleFunc("/api/buffers", m.listBuffers)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts serving in the background and returns the page URL.
func (m *Monitor) StartServer() string {
	addr := ":" + strconv.Itoa(m.portNumber)

	listener, err := net.Listen("tcp", addr)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring emulation with %s\n", url)

	go func() {
		err := http.Serve(listener, m.Handler())
		dieOnErr(err)
	}()

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			log.Printf("cannot open browser: %v", err)
		}
	}

	return url
}

type registerRsp struct {
	Name   string `json:"name"`
	Addr   uint32 `json:"addr"`
	Raw    uint32 `json:"raw"`
	Fields any    `json:"fields"`
	Error  string `json:"error,omitempty"`
}

func (m *Monitor) listRegisters(w http.ResponseWriter, _ *http.Request) {
	if m.bus == nil {
		http.Error(w, "no bus registered", http.StatusNotFound)
		return
	}

	m.lock.Lock()

	ctx := m.bus.Context()
	rsp := []registerRsp{
		m.register("VIF0_STAT", mmio.VIF0Stat, ctx.VIF0.Stat),
		m.register("VIF1_STAT", mmio.VIF1Stat, ctx.VIF1.Stat),
		m.register("GIF_STAT", mmio.GIFStat, *ctx.GIFStat),
	}

	m.lock.Unlock()

	writeJSON(w, rsp)
}

func (m *Monitor) register(name string, addr uint32, fields any) registerRsp {
	r := registerRsp{Name: name, Addr: addr, Fields: fields}

	raw, err := m.bus.ReadStat(addr)
	if err != nil {
		r.Error = err.Error()
	}

	r.Raw = raw

	return r
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	component := m.findComponentOr404(w, mux.Vars(r)["name"])
	if component == nil {
		return
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(view(component))
	serializer.SetMaxDepth(1)

	dieOnErr(serializer.Serialize(w))
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	component := m.findComponentOr404(w, req.CompName)
	if component == nil {
		return
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(view(component))
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dieOnErr(serializer.Serialize(w))
}

type bufferRsp struct {
	Buffer string `json:"buffer"`
	Level  int    `json:"level"`
	Cap    int    `json:"cap"`
}

func (m *Monitor) listBuffers(w http.ResponseWriter, r *http.Request) {
	sortMethod, limit, offset, err := buffersParseParams(r)
	if err != nil {
		http.Error(w, "Error: "+err.Error(), http.StatusBadRequest)
		return
	}

	m.lock.Lock()
	selected := m.sortAndSelectBuffers(sortMethod, limit, offset)
	m.lock.Unlock()

	writeJSON(w, selected)
}

func buffersParseParams(r *http.Request) (string, int, int, error) {
	q := r.URL.Query()

	sortMethod := q.Get("sort")
	if sortMethod == "" {
		sortMethod = "percent"
	}

	if sortMethod != "level" && sortMethod != "percent" {
		return "", 0, 0, fmt.Errorf(
			"invalid sort method %q, allowed values are level and percent",
			sortMethod)
	}

	limit, err := intParam(q.Get("limit"))
	if err != nil {
		return "", 0, 0, err
	}

	offset, err := intParam(q.Get("offset"))
	if err != nil {
		return "", 0, 0, err
	}

	return sortMethod, limit, offset, nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, errors.New("negative value " + s)
	}

	return n, nil
}

func bufferPercent(b bufferRsp) float64 {
	return float64(b.Level) / float64(b.Cap)
}

// sortAndSelectBuffers orders buffers fullest first. A zero limit returns
// everything after offset.
func (m *Monitor) sortAndSelectBuffers(
	sortMethod string,
	limit, offset int,
) []bufferRsp {
	rsp := make([]bufferRsp, 0, len(m.buffers))
	for _, b := range m.buffers {
		rsp = append(rsp, bufferRsp{
			Buffer: b.Name(),
			Level:  b.Size(),
			Cap:    b.Capacity(),
		})
	}

	sort.SliceStable(rsp, func(i, j int) bool {
		li, lj := rsp[i].Level, rsp[j].Level
		pi, pj := bufferPercent(rsp[i]), bufferPercent(rsp[j])

		if sortMethod == "level" {
			if li != lj {
				return li > lj
			}

			return pi > pj
		}

		if pi != pj {
			return pi > pj
		}

		return li > lj
	})

	if offset > len(rsp) {
		offset = len(rsp)
	}

	rsp = rsp[offset:]

	if limit > 0 && limit < len(rsp) {
		rsp = rsp[:limit]
	}

	return rsp
}

func (m *Monitor) findComponentOr404(w http.ResponseWriter, name string) Named {
	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	http.Error(w, "Component not found", http.StatusNotFound)

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	writeJSON(w, m.progressBars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	p, err := process.NewProcess(int32(os.Getpid()))
	dieOnErr(err)

	cpuPercent, err := p.CPUPercent()
	dieOnErr(err)

	memory, err := p.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memory.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	b, err := json.Marshal(v)
	dieOnErr(err)

	_, err = w.Write(b)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
