package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/san-kum/numhop/internal/surface"
	"github.com/san-kum/numhop/internal/visualiser"
)

var (
	ErrRunNotFound  = errors.New("storage: run not found")
	ErrAmbiguousRun = errors.New("storage: run id prefix is ambiguous")
)

const (
	metadataFile = "metadata.json"
	opsFile      = "ops.csv"
	traceFile    = "trace.msgpack"
)

// Outcome is how a recorded run ended.
type Outcome string

const (
	OutcomeDone       Outcome = "done"
	OutcomeDoesNotFit Outcome = "does_not_fit"
	OutcomeAborted    Outcome = "aborted"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string        `json:"id"`
	Problem      string        `json:"problem"`
	Operator     string        `json:"operator"`
	A            int           `json:"a"`
	B            int           `json:"b"`
	Result       string        `json:"result"`
	Min          int           `json:"min"`
	Max          int           `json:"max"`
	Width        float64       `json:"width"`
	Scale        int           `json:"scale"`
	StepDuration time.Duration `json:"step_duration"`
	Frames       int           `json:"frames"`
	Outcome      Outcome       `json:"outcome"`
	Hops         int           `json:"hops"`
	Ops          int           `json:"ops"`
	Timestamp    time.Time     `json:"timestamp"`
}

// Trace is everything drawn during a run and every transition it went
// through, in timeline order.
type Trace struct {
	Ops    []surface.Op       `msgpack:"ops"`
	Events []visualiser.Event `msgpack:"events"`
}

// Save writes a new run directory and returns its id. Ops and Hops in meta
// are filled from the trace.
func (s *Store) Save(meta RunMetadata, trace *Trace) (string, error) {
	if trace == nil {
		trace = &Trace{}
	}
	meta.ID = uuid.NewString()
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Ops = len(trace.Ops)
	meta.Hops = 0
	for _, e := range trace.Events {
		if e.Kind == visualiser.EventHopEnd {
			meta.Hops++
		}
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeOps(filepath.Join(runDir, opsFile), trace.Ops); err != nil {
		return "", err
	}

	data, err := msgpack.Marshal(trace)
	if err != nil {
		return "", fmt.Errorf("encode trace: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, traceFile), data, 0644); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

var opsHeader = []string{"at_ms", "kind", "x1", "y1", "x2", "y2", "radius", "start", "end", "ccw", "text", "font_size", "w", "h", "color"}

func writeOps(path string, ops []surface.Op) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(opsHeader); err != nil {
		return err
	}
	for _, op := range ops {
		row := []string{
			strconv.FormatInt(op.At.Milliseconds(), 10),
			string(op.Kind),
			formatFloat(op.P1.X),
			formatFloat(op.P1.Y),
			formatFloat(op.P2.X),
			formatFloat(op.P2.Y),
			formatFloat(op.Radius),
			formatFloat(op.Start),
			formatFloat(op.End),
			strconv.FormatBool(op.CCW),
			op.Text,
			formatFloat(op.FontSize),
			formatFloat(op.W),
			formatFloat(op.H),
			op.Color,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Resolve expands a unique id prefix to the full run id.
func (s *Store) Resolve(prefix string) (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	var match string
	for _, r := range runs {
		if r.ID == prefix {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguousRun, prefix)
			}
			match = r.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	}
	return match, nil
}

func (s *Store) LoadTrace(runID string) (*Trace, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var trace Trace
	if err := msgpack.Unmarshal(data, &trace); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	return &trace, nil
}

// LoadOps reads the draw ops back from the CSV transcript.
func (s *Store) LoadOps(runID string) ([]surface.Op, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, opsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(opsHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []surface.Op{}, nil
	}

	ops := make([]surface.Op, 0, len(records)-1)
	for _, rec := range records[1:] {
		ms, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ops row %d: %w", len(ops)+1, err)
		}
		f := make([]float64, 0, 11)
		for _, i := range []int{2, 3, 4, 5, 6, 7, 8, 11, 12, 13} {
			v, err := strconv.ParseFloat(rec[i], 64)
			if err != nil {
				return nil, fmt.Errorf("ops row %d: %w", len(ops)+1, err)
			}
			f = append(f, v)
		}
		ccw, err := strconv.ParseBool(rec[9])
		if err != nil {
			return nil, fmt.Errorf("ops row %d: %w", len(ops)+1, err)
		}
		ops = append(ops, surface.Op{
			At:       time.Duration(ms) * time.Millisecond,
			Kind:     surface.OpKind(rec[1]),
			P1:       surface.Point{X: f[0], Y: f[1]},
			P2:       surface.Point{X: f[2], Y: f[3]},
			Radius:   f[4],
			Start:    f[5],
			End:      f[6],
			CCW:      ccw,
			Text:     rec[10],
			FontSize: f[7],
			W:        f[8],
			H:        f[9],
			Color:    rec[14],
		})
	}
	return ops, nil
}

// PositionSeries samples the walker's position every step from the start of
// the trace to its last event.
func (t *Trace) PositionSeries(start int, step time.Duration) []float64 {
	if step <= 0 || len(t.Events) == 0 {
		return nil
	}
	last := t.Events[len(t.Events)-1].At
	series := make([]float64, 0, int(last/step)+1)
	pos := start
	i := 0
	for at := time.Duration(0); at <= last; at += step {
		for i < len(t.Events) && t.Events[i].At <= at {
			pos = t.Events[i].Position
			i++
		}
		series = append(series, float64(pos))
	}
	return series
}
