// Command octopus_sweep measures octopus proof sizes over an (M,N) grid.
// For every grid point it builds fresh GGM trees, opens them under the
// reference challenge pattern (one challenged leaf per residue class mod M)
// and records mean revealed-node counts, serialized proof bytes and
// build/open/verify timings as JSONL and CSV rows.
package main

import (
	"bufio"
	"encoding/binary"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tuneinsight/lattigo/v4/utils"

	bavc "GGM-Octopus/BAVC"
	ggm "GGM-Octopus/GGM"
	"GGM-Octopus/prof"
)

const (
	defaultJSONLPath = "Additionnals/octopus_sweep.jsonl"
	defaultCSVPath   = "Additionnals/octopus_sweep.csv"
	defaultMSpec     = "1,2,3,4,8,12,16"
	defaultNSpec     = "1,2,4,7,16,32,64"
)

// SweepRow is one (M,N) grid point averaged over all trials.
type SweepRow struct {
	M            int              `json:"M"`
	N            int              `json:"N"`
	Leaves       int              `json:"Leaves"`
	Height       int              `json:"Height"`
	Abandoned    int              `json:"Abandoned"`
	Trials       int              `json:"Trials"`
	MeanRevealed float64          `json:"MeanRevealed"`
	MeanBytes    float64          `json:"MeanBytes"`
	NaiveNodes   int              `json:"NaiveNodes"` // M independent paths of H siblings
	TimingsUS    map[string]int64 `json:"TimingsUS"`
}

type runner struct {
	prng      utils.PRNG
	trials    int
	jsonFile  *os.File
	jsonBuf   *bufio.Writer
	jsonEnc   *json.Encoder
	csvFile   *os.File
	csvWriter *csv.Writer
}

func main() {
	jsonPath := flag.String("jsonl", defaultJSONLPath, "JSONL output path (empty to disable)")
	csvPath := flag.String("csv", defaultCSVPath, "CSV output path (empty to disable)")
	mSpec := flag.String("m", defaultMSpec, "M grid (comma list)")
	nSpec := flag.String("n", defaultNSpec, "N grid (comma list)")
	trials := flag.Int("trials", 100, "trials per grid point")
	keyHex := flag.String("key", "", "hex key for deterministic randomness (empty = fresh)")
	flag.Parse()

	ms, err := parseIntList(*mSpec)
	if err != nil {
		fatalf("parse -m: %v", err)
	}
	ns, err := parseIntList(*nSpec)
	if err != nil {
		fatalf("parse -n: %v", err)
	}
	r, err := newRunner(*jsonPath, *csvPath, *keyHex, *trials)
	if err != nil {
		fatalf("%v", err)
	}
	defer r.Close()

	start := time.Now()
	count := 0
	for _, m := range ms {
		for _, n := range ns {
			row, err := r.runPoint(m, n)
			if err != nil {
				fatalf("M=%d N=%d: %v", m, n, err)
			}
			if err := r.emit(row); err != nil {
				fatalf("write row: %v", err)
			}
			count++
			fmt.Fprintf(os.Stderr, "M=%-3d N=%-3d leaves=%-5d H=%-2d mean nodes=%.2f mean bytes=%.1f\n",
				row.M, row.N, row.Leaves, row.Height, row.MeanRevealed, row.MeanBytes)
		}
	}
	fmt.Fprintf(os.Stderr, "swept %d grid points in %s\n", count, time.Since(start).Round(time.Millisecond))
}

func newRunner(jsonPath, csvPath, keyHex string, trials int) (*runner, error) {
	if trials < 1 {
		return nil, fmt.Errorf("trials must be >= 1")
	}
	var prng utils.PRNG
	var err error
	if keyHex == "" {
		prng, err = utils.NewPRNG()
	} else {
		var key []byte
		key, err = hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("decode -key: %w", err)
		}
		prng, err = utils.NewKeyedPRNG(key)
	}
	if err != nil {
		return nil, err
	}
	r := &runner{prng: prng, trials: trials}
	if jsonPath != "" {
		if err := os.MkdirAll(dirOf(jsonPath), 0o755); err != nil && !os.IsExist(err) {
			return nil, fmt.Errorf("create json dir: %w", err)
		}
		f, err := os.Create(jsonPath)
		if err != nil {
			return nil, fmt.Errorf("open json output: %w", err)
		}
		r.jsonFile = f
		r.jsonBuf = bufio.NewWriter(f)
		r.jsonEnc = json.NewEncoder(r.jsonBuf)
	}
	if csvPath != "" {
		if err := os.MkdirAll(dirOf(csvPath), 0o755); err != nil && !os.IsExist(err) {
			return nil, fmt.Errorf("create csv dir: %w", err)
		}
		f, err := os.Create(csvPath)
		if err != nil {
			return nil, fmt.Errorf("open csv output: %w", err)
		}
		r.csvFile = f
		r.csvWriter = csv.NewWriter(f)
		if err := r.csvWriter.Write([]string{
			"M", "N", "leaves", "height", "abandoned", "trials",
			"mean_revealed", "mean_bytes", "naive_nodes",
			"build_us", "open_us", "verify_us",
		}); err != nil {
			return nil, fmt.Errorf("write csv header: %w", err)
		}
	}
	return r, nil
}

// runPoint runs all trials for one (M,N) pair and checks every round trip.
func (r *runner) runPoint(M, N int) (*SweepRow, error) {
	params, err := ggm.NewParams(M, N)
	if err != nil {
		return nil, err
	}
	prg := ggm.ShakePRG{}
	prof.SnapshotAndReset()

	var sumRevealed, sumBytes int
	for trial := 0; trial < r.trials; trial++ {
		var seed ggm.Node
		if _, err := r.prng.Read(seed[:]); err != nil {
			return nil, fmt.Errorf("sample seed: %w", err)
		}
		t0 := time.Now()
		tree := ggm.BuildTree(seed, params, prg)
		prof.Track(t0, "build")

		// One challenged leaf per residue class mod M.
		challenges := make([]int, 0, M)
		for j := 0; j < M; j++ {
			challenges = append(challenges, j+r.randInt(N)*M)
		}

		t0 = time.Now()
		proof, err := bavc.Open(tree, challenges)
		prof.Track(t0, "open")
		if err != nil {
			return nil, err
		}
		wire, err := proof.MarshalBinary()
		if err != nil {
			return nil, err
		}
		sumRevealed += proof.NumRevealed()
		sumBytes += len(wire)

		t0 = time.Now()
		rec, err := bavc.Verify(proof, M, N, prg)
		prof.Track(t0, "verify")
		if err != nil {
			return nil, err
		}
		if err := checkRoundTrip(tree, rec, challenges); err != nil {
			return nil, err
		}
	}

	return &SweepRow{
		M:            M,
		N:            N,
		Leaves:       params.Leaves(),
		Height:       params.Height(),
		Abandoned:    len(mustAbandon(M, N)),
		Trials:       r.trials,
		MeanRevealed: float64(sumRevealed) / float64(r.trials),
		MeanBytes:    float64(sumBytes) / float64(r.trials),
		NaiveNodes:   M * params.Height(),
		TimingsUS:    prof.MeansMicros(prof.SnapshotAndReset()),
	}, nil
}

// checkRoundTrip compares the verifier's output against the built tree:
// every non-challenged leaf must match, every challenged leaf must be unset.
func checkRoundTrip(tree *ggm.Tree, rec *bavc.Recovered, challenges []int) error {
	hidden := make(map[int]struct{}, len(challenges))
	for _, c := range challenges {
		hidden[c] = struct{}{}
	}
	for i, want := range tree.Leaves() {
		got, ok := rec.Leaf(i)
		if _, h := hidden[i]; h {
			if ok {
				return fmt.Errorf("challenged leaf %d was recovered", i)
			}
			continue
		}
		if !ok {
			return fmt.Errorf("leaf %d not recovered", i)
		}
		if got != want {
			return fmt.Errorf("leaf %d mismatch", i)
		}
	}
	return nil
}

func (r *runner) randInt(n int) int {
	if n <= 1 {
		return 0
	}
	var buf [8]byte
	_, _ = r.prng.Read(buf[:])
	return int(binary.LittleEndian.Uint64(buf[:]) % uint64(n))
}

func (r *runner) emit(row *SweepRow) error {
	if r.jsonEnc != nil {
		if err := r.jsonEnc.Encode(row); err != nil {
			return err
		}
		_ = r.jsonBuf.Flush()
	}
	if r.csvWriter != nil {
		rec := []string{
			strconv.Itoa(row.M), strconv.Itoa(row.N),
			strconv.Itoa(row.Leaves), strconv.Itoa(row.Height),
			strconv.Itoa(row.Abandoned), strconv.Itoa(row.Trials),
			strconv.FormatFloat(row.MeanRevealed, 'f', 3, 64),
			strconv.FormatFloat(row.MeanBytes, 'f', 1, 64),
			strconv.Itoa(row.NaiveNodes),
			strconv.FormatInt(row.TimingsUS["build"], 10),
			strconv.FormatInt(row.TimingsUS["open"], 10),
			strconv.FormatInt(row.TimingsUS["verify"], 10),
		}
		if err := r.csvWriter.Write(rec); err != nil {
			return err
		}
		r.csvWriter.Flush()
	}
	return nil
}

func (r *runner) Close() {
	if r.jsonBuf != nil {
		_ = r.jsonBuf.Flush()
	}
	if r.jsonFile != nil {
		_ = r.jsonFile.Close()
	}
	if r.csvWriter != nil {
		r.csvWriter.Flush()
	}
	if r.csvFile != nil {
		_ = r.csvFile.Close()
	}
}

func mustAbandon(M, N int) []int {
	layers, err := ggm.AbandonLayers(M, N)
	if err != nil {
		return nil
	}
	return layers
}

func parseIntList(spec string) ([]int, error) {
	var out []int
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("bad entry %q: %w", tok, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty grid spec %q", spec)
	}
	return out, nil
}

func dirOf(path string) string {
	d := filepath.Dir(path)
	if d == "" {
		return "."
	}
	return d
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "octopus_sweep: "+format+"\n", args...)
	os.Exit(1)
}
