// Bench is a benchmarking tool for measuring filesort throughput and memory
// usage on generated input.
//
// Usage:
//
//	go run ./cmd/bench -lines 10000000 -threshold 64MiB -codec lz4
//
// Flags:
//
//	-lines      Number of lines to generate (default: 10,000,000)
//	-maxlen     Maximum line length in characters (default: 32)
//	-alphabet   Distinct letters, each in both cases (default: 26)
//	-threshold  In-memory limit, human size (default: 100MiB)
//	-codec      Bucket compression: none, lz4, zstd (default: none)
//	-seed       Generator seed (default: 0x1234)
package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/metrics"
	"runtime/pprof"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spaolacci/murmur3"

	filesort "github.com/bglogos/FileSort"
)

// getMaxRSS returns the maximum resident set size in bytes.
// Uses getrusage(RUSAGE_SELF) which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}

// generateLine derives line i from murmur3 hashes of (seed, i), so a run is
// reproducible without holding the input in memory.
func generateLine(buf []byte, i uint64, seed uint32, maxLen, alphabet int) []byte {
	var key [8]byte
	binary.LittleEndian.PutUint64(key[:], i)
	h1, h2 := murmur3.Sum128WithSeed(key[:], seed)

	n := int(h1%uint64(maxLen)) + 1
	buf = buf[:0]
	bitsLeft, pool := 64, h2
	for len(buf) < n {
		if bitsLeft < 8 {
			h1, h2 = murmur3.Sum128WithSeed(key[:], seed+uint32(len(buf)))
			pool, bitsLeft = h1^h2, 64
		}
		c := int(pool&0xff) % (2 * alphabet)
		pool >>= 8
		bitsLeft -= 8
		if c < alphabet {
			buf = append(buf, byte('a'+c))
		} else {
			buf = append(buf, byte('A'+c-alphabet))
		}
	}
	return buf
}

func main() {
	linesFlag := flag.Uint64("lines", 10_000_000, "number of lines")
	maxLenFlag := flag.Int("maxlen", 32, "maximum line length in characters")
	alphabetFlag := flag.Int("alphabet", 26, "distinct letters (1-26)")
	thresholdFlag := flag.String("threshold", "100MiB", "in-memory limit")
	codecFlag := flag.String("codec", "none", "bucket compression: none, lz4, zstd")
	seedFlag := flag.Uint("seed", 0x1234, "generator seed")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file (sort phase only)")
	memprofile := flag.String("memprofile", "", "write memory profile to file (sort phase only)")
	flag.Parse()

	if *maxLenFlag < 1 || *alphabetFlag < 1 || *alphabetFlag > 26 {
		fmt.Println("maxlen must be positive and alphabet within 1-26")
		return
	}
	threshold, err := humanize.ParseBytes(*thresholdFlag)
	if err != nil {
		fmt.Printf("Bad threshold: %v\n", err)
		return
	}
	codec, err := filesort.ParseCodec(*codecFlag)
	if err != nil {
		fmt.Printf("Bad codec: %v\n", err)
		return
	}

	tmpDir, err := os.MkdirTemp("", "bench-")
	if err != nil {
		fmt.Printf("Failed to create temp dir: %v\n", err)
		return
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()
	inputPath := filepath.Join(tmpDir, "input.txt")
	outputPath := filepath.Join(tmpDir, "output.txt")

	fmt.Println("Generating lines...")
	genStart := time.Now()
	f, err := os.Create(inputPath)
	if err != nil {
		fmt.Printf("Failed to create input: %v\n", err)
		return
	}
	w := bufio.NewWriterSize(f, 1<<20)
	buf := make([]byte, 0, *maxLenFlag)
	for i := range *linesFlag {
		buf = generateLine(buf, i, uint32(*seedFlag), *maxLenFlag, *alphabetFlag)
		_, _ = w.Write(buf)
		_ = w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		fmt.Printf("Failed to write input: %v\n", err)
		return
	}
	_ = f.Close()
	genDuration := time.Since(genStart)
	info, _ := os.Stat(inputPath)

	sorter, err := filesort.New(
		filesort.WithThreshold(int64(threshold)),
		filesort.WithCodec(codec),
		filesort.WithSync(false),
	)
	if err != nil {
		fmt.Printf("New failed: %v\n", err)
		return
	}

	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	var baseline runtime.MemStats
	runtime.ReadMemStats(&baseline)
	baselineRSS := getMaxRSS()

	// 10ms sampling for peak memory (both heap and RSS).
	// Uses runtime/metrics instead of ReadMemStats to avoid stop-the-world pauses.
	var peakAlloc atomic.Uint64
	var peakRSS atomic.Uint64
	peakAlloc.Store(baseline.Alloc)
	peakRSS.Store(baselineRSS)
	done := make(chan struct{})
	go func() {
		samples := []metrics.Sample{
			{Name: "/memory/classes/heap/objects:bytes"},
		}
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				metrics.Read(samples)
				heapBytes := samples[0].Value.Uint64()
				for {
					old := peakAlloc.Load()
					if heapBytes <= old || peakAlloc.CompareAndSwap(old, heapBytes) {
						break
					}
				}
				rss := getMaxRSS()
				for {
					old := peakRSS.Load()
					if rss <= old || peakRSS.CompareAndSwap(old, rss) {
						break
					}
				}
			}
		}
	}()

	if *cpuprofile != "" {
		pf, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Printf("could not create CPU profile: %v\n", err)
			return
		}
		defer func() { _ = pf.Close() }()
		if err := pprof.StartCPUProfile(pf); err != nil {
			fmt.Printf("could not start CPU profile: %v\n", err)
			return
		}
	}

	fmt.Println("Sorting...")
	res, err := sorter.Sort(context.Background(), inputPath, outputPath)

	if *cpuprofile != "" {
		pprof.StopCPUProfile()
	}
	if *memprofile != "" {
		mf, err := os.Create(*memprofile)
		if err != nil {
			fmt.Printf("could not create memory profile: %v\n", err)
		} else {
			runtime.GC()
			if err := pprof.WriteHeapProfile(mf); err != nil {
				fmt.Printf("could not write memory profile: %v\n", err)
			}
			_ = mf.Close()
		}
	}

	close(done)

	var final runtime.MemStats
	runtime.ReadMemStats(&final)
	if final.Alloc > peakAlloc.Load() {
		peakAlloc.Store(final.Alloc)
	}
	if finalRSS := getMaxRSS(); finalRSS > peakRSS.Load() {
		peakRSS.Store(finalRSS)
	}
	peakHeapMem := peakAlloc.Load() - baseline.Alloc
	peakRSSMem := peakRSS.Load() - baselineRSS

	if err != nil {
		fmt.Printf("Sort failed: %v\n", err)
		return
	}

	fmt.Println("Validating...")
	validStart := time.Now()
	valid := filesort.IsSorted(outputPath)
	validDuration := time.Since(validStart)

	fmt.Printf("\n")
	fmt.Printf("╔═════════════════════╦══════════════════════╗\n")
	fmt.Printf("║ Path: %-14s║ Codec: %-13s ║\n", res.Path, codec)
	fmt.Printf("╠═════════════════════╬══════════════════════╣\n")
	fmt.Printf("║ Lines               ║ %20s ║\n", humanize.Comma(res.Lines))
	fmt.Printf("║ Input size          ║ %20s ║\n", humanize.IBytes(uint64(info.Size())))
	fmt.Printf("║ Threshold           ║ %20s ║\n", humanize.IBytes(threshold))
	fmt.Printf("║ Range buckets       ║ %20d ║\n", res.RangeBuckets)
	fmt.Printf("║ Literal buckets     ║ %20d ║\n", res.LiteralBuckets)
	fmt.Printf("║ Splits              ║ %20d ║\n", res.Splits)
	fmt.Printf("║ Max depth           ║ %20d ║\n", res.MaxDepth)
	fmt.Printf("║ Generate time       ║ %16.2f sec ║\n", genDuration.Seconds())
	fmt.Printf("║ Sort time           ║ %16.2f sec ║\n", res.Duration.Seconds())
	fmt.Printf("║ Sort throughput     ║ %14.2f MiB/s ║\n", float64(info.Size())/(1<<20)/res.Duration.Seconds())
	fmt.Printf("║ Validate time       ║ %16.2f sec ║\n", validDuration.Seconds())
	fmt.Printf("║ Valid               ║ %20t ║\n", valid)
	fmt.Printf("║ Peak heap memory    ║ %20s ║\n", humanize.IBytes(peakHeapMem))
	fmt.Printf("║ Peak RSS memory     ║ %20s ║\n", humanize.IBytes(peakRSSMem))
	fmt.Printf("╚═════════════════════╩══════════════════════╝\n")
}
