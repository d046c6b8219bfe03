// Package compress implements the streaming compressor: a producer/
// consumer pipeline that parses identified vectors from text input and
// writes them to a framed on-disk container, optionally scalar-quantizing
// them first.
package compress

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/vectroplus/vectro/internal/codec"
	"github.com/vectroplus/vectro/internal/obs"
	"github.com/vectroplus/vectro/internal/quant"
	"github.com/vectroplus/vectro/internal/verrors"
)

const channelCapacity = 1024

// progressCadence matches the original CLI's "every 100 parsed records"
// message cadence.
const progressCadence = 100

// Config configures one compress_stream run.
type Config struct {
	// Quantize selects the QSTREAM output path (two-pass scalar
	// quantization) over the default full-precision STREAM path.
	Quantize bool
	// Workers is the worker-pool size for the fan-out stage. 0 or
	// negative uses runtime.NumCPU(), floor 1.
	Workers int
	// Progress, if non-nil, receives incremental parsed-record counts.
	Progress Progress
	// Metrics, if non-nil, is incremented as records are parsed/dropped
	// and observed for total duration.
	Metrics *obs.Metrics
}

func (c Config) workerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}

func (c Config) progress() Progress {
	if c.Progress != nil {
		return c.Progress
	}
	return noopProgress{}
}

// Stream parses every line of input, builds either a STREAM or QSTREAM
// container at output (per cfg.Quantize), and returns the count of
// successfully parsed records. Malformed lines are dropped silently per
// the parser's per-record error policy; I/O and container failures are
// returned wrapped in *verrors.Error.
func Stream(cfg Config, input, output string) (int, error) {
	if cfg.Metrics != nil {
		start := time.Now()
		defer func() { cfg.Metrics.CompressDuration.Observe(time.Since(start).Seconds()) }()
	}
	if cfg.Quantize {
		return streamQuantized(cfg, input, output)
	}
	return streamPlain(cfg, input, output)
}

// streamPlain implements the full-precision STREAM path: parser feeds a
// bounded channel of parsed records, a worker pool of cfg.workerCount()
// goroutines encodes each as a msgpack payload, and a single writer
// goroutine frames and appends them to output in arrival order (ordering
// across workers is not preserved, per §4.4's "order-free frame writer").
func streamPlain(cfg Config, input, output string) (int, error) {
	in, err := os.Open(input)
	if err != nil {
		return 0, verrors.New("compress", "streamPlain", "failed to open input", err)
	}
	defer in.Close()

	out, err := os.Create(output)
	if err != nil {
		return 0, verrors.New("compress", "streamPlain", "failed to create output", err)
	}
	defer out.Close()

	writer := bufio.NewWriter(out)
	if err := codec.WriteStreamHeader(writer); err != nil {
		return 0, err
	}

	records := make(chan record, channelCapacity)
	payloads := make(chan []byte, channelCapacity)

	var workerWG sync.WaitGroup
	for i := 0; i < cfg.workerCount(); i++ {
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			for rec := range records {
				payload, err := codec.EncodeEmbedding(codec.EmbeddingWire{ID: rec.ID, Vector: rec.Vector})
				if err != nil {
					continue
				}
				payloads <- payload
			}
		}()
	}

	writerDone := make(chan error, 1)
	go func() {
		var writeErr error
		for payload := range payloads {
			if writeErr != nil {
				continue // drain so upstream workers never block on a dead writer
			}
			if err := codec.WriteFrame(writer, payload); err != nil {
				writeErr = err
			}
		}
		if writeErr != nil {
			writerDone <- writeErr
			return
		}
		writerDone <- writer.Flush()
	}()

	parsed := scanAndDispatch(cfg, in, func(rec record) {
		records <- rec
	})

	close(records)
	workerWG.Wait()
	close(payloads)

	if err := <-writerDone; err != nil {
		return parsed, verrors.New("compress", "streamPlain", "failed to write output", err)
	}

	cfg.progress().Add(0) // final tick, cosmetic only
	return parsed, nil
}

// streamQuantized implements the two-pass QSTREAM path: the parser
// collects every embedding in memory (quantization tables need the full
// dataset's per-dimension extrema before the first byte can be written),
// then a worker pool encodes each (id, qvec) pair while a writer goroutine
// frames them after the header.
func streamQuantized(cfg Config, input, output string) (int, error) {
	in, err := os.Open(input)
	if err != nil {
		return 0, verrors.New("compress", "streamQuantized", "failed to open input", err)
	}
	defer in.Close()

	var collected []record
	parsed := scanAndDispatch(cfg, in, func(rec record) {
		collected = append(collected, rec)
	})

	vectors := make([][]float32, len(collected))
	for i, rec := range collected {
		vectors[i] = rec.Vector
	}
	tables, qvecs := quant.QuantizeDataset(vectors)

	out, err := os.Create(output)
	if err != nil {
		return parsed, verrors.New("compress", "streamQuantized", "failed to create output", err)
	}
	defer out.Close()

	writer := bufio.NewWriter(out)
	wireTables := make([]codec.QuantTableWire, len(tables))
	for i, t := range tables {
		wireTables[i] = codec.QuantTableWire{Min: t.Min, Max: t.Max}
	}
	if err := codec.WriteQStreamHeader(writer, wireTables); err != nil {
		return parsed, err
	}

	qrecords := make(chan codec.QRecord, channelCapacity)
	payloads := make(chan []byte, channelCapacity)

	var workerWG sync.WaitGroup
	for i := 0; i < cfg.workerCount(); i++ {
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			for rec := range qrecords {
				payload, err := codec.EncodeQRecord(rec)
				if err != nil {
					continue
				}
				payloads <- payload
			}
		}()
	}

	writerDone := make(chan error, 1)
	go func() {
		var writeErr error
		for payload := range payloads {
			if writeErr != nil {
				continue // drain so upstream workers never block on a dead writer
			}
			if err := codec.WriteFrame(writer, payload); err != nil {
				writeErr = err
			}
		}
		if writeErr != nil {
			writerDone <- writeErr
			return
		}
		writerDone <- writer.Flush()
	}()

	for i, rec := range collected {
		qrecords <- codec.QRecord{ID: rec.ID, QVec: qvecs[i]}
	}
	close(qrecords)
	workerWG.Wait()
	close(payloads)

	if err := <-writerDone; err != nil {
		return parsed, verrors.New("compress", "streamQuantized", "failed to write output", err)
	}

	return parsed, nil
}

// scanAndDispatch reads input line by line, parses each with parseLine,
// and invokes emit for every successfully parsed record. It returns the
// count of parsed records and reports progress every progressCadence
// records.
func scanAndDispatch(cfg Config, in *os.File, emit func(record)) int {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	parsed := 0
	reporter := cfg.progress()

	for scanner.Scan() {
		rec, ok := parseLine(scanner.Text())
		if !ok {
			if cfg.Metrics != nil {
				cfg.Metrics.RecordsDropped.Inc()
			}
			continue
		}

		emit(rec)
		parsed++
		if cfg.Metrics != nil {
			cfg.Metrics.RecordsParsed.Inc()
		}
		if parsed%progressCadence == 0 {
			reporter.Add(progressCadence)
		}
	}

	return parsed
}

// Summary formats the terminal message the original CLI prints after a
// run: "wrote N [quantized ]entries to PATH".
func Summary(n int, output string, quantized bool) string {
	if quantized {
		return fmt.Sprintf("wrote %d quantized entries to %s", n, output)
	}
	return fmt.Sprintf("wrote %d entries to %s", n, output)
}
