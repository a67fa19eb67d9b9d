package fasta

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/UnknownOlympus/geotag/internal/metrics"
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

var (
	ErrInputNotFound = errors.New("input file not found")
	ErrEmptyRecordID = errors.New("record has an empty ID")
)

const (
	lineWidth     = 60
	fileExtension = ".fasta"
	dirPerm       = 0o755
)

// Record outcomes used as metric labels.
const (
	StatusWritten = "written"
	StatusFailed  = "failed"
)

// Splitter writes every record of a multi-record FASTA file to its own file,
// named after the record accession.
type Splitter struct {
	log         *slog.Logger
	metrics     *metrics.Metrics
	keepHeaders bool // write full FASTA records instead of bare sequence letters
}

// NewSplitter creates a Splitter. metrics may be nil.
func NewSplitter(log *slog.Logger, metrics *metrics.Metrics, keepHeaders bool) *Splitter {
	return &Splitter{log: log, metrics: metrics, keepHeaders: keepHeaders}
}

// Split reads input and writes one <accession>.fasta file per record into outputDir,
// creating it if needed. It returns the number of records written. Records sharing an
// accession overwrite each other.
func (s *Splitter) Split(ctx context.Context, input, outputDir string) (int, error) {
	in, err := os.Open(input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrInputNotFound, input)
		}
		return 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer in.Close()

	if err = s.ensureDir(ctx, outputDir); err != nil {
		return 0, err
	}

	reader := fasta.NewReader(in, linear.NewSeq("", nil, alphabet.DNA))
	processed := 0

	for {
		if err = ctx.Err(); err != nil {
			return processed, fmt.Errorf("splitting interrupted: %w", err)
		}

		sequence, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			s.count(StatusFailed)
			return processed, fmt.Errorf("failed to read fasta record: %w", readErr)
		}

		record, ok := sequence.(*linear.Seq)
		if !ok {
			s.count(StatusFailed)
			return processed, fmt.Errorf("failed to read fasta record: unexpected sequence type %T", sequence)
		}

		if err = s.writeRecord(ctx, record, outputDir); err != nil {
			s.count(StatusFailed)
			return processed, err
		}

		s.count(StatusWritten)
		processed++
	}

	s.log.InfoContext(ctx, "Splitting finished", "input", input, "records", processed)

	return processed, nil
}

func (s *Splitter) ensureDir(ctx context.Context, dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	s.log.InfoContext(ctx, "Created output directory", "dir", dir)

	return nil
}

func (s *Splitter) writeRecord(ctx context.Context, record *linear.Seq, outputDir string) error {
	if record.ID == "" {
		return ErrEmptyRecordID
	}

	name, parsed := Accession(record.ID)
	if !parsed {
		s.log.WarnContext(ctx, "Could not parse accession number, using cleaned ID for filename",
			"id", record.ID, "filename", name+fileExtension)
	}

	path := filepath.Join(outputDir, name+fileExtension)
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if s.keepHeaders {
		_, err = fasta.NewWriter(out, lineWidth).Write(record)
	} else {
		_, err = out.Write(letters(record.Seq))
	}
	if err != nil {
		out.Close()
		return fmt.Errorf("failed to write record %s: %w", record.ID, err)
	}

	if err = out.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	s.log.DebugContext(ctx, "Record written", "id", record.ID, "path", path)

	return nil
}

func (s *Splitter) count(status string) {
	if s.metrics != nil {
		s.metrics.RecordsSplit.WithLabelValues(status).Inc()
	}
}

func letters(seq alphabet.Letters) []byte {
	buf := make([]byte, len(seq))
	for i, l := range seq {
		buf[i] = byte(l)
	}

	return buf
}
