package logging

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"riffga/internal/ga"
)

// Logger reports evolution progress to the console, a CSV file and a JSONL file.
// Empty paths and a nil console writer disable the respective output.
type Logger struct {
	runID       string
	csvPath     string
	jsonPath    string
	console     io.Writer
	csvFile     *os.File
	csvWriter   *csv.Writer
	jsonFile    *os.File
	initialized bool
	err         error // first write error, reported by Close
}

// NewLogger creates a new logger with a fresh run id
func NewLogger(csvPath, jsonPath string, console io.Writer) (*Logger, error) {
	l := &Logger{
		runID:    uuid.NewString(),
		csvPath:  csvPath,
		jsonPath: jsonPath,
		console:  console,
	}

	// Ensure directories exist
	for _, path := range []string{csvPath, jsonPath} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// RunID identifies this run in every log line and in the saved riff
func (l *Logger) RunID() string {
	return l.runID
}

// Init opens the log files
func (l *Logger) Init() error {
	var err error

	if l.csvPath != "" {
		l.csvFile, err = os.Create(l.csvPath)
		if err != nil {
			return err
		}
		l.csvWriter = csv.NewWriter(l.csvFile)

		header := []string{
			"run_id", "generation", "best_fitness", "mean_fitness", "std_fitness", "best_hits", "best_genome",
		}
		if err := l.csvWriter.Write(header); err != nil {
			return err
		}
	}

	if l.jsonPath != "" {
		l.jsonFile, err = os.OpenFile(l.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
	}

	l.initialized = true
	return nil
}

// Close flushes and closes the log files and returns the first write error
func (l *Logger) Close() error {
	if l.csvWriter != nil {
		l.csvWriter.Flush()
		l.keep(l.csvWriter.Error())
	}
	if l.csvFile != nil {
		l.keep(l.csvFile.Close())
	}
	if l.jsonFile != nil {
		l.keep(l.jsonFile.Close())
	}
	return l.err
}

func (l *Logger) keep(err error) {
	if err != nil && l.err == nil {
		l.err = err
	}
}

// ProgressRecord is one JSONL line
type ProgressRecord struct {
	RunID       string  `json:"run_id"`
	Generation  int     `json:"generation"`
	BestFitness float64 `json:"best_fitness"`
	MeanFitness float64 `json:"mean_fitness"`
	StdFitness  float64 `json:"std_fitness"`
	BestHits    int     `json:"best_hits"`
	BestGenome  string  `json:"best_genome"`
}

// Observe logs one progress report
func (l *Logger) Observe(p ga.Progress) {
	rec := ProgressRecord{
		RunID:       l.runID,
		Generation:  p.Generation,
		BestFitness: p.Best,
		MeanFitness: p.Mean,
		StdFitness:  p.Std,
		BestHits:    p.Hits,
		BestGenome:  p.Genome.String(),
	}

	if l.initialized && l.csvWriter != nil {
		row := []string{
			rec.RunID,
			strconv.Itoa(rec.Generation),
			fmt.Sprintf("%.4f", rec.BestFitness),
			fmt.Sprintf("%.4f", rec.MeanFitness),
			fmt.Sprintf("%.4f", rec.StdFitness),
			strconv.Itoa(rec.BestHits),
			rec.BestGenome,
		}
		l.keep(l.csvWriter.Write(row))
		l.csvWriter.Flush()
	}

	if l.initialized && l.jsonFile != nil {
		line, err := json.Marshal(rec)
		l.keep(err)
		if err == nil {
			_, err = l.jsonFile.Write(append(line, '\n'))
			l.keep(err)
		}
	}

	if l.console != nil {
		fmt.Fprintf(l.console, "Gen %4d | best=%.3f | mean=%.3f | hits=%d | %s\n",
			rec.Generation, rec.BestFitness, rec.MeanFitness, rec.BestHits, rec.BestGenome)
	}
}
