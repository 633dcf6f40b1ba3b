// Package batch orchestrates conversions over single files or whole
// directories. Entry points never return an error: every unit of work
// lands in the BatchReport, and one bad file never aborts the rest.
package batch

import (
	"log"
	"os"
	"path/filepath"

	"github.com/jsphweid/notetab/codec"
	"github.com/jsphweid/notetab/combine"
	"github.com/jsphweid/notetab/midi"
	"github.com/jsphweid/notetab/model"
	"github.com/jsphweid/notetab/table"
	"github.com/jsphweid/notetab/util"
)

const (
	CombinedCSVName  = "combined.csv"
	CombinedMidiName = "combined.mid"
)

var midiExts = []string{".mid", ".midi"}
var csvExts = []string{".csv"}

// Config tells the orchestrator where to read, where to write and how to
// report. No defaults are baked in here; the CLI wires the conventional
// data dirs.
type Config struct {
	InputPath     string
	OutputPath    string
	CombineOutput bool
	Logger        *log.Logger
}

func (c *Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.New(os.Stderr, "", log.LstdFlags)
}

// ConvertMidiFile converts one MIDI file to one CSV file.
func ConvertMidiFile(inputPath, outputPath string) error {
	s, err := midi.ReadMidiFile(inputPath)
	if err != nil {
		return err
	}
	return table.WriteFile(outputPath, codec.Encode(s))
}

// ConvertCSVFile converts one CSV file to one MIDI file.
func ConvertCSVFile(inputPath, outputPath string) error {
	t, err := table.ReadFile(inputPath)
	if err != nil {
		return err
	}
	s, err := codec.Decode(t)
	if err != nil {
		return err
	}
	return midi.WriteMidiFile(outputPath, s)
}

// MidiToCSV converts cfg.InputPath (file or directory) to CSV under
// cfg.OutputPath. In directory mode with CombineOutput set and more than
// one file processed, a combined.csv with all tables concatenated is
// written as well.
func MidiToCSV(cfg Config) model.BatchReport {
	return run(cfg, midiExts, ".csv", ConvertMidiFile, func(outputs []string, report *model.BatchReport) {
		var tables []model.Table
		for _, path := range outputs {
			t, err := table.ReadFile(path)
			if err != nil {
				cfg.logger().Printf("Skipping %v because: %v", path, err)
				continue
			}
			tables = append(tables, t)
		}
		combined := filepath.Join(cfg.OutputPath, CombinedCSVName)
		if err := table.WriteFile(combined, table.Concat(tables...)); err != nil {
			cfg.logger().Printf("Could not write %v because: %v", combined, err)
			report.AddFailure(combined, err)
			return
		}
		report.AddSuccess(combined)
	})
}

// CSVToMidi converts cfg.InputPath (file or directory) to MIDI under
// cfg.OutputPath. In directory mode with CombineOutput set and more than
// one file processed, the produced MIDI outputs are additionally run
// through the stream combiner into combined.mid.
func CSVToMidi(cfg Config) model.BatchReport {
	return run(cfg, csvExts, ".mid", ConvertCSVFile, func(outputs []string, report *model.BatchReport) {
		s, failed := combine.Files(outputs, cfg.logger())
		for _, f := range failed {
			report.AddFailure(f.Path, f.Err)
		}
		combined := filepath.Join(cfg.OutputPath, CombinedMidiName)
		if err := midi.WriteMidiFile(combined, s); err != nil {
			cfg.logger().Printf("Could not write %v because: %v", combined, err)
			report.AddFailure(combined, err)
			return
		}
		report.AddSuccess(combined)
	})
}

// CombineMidis merges every MIDI file under inputDir into one file at
// outputPath.
func CombineMidis(inputDir, outputPath string, logger *log.Logger) model.BatchReport {
	var report model.BatchReport
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	paths, err := util.GatherPaths(inputDir, midiExts...)
	if err != nil {
		logger.Printf("Could not gather midi files in %v because: %v", inputDir, err)
		report.AddFailure(inputDir, err)
		return report
	}

	s, failed := combine.Files(paths, logger)
	for _, f := range failed {
		report.AddFailure(f.Path, f.Err)
	}
	for _, path := range paths {
		if !containsFailure(failed, path) {
			report.AddSuccess(path)
		}
	}

	if err := util.EnsureDir(filepath.Dir(outputPath)); err != nil {
		logger.Printf("Could not create %v because: %v", filepath.Dir(outputPath), err)
		report.AddFailure(outputPath, err)
		return report
	}
	if err := midi.WriteMidiFile(outputPath, s); err != nil {
		logger.Printf("Could not write %v because: %v", outputPath, err)
		report.AddFailure(outputPath, err)
		return report
	}
	report.AddSuccess(outputPath)
	return report
}

func containsFailure(failed []model.FileError, path string) bool {
	for _, f := range failed {
		if f.Path == path {
			return true
		}
	}
	return false
}

// run drives one direction of conversion over a file or a directory.
func run(cfg Config, inputExts []string, outputExt string,
	convert func(in, out string) error,
	combineOutputs func(outputs []string, report *model.BatchReport)) model.BatchReport {

	var report model.BatchReport
	logger := cfg.logger()

	info, err := os.Stat(cfg.InputPath)
	if err != nil {
		logger.Printf("Could not stat %v because: %v", cfg.InputPath, err)
		report.AddFailure(cfg.InputPath, err)
		return report
	}

	// single-file mode: OutputPath names the output file itself, unless it
	// is an existing directory to drop the output into by base name
	if !info.IsDir() {
		outputPath := cfg.OutputPath
		if out, err := os.Stat(outputPath); err == nil && out.IsDir() {
			outputPath = filepath.Join(outputPath, util.SwapExt(filepath.Base(cfg.InputPath), outputExt))
		}
		if err := convert(cfg.InputPath, outputPath); err != nil {
			logger.Printf("Could not convert %v because: %v", cfg.InputPath, err)
			report.AddFailure(cfg.InputPath, err)
			return report
		}
		report.AddSuccess(outputPath)
		return report
	}

	if err := util.EnsureDir(cfg.OutputPath); err != nil {
		logger.Printf("Could not create %v because: %v", cfg.OutputPath, err)
		report.AddFailure(cfg.OutputPath, err)
		return report
	}

	paths, err := util.GatherPaths(cfg.InputPath, inputExts...)
	if err != nil {
		logger.Printf("Could not gather files in %v because: %v", cfg.InputPath, err)
		report.AddFailure(cfg.InputPath, err)
		return report
	}

	var outputs []string
	for i, inputPath := range paths {
		logger.Printf("Processing %v of %v files", i+1, len(paths))
		outputPath := filepath.Join(cfg.OutputPath, util.SwapExt(filepath.Base(inputPath), outputExt))
		if err := convert(inputPath, outputPath); err != nil {
			logger.Printf("Skipping %v because: %v", inputPath, err)
			report.AddFailure(inputPath, err)
			continue
		}
		report.AddSuccess(outputPath)
		outputs = append(outputs, outputPath)
	}

	if cfg.CombineOutput && len(outputs) > 1 {
		combineOutputs(outputs, &report)
	}
	return report
}
