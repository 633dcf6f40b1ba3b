package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/jsphweid/notetab/batch"
	"github.com/jsphweid/notetab/codec"
	"github.com/jsphweid/notetab/constants"
	"github.com/jsphweid/notetab/db"
	"github.com/jsphweid/notetab/midi"
	"github.com/jsphweid/notetab/model"
	"github.com/jsphweid/notetab/table"
	"github.com/jsphweid/notetab/util"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the conversion API",
	Long:  `Serves an HTTP API that converts uploaded MIDI to CSV and back.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

// converted keeps every table produced over HTTP so upload bursts can be
// folded into one combined table.
var (
	convertedMu sync.Mutex
	converted   = make(map[string]model.Table)
	rebuild     = debounce.New(500 * time.Millisecond)
)

func writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}

// HandleMidiToCSV converts a MIDI body to CSV and returns it as JSON,
// enriched with track metadata when a metadata store is configured. The
// table also lands in the output dir, and a debounced rebuild folds all
// uploads so far into combined.csv.
func HandleMidiToCSV(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.mid"
	}

	s, err := midi.Decode(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	t := codec.Encode(s)

	var csvText strings.Builder
	if err := table.Write(&csvText, t); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	outDir := constants.GetOutputCSVDir()
	if err := util.EnsureDir(outDir); err == nil {
		outPath := filepath.Join(outDir, util.SwapExt(filepath.Base(name), ".csv"))
		if err := table.WriteFile(outPath, t); err != nil {
			log.Printf("Could not write %v because: %v", outPath, err)
		}
	}

	convertedMu.Lock()
	converted[name] = t
	convertedMu.Unlock()
	rebuild(func() { rebuildCombined(outDir) })

	res := model.ConvertResponse{
		Name:    name,
		Tempo:   s.Tempo,
		NumRows: len(t),
		CSV:     csvText.String(),
	}
	if db.Enabled() {
		metadatas, err := db.GetTrackMetadatas([]string{name})
		if err != nil {
			log.Printf("Could not fetch metadata for %v because: %v", name, err)
		} else if m, ok := metadatas[name]; ok {
			res.Metadata = &m
		}
	}
	json.NewEncoder(w).Encode(res)
}

// HandleCSVToMidi converts a CSV body straight to MIDI bytes.
func HandleCSVToMidi(w http.ResponseWriter, r *http.Request) {
	t, err := table.Read(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s, err := codec.Decode(t)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	data, err := midi.Encode(s)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	w.Write(data)
}

// rebuildCombined concatenates every uploaded table, in name order, into
// combined.csv.
func rebuildCombined(outDir string) {
	convertedMu.Lock()
	var tables []model.Table
	for _, name := range util.SortedKeys(converted) {
		tables = append(tables, converted[name])
	}
	convertedMu.Unlock()

	outPath := filepath.Join(outDir, batch.CombinedCSVName)
	if err := table.WriteFile(outPath, table.Concat(tables...)); err != nil {
		log.Printf("Could not write %v because: %v", outPath, err)
		return
	}
	fmt.Printf("Rebuilt %v from %v uploads\n", outPath, len(tables))
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/convert/midi-to-csv", HandleMidiToCSV).Methods("POST")
	router.HandleFunc("/convert/csv-to-midi", HandleCSVToMidi).Methods("POST")
	handler := cors.Default().Handler(router)
	log.Fatal(http.ListenAndServe(":8080", handler))
}
