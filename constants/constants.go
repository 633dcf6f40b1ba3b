package constants

import "os"

// Conversions that need a default location use these; every path can also
// be given explicitly to the batch orchestrator.

func GetInputMidiDir() string {
	if path := os.Getenv("DATA_INPUT_MIDI"); path != "" {
		return path
	}
	return "data/input-midi"
}

func GetOutputCSVDir() string {
	if path := os.Getenv("DATA_OUTPUT_CSV"); path != "" {
		return path
	}
	return "data/output-csv"
}

func GetOutputMidiDir() string {
	if path := os.Getenv("DATA_OUTPUT_MIDI"); path != "" {
		return path
	}
	return "data/output-midi"
}

// GetMetadataEndpoint returns the DynamoDB endpoint for track metadata
// lookups, or "" when lookups are disabled.
func GetMetadataEndpoint() string {
	return os.Getenv("METADATA_DB_ENDPOINT")
}

func GetMetadataTable() string {
	if table := os.Getenv("METADATA_DB_TABLE"); table != "" {
		return table
	}
	return "notetab-metadata"
}

// DefaultTempo is assumed when a source stream carries no tempo marker.
const DefaultTempo = 120

// DefaultVelocity is used when encoding an event that has none.
const DefaultVelocity = 64

// TicksPerQuarter is the resolution of every MIDI file we write.
const TicksPerQuarter = 960

// RestName is the note_name sentinel a Rest row carries.
const RestName = "Rest"
