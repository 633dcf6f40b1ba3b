package model

type ConvertResponse struct {
	Name     string         `json:"name"`
	Tempo    float64        `json:"tempo"`
	NumRows  int            `json:"num_rows"`
	CSV      string         `json:"csv"`
	Metadata *TrackMetadata `json:"metadata,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
