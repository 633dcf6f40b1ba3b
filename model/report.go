package model

// FileError pairs an input path with the failure it produced.
type FileError struct {
	Path string
	Err  error
}

// BatchReport is what a batch of conversions hands back to the caller: one
// entry per unit of work. A bad file never aborts the batch, it just lands
// in Failed.
type BatchReport struct {
	Succeeded []string
	Failed    []FileError
}

func (r *BatchReport) AddSuccess(path string) {
	r.Succeeded = append(r.Succeeded, path)
}

func (r *BatchReport) AddFailure(path string, err error) {
	r.Failed = append(r.Failed, FileError{Path: path, Err: err})
}

// OK reports whether every unit of work succeeded.
func (r *BatchReport) OK() bool {
	return len(r.Failed) == 0
}

// TrackMetadata is the optional sidecar record looked up per source file.
type TrackMetadata struct {
	Artist  string `json:"artist"`
	Title   string `json:"title"`
	Release string `json:"release"`
	Year    uint   `json:"year"`
}
