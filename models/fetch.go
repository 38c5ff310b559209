package models

type FetchState string

const (
	FetchIdle    FetchState = "idle"
	FetchLoading FetchState = "loading"
	FetchLoaded  FetchState = "loaded"
)

// FetchStatus is the reader-facing view of a remote fetcher. Results stays
// nil until the first fetch has been applied.
type FetchStatus struct {
	State   FetchState `json:"state"`
	Loading bool       `json:"loading"`
	Epoch   uint64     `json:"epoch"`
	Query   string     `json:"query"`
	Results []Item     `json:"results"`
}
