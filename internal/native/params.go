package native

// SamplingStrategy selects the decoder.
type SamplingStrategy int

const (
	SamplingGreedy SamplingStrategy = iota
	SamplingBeamSearch
)

func (s SamplingStrategy) String() string {
	if s == SamplingBeamSearch {
		return "beam_search"
	}
	return "greedy"
}

// FullParams is the subset of whisper_full_params the binding sets.
//
// The zero value is not useful; start from DefaultFullParams.
type FullParams struct {
	Strategy SamplingStrategy
	// Threads is forwarded to the engine's internal worker pool.
	Threads int
	// Language is an ISO code or "auto" for detection.
	Language        string
	Translate       bool
	PrintRealtime   bool
	PrintProgress   bool
	PrintTimestamps bool
	PrintSpecial    bool
	OffsetMS        int
	// NoContext drops the text of previous runs from the decoder prompt.
	NoContext     bool
	SingleSegment bool
}

// DefaultFullParams returns the fixed bundle used for every transcription:
// greedy sampling, language auto-detection, realtime and timestamp printing
// on, progress and special tokens off, no carried context, multi-segment.
// threads is passed to the engine as given.
func DefaultFullParams(threads int) FullParams {
	return FullParams{
		Strategy:        SamplingGreedy,
		Threads:         threads,
		Language:        "auto",
		Translate:       false,
		PrintRealtime:   true,
		PrintProgress:   false,
		PrintTimestamps: true,
		PrintSpecial:    false,
		OffsetMS:        0,
		NoContext:       true,
		SingleSegment:   false,
	}
}
