package probe

import "context"

// Prober performs one attempt of a configured check. A nil error means
// the attempt succeeded; any error is a recoverable failure that feeds
// the caller's retry policy. Probers may emit progress notes through
// note, which the engine surfaces as Running updates.
type Prober interface {
	// Name identifies the probe for display, e.g. "http https://host".
	Name() string
	Probe(ctx context.Context, note func(string)) error
}

func send(note func(string), msg string) {
	if note != nil {
		note(msg)
	}
}
