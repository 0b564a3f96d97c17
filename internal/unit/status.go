package unit

// Status is the transient per-name label the library attaches while it
// decides, during Rescan, whether a name needs (re)loading or unloading.
// It is metadata consumed entirely within one Rescan transaction; it is
// never the thing external observers see - for that, see the terminal
// events in event.go.
type Status int

const (
	// LoadStarted marks a name whose description was just inserted for
	// the first time.
	LoadStarted Status = iota
	// UpdateStarted marks a name whose description replaced an existing
	// one.
	UpdateStarted
	// UnloadStarted marks a name whose description was just removed; the
	// live instance, if any, is torn down on the next Rescan.
	UnloadStarted
)

func (s Status) String() string {
	switch s {
	case LoadStarted:
		return "LoadStarted"
	case UpdateStarted:
		return "UpdateStarted"
	case UnloadStarted:
		return "UnloadStarted"
	default:
		return "Unknown"
	}
}
