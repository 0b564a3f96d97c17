package unit

// Event is anything the Broadcaster fans out. There are exactly two
// top-level shapes in addition to the bracketing Rescan markers: a
// Category announcement (one kind's description count changed) and a
// Status event (one unit name's lifecycle moved forward).
type Event interface {
	isEvent()
}

// RescanStart brackets the beginning of one Rescan transaction.
type RescanStart struct{}

func (RescanStart) isEvent() {}

// RescanFinish brackets the end of one Rescan transaction. Every event
// produced by that Rescan was published strictly between the matching
// RescanStart and RescanFinish.
type RescanFinish struct{}

func (RescanFinish) isEvent() {}

// CategoryEvent announces the number of loaded descriptions of one kind.
// It is published after every Upsert call; Remove calls publish an
// Unloading status event instead.
type CategoryEvent struct {
	Kind    Kind
	Message string
}

func (CategoryEvent) isEvent() {}

// StatusEvent carries one unit name's lifecycle transition.
type StatusEvent struct {
	Name     Name
	Contents StatusContents
}

func (StatusEvent) isEvent() {}

// StatusContents is the sum of terminal, externally observable lifecycle
// transitions a unit name can go through.
type StatusContents interface {
	isStatusContents()
}

type (
	// LoadStartedStatus mirrors Status.LoadStarted as an observable event.
	LoadStartedStatus struct{}
	// UpdateStartedStatus mirrors Status.UpdateStarted as an observable event.
	UpdateStartedStatus struct{}
	// UnloadStartedStatus mirrors Status.UnloadStarted as an observable event.
	UnloadStartedStatus struct{}
	// SelectedStatus: the description was parsed into a live instance.
	SelectedStatus struct{}
	// DeselectedStatus: a previously live interface was torn down ahead
	// of being replaced.
	DeselectedStatus struct{}
	// ActiveStatus: an interface finished activation successfully.
	ActiveStatus struct{}
	// ActiveFailedStatus: an interface's activation failed; it never
	// entered live[interface].
	ActiveFailedStatus struct{ Reason string }
	// DeactivateSuccessStatus: Deactivate returned without error.
	DeactivateSuccessStatus struct{ Note string }
	// DeactivateFailureStatus: Deactivate returned an error; removal
	// proceeds regardless.
	DeactivateFailureStatus struct{ Reason string }
	// UnloadingStatus: Remove* was called for this name.
	UnloadingStatus struct{}
	// UnitIncompatibleStatus: the description failed its compatibility
	// check (or select failed for any other reason); it never entered
	// the live map.
	UnitIncompatibleStatus struct{ Reason string }
)

func (LoadStartedStatus) isStatusContents()      {}
func (UpdateStartedStatus) isStatusContents()     {}
func (UnloadStartedStatus) isStatusContents()     {}
func (SelectedStatus) isStatusContents()          {}
func (DeselectedStatus) isStatusContents()        {}
func (ActiveStatus) isStatusContents()            {}
func (ActiveFailedStatus) isStatusContents()      {}
func (DeactivateSuccessStatus) isStatusContents() {}
func (DeactivateFailureStatus) isStatusContents() {}
func (UnloadingStatus) isStatusContents()         {}
func (UnitIncompatibleStatus) isStatusContents()  {}

// NewUnloadingEvent is a small convenience constructor, mirroring the
// teacher's UnitStatusEvent::new_unloading helper.
func NewUnloadingEvent(name Name) StatusEvent {
	return StatusEvent{Name: name, Contents: UnloadingStatus{}}
}

// NewSelectedEvent mirrors UnitStatusEvent::new_selected.
func NewSelectedEvent(name Name) StatusEvent {
	return StatusEvent{Name: name, Contents: SelectedStatus{}}
}

// NewUnitIncompatibleEvent mirrors UnitStatusEvent::new_unit_incompatible.
func NewUnitIncompatibleEvent(name Name, reason string) StatusEvent {
	return StatusEvent{Name: name, Contents: UnitIncompatibleStatus{Reason: reason}}
}
