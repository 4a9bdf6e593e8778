package campaign

// Draft accumulates the effects of one turn against a working copy of the
// campaign, so that later steps observe what earlier steps changed. The
// caller's State is never touched; the accumulated changes are applied to it
// once, by the turn pipeline.
type Draft struct {
	view *State
	fx   Effects
}

// NewDraft starts a draft over a private copy of st.
func NewDraft(st *State) *Draft {
	return &Draft{view: st.Clone()}
}

// State returns the working view. Callers must treat it as read-only.
func (d *Draft) State() *State {
	return d.view
}

// Turn is a shortcut for the working view's turn number.
func (d *Draft) Turn() int {
	return d.view.Turn()
}

// Add folds a batch into the draft. The batch's changes are applied to the
// working view first; on error nothing is recorded.
func (d *Draft) Add(fx Effects) error {
	if len(fx.Changes) > 0 {
		if err := d.view.Apply(fx.Changes); err != nil {
			return err
		}
	}
	d.fx.Merge(fx)
	return nil
}

// Effects returns everything recorded so far, in emission order.
func (d *Draft) Effects() Effects {
	return Effects{
		Events:  append([]Event(nil), d.fx.Events...),
		Changes: append([]StateChange(nil), d.fx.Changes...),
	}
}
