package audio

// Exclusive keeps at most one of its controllers playing.
// Starting a member pauses every other member first.
type Exclusive struct {
	members []*Controller
}

// NewExclusive groups the given controllers.
func NewExclusive(members ...*Controller) *Exclusive {
	return &Exclusive{members: append([]*Controller(nil), members...)}
}

// Toggle pauses target if it was requested, otherwise pauses the others and plays target.
func (group *Exclusive) Toggle(target *Controller) {
	if target.Wanted() {
		target.Pause()
		return
	}
	group.Play(target)
}

// Play pauses every other member and plays target.
func (group *Exclusive) Play(target *Controller) {
	for _, member := range group.members {
		if member != target {
			member.Pause()
		}
	}
	target.Play()
}

// PauseAll pauses every member.
func (group *Exclusive) PauseAll() {
	for _, member := range group.members {
		member.Pause()
	}
}
