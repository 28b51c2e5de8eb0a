package db

import (
	"slices"
)

// AttachmentChange is the difference between the airstrips currently attached
// to a base and a proposed set.
type AttachmentChange struct {
	Attached []string `json:"attached"`
	Detached []string `json:"detached"`
	// SelfLoopRejected is set when the proposal named the base itself.
	SelfLoopRejected bool `json:"self_loop_rejected,omitempty"`
}

// Empty reports whether applying the change would leave the base untouched.
func (c AttachmentChange) Empty() bool {
	return len(c.Attached) == 0 && len(c.Detached) == 0
}

// PlanAttachments computes the airstrips to attach to and detach from base so
// that its attachment set becomes proposed. The base is never attached to
// itself. Both result lists are sorted and free of duplicates.
func PlanAttachments(base string, current, proposed []string) AttachmentChange {
	var change AttachmentChange

	want := make(map[string]bool, len(proposed))
	for _, ident := range proposed {
		if ident == base {
			change.SelfLoopRejected = true
			continue
		}
		want[ident] = true
	}

	have := make(map[string]bool, len(current))
	for _, ident := range current {
		have[ident] = true
	}

	for ident := range want {
		if !have[ident] {
			change.Attached = append(change.Attached, ident)
		}
	}
	for ident := range have {
		if !want[ident] {
			change.Detached = append(change.Detached, ident)
		}
	}

	slices.Sort(change.Attached)
	slices.Sort(change.Detached)
	return change
}
