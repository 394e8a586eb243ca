package constraint

// ContactFlags is the state bitset of a contact
type ContactFlags uint32

const (
	// FlagIsland marks a contact already added to the island being built
	FlagIsland ContactFlags = 1 << iota
	// FlagTouching is set while the fixtures' shapes touch
	FlagTouching
	// FlagEnabled is cleared by a pre-solve callback to skip the contact for one step
	FlagEnabled
	// FlagFilter asks the world to re-check the collision filter of the pair
	FlagFilter
	// FlagBulletHit marks a contact hit by a bullet during TOI resolution
	FlagBulletHit
	// FlagTOI is set while the cached time of impact is valid
	FlagTOI
)

func (f ContactFlags) Has(flag ContactFlags) bool {
	return f&flag == flag
}

func (f *ContactFlags) Set(flag ContactFlags) {
	*f |= flag
}

func (f *ContactFlags) Clear(flag ContactFlags) {
	*f &^= flag
}

// SetTo sets or clears flag
func (f *ContactFlags) SetTo(flag ContactFlags, on bool) {
	if on {
		f.Set(flag)
	} else {
		f.Clear(flag)
	}
}

func (f ContactFlags) String() string {
	names := []struct {
		flag ContactFlags
		name string
	}{
		{FlagIsland, "island"},
		{FlagTouching, "touching"},
		{FlagEnabled, "enabled"},
		{FlagFilter, "filter"},
		{FlagBulletHit, "bullet-hit"},
		{FlagTOI, "toi"},
	}

	s := ""
	for _, n := range names {
		if !f.Has(n.flag) {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += n.name
	}
	if s == "" {
		return "none"
	}
	return s
}
