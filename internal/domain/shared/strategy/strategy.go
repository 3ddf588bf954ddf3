package strategy

// Strategy is anything a registry can hold and list by name.
type Strategy interface {
	Name() string
	Description() string
}

// Named supplies Name and Description to strategies that embed it.
type Named struct {
	name        string
	description string
}

// NewNamed returns a Named with the given name and one-line description.
func NewNamed(name, description string) Named {
	return Named{name: name, description: description}
}

func (n Named) Name() string        { return n.name }
func (n Named) Description() string { return n.description }
