package guidance

// Mode reports which strategy produced a document's output.
type Mode string

const (
	ModeAssisted      Mode = "assisted"
	ModeDeterministic Mode = "deterministic"
)

func (m Mode) String() string {
	return string(m)
}
