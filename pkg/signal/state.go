package signal

// State is a writable leaf signal. Its current value lives in the
// registry, keyed by Id; Init is only the seed used the first time the
// registry is asked for a value it has never seen.
type State struct {
	Id   string `json:"id"`
	K    Kind   `json:"kind"`
	Init any    `json:"init"`
}

// NewState creates a state signal with a fresh sequential id from the
// current scope (see scope.go). Two calls always produce distinct ids —
// unlike derived signals, state has no content-addressable identity
// because two state signals with the same init are not the same cell.
func NewState(init any) *State {
	return &State{Id: NextStateID(), K: KindState, Init: init}
}

func (s *State) ID() string   { return s.Id }
func (s *State) Kind() Kind   { return KindState }
func (s *State) Clean() Signal {
	cp := *s
	return &cp
}
