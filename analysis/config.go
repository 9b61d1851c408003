package analysis

import (
	"github.com/BurntSushi/toml"
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

// sweepFile is the layout of a file of extra sweeps:
//
//	[[sweep]]
//	id = "gossip"
//	x = "gossiptick"
//	xlabel = "gossip tick (s)"
//	hue = "failingleaves"
//	hue_format = "{value} failing nodes"
//	varying = ["gossiptick", "failingleaves"]
//	  [[sweep.source]]
//	  name = "simulations_6"
type sweepFile struct {
	Sweep []*Sweep `toml:"sweep"`
}

// LoadSweeps reads the sweeps of a TOML file.
func LoadSweeps(path string) ([]*Sweep, error) {
	var f sweepFile
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, xerrors.Errorf("reading sweeps: %v", err)
	}
	for _, key := range meta.Undecoded() {
		log.Warnf("%s: unknown key %s", path, key)
	}
	for i, s := range f.Sweep {
		if err := s.check(); err != nil {
			return nil, xerrors.Errorf("%s: sweep %d: %v", path, i+1, err)
		}
	}
	log.Lvlf2("Loaded %d sweeps from %s", len(f.Sweep), path)
	return f.Sweep, nil
}

// check validates a sweep and fills the defaults.
func (s *Sweep) check() error {
	if s.ID == "" {
		return xerrors.New("missing id")
	}
	if len(s.Sources) == 0 {
		return xerrors.New("missing source")
	}
	for _, src := range s.Sources {
		if src.Name == "" {
			return xerrors.New("source without name")
		}
	}
	if s.X == "" {
		return xerrors.New("missing x")
	}
	if s.XLabel == "" {
		s.XLabel = s.X
	}
	switch s.Kind {
	case "":
		s.Kind = Line
	case Line, Scatter:
	default:
		return xerrors.Errorf("unknown kind %q", s.Kind)
	}
	if s.Suffix == "" {
		s.Suffix = "by_" + s.X
	}
	return nil
}

// WithSweeps returns the analyses followed by the sweeps. A sweep replaces
// the analysis of the same name.
func WithSweeps(all []Analysis, sweeps []*Sweep) []Analysis {
	index := make(map[string]int, len(all))
	out := make([]Analysis, len(all))
	for i, a := range all {
		index[a.Name()] = i
		out[i] = a
	}
	for _, s := range sweeps {
		if i, ok := index[s.ID]; ok {
			log.Lvl2("Sweep", s.ID, "replaces the builtin analysis")
			out[i] = s
			continue
		}
		index[s.ID] = len(out)
		out = append(out, s)
	}
	return out
}
