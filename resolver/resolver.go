package resolver

import (
	"fmt"
	"path"
	"strings"

	"github.com/mwantia/sizefs/content"
	"github.com/mwantia/sizefs/size"
)

// Resolver maps virtual paths to virtual files. It is immutable after New
// and safe for concurrent use.
type Resolver struct {
	rules    []Rule
	index    map[string]int
	units    *size.Units
	fallback content.Pattern
}

// VirtualFile is the complete description of a file: its length and the
// pattern of its bytes. It is recomputed from the path on every resolve.
type VirtualFile struct {
	Path    string
	Spec    size.Spec
	Length  uint64
	Pattern content.Pattern
}

func New(opts ...Option) (*Resolver, error) {
	o := &options{
		seed:  []byte(DefaultSeed),
		units: size.JEDECUnits,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	r := &Resolver{
		index:    make(map[string]int),
		units:    o.units,
		fallback: content.Zero(),
	}
	if o.fallback != nil {
		r.fallback = *o.fallback
	}

	for _, rule := range DefaultRules(o.seed) {
		r.set(rule)
	}

	for _, pending := range o.rules {
		if pending.pattern != nil {
			r.set(Rule{Name: pending.name, Pattern: *pending.pattern})
			continue
		}

		pattern, err := content.ParsePattern(pending.expr, o.seed)
		if err != nil {
			return nil, fmt.Errorf("%w: directory '%s': %v", ErrInvalidRule, pending.name, err)
		}
		r.set(Rule{Name: pending.name, Pattern: pattern})
	}

	return r, nil
}

// MustNew is like New but panics on invalid options.
func MustNew(opts ...Option) *Resolver {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Resolver) set(rule Rule) {
	if i, exists := r.index[rule.Name]; exists {
		r.rules[i] = rule
		return
	}
	r.index[rule.Name] = len(r.rules)
	r.rules = append(r.rules, rule)
}

// Rules returns the directory rules in lookup order.
func (r *Resolver) Rules() []Rule {
	rules := make([]Rule, len(r.rules))
	copy(rules, r.rules)
	return rules
}

// Rule returns the pattern registered for a directory name.
func (r *Resolver) Rule(name string) (content.Pattern, bool) {
	i, ok := r.index[name]
	if !ok {
		return content.Pattern{}, false
	}
	return r.rules[i].Pattern, true
}

func (r *Resolver) Units() *size.Units {
	return r.units
}

func (r *Resolver) Fallback() content.Pattern {
	return r.fallback
}

// PatternFor returns the pattern governed by the nearest recognised
// directory in dirs, scanning from the last segment to the first.
func (r *Resolver) PatternFor(dirs []string) content.Pattern {
	for i := len(dirs) - 1; i >= 0; i-- {
		if pattern, ok := r.Rule(dirs[i]); ok {
			return pattern
		}
	}
	return r.fallback
}

// Resolve resolves path segments. All but the last segment are directories;
// the last one is the size token.
func (r *Resolver) Resolve(segments []string) (*VirtualFile, error) {
	full := "/" + strings.Join(segments, "/")

	var name string
	var dirs []string
	if len(segments) > 0 {
		name = segments[len(segments)-1]
		dirs = segments[:len(segments)-1]
	}

	spec, err := r.units.Parse(name)
	if err != nil {
		return nil, &ResolveError{Path: full, Err: err}
	}

	return &VirtualFile{
		Path:    full,
		Spec:    spec,
		Length:  spec.Length(),
		Pattern: r.PatternFor(dirs),
	}, nil
}

// ResolvePath splits a slash separated path with Split and resolves it.
func (r *Resolver) ResolvePath(p string) (*VirtualFile, error) {
	return r.Resolve(Split(p))
}

// Split cleans p and returns its segments. Empty and "." segments are
// dropped and ".." removes the previous segment.
func Split(p string) []string {
	cleaned := path.Clean("/" + p)
	if cleaned == "/" {
		return nil
	}
	return strings.Split(cleaned[1:], "/")
}

// Name returns the final path segment, i.e. the size token.
func (f *VirtualFile) Name() string {
	return path.Base(f.Path)
}

// Read returns the bytes [offset, offset+length) of the file. Callers clamp
// length at the end of the file; reads past it fail with content.ErrRange.
func (f *VirtualFile) Read(offset, length uint64) ([]byte, error) {
	return content.Generate(f.Pattern, f.Length, offset, length)
}

// ReadInto is like Read but fills dst instead of allocating.
func (f *VirtualFile) ReadInto(dst []byte, offset uint64) error {
	if err := content.CheckRange(f.Length, offset, uint64(len(dst))); err != nil {
		return err
	}
	f.Pattern.Fill(dst, offset)
	return nil
}

// NewReader returns a streaming reader over the whole file.
func (f *VirtualFile) NewReader() (*content.Reader, error) {
	return content.NewReader(f.Pattern, f.Length)
}
