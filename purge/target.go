package purge

import (
	"strings"

	"github.com/pkg/errors"
)

// Variant identifies one of the two coexisting app generations.
type Variant string

const (
	// Classic is the Electron-era app, keyed by a roaming app-data root.
	Classic Variant = "classic"
	// Modern is the packaged app, keyed by a package root with three fixed sub-targets.
	Modern Variant = "modern"
)

// AllVariants lists variants in the order they're enumerated and relaunched.
var AllVariants = []Variant{Classic, Modern}

// ParseVariant accepts "classic", "modern" and the "new" alias.
func ParseVariant(s string) (Variant, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classic", "old":
		return Classic, true
	case "modern", "new":
		return Modern, true
	}
	return "", false
}

// VariantSet is the set of variants observed running (or requested).
type VariantSet map[Variant]struct{}

func NewVariantSet(variants ...Variant) VariantSet {
	vs := make(VariantSet, len(variants))
	for _, v := range variants {
		vs[v] = struct{}{}
	}
	return vs
}

func (vs VariantSet) Has(v Variant) bool {
	_, ok := vs[v]
	return ok
}

func (vs VariantSet) Add(v Variant) {
	vs[v] = struct{}{}
}

func (vs VariantSet) Empty() bool {
	return len(vs) == 0
}

// Sorted returns members in AllVariants order.
func (vs VariantSet) Sorted() []Variant {
	var res []Variant
	for _, v := range AllVariants {
		if vs.Has(v) {
			res = append(res, v)
		}
	}
	return res
}

func (vs VariantSet) String() string {
	var names []string
	for _, v := range vs.Sorted() {
		names = append(names, string(v))
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// Target is one filesystem entry (file or directory) subject to deletion.
type Target struct {
	DisplayName string  `json:"displayName"`
	Path        string  `json:"path"`
	Variant     Variant `json:"variant"`
}

// Status is the lifecycle of one target within a run.
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusSuccess
	StatusTimeout
	StatusFailed
	StatusNotFound
)

var statusNames = map[Status]string{
	StatusPending:    "pending",
	StatusInProgress: "in-progress",
	StatusSuccess:    "success",
	StatusTimeout:    "timeout",
	StatusFailed:     "failed",
	StatusNotFound:   "not-found",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether a status can no longer change during a run.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusTimeout, StatusFailed, StatusNotFound:
		return true
	}
	return false
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for k, v := range statusNames {
		if v == string(text) {
			*s = k
			return nil
		}
	}
	return errors.Errorf("unknown status %q", text)
}

// Outcome is the per-target row of a run. Reason is only set for StatusFailed.
type Outcome struct {
	Target Target `json:"target"`
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Label renders "failed: reason" for failures, the bare status otherwise.
func (o Outcome) Label() string {
	if o.Status == StatusFailed && o.Reason != "" {
		return o.Status.String() + ": " + o.Reason
	}
	return o.Status.String()
}
