package lattice

import (
	"strconv"
	"strings"
)

// Metadata keys written onto every lattice built by the solver. The names
// are shared with scene documents produced by earlier releases.
const (
	MetaLockedAxisEnabled = "bd_locked_axis_enabled"
	MetaLockedAxisIndex   = "bd_locked_axis_idx"
	MetaLockedWorldAxis   = "bd_locked_world_axis"
)

// NoLockedAxis is the stored axis index when locking is disabled.
const NoLockedAxis = -1

// LockMetadata records which local lattice axis, if any, is held at two
// control points.
type LockMetadata struct {
	Enabled   bool
	AxisIndex int
	WorldAxis Axis
}

// LockedAxis returns the locked local axis and true when locking is
// enabled with an in-range index.
func (m LockMetadata) LockedAxis() (int, bool) {
	if !m.Enabled || m.AxisIndex < 0 || m.AxisIndex > 2 {
		return NoLockedAxis, false
	}
	return m.AxisIndex, true
}

// Encode returns the metadata as string key/value pairs.
func (m LockMetadata) Encode() map[string]string {
	idx := m.AxisIndex
	if !m.Enabled {
		idx = NoLockedAxis
	}
	return map[string]string{
		MetaLockedAxisEnabled: strconv.FormatBool(m.Enabled),
		MetaLockedAxisIndex:   strconv.Itoa(idx),
		MetaLockedWorldAxis:   m.WorldAxis.String(),
	}
}

// DecodeLockMetadata parses stored metadata. ok is false when the enabled
// flag is absent or any present value fails to parse, which tells the
// caller to fall back to legacy inference.
func DecodeLockMetadata(kv map[string]string) (meta LockMetadata, ok bool) {
	raw, present := kv[MetaLockedAxisEnabled]
	if !present {
		return LockMetadata{AxisIndex: NoLockedAxis}, false
	}
	enabled, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		opsf("unparseable %s=%q", MetaLockedAxisEnabled, raw)
		return LockMetadata{AxisIndex: NoLockedAxis}, false
	}
	meta = LockMetadata{Enabled: enabled, AxisIndex: NoLockedAxis}

	if rawIdx, present := kv[MetaLockedAxisIndex]; present {
		idx, err := strconv.Atoi(strings.TrimSpace(rawIdx))
		if err != nil {
			opsf("unparseable %s=%q", MetaLockedAxisIndex, rawIdx)
			return LockMetadata{AxisIndex: NoLockedAxis}, false
		}
		meta.AxisIndex = idx
	}

	if rawAxis, present := kv[MetaLockedWorldAxis]; present {
		if a, err := ParseAxis(rawAxis); err == nil {
			meta.WorldAxis = a
		}
	}
	return meta, true
}

// InferLegacyLock guesses the locked axis for lattices that predate lock
// metadata: exactly one axis at two points while another axis is larger.
func InferLegacyLock(res Resolution) (int, bool) {
	axis := NoLockedAxis
	twos := 0
	max := 0
	for i, n := range res {
		if n == 2 {
			twos++
			axis = i
		}
		if n > max {
			max = n
		}
	}
	if twos == 1 && max > 2 {
		return axis, true
	}
	return NoLockedAxis, false
}

// ResolveLockedAxis returns the locked local axis for a lattice, reading
// stored metadata first and inferring from the resolution when metadata
// is missing or unreadable.
func ResolveLockedAxis(kv map[string]string, res Resolution) (int, bool) {
	if meta, ok := DecodeLockMetadata(kv); ok {
		axis, locked := meta.LockedAxis()
		diagf("lock from metadata: enabled=%v axis=%d", meta.Enabled, axis)
		return axis, locked
	}
	axis, locked := InferLegacyLock(res)
	if locked {
		diagf("lock inferred from resolution %s: axis=%d", res, axis)
	}
	return axis, locked
}
