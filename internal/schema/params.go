package schema

// Params holds the auxiliary column parameters that sit outside the universal
// field contract. Nil pointers mean "not set".
type Params struct {
	Length       *int
	Precision    *int
	Scale        *int
	AutoOnCreate bool
	AutoOnUpdate bool
}

// Param keys, in the order Keys reports them.
const (
	ParamLength       = "length"
	ParamPrecision    = "precision"
	ParamScale        = "scale"
	ParamAutoOnCreate = "auto_on_create"
	ParamAutoOnUpdate = "auto_on_update"
)

// Keys returns the names of the parameters that are set.
func (p Params) Keys() []string {
	var keys []string

	if p.Length != nil {
		keys = append(keys, ParamLength)
	}

	if p.Precision != nil {
		keys = append(keys, ParamPrecision)
	}

	if p.Scale != nil {
		keys = append(keys, ParamScale)
	}

	if p.AutoOnCreate {
		keys = append(keys, ParamAutoOnCreate)
	}

	if p.AutoOnUpdate {
		keys = append(keys, ParamAutoOnUpdate)
	}

	return keys
}

// IsAuto reports whether either auto-timestamp flag is set.
func (p Params) IsAuto() bool {
	return p.AutoOnCreate || p.AutoOnUpdate
}

// IntValue returns *v or 0 when v is nil.
func IntValue(v *int) int {
	if v == nil {
		return 0
	}

	return *v
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
