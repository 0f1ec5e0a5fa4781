package gen

// Options configures one generation invocation.
type Options struct {
	// Capability is the qualified path of the size-on-disk capability the
	// emitted code delegates to, e.g. "SizedOnDisk" or
	// "crate::types::SizedOnDisk".
	Capability string
	// Method is the name of the capability's size-query operation.
	Method      string
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.Capability == "" {
		o.Capability = "SizedOnDisk"
	}
	if o.Method == "" {
		o.Method = "size"
	}
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}
