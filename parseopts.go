package curves

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt map[string]Func
	nofuncs  struct{}
)

// parsectx holds general data for parsing.
type parsectx struct {
	// funcs is the set of function names that trigger special parsing for ids.
	funcs map[string]Func
	// owned indicates that funcs is a copy which options may modify.
	owned bool
	// variable is the name of the free variable.
	variable string
}

// own makes p.funcs safe to modify.
func (p *parsectx) own() {
	if p.owned {
		return
	}
	m := make(map[string]Func, len(p.funcs)+1)
	for k, v := range p.funcs {
		m[k] = v
	}
	p.funcs = m
	p.owned = true
}

// ParseFunc sets a function for parsing. To disable parsing a function, pass
// nil for fn.
func ParseFunc(name string, fn Func) ParseOption {
	return &funcopt{name, fn}
}

func (o *funcopt) parseOption(p parsectx) parsectx {
	p.own()
	if o.fn == nil {
		delete(p.funcs, o.name)
	} else {
		p.funcs[o.name] = o.fn
	}
	return p
}

// ParseFuncs sets a group of functions for parsing. To disable parsing any
// function, set it to nil.
func ParseFuncs(fns map[string]Func) ParseOption {
	return funcsopt(fns)
}

func (o funcsopt) parseOption(p parsectx) parsectx {
	p.own()
	for k, v := range o {
		if v == nil {
			delete(p.funcs, k)
			continue
		}
		p.funcs[k] = v
	}
	return p
}

// DisableDefaultFuncs disables all default functions and constants during
// parsing. Functions set by later options are still available.
func DisableDefaultFuncs() ParseOption {
	return nofuncs{}
}

func (nofuncs) parseOption(p parsectx) parsectx {
	p.funcs = map[string]Func{}
	p.owned = true
	return p
}
