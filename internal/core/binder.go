package core

func bindInputs(call PreparedCall, entity any, params []Parameter) error {
	for _, p := range params {
		if p.Direction.Reads() {
			if p.Get == nil {
				return newError(KindBinding, "parameter %s has no getter", p)
			}
			v, err := p.Get(entity)
			if err != nil {
				return wrapError(KindBinding, err, "read %s", p)
			}
			if err := call.SetParameter(p.Position, v); err != nil {
				return wrapError(KindBinding, err, "set %s", p)
			}
		}
		if p.Direction.Writes() {
			if err := call.RegisterOutputParameter(p.Position, p.Type); err != nil {
				return wrapError(KindBinding, err, "register %s", p)
			}
		}
	}
	return nil
}

func bindOutputs(call PreparedCall, entity any, params []Parameter) error {
	for _, p := range params {
		if !p.Direction.Writes() {
			continue
		}
		if p.Set == nil {
			return newError(KindBinding, "parameter %s has no setter", p)
		}
		v, err := call.Parameter(p.Position)
		if err != nil {
			return wrapError(KindBinding, err, "get %s", p)
		}
		if err := p.Set(entity, v); err != nil {
			return wrapError(KindBinding, err, "write %s", p)
		}
	}
	return nil
}
