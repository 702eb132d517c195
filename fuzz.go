package pod

// Fuzz exercises the read side against arbitrary input: decoding must
// never panic, and every successfully decoded top-level value must walk
// to completion via the same iterator/accessor paths a real caller uses.
func Fuzz(data []byte) int {
	it := NewIterator(data)
	interesting := 0
	for {
		v, err := it.Next()
		if err != nil {
			return interesting
		}
		interesting = 1
		walkValue(v)
	}
}

func walkValue(v Pod) {
	switch {
	case v.IsStruct():
		it, err := v.Struct()
		if err != nil {
			return
		}
		_ = it.ForEach(func(child Pod) error {
			walkValue(child)
			return nil
		})
	case v.IsArray():
		children, err := v.ArrayChildren()
		if err != nil {
			return
		}
		for _, c := range children {
			walkValue(c)
		}
	case v.IsChoice():
		children, err := v.ChoiceChildren()
		if err != nil {
			return
		}
		for _, c := range children {
			walkValue(c)
		}
	case v.IsObject():
		props, err := v.Properties()
		if err != nil {
			return
		}
		for _, p := range props {
			walkValue(p.Value)
		}
	case v.IsSequence():
		ctrls, err := v.Controls()
		if err != nil {
			return
		}
		for _, c := range ctrls {
			walkValue(c.Value)
		}
	}
}
