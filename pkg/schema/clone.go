package schema

// Clone returns a deep copy of the field. Option slices, validation pointers,
// and config descriptors are duplicated so mutating the copy never aliases the
// source.
func (f Field) Clone() Field {
	out := f
	if len(f.Options) > 0 {
		out.Options = append([]Option(nil), f.Options...)
	}
	if len(f.DependsOn) > 0 {
		out.DependsOn = append([]string(nil), f.DependsOn...)
	}
	if f.Validations != nil {
		v := *f.Validations
		if f.Validations.MinLength != nil {
			n := *f.Validations.MinLength
			v.MinLength = &n
		}
		if f.Validations.MaxLength != nil {
			n := *f.Validations.MaxLength
			v.MaxLength = &n
		}
		if f.Validations.MinValue != nil {
			n := *f.Validations.MinValue
			v.MinValue = &n
		}
		if f.Validations.MaxValue != nil {
			n := *f.Validations.MaxValue
			v.MaxValue = &n
		}
		out.Validations = &v
	}
	if f.Config != nil {
		cfg := Config{}
		if len(f.Config.Entries) > 0 {
			cfg.Entries = make([]SubField, len(f.Config.Entries))
			for i, sub := range f.Config.Entries {
				copied := sub
				if len(sub.Options) > 0 {
					copied.Options = append([]Option(nil), sub.Options...)
				}
				cfg.Entries[i] = copied
			}
		}
		out.Config = &cfg
	}
	return out
}

// Clone returns a deep copy of the schema with every field cloned.
func (s FormSchema) Clone() FormSchema {
	out := s
	if len(s.Fields) > 0 {
		out.Fields = make([]Field, len(s.Fields))
		for i, field := range s.Fields {
			out.Fields[i] = field.Clone()
		}
	}
	return out
}
