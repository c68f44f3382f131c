package kiwi

// FieldHandler is invoked once per occurrence of a known field while
// decoding a message (once for a scalar field, once per element for an
// array field). It must fully consume the field's payload from r and
// return false if it chose not to, in which case the caller skips the
// payload itself using the field's schema category.
type FieldHandler func(r *Reader, fieldIndex int, field Field) (consumed bool, err error)

// ReadMessage decodes one message body against def, dispatching every
// occurrence of a known field to handler and skipping everything else by
// its schema-declared primitive category. It stops at the terminating tag
// of 0, matching the Kiwi message framing rule.
func ReadMessage(r *Reader, def *Definition, schema *Schema, handler FieldHandler) error {
	for {
		tag, err := r.Varint()
		if err != nil {
			return err
		}
		if tag == 0 {
			return nil
		}
		idx := int(tag) - 1
		if idx < 0 || idx >= len(def.Fields) {
			return r.errf("tag %d has no field in message %q", tag, def.Name)
		}
		field := def.Fields[idx]
		cat := def.FieldCategory(idx, schema)

		count := 1
		if field.IsArray {
			n, err := r.Varint()
			if err != nil {
				return err
			}
			count = int(n)
		}
		for i := 0; i < count; i++ {
			consumed, err := handler(r, idx, field)
			if err != nil {
				return err
			}
			if !consumed {
				if err := r.SkipByCategory(cat, nestedSkip(r, field, schema)); err != nil {
					return err
				}
			}
		}
	}
}

// nestedSkip builds the recursive-skip closure passed to SkipByCategory for
// a CategoryMessage field: if the field's type_id resolves to a known
// definition, skip it field-by-field; otherwise return an error, since a
// message with a 0 terminator tag is itself self-delimiting only when its
// shape is known.
func nestedSkip(r *Reader, field Field, schema *Schema) func() error {
	return func() error {
		if field.TypeID < 0 || int(field.TypeID) >= len(schema.Definitions) {
			return r.errf("cannot skip nested field %q: no definition", field.Name)
		}
		nested := &schema.Definitions[field.TypeID]
		if nested.Kind == KindStruct {
			return SkipStruct(r, nested, schema)
		}
		return ReadMessage(r, nested, schema, func(*Reader, int, Field) (bool, error) {
			return false, nil
		})
	}
}

// SkipStruct consumes one instance of a struct definition's fields in
// declaration order. Unlike messages, struct fields carry no wire tags: they
// are concatenated positionally, so every field must be skippable even when
// entirely unused by the caller.
func SkipStruct(r *Reader, def *Definition, schema *Schema) error {
	for i, field := range def.Fields {
		cat := def.FieldCategory(i, schema)
		count := 1
		if field.IsArray {
			n, err := r.Varint()
			if err != nil {
				return err
			}
			count = int(n)
		}
		for j := 0; j < count; j++ {
			if err := r.SkipByCategory(cat, nestedSkip(r, field, schema)); err != nil {
				return err
			}
		}
	}
	return nil
}
