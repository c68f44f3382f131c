package kiwi

import "fmt"

// Kind distinguishes the three top-level definition shapes a Kiwi schema can
// declare.
type Kind byte

const (
	KindEnum Kind = iota
	KindStruct
	KindMessage
)

// Primitive type sentinels used in the schema's raw type_id slot. Indices
// greater than or equal to 0 refer to another definition in the same schema
// (a nested struct, message, or enum) instead of a primitive.
const (
	typeBool = -1 - iota
	typeByte
	typeInt
	typeUint
	typeFloat
	typeString
	typeInt64
	typeUint64
)

// Field describes one declared field of a struct or message definition, in
// schema declaration order. For message definitions, a field's 1-based
// position in this slice is exactly the wire tag used in message framing.
type Field struct {
	Name     string
	TypeID   int32 // primitive sentinel, or index into Schema.Definitions
	IsArray  bool
	EnumVal  int32 // meaningful only when the owning definition is an enum
	Category Category
}

// Definition is one named enum/struct/message declared in the schema.
type Definition struct {
	Name   string
	Kind   Kind
	Fields []Field
}

// Schema is the decoded form of the .fig container's schema chunk: a list of
// named enum/struct/message definitions with ordered fields.
type Schema struct {
	Definitions []Definition
	byName      map[string]int
}

// ParseSchema decodes the self-describing bootstrap format every Kiwi schema
// chunk uses: a flat list of definitions, each with a kind byte and an
// ordered field list. This bootstrap layer is itself fixed (not driven by a
// schema), since it is what makes the rest of the format self-describing.
func ParseSchema(buf []byte) (*Schema, error) {
	r := NewReader(buf)
	count, err := r.Varint()
	if err != nil {
		return nil, fmt.Errorf("kiwi: schema definition count: %w", err)
	}
	s := &Schema{
		Definitions: make([]Definition, 0, count),
		byName:      make(map[string]int, count),
	}
	for i := uint64(0); i < count; i++ {
		def, err := parseDefinition(r)
		if err != nil {
			return nil, fmt.Errorf("kiwi: schema definition %d: %w", i, err)
		}
		s.byName[def.Name] = len(s.Definitions)
		s.Definitions = append(s.Definitions, def)
	}
	return s, nil
}

func parseDefinition(r *Reader) (Definition, error) {
	name, err := r.String()
	if err != nil {
		return Definition{}, err
	}
	kindByte, err := r.Varint()
	if err != nil {
		return Definition{}, err
	}
	if kindByte > uint64(KindMessage) {
		return Definition{}, fmt.Errorf("unknown definition kind %d for %q", kindByte, name)
	}
	fieldCount, err := r.Varint()
	if err != nil {
		return Definition{}, err
	}
	def := Definition{Name: name, Kind: Kind(kindByte), Fields: make([]Field, 0, fieldCount)}
	for i := uint64(0); i < fieldCount; i++ {
		f, err := parseField(r)
		if err != nil {
			return Definition{}, fmt.Errorf("field %d: %w", i, err)
		}
		def.Fields = append(def.Fields, f)
	}
	return def, nil
}

func parseField(r *Reader) (Field, error) {
	name, err := r.String()
	if err != nil {
		return Field{}, err
	}
	typeID, err := r.SignedVarint()
	if err != nil {
		return Field{}, err
	}
	isArray, err := r.Bool()
	if err != nil {
		return Field{}, err
	}
	value, err := r.SignedVarint()
	if err != nil {
		return Field{}, err
	}
	f := Field{Name: name, TypeID: int32(typeID), IsArray: isArray, EnumVal: int32(value)}
	f.Category = categoryForTypeID(int32(typeID))
	return f, nil
}

func categoryForTypeID(typeID int32) Category {
	switch typeID {
	case typeBool:
		return CategoryBool
	case typeByte, typeInt, typeUint:
		return CategoryVarint
	case typeFloat:
		return CategoryFloat
	case typeString:
		return CategoryString
	case typeInt64, typeUint64:
		return CategoryInt64
	default:
		// A non-negative type_id names another definition: a nested struct
		// or message is skipped recursively; a nested enum is skipped as a
		// single varint.
		return CategoryMessage
	}
}

// Definition looks up a definition by name.
func (s *Schema) Definition(name string) (*Definition, bool) {
	idx, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return &s.Definitions[idx], true
}

// FieldCategory resolves the category of a definition's field by index,
// falling back to CategoryMessage (recursive skip) for nested types and
// CategoryVarint for enums, since this schema layer doesn't distinguish enum
// definitions from struct/message ones at the type_id site.
func (d *Definition) FieldCategory(idx int, schema *Schema) Category {
	f := d.Fields[idx]
	if f.Category != CategoryMessage {
		return f.Category
	}
	if f.TypeID >= 0 && int(f.TypeID) < len(schema.Definitions) {
		switch schema.Definitions[f.TypeID].Kind {
		case KindEnum:
			return CategoryVarint
		case KindStruct:
			return CategoryStruct
		}
	}
	return CategoryMessage
}

// FieldByName returns the 0-based index of the named field, so that
// tag == index+1 during message decoding.
func (d *Definition) FieldByName(name string) (int, bool) {
	for i, f := range d.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}
