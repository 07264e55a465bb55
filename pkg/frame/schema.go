package frame

import (
	"time"

	"github.com/pkg/errors"
)

// Kind is the declared type of a column.
type Kind string

const (
	Float  Kind = "float"
	Int    Kind = "int"
	String Kind = "string"
	Bool   Kind = "bool"
	Time   Kind = "time"
)

// Numeric reports whether cells of this kind can be read as floating-point
// values.
func (k Kind) Numeric() bool {
	return k == Float || k == Int
}

// Field is a single named, typed column.
type Field struct {
	Name string `json:"name" bson:"name"`
	Kind Kind   `json:"kind" bson:"kind"`
}

// Schema is an ordered set of fields. Order determines CSV column order and
// the layout of Describe output; it has no bearing on tensor conversion, which
// is driven entirely by the caller's selector.
type Schema struct {
	fields []Field
	index  map[string]int
}

func NewSchema(fields ...Field) (*Schema, error) {
	s := &Schema{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, errors.New("schema field with empty name")
		}
		if _, ok := s.index[f.Name]; ok {
			return nil, errors.Errorf("duplicate schema field %q", f.Name)
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s, nil
}

func (s *Schema) Len() int {
	return len(s.fields)
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	if i, ok := s.index[name]; ok {
		return s.fields[i], true
	}
	return Field{}, false
}

func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

func (s *Schema) Names() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// add appends a field, used by Frame.WithColumn once the derived column has
// been computed for every row.
func (s *Schema) add(f Field) error {
	if _, ok := s.index[f.Name]; ok {
		return errors.Errorf("duplicate schema field %q", f.Name)
	}
	s.index[f.Name] = len(s.fields)
	s.fields = append(s.fields, f)
	return nil
}

// kindOf maps a cell's dynamic type to a column kind. Mongo decodes numbers as
// float64, int32 or int64 depending on the stored BSON type, so all of those
// fold into the numeric kinds.
func kindOf(v any) Kind {
	switch v.(type) {
	case float64, float32:
		return Float
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Int
	case bool:
		return Bool
	case time.Time:
		return Time
	default:
		return String
	}
}
