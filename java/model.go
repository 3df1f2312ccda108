package java

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

// ClassModel outlines one class of a parsed program.
type ClassModel struct {
	Name       string        `json:"name"`
	Visibility Visibility    `json:"visibility"`
	IsFinal    bool          `json:"isFinal,omitempty"`
	IsAbstract bool          `json:"isAbstract,omitempty"`
	Line       int           `json:"line"`
	EndLine    int           `json:"endLine"`
	Fields     []FieldModel  `json:"fields,omitempty"`
	Methods    []MethodModel `json:"methods,omitempty"`
}

type FieldModel struct {
	Name       string     `json:"name"`
	Type       TypeModel  `json:"type"`
	Visibility Visibility `json:"visibility"`
	IsStatic   bool       `json:"isStatic,omitempty"`
	IsFinal    bool       `json:"isFinal,omitempty"`
	Line       int        `json:"line"`

	// Value is the literal initializer, if the field has one.
	Value any `json:"value,omitempty"`
}

type MethodModel struct {
	Name       string           `json:"name"`
	ReturnType TypeModel        `json:"returnType"`
	Parameters []ParameterModel `json:"parameters,omitempty"`
	Visibility Visibility       `json:"visibility"`
	IsStatic   bool             `json:"isStatic,omitempty"`
	IsFinal    bool             `json:"isFinal,omitempty"`
	IsAbstract bool             `json:"isAbstract,omitempty"`
	Line       int              `json:"line"`
	EndLine    int              `json:"endLine"`
	Locals     []LocalModel     `json:"locals,omitempty"`
}

// IsMain reports whether m is the program entry point.
func (m MethodModel) IsMain() bool {
	return m.Name == "main" && m.IsStatic && m.ReturnType.IsVoid()
}

type ParameterModel struct {
	Name string    `json:"name"`
	Type TypeModel `json:"type"`
}

// LocalModel is a variable declared inside a method body.
type LocalModel struct {
	Name string    `json:"name"`
	Type TypeModel `json:"type"`
	Line int       `json:"line"`
}

type TypeModel struct {
	Name       string `json:"name"`
	ArrayDepth int    `json:"arrayDepth,omitempty"`
}

func (t TypeModel) String() string {
	s := t.Name
	for i := 0; i < t.ArrayDepth; i++ {
		s += "[]"
	}
	return s
}

func (t TypeModel) IsPrimitive() bool {
	if t.ArrayDepth > 0 {
		return false
	}
	switch t.Name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double":
		return true
	}
	return false
}

func (t TypeModel) IsArray() bool {
	return t.ArrayDepth > 0
}

func (t TypeModel) IsVoid() bool {
	return t.Name == "void" && t.ArrayDepth == 0
}
