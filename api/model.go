package api

// API is the decoded interface description.
type API struct {
	Header           Header            `json:"header"`
	BuiltinClasses   []BuiltinClass    `json:"builtin_classes"`
	Classes          []Class           `json:"classes"`
	Singletons       []Singleton       `json:"singletons"`
	NativeStructures []NativeStructure `json:"native_structures"`
	GlobalEnums      []Enum            `json:"global_enums,omitempty"`
	UtilityFunctions []Method          `json:"utility_functions,omitempty"`
}

type Header struct {
	VersionFull  string `json:"version_full_name"`
	Precision    string `json:"precision"`
	BuildConfig  string `json:"build_configuration"`
	VersionMajor int    `json:"version_major"`
	VersionMinor int    `json:"version_minor"`
	VersionPatch int    `json:"version_patch"`
}

type BuiltinClass struct {
	Name        string `json:"name"`
	IndexingRet string `json:"indexing_return_type,omitempty"`
	IsKeyed     bool   `json:"is_keyed"`
}

// Class is an engine class.
type Class struct {
	Name           string     `json:"name"`
	Inherits       string     `json:"inherits,omitempty"`
	APIType        string     `json:"api_type"`
	Constants      []Constant `json:"constants,omitempty"`
	Enums          []Enum     `json:"enums,omitempty"`
	Methods        []Method   `json:"methods,omitempty"`
	Signals        []Signal   `json:"signals,omitempty"`
	Properties     []Property `json:"properties,omitempty"`
	IsRefcounted   bool       `json:"is_refcounted"`
	IsInstantiable bool       `json:"is_instantiable"`
}

// Method returns the method the class itself declares under name.
func (c *Class) Method(name string) (*Method, bool) {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i], true
		}
	}
	return nil, false
}

// HasSignal reports whether the class itself declares signal.
func (c *Class) HasSignal(name string) bool {
	for _, s := range c.Signals {
		if s.Name == name {
			return true
		}
	}
	return false
}

type Constant struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type Enum struct {
	Name       string     `json:"name"`
	Values     []Constant `json:"values"`
	IsBitfield bool       `json:"is_bitfield"`
}

// Method is an engine method or utility function.
type Method struct {
	ReturnValue *ReturnValue `json:"return_value,omitempty"`
	Name        string       `json:"name"`
	ReturnType  string       `json:"return_type,omitempty"`
	Category    string       `json:"category,omitempty"`
	Arguments   []Argument   `json:"arguments,omitempty"`
	Hash        int64        `json:"hash"`
	IsConst     bool         `json:"is_const"`
	IsVararg    bool         `json:"is_vararg"`
	IsStatic    bool         `json:"is_static"`
	IsVirtual   bool         `json:"is_virtual"`
}

// Return returns the declared return type, or "" for none.
func (m *Method) Return() string {
	if m.ReturnValue != nil {
		return m.ReturnValue.Type
	}
	return m.ReturnType
}

type ReturnValue struct {
	Type string `json:"type"`
	Meta string `json:"meta,omitempty"`
}

type Argument struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Meta         string `json:"meta,omitempty"`
	DefaultValue string `json:"default_value,omitempty"`
}

type Signal struct {
	Name      string     `json:"name"`
	Arguments []Argument `json:"arguments,omitempty"`
}

type Property struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Setter string `json:"setter,omitempty"`
	Getter string `json:"getter,omitempty"`
	Index  *int   `json:"index,omitempty"`
}

type Singleton struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type NativeStructure struct {
	Name   string `json:"name"`
	Format string `json:"format"`
}
