package interp

// Owner holds the shared global environment: the global object and the
// builtin prototypes every document sees.
type Owner struct {
	global            *ObjectValue
	objectPrototype   *ObjectValue
	functionPrototype *ObjectValue
	arrayPrototype    *ObjectValue
}

// NewOwner builds the global object with the JavaScript and Qt builtins
// commonly used in bindings.
func NewOwner() *Owner {
	objectProto := NewObject("Object", nil)
	o := &Owner{
		objectPrototype:   objectProto,
		functionPrototype: NewObject("Function", objectProto),
		arrayPrototype:    NewObject("Array", objectProto),
	}
	o.arrayPrototype.SetMember("length", Number)
	for _, name := range []string{"push", "indexOf"} {
		o.arrayPrototype.SetMember(name, &FunctionValue{Name: name, Returns: Number})
	}
	o.arrayPrototype.SetMember("join", &FunctionValue{Name: "join", Returns: String})

	global := NewObject("", objectProto)
	o.global = global

	math := NewObject("Math", objectProto)
	for _, name := range []string{"abs", "ceil", "floor", "max", "min", "pow", "random", "round", "sqrt", "sin", "cos", "tan", "atan2", "log", "exp"} {
		math.SetMember(name, &FunctionValue{Name: name, Returns: Number})
	}
	for _, name := range []string{"PI", "E", "LN2", "LN10", "SQRT2"} {
		math.SetMember(name, Number)
	}
	global.SetMember("Math", math)

	console := NewObject("console", objectProto)
	for _, name := range []string{"log", "debug", "info", "warn", "error", "assert", "time", "timeEnd", "trace"} {
		console.SetMember(name, &FunctionValue{Name: name, Returns: Undefined})
	}
	global.SetMember("console", console)

	qt := NewObject("Qt", objectProto)
	for _, name := range []string{"rgba", "rgb", "hsla", "hsva", "lighter", "darker", "tint", "alpha"} {
		qt.SetMember(name, &FunctionValue{Name: name, Returns: Color})
	}
	for _, name := range []string{"formatDate", "formatTime", "formatDateTime", "md5", "btoa", "atob", "resolvedUrl", "qsTr"} {
		qt.SetMember(name, &FunctionValue{Name: name, Returns: String})
	}
	for _, name := range []string{"openUrlExternally", "colorEqual", "isQtObject"} {
		qt.SetMember(name, &FunctionValue{Name: name, Returns: Boolean})
	}
	for _, name := range []string{"point", "size", "rect", "vector2d", "vector3d", "font", "quaternion", "matrix4x4"} {
		qt.SetMember(name, &FunctionValue{Name: name, Returns: NewObject(name, objectProto)})
	}
	qt.SetMember("quit", &FunctionValue{Name: "quit", Returns: Undefined})
	for _, name := range []string{
		"AlignLeft", "AlignRight", "AlignHCenter", "AlignJustify",
		"AlignTop", "AlignBottom", "AlignVCenter", "AlignCenter",
		"LeftButton", "RightButton", "MiddleButton", "AllButtons",
		"Horizontal", "Vertical",
	} {
		qt.SetMember(name, Number)
	}
	global.SetMember("Qt", qt)

	json := NewObject("JSON", objectProto)
	json.SetMember("parse", &FunctionValue{Name: "parse"})
	json.SetMember("stringify", &FunctionValue{Name: "stringify", Returns: String})
	global.SetMember("JSON", json)

	global.SetMember("parseInt", &FunctionValue{Name: "parseInt", Returns: Number})
	global.SetMember("parseFloat", &FunctionValue{Name: "parseFloat", Returns: Number})
	global.SetMember("isNaN", &FunctionValue{Name: "isNaN", Returns: Boolean})
	global.SetMember("isFinite", &FunctionValue{Name: "isFinite", Returns: Boolean})
	global.SetMember("String", &FunctionValue{Name: "String", Returns: String})
	global.SetMember("Number", &FunctionValue{Name: "Number", Returns: Number})
	global.SetMember("Boolean", &FunctionValue{Name: "Boolean", Returns: Boolean})
	global.SetMember("Array", &FunctionValue{Name: "Array", Returns: o.NewArray()})
	global.SetMember("Object", &FunctionValue{Name: "Object", Returns: NewObject("", objectProto)})
	global.SetMember("Date", &FunctionValue{Name: "Date", Returns: NewObject("Date", objectProto)})
	global.SetMember("qsTr", &FunctionValue{Name: "qsTr", Returns: String})
	global.SetMember("qsTranslate", &FunctionValue{Name: "qsTranslate", Returns: String})
	global.SetMember("print", &FunctionValue{Name: "print", Returns: Undefined})
	global.SetMember("undefined", Undefined)
	global.SetMember("NaN", Number)
	global.SetMember("Infinity", Number)
	return o
}

// Global is the outermost scope object.
func (o *Owner) Global() *ObjectValue { return o.global }

// NewArray returns a fresh array instance.
func (o *Owner) NewArray() *ObjectValue { return NewObject("", o.arrayPrototype) }

// NewPlainObject returns a fresh object inheriting from Object.
func (o *Owner) NewPlainObject() *ObjectValue { return NewObject("", o.objectPrototype) }

// TypeID returns a generic type label for a value.
func (o *Owner) TypeID(v Value) string {
	switch v := v.(type) {
	case nil:
		return ""
	case *ObjectValue:
		if v == o.global {
			return "Global"
		}
		return "Object"
	case *FunctionValue:
		return "Function"
	case *EnumValue:
		return "number"
	case *Reference:
		return "reference"
	case *primitive:
		return v.name
	}
	return ""
}

// ValueForTypeName maps a QML property type to the value it holds. It
// returns nil for object types, which must be resolved through imports.
func ValueForTypeName(name string) Value {
	switch name {
	case "int", "real", "double", "qreal", "number", "float":
		return Number
	case "string", "QString", "url", "QUrl":
		return String
	case "bool", "boolean":
		return Boolean
	case "color", "QColor":
		return Color
	case "var", "variant", "QVariant":
		return Unknown
	}
	return nil
}
