package unit

// fileDoc mirrors the TOML layout of a unit file:
//
//	name = "geometry"      # optional, defaults to the file name
//	target = "portable"    # optional
//
//	[vars]
//	x = "int"
//
//	[[expr]]
//	name = "area"
//	tree = { op = "*", left = { var = "x" }, right = { double = 2.0 } }
type fileDoc struct {
	Name   string            `toml:"name"`
	Target string            `toml:"target"`
	Vars   map[string]string `toml:"vars"`
	Expr   []exprDoc        `toml:"expr"`
}

type exprDoc struct {
	Name string    `toml:"name"`
	Tree *nodeDoc `toml:"tree"`
}

// nodeDoc is either an operator (op + left + right) or exactly one leaf key.
type nodeDoc struct {
	Op    string    `toml:"op"`
	Left  *nodeDoc `toml:"left"`
	Right *nodeDoc `toml:"right"`

	Int    *int64   `toml:"int"`
	Long   *int64   `toml:"long"`
	Float  *float64 `toml:"float"`
	Double *float64 `toml:"double"`
	String *string  `toml:"string"`
	Bool   *bool    `toml:"bool"`
	Null   *bool    `toml:"null"`
	Var    *string  `toml:"var"`
}

func (n *nodeDoc) leafKeys() []string {
	var keys []string
	if n.Int != nil {
		keys = append(keys, "int")
	}
	if n.Long != nil {
		keys = append(keys, "long")
	}
	if n.Float != nil {
		keys = append(keys, "float")
	}
	if n.Double != nil {
		keys = append(keys, "double")
	}
	if n.String != nil {
		keys = append(keys, "string")
	}
	if n.Bool != nil {
		keys = append(keys, "bool")
	}
	if n.Null != nil {
		keys = append(keys, "null")
	}
	if n.Var != nil {
		keys = append(keys, "var")
	}
	return keys
}
