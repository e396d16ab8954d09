package numeric

import "testing"

func TestPromoteCommutativeAndIdempotent(t *testing.T) {
	for _, a := range All() {
		if got := Promote(a, a); got != a {
			t.Fatalf("Promote(%s, %s) = %s", a, a, got)
		}
		for _, b := range All() {
			ab, ba := Promote(a, b), Promote(b, a)
			if ab != ba {
				t.Fatalf("Promote not commutative for %s/%s: %s vs %s", a, b, ab, ba)
			}
			want := a
			if b.Rank() > a.Rank() {
				want = b
			}
			if ab != want {
				t.Fatalf("Promote(%s, %s) = %s, want %s", a, b, ab, want)
			}
		}
	}
}

func TestRankOrder(t *testing.T) {
	types := All()
	for i := 1; i < len(types); i++ {
		if types[i-1].Rank() >= types[i].Rank() {
			t.Fatalf("rank order broken between %s and %s", types[i-1], types[i])
		}
	}
	if Invalid.Rank() != 0 || Invalid.Valid() {
		t.Fatalf("invalid type must have rank 0 and not be valid")
	}
}

func TestDescriptors(t *testing.T) {
	cases := []struct {
		typ   Type
		desc  string
		name  string
		slots int
	}{
		{Int32, "I", "int", 1},
		{Int64, "J", "long", 2},
		{Float32, "F", "float", 1},
		{Float64, "D", "double", 2},
	}
	seen := map[string]bool{}
	for _, tc := range cases {
		if got := DescriptorOf(tc.typ); got != tc.desc {
			t.Errorf("DescriptorOf(%s) = %q, want %q", tc.typ, got, tc.desc)
		}
		if seen[tc.desc] {
			t.Errorf("descriptor %q is not unique", tc.desc)
		}
		seen[tc.desc] = true
		if back, ok := FromDescriptor(tc.desc); !ok || back != tc.typ {
			t.Errorf("FromDescriptor(%q) = %s, %v", tc.desc, back, ok)
		}
		if tc.typ.String() != tc.name {
			t.Errorf("String() = %q, want %q", tc.typ.String(), tc.name)
		}
		if tc.typ.Slots() != tc.slots {
			t.Errorf("%s.Slots() = %d, want %d", tc.typ, tc.typ.Slots(), tc.slots)
		}
	}
	if _, ok := FromDescriptor("Ljava/lang/String;"); ok {
		t.Fatalf("reference descriptor must not map to a numeric type")
	}
}

func TestParse(t *testing.T) {
	for name, want := range map[string]Type{
		"int": Int32, "i32": Int32,
		"long": Int64, "i64": Int64,
		"float": Float32, "f32": Float32,
		"double": Float64, "f64": Float64,
	} {
		if got, ok := Parse(name); !ok || got != want {
			t.Errorf("Parse(%q) = %s, %v", name, got, ok)
		}
	}
	if _, ok := Parse("string"); ok {
		t.Fatalf("string must not parse as numeric")
	}
	if _, ok := Parse("invalid"); ok {
		t.Fatalf("invalid must not parse as numeric")
	}
}
