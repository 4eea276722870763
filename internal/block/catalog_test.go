package block

import "testing"

func TestCatalog_Unique(t *testing.T) {
	seenKeys := make(map[string]bool)
	seenTypes := make(map[BlockType]bool)
	for _, typ := range Types() {
		if seenTypes[typ] {
			t.Errorf("duplicate discriminant %d", typ)
		}
		seenTypes[typ] = true

		key := typ.Key()
		if key == "" {
			t.Errorf("discriminant %d has no key", typ)
		}
		if seenKeys[key] {
			t.Errorf("duplicate key %q", key)
		}
		seenKeys[key] = true
	}

	if len(Types()) != 48 {
		t.Errorf("expected 48 catalog entries, got %d", len(Types()))
	}
}

func TestCatalog_Lookups(t *testing.T) {
	tests := []struct {
		typ BlockType
		n   int
		key string
	}{
		{TypePage, 1, "page"},
		{TypeText, 2, "text"},
		{TypeHeading1, 3, "heading1"},
		{TypeHeading9, 11, "heading9"},
		{TypeBullet, 12, "bullet"},
		{TypeCallout, 19, "callout"},
		{TypeDivider, 22, "divider"},
		{TypeIframe, 26, "iframe"},
		{TypeQuoteContainer, 35, "quote_container"},
		{TypeLinkPreview, 49, "link_preview"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if tt.typ.Discriminant() != tt.n {
				t.Errorf("expected discriminant %d, got %d", tt.n, tt.typ.Discriminant())
			}
			if tt.typ.Key() != tt.key {
				t.Errorf("expected key %q, got %q", tt.key, tt.typ.Key())
			}

			got, ok := TypeForDiscriminant(tt.n)
			if !ok || got != tt.typ {
				t.Errorf("TypeForDiscriminant(%d) = %v, %v", tt.n, got, ok)
			}

			got, ok = TypeForKey(tt.key)
			if !ok || got != tt.typ {
				t.Errorf("TypeForKey(%q) = %v, %v", tt.key, got, ok)
			}
		})
	}
}

func TestTypeForDiscriminant_NotFound(t *testing.T) {
	for _, n := range []int{0, 16, 50, -1} {
		if typ, ok := TypeForDiscriminant(n); ok {
			t.Errorf("expected not found for %d, got %v", n, typ)
		}
	}

	if s := BlockType(16).String(); s != "block_type(16)" {
		t.Errorf("unexpected String for unknown type: %q", s)
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want BlockType
		ok   bool
	}{
		{"heading1", TypeHeading1, true},
		{"3", TypeHeading1, true},
		{" Bullet ", TypeBullet, true},
		{"19", TypeCallout, true},
		{"16", 0, false},
		{"nope", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseType(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseType(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBlockType_Classes(t *testing.T) {
	if !TypeHeading4.IsHeading() || TypeBullet.IsHeading() {
		t.Error("IsHeading misclassifies")
	}
	for _, typ := range []BlockType{TypeText, TypeHeading2, TypeBullet, TypeOrdered, TypeCode, TypeQuote, TypeTodo} {
		if !typ.IsTextual() {
			t.Errorf("expected %s to be textual", typ)
		}
	}
	for _, typ := range []BlockType{TypePage, TypeCallout, TypeDivider, TypeIframe, TypeQuoteContainer} {
		if typ.IsTextual() {
			t.Errorf("expected %s not to be textual", typ)
		}
	}
}

func TestHeadingType(t *testing.T) {
	if typ, ok := HeadingType(2); !ok || typ != TypeHeading2 {
		t.Errorf("HeadingType(2) = %v, %v", typ, ok)
	}
	if _, ok := HeadingType(10); ok {
		t.Error("expected level 10 to be rejected")
	}
}
