package fonts

import "testing"

func TestLoadDefaults(t *testing.T) {
	if err := LoadDefaults(10); err != nil {
		t.Fatalf("LoadDefaults: %v", err)
	}
	for _, name := range []FontName{HUD, HUDSmall} {
		face := name.Get()
		if face.Metrics().Height <= 0 {
			t.Errorf("%s has no line height", name)
		}
	}
}

func TestLoadInvalidFont(t *testing.T) {
	if err := LoadFontWithSize("broken", []byte("not a font"), 10); err == nil {
		t.Fatalf("LoadFontWithSize accepted invalid data")
	}
}

func TestGetUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Get on an unknown font did not panic")
		}
	}()
	FontName("missing").Get()
}
