package textutil

import (
	"reflect"
	"strings"
	"testing"
)

func TestDecodeEntities(t *testing.T) {
	cases := map[string]string{
		"Hern&auml;keitto":     "Hernäkeitto",
		"Fish &amp; chips":     "Fish & chips",
		"P&#228;iv&#228;n":     "Päivän",
		"P&#xE4;iv&#xE4;n":     "Päivän",
		"10&nbsp;€":            "10 €",
		"Tuntematon&bogus;jee": "Tuntematon jee",
	}
	for input, want := range cases {
		if got := DecodeEntities(input); got != want {
			t.Errorf("DecodeEntities(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCleanWhitespace(t *testing.T) {
	input := "  Keitto  \t lounas \r\n\n\n\nPihvi   \n\t\n"
	want := "Keitto lounas\n\nPihvi"
	if got := CleanWhitespace(input); got != want {
		t.Errorf("CleanWhitespace = %q, want %q", got, want)
	}
}

func TestStripMarkup(t *testing.T) {
	html := `<html><head><style>.x{color:red}</style></head><body>
	<script>alert("bad")</script>
	<p>Keitto</p>Pihvi (L,G)<br>Salaatti &amp; leip&auml;</body></html>`

	got := StripMarkup(html)

	if strings.Contains(got, "alert") {
		t.Error("Failed to remove <script> content")
	}
	if strings.Contains(got, "color:red") {
		t.Error("Failed to remove <style> content")
	}
	for _, want := range []string{"Keitto", "Pihvi (L,G)", "Salaatti & leipä"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected output to contain %q, got %q", want, got)
		}
	}
	// <p> close and <br> both become line breaks.
	if !strings.Contains(got, "Keitto\n") {
		t.Errorf("Expected line break after Keitto, got %q", got)
	}
}

func TestExtractDietCodes(t *testing.T) {
	a := ExtractDietCodes("Kana (l, g)")
	b := ExtractDietCodes("Kana (G,L)")
	want := []string{"G", "L"}
	if !reflect.DeepEqual(a, want) || !reflect.DeepEqual(b, want) {
		t.Errorf("Expected both spellings to yield %v, got %v and %v", want, a, b)
	}

	got := ExtractDietCodes("Härkistäcos [VEG/G] ja raita (L)")
	want = []string{"G", "L", "VEG"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if got := ExtractDietCodes("Keitto ilman koodeja"); got != nil {
		t.Errorf("Expected nil for a line without codes, got %v", got)
	}
}

func TestClassifyDishType(t *testing.T) {
	cases := map[string]DishType{
		"Vegaaninen papupata":       DishVegan,
		"Tofua ja riisiä":           DishVegan,
		"Kasvislasagne":             DishVegetarian,
		"Paistettua lohta":          DishFish,
		"Fish and chips":            DishFish,
		"Jauhelihakastike":          DishMeat,
		"Broilerin fileetä":         DishMeat,
		"Päivän yllätys":            DishUnknown,
		"Härkistäcos ja lihadippi":  DishVegan, // plant keyword wins over meat
	}
	for name, want := range cases {
		if got := ClassifyDishType(name); got != want {
			t.Errorf("ClassifyDishType(%q) = %s, want %s", name, got, want)
		}
	}
}
