package scrape

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractDayBlock(t *testing.T) {
	t.Run("FullWeek", func(t *testing.T) {
		text := "Lounaslista viikko 35\n" +
			"Maanantai 25.8.\nHernekeitto (L, G)\nPannukakku\n" +
			"Tiistai 26.8.\nKeitto\nPihvi (L,G)\n" +
			"Keskiviikko 27.8.\nKalaa\n"

		block, found, ok := ExtractDayBlock(text, "Tiistai")
		if !ok {
			t.Fatal("Expected to find the Tiistai block")
		}
		if block != "Keitto\nPihvi (L,G)" {
			t.Errorf("Unexpected block: %q", block)
		}
		want := []string{"Maanantai", "Tiistai", "Keskiviikko"}
		if !reflect.DeepEqual(found, want) {
			t.Errorf("Expected found days %v, got %v", want, found)
		}
	})

	t.Run("DecoratedHeadings", func(t *testing.T) {
		text := "--- Maanantai ---\nKeitto\n--- Tiistai ---\nPihvi\nSalaatti\n--- Keskiviikko ---\nKalaa\n"

		block, _, ok := ExtractDayBlock(text, "Tiistai")
		if !ok {
			t.Fatal("Expected to find the Tiistai block")
		}
		if block != "Pihvi\nSalaatti" {
			t.Errorf("Unexpected block: %q", block)
		}
	})

	t.Run("EnglishDayNames", func(t *testing.T) {
		text := "Monday\nSoup\nTuesday\nSteak\nWednesday\nFish\n"

		block, _, ok := ExtractDayBlock(text, "Tiistai")
		if !ok {
			t.Fatal("Expected English markers to match the canonical day")
		}
		if block != "Steak" {
			t.Errorf("Unexpected block: %q", block)
		}
	})

	t.Run("LastDayTrimsBoilerplate", func(t *testing.T) {
		text := "Torstai\nKeitto\nPerjantai\nPihvi\nSalaatti\nL = laktoositon, G = gluteeniton\nTervetuloa!\n"

		block, _, ok := ExtractDayBlock(text, "Perjantai")
		if !ok {
			t.Fatal("Expected to find the Perjantai block")
		}
		if block != "Pihvi\nSalaatti" {
			t.Errorf("Expected legend lines to be trimmed, got %q", block)
		}
	})

	t.Run("WeekendMarkerBoundsFriday", func(t *testing.T) {
		text := "Perjantai\nPihvi\nLauantai\nBrunssi klo 11-15\n"

		block, _, ok := ExtractDayBlock(text, "Perjantai")
		if !ok {
			t.Fatal("Expected to find the Perjantai block")
		}
		if strings.Contains(block, "Brunssi") {
			t.Errorf("Expected the Saturday content to be excluded, got %q", block)
		}
	})

	t.Run("DayMissing", func(t *testing.T) {
		text := "Maanantai\nKeitto\nKeskiviikko\nKalaa\n"

		_, found, ok := ExtractDayBlock(text, "Tiistai")
		if ok {
			t.Fatal("Expected a miss for a day the text does not cover")
		}
		want := []string{"Maanantai", "Keskiviikko"}
		if !reflect.DeepEqual(found, want) {
			t.Errorf("Expected found days %v, got %v", want, found)
		}
	})

	t.Run("NoMarkers", func(t *testing.T) {
		_, found, ok := ExtractDayBlock("Tervetuloa lounaalle!", "Tiistai")
		if ok {
			t.Fatal("Expected a miss for marker-free text")
		}
		if len(found) != 0 {
			t.Errorf("Expected no found days, got %v", found)
		}
	})

	t.Run("EmptyBlock", func(t *testing.T) {
		text := "Tiistai\n\nKeskiviikko\nKalaa\n"

		_, _, ok := ExtractDayBlock(text, "Tiistai")
		if ok {
			t.Fatal("Expected an empty day block to count as a miss")
		}
	})
}

func TestDayAbsentError(t *testing.T) {
	msg := dayAbsentError("Tiistai", []string{"Maanantai", "Keskiviikko"})
	if !strings.Contains(msg, "Tiistai") || !strings.Contains(msg, "Maanantai, Keskiviikko") {
		t.Errorf("Expected the message to name the target and the present days, got %q", msg)
	}

	msg = dayAbsentError("Tiistai", nil)
	if !strings.Contains(msg, "no weekday markers") {
		t.Errorf("Expected the no-markers variant, got %q", msg)
	}
}
