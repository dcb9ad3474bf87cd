package utils

import "testing"

func TestDetermineLocale_QueryParamWins(t *testing.T) {
	got := DetermineLocale("en-GB", "fr-FR,fr;q=0.9,en;q=0.8", SupportedLocales, DefaultLocale)
	if got != "en" {
		t.Fatalf("want en, got %s", got)
	}
}

func TestDetermineLocale_AcceptLanguageOrder(t *testing.T) {
	got := DetermineLocale("", "fr-CA,fr;q=0.9,en;q=0.8", SupportedLocales, DefaultLocale)
	if got != "fr" {
		t.Fatalf("want fr, got %s", got)
	}
}

func TestDetermineLocale_AcceptLanguagePrefersHigherQ(t *testing.T) {
	got := DetermineLocale("", "fr;q=0.5,en;q=0.85", SupportedLocales, DefaultLocale)
	if got != "en" {
		t.Fatalf("want en, got %s", got)
	}
}

func TestDetermineLocale_ZeroWeightIsIgnored(t *testing.T) {
	got := DetermineLocale("", "en;q=0", SupportedLocales, DefaultLocale)
	if got != "fr" {
		t.Fatalf("want fr, got %s", got)
	}
}

func TestDetermineLocale_DefaultFallback(t *testing.T) {
	got := DetermineLocale("de", "es-ES,it;q=0.9", SupportedLocales, DefaultLocale)
	if got != "fr" {
		t.Fatalf("want fr fallback, got %s", got)
	}
}
