package extract

import (
	"testing"

	"time"
)

var testNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func TestDeadlineAnchorWithExplicitDate(t *testing.T) {
	got := Deadline("Fecha límite: 2026-03-15 para el programa", testNow)
	if got != "2026-03-15" {
		t.Errorf("Deadline = %q, want 2026-03-15", got)
	}
}

func TestDeadlineSlashFormat(t *testing.T) {
	got := Deadline("Cierre de la convocatoria: 2026/04/01", testNow)
	if got != "2026-04-01" {
		t.Errorf("Deadline = %q, want 2026-04-01", got)
	}
}

func TestDeadlineEnglishAnchor(t *testing.T) {
	got := Deadline("Applications welcome. Deadline: 2027-01-31.", testNow)
	if got != "2027-01-31" {
		t.Errorf("Deadline = %q, want 2027-01-31", got)
	}
}

func TestDeadlinePastYearRejected(t *testing.T) {
	if got := Deadline("Fecha límite: 2020-05-01", testNow); got != "" {
		t.Errorf("Deadline = %q, want empty for past year", got)
	}
}

func TestDeadlineNoDate(t *testing.T) {
	if got := Deadline("Convocatoria abierta para proyectos de investigación", testNow); got != "" {
		t.Errorf("Deadline = %q, want empty", got)
	}
}

func TestDeadlineEmptyInput(t *testing.T) {
	if got := Deadline("", testNow); got != "" {
		t.Errorf("Deadline = %q, want empty", got)
	}
	if got := Deadline("   \n\t ", testNow); got != "" {
		t.Errorf("Deadline = %q, want empty for whitespace", got)
	}
}

func TestDeadlineFuzzyMonthName(t *testing.T) {
	got := Deadline("Proposals due date: March 15, 2027 at noon", testNow)
	if got != "2027-03-15" {
		t.Errorf("Deadline = %q, want 2027-03-15", got)
	}
}

func TestDeadlineFuzzyDayFirst(t *testing.T) {
	// Ambiguous numeric dates read day-before-month.
	got := Deadline("hasta 02/03/2026", testNow)
	if got != "2026-03-02" {
		t.Errorf("Deadline = %q, want 2026-03-02", got)
	}
}

func TestDeadlineWholeTextFallback(t *testing.T) {
	// No anchor phrase at all; the full text is still scanned.
	got := Deadline("El programa recibe solicitudes al 2026-09-30 inclusive", testNow)
	if got != "2026-09-30" {
		t.Errorf("Deadline = %q, want 2026-09-30", got)
	}
}

func TestDeadlineStaleAnchorDoesNotBlockWholeText(t *testing.T) {
	// The anchor chunk carries a stale explicit date, which disqualifies
	// that chunk without aborting the scan; there is no other date so
	// the result is empty rather than the stale one.
	got := Deadline("Cierre: 2019-12-31", testNow)
	if got != "" {
		t.Errorf("Deadline = %q, want empty", got)
	}
}

func TestDeadlineMalformedFragmentsNeverPanic(t *testing.T) {
	inputs := []string{
		"deadline: 99/99/9999",
		"hasta -- :: () 20",
		"due date: not a date at all",
		"fecha límite: 0000-00-00",
	}
	for _, in := range inputs {
		if got := Deadline(in, testNow); got != "" {
			t.Errorf("Deadline(%q) = %q, want empty", in, got)
		}
	}
}
