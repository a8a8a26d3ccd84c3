package mixer

import "testing"

func TestGains_CentreSplitsEvenly(t *testing.T) {
	s := NewState()
	gA, gB := s.Gains()
	if gA != 1 || gB != 1 {
		t.Fatalf("centre gains = (%v, %v), want (1, 1)", gA, gB)
	}
}

func TestGains_HardLeftSilencesB(t *testing.T) {
	s := NewState()
	s.SetCrossfader(0)
	gA, gB := s.Gains()
	if gA != 1 || gB != 0 {
		t.Fatalf("hard-left gains = (%v, %v), want (1, 0)", gA, gB)
	}
}

func TestGains_HardRightSilencesA(t *testing.T) {
	s := NewState()
	s.SetCrossfader(1)
	gA, gB := s.Gains()
	if gA != 0 || gB != 1 {
		t.Fatalf("hard-right gains = (%v, %v), want (0, 1)", gA, gB)
	}
}

func TestGains_MasterAttenuatesBothDecks(t *testing.T) {
	s := NewState()
	s.SetMasterVolume(0.5)
	gA, gB := s.Gains()
	if gA != 0.5 || gB != 0.5 {
		t.Fatalf("gains = (%v, %v), want (0.5, 0.5)", gA, gB)
	}
}

func TestSetCrossfader_ClampsToUnitRange(t *testing.T) {
	s := NewState()
	s.SetCrossfader(-1)
	if s.Crossfader() != 0 {
		t.Fatalf("crossfader = %v, want clamped to 0", s.Crossfader())
	}
	s.SetCrossfader(5)
	if s.Crossfader() != 1 {
		t.Fatalf("crossfader = %v, want clamped to 1", s.Crossfader())
	}
}

func TestSetMasterVolume_ClampsToUnitRange(t *testing.T) {
	s := NewState()
	s.SetMasterVolume(-1)
	if s.MasterVolume() != 0 {
		t.Fatalf("master volume = %v, want clamped to 0", s.MasterVolume())
	}
	s.SetMasterVolume(5)
	if s.MasterVolume() != 1 {
		t.Fatalf("master volume = %v, want clamped to 1", s.MasterVolume())
	}
}
