package domain

import "testing"

func TestProcessingStatus_IsValid(t *testing.T) {
	valid := []ProcessingStatus{
		ProcessingNotProcessed,
		ProcessingMaterialized,
		ProcessingDone,
		ProcessingFetchFailed,
	}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("Expected %s to be valid", s)
		}
	}
	if ProcessingStatus("BOGUS").IsValid() {
		t.Error("Expected BOGUS to be invalid")
	}
}

func TestVerificationStatus_IsValid(t *testing.T) {
	valid := []VerificationStatus{
		VerificationPending,
		VerificationPreVerified,
		VerificationRejected,
		VerificationVerified,
	}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("Expected %s to be valid", s)
		}
	}
	if VerificationStatus("BOGUS").IsValid() {
		t.Error("Expected BOGUS to be invalid")
	}
}

func TestMatch_Reject_FirstFailureWins(t *testing.T) {
	m := &Match{
		VerificationStatus: VerificationPending,
		RejectionReason:    RejectionNone,
	}

	m.Reject(RejectionInvalidLobbyName)
	m.Reject(RejectionMissingEndTime)

	if m.VerificationStatus != VerificationRejected {
		t.Errorf("Expected Rejected, got %s", m.VerificationStatus)
	}
	if m.RejectionReason != RejectionInvalidLobbyName {
		t.Errorf("Expected first reason to stick, got %s", m.RejectionReason)
	}
}

func TestMatch_Reject_VerifiedNeverDowngraded(t *testing.T) {
	m := &Match{
		VerificationStatus: VerificationVerified,
		RejectionReason:    RejectionNone,
	}

	m.Reject(RejectionMissingEndTime)

	if m.VerificationStatus != VerificationVerified {
		t.Errorf("Expected Verified to stick, got %s", m.VerificationStatus)
	}
	if m.RejectionReason != RejectionNone {
		t.Errorf("Expected no rejection reason, got %s", m.RejectionReason)
	}
}

func TestGame_Reject_FirstFailureWins(t *testing.T) {
	g := &Game{
		VerificationStatus: VerificationPending,
		RejectionReason:    RejectionNone,
	}

	g.Reject(RejectionInvalidScoringType)
	g.Reject(RejectionInvalidTeamType)

	if g.VerificationStatus != VerificationRejected {
		t.Errorf("Expected Rejected, got %s", g.VerificationStatus)
	}
	if g.RejectionReason != RejectionInvalidScoringType {
		t.Errorf("Expected first reason to stick, got %s", g.RejectionReason)
	}
}

func TestScore_ValidityLockstep(t *testing.T) {
	s := &Score{}
	s.ResetValidity()

	if !s.IsValid || s.RejectionReason != RejectionNone {
		t.Fatalf("Expected valid score, got IsValid=%v reason=%s", s.IsValid, s.RejectionReason)
	}

	s.Reject(RejectionInvalidMods)
	if s.IsValid {
		t.Error("Expected IsValid=false after Reject")
	}
	if s.RejectionReason != RejectionInvalidMods {
		t.Errorf("Expected InvalidMods, got %s", s.RejectionReason)
	}

	// Later rejections do not overwrite the reason
	s.Reject(RejectionScoreBelowMinimum)
	if s.RejectionReason != RejectionInvalidMods {
		t.Errorf("Expected first reason to stick, got %s", s.RejectionReason)
	}

	s.ResetValidity()
	if !s.IsValid || s.RejectionReason != RejectionNone {
		t.Errorf("Expected reset score to be valid, got IsValid=%v reason=%s", s.IsValid, s.RejectionReason)
	}
}
