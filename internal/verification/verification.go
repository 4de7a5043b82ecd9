// Package verification holds the state machine that assigns verification
// status from automation check verdicts. Administrator-driven transitions
// (PreVerified to Verified, Rejected back to Pending) happen outside this
// process; Resolve never produces them.
package verification

import "otr-data-worker/internal/domain"

// Resolve returns the verification status that follows from an automation
// check verdict, given the entity's prior status. Verified is sticky: an
// externally confirmed match re-enters the pipeline for data population only
// and a failing check never downgrades it.
func Resolve(prior domain.VerificationStatus, passed bool) domain.VerificationStatus {
	if prior == domain.VerificationVerified {
		return domain.VerificationVerified
	}
	if passed {
		return domain.VerificationPreVerified
	}
	return domain.VerificationRejected
}
