package projector

import (
	"fmt"
	"strings"
	"time"

	"github.com/rentgrid/registry-middleware/pkg/event"
	"github.com/rentgrid/registry-middleware/pkg/process"
	"github.com/rentgrid/registry-middleware/pkg/template"
)

// NextState computes the field updates an event produces against the current
// process state. It is a pure function: the same (process, template, event)
// inputs always derive the same update, which keeps replays idempotent.
//
// The boolean result reports whether the event matched a transition for the
// current status. A mismatch is not an error; it models tolerance of
// duplicate and out-of-order delivery.
//
// tpl is only consulted for PARTICIPATION_CONFIRMED and may be nil otherwise.
func NextState(p *process.Process, tpl *template.Template, evt *event.Event) (process.Update, bool, error) {
	switch evt.Type {
	case event.TypeRentalInitiated:
		if p.Status != process.StatusDraft {
			return process.Update{}, false, nil
		}
		return statusUpdate(process.StatusPendingRenter), true, nil

	case event.TypeParticipationConfirmed:
		if p.Status != process.StatusPendingRenter {
			return process.Update{}, false, nil
		}
		if tpl == nil {
			return process.Update{}, false, fmt.Errorf("process %s references missing template %s", p.ID, p.TemplateID)
		}
		terms := process.SnapshotTerms(tpl.Terms)
		if tpl.Terms.Negotiable {
			negotiating := process.StatusNegotiating
			unaccepted := false
			deadline := evt.Time().Add(tpl.Terms.NegotiationWindow())
			return process.Update{
				Status:              &negotiating,
				AgreedTerms:         &terms,
				OwnerAccepted:       &unaccepted,
				RenterAccepted:      &unaccepted,
				NegotiationDeadline: &deadline,
			}, true, nil
		}
		agreed := process.StatusTermsAgreed
		return process.Update{
			Status:      &agreed,
			AgreedTerms: &terms,
		}, true, nil

	case event.TypeTermsRejected:
		if p.Status != process.StatusPendingRenter && p.Status != process.StatusNegotiating {
			return process.Update{}, false, nil
		}
		return statusUpdate(process.StatusRejected), true, nil

	case event.TypeNegotiationExpired:
		if p.Status != process.StatusNegotiating {
			return process.Update{}, false, nil
		}
		return statusUpdate(process.StatusExpired), true, nil

	case event.TypeTermsAccepted:
		if p.Status != process.StatusNegotiating {
			return process.Update{}, false, nil
		}
		return acceptTerms(p, evt.Sender), true, nil

	case event.TypeDepositDeclared:
		if p.Status != process.StatusTermsAgreed {
			return process.Update{}, false, nil
		}
		return statusUpdate(process.StatusDepositPending), true, nil

	case event.TypeDepositConfirmed:
		if p.Status != process.StatusDepositPending {
			return process.Update{}, false, nil
		}
		return statusUpdate(process.StatusDepositDeclared), true, nil

	case event.TypeHandoverProof:
		if p.Status != process.StatusDepositDeclared {
			return process.Update{}, false, nil
		}
		return startRental(p, evt.Time())

	case event.TypeReturnProof:
		if p.Status != process.StatusActive {
			return process.Update{}, false, nil
		}
		return statusUpdate(process.StatusReturnPending), true, nil

	case event.TypeReturnVerified:
		if p.Status != process.StatusReturnPending {
			return process.Update{}, false, nil
		}
		return statusUpdate(process.StatusReturnVerified), true, nil

	case event.TypeDepositResolved:
		if p.Status != process.StatusReturnVerified {
			return process.Update{}, false, nil
		}
		update := statusUpdate(process.StatusDepositResolving)
		if res := process.DepositResolution(evt.MetadataString("resolution")); res.Valid() {
			update.DepositResolution = &res
		}
		return update, true, nil

	case event.TypeResolutionConfirmed:
		if p.Status != process.StatusDepositResolving {
			return process.Update{}, false, nil
		}
		return statusUpdate(process.StatusCompleted), true, nil

	default:
		// Unknown or asset-only event types never move a process.
		return process.Update{}, false, nil
	}
}

// acceptTerms flips the acceptance flag of the sender's role and promotes the
// process once both sides have accepted. A sender holding no role changes no
// flags, but both-accepted is still re-evaluated against the stored flags.
func acceptTerms(p *process.Process, sender string) process.Update {
	ownerAccepted := p.OwnerAccepted
	renterAccepted := p.RenterAccepted

	var update process.Update
	accepted := true
	switch strings.ToLower(p.RoleOf(sender)) {
	case process.RoleOwner:
		ownerAccepted = true
		update.OwnerAccepted = &accepted
	case process.RoleRenter:
		renterAccepted = true
		update.RenterAccepted = &accepted
	}

	if ownerAccepted && renterAccepted {
		agreed := process.StatusTermsAgreed
		update.Status = &agreed
	}
	return update
}

// startRental activates the process and derives the rental window from the
// agreed terms, anchored at the event's logical time.
func startRental(p *process.Process, start time.Time) (process.Update, bool, error) {
	if p.AgreedTerms == nil {
		return process.Update{}, false, fmt.Errorf("process %s has no agreed terms at handover", p.ID)
	}
	seconds, err := p.AgreedTerms.RentalSeconds()
	if err != nil {
		return process.Update{}, false, fmt.Errorf("process %s: %w", p.ID, err)
	}

	active := process.StatusActive
	end := start.Add(time.Duration(seconds) * time.Second)
	return process.Update{
		Status:    &active,
		StartDate: &start,
		EndDate:   &end,
	}, true, nil
}

func statusUpdate(status process.Status) process.Update {
	return process.Update{Status: &status}
}
