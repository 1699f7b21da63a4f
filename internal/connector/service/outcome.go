package service

import "github.com/aussiebroadwan/scaconnect/internal/connector/domain"

// mapOutcome turns an authority verdict into the statuses applied to a state.
func mapOutcome(s domain.State, success, partial bool, tx domain.TransactionStatus) domain.Outcome {
	switch s.(type) {
	case *domain.PaymentState:
		switch {
		case !success:
			return domain.Outcome{ScaStatus: domain.StatusFailed, TransactionStatus: domain.TxRejected}
		case partial:
			return domain.Outcome{ScaStatus: domain.StatusFinalised, TransactionStatus: domain.TxPartiallyAccepted}
		case tx.Known() && tx != domain.TxRejected:
			return domain.Outcome{ScaStatus: domain.StatusFinalised, TransactionStatus: tx}
		default:
			return domain.Outcome{ScaStatus: domain.StatusFailed, TransactionStatus: domain.TxRejected}
		}
	case *domain.ConsentState:
		switch {
		case !success:
			return domain.Outcome{ScaStatus: domain.StatusFailed, ConsentStatus: domain.ConsentRejected}
		case partial:
			return domain.Outcome{ScaStatus: domain.StatusFinalised, ConsentStatus: domain.ConsentPartiallyAuthorised}
		default:
			return domain.Outcome{ScaStatus: domain.StatusFinalised, ConsentStatus: domain.ConsentValid}
		}
	}

	if success {
		return domain.Outcome{ScaStatus: domain.StatusFinalised}
	}
	return domain.Outcome{ScaStatus: domain.StatusFailed}
}

// applyOutcome writes o onto s. A failed authorisation loses its bearer.
func applyOutcome(s domain.State, o domain.Outcome) {
	a := s.Auth()
	a.ScaStatus = o.ScaStatus
	if o.ScaStatus == domain.StatusFailed {
		a.BearerToken = nil
	}

	switch v := s.(type) {
	case *domain.PaymentState:
		v.TransactionStatus = o.TransactionStatus
	case *domain.ConsentState:
		v.ConsentStatus = o.ConsentStatus
	}
}
