package caseflow

import (
	"math"

	"staysure-portal-be/internal/entity"
)

// Fees in THB. The government fee is charged on every extension regardless
// of service tier, and half of the total is due up front as the deposit.
const (
	StandardServiceFee = 4500
	ExpressServiceFee  = 6900
	GovernmentFee      = 1900
)

// Quote is the fixed price of a case, computed once at submission and never
// recomputed afterwards.
type Quote struct {
	Amount        int
	DepositAmount int
}

func PriceFor(serviceType entity.ServiceType) Quote {
	fee := StandardServiceFee
	if serviceType == entity.ServiceExpress {
		fee = ExpressServiceFee
	}
	amount := fee + GovernmentFee
	return Quote{
		Amount:        amount,
		DepositAmount: int(math.Round(float64(amount) * 0.5)),
	}
}
