package calculation

import (
	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
)

// moneyPlaces bounds the scale of carried values; repeated compounding would
// otherwise grow decimal mantissas by a few digits every month.
const moneyPlaces = 10

var (
	decimalOne  = decimal.NewFromInt(1)
	decimalZero = decimal.Zero
)

// Project produces the month-by-month schedule of a plan in a single pass.
// It is deterministic, keeps no state between calls and returns a
// *domain.ValidationError (never a partial schedule) for invalid parameters.
func Project(params domain.PlanParameters) ([]domain.MonthlyRow, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	term := params.TermMonths
	contemplation := params.ContemplationMonth

	rows := make([]domain.MonthlyRow, 0, term)

	credit := params.BaseCredit
	accessed := params.BaseCredit
	embeddedApplied := false
	var accessedAtContemplation decimal.Decimal

	paid := decimalZero // installments of months before the current one
	var prevBalance, prevInstallment, fixedInstallment decimal.Decimal

	for month := 1; month <= term; month++ {
		if month > 1 {
			credit = updateCredit(credit, month, params)
			accessed = updateCredit(accessed, month, params)
		}
		if params.EmbeddedBidEnabled && month == contemplation && !embeddedApplied {
			accessed = money(accessed.Sub(accessed.Mul(params.MaxEmbeddedPercentage)))
			embeddedApplied = true
		}
		if month == contemplation {
			accessedAtContemplation = accessed
		}

		base := credit
		if month > contemplation {
			base = accessedAtContemplation
		}
		adminTax := money(base.Mul(params.AdministrationRate))
		reserveFund := money(base.Mul(params.ReserveFundRate))

		var installment, balance decimal.Decimal
		var phase domain.InstallmentPhase

		switch {
		case month <= contemplation:
			phase = domain.PhasePreContemplation
			installment = preContemplationInstallment(credit, adminTax, reserveFund, params)
			balance = credit.Add(adminTax).Add(reserveFund).Sub(paid)

		case month == contemplation+1:
			phase = domain.PhaseFirstPostMonth
			balance = accessedAtContemplation.Add(adminTax).Add(reserveFund).Sub(paid)
			installment = divideByMonths(balance, term-contemplation)
			fixedInstallment = installment

		case isAnnualMark(month):
			phase = domain.PhaseAnnualUpdatePost
			balance = money(prevBalance.Mul(decimalOne.Add(params.AnnualUpdateRate))).Sub(prevInstallment)
			installment = divideByMonths(balance, term-(month-1))
			fixedInstallment = installment

		default:
			phase = domain.PhaseSteadyPost
			balance = prevBalance.Sub(prevInstallment)
			installment = fixedInstallment
		}

		rows = append(rows, domain.MonthlyRow{
			Month:                month,
			CreditValue:          credit,
			AccessedCredit:       accessed,
			AdministrationTax:    adminTax,
			ReserveFund:          reserveFund,
			InstallmentValue:     installment,
			OutstandingBalance:   balance,
			IsContemplationMonth: month == contemplation,
			Phase:                phase,
		})

		paid = paid.Add(installment)
		prevBalance = balance
		prevInstallment = installment
	}

	return rows, nil
}

// updateCredit applies one month of re-indexing. On annual marks after
// contemplation both branches fire, compounding the post-contemplation
// adjustment twice in that month.
func updateCredit(value decimal.Decimal, month int, params domain.PlanParameters) decimal.Decimal {
	postContemplation := month > params.ContemplationMonth

	if isAnnualMark(month) {
		if postContemplation {
			value = value.Add(value.Mul(params.PostContemplationAdjustmentRate))
		} else {
			value = value.Add(value.Mul(params.AnnualUpdateRate))
		}
	}
	if postContemplation {
		value = value.Add(value.Mul(params.PostContemplationAdjustmentRate))
	}
	return money(value)
}

// preContemplationInstallment spreads credit plus fees over the whole term,
// reducing the components a special regime covers.
func preContemplationInstallment(credit, adminTax, reserveFund decimal.Decimal, params domain.PlanParameters) decimal.Decimal {
	factor := decimalOne.Sub(params.ReductionPercent)

	principal := credit
	if params.ReductionApplies(domain.ReduceInstallment) {
		principal = principal.Mul(factor)
	}
	if params.ReductionApplies(domain.ReduceAdminTax) {
		adminTax = adminTax.Mul(factor)
	}
	if params.ReductionApplies(domain.ReduceReserveFund) {
		reserveFund = reserveFund.Mul(factor)
	}

	return divideByMonths(principal.Add(adminTax).Add(reserveFund), params.TermMonths)
}

// isAnnualMark reports whether month opens a new plan year (13, 25, 37, ...)
func isAnnualMark(month int) bool {
	return month > 1 && (month-1)%12 == 0
}

// divideByMonths returns zero instead of failing when no months remain
func divideByMonths(amount decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return decimalZero
	}
	return money(amount.Div(decimal.NewFromInt(int64(months))))
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}
