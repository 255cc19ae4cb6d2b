package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Dashboard is the financial summary of one user's book.
type Dashboard struct {
	TotalClients int
	TotalRevenue decimal.Decimal
	TotalExpense decimal.Decimal
	Transactions []Transaction
}

// NetIncome is derived on demand and never stored.
func (d Dashboard) NetIncome() decimal.Decimal {
	return d.TotalRevenue.Sub(d.TotalExpense)
}

// SortByDateDesc orders txs newest first. Equal dates keep their relative order.
func SortByDateDesc(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
}

// Summarize builds a Dashboard from already owner-filtered records.
func Summarize(clientCount int, txs []Transaction) Dashboard {
	d := Dashboard{
		TotalClients: clientCount,
		TotalRevenue: decimal.Zero,
		TotalExpense: decimal.Zero,
		Transactions: make([]Transaction, len(txs)),
	}
	copy(d.Transactions, txs)
	SortByDateDesc(d.Transactions)

	for _, t := range d.Transactions {
		switch t.Type {
		case Revenue:
			d.TotalRevenue = d.TotalRevenue.Add(t.Amount)
		case Expense:
			d.TotalExpense = d.TotalExpense.Add(t.Amount)
		}
	}
	return d
}
