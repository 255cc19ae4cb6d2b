package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
	"github.com/ledgerdesk/backoffice/internal/core/ports"
)

// SeedAccount is an account created by the seeder together with its records.
type SeedAccount struct {
	Email        string
	Password     string
	Name         string
	Clients      []ports.CreateClientInput
	Transactions []SeedTransaction
}

// SeedTransaction is dated relative to the day the seed runs.
type SeedTransaction struct {
	Type        domain.TransactionType
	Amount      int64
	Description string
	DaysAgo     int
}

// DemoAccounts is the data set loaded with SEED_DEMO=true.
var DemoAccounts = []SeedAccount{
	{
		Email:    "demo@example.com",
		Password: "password123",
		Name:     "Demo User",
		Clients: []ports.CreateClientInput{
			{Name: "Acme Corp", Email: "contact@acme.com", Phone: "555-0101", Status: domain.ClientActive, SensitiveNotes: "Contract ID: 9988-X"},
			{Name: "Globex Corporation", Email: "info@globex.com", Phone: "555-0102", Status: domain.ClientActive, SensitiveNotes: "VIP Client - Handle with care."},
			{Name: "Soylent Corp", Email: "sales@soylent.com", Phone: "555-0103", Status: domain.ClientInactive, SensitiveNotes: "Billing dispute in progress."},
			{Name: "Initech", Email: "support@initech.com", Phone: "555-0104", Status: domain.ClientActive},
			{Name: "Umbrella Corp", Email: "secure@umbrella.com", Phone: "555-0105", Status: domain.ClientActive, SensitiveNotes: "Top Secret Clearance Required."},
		},
		Transactions: []SeedTransaction{
			{domain.Revenue, 5000, "Website Redesign - Acme", 2},
			{domain.Expense, 120, "Cloud Hosting (AWS)", 3},
			{domain.Revenue, 1500, "Monthly Retainer - Globex", 5},
			{domain.Expense, 50, "SaaS Subscription (Jira)", 8},
			{domain.Revenue, 3000, "Consulting - Initech", 10},
			{domain.Revenue, 8000, "Mobile App Dev - Umbrella", 12},
			{domain.Expense, 2000, "Freelancer Payment (Design)", 15},
			{domain.Revenue, 4500, "SEO Optimization - Acme", 18},
			{domain.Expense, 300, "Office Supplies", 20},
		},
	},
	{
		Email:    "admin@email.com",
		Password: "admin123",
		Name:     "Admin",
	},
}

// Seeder loads a fixed data set once, at startup.
type Seeder struct {
	auth         ports.AuthService
	users        ports.UserRepository
	clients      ports.ClientService
	transactions ports.TransactionService
	log          zerolog.Logger
}

func NewSeeder(
	auth ports.AuthService,
	users ports.UserRepository,
	clients ports.ClientService,
	transactions ports.TransactionService,
	log zerolog.Logger,
) *Seeder {
	return &Seeder{auth: auth, users: users, clients: clients, transactions: transactions, log: log}
}

// Seed creates every missing account with its records. Accounts that already
// exist are skipped entirely, so running it twice adds nothing.
func (s *Seeder) Seed(ctx context.Context, accounts []SeedAccount) error {
	today := domain.Today()

	for _, acc := range accounts {
		_, err := s.users.FindByEmail(ctx, acc.Email)
		if err == nil {
			s.log.Debug().Str("email", acc.Email).Msg("seed account exists, skipping")
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("seed %s: %w", acc.Email, err)
		}

		user, err := s.auth.Register(ctx, acc.Email, acc.Password, acc.Name)
		if err != nil {
			return fmt.Errorf("seed %s: register: %w", acc.Email, err)
		}

		for _, c := range acc.Clients {
			if _, err := s.clients.CreateClient(ctx, user.ID, c); err != nil {
				return fmt.Errorf("seed %s: client %q: %w", acc.Email, c.Name, err)
			}
		}

		for _, t := range acc.Transactions {
			_, err := s.transactions.CreateTransaction(ctx, user.ID, ports.CreateTransactionInput{
				Type:        t.Type,
				Amount:      decimal.NewFromInt(t.Amount),
				Description: t.Description,
				Date:        today.AddDays(-t.DaysAgo),
			})
			if err != nil {
				return fmt.Errorf("seed %s: transaction %q: %w", acc.Email, t.Description, err)
			}
		}

		s.log.Info().
			Str("user_id", user.ID).
			Int("clients", len(acc.Clients)).
			Int("transactions", len(acc.Transactions)).
			Msg("seed account created")
	}
	return nil
}
