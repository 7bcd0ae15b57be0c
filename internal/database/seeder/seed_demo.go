package seeder

import (
	"context"

	"hirelink/internal/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DemoSeeder populates a handful of users, one company, and its followers
// so a fresh development environment can exercise messaging and fan-out.
type DemoSeeder struct{}

func (DemoSeeder) Name() string { return "demo" }

type demoUser struct {
	email       string
	password    string
	displayName string
	headline    string
	company     string
	follows     bool
}

var demoCompanyID = uuid.MustParse("5f0c8a46-93cf-4f44-b63a-21f1c0a20b17")

var demoUsers = []demoUser{
	{email: "recruiter@acme.test", password: "recruiter1", displayName: "Rae Cruiter", headline: "Talent Lead", company: "Acme"},
	{email: "dev@example.test", password: "developer1", displayName: "Dev Eloper", headline: "Backend Engineer", follows: true},
	{email: "designer@example.test", password: "designer1", displayName: "Desi Gner", headline: "Product Designer", follows: true},
}

func (DemoSeeder) Run(ctx context.Context, db database.DB) error {
	if _, err := db.Exec(ctx, `
INSERT INTO companies (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		demoCompanyID, "Acme",
	); err != nil {
		return err
	}

	for _, u := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		id := uuid.New()
		row := db.QueryRow(ctx, `
INSERT INTO users (id, email, password_hash, display_name, headline, company_name)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (email) DO UPDATE SET display_name = EXCLUDED.display_name
RETURNING id`,
			id, u.email, string(hash), u.displayName, u.headline, u.company,
		)
		if err := row.Scan(&id); err != nil {
			return err
		}

		if u.follows {
			if _, err := db.Exec(ctx, `
INSERT INTO company_followers (company_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				demoCompanyID, id,
			); err != nil {
				return err
			}
		}
	}

	return nil
}
