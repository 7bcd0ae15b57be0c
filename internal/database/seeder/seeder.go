package seeder

import (
	"context"
	"log"

	"hirelink/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

type Runner struct {
	Logger  *log.Logger
	Seeders []Seeder
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return err
		}
		if r.Logger != nil {
			r.Logger.Printf("seed applied | seeder=%s", s.Name())
		}
	}
	return nil
}
