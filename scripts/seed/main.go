package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/userhub/userhub/internal/app"
	"github.com/userhub/userhub/internal/shared"
	"github.com/userhub/userhub/internal/users"
)

var demoUsers = []users.CreateInput{
	{Name: "Joe", Email: "joe@example.com", Password: "password1"},
	{Name: "Ann", Email: "ann@example.com", Password: "password1"},
	{Name: "Sam", Email: "sam@example.com", Password: "password1"},
}

func main() {
	if os.Getenv("JWT_SECRET") == "" {
		_ = os.Setenv("JWT_SECRET", "seed-only")
	}
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	ctx := context.Background()
	repo, closeStore, err := app.OpenUserStore(ctx, cfg)
	if err != nil {
		log.Fatalf("open %s store: %v", cfg.StoreDriver, err)
	}
	defer closeStore()

	fmt.Println("→ Seeding users...")
	created, err := seedUsers(ctx, users.NewService(repo, nil), demoUsers)
	if err != nil {
		log.Fatalf("seed users: %v", err)
	}
	fmt.Printf("✓ %d users created, %d already present\n", created, len(demoUsers)-created)
}

func seedUsers(ctx context.Context, svc *users.Service, inputs []users.CreateInput) (int, error) {
	created := 0
	for _, in := range inputs {
		if _, err := svc.Create(ctx, in); err != nil {
			if errors.Is(err, shared.ErrDuplicateEmail) {
				continue
			}
			return created, fmt.Errorf("%s: %w", in.Email, err)
		}
		created++
	}
	return created, nil
}
