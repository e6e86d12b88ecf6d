// Package main seeds the database with the base catalog (subjects,
// partner locations, a few news items) plus demo accounts for local
// development. Safe to run repeatedly: duplicates are skipped.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/voluntaria-hub/voluntaria-backend/config"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/news"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/partner"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/subject"
	"github.com/voluntaria-hub/voluntaria-backend/internal/infrastructure/persistence/postgres"
)

var subjects = []struct {
	name, icon, category string
}{
	{"Matemática", "calculator", "exatas"},
	{"Português", "book", "linguagens"},
	{"Física", "atom", "exatas"},
	{"Química", "flask", "exatas"},
	{"Biologia", "leaf", "biologicas"},
	{"História", "landmark", "humanas"},
	{"Geografia", "globe", "humanas"},
	{"Inglês", "language", "linguagens"},
	{"Redação", "pen", "linguagens"},
	{"Informática", "laptop", "tecnologia"},
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required for seeding")
	}

	ctx := context.Background()
	conn, err := postgres.NewConnection(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	seedSubjects(ctx, conn, logger)
	seedPartners(ctx, conn, logger)
	seedNews(ctx, conn, logger)
	if cfg.IsDevelopment() {
		seedDemoAccounts(ctx, conn, logger)
	}

	logger.Info("seed complete")
	return nil
}

func seedSubjects(ctx context.Context, conn *postgres.Connection, logger *slog.Logger) {
	repo := postgres.NewSubjectRepository(conn)
	for _, s := range subjects {
		subj, err := subject.New(s.name, "", s.icon, s.category)
		if err != nil {
			logger.Error("bad subject seed", "name", s.name, "error", err)
			continue
		}
		switch err := repo.Create(ctx, subj); {
		case err == nil:
			logger.Info("subject created", "name", s.name)
		case shared.IsAlreadyExists(err):
			// already seeded
		default:
			logger.Error("subject seed failed", "name", s.name, "error", err)
		}
	}
}

func seedPartners(ctx context.Context, conn *postgres.Connection, logger *slog.Logger) {
	repo := postgres.NewPartnerRepository(conn)

	seeds := []struct {
		name string
		typ  partner.Type
		city string
	}{
		{"Biblioteca Municipal Central", partner.TypeLibrary, "São Paulo"},
		{"Centro Comunitário Vila Esperança", partner.TypeCommunityCenter, "São Paulo"},
		{"ONG Educar para Crescer", partner.TypeONG, "Rio de Janeiro"},
	}

	existing, err := repo.List(ctx, "", "", 0, 0)
	if err != nil {
		logger.Error("partner seed: list failed", "error", err)
		return
	}
	known := make(map[string]bool, len(existing))
	for _, p := range existing {
		known[p.Name] = true
	}

	for _, s := range seeds {
		if known[s.name] {
			continue
		}
		p, err := partner.New(s.name, s.typ)
		if err != nil {
			logger.Error("bad partner seed", "name", s.name, "error", err)
			continue
		}
		p.City = s.city
		if err := repo.Create(ctx, p); err != nil {
			logger.Error("partner seed failed", "name", s.name, "error", err)
			continue
		}
		logger.Info("partner created", "name", s.name)
	}
}

func seedNews(ctx context.Context, conn *postgres.Connection, logger *slog.Logger) {
	repo := postgres.NewNewsRepository(conn)

	existing, err := repo.List(ctx, news.Filter{Limit: 1})
	if err != nil {
		logger.Error("news seed: list failed", "error", err)
		return
	}
	if len(existing) > 0 {
		return
	}

	n, err := news.New(
		"Bem-vindos à Voluntária",
		"A plataforma que conecta voluntários e aprendizes está no ar. Cadastre-se e marque sua primeira aula.",
		news.KindAnnouncement,
	)
	if err != nil {
		logger.Error("bad news seed", "error", err)
		return
	}
	n.Author = "Equipe Voluntária"
	n.IsFeatured = true
	if err := repo.Create(ctx, n); err != nil {
		logger.Error("news seed failed", "error", err)
		return
	}
	logger.Info("news created", "title", n.Title)
}

// seedDemoAccounts creates one volunteer and one learner for manual
// testing. Password for both: "voluntaria".
func seedDemoAccounts(ctx context.Context, conn *postgres.Connection, logger *slog.Logger) {
	users := postgres.NewUserRepository(conn)
	volunteers := postgres.NewVolunteerRepository(conn)
	learners := postgres.NewLearnerRepository(conn)

	hash, err := bcrypt.GenerateFromPassword([]byte("voluntaria"), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("demo seed: hash failed", "error", err)
		return
	}

	vu, err := profile.NewUser("vera@voluntaria.org", string(hash), "Vera Voluntária", profile.RoleVolunteer)
	if err == nil {
		switch err := users.Create(ctx, vu); {
		case err == nil:
			if v, err := profile.NewVolunteer(vu.ID, profile.VolunteerTeacher); err == nil {
				if err := volunteers.Create(ctx, v); err != nil {
					logger.Error("demo volunteer profile failed", "error", err)
				} else {
					logger.Info("demo volunteer created", "email", vu.Email)
				}
			}
		case shared.IsAlreadyExists(err):
			// already seeded
		default:
			logger.Error("demo volunteer failed", "error", err)
		}
	}

	lu, err := profile.NewUser("lia@voluntaria.org", string(hash), "Lia Aprendiz", profile.RoleLearner)
	if err == nil {
		switch err := users.Create(ctx, lu); {
		case err == nil:
			if l, err := profile.NewLearner(lu.ID); err == nil {
				if err := learners.Create(ctx, l); err != nil {
					logger.Error("demo learner profile failed", "error", err)
				} else {
					logger.Info("demo learner created", "email", lu.Email)
				}
			}
		case shared.IsAlreadyExists(err):
			// already seeded
		default:
			logger.Error("demo learner failed", "error", err)
		}
	}
}
