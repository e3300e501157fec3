// Package main seeds the admin account and sample invitations.
//
//	go run ./cmd/seed -admin
//	go run ./cmd/seed -invitations
package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roemah-nenek/undangan/config"
	"github.com/roemah-nenek/undangan/internal/auth"
	"github.com/roemah-nenek/undangan/internal/invitations"
	"github.com/roemah-nenek/undangan/internal/models"
	"github.com/roemah-nenek/undangan/internal/templates"
	"github.com/roemah-nenek/undangan/pkg/database"
)

func main() {
	seedAdmin := flag.Bool("admin", false, "create the admin account if missing")
	seedInvitations := flag.Bool("invitations", false, "create the sample invitations if missing")
	flag.Parse()

	logger := newLogger()
	defer logger.Sync()

	if !*seedAdmin && !*seedInvitations {
		flag.Usage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	pool, err := database.Shared(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer database.CloseShared()
	if err := database.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	accounts := auth.NewRepository(pool)
	if *seedAdmin {
		if err := ensureAdmin(ctx, auth.NewService(accounts, auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours), logger), cfg.Seed, logger); err != nil {
			logger.Fatal("seed admin", zap.Error(err))
		}
	}
	if *seedInvitations {
		admin, err := accounts.GetByEmail(ctx, auth.NormalizeEmail(cfg.Seed.AdminEmail))
		if err != nil {
			logger.Fatal("admin account required; run with -admin first", zap.Error(err))
		}
		svc := invitations.NewService(invitations.NewRepository(pool), nil, nil, logger)
		for _, in := range samples() {
			if err := ensureInvitation(ctx, svc, admin.ID, in, logger); err != nil {
				logger.Fatal("seed invitation", zap.String("slug", in.Slug), zap.Error(err))
			}
		}
	}
}

func ensureAdmin(ctx context.Context, svc *auth.Service, seed config.SeedConfig, logger *zap.Logger) error {
	acc, err := svc.Register(ctx, seed.AdminName, seed.AdminEmail, seed.AdminPassword)
	if errors.Is(err, auth.ErrDuplicateEmail) {
		logger.Info("admin account already exists, skipping", zap.String("email", seed.AdminEmail))
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("admin account created", zap.String("email", acc.Email))
	return nil
}

func ensureInvitation(ctx context.Context, svc *invitations.Service, ownerID uuid.UUID, in invitations.CreateInput, logger *zap.Logger) error {
	inv, err := svc.Create(ctx, ownerID, in)
	if errors.Is(err, invitations.ErrSlugConflict) {
		logger.Info("invitation already exists, skipping", zap.String("slug", in.Slug))
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("invitation created", zap.String("slug", inv.Slug), zap.String("template", inv.TemplateID))
	return nil
}

func samples() []invitations.CreateInput {
	wedding := time.Date(2025, time.November, 12, 8, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	gift := models.GiftSettings{
		Enabled: true,
		Message: "Doa restu Anda merupakan karunia yang sangat berarti bagi kami.",
		BankAccounts: []models.BankAccount{
			{BankName: "BCA", AccountHolder: "Jasmine Putri", AccountNumber: "1234567890"},
		},
	}
	return []invitations.CreateInput{
		{
			Slug:       "jasmine-dan-bayu",
			TemplateID: templates.ModernJavanese,
			Content: models.Content{
				MetaDescription: "Undangan pernikahan Jasmine & Bayu",
				Couple: models.Couple{
					Groom: models.Person{Name: "Bayu Pratama", Parents: "Putra dari Bapak Mulyadi & Ibu Sri"},
					Bride: models.Person{Name: "Jasmine Putri", Parents: "Putri dari Bapak Yoyo & Ibu Ratna"},
				},
				WeddingDate: &wedding,
				Events: []models.Event{
					{Title: "Akad Nikah", Date: "Rabu, 12 November 2025", Time: "08.00 WIB", VenueName: "Masjid Agung", VenueAddress: "Jl. Merdeka No. 1, Yogyakarta"},
					{Title: "Resepsi", Date: "Rabu, 12 November 2025", Time: "11.00 WIB", VenueName: "Pendopo Ageng", VenueAddress: "Jl. Malioboro No. 10, Yogyakarta"},
				},
				HeroQuote: "Dan di antara tanda-tanda kekuasaan-Nya ialah Dia menciptakan untukmu pasangan hidup dari jenismu sendiri.",
				Hashtag:   "#JasmineBayuBersatu",
				Gift:      gift,
			},
		},
		{
			Slug:       "sunda-sample",
			TemplateID: templates.Sunda,
			Content: models.Content{
				MetaDescription: "Undangan pernikahan Neng & Ujang",
				Couple: models.Couple{
					Groom: models.Person{Name: "Ujang"},
					Bride: models.Person{Name: "Neng"},
				},
				WeddingDate: &wedding,
				Gift:        gift,
			},
		},
	}
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
