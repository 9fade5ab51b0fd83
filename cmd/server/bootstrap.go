package main

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-rental/internal/apperr"
	"github.com/iliyamo/movie-rental/internal/config"
	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/service"
	"github.com/iliyamo/movie-rental/internal/utils"
)

// bootstrapAdmin creates the configured administrator account when it
// does not exist yet. Without ADMIN_NAME it does nothing.
func bootstrapAdmin(cfg config.Config, customers *service.CustomerService, log logrus.FieldLogger) error {
	if cfg.AdminName == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := customers.GetByName(ctx, cfg.AdminName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperr.ErrInvalidName) {
		return err
	}
	if len(cfg.AdminPassword) < utils.MinPasswordLen {
		return errors.New("ADMIN_PASSWORD must be at least 8 characters")
	}
	hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}
	admin, err := customers.Create(ctx, &model.Customer{
		Name:         cfg.AdminName,
		Phone:        cfg.AdminPhone,
		Role:         model.RoleAdmin,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}
	log.WithField("customer_id", admin.ID).Info("bootstrap administrator created")
	return nil
}
