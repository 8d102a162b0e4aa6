package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"
)

// translateStoreError maps storage failures onto the service taxonomy so that
// callers never see driver details.
func translateStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: record already exists", ErrConflict)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: referenced record does not exist", ErrInvalidInput)
		case pgCheckViolation, pgInvalidText:
			return fmt.Errorf("%w: value rejected by store", ErrInvalidInput)
		}
	}
	return err
}
