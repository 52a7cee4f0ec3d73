// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package ledgeruc contains the ledger UseCase which supports the
// bookkeeping use cases of a migration run:
//  1. Initializing the migrations and seeds ledgers,
//  2. Listing the applied migrations (or seeds),
//  3. Computing the pending migrations (or seeds),
//  4. Marking a migration (or seed) as applied, or reverting that mark.
//
// The use cases only depend on the repo.Ledger interface, so they may
// be used with any migration driver.
package ledgeruc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/mongo-migrate/pkg/core/cerr"
	"github.com/momeni/mongo-migrate/pkg/core/log"
	"github.com/momeni/mongo-migrate/pkg/core/model"
	"github.com/momeni/mongo-migrate/pkg/core/repo"
)

// Kind chooses one of the two ledgers.
type Kind string

// These constants list the known ledger kinds.
const (
	Migrations Kind = "migrations"
	Seeds      Kind = "seeds"
)

// ParseKind converts s to a Kind, accepting the singular forms too.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "migrations", "migration":
		return Migrations, nil
	case "seeds", "seed":
		return Seeds, nil
	default:
		return "", cerr.Configuration(fmt.Errorf(
			"unknown ledger kind %q (expected migrations or seeds)", s,
		))
	}
}

// UseCase represents the ledger use cases. It holds the ledger
// repository of a connected migration driver.
type UseCase struct {
	ledger repo.Ledger

	allowDuplicates bool
}

// New instantiates a ledger use case.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(l repo.Ledger, opts ...Option) (*UseCase, error) {
	if l == nil {
		return nil, fmt.Errorf("ledger repository must not be nil")
	}
	uc := &UseCase{ledger: l}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	return uc, nil
}

// Init ensures that both of the migrations and seeds ledgers exist.
func (uc *UseCase) Init(ctx context.Context) error {
	if err := uc.ledger.EnsureMigrationsTable(ctx); err != nil {
		return fmt.Errorf("ensuring migrations ledger: %w", err)
	}
	if err := uc.ledger.EnsureSeedsTable(ctx); err != nil {
		return fmt.Errorf("ensuring seeds ledger: %w", err)
	}
	return nil
}

// Status returns the records of the k ledger, most recent first.
func (uc *UseCase) Status(ctx context.Context, k Kind) ([]model.Record, error) {
	var (
		records []model.Record
		err     error
	)
	switch k {
	case Migrations:
		records, err = uc.ledger.ListMigrations(ctx)
	case Seeds:
		records, err = uc.ledger.ListSeeds(ctx)
	default:
		return nil, unknown(k)
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", k, err)
	}
	return records, nil
}

// Pending returns those names which are not recorded in the k ledger,
// keeping their original order.
func (uc *UseCase) Pending(
	ctx context.Context, k Kind, names []string,
) ([]string, error) {
	records, err := uc.Status(ctx, k)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]struct{}, len(records))
	for _, r := range records {
		applied[r.Name] = struct{}{}
	}
	pending := []string{}
	for _, n := range names {
		if _, ok := applied[n]; !ok {
			pending = append(pending, n)
		}
	}
	return pending, nil
}

// Mark records name in the k ledger. An already recorded name is
// reported as a cerr.KindDuplicateResource error, unless duplicates
// are allowed by the WithDuplicates option.
func (uc *UseCase) Mark(
	ctx context.Context, k Kind, name string,
) (model.Record, error) {
	if name == "" {
		return model.Record{}, cerr.Configuration(
			fmt.Errorf("%s name must not be empty", k),
		)
	}
	if !uc.allowDuplicates {
		pending, err := uc.Pending(ctx, k, []string{name})
		if err != nil {
			return model.Record{}, err
		}
		if len(pending) == 0 {
			return model.Record{}, cerr.DuplicateResource(
				fmt.Errorf("%q is already recorded in %s", name, k),
			)
		}
	}
	var (
		r   model.Record
		err error
	)
	switch k {
	case Migrations:
		r, err = uc.ledger.RecordMigration(ctx, name)
	case Seeds:
		r, err = uc.ledger.RecordSeed(ctx, name)
	default:
		return model.Record{}, unknown(k)
	}
	if err != nil {
		return model.Record{}, fmt.Errorf("recording %q: %w", name, err)
	}
	log.Info(ctx, "marked as applied", log.Valuer("record", r))
	return r, nil
}

// Unmark deletes one record of name from the k ledger. It reports
// whether a record was found and deleted.
func (uc *UseCase) Unmark(
	ctx context.Context, k Kind, name string,
) (bool, error) {
	var (
		res model.DeleteResult
		err error
	)
	switch k {
	case Migrations:
		res, err = uc.ledger.DeleteMigration(ctx, name)
	case Seeds:
		res, err = uc.ledger.DeleteSeed(ctx, name)
	default:
		return false, unknown(k)
	}
	if err != nil {
		return false, fmt.Errorf("deleting %q: %w", name, err)
	}
	if res.DeletedCount == 0 {
		log.Warn(ctx, "nothing to unmark", slog.String("name", name))
		return false, nil
	}
	return true, nil
}

func unknown(k Kind) error {
	return cerr.Configuration(fmt.Errorf("unknown ledger kind %q", k))
}
