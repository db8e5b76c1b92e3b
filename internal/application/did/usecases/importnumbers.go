package usecases

import (
	"context"
	"fmt"

	appaudit "github.com/centrex-inc/centrex/internal/application/audit"
	"github.com/centrex-inc/centrex/internal/domain/audit"
	"github.com/centrex-inc/centrex/internal/domain/did"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// ImportNumbersCommand represents the input for a batch number import.
type ImportNumbersCommand struct {
	Numbers          []string
	Provider         string
	ProviderMetadata map[string]string
	Meta             appaudit.Meta
}

// ImportNumbersResult reports how many numbers entered the pool.
type ImportNumbersResult struct {
	Imported int                  `json:"imported"`
	Numbers  []*PhoneNumberResult `json:"numbers"`
}

// ImportNumbersUseCase handles batch DID import. The batch is
// all-or-nothing: one bad number rejects the whole import with a report of
// every failure, so a retry never half-applies.
type ImportNumbersUseCase struct {
	repo     did.PhoneNumberRepository
	recorder *appaudit.Recorder
	logger   logger.Interface
}

// NewImportNumbersUseCase creates a new ImportNumbersUseCase.
func NewImportNumbersUseCase(repo did.PhoneNumberRepository, recorder *appaudit.Recorder, logger logger.Interface) *ImportNumbersUseCase {
	return &ImportNumbersUseCase{
		repo:     repo,
		recorder: recorder,
		logger:   logger,
	}
}

// Execute validates every number, then persists the batch atomically.
func (uc *ImportNumbersUseCase) Execute(ctx context.Context, cmd ImportNumbersCommand) (*ImportNumbersResult, error) {
	uc.logger.Infow("executing import numbers use case", "count", len(cmd.Numbers))

	if len(cmd.Numbers) == 0 {
		return nil, &did.BatchImportError{Errors: []did.ImportError{{Reason: "no numbers given"}}}
	}

	var importErrors []did.ImportError
	seen := make(map[string]bool, len(cmd.Numbers))
	entities := make([]*did.PhoneNumber, 0, len(cmd.Numbers))

	for _, number := range cmd.Numbers {
		if seen[number] {
			importErrors = append(importErrors, did.ImportError{Number: number, Reason: "duplicated within batch"})
			continue
		}
		seen[number] = true

		entity, err := did.NewPhoneNumber(number, cmd.Provider)
		if err != nil {
			importErrors = append(importErrors, did.ImportError{Number: number, Reason: err.Error()})
			continue
		}
		if cmd.ProviderMetadata != nil {
			entity.SetProviderMetadata(cmd.ProviderMetadata)
		}

		exists, err := uc.repo.ExistsByNumber(ctx, number)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing number: %w", err)
		}
		if exists {
			importErrors = append(importErrors, did.ImportError{Number: number, Reason: "number already exists"})
			continue
		}

		entities = append(entities, entity)
	}

	if len(importErrors) > 0 {
		uc.logger.Warnw("import rejected", "failures", len(importErrors))
		return nil, &did.BatchImportError{Errors: importErrors}
	}

	if err := uc.repo.CreateBatch(ctx, entities); err != nil {
		uc.logger.Errorw("failed to persist number batch", "error", err)
		return nil, fmt.Errorf("failed to import numbers: %w", err)
	}

	results := make([]*PhoneNumberResult, 0, len(entities))
	for _, entity := range entities {
		uc.recorder.Record(ctx, cmd.Meta, audit.ActionCreate, "phone_number", entity.ID(), nil, phoneNumberSnapshot(entity))
		results = append(results, newPhoneNumberResult(entity))
	}

	uc.logger.Infow("numbers imported successfully", "count", len(entities))
	return &ImportNumbersResult{Imported: len(entities), Numbers: results}, nil
}
