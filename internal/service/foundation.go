package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nhs-decisions/decision-management-api/internal/dao"
	"github.com/nhs-decisions/decision-management-api/internal/models"
	"github.com/nhs-decisions/decision-management-api/internal/serviceerror"
	"github.com/nhs-decisions/decision-management-api/internal/validation"
	"github.com/nhs-decisions/decision-management-api/pkg/utils"
)

// foundationRules is the storage error table shared by the entity services
func foundationRules(entity string) []serviceerror.Rule {
	return []serviceerror.Rule{
		{
			Match: serviceerror.MatchAs[*validation.Error](),
			Kind:  serviceerror.Validation,
		},
		{
			Match: serviceerror.MatchReason(serviceerror.ReasonNull, serviceerror.ReasonNotFound),
			Kind:  serviceerror.Validation,
		},
		{
			Match: serviceerror.MatchIs(dao.ErrDuplicateKey),
			Kind:  serviceerror.DependencyValidation,
			Inner: serviceerror.WrapReason(serviceerror.ReasonAlreadyExists, entity+" with the same id already exists."),
		},
		{
			Match: serviceerror.MatchIs(dao.ErrForeignKeyConstraint),
			Kind:  serviceerror.DependencyValidation,
			Inner: serviceerror.WrapReason(serviceerror.ReasonInvalidReference, "Invalid "+entity+" reference error occurred."),
		},
		{
			Match: serviceerror.MatchIs(dao.ErrConcurrencyConflict),
			Kind:  serviceerror.DependencyValidation,
			Inner: serviceerror.WrapReason(serviceerror.ReasonLocked, "Locked "+entity+" record error occurred, please try again."),
		},
		{
			Match:    serviceerror.MatchIs(dao.ErrConnection),
			Kind:     serviceerror.Dependency,
			Critical: true,
			Inner:    serviceerror.WrapReason(serviceerror.ReasonFailedStorage, "Failed "+entity+" storage error occurred, contact support."),
		},
		{
			Match: serviceerror.MatchIs(dao.ErrStorage),
			Kind:  serviceerror.Dependency,
			Inner: serviceerror.WrapReason(serviceerror.ReasonFailedStorage, "Failed "+entity+" storage error occurred, contact support."),
		},
	}
}

// foundation runs the add/modify/remove/retrieve pipeline for one entity type.
// fieldChecks returns the entity-specific rules evaluated on add and modify.
type foundation[T any, P interface {
	*T
	models.Entity
}] struct {
	entity        string
	store         Store[P]
	securityAudit SecurityAuditBroker
	clock         utils.Clock
	translator    *serviceerror.Translator
	fieldChecks   func(P) []validation.Check
	logger        *logrus.Logger
}

func newFoundation[T any, P interface {
	*T
	models.Entity
}](
	context string,
	entity string,
	store Store[P],
	securityAudit SecurityAuditBroker,
	clock utils.Clock,
	recorder serviceerror.Recorder,
	fieldChecks func(P) []validation.Check,
	logger *logrus.Logger,
) *foundation[T, P] {
	return &foundation[T, P]{
		entity:        entity,
		store:         store,
		securityAudit: securityAudit,
		clock:         clock,
		translator:    serviceerror.NewTranslator(context, logger, recorder, foundationRules(entity)...),
		fieldChecks:   fieldChecks,
		logger:        logger,
	}
}

func (f *foundation[T, P]) add(ctx context.Context, entity P) (P, error) {
	return serviceerror.Run(f.translator, func() (P, error) {
		if entity == nil {
			return nil, serviceerror.Null(f.entity)
		}

		f.securityAudit.ApplyAddAuditValues(ctx, entity.AuditInfo())

		if err := f.validateOnAdd(entity); err != nil {
			return nil, err
		}

		if err := f.store.Insert(ctx, entity); err != nil {
			return nil, err
		}

		f.logger.WithField("id", entity.GetID()).Debugf("%s added", f.entity)
		return entity, nil
	})
}

func (f *foundation[T, P]) modify(ctx context.Context, entity P) (P, error) {
	return serviceerror.Run(f.translator, func() (P, error) {
		if entity == nil {
			return nil, serviceerror.Null(f.entity)
		}

		f.securityAudit.ApplyModifyAuditValues(ctx, entity.AuditInfo())

		if err := f.validateOnModify(ctx, entity); err != nil {
			return nil, err
		}

		stored, err := f.store.SelectByID(ctx, entity.GetID())
		if err != nil {
			return nil, err
		}
		if stored == nil {
			return nil, serviceerror.NotFound(f.entity, entity.GetID())
		}

		if err := f.securityAudit.EnsureAddAuditValuesRemainUnchangedOnModify(
			ctx, entity.AuditInfo(), stored.AuditInfo()); err != nil {
			return nil, err
		}

		if err := f.store.Update(ctx, entity, stored.AuditInfo().UpdatedDate); err != nil {
			return nil, err
		}

		f.logger.WithField("id", entity.GetID()).Debugf("%s modified", f.entity)
		return entity, nil
	})
}

func (f *foundation[T, P]) removeByID(ctx context.Context, id string) (P, error) {
	return serviceerror.Run(f.translator, func() (P, error) {
		if err := validation.Validate(f.entity, validation.Field("Id", validation.IsInvalidID(id))); err != nil {
			return nil, err
		}

		stored, err := f.store.SelectByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if stored == nil {
			return nil, serviceerror.NotFound(f.entity, id)
		}

		if err := f.store.Delete(ctx, id); err != nil {
			return nil, err
		}

		f.logger.WithField("id", id).Debugf("%s removed", f.entity)
		return stored, nil
	})
}

func (f *foundation[T, P]) retrieveByID(ctx context.Context, id string) (P, error) {
	return serviceerror.Run(f.translator, func() (P, error) {
		if err := validation.Validate(f.entity, validation.Field("Id", validation.IsInvalidID(id))); err != nil {
			return nil, err
		}

		stored, err := f.store.SelectByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if stored == nil {
			return nil, serviceerror.NotFound(f.entity, id)
		}

		return stored, nil
	})
}

func (f *foundation[T, P]) retrieveAll(ctx context.Context) ([]P, error) {
	return serviceerror.Run(f.translator, func() ([]P, error) {
		return f.store.SelectAll(ctx)
	})
}

func (f *foundation[T, P]) validateOnAdd(entity P) error {
	audit := entity.AuditInfo()
	checks := append(f.fieldChecks(entity),
		validation.Field("UpdatedBy", validation.IsNotSame(audit.UpdatedBy, audit.CreatedBy, "CreatedBy")),
		validation.Field("UpdatedDate", validation.IsNotSameDate(audit.UpdatedDate, audit.CreatedDate, "CreatedDate")),
		validation.Field("CreatedDate", validation.IsNotRecent(f.clock.Now(), audit.CreatedDate)),
	)
	return validation.Validate(f.entity, checks...)
}

func (f *foundation[T, P]) validateOnModify(ctx context.Context, entity P) error {
	audit := entity.AuditInfo()
	currentUserID := f.securityAudit.GetCurrentUserID(ctx)
	checks := append(f.fieldChecks(entity),
		validation.Field("UpdatedBy", validation.IsNotSame(audit.UpdatedBy, currentUserID, "current user")),
		validation.Field("UpdatedDate", validation.IsSameDate(audit.UpdatedDate, audit.CreatedDate, "CreatedDate")),
		validation.Field("UpdatedDate", validation.IsNotRecent(f.clock.Now(), audit.UpdatedDate)),
	)
	return validation.Validate(f.entity, checks...)
}

// auditChecks are the presence rules every entity applies to its audit stamps
func auditChecks(audit *models.Audit) []validation.Check {
	return []validation.Check{
		validation.Field("CreatedBy", validation.IsInvalid(audit.CreatedBy)),
		validation.Field("CreatedDate", validation.IsInvalidDate(audit.CreatedDate)),
		validation.Field("UpdatedBy", validation.IsInvalid(audit.UpdatedBy)),
		validation.Field("UpdatedDate", validation.IsInvalidDate(audit.UpdatedDate)),
	}
}
