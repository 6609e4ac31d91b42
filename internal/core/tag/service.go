// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/shici/internal/platform/apperr"
	"github.com/taibuivan/shici/internal/platform/ctxutil"
	"github.com/taibuivan/shici/internal/platform/events"
	"github.com/taibuivan/shici/internal/platform/validate"
	"github.com/taibuivan/shici/pkg/optional"
	"github.com/taibuivan/shici/pkg/pagination"
	"github.com/taibuivan/shici/pkg/pointer"
)

// TokenVerifier checks the shared write secret. Satisfied by [*sec.WriteToken].
type TokenVerifier interface {
	Verify(candidate string) bool
}

// AttemptGuard locks out clients that keep sending bad tokens.
// Satisfied by [*throttle.Guard].
type AttemptGuard interface {
	Check(ctx context.Context, subject string) error
	RecordFailure(ctx context.Context, subject string) error
	Reset(ctx context.Context, subject string) error
}

// Service implements the tag operations.
type Service struct {
	repo      Repository
	token     TokenVerifier
	guard     AttemptGuard
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService creates a new tag [Service].
//
// guard may be nil, which disables the bad-token lockout. A nil publisher
// is replaced by [events.Discard].
func NewService(repo Repository, token TokenVerifier, guard AttemptGuard, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Service{
		repo:      repo,
		token:     token,
		guard:     guard,
		publisher: publisher,
		logger:    logger,
	}
}

// # Reads

// List returns one page of projected tags and its pagination metadata.
func (service *Service) List(ctx context.Context, query ListQuery) ([]View, pagination.Meta, error) {
	views, total, err := service.repo.List(ctx, query)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return views, pagination.NewMeta(query.Page, total), nil
}

// Count returns the total number of tags alongside the number of 词牌名 tags.
func (service *Service) Count(ctx context.Context) (Counts, error) {
	return service.repo.Count(ctx)
}

// FindByID returns the tag or nil when it does not exist.
func (service *Service) FindByID(ctx context.Context, id int) (*Tag, error) {
	if !storable(id) {
		return nil, nil
	}
	return service.repo.GetByID(ctx, id)
}

// # Writes

// DeleteByID hard-deletes a tag and returns the removed row.
func (service *Service) DeleteByID(ctx context.Context, id int) (*Tag, error) {
	if !storable(id) {
		return nil, apperr.NotFound(resourceTag)
	}

	tag, err := service.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	service.log(ctx).WarnContext(ctx, "tag_deleted", slog.Int("tag_id", tag.ID), slog.String("name", tag.Name))
	service.publish(ctx, ActionDeleted, tag)
	return tag, nil
}

// Create inserts a tag, or updates the present fields of an existing one when
// the input carries an id. The boolean reports whether a row was inserted.
//
// # Order of checks
//
//  1. Bad-token lockout for the calling client.
//  2. Token comparison. Nothing touches the store before it passes.
//  3. Field validation on NFC-normalized text.
func (service *Service) Create(ctx context.Context, input CreateInput) (*Tag, bool, error) {
	logger := service.log(ctx)

	if err := service.authorize(ctx, input.Token); err != nil {
		return nil, false, err
	}

	input = normalize(input)
	if err := validateCreate(input); err != nil {
		return nil, false, err
	}

	attrs := input.attributes()

	if id, ok := input.ID.Get(); ok {
		tag, err := service.repo.Update(ctx, id, attrs)
		if err != nil {
			return nil, false, err
		}
		logger.InfoContext(ctx, "tag_updated", slog.Int("tag_id", tag.ID))
		service.publish(ctx, ActionUpdated, tag)
		return tag, false, nil
	}

	tag, err := service.repo.Create(ctx, attrs)
	if err != nil {
		return nil, false, err
	}
	logger.InfoContext(ctx, "tag_created",
		slog.Int("tag_id", tag.ID),
		slog.String("name", tag.Name),
		slog.String("type", pointer.Val(tag.Type)),
	)
	service.publish(ctx, ActionCreated, tag)
	return tag, true, nil
}

// authorize runs the lockout check and the token comparison.
// Errors from the guard backend are logged and do not block writes.
func (service *Service) authorize(ctx context.Context, token string) error {
	logger := service.log(ctx)
	client := ctxutil.GetClientIP(ctx)

	if service.guard != nil {
		if err := service.guard.Check(ctx, client); err != nil {
			if apperr.HasCode(err, apperr.CodeRateLimited) {
				logger.WarnContext(ctx, "tag_write_locked_out", slog.String("client", client))
				return err
			}
			logger.ErrorContext(ctx, "attempt_guard_unavailable", slog.Any("error", err))
		}
	}

	if !service.token.Verify(token) {
		logger.WarnContext(ctx, "tag_write_token_rejected", slog.String("client", client))
		if service.guard != nil {
			if err := service.guard.RecordFailure(ctx, client); err != nil {
				logger.ErrorContext(ctx, "attempt_guard_unavailable", slog.Any("error", err))
			}
		}
		return apperr.Unauthorized("Invalid token")
	}

	if service.guard != nil {
		if err := service.guard.Reset(ctx, client); err != nil {
			logger.ErrorContext(ctx, "attempt_guard_unavailable", slog.Any("error", err))
		}
	}
	return nil
}

// publish emits a change event. Failures are logged only.
func (service *Service) publish(ctx context.Context, action string, tag *Tag) {
	event := Event{Action: action, ID: tag.ID, Tag: tag}
	if err := service.publisher.Publish(ctx, action, event); err != nil {
		service.log(ctx).ErrorContext(ctx, "tag_event_publish_failed",
			slog.String("action", action),
			slog.Int("tag_id", tag.ID),
			slog.Any("error", err),
		)
	}
}

func (service *Service) log(ctx context.Context) *slog.Logger {
	return ctxutil.LoggerOr(ctx, service.logger)
}

// # Input Rules

func validateCreate(input CreateInput) error {
	v := &validate.Validator{}

	if id, ok := input.ID.Get(); ok {
		v.Range(FieldID, id, 1, MaxID)
	}

	v.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		OptionalMaxLen(FieldNameLocalized, input.NameLocalized.Ptr(), MaxNameLength).
		OptionalMaxLen(FieldType, input.Type.Ptr(), MaxNameLength).
		OptionalMaxLen(FieldTypeLocalized, input.TypeLocalized.Ptr(), MaxNameLength).
		OptionalMaxLen(FieldIntroduce, input.Introduce.Ptr(), MaxIntroduceLength).
		OptionalMaxLen(FieldIntroduceLocalized, input.IntroduceLocalized.Ptr(), MaxIntroduceLength)

	return v.Err()
}

// normalize rewrites every text field in Unicode NFC.
func normalize(input CreateInput) CreateInput {
	input.Name = norm.NFC.String(input.Name)
	input.NameLocalized = normalizeField(input.NameLocalized)
	input.Type = normalizeField(input.Type)
	input.TypeLocalized = normalizeField(input.TypeLocalized)
	input.Introduce = normalizeField(input.Introduce)
	input.IntroduceLocalized = normalizeField(input.IntroduceLocalized)
	return input
}

func normalizeField(field optional.Field[string]) optional.Field[string] {
	value, ok := field.Get()
	if !ok {
		return field
	}
	return optional.Of(norm.NFC.String(value))
}
