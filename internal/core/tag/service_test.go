// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shici/internal/core/tag"
	"github.com/taibuivan/shici/internal/platform/apperr"
	"github.com/taibuivan/shici/internal/platform/ctxutil"
	"github.com/taibuivan/shici/pkg/optional"
	"github.com/taibuivan/shici/pkg/pagination"
	"github.com/taibuivan/shici/pkg/pointer"
)

const secret = "s3cret"

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newService(repo *MockRepository, guard tag.AttemptGuard, publisher *MockPublisher) *tag.Service {
	if publisher == nil {
		return tag.NewService(repo, staticToken(secret), guard, nil, testLogger)
	}
	return tag.NewService(repo, staticToken(secret), guard, publisher, testLogger)
}

/*
TestService_List derives hasNext from the page and the total.
*/
func TestService_List(t *testing.T) {
	repo := new(MockRepository)
	service := newService(repo, nil, nil)

	query := tag.ListQuery{
		Select: tag.DefaultSelection(),
		Type:   tag.TypeEquals(tag.CipaiType),
		Page:   pagination.Params{Page: 2, PageSize: 10},
	}
	rows := make([]tag.View, 10)
	repo.On("List", mock.Anything, query).Return(rows, 25, nil)

	views, meta, err := service.List(context.Background(), query)

	require.NoError(t, err)
	assert.Len(t, views, 10)
	assert.Equal(t, pagination.Meta{Page: 2, PageSize: 10, HasNext: true, Total: 25}, meta)
	repo.AssertExpectations(t)
}

/*
TestService_FindByID_Missing returns nil without error.
*/
func TestService_FindByID_Missing(t *testing.T) {
	repo := new(MockRepository)
	service := newService(repo, nil, nil)

	repo.On("GetByID", mock.Anything, 404).Return(nil, nil)

	found, err := service.FindByID(context.Background(), 404)
	assert.NoError(t, err)
	assert.Nil(t, found)
}

/*
TestService_UnstorableIDs answers ids no row can carry without a store call.
*/
func TestService_UnstorableIDs(t *testing.T) {
	for _, id := range []int{0, -1, tag.MaxID + 1, math.MaxInt} {
		t.Run(strconv.Itoa(id), func(t *testing.T) {
			repo := new(MockRepository)
			service := newService(repo, nil, nil)

			found, err := service.FindByID(context.Background(), id)
			assert.NoError(t, err)
			assert.Nil(t, found)

			_, err = service.DeleteByID(context.Background(), id)
			assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

			repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		})
	}
}

/*
TestService_DeleteByID_NotFound propagates the store failure.
*/
func TestService_DeleteByID_NotFound(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)
	service := newService(repo, nil, publisher)

	repo.On("Delete", mock.Anything, 9).Return(nil, apperr.NotFound("Tag"))

	_, err := service.DeleteByID(context.Background(), 9)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

/*
TestService_DeleteByID_PublishesEvent returns the removed row and emits "deleted".
*/
func TestService_DeleteByID_PublishesEvent(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)
	service := newService(repo, nil, publisher)

	deleted := &tag.Tag{ID: 3, Name: "浣溪沙"}
	repo.On("Delete", mock.Anything, 3).Return(deleted, nil)
	publisher.On("Publish", mock.Anything, tag.ActionDeleted, tag.Event{Action: tag.ActionDeleted, ID: 3, Tag: deleted}).Return(nil)

	got, err := service.DeleteByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, deleted, got)
	publisher.AssertExpectations(t)
}

/*
TestService_Create_InvalidToken never touches the store.
*/
func TestService_Create_InvalidToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"wrong", "guess"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			service := newService(repo, nil, nil)

			_, _, err := service.Create(context.Background(), tag.CreateInput{
				ID:    optional.Of(1),
				Token: tt.token,
				Name:  "浣溪沙",
			})

			assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

/*
TestService_Create_Insert strips id and token and reports the insert.
*/
func TestService_Create_Insert(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)
	service := newService(repo, nil, publisher)

	attrs := tag.Attributes{Name: "浣溪沙", Type: pointer.To(tag.CipaiType)}
	created := &tag.Tag{ID: 42, Name: "浣溪沙", Type: pointer.To(tag.CipaiType)}
	repo.On("Create", mock.Anything, attrs).Return(created, nil)
	publisher.On("Publish", mock.Anything, tag.ActionCreated, mock.AnythingOfType("tag.Event")).Return(nil)

	got, inserted, err := service.Create(context.Background(), tag.CreateInput{
		Token: secret,
		Name:  "浣溪沙",
		Type:  optional.Of(tag.CipaiType),
	})

	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, 42, got.ID)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

/*
TestService_Create_PartialUpdate passes only present fields to the store.
*/
func TestService_Create_PartialUpdate(t *testing.T) {
	repo := new(MockRepository)
	service := newService(repo, nil, nil)

	attrs := tag.Attributes{Name: "浣溪沙", Introduce: pointer.To("唐教坊曲")}
	updated := &tag.Tag{ID: 7, Name: "浣溪沙", Type: pointer.To(tag.CipaiType), Introduce: pointer.To("唐教坊曲")}
	repo.On("Update", mock.Anything, 7, attrs).Return(updated, nil)

	got, inserted, err := service.Create(context.Background(), tag.CreateInput{
		ID:        optional.Of(7),
		Token:     secret,
		Name:      "浣溪沙",
		Introduce: optional.Of("唐教坊曲"),
	})

	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, updated, got)
	repo.AssertExpectations(t)
}

/*
TestService_Create_UpdateMissing surfaces NOT_FOUND from the store.
*/
func TestService_Create_UpdateMissing(t *testing.T) {
	repo := new(MockRepository)
	service := newService(repo, nil, nil)

	repo.On("Update", mock.Anything, 99, mock.Anything).Return(nil, apperr.NotFound("Tag"))

	_, _, err := service.Create(context.Background(), tag.CreateInput{ID: optional.Of(99), Token: secret, Name: "x"})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestService_Create_Validation rejects bad payloads before the store.
*/
func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input tag.CreateInput
		field string
	}{
		{"empty_name", tag.CreateInput{Token: secret, Name: ""}, tag.FieldName},
		{"blank_name", tag.CreateInput{Token: secret, Name: "  "}, tag.FieldName},
		{"long_name", tag.CreateInput{Token: secret, Name: strings.Repeat("词", tag.MaxNameLength+1)}, tag.FieldName},
		{"long_type", tag.CreateInput{Token: secret, Name: "a", Type: optional.Of(strings.Repeat("t", tag.MaxNameLength+1))}, tag.FieldType},
		{"long_introduce", tag.CreateInput{Token: secret, Name: "a", Introduce: optional.Of(strings.Repeat("i", tag.MaxIntroduceLength+1))}, tag.FieldIntroduce},
		{"zero_id", tag.CreateInput{ID: optional.Of(0), Token: secret, Name: "a"}, tag.FieldID},
		{"id_past_serial_range", tag.CreateInput{ID: optional.Of(tag.MaxID + 1), Token: secret, Name: "a"}, tag.FieldID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			service := newService(repo, nil, nil)

			_, _, err := service.Create(context.Background(), tt.input)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			assert.Equal(t, tt.field, ae.Details[0].Field)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

/*
TestService_Create_NormalizesNFC stores composed characters.
*/
func TestService_Create_NormalizesNFC(t *testing.T) {
	repo := new(MockRepository)
	service := newService(repo, nil, nil)

	// "e" + combining acute accent composes to U+00E9.
	repo.On("Create", mock.Anything, tag.Attributes{Name: "caf\u00e9"}).Return(&tag.Tag{ID: 1, Name: "caf\u00e9"}, nil)

	_, _, err := service.Create(context.Background(), tag.CreateInput{Token: secret, Name: "cafe\u0301"})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

/*
TestService_Create_PublishFailureIgnored keeps the write successful.
*/
func TestService_Create_PublishFailureIgnored(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)
	service := newService(repo, nil, publisher)

	repo.On("Create", mock.Anything, mock.Anything).Return(&tag.Tag{ID: 5, Name: "a"}, nil)
	publisher.On("Publish", mock.Anything, tag.ActionCreated, mock.Anything).Return(errors.New("nats down"))

	got, _, err := service.Create(context.Background(), tag.CreateInput{Token: secret, Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, 5, got.ID)
}

/*
TestService_Create_GuardLockout rejects locked clients before comparing tokens.
*/
func TestService_Create_GuardLockout(t *testing.T) {
	repo := new(MockRepository)
	guard := new(MockGuard)
	service := newService(repo, guard, nil)
	ctx := ctxutil.WithClientIP(context.Background(), "198.51.100.9")

	guard.On("Check", mock.Anything, "198.51.100.9").Return(apperr.RateLimited(60))

	_, _, err := service.Create(ctx, tag.CreateInput{Token: secret, Name: "a"})
	assert.True(t, apperr.HasCode(err, apperr.CodeRateLimited))
	guard.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

/*
TestService_Create_GuardCounting records bad tokens and resets on success.
*/
func TestService_Create_GuardCounting(t *testing.T) {
	repo := new(MockRepository)
	guard := new(MockGuard)
	service := newService(repo, guard, nil)
	ctx := ctxutil.WithClientIP(context.Background(), "198.51.100.9")

	guard.On("Check", mock.Anything, "198.51.100.9").Return(nil)
	guard.On("RecordFailure", mock.Anything, "198.51.100.9").Return(nil).Once()
	guard.On("Reset", mock.Anything, "198.51.100.9").Return(nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(&tag.Tag{ID: 1, Name: "a"}, nil)

	_, _, err := service.Create(ctx, tag.CreateInput{Token: "nope", Name: "a"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, _, err = service.Create(ctx, tag.CreateInput{Token: secret, Name: "a"})
	require.NoError(t, err)

	guard.AssertExpectations(t)
}

/*
TestService_Create_GuardUnavailable fails open when the backend errors.
*/
func TestService_Create_GuardUnavailable(t *testing.T) {
	repo := new(MockRepository)
	guard := new(MockGuard)
	service := newService(repo, guard, nil)

	guard.On("Check", mock.Anything, mock.Anything).Return(errors.New("redis: connection refused"))
	guard.On("Reset", mock.Anything, mock.Anything).Return(errors.New("redis: connection refused"))
	repo.On("Create", mock.Anything, mock.Anything).Return(&tag.Tag{ID: 1, Name: "a"}, nil)

	_, inserted, err := service.Create(context.Background(), tag.CreateInput{Token: secret, Name: "a"})
	require.NoError(t, err)
	assert.True(t, inserted)
}
