// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taibuivan/shici/internal/core/tag"
)

// MockRepository is a testify mock of [tag.Repository].
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, query tag.ListQuery) ([]tag.View, int, error) {
	args := m.Called(ctx, query)
	views, _ := args.Get(0).([]tag.View)
	return views, args.Int(1), args.Error(2)
}

func (m *MockRepository) Count(ctx context.Context) (tag.Counts, error) {
	args := m.Called(ctx)
	return args.Get(0).(tag.Counts), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*tag.Tag, error) {
	args := m.Called(ctx, id)
	found, _ := args.Get(0).(*tag.Tag)
	return found, args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, attrs tag.Attributes) (*tag.Tag, error) {
	args := m.Called(ctx, attrs)
	created, _ := args.Get(0).(*tag.Tag)
	return created, args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id int, attrs tag.Attributes) (*tag.Tag, error) {
	args := m.Called(ctx, id, attrs)
	updated, _ := args.Get(0).(*tag.Tag)
	return updated, args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int) (*tag.Tag, error) {
	args := m.Called(ctx, id)
	deleted, _ := args.Get(0).(*tag.Tag)
	return deleted, args.Error(1)
}

// MockGuard is a testify mock of [tag.AttemptGuard].
type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) Check(ctx context.Context, subject string) error {
	return m.Called(ctx, subject).Error(0)
}

func (m *MockGuard) RecordFailure(ctx context.Context, subject string) error {
	return m.Called(ctx, subject).Error(0)
}

func (m *MockGuard) Reset(ctx context.Context, subject string) error {
	return m.Called(ctx, subject).Error(0)
}

// MockPublisher is a testify mock of [events.Publisher].
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, action string, payload any) error {
	return m.Called(ctx, action, payload).Error(0)
}

// staticToken accepts exactly one secret.
type staticToken string

func (s staticToken) Verify(candidate string) bool {
	return candidate != "" && candidate == string(s)
}
