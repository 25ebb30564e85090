package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/levelkeeper/internal/model"
)

// ReportArchive is a mock of model.ReportArchive.
type ReportArchive struct {
	mock.Mock
}

func (m *ReportArchive) Save(ctx context.Context, report model.RunReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *ReportArchive) Load(ctx context.Context, runID uuid.UUID) (model.RunReport, error) {
	args := m.Called(ctx, runID)
	return args.Get(0).(model.RunReport), args.Error(1)
}

func NewReportArchive(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReportArchive {
	m := &ReportArchive{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
