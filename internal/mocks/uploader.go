package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) UploadStream(ctx context.Context, name string, content io.Reader) (string, error) {
	args := m.Called(ctx, name, content)
	return args.String(0), args.Error(1)
}
