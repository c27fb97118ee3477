package testutil

import (
	"context"

	"github.com/factupro/factupro/internal/types"
)

func SetupContext() context.Context {
	return types.SetRequestID(context.Background(), types.GenerateUUID())
}
