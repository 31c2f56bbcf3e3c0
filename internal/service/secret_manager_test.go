package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets map[string]string

func (f fakeSecrets) Access(_ context.Context, name string) (string, error) {
	v, ok := f[name]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (fakeSecrets) Close() error { return nil }

func TestResolveSigningSecret(t *testing.T) {
	ctx := context.Background()
	const res = "projects/p/secrets/jwt/versions/latest"
	sm := fakeSecrets{res: "from-manager", "projects/p/secrets/empty/versions/1": ""}

	got, err := ResolveSigningSecret(ctx, nil, "", "literal")
	require.NoError(t, err)
	assert.Equal(t, "literal", got)

	got, err = ResolveSigningSecret(ctx, sm, res, "literal")
	require.NoError(t, err)
	assert.Equal(t, "from-manager", got)

	_, err = ResolveSigningSecret(ctx, sm, "projects/p/secrets/missing/versions/1", "")
	assert.Error(t, err)
	_, err = ResolveSigningSecret(ctx, sm, "projects/p/secrets/empty/versions/1", "")
	assert.Error(t, err)
	_, err = ResolveSigningSecret(ctx, nil, res, "")
	assert.Error(t, err)
}
