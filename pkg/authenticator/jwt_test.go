package authenticator

import (
	"testing"
	"time"

	"github.com/lifequest-lab/backend/config"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func Test_jwtEngine_roundTrip(t *testing.T) {
	engine := NewTokenEngine[payload](config.TokenConfigs{
		Secret:     "test-secret",
		Expiration: time.Hour,
	})

	token, err := engine.Generate("user-1", payload{ID: "user-1", Name: "alice"})
	require.NoError(t, err)

	data, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, payload{ID: "user-1", Name: "alice"}, data)
}

func Test_jwtEngine_rejectsForgedToken(t *testing.T) {
	engine := NewTokenEngine[payload](config.TokenConfigs{
		Secret:     "test-secret",
		Expiration: time.Hour,
	})
	forger := NewTokenEngine[payload](config.TokenConfigs{
		Secret:     "another-secret",
		Expiration: time.Hour,
	})

	token, err := forger.Generate("user-1", payload{ID: "user-1", Name: "mallory"})
	require.NoError(t, err)

	data, err := engine.Verify(token)
	require.Error(t, err)
	require.Zero(t, data)
}

func Test_jwtEngine_rejectsExpiredToken(t *testing.T) {
	engine := NewTokenEngine[payload](config.TokenConfigs{
		Secret:     "test-secret",
		Expiration: -time.Minute,
	})

	token, err := engine.Generate("user-1", payload{ID: "user-1"})
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}
