package jwt_test

import (
	"testing"
	"time"

	"github.com/jhoicas/bodega-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestGenerateParse_RoundTrip(t *testing.T) {
	in := jwt.Identity{UserID: "u1", Email: "a@example.com", Role: "User", WarehouseID: "w1"}
	tok, err := jwt.Generate(secret, "bodega", in, time.Minute)
	require.NoError(t, err)

	got, err := jwt.Parse(secret, "bodega", tok)
	require.NoError(t, err)
	assert.Equal(t, in, *got)
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := jwt.Generate(secret, "bodega", jwt.Identity{UserID: "u1"}, time.Minute)
	require.NoError(t, err)
	expired, err := jwt.Generate(secret, "bodega", jwt.Identity{UserID: "u1"}, -time.Minute)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secreto", "bodega", tok)
	assert.Error(t, err, "firma incorrecta")
	_, err = jwt.Parse(secret, "otro-emisor", tok)
	assert.Error(t, err, "emisor distinto")
	_, err = jwt.Parse(secret, "bodega", expired)
	assert.Error(t, err, "expirado")
	_, err = jwt.Parse(secret, "", "no-es-un-token")
	assert.Error(t, err)
}
