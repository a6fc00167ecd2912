package main

import (
	"bytes"
	"testing"
	"time"

	authdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/auth/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	cmd, err := parseCommand("create", []string{"-u", "gerente", "-p", "segredo1", "--role", "viewer"})
	require.NoError(t, err)
	assert.Equal(t, "gerente", cmd.username)
	assert.Equal(t, "segredo1", cmd.password)
	assert.Equal(t, "viewer", cmd.role)

	cmd, err = parseCommand("create", []string{"-u", "dono"})
	require.NoError(t, err)
	assert.Equal(t, authdomain.RoleAdmin, cmd.role)

	_, err = parseCommand("passwd", []string{"-p", "x"})
	assert.Error(t, err)

	_, err = parseCommand("delete", nil)
	assert.Error(t, err)

	_, err = parseCommand("list", nil)
	assert.NoError(t, err)
}

func TestPrintAdmins(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printAdmins(&buf, nil))
	assert.Contains(t, buf.String(), "Nenhum administrador")

	buf.Reset()
	created := time.Date(2026, 2, 3, 14, 5, 0, 0, time.UTC)
	require.NoError(t, printAdmins(&buf, []authdomain.AdminView{
		{ID: "1", Username: "gerente", Name: "Gerente", Role: "admin", CreatedAt: created},
	}))
	out := buf.String()
	assert.Contains(t, out, "gerente")
	assert.Contains(t, out, "nunca")
	assert.Contains(t, out, "03/02/2026 14:05")
}
