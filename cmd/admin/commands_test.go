package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-api/internal/domain"
)

func TestPrintUsers(t *testing.T) {
	users := []domain.User{
		{ID: "u1", Username: "admin", Email: "admin@bookstore.com", Roles: []domain.Role{{Name: domain.RoleAdministrator}}, CreatedAt: time.Now()},
		{ID: "u2", Username: "customer1", Email: "customer1@bookstore.com", Roles: []domain.Role{{Name: domain.RoleCustomer}}},
	}
	var buf bytes.Buffer
	require.NoError(t, printUsers(&buf, users, 3))

	out := buf.String()
	assert.Contains(t, out, "USERNAME")
	assert.Contains(t, out, "admin@bookstore.com")
	assert.Contains(t, out, "Customer")
	assert.Contains(t, out, "total: 3")
}

func TestRootCmd_Wiring(t *testing.T) {
	root := newRootCmd()
	for _, path := range [][]string{{"migrate"}, {"seed"}, {"user", "add"}, {"user", "list"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
	add, _, err := root.Find([]string{"user", "add"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, add.Flag("role").DefValue)
}
