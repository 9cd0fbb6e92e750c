package main

import (
	"bytes"
	"testing"

	"github.com/merial523/graduate-git/internal/config"
	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func run(t *testing.T, db *gorm.DB, args ...string) (string, error) {
	t.Helper()
	cfg := &config.Config{
		Provisioning: config.ProvisioningConfig{CompanyCode: "exa", Address: "gmail.com"},
	}
	root := newRootCmd(func(string) (*env, error) {
		return &env{cfg: cfg, db: db}, nil
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMigrateSeedsConstant(t *testing.T) {
	db := testutil.NewDB(t)
	out, err := run(t, db, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migration completed")

	var c model.SiteConstant
	require.NoError(t, db.First(&c).Error)
	assert.Equal(t, "exa", c.CompanyCode)

	out, err = run(t, db, "seed-constant")
	require.NoError(t, err)
	assert.Contains(t, out, "company_code=exa address=gmail.com")
	var count int64
	db.Model(&model.SiteConstant{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestProvisionAndCheck(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := run(t, db, "seed-constant")
	require.NoError(t, err)

	out, err := run(t, db, "check", "--start", "1", "--count", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "no collisions")

	out, err = run(t, db, "provision", "--start", "1", "--count", "2", "--rank", "staff")
	require.NoError(t, err)
	assert.Contains(t, out, "user1")
	assert.Contains(t, out, "exa2@gmail.com")

	var u model.User
	require.NoError(t, db.Where("username = ?", "user1").First(&u).Error)
	assert.Equal(t, model.Staff, u.Rank)
	_, err = bcrypt.Cost([]byte(u.Password))
	assert.NoError(t, err)

	out, err = run(t, db, "check", "--start", "2", "--count", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "collisions: user2")

	_, err = run(t, db, "provision", "--start", "2", "--count", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user2")
}

func TestProvisionRejectsUnknownRank(t *testing.T) {
	_, err := run(t, testutil.NewDB(t), "provision", "--rank", "owner")
	require.Error(t, err)
}
