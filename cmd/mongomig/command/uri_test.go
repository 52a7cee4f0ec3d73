// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURICommand(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "database.yml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
dev:
  driver: mongodb
  hosts: [a, "b:9000"]
  user: admin
  password: {ENV: MONGOMIG_CMD_PASSWORD}
  database: app
`), 0o600))
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(
		envFile, []byte("MONGOMIG_CMD_PASSWORD=s3cret\n"), 0o600,
	))
	t.Cleanup(func() { os.Unsetenv("MONGOMIG_CMD_PASSWORD") })

	for _, tc := range []struct {
		args []string
		want string
	}{
		{
			args: []string{"uri", "-c", cfg, "--env-file", envFile},
			want: "mongodb://admin:xxxxx@a:27017,b:9000/app\n",
		},
		{
			args: []string{"uri", "-c", cfg, "--show-password"},
			want: "mongodb://admin:s3cret@a:27017,b:9000/app\n",
		},
	} {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs(tc.args)
		err := rootCmd.ExecuteContext(context.Background())
		require.NoError(t, err, tc.args)
		assert.Equal(t, tc.want, out.String())
	}
}
