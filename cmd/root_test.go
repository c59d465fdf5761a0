package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag of the command tree to its default, since
// the commands are package globals shared between tests
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// testEnv points config at a scratch directory and returns it
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CORPUS_DATABASE_PATH", filepath.Join(dir, "data", "records.db"))
	t.Setenv("CORPUS_STORAGE_AUDIO_DIR", filepath.Join(dir, "uploads"))
	t.Setenv("CORPUS_STORAGE_TEXT_DIR", filepath.Join(dir, "text_uploads"))
	viper.Reset()
	t.Cleanup(viper.Reset)
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	resetFlags(cmd)
	t.Cleanup(func() { resetFlags(cmd) })

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantErr        bool
		expectedOutput string
	}{
		{
			name:           "root command without args shows help",
			args:           []string{},
			expectedOutput: "upload and manage audio recordings",
		},
		{
			name:           "root command with --help",
			args:           []string{"--help"},
			expectedOutput: "Available Commands:",
		},
		{
			name:    "root command with invalid flag",
			args:    []string{"--invalid-flag"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := execute(t, "", tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, output, tt.expectedOutput)
		})
	}
}

func TestLogFlags(t *testing.T) {
	cmd := NewRootCmd()

	logFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logFlag)
	assert.Equal(t, "info", logFlag.DefValue)

	assert.NotNil(t, cmd.PersistentFlags().Lookup("json-logs"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestLoadConfig_UsesEnvironment(t *testing.T) {
	dir := testEnv(t)
	configFile = filepath.Join(dir, "missing.yaml")
	t.Cleanup(func() { configFile = "" })

	cfg, err := loadConfig(NewRootCmd())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "uploads"), cfg.Storage.AudioDir)
	assert.Equal(t, filepath.Join(dir, "text_uploads"), cfg.Storage.TextDir)
	assert.Equal(t, "admin", cfg.Uploads.Uploader)
}
